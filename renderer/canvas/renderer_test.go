package canvasrenderer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/tailor/classify"
	"github.com/ByLCY/tailor/layout"
	"github.com/ByLCY/tailor/renderer"
)

func TestWidthOfScalesWithSize(t *testing.T) {
	for _, typeface := range []string{"go", "latin-modern"} {
		r := NewRenderer(typeface)
		require.NoError(t, r.Prepare())

		w11, err := r.WidthOf("Built scalable systems.", layout.Regular, 11)
		require.NoError(t, err)
		w22, err := r.WidthOf("Built scalable systems.", layout.Regular, 22)
		require.NoError(t, err)

		assert.Greater(t, w11, 0.0, typeface)
		assert.InEpsilon(t, 2*w11, w22, 1e-4, typeface)
	}
}

func TestWidthOfGrowsWithText(t *testing.T) {
	r := NewRenderer("go")
	short, err := r.WidthOf("hello", layout.Regular, 11)
	require.NoError(t, err)
	long, err := r.WidthOf("hello world", layout.Regular, 11)
	require.NoError(t, err)
	assert.Greater(t, long, short)

	// 11pt 的 "hello" 不可能超过 5 个全角宽度。
	assert.Less(t, short, 5*11.0)

	empty, err := r.WidthOf("", layout.Bold, 11)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty)
}

func TestWidthOfRejectsMissingGlyphs(t *testing.T) {
	r := NewRenderer("go")
	_, err := r.WidthOf("履歴書 résumé", layout.Regular, 11)
	assert.ErrorIs(t, err, layout.ErrMeasurement)

	_, err = r.WidthOf("résumé", layout.Bold, 11)
	assert.NoError(t, err)

	_, err = r.WidthOf("text", layout.Regular, 0)
	assert.ErrorIs(t, err, layout.ErrMeasurement)
}

func TestUnknownTypeface(t *testing.T) {
	r := NewRenderer("inter")
	assert.Error(t, r.Prepare())
	_, err := r.WidthOf("x", layout.Regular, 11)
	assert.ErrorIs(t, err, layout.ErrMeasurement)
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("go")
	settings := layout.DefaultSettings()
	settings.Meta = layout.DocumentMeta{Title: "Tailored CV", Author: "tailor", Keywords: []string{"cv"}}

	text := strings.Repeat("Experience:\nShipped a payments platform used by millions of people every day.\n\n", 40)
	res, err := layout.Paginate(classify.Split(text), settings.Options(r))
	require.NoError(t, err)
	require.Greater(t, len(res.Pages), 1)

	data, err := r.Render(res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderEmptyPage(t *testing.T) {
	r := NewRenderer("")
	require.NoError(t, r.Prepare())

	res, err := layout.Paginate(nil, layout.DefaultSettings().Options(r))
	require.NoError(t, err)
	data, err := r.Render(res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderRejectsMissingResult(t *testing.T) {
	r := NewRenderer("go")
	_, err := r.Render(nil)
	assert.ErrorIs(t, err, renderer.ErrSerialization)
	_, err = r.Render(&layout.Result{})
	assert.ErrorIs(t, err, renderer.ErrSerialization)
}

func TestUnitConversion(t *testing.T) {
	assert.InDelta(t, 72.0, toPt(25.4), 1e-3)
	assert.InDelta(t, 25.4, toMm(72), 1e-3)
}
