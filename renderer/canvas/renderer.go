package canvasrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/tailor/fonts"
	"github.com/ByLCY/tailor/layout"
	"github.com/ByLCY/tailor/renderer"
)

// Renderer measures and draws text via github.com/tdewolff/canvas.
// Layout coordinates are points with the origin at the bottom-left corner;
// canvas works in millimetres, so conversion happens only at this boundary.
type Renderer struct {
	typeface string

	fontMu   sync.Mutex
	family   *canvas.FontFamily
	coverage map[layout.FontVariant]*sfnt.Font
	faces    map[faceKey]*canvas.FontFace
}

var (
	_ renderer.PageRenderer = (*Renderer)(nil)
	_ layout.Measurer       = (*Renderer)(nil)
)

type faceKey struct {
	variant layout.FontVariant
	size    float64
}

// NewRenderer creates a renderer for one of the built-in typefaces (see fonts.Names).
// Fonts are loaded lazily on first use or eagerly via Prepare.
func NewRenderer(typeface string) *Renderer {
	if typeface == "" {
		typeface = layout.DefaultTypeface
	}
	return &Renderer{
		typeface: typeface,
		faces:    map[faceKey]*canvas.FontFace{},
	}
}

// Prepare loads the regular and bold variants of the typeface.
func (r *Renderer) Prepare() error {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return r.prepareLocked()
}

func (r *Renderer) prepareLocked() error {
	if r.family != nil {
		return nil
	}
	tf, err := fonts.Lookup(r.typeface)
	if err != nil {
		return err
	}
	family := canvas.NewFontFamily(tf.Name)
	coverage := map[layout.FontVariant]*sfnt.Font{}
	for _, v := range []struct {
		variant layout.FontVariant
		style   canvas.FontStyle
		data    []byte
	}{
		{layout.Regular, canvas.FontRegular, tf.Regular},
		{layout.Bold, canvas.FontBold, tf.Bold},
	} {
		if err := family.LoadFont(v.data, 0, v.style); err != nil {
			return fmt.Errorf("加载字体 %s (%s) 失败: %w", tf.Name, v.variant, err)
		}
		parsed, err := sfnt.Parse(v.data)
		if err != nil {
			return fmt.Errorf("解析字体 %s (%s) 失败: %w", tf.Name, v.variant, err)
		}
		coverage[v.variant] = parsed
	}
	r.family = family
	r.coverage = coverage
	return nil
}

// WidthOf implements layout.Measurer; the returned width is in points.
func (r *Renderer) WidthOf(text string, variant layout.FontVariant, sizePt float64) (float64, error) {
	if sizePt <= 0 {
		return 0, fmt.Errorf("%w: 字号必须为正数: %g", layout.ErrMeasurement, sizePt)
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if err := r.prepareLocked(); err != nil {
		return 0, fmt.Errorf("%w: %w", layout.ErrMeasurement, err)
	}
	if err := r.checkCoverage(text, variant); err != nil {
		return 0, err
	}
	face := r.faceLocked(variant, sizePt)
	return toPt(face.TextWidth(text)), nil
}

// checkCoverage reports runes the typeface has no glyph for.
func (r *Renderer) checkCoverage(text string, variant layout.FontVariant) error {
	f := r.coverage[variant]
	var buf sfnt.Buffer
	for _, ch := range text {
		if ch == ' ' {
			continue
		}
		idx, err := f.GlyphIndex(&buf, ch)
		if err != nil {
			return fmt.Errorf("%w: 查询字形 %q 失败: %w", layout.ErrMeasurement, ch, err)
		}
		if idx == 0 {
			return fmt.Errorf("%w: 字体 %s 不支持字符 %q", layout.ErrMeasurement, r.typeface, ch)
		}
	}
	return nil
}

func (r *Renderer) faceLocked(variant layout.FontVariant, sizePt float64) *canvas.FontFace {
	key := faceKey{variant: variant, size: sizePt}
	if face, ok := r.faces[key]; ok {
		return face
	}
	style := canvas.FontRegular
	if variant == layout.Bold {
		style = canvas.FontBold
	}
	face := r.family.Face(sizePt, canvas.Black, style, canvas.FontNormal)
	r.faces[key] = face
	return face
}

// Render draws every TextRun verbatim and returns the PDF bytes.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: 渲染结果为空", renderer.ErrSerialization)
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("%w: 缺少可渲染的页面", renderer.ErrSerialization)
	}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if err := r.prepareLocked(); err != nil {
		return nil, fmt.Errorf("%w: %w", renderer.ErrSerialization, err)
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianI) // 原点在左下角，y 轴向上，与排版坐标一致
		for _, run := range page.Runs {
			face := r.faceLocked(run.Variant, run.SizePt)
			ctx.DrawText(toMm(run.X), toMm(run.Y), canvas.NewTextLine(face, run.Text, canvas.Left))
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: 写入 PDF 失败: %w", renderer.ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
