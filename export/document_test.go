package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"docx":      FormatDOCX,
		"DOCX":      FormatDOCX,
		"flow":      FormatDOCX,
		" pdf ":     FormatPDF,
		"paginated": FormatPDF,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("odt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseDocument(t *testing.T) {
	for _, in := range []string{"cover-letter", "cover_letter", "CoverLetter", "cover letter"} {
		got, err := ParseDocument(in)
		require.NoError(t, err, in)
		assert.Equal(t, CoverLetter, got, in)
	}
	got, err := ParseDocument("CV")
	require.NoError(t, err)
	assert.Equal(t, CV, got)

	_, err = ParseDocument("memo")
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "tailored-cv.docx", Filename(CV, FormatDOCX))
	assert.Equal(t, "tailored-cv.pdf", Filename(CV, FormatPDF))
	assert.Equal(t, "tailored-cover-letter.docx", Filename(CoverLetter, FormatDOCX))
	assert.Equal(t, "tailored-cover-letter.pdf", Filename(CoverLetter, FormatPDF))
	assert.Equal(t, "Tailored Cover Letter", CoverLetter.Label())
}

func TestSelectionContent(t *testing.T) {
	s := Selection{Active: CV, CV: "cv text", CoverLetter: "letter text"}
	got, err := s.Content()
	require.NoError(t, err)
	assert.Equal(t, "cv text", got)

	got, err = s.With(CoverLetter).Content()
	require.NoError(t, err)
	assert.Equal(t, "letter text", got)
	assert.Equal(t, CV, s.Active)

	_, err = Selection{}.Content()
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestCode(t *testing.T) {
	assert.Equal(t, CodeNone, Code(nil))
	assert.Equal(t, CodeMeasurement, Code(fmt.Errorf("wrap: %w", ErrMeasurement)))
	assert.Equal(t, CodeSerialization, Code(fmt.Errorf("wrap: %w", ErrSerialization)))
	assert.Equal(t, CodeDelivery, Code(fmt.Errorf("wrap: %w", ErrDelivery)))
	assert.Equal(t, CodeInvalid, Code(ErrUnknownFormat))
	assert.Equal(t, CodeInvalid, Code(fmt.Errorf("wrap: %w", ErrInvalidOptions)))
	assert.Equal(t, CodeUnknown, Code(errors.New("other")))
}

func TestDirSinkReleaseRemovesStagedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := NewDirSink(dir)
	art := &Artifact{Filename: "tailored-cv.pdf", Data: []byte("%PDF-1.7")}

	dl, err := sink.Stage(context.Background(), art)
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEqual(t, "tailored-cv.pdf", entries[0].Name())

	require.NoError(t, dl.Release())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, dl.Release())
}

func TestDirSinkDeliverRenames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tailored-cv.pdf"), []byte("old"), 0o644))

	art := &Artifact{Filename: "tailored-cv.pdf", Data: []byte("new")}
	dl, err := NewDirSink(dir).Stage(context.Background(), art)
	require.NoError(t, err)
	require.NoError(t, dl.Deliver(context.Background()))
	require.NoError(t, dl.Release())

	data, err := os.ReadFile(filepath.Join(dir, "tailored-cv.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestDirSinkHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDirSink(t.TempDir()).Stage(ctx, &Artifact{Filename: "x.pdf"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewDirSink(t.TempDir()).Stage(context.Background(), &Artifact{Filename: ".."})
	assert.Error(t, err)
}
