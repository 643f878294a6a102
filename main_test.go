package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExportCommandSingle(t *testing.T) {
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", "Summary:\nBuilt scalable systems.")
	out := filepath.Join(dir, "out")

	stdout, err := runCLI(t, "export", "--cv", cv, "--format", "docx", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "tailored-cv.docx")
	assert.FileExists(t, filepath.Join(out, "tailored-cv.docx"))
}

func TestExportCommandAll(t *testing.T) {
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", "EXPERIENCE\nShipped things.")
	letter := writeFile(t, dir, "letter.txt", "Dear Hiring Manager,\n\nI would love to join.")
	out := filepath.Join(dir, "out")

	_, err := runCLI(t, "export", "--cv", cv, "--cover-letter", letter, "--all", "--out", out)
	require.NoError(t, err)
	for _, name := range []string{
		"tailored-cv.docx", "tailored-cv.pdf",
		"tailored-cover-letter.docx", "tailored-cover-letter.pdf",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestExportCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", "text")

	_, err := runCLI(t, "export", "--cv", cv, "--document", "cover-letter", "--out", dir)
	assert.ErrorContains(t, err, "cover-letter")

	_, err = runCLI(t, "export", "--cv", cv, "--format", "odt", "--out", dir)
	assert.Error(t, err)

	_, err = runCLI(t, "export", "--all", "--out", dir)
	assert.Error(t, err)

	_, err = runCLI(t, "--log-level", "loud", "export", "--cv", cv)
	assert.ErrorContains(t, err, "config error")
}

func TestExportCommandWithProfile(t *testing.T) {
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", "Profile\nEngineer.")
	profile := writeFile(t, dir, "cv.profile", "profile letter {\n  page Letter\n  typeface: latin-modern\n}\n")
	out := filepath.Join(dir, "out")

	_, err := runCLI(t, "--profile", profile, "export", "--cv", cv, "--out", out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "tailored-cv.pdf"))
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	cv := writeFile(t, dir, "cv.txt", "Summary:\nBuilt scalable systems.\n\nSKILLS")
	debug := filepath.Join(dir, "debug", "layout.json")

	stdout, err := runCLI(t, "inspect", cv, "--debug-json", debug)
	require.NoError(t, err)
	assert.Contains(t, stdout, "heading")
	assert.Contains(t, stdout, "blank")
	assert.Contains(t, stdout, "pages: 1  runs: 3")

	data, err := os.ReadFile(debug)
	require.NoError(t, err)
	var res struct {
		Pages []struct {
			Runs []struct {
				Text    string `json:"text"`
				Variant string `json:"variant"`
			} `json:"runs"`
		} `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(data, &res))
	require.Len(t, res.Pages, 1)
	assert.Equal(t, "bold", res.Pages[0].Runs[0].Variant)
	assert.Equal(t, "Summary:", res.Pages[0].Runs[0].Text)
}
