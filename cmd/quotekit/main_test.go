package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/quotekit/quote/quotetest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	q := writeJSON(t, dir, "q.json", quotetest.ScenarioA())
	company := writeJSON(t, dir, "company.json", quotetest.Company())
	out := filepath.Join(dir, "out.pdf")

	_, err := run(t, "render", "-q", q, "--company", company, "-d", "modern", "-o", out, "--log-level", "error")
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	q := writeJSON(t, dir, "q.json", quotetest.Minimal())
	out := filepath.Join(dir, "out.html")

	_, err := run(t, "preview", "-q", q, "-o", out, "--fragment", "--log-level", "error")
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<div class="quotation`))
}

func TestRenderCommand_InvalidQuotation(t *testing.T) {
	dir := t.TempDir()
	bad := quotetest.Minimal()
	bad.Customer.Name = ""
	q := writeJSON(t, dir, "q.json", bad)

	_, err := run(t, "render", "-q", q, "-o", filepath.Join(dir, "out.pdf"), "--log-level", "error")
	assert.ErrorContains(t, err, "customer name is required")
}

func TestDesignCommands(t *testing.T) {
	out, err := run(t, "design", "default", "--preset", "modern")
	require.NoError(t, err)
	assert.Contains(t, out, "headerAlign: center")

	_, err = run(t, "design", "default", "--preset", "nope")
	assert.ErrorContains(t, err, "unknown preset")

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("paperSize: Letter\ncolors:\n  accent: \"#ff0000\"\n"), 0o600))
	out, err = run(t, "design", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.yaml: ok")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("colors:\n  accent: \"not-a-color\"\n"), 0o600))
	_, err = run(t, "design", "validate", bad)
	assert.Error(t, err)
}

func TestValidLogo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	assert.NoError(t, validLogo(buf.Bytes()))
	assert.Error(t, validLogo(buf.Bytes()[:buf.Len()-20]))
	assert.Error(t, validLogo([]byte("<svg/>")))
}
