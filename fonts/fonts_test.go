package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestEncodeWinAnsi(t *testing.T) {
	assert.Equal(t, []byte("Motor WEG"), EncodeWinAnsi("Motor WEG"))
	assert.Equal(t, []byte{'f', 'l', 'e', 'x', 0xED, 'v', 'e', 'l'}, EncodeWinAnsi("flexível"))
	assert.Equal(t, []byte{'m', 'm', 0xB2}, EncodeWinAnsi("mm²"))
	assert.Equal(t, []byte{0x80}, EncodeWinAnsi("€"))
	assert.Equal(t, []byte("a b"), EncodeWinAnsi("a\tb"))
	assert.Equal(t, []byte("?"), EncodeWinAnsi("→"))
	assert.Equal(t, []byte("f"), EncodeWinAnsi("ﬀ"))
	assert.True(t, Representable("Página 1 de 2"))
	assert.False(t, Representable("→"))
}

func TestStandardMeasure(t *testing.T) {
	h, ok := Standard("Helvetica")
	require.True(t, ok)
	// "Hi": H=722, i=222
	assert.InDelta(t, 9.44, h.Measure("Hi", 10), 1e-9)
	// accented letters measure as their base letter
	assert.Equal(t, h.Measure("e", 12), h.Measure("é", 12))

	c, _ := Standard("Courier")
	assert.InDelta(t, 30.0, c.Measure("abcde", 10), 1e-9)

	b, _ := Standard("Helvetica-Bold")
	assert.Greater(t, b.Measure("TOTAL", 10), h.Measure("TOTAL", 10))
	assert.Nil(t, h.Embedded())
}

func TestStandardFamily(t *testing.T) {
	cases := map[string][2]string{
		"Helvetica":       {"Helvetica", "Helvetica-Bold"},
		"Arial":           {"Helvetica", "Helvetica-Bold"},
		"Times New Roman": {"Times-Roman", "Times-Bold"},
		"Georgia":         {"Times-Roman", "Times-Bold"},
		"JetBrains Mono":  {"Courier", "Courier-Bold"},
		"Open Sans":       {"Helvetica", "Helvetica-Bold"},
		"serif":           {"Times-Roman", "Times-Bold"},
	}
	for in, want := range cases {
		assert.Equal(t, want[0], StandardFamily(in, false).Name(), in)
		assert.Equal(t, want[1], StandardFamily(in, true).Name(), in)
	}
}

func TestWidthsTable(t *testing.T) {
	h, _ := Standard("Helvetica")
	first, last, widths := h.Widths()
	assert.Equal(t, 32, first)
	assert.Equal(t, 255, last)
	assert.Len(t, widths, last-first+1)
	assert.Equal(t, 278, widths[0])
}

func TestLoadTrueType(t *testing.T) {
	f, err := LoadTrueType("Go", goregular.TTF)
	require.NoError(t, err)
	assert.NotEmpty(t, f.Name())
	assert.NotContains(t, f.Name(), " ")
	require.NotNil(t, f.Embedded())
	assert.Equal(t, goregular.TTF, f.Embedded().Data)
	assert.Greater(t, f.Ascent(), 0)
	assert.Less(t, f.Descent(), 0)
	assert.Greater(t, f.Measure("Hello", 10), 0.0)
	assert.Greater(t, f.Measure("W", 10), f.Measure("i", 10))

	_, err = LoadTrueType("empty", nil)
	assert.Error(t, err)
	_, err = LoadTrueType("junk", []byte("not a font"))
	assert.Error(t, err)
}

func TestRegistryFace(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Go", goregular.TTF))
	require.NoError(t, r.Register("Go-Bold", gobold.TTF))

	face := r.Face("go")
	require.NotNil(t, face.Regular.Embedded())
	assert.NotSame(t, face.Regular, face.Bold)
	assert.NotEqual(t, face.Regular.Name(), face.Bold.Name())

	fallback := r.Face("Times")
	assert.Equal(t, "Times-Roman", fallback.Regular.Name())

	var nilReg *Registry
	assert.Equal(t, "Helvetica", nilReg.Face("Go").Regular.Name())
}

func TestRegistryLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Brand.ttf"), goregular.TTF, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	r := NewRegistry()
	n, err := r.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"brand"}, r.Names())
	face := r.Face("Brand")
	assert.Same(t, face.Regular, face.Bold)
}
