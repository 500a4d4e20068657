package design

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"#1e3a5f", "#1e3a5f"},
		{"#FFF", "#ffffff"},
		{"#11223380", "#112233"},
		{"rgb(30, 58, 95)", "#1e3a5f"},
		{"rgba(255,0,0,0.5)", "#ff0000"},
		{"  #abc  ", "#aabbcc"},
	}
	for _, tc := range cases {
		c, err := ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, c.Hex(), tc.in)
	}
}

func TestParseColorRejects(t *testing.T) {
	for _, in := range []string{"", "red", "#12", "#gggggg", "rgb(1,2)", "rgb(300,0,0)", "rgba(1,2,3,2)", "hsl(1,2,3)"} {
		_, err := ParseColor(in)
		assert.True(t, errors.Is(err, ErrInvalidColor), "expected invalid color for %q", in)
	}
}

func TestColorRGB(t *testing.T) {
	r, g, b := MustColor("#ff8000").RGB()
	assert.Equal(t, 1.0, r)
	assert.InDelta(t, 0.50196, g, 1e-4)
	assert.Equal(t, 0.0, b)
}

func TestPaperDimensions(t *testing.T) {
	w, h := PaperA4.Dimensions()
	assert.Equal(t, 595.28, w)
	assert.Equal(t, 841.89, h)
	w, h = PaperLetter.Dimensions()
	assert.Equal(t, 612.0, w)
	assert.Equal(t, 792.0, h)
}

func TestSizeTiers(t *testing.T) {
	assert.Equal(t, 18.0, SizeSmall.Sizes().Title)
	assert.Equal(t, 10.0, SizeMedium.Sizes().Body)
	assert.Equal(t, 15.0, SizeLarge.Sizes().Heading)
	assert.Equal(t, SizeMedium.Sizes(), SizeTier("huge").Sizes())
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	src := `
colors:
  accent: "rgb(16, 185, 129)"
paperSize: Letter
showLogo: false
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "#10b981", cfg.Colors.Accent.Hex())
	assert.Equal(t, PaperLetter, cfg.PaperSize)
	assert.False(t, cfg.ShowLogo)
	assert.Equal(t, Default().Colors.HeaderBackground, cfg.Colors.HeaderBackground)
	assert.Equal(t, SizeMedium, cfg.FontSize)
}

func TestDecodeAcceptsJSON(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`{"fontSize":"large","headerAlign":"right"}`))
	require.NoError(t, err)
	assert.Equal(t, SizeLarge, cfg.FontSize)
	assert.Equal(t, AlignRight, cfg.HeaderAlign)
}

func TestDecodeRejectsBadColor(t *testing.T) {
	_, err := Decode(strings.NewReader("colors:\n  accent: papaya\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidColor))
}

func TestDecodeRejectsUnknownPaper(t *testing.T) {
	_, err := Decode(strings.NewReader("paperSize: A3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper size")
}

func TestEncodeRoundTrip(t *testing.T) {
	want, ok := Preset("modern")
	require.True(t, ok)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, want, false))
	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMergeLeavesBaseUntouched(t *testing.T) {
	base := Default()
	tier := SizeSmall
	out := Merge(base, Override{FontSize: &tier, Fonts: &Fonts{Body: "Times"}})
	assert.Equal(t, SizeSmall, out.FontSize)
	assert.Equal(t, "Times", out.Fonts.Body)
	assert.Equal(t, "Helvetica", out.Fonts.Title)
	assert.Equal(t, SizeMedium, base.FontSize)
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"classic", "minimal", "modern"}, Presets())
	for _, name := range Presets() {
		cfg, ok := Preset(name)
		require.True(t, ok)
		assert.NoError(t, cfg.Validate(), name)
	}
	_, ok := Preset("neon")
	assert.False(t, ok)
}
