// Package fonts provides measured fonts for layout and PDF output. Every font
// is a simple font in WinAnsiEncoding: either one of the standard 14 (no
// embedding) or a TrueType face embedded as FontFile2.
package fonts

import (
	"fmt"
	"math"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Font is an immutable measured font. Safe for concurrent use.
type Font struct {
	name    string
	widths  [256]int
	ascent  int
	descent int
	tt      *TrueType
}

// TrueType carries what the writer needs to embed a TrueType face.
type TrueType struct {
	Data        []byte
	Flags       int
	ItalicAngle float64
	CapHeight   float64
	StemV       int
	BBox        [4]float64
}

// Name is the PDF BaseFont name.
func (f *Font) Name() string { return f.name }

// Embedded returns the TrueType program, or nil for standard fonts.
func (f *Font) Embedded() *TrueType { return f.tt }

// Ascent and Descent are in 1/1000 em; Descent is negative.
func (f *Font) Ascent() int  { return f.ascent }
func (f *Font) Descent() int { return f.descent }

// Widths returns the advance table for codes first..last.
func (f *Font) Widths() (first, last int, widths []int) {
	out := make([]int, 0, 224)
	for c := 32; c <= 255; c++ {
		out = append(out, f.widths[c])
	}
	return 32, 255, out
}

// Encode maps s to the bytes shown by the font's Tj operator.
func (f *Font) Encode(s string) []byte { return EncodeWinAnsi(s) }

// Measure returns the width of s at size points.
func (f *Font) Measure(s string, size float64) float64 {
	total := 0
	for _, b := range EncodeWinAnsi(s) {
		total += f.widths[b]
	}
	return float64(total) * size / 1000
}

var standard = map[string]*Font{}

func init() {
	for _, m := range coreFonts {
		f := &Font{name: m.name, ascent: m.ascent, descent: m.descent}
		for c := 32; c <= 255; c++ {
			f.widths[c] = m.advance(byte(c))
		}
		standard[m.name] = f
	}
}

func (m coreMetrics) advance(b byte) int {
	if m.fixed > 0 {
		return m.fixed
	}
	if b >= 0x20 && b < 0x7f {
		return m.ascii[b-0x20]
	}
	r := decodeWinAnsi(b)
	if r == 0 {
		return m.fallback
	}
	for _, base := range norm.NFKD.String(string(r)) {
		if base >= 0x20 && base < 0x7f {
			return m.ascii[base-0x20]
		}
		break
	}
	if r == '—' {
		return 1000
	}
	return m.fallback
}

// Standard returns a standard-14 font by exact PDF name.
func Standard(name string) (*Font, bool) {
	f, ok := standard[name]
	return f, ok
}

// StandardFamily maps an arbitrary family name to the closest standard font.
func StandardFamily(family string, bold bool) *Font {
	n := strings.ToLower(family)
	base := "Helvetica"
	switch {
	case strings.Contains(n, "courier"), strings.Contains(n, "mono"):
		base = "Courier"
	case strings.Contains(n, "times"), strings.Contains(n, "georgia"), strings.Contains(n, "garamond"),
		strings.Contains(n, "serif") && !strings.Contains(n, "sans"):
		base = "Times-Roman"
	}
	if bold {
		switch base {
		case "Times-Roman":
			base = "Times-Bold"
		default:
			base += "-Bold"
		}
	}
	return standard[base]
}

// LoadTrueType parses a TrueType/OpenType font and builds a WinAnsi simple
// font around it. The full program is embedded.
func LoadTrueType(name string, data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("truetype font data is empty")
	}
	font, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	unitsPerEm := font.UnitsPerEm()
	if unitsPerEm == 0 {
		return nil, fmt.Errorf("invalid unitsPerEm")
	}
	buf := &sfnt.Buffer{}
	ppem := fixed.Int26_6(unitsPerEm << 6)

	baseName := strings.TrimSpace(name)
	if ps, _ := font.Name(buf, sfnt.NameIDPostScript); len(ps) > 0 {
		baseName = ps
	}
	if baseName == "" {
		baseName = "CustomTT"
	}
	baseName = strings.ReplaceAll(baseName, " ", "")

	f := &Font{name: baseName}
	missing := 0
	if gi, err := font.GlyphIndex(buf, ' '); err == nil {
		if adv, err := font.GlyphAdvance(buf, gi, ppem, xfont.HintingNone); err == nil {
			missing = int(math.Round(scaleFixed(adv, unitsPerEm)))
		}
	}
	for c := 32; c <= 255; c++ {
		f.widths[c] = missing
		r := decodeWinAnsi(byte(c))
		if r == 0 {
			continue
		}
		gi, err := font.GlyphIndex(buf, r)
		if err != nil || gi == 0 {
			continue
		}
		adv, err := font.GlyphAdvance(buf, gi, ppem, xfont.HintingNone)
		if err != nil {
			continue
		}
		f.widths[c] = int(math.Round(scaleFixed(adv, unitsPerEm)))
	}

	metrics, _ := font.Metrics(buf, ppem, xfont.HintingNone)
	bounds, _ := font.Bounds(buf, ppem, xfont.HintingNone)
	f.ascent = int(math.Round(scaleFixed(metrics.Ascent, unitsPerEm)))
	f.descent = -int(math.Round(scaleFixed(metrics.Descent, unitsPerEm)))
	f.tt = &TrueType{
		Data:        data,
		Flags:       32,
		ItalicAngle: italicAngle(font),
		CapHeight:   scaleFixed(metrics.CapHeight, unitsPerEm),
		StemV:       80,
		BBox: [4]float64{
			scaleFixed(bounds.Min.X, unitsPerEm),
			-scaleFixed(bounds.Max.Y, unitsPerEm),
			scaleFixed(bounds.Max.X, unitsPerEm),
			-scaleFixed(bounds.Min.Y, unitsPerEm),
		},
	}
	if f.tt.CapHeight == 0 {
		f.tt.CapHeight = float64(f.ascent)
	}
	return f, nil
}

func italicAngle(font *sfnt.Font) float64 {
	post := font.PostTable()
	if post == nil {
		return 0
	}
	return post.ItalicAngle
}

func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}
