// Package design describes the visual parameters of a rendered quotation.
//
// A Config is a value: renderers copy it and never write back. Colors are
// validated when the config is parsed, so consumers can rely on every color
// being a plain RGB triple.
package design

import (
	"fmt"
	"strings"
)

// PaperSize names a supported page format.
type PaperSize string

const (
	PaperA4     PaperSize = "A4"
	PaperLetter PaperSize = "Letter"
)

// Dimensions returns the page size in points.
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperLetter:
		return 612, 792
	default:
		return 595.28, 841.89
	}
}

// Margin is the fixed page margin on all sides, in points.
const Margin = 40.0

// Align is the horizontal alignment of the header block.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// SizeTier selects a row of the font-size table.
type SizeTier string

const (
	SizeSmall  SizeTier = "small"
	SizeMedium SizeTier = "medium"
	SizeLarge  SizeTier = "large"
)

// FontSizes are the five semantic sizes of a tier, in points.
type FontSizes struct {
	Title   float64
	Heading float64
	Body    float64
	Label   float64
	Money   float64
}

var sizeTable = map[SizeTier]FontSizes{
	SizeSmall:  {Title: 18, Heading: 11, Body: 9, Label: 7, Money: 9},
	SizeMedium: {Title: 22, Heading: 13, Body: 10, Label: 8, Money: 10},
	SizeLarge:  {Title: 26, Heading: 15, Body: 12, Label: 9, Money: 12},
}

// Sizes returns the point sizes for the tier; unknown tiers fall back to medium.
func (t SizeTier) Sizes() FontSizes {
	if s, ok := sizeTable[t]; ok {
		return s
	}
	return sizeTable[SizeMedium]
}

// Colors is the full color set of a document.
type Colors struct {
	HeaderBackground      Color `json:"headerBackground" yaml:"headerBackground"`
	HeaderText            Color `json:"headerText" yaml:"headerText"`
	Accent                Color `json:"accent" yaml:"accent"`
	BodyBackground        Color `json:"bodyBackground" yaml:"bodyBackground"`
	BodyText              Color `json:"bodyText" yaml:"bodyText"`
	TableBorder           Color `json:"tableBorder" yaml:"tableBorder"`
	TableHeaderBackground Color `json:"tableHeaderBackground" yaml:"tableHeaderBackground"`
	TableHeaderText       Color `json:"tableHeaderText" yaml:"tableHeaderText"`
	TableStripe           Color `json:"tableStripe" yaml:"tableStripe"`
}

// Fonts names the three font roles. Names are resolved by the fonts package.
type Fonts struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
	Mono  string `json:"mono" yaml:"mono"`
}

// Config is the complete design configuration.
type Config struct {
	Colors      Colors    `json:"colors" yaml:"colors"`
	Fonts       Fonts     `json:"fonts" yaml:"fonts"`
	FontSize    SizeTier  `json:"fontSize" yaml:"fontSize"`
	ShowLogo    bool      `json:"showLogo" yaml:"showLogo"`
	ShowBorders bool      `json:"showBorders" yaml:"showBorders"`
	HeaderAlign Align     `json:"headerAlign" yaml:"headerAlign"`
	PaperSize   PaperSize `json:"paperSize" yaml:"paperSize"`
}

// Default returns the configuration used when the settings collaborator has
// nothing stored for an owner.
func Default() Config {
	return Config{
		Colors: Colors{
			HeaderBackground:      MustColor("#1e3a5f"),
			HeaderText:            MustColor("#ffffff"),
			Accent:                MustColor("#f59e0b"),
			BodyBackground:        MustColor("#ffffff"),
			BodyText:              MustColor("#1f2937"),
			TableBorder:           MustColor("#d1d5db"),
			TableHeaderBackground: MustColor("#1e3a5f"),
			TableHeaderText:       MustColor("#ffffff"),
			TableStripe:           MustColor("#f3f4f6"),
		},
		Fonts:       Fonts{Title: "Helvetica", Body: "Helvetica", Mono: "Courier"},
		FontSize:    SizeMedium,
		ShowLogo:    true,
		ShowBorders: true,
		HeaderAlign: AlignLeft,
		PaperSize:   PaperA4,
	}
}

// Sizes is shorthand for c.FontSize.Sizes().
func (c Config) Sizes() FontSizes { return c.FontSize.Sizes() }

// Validate checks the enumerated fields. Colors are already validated by
// ParseColor during decoding.
func (c Config) Validate() error {
	var problems []string
	switch c.FontSize {
	case SizeSmall, SizeMedium, SizeLarge:
	default:
		problems = append(problems, fmt.Sprintf("unknown font size %q", c.FontSize))
	}
	switch c.HeaderAlign {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		problems = append(problems, fmt.Sprintf("unknown header alignment %q", c.HeaderAlign))
	}
	switch c.PaperSize {
	case PaperA4, PaperLetter:
	default:
		problems = append(problems, fmt.Sprintf("unknown paper size %q", c.PaperSize))
	}
	if strings.TrimSpace(c.Fonts.Title) == "" || strings.TrimSpace(c.Fonts.Body) == "" || strings.TrimSpace(c.Fonts.Mono) == "" {
		problems = append(problems, "all three font roles must be named")
	}
	if len(problems) > 0 {
		return fmt.Errorf("design: %s", strings.Join(problems, "; "))
	}
	return nil
}
