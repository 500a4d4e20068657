package design

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Override is a partial design; nil fields keep the base value.
type Override struct {
	Colors      *ColorsOverride `json:"colors,omitempty" yaml:"colors,omitempty"`
	Fonts       *Fonts          `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	FontSize    *SizeTier       `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	ShowLogo    *bool           `json:"showLogo,omitempty" yaml:"showLogo,omitempty"`
	ShowBorders *bool           `json:"showBorders,omitempty" yaml:"showBorders,omitempty"`
	HeaderAlign *Align          `json:"headerAlign,omitempty" yaml:"headerAlign,omitempty"`
	PaperSize   *PaperSize      `json:"paperSize,omitempty" yaml:"paperSize,omitempty"`
}

// ColorsOverride mirrors Colors with optional members.
type ColorsOverride struct {
	HeaderBackground      *Color `json:"headerBackground,omitempty" yaml:"headerBackground,omitempty"`
	HeaderText            *Color `json:"headerText,omitempty" yaml:"headerText,omitempty"`
	Accent                *Color `json:"accent,omitempty" yaml:"accent,omitempty"`
	BodyBackground        *Color `json:"bodyBackground,omitempty" yaml:"bodyBackground,omitempty"`
	BodyText              *Color `json:"bodyText,omitempty" yaml:"bodyText,omitempty"`
	TableBorder           *Color `json:"tableBorder,omitempty" yaml:"tableBorder,omitempty"`
	TableHeaderBackground *Color `json:"tableHeaderBackground,omitempty" yaml:"tableHeaderBackground,omitempty"`
	TableHeaderText       *Color `json:"tableHeaderText,omitempty" yaml:"tableHeaderText,omitempty"`
	TableStripe           *Color `json:"tableStripe,omitempty" yaml:"tableStripe,omitempty"`
}

// Merge overlays o on base and returns the result. base is not modified.
func Merge(base Config, o Override) Config {
	out := base
	if o.Colors != nil {
		pick := func(dst *Color, src *Color) {
			if src != nil {
				*dst = *src
			}
		}
		pick(&out.Colors.HeaderBackground, o.Colors.HeaderBackground)
		pick(&out.Colors.HeaderText, o.Colors.HeaderText)
		pick(&out.Colors.Accent, o.Colors.Accent)
		pick(&out.Colors.BodyBackground, o.Colors.BodyBackground)
		pick(&out.Colors.BodyText, o.Colors.BodyText)
		pick(&out.Colors.TableBorder, o.Colors.TableBorder)
		pick(&out.Colors.TableHeaderBackground, o.Colors.TableHeaderBackground)
		pick(&out.Colors.TableHeaderText, o.Colors.TableHeaderText)
		pick(&out.Colors.TableStripe, o.Colors.TableStripe)
	}
	if o.Fonts != nil {
		if o.Fonts.Title != "" {
			out.Fonts.Title = o.Fonts.Title
		}
		if o.Fonts.Body != "" {
			out.Fonts.Body = o.Fonts.Body
		}
		if o.Fonts.Mono != "" {
			out.Fonts.Mono = o.Fonts.Mono
		}
	}
	if o.FontSize != nil {
		out.FontSize = *o.FontSize
	}
	if o.ShowLogo != nil {
		out.ShowLogo = *o.ShowLogo
	}
	if o.ShowBorders != nil {
		out.ShowBorders = *o.ShowBorders
	}
	if o.HeaderAlign != nil {
		out.HeaderAlign = *o.HeaderAlign
	}
	if o.PaperSize != nil {
		out.PaperSize = *o.PaperSize
	}
	return out
}

// Decode reads a partial design in YAML (a superset of JSON), overlays it on
// Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("design: read: %w", err)
	}
	var o Override
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &o); err != nil {
			return Config{}, fmt.Errorf("design: parse: %w", err)
		}
	}
	cfg := Merge(Default(), o)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes a design file. A name matching a preset (e.g. "modern")
// returns that preset instead of reading the filesystem.
func LoadFile(path string) (Config, error) {
	if p, ok := Preset(path); ok {
		return p, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("design: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes cfg as YAML, or JSON when asJSON is set.
func Encode(w io.Writer, cfg Config, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

var presets = map[string]func() Config{
	"classic": Default,
	"modern": func() Config {
		c := Default()
		c.Colors.HeaderBackground = MustColor("#0f766e")
		c.Colors.TableHeaderBackground = MustColor("#0f766e")
		c.Colors.Accent = MustColor("#14b8a6")
		c.Colors.TableStripe = MustColor("#f0fdfa")
		c.HeaderAlign = AlignCenter
		c.ShowBorders = false
		return c
	},
	"minimal": func() Config {
		c := Default()
		c.Colors.HeaderBackground = MustColor("#ffffff")
		c.Colors.HeaderText = MustColor("#111827")
		c.Colors.TableHeaderBackground = MustColor("#f9fafb")
		c.Colors.TableHeaderText = MustColor("#111827")
		c.Colors.Accent = MustColor("#111827")
		c.Fonts = Fonts{Title: "Times", Body: "Times", Mono: "Courier"}
		c.FontSize = SizeSmall
		return c
	},
}

// Preset returns a named built-in design.
func Preset(name string) (Config, bool) {
	fn, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Config{}, false
	}
	return fn(), true
}

// Presets lists the built-in design names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
