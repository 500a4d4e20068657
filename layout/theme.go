package layout

import (
	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/fonts"
)

// Role is the semantic purpose of a run of text.
type Role int

const (
	RoleCompanyName Role = iota
	RoleSubtitle
	RoleContact
	RoleHeading
	RoleLabel
	RoleBody
	RoleStrong
	RoleTableHeader
	RoleMoney
	RoleGrandLabel
	RoleGrandValue
	RoleFooter
)

// Style is the resolved font, size and color of a text run.
type Style struct {
	Role  Role
	Font  *fonts.Font
	Size  float64
	Color design.Color
}

// LineHeight is the vertical advance of one line in this style.
func (s Style) LineHeight() float64 { return s.Size * LineSpacing }

// Width measures text in this style.
func (s Style) Width(text string) float64 { return s.Font.Measure(text, s.Size) }

// Theme resolves design roles to concrete styles. Layout measures with the
// same theme the PDF painter draws with.
type Theme struct {
	Sizes       design.FontSizes
	Colors      design.Colors
	Title       fonts.Face
	Body        fonts.Face
	Mono        fonts.Face
	ShowBorders bool
}

// NewTheme resolves cfg's font names through reg (nil means standard fonts
// only).
func NewTheme(cfg design.Config, reg *fonts.Registry) Theme {
	return Theme{
		Sizes:       cfg.Sizes(),
		Colors:      cfg.Colors,
		Title:       reg.Face(cfg.Fonts.Title),
		Body:        reg.Face(cfg.Fonts.Body),
		Mono:        reg.Face(cfg.Fonts.Mono),
		ShowBorders: cfg.ShowBorders,
	}
}

// Style returns the style for role.
func (t Theme) Style(role Role) Style {
	s, c := t.Sizes, t.Colors
	switch role {
	case RoleCompanyName:
		return Style{role, t.Title.Bold, s.Title, c.HeaderText}
	case RoleSubtitle:
		return Style{role, t.Body.Regular, s.Body, c.HeaderText}
	case RoleContact:
		return Style{role, t.Body.Regular, s.Label, c.HeaderText}
	case RoleHeading:
		return Style{role, t.Title.Bold, s.Heading, c.BodyText}
	case RoleLabel:
		return Style{role, t.Body.Regular, s.Label, c.BodyText}
	case RoleStrong:
		return Style{role, t.Body.Bold, s.Body, c.BodyText}
	case RoleTableHeader:
		return Style{role, t.Body.Bold, s.Label, c.TableHeaderText}
	case RoleMoney:
		return Style{role, t.Mono.Regular, s.Money, c.BodyText}
	case RoleGrandLabel:
		return Style{role, t.Title.Bold, s.Heading, c.TableHeaderText}
	case RoleGrandValue:
		return Style{role, t.Mono.Bold, s.Heading, c.TableHeaderText}
	case RoleFooter:
		return Style{role, t.Body.Regular, s.Label, c.BodyText}
	default:
		return Style{RoleBody, t.Body.Regular, s.Body, c.BodyText}
	}
}
