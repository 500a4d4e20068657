package layout

import (
	"fmt"
	"strings"

	"github.com/wudi/quotekit/docmodel"
)

// FooterStamp is what the second pass writes at the bottom of a page.
type FooterStamp struct {
	// RuleY is the top of the footer band, where a divider may be drawn.
	RuleY     float64
	Text      []Line
	PageLabel Line
}

const footerRuleGap = 6.0

// PageLabel is the page-number text for page n of total.
func PageLabel(n, total int) string {
	return fmt.Sprintf("Página %d de %d", n, total)
}

func (f *flow) footerStyle() Style { return f.theme.Style(RoleFooter) }

// footerText wraps the footer beside room for the widest page label.
func (f *flow) footerText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	s := f.footerStyle()
	reserve := s.Width(PageLabel(999, 999)) + gutter
	return Wrap(text, s, f.width()-reserve)
}

func (f *flow) footerBandHeight() float64 {
	n := len(f.footerLines)
	if n == 0 {
		n = 1
	}
	return float64(n)*f.footerStyle().LineHeight() + footerRuleGap
}

// stamp is the second pass: the page count is final, so every page gets the
// same footer text and its "Página X de N" label.
func (f *flow) stamp() {
	s := f.footerStyle()
	total := len(f.pages)
	ruleY := f.g.PageHeight - f.g.Margin - f.footerBandHeight()
	for k := range f.pages {
		p := &f.pages[k]
		text, _ := stack(f.footerLines, s, f.left(), ruleY+footerRuleGap, f.width(), docmodel.AlignLeft)
		label := PageLabel(p.Number, total)
		p.Footer = FooterStamp{
			RuleY:     ruleY,
			Text:      text,
			PageLabel: Line{X: f.left() + f.width() - s.Width(label), Y: ruleY + footerRuleGap, Text: label, Style: s},
		}
	}
}
