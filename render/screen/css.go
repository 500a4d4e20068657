package screen

import (
	"fmt"
	"strings"

	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/fonts"
	"github.com/wudi/quotekit/layout"
)

// cssVars exposes the design as custom properties. The values are the exact
// colors, point sizes and font faces the PDF painter uses.
func cssVars(cfg design.Config, th layout.Theme) string {
	c, s := cfg.Colors, cfg.Sizes()
	vars := [][2]string{
		{"--qk-header-bg", c.HeaderBackground.Hex()},
		{"--qk-header-text", c.HeaderText.Hex()},
		{"--qk-accent", c.Accent.Hex()},
		{"--qk-body-bg", c.BodyBackground.Hex()},
		{"--qk-body-text", c.BodyText.Hex()},
		{"--qk-border", c.TableBorder.Hex()},
		{"--qk-table-header-bg", c.TableHeaderBackground.Hex()},
		{"--qk-table-header-text", c.TableHeaderText.Hex()},
		{"--qk-stripe", c.TableStripe.Hex()},
		{"--qk-font-title", fontStack(cfg.Fonts.Title, th.Title)},
		{"--qk-font-body", fontStack(cfg.Fonts.Body, th.Body)},
		{"--qk-font-mono", fontStack(cfg.Fonts.Mono, th.Mono)},
		{"--qk-size-title", pt(s.Title)},
		{"--qk-size-heading", pt(s.Heading)},
		{"--qk-size-body", pt(s.Body)},
		{"--qk-size-label", pt(s.Label)},
		{"--qk-size-money", pt(s.Money)},
		{"--qk-line-height", fmt.Sprintf("%g", layout.LineSpacing)},
		{"--qk-margin", pt(design.Margin)},
	}
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v[0] + ": " + v[1]
	}
	return strings.Join(parts, "; ")
}

func pt(v float64) string { return fmt.Sprintf("%gpt", v) }

// fontStack names the face the PDF resolved for family. Registered TrueType
// faces keep the family name; standard-14 fallbacks map to their browser
// equivalents.
func fontStack(family string, face fonts.Face) string {
	if face.Regular != nil && face.Regular.Embedded() != nil && family != "" {
		return fmt.Sprintf("%q, %s", family, standardStack(fonts.StandardFamily(family, false)))
	}
	return standardStack(face.Regular)
}

func standardStack(f *fonts.Font) string {
	name := ""
	if f != nil {
		name = f.Name()
	}
	switch {
	case strings.HasPrefix(name, "Times"):
		return `"Times New Roman", Times, serif`
	case strings.HasPrefix(name, "Courier"):
		return `"Courier New", Courier, monospace`
	}
	return "Helvetica, Arial, sans-serif"
}

const baseCSS = `
.quotation { background: var(--qk-body-bg); color: var(--qk-body-text); font-family: var(--qk-font-body); font-size: var(--qk-size-body); line-height: var(--qk-line-height); max-width: %s; margin: 0 auto; padding: var(--qk-margin); box-sizing: border-box; }
.quotation > * + * { margin-top: 10pt; }
.qk-header { display: flex; align-items: center; gap: 12pt; padding: 12pt; background: var(--qk-header-bg); color: var(--qk-header-text); border-bottom: 0.5pt solid var(--qk-accent); }
.qk-header.align-center { flex-direction: column; text-align: center; }
.qk-header.align-right { flex-direction: row-reverse; text-align: right; }
.qk-header img { max-width: 120pt; max-height: 48pt; }
.qk-header h1 { font-family: var(--qk-font-title); font-size: var(--qk-size-title); margin: 0; }
.qk-header .subtitle { margin: 0; }
.qk-header .contact { font-size: var(--qk-size-label); margin: 0; }
.qk-info-bar { background: var(--qk-stripe); border-left: 3pt solid var(--qk-accent); padding: 8pt; }
.qk-info-bar dl { display: grid; grid-template-columns: 1fr 1fr; gap: 4pt 12pt; }
.qk-panel { padding: 8pt; }
.qk-panel h2 { border-bottom: 0.5pt solid var(--qk-accent); }
.qk-panel dl { display: grid; grid-template-columns: 110pt 1fr; gap: 2pt 0; }
.qk-conditions dl { grid-template-columns: 150pt 1fr; }
.quotation h2, .quotation h3 { font-family: var(--qk-font-title); font-size: var(--qk-size-heading); margin: 0 0 4pt; }
.quotation dl { margin: 0; }
.quotation dt { font-size: var(--qk-size-label); }
.quotation dd { margin: 0; }
.qk-info-bar dd { font-weight: bold; }
.qk-text p { margin: 0; white-space: pre-wrap; }
.qk-items { width: 100%%; border-collapse: collapse; table-layout: fixed; }
.qk-items th { background: var(--qk-table-header-bg); color: var(--qk-table-header-text); font-size: var(--qk-size-label); padding: 4pt; }
.qk-items td { padding: 4pt; vertical-align: top; overflow-wrap: anywhere; }
.qk-items tr { border-bottom: 0.5pt solid var(--qk-border); }
.qk-items tr.striped { background: var(--qk-stripe); }
.bordered .qk-items th, .bordered .qk-items td, .bordered .qk-totals, .bordered .qk-panel { border: 0.5pt solid var(--qk-border); }
.money { font-family: var(--qk-font-mono); font-size: var(--qk-size-money); }
.align-left { text-align: left; } .align-center { text-align: center; } .align-right { text-align: right; }
.qk-totals { width: 230pt; margin-left: auto; border-collapse: collapse; }
.qk-totals th, .qk-totals td { padding: 4pt 8pt; font-weight: normal; }
.qk-totals th { text-align: left; }
.qk-totals td { text-align: right; }
.qk-totals tr { border-bottom: 0.5pt solid var(--qk-border); }
.qk-totals tr.grand { background: var(--qk-table-header-bg); color: var(--qk-table-header-text); font-family: var(--qk-font-title); font-size: var(--qk-size-heading); font-weight: bold; }
.qk-totals tr.grand td { font-family: var(--qk-font-mono); font-size: var(--qk-size-heading); font-weight: bold; }
.qk-footer { border-top: 0.5pt solid var(--qk-border); font-size: var(--qk-size-label); padding-top: 6pt; }
`

// printCSS lets the host print engine paginate: fixed paper, fixed margins,
// repeated table header, whole-block breaks and the page counter.
const printCSS = `
@page { size: %s; margin: %s; @bottom-right { content: "Página " counter(page) " de " counter(pages); font-size: %s; } }
.quotation { max-width: none; padding: 0; }
.qk-items thead { display: table-header-group; }
.qk-items tr, .qk-header, .qk-info-bar, .qk-panel, .qk-totals { break-inside: avoid; }
.qk-footer { position: running(footer); }
`

func stylesheet(cfg design.Config, print bool) string {
	w, _ := cfg.PaperSize.Dimensions()
	css := fmt.Sprintf(baseCSS, pt(w))
	pageSize := "A4"
	if cfg.PaperSize == design.PaperLetter {
		pageSize = "letter"
	}
	p := fmt.Sprintf(printCSS, pageSize, pt(design.Margin), pt(cfg.Sizes().Label))
	if print {
		return css + p
	}
	return css + "@media print {" + p + "}\n"
}
