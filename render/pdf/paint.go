package pdf

import (
	"github.com/wudi/quotekit/builder"
	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/docmodel"
	"github.com/wudi/quotekit/ir/semantic"
	"github.com/wudi/quotekit/layout"
)

const (
	hairline    = 0.5
	accentWidth = 3.0
)

// pen is the immutable drawing position and text style. Painters derive new
// pens instead of mutating shared state.
type pen struct {
	x, y  float64
	style layout.Style
}

func penAt(l layout.Line) pen { return pen{x: l.X, y: l.Y, style: l.Style} }

func (p pen) with(s layout.Style) pen {
	p.style = s
	return p
}

func (p pen) at(x, y float64) pen {
	p.x, p.y = x, y
	return p
}

// down advances one line in the pen's style.
func (p pen) down() pen {
	p.y += p.style.LineHeight()
	return p
}

type painter struct {
	page  builder.PageBuilder
	geo   layout.Geometry
	theme layout.Theme
	logo  *semantic.Image
}

func rgb(c design.Color) builder.Color {
	r, g, b := c.RGB()
	return builder.Color{R: r, G: g, B: b}
}

// flip converts a top-down y to PDF user space.
func (p *painter) flip(y float64) float64 { return p.geo.PageHeight - y }

// text draws s at the pen and returns the pen one line lower.
func (p *painter) text(at pen, s string) pen {
	baseline := at.y + at.style.Size*(layout.LineSpacing-0.2)
	p.page.DrawText(s, at.x, p.flip(baseline), builder.TextOptions{
		Font:     at.style.Font,
		FontSize: at.style.Size,
		Color:    rgb(at.style.Color),
	})
	return at.down()
}

func (p *painter) lines(ls []layout.Line) {
	for _, l := range ls {
		p.text(penAt(l), l.Text)
	}
}

func (p *painter) fill(r layout.Rect, c design.Color) {
	p.page.DrawRectangle(r.X, p.flip(r.Y+r.H), r.W, r.H, builder.RectOptions{Fill: true, FillColor: rgb(c)})
}

func (p *painter) stroke(r layout.Rect, c design.Color) {
	p.page.DrawRectangle(r.X, p.flip(r.Y+r.H), r.W, r.H, builder.RectOptions{Stroke: true, StrokeColor: rgb(c), LineWidth: hairline})
}

func (p *painter) rule(x1, x2, y float64, c design.Color) {
	p.page.DrawLine(x1, p.flip(y), x2, p.flip(y), builder.LineOptions{StrokeColor: rgb(c), LineWidth: hairline})
}

func (p *painter) background() {
	if p.theme.Colors.BodyBackground == design.MustColor("#ffffff") {
		return
	}
	p.fill(layout.Rect{W: p.geo.PageWidth, H: p.geo.PageHeight}, p.theme.Colors.BodyBackground)
}

func (p *painter) placement(pl layout.Placement) {
	switch {
	case pl.Header != nil:
		p.header(pl.Rect, pl.Header)
	case pl.Panel != nil:
		p.panel(pl.Kind, pl.Rect, pl.Panel)
	case pl.Text != nil:
		p.textBlock(pl.Text)
	case pl.Table != nil:
		p.table(pl.Table)
	case pl.Totals != nil:
		p.totals(pl.Rect, pl.Totals)
	}
}

func (p *painter) header(r layout.Rect, h *layout.HeaderBox) {
	p.fill(r, p.theme.Colors.HeaderBackground)
	if h.Logo != nil && p.logo != nil {
		l := *h.Logo
		p.page.DrawImage(p.logo, l.X, p.flip(l.Y+l.H), l.W, l.H)
	}
	p.lines(h.Name)
	p.lines(h.Subtitle)
	p.lines(h.Contact)
	p.rule(r.X, r.X+r.W, r.Y+r.H, p.theme.Colors.Accent)
}

func (p *painter) panel(kind docmodel.Kind, r layout.Rect, box *layout.PanelBox) {
	c := p.theme.Colors
	if kind == docmodel.KindInfoBar {
		p.fill(r, c.TableStripe)
		p.fill(layout.Rect{X: r.X, Y: r.Y, W: accentWidth, H: r.H}, c.Accent)
	}
	if p.theme.ShowBorders {
		p.stroke(r, c.TableBorder)
	}
	p.lines(box.Title)
	if n := len(box.Title); n > 0 && kind != docmodel.KindInfoBar {
		last := box.Title[n-1]
		under := penAt(last).down()
		p.rule(r.X+layout.PanelPadding, r.X+r.W-layout.PanelPadding, under.y+1, c.Accent)
	}
	for _, cell := range box.Cells {
		p.text(penAt(cell.Label), cell.Label.Text)
		p.lines(cell.Value)
	}
}

func (p *painter) textBlock(box *layout.TextBox) {
	p.lines(box.Title)
	p.lines(box.Body)
}

func (p *painter) table(t *layout.TableFragment) {
	c := p.theme.Colors
	p.fill(t.Header.Rect, c.TableHeaderBackground)
	p.row(t, t.Header)
	for _, r := range t.Rows {
		if r.Striped {
			p.fill(r.Rect, c.TableStripe)
		}
		p.row(t, r)
	}
}

func (p *painter) row(t *layout.TableFragment, r layout.TableRow) {
	c := p.theme.Colors
	if p.theme.ShowBorders {
		for _, col := range t.Columns {
			p.stroke(layout.Rect{X: col.X, Y: r.Rect.Y, W: col.W, H: r.Rect.H}, c.TableBorder)
		}
	} else {
		p.rule(r.Rect.X, r.Rect.X+r.Rect.W, r.Rect.Y+r.Rect.H, c.TableBorder)
	}
	for _, cell := range r.Cells {
		p.lines(cell)
	}
}

func (p *painter) totals(r layout.Rect, box *layout.TotalsBox) {
	c := p.theme.Colors
	for _, row := range box.Rows {
		if row.Emphasis {
			p.fill(row.Rect, c.TableHeaderBackground)
		} else if !p.theme.ShowBorders {
			p.rule(row.Rect.X, row.Rect.X+row.Rect.W, row.Rect.Y+row.Rect.H, c.TableBorder)
		}
		label := penAt(row.Label)
		p.text(label, row.Label.Text)
		p.text(label.with(row.Value.Style).at(row.Value.X, row.Value.Y), row.Value.Text)
	}
	if p.theme.ShowBorders {
		p.stroke(r, c.TableBorder)
	}
}

func (p *painter) footer(f layout.FooterStamp) {
	left, right := p.geo.Margin, p.geo.PageWidth-p.geo.Margin
	p.rule(left, right, f.RuleY, p.theme.Colors.TableBorder)
	p.lines(f.Text)
	p.text(penAt(f.PageLabel), f.PageLabel.Text)
}
