// Package layout assigns every document block a page and a position.
//
// Coordinates are in points, measured from the top-left corner of the page
// with y growing downwards. The engine runs two passes: a content pass that
// flows blocks onto pages, then a stamping pass that writes the footer and
// "Página X de N" once the page count is known.
package layout

import (
	"fmt"

	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/docmodel"
	"github.com/wudi/quotekit/fonts"
)

const (
	// LineSpacing is the line-height multiplier applied to every font size.
	LineSpacing = 1.2
	// CellPadding pads table cells on every side.
	CellPadding = 4.0
	// PanelPadding pads header, info-bar and panel boxes.
	PanelPadding = 8.0
	// DefaultBlockGap separates consecutive blocks.
	DefaultBlockGap = 10.0
)

// Geometry is the page size and margins.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
}

// GeometryFor returns the geometry of a paper size with the fixed margin.
func GeometryFor(p design.PaperSize) Geometry {
	w, h := p.Dimensions()
	return Geometry{PageWidth: w, PageHeight: h, Margin: design.Margin}
}

// ContentWidth is the page width minus both margins.
func (g Geometry) ContentWidth() float64 { return g.PageWidth - 2*g.Margin }

// Engine lays out documents. It holds configuration only and is safe for
// concurrent use.
type Engine struct {
	geometry *Geometry
	registry *fonts.Registry
	gap      float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithGeometry overrides the geometry derived from the document's paper size.
func WithGeometry(g Geometry) Option {
	return func(e *Engine) {
		e.geometry = &g
	}
}

// WithFontRegistry resolves design font names through r.
func WithFontRegistry(r *fonts.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithBlockGap sets the vertical space between blocks.
func WithBlockGap(gap float64) Option {
	return func(e *Engine) {
		e.gap = gap
	}
}

// NewEngine creates a layout engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{gap: DefaultBlockGap}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the complete, stamped layout of a document.
type Result struct {
	Geometry Geometry
	Theme    Theme
	Pages    []Page
}

// Page is one output page.
type Page struct {
	Number     int
	Placements []Placement
	Footer     FooterStamp
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

// Line is one positioned run of text. Y is the top of the line box.
type Line struct {
	X, Y  float64
	Text  string
	Style Style
}

// Baseline is the top-down y of the text baseline.
func (l Line) Baseline() float64 {
	return l.Y + l.Style.Size*(LineSpacing-0.2)
}

// Placement is a block (or a fragment of one) placed on a page. Exactly one
// of the box pointers is set, according to Kind.
type Placement struct {
	Kind       docmodel.Kind
	BlockIndex int
	Rect       Rect
	// Continued marks fragments after the first of a split block.
	Continued bool

	Header *HeaderBox
	Panel  *PanelBox
	Text   *TextBox
	Table  *TableFragment
	Totals *TotalsBox
}

// HeaderBox is the laid-out company header.
type HeaderBox struct {
	Logo     *Rect
	Name     []Line
	Subtitle []Line
	Contact  []Line
}

// FieldCell is a label with its wrapped value.
type FieldCell struct {
	Label Line
	Value []Line
}

// PanelBox serves the info-bar, customer and conditions panels.
type PanelBox struct {
	Title []Line
	Cells []FieldCell
}

// TextBox is a titled or untitled run of paragraphs.
type TextBox struct {
	Title []Line
	Body  []Line
}

// TotalRow is one line of the totals panel.
type TotalRow struct {
	Rect     Rect
	Label    Line
	Value    Line
	Emphasis bool
}

// TotalsBox is the laid-out totals panel.
type TotalsBox struct {
	Rows []TotalRow
}

// Layout flows doc onto pages and stamps footers. It fails only on a nil
// document or a geometry too narrow for the fixed table columns.
func (e *Engine) Layout(doc *docmodel.Document) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("layout: nil document")
	}
	g := GeometryFor(doc.Design.PaperSize)
	if e.geometry != nil {
		g = *e.geometry
	}
	if g.ContentWidth() <= fixedColumnsWidth(docmodel.Columns()) {
		return nil, fmt.Errorf("layout: content width %.2f too narrow for item table", g.ContentWidth())
	}
	f := &flow{
		g:     g,
		theme: NewTheme(doc.Design, e.registry),
		gap:   e.gap,
	}
	f.footerLines = f.footerText(doc.FooterText())
	f.run(doc)
	f.stamp()
	return &Result{Geometry: g, Theme: f.theme, Pages: f.pages}, nil
}

// flow carries the mutable state of one content pass.
type flow struct {
	g           Geometry
	theme       Theme
	gap         float64
	pages       []Page
	y           float64
	footerLines []string
}

func (f *flow) top() float64 { return f.g.Margin }

func (f *flow) bottom() float64 {
	return f.g.PageHeight - f.g.Margin - f.footerBandHeight() - f.gap
}

func (f *flow) left() float64 { return f.g.Margin }

func (f *flow) width() float64 { return f.g.ContentWidth() }

func (f *flow) newPage() {
	f.pages = append(f.pages, Page{Number: len(f.pages) + 1})
	f.y = f.top()
}

func (f *flow) place(p Placement) {
	cur := &f.pages[len(f.pages)-1]
	cur.Placements = append(cur.Placements, p)
}

// fits reports whether h points fit below the cursor on the current page.
func (f *flow) fits(h float64) bool { return f.y+h <= f.bottom() }

// atTop reports whether nothing has been placed on the current page yet.
func (f *flow) atTop() bool { return f.y <= f.top() }

func (f *flow) run(doc *docmodel.Document) {
	f.newPage()
	for i, b := range doc.Blocks {
		switch c := b.Content.(type) {
		case docmodel.Footer:
			// stamped on every page in the second pass
		case docmodel.ItemTable:
			f.table(i, c)
		case docmodel.TextBlock:
			f.text(i, c)
		default:
			f.whole(i, b)
		}
	}
}

// whole places a block that never splits.
func (f *flow) whole(i int, b docmodel.Block) {
	p := f.measure(i, b, 0)
	if !f.fits(p.Rect.H) && !f.atTop() {
		f.newPage()
	}
	p = f.measure(i, b, f.y)
	f.place(p)
	f.y += p.Rect.H + f.gap
}

func (f *flow) measure(i int, b docmodel.Block, y float64) Placement {
	switch c := b.Content.(type) {
	case docmodel.Header:
		return f.header(i, c, y)
	case docmodel.InfoBar:
		return f.infoBar(i, c, y)
	case docmodel.CustomerPanel:
		return f.fieldPanel(i, docmodel.KindCustomerPanel, c.Title, c.Fields, 110, y)
	case docmodel.ConditionsPanel:
		return f.fieldPanel(i, docmodel.KindConditionsPanel, c.Title, c.Fields, 150, y)
	case docmodel.TotalsPanel:
		return f.totals(i, c, y)
	}
	return Placement{Kind: b.Kind, BlockIndex: i, Rect: Rect{X: f.left(), Y: y, W: f.width()}}
}
