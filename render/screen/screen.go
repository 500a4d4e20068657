// Package screen renders the document model as HTML for on-screen preview
// and browser printing. It reads the same layout result as the PDF renderer:
// pagination is advisory here, carried as data-page attributes, and the print
// stylesheet lets the host print engine do the final page breaking.
package screen

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/wudi/quotekit/docmodel"
	"github.com/wudi/quotekit/layout"
)

// Options selects the output flavor.
type Options struct {
	// Print emits unconditional print CSS (@page size, margins, counters)
	// instead of wrapping it in @media print.
	Print bool
	// Fragment omits <html>, <head> and <body> so the markup can be
	// embedded in another page.
	Fragment bool
}

// Render writes doc as HTML. res supplies page numbers; it may be nil, in
// which case data-page attributes are omitted.
func Render(w io.Writer, doc *docmodel.Document, res *layout.Result, opts Options) error {
	if doc == nil {
		return fmt.Errorf("screen: nil document")
	}
	r := &renderer{doc: doc, pages: pageIndex(res), theme: layout.NewTheme(doc.Design, nil)}
	if res != nil {
		r.theme = res.Theme
	}
	root := r.quotation(opts)
	if opts.Fragment {
		return html.Render(w, root)
	}
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return html.Render(w, r.page(root, opts))
}

// Bytes renders into memory.
func Bytes(doc *docmodel.Document, res *layout.Result, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, doc, res, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pages maps block and row indices to the first page they appear on.
type pages struct {
	blocks map[int]int
	rows   map[int]int
}

func pageIndex(res *layout.Result) *pages {
	if res == nil {
		return nil
	}
	p := &pages{blocks: map[int]int{}, rows: map[int]int{}}
	for _, pg := range res.Pages {
		for _, pl := range pg.Placements {
			if _, ok := p.blocks[pl.BlockIndex]; !ok {
				p.blocks[pl.BlockIndex] = pg.Number
			}
			if pl.Table != nil {
				for _, row := range pl.Table.Rows {
					p.rows[row.Index] = pg.Number
				}
			}
		}
	}
	return p
}

type renderer struct {
	doc   *docmodel.Document
	pages *pages
	theme layout.Theme
}

func attr(key, val string) html.Attribute { return html.Attribute{Key: key, Val: val} }

func el(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

func text(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

func textEl(a atom.Atom, class, s string) *html.Node {
	var attrs []html.Attribute
	if class != "" {
		attrs = append(attrs, attr("class", class))
	}
	return el(a, attrs, text(s))
}

func (r *renderer) page(root *html.Node, opts Options) *html.Node {
	head := el(atom.Head, nil,
		el(atom.Meta, []html.Attribute{attr("charset", "utf-8")}),
		el(atom.Meta, []html.Attribute{attr("name", "viewport"), attr("content", "width=device-width, initial-scale=1")}),
		el(atom.Meta, []html.Attribute{attr("name", "generator"), attr("content", "quotekit")}),
		textEl(atom.Title, "", r.doc.Title),
	)
	bodyAttrs := []html.Attribute{}
	if opts.Print {
		bodyAttrs = append(bodyAttrs, attr("class", "print"))
	}
	return el(atom.Html, []html.Attribute{attr("lang", "pt-BR")}, head, el(atom.Body, bodyAttrs, root))
}

func (r *renderer) quotation(opts Options) *html.Node {
	cfg := r.doc.Design
	class := "quotation"
	if cfg.ShowBorders {
		class += " bordered"
	}
	root := el(atom.Div, []html.Attribute{
		attr("class", class),
		attr("data-paper", string(cfg.PaperSize)),
		attr("style", cssVars(cfg, r.theme)),
	})
	root.AppendChild(el(atom.Style, nil, text(stylesheet(cfg, opts.Print))))
	for i, b := range r.doc.Blocks {
		n := r.block(b)
		if n == nil {
			continue
		}
		n.Attr = append(n.Attr, attr("data-block", b.Kind.String()))
		if pg, ok := r.blockPage(i); ok {
			n.Attr = append(n.Attr, attr("data-page", strconv.Itoa(pg)))
		}
		root.AppendChild(n)
	}
	return root
}

func (r *renderer) blockPage(i int) (int, bool) {
	if r.pages == nil {
		return 0, false
	}
	pg, ok := r.pages.blocks[i]
	return pg, ok
}

func (r *renderer) block(b docmodel.Block) *html.Node {
	switch c := b.Content.(type) {
	case docmodel.Header:
		return r.header(c)
	case docmodel.InfoBar:
		return fieldSection("qk-info-bar", atom.H2, c.Title, c.Fields)
	case docmodel.CustomerPanel:
		return fieldSection("qk-panel qk-customer", atom.H2, c.Title, c.Fields)
	case docmodel.ConditionsPanel:
		return fieldSection("qk-panel qk-conditions", atom.H2, c.Title, c.Fields)
	case docmodel.TextBlock:
		return r.textBlock(c)
	case docmodel.ItemTable:
		return r.table(c)
	case docmodel.TotalsPanel:
		return r.totals(c)
	case docmodel.Footer:
		return el(atom.Footer, []html.Attribute{attr("class", "qk-footer")}, text(c.Text))
	}
	return nil
}

func (r *renderer) header(h docmodel.Header) *html.Node {
	n := el(atom.Header, []html.Attribute{attr("class", "qk-header align-"+string(h.Align))})
	if h.Logo != nil {
		src := "data:" + h.Logo.MIME() + ";base64," + base64.StdEncoding.EncodeToString(h.Logo.Data)
		n.AppendChild(el(atom.Img, []html.Attribute{attr("src", src), attr("alt", h.CompanyName)}))
	}
	company := el(atom.Div, []html.Attribute{attr("class", "company")})
	if h.CompanyName != "" {
		company.AppendChild(textEl(atom.H1, "", h.CompanyName))
	}
	if h.Subtitle != "" {
		company.AppendChild(textEl(atom.P, "subtitle", h.Subtitle))
	}
	for _, line := range h.Contact {
		company.AppendChild(textEl(atom.P, "contact", line))
	}
	n.AppendChild(company)
	return n
}

func fieldSection(class string, heading atom.Atom, title string, fields []docmodel.Field) *html.Node {
	n := el(atom.Section, []html.Attribute{attr("class", class)})
	if title != "" {
		n.AppendChild(textEl(heading, "", title))
	}
	dl := el(atom.Dl, nil)
	for _, f := range fields {
		dl.AppendChild(el(atom.Div, []html.Attribute{attr("class", "field")},
			textEl(atom.Dt, "", f.Label),
			textEl(atom.Dd, "", f.Value),
		))
	}
	n.AppendChild(dl)
	return n
}

func (r *renderer) textBlock(t docmodel.TextBlock) *html.Node {
	n := el(atom.Section, []html.Attribute{attr("class", "qk-text qk-"+string(t.Role))})
	if t.Title != "" {
		n.AppendChild(textEl(atom.H3, "", t.Title))
	}
	for _, para := range strings.Split(strings.TrimRight(t.Text, "\n"), "\n") {
		n.AppendChild(textEl(atom.P, "", para))
	}
	return n
}

func alignClass(a docmodel.Align) string {
	switch a {
	case docmodel.AlignCenter:
		return "align-center"
	case docmodel.AlignRight:
		return "align-right"
	}
	return "align-left"
}

func cellClass(c docmodel.Column) string {
	class := alignClass(c.Align)
	if c.Money {
		class += " money"
	}
	return class
}

func (r *renderer) table(t docmodel.ItemTable) *html.Node {
	cols := el(atom.Colgroup, nil)
	headRow := el(atom.Tr, nil)
	for _, c := range t.Columns {
		var attrs []html.Attribute
		if c.Width > 0 {
			attrs = append(attrs, attr("style", "width: "+pt(c.Width)))
		}
		cols.AppendChild(el(atom.Col, attrs))
		headRow.AppendChild(el(atom.Th, []html.Attribute{attr("scope", "col"), attr("class", alignClass(c.Align))}, text(c.Label)))
	}
	body := el(atom.Tbody, nil)
	for _, row := range t.Rows {
		attrs := []html.Attribute{attr("data-index", strconv.Itoa(row.Index))}
		if row.Striped() {
			attrs = append(attrs, attr("class", "striped"))
		}
		if r.pages != nil {
			if pg, ok := r.pages.rows[row.Index]; ok {
				attrs = append(attrs, attr("data-page", strconv.Itoa(pg)))
			}
		}
		tr := el(atom.Tr, attrs)
		for i, cell := range row.Cells {
			class := ""
			if i < len(t.Columns) {
				class = cellClass(t.Columns[i])
			}
			tr.AppendChild(textEl(atom.Td, class, cell))
		}
		body.AppendChild(tr)
	}
	return el(atom.Table, []html.Attribute{attr("class", "qk-items")}, cols, el(atom.Thead, nil, headRow), body)
}

func (r *renderer) totals(t docmodel.TotalsPanel) *html.Node {
	body := el(atom.Tbody, nil)
	for _, l := range t.Lines {
		var attrs []html.Attribute
		if l.Emphasis {
			attrs = append(attrs, attr("class", "grand"))
		}
		body.AppendChild(el(atom.Tr, attrs,
			el(atom.Th, []html.Attribute{attr("scope", "row")}, text(l.Label)),
			textEl(atom.Td, "money", l.Value),
		))
	}
	return el(atom.Table, []html.Attribute{attr("class", "qk-totals")}, body)
}
