package layout

import (
	"math"

	"github.com/wudi/quotekit/docmodel"
)

// ColumnBox is a resolved table column.
type ColumnBox struct {
	X, W  float64
	Align docmodel.Align
	Money bool
}

// TableRow is one laid-out row. The header row has Index -1.
type TableRow struct {
	Index   int
	Rect    Rect
	Cells   [][]Line
	Striped bool
}

// TableFragment is the part of the item table on one page. Every fragment
// starts with its own copy of the header row.
type TableFragment struct {
	Columns []ColumnBox
	Header  TableRow
	Rows    []TableRow
}

func fixedColumnsWidth(cols []docmodel.Column) float64 {
	total := 0.0
	for _, c := range cols {
		total += c.Width
	}
	return total
}

// columnBoxes resolves column x positions; zero-width columns share the
// space left after the fixed ones.
func columnBoxes(cols []docmodel.Column, x, width float64) []ColumnBox {
	flexible := 0
	for _, c := range cols {
		if c.Width == 0 {
			flexible++
		}
	}
	rest := width - fixedColumnsWidth(cols)
	out := make([]ColumnBox, len(cols))
	for i, c := range cols {
		w := c.Width
		if w == 0 {
			w = rest / float64(flexible)
		}
		out[i] = ColumnBox{X: x, W: w, Align: c.Align, Money: c.Money}
		x += w
	}
	return out
}

// rowText holds the wrapped lines of every cell of one row.
type rowText struct {
	lines  [][]string
	styles []Style
}

// height is the row height needed to show every remaining line.
func (rt rowText) height() float64 {
	h := 0.0
	for i, l := range rt.lines {
		h = math.Max(h, float64(len(l))*rt.styles[i].LineHeight())
	}
	return h + 2*CellPadding
}

func (rt rowText) empty() bool {
	for _, l := range rt.lines {
		if len(l) > 0 {
			return false
		}
	}
	return true
}

// firstLine is the height of a row slice holding one line of each cell.
func (rt rowText) firstLine() float64 {
	h := 0.0
	for i, l := range rt.lines {
		if len(l) > 0 {
			h = math.Max(h, rt.styles[i].LineHeight())
		}
	}
	return h + 2*CellPadding
}

// take splits off the lines that fit in a row slice of height h. At least one
// line of every non-empty cell is taken so that splitting always progresses.
func (rt rowText) take(h float64) (head, rest rowText) {
	content := h - 2*CellPadding
	n := make([]int, len(rt.lines))
	taken := 0
	for i, l := range rt.lines {
		n[i] = min(len(l), int(math.Floor(content/rt.styles[i].LineHeight()+1e-9)))
		taken += n[i]
	}
	if taken == 0 {
		for i, l := range rt.lines {
			n[i] = min(len(l), 1)
		}
	}
	head = rowText{lines: make([][]string, len(rt.lines)), styles: rt.styles}
	rest = rowText{lines: make([][]string, len(rt.lines)), styles: rt.styles}
	for i, l := range rt.lines {
		head.lines[i], rest.lines[i] = l[:n[i]], l[n[i]:]
	}
	return head, rest
}

func (f *flow) wrapRow(cols []ColumnBox, cells []string, header bool) rowText {
	rt := rowText{lines: make([][]string, len(cols)), styles: make([]Style, len(cols))}
	for i, col := range cols {
		s := f.theme.Style(RoleBody)
		switch {
		case header:
			s = f.theme.Style(RoleTableHeader)
		case col.Money:
			s = f.theme.Style(RoleMoney)
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		rt.styles[i] = s
		rt.lines[i] = Wrap(text, s, col.W-2*CellPadding)
	}
	return rt
}

// placeRow positions rt at y. Height grows with the tallest wrapped cell.
func placeRow(cols []ColumnBox, rt rowText, index int, header bool, y float64) TableRow {
	row := TableRow{Index: index, Rect: Rect{X: cols[0].X, Y: y, H: rt.height()}}
	for i, col := range cols {
		row.Rect.W += col.W
		lines, _ := stack(rt.lines[i], rt.styles[i], col.X+CellPadding, y+CellPadding, col.W-2*CellPadding, col.Align)
		row.Cells = append(row.Cells, lines)
	}
	if !header {
		row.Striped = index%2 == 1
	}
	return row
}

// table flows the item table, repeating the header on every page. A row
// taller than an empty page is split by lines; its pieces keep the row's
// index and stripe.
func (f *flow) table(i int, t docmodel.ItemTable) {
	cols := columnBoxes(t.Columns, f.left(), f.width())
	labels := make([]string, len(t.Columns))
	for k, c := range t.Columns {
		labels[k] = c.Label
	}
	head := f.wrapRow(cols, labels, true)
	headerH := head.height()
	capacity := f.bottom() - f.top() - headerH

	var frag *TableFragment
	var start float64
	continued := false
	open := func() {
		start = f.y
		frag = &TableFragment{Columns: cols, Header: placeRow(cols, head, -1, true, f.y)}
		f.y += headerH
	}
	closeFrag := func() {
		f.place(Placement{
			Kind:       docmodel.KindItemTable,
			BlockIndex: i,
			Rect:       Rect{X: f.left(), Y: start, W: f.width(), H: f.y - start},
			Continued:  continued,
			Table:      frag,
		})
	}
	add := func(rt rowText, index int) {
		row := placeRow(cols, rt, index, false, f.y)
		frag.Rows = append(frag.Rows, row)
		f.y += row.Rect.H
	}
	turn := func() {
		closeFrag()
		f.newPage()
		continued = true
		open()
	}

	for _, r := range t.Rows {
		rt := f.wrapRow(cols, r.Cells, false)
		need := rt.height()
		if need > capacity {
			need = rt.firstLine()
		}
		switch {
		case frag == nil:
			if !f.fits(headerH+need) && !f.atTop() {
				f.newPage()
			}
			open()
		case !f.fits(need):
			turn()
		}
		done := false
		for !done && !f.fits(rt.height()) {
			piece, rest := rt.take(f.bottom() - f.y)
			add(piece, r.Index)
			rt, done = rest, rest.empty()
			if !done {
				turn()
			}
		}
		if !done {
			add(rt, r.Index)
		}
	}
	if frag == nil {
		if !f.fits(headerH) && !f.atTop() {
			f.newPage()
		}
		open()
	}
	closeFrag()
	f.y += f.gap
}
