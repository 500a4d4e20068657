package layout

import (
	"math"

	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/docmodel"
)

const (
	logoMaxWidth  = 120.0
	logoMaxHeight = 48.0
	gutter        = 12.0
	headerPadding = 12.0
	titleGap      = 4.0
	totalsWidth   = 230.0
)

// stack positions texts one below the other starting at y and aligns each
// line inside [x, x+boxW]. It returns the lines and the y below the last one.
func stack(texts []string, s Style, x, y, boxW float64, align docmodel.Align) ([]Line, float64) {
	out := make([]Line, 0, len(texts))
	for _, t := range texts {
		lx := x
		switch align {
		case docmodel.AlignRight:
			lx = x + boxW - s.Width(t)
		case docmodel.AlignCenter:
			lx = x + (boxW-s.Width(t))/2
		}
		out = append(out, Line{X: lx, Y: y, Text: t, Style: s})
		y += s.LineHeight()
	}
	return out, y
}

func wrapNonEmpty(text string, s Style, w float64) []string {
	if text == "" {
		return nil
	}
	return Wrap(text, s, w)
}

func headerAlign(a design.Align) docmodel.Align {
	switch a {
	case design.AlignCenter:
		return docmodel.AlignCenter
	case design.AlignRight:
		return docmodel.AlignRight
	}
	return docmodel.AlignLeft
}

func (f *flow) header(i int, c docmodel.Header, y float64) Placement {
	x0, w := f.left(), f.width()
	align := headerAlign(c.Align)
	nameS := f.theme.Style(RoleCompanyName)
	subS := f.theme.Style(RoleSubtitle)
	contactS := f.theme.Style(RoleContact)

	var logoW, logoH float64
	if c.Logo != nil {
		scale := math.Min(logoMaxWidth/float64(c.Logo.Width), logoMaxHeight/float64(c.Logo.Height))
		logoW, logoH = float64(c.Logo.Width)*scale, float64(c.Logo.Height)*scale
	}
	textW := w - 2*headerPadding
	if c.Logo != nil && align != docmodel.AlignCenter {
		textW -= logoW + gutter
	}

	name := wrapNonEmpty(c.CompanyName, nameS, textW)
	sub := wrapNonEmpty(c.Subtitle, subS, textW)
	var contact []string
	for _, l := range c.Contact {
		contact = append(contact, Wrap(l, contactS, textW)...)
	}
	textH := float64(len(name))*nameS.LineHeight() + float64(len(sub))*subS.LineHeight() +
		float64(len(contact))*contactS.LineHeight()

	box := &HeaderBox{}
	var inner, textX, textY float64
	switch align {
	case docmodel.AlignCenter:
		inner = logoH + textH
		if c.Logo != nil && textH > 0 {
			inner += gutter
		}
		textX = x0 + headerPadding
		textY = y + headerPadding
		if c.Logo != nil {
			box.Logo = &Rect{X: x0 + (w-logoW)/2, Y: y + headerPadding, W: logoW, H: logoH}
			textY += logoH + gutter
		}
	case docmodel.AlignRight:
		inner = math.Max(logoH, textH)
		textX = x0 + headerPadding
		textY = y + headerPadding + (inner-textH)/2
		if c.Logo != nil {
			box.Logo = &Rect{X: x0 + w - headerPadding - logoW, Y: y + headerPadding + (inner-logoH)/2, W: logoW, H: logoH}
		}
	default:
		inner = math.Max(logoH, textH)
		textX = x0 + headerPadding
		textY = y + headerPadding + (inner-textH)/2
		if c.Logo != nil {
			box.Logo = &Rect{X: x0 + headerPadding, Y: y + headerPadding + (inner-logoH)/2, W: logoW, H: logoH}
			textX += logoW + gutter
		}
	}
	box.Name, textY = stack(name, nameS, textX, textY, textW, align)
	box.Subtitle, textY = stack(sub, subS, textX, textY, textW, align)
	box.Contact, _ = stack(contact, contactS, textX, textY, textW, align)

	return Placement{
		Kind:       docmodel.KindHeader,
		BlockIndex: i,
		Rect:       Rect{X: x0, Y: y, W: w, H: inner + 2*headerPadding},
		Header:     box,
	}
}

func (f *flow) infoBar(i int, c docmodel.InfoBar, y float64) Placement {
	x0, w := f.left(), f.width()
	headS := f.theme.Style(RoleHeading)
	labelS := f.theme.Style(RoleLabel)
	valueS := f.theme.Style(RoleStrong)
	innerW := w - 2*PanelPadding
	colW := (innerW - gutter) / 2

	box := &PanelBox{}
	cur := y + PanelPadding
	box.Title, cur = stack(wrapNonEmpty(c.Title, headS, innerW), headS, x0+PanelPadding, cur, innerW, docmodel.AlignLeft)
	if len(box.Title) > 0 {
		cur += titleGap
	}
	// two fixed columns regardless of font size
	for r := 0; r < len(c.Fields); r += 2 {
		rowH := 0.0
		for col := 0; col < 2 && r+col < len(c.Fields); col++ {
			fl := c.Fields[r+col]
			cx := x0 + PanelPadding + float64(col)*(colW+gutter)
			label := Line{X: cx, Y: cur, Text: fl.Label, Style: labelS}
			value, end := stack(Wrap(fl.Value, valueS, colW), valueS, cx, cur+labelS.LineHeight(), colW, docmodel.AlignLeft)
			box.Cells = append(box.Cells, FieldCell{Label: label, Value: value})
			rowH = math.Max(rowH, end-cur)
		}
		cur += rowH + titleGap
	}
	return Placement{
		Kind:       docmodel.KindInfoBar,
		BlockIndex: i,
		Rect:       Rect{X: x0, Y: y, W: w, H: cur - y + PanelPadding - titleGap},
		Panel:      box,
	}
}

func (f *flow) fieldPanel(i int, kind docmodel.Kind, title string, fields []docmodel.Field, labelW float64, y float64) Placement {
	x0, w := f.left(), f.width()
	headS := f.theme.Style(RoleHeading)
	labelS := f.theme.Style(RoleLabel)
	valueS := f.theme.Style(RoleBody)
	innerW := w - 2*PanelPadding
	valueW := innerW - labelW

	box := &PanelBox{}
	cur := y + PanelPadding
	box.Title, cur = stack(wrapNonEmpty(title, headS, innerW), headS, x0+PanelPadding, cur, innerW, docmodel.AlignLeft)
	if len(box.Title) > 0 {
		cur += titleGap
	}
	for _, fl := range fields {
		// labels sit on the value's first baseline
		labelY := cur + (valueS.LineHeight()-labelS.LineHeight())/2
		label := Line{X: x0 + PanelPadding, Y: labelY, Text: fl.Label, Style: labelS}
		value, end := stack(Wrap(fl.Value, valueS, valueW), valueS, x0+PanelPadding+labelW, cur, valueW, docmodel.AlignLeft)
		box.Cells = append(box.Cells, FieldCell{Label: label, Value: value})
		cur = end + 2
	}
	return Placement{
		Kind:       kind,
		BlockIndex: i,
		Rect:       Rect{X: x0, Y: y, W: w, H: cur - y + PanelPadding},
		Panel:      box,
	}
}

func (f *flow) totals(i int, c docmodel.TotalsPanel, y float64) Placement {
	x := f.left() + f.width() - totalsWidth
	box := &TotalsBox{}
	cur := y
	for _, tl := range c.Lines {
		labelS, valueS := f.theme.Style(RoleBody), f.theme.Style(RoleMoney)
		if tl.Emphasis {
			labelS, valueS = f.theme.Style(RoleGrandLabel), f.theme.Style(RoleGrandValue)
		}
		rowH := math.Max(labelS.LineHeight(), valueS.LineHeight()) + 2*CellPadding
		vw := valueS.Width(tl.Value)
		box.Rows = append(box.Rows, TotalRow{
			Rect:     Rect{X: x, Y: cur, W: totalsWidth, H: rowH},
			Label:    Line{X: x + PanelPadding, Y: cur + (rowH-labelS.LineHeight())/2, Text: tl.Label, Style: labelS},
			Value:    Line{X: x + totalsWidth - PanelPadding - vw, Y: cur + (rowH-valueS.LineHeight())/2, Text: tl.Value, Style: valueS},
			Emphasis: tl.Emphasis,
		})
		cur += rowH
	}
	return Placement{
		Kind:       docmodel.KindTotalsPanel,
		BlockIndex: i,
		Rect:       Rect{X: x, Y: y, W: totalsWidth, H: cur - y},
		Totals:     box,
	}
}

// text places a text block whole when it fits on a page, and splits it by
// lines only when it is taller than an empty page.
func (f *flow) text(i int, c docmodel.TextBlock) {
	headS := f.theme.Style(RoleHeading)
	bodyS := f.theme.Style(RoleBody)
	w := f.width()
	title := wrapNonEmpty(c.Title, headS, w)
	body := Wrap(c.Text, bodyS, w)
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
	}

	titleH := float64(len(title)) * headS.LineHeight()
	if titleH > 0 {
		titleH += titleGap
	}
	total := titleH + float64(len(body))*bodyS.LineHeight()
	if !f.fits(total) && !f.atTop() {
		if total <= f.bottom()-f.top() || !f.fits(titleH+bodyS.LineHeight()) {
			f.newPage()
		}
	}

	continued := false
	for {
		start := f.y
		box := &TextBox{}
		cur := start
		if !continued && len(title) > 0 {
			box.Title, cur = stack(title, headS, f.left(), cur, w, docmodel.AlignLeft)
			cur += titleGap
		}
		n := 0
		for n < len(body) && (n == 0 || cur+bodyS.LineHeight() <= f.bottom()) {
			box.Body = append(box.Body, Line{X: f.left(), Y: cur, Text: body[n], Style: bodyS})
			cur += bodyS.LineHeight()
			n++
		}
		f.place(Placement{
			Kind:       docmodel.KindTextBlock,
			BlockIndex: i,
			Rect:       Rect{X: f.left(), Y: start, W: w, H: cur - start},
			Continued:  continued,
			Text:       box,
		})
		body = body[n:]
		f.y = cur + f.gap
		if len(body) == 0 {
			return
		}
		f.newPage()
		continued = true
	}
}
