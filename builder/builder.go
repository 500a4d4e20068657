// Package builder assembles pages of drawing operations into a
// semantic.Document. Coordinates are PDF user space: points from the
// bottom-left corner of the page.
package builder

import (
	"errors"
	"fmt"

	"github.com/wudi/quotekit/fonts"
	"github.com/wudi/quotekit/ir/semantic"
)

// ErrNoFont is returned by Build when text was drawn without a font.
var ErrNoFont = errors.New("builder: text drawn without a font")

// PDFBuilder provides a fluent API for PDF construction.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	SetInfo(info *semantic.DocumentInfo) PDFBuilder
	Build() (*semantic.Document, error)
}

// PageBuilder provides a fluent API for page construction.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	DrawImage(img *semantic.Image, x, y, width, height float64) PageBuilder
	Finish() PDFBuilder
}

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// TextOptions configures text drawing. y is the baseline.
type TextOptions struct {
	Font     *fonts.Font
	FontSize float64
	Color    Color
}

// RectOptions configures rectangle drawing. A rectangle with neither Fill
// nor Stroke set is stroked.
type RectOptions struct {
	FillColor   Color
	StrokeColor Color
	LineWidth   float64
	Fill        bool
	Stroke      bool
}

// LineOptions configures line drawing.
type LineOptions struct {
	StrokeColor Color
	LineWidth   float64
}

type builderImpl struct {
	pages      []*semantic.Page
	info       *semantic.DocumentInfo
	fontNames  map[*fonts.Font]string
	imageNames map[*semantic.Image]string
	err        error
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

// NewBuilder constructs a PDFBuilder.
func NewBuilder() PDFBuilder {
	return &builderImpl{
		fontNames:  make(map[*fonts.Font]string),
		imageNames: make(map[*semantic.Image]string),
	}
}

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{
		MediaBox:  semantic.Rectangle{LLX: 0, LLY: 0, URX: w, URY: h},
		Resources: &semantic.Resources{},
		Contents:  []semantic.ContentStream{{}},
	}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) PDFBuilder {
	b.info = info
	return b
}

func (b *builderImpl) Build() (*semantic.Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{Pages: b.pages, Info: b.info}, nil
}

// fontName returns the document-wide resource name of f, allocating F1, F2...
// in first-use order.
func (b *builderImpl) fontName(f *fonts.Font) string {
	if name, ok := b.fontNames[f]; ok {
		return name
	}
	name := fmt.Sprintf("F%d", len(b.fontNames)+1)
	b.fontNames[f] = name
	return name
}

func (b *builderImpl) imageName(img *semantic.Image) string {
	if name, ok := b.imageNames[img]; ok {
		return name
	}
	name := fmt.Sprintf("Im%d", len(b.imageNames)+1)
	b.imageNames[img] = name
	return name
}

func (p *pageBuilderImpl) ops() *[]semantic.Operation {
	return &p.page.Contents[0].Operations
}

func num(v float64) semantic.Operand { return semantic.NumberOperand{Value: v} }

func nums(vs ...float64) []semantic.Operand {
	out := make([]semantic.Operand, len(vs))
	for i, v := range vs {
		out[i] = num(v)
	}
	return out
}

func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	if text == "" {
		return p
	}
	if opts.Font == nil {
		if p.parent.err == nil {
			p.parent.err = ErrNoFont
		}
		return p
	}
	name := p.parent.fontName(opts.Font)
	res := p.page.Resources
	if res.Fonts == nil {
		res.Fonts = make(map[string]*fonts.Font)
	}
	res.Fonts[name] = opts.Font
	size := opts.FontSize
	if size <= 0 {
		size = 12
	}
	ops := p.ops()
	*ops = append(*ops,
		semantic.Operation{Operator: "BT"},
		semantic.Operation{Operator: "Tf", Operands: []semantic.Operand{semantic.NameOperand{Value: name}, num(size)}},
		semantic.Operation{Operator: "rg", Operands: nums(opts.Color.R, opts.Color.G, opts.Color.B)},
		semantic.Operation{Operator: "Td", Operands: nums(x, y)},
		semantic.Operation{Operator: "Tj", Operands: []semantic.Operand{semantic.StringOperand{Value: opts.Font.Encode(text)}}},
		semantic.Operation{Operator: "ET"},
	)
	return p
}

func (p *pageBuilderImpl) DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder {
	if !opts.Fill && !opts.Stroke {
		opts.Stroke = true
	}
	ops := p.ops()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	if opts.Fill {
		*ops = append(*ops, semantic.Operation{Operator: "rg", Operands: nums(opts.FillColor.R, opts.FillColor.G, opts.FillColor.B)})
	}
	if opts.Stroke {
		*ops = append(*ops, semantic.Operation{Operator: "RG", Operands: nums(opts.StrokeColor.R, opts.StrokeColor.G, opts.StrokeColor.B)})
		if opts.LineWidth > 0 {
			*ops = append(*ops, semantic.Operation{Operator: "w", Operands: nums(opts.LineWidth)})
		}
	}
	*ops = append(*ops,
		semantic.Operation{Operator: "re", Operands: nums(x, y, width, height)},
		semantic.Operation{Operator: paintOperator(opts.Fill, opts.Stroke)},
		semantic.Operation{Operator: "Q"},
	)
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	ops := p.ops()
	*ops = append(*ops,
		semantic.Operation{Operator: "q"},
		semantic.Operation{Operator: "RG", Operands: nums(opts.StrokeColor.R, opts.StrokeColor.G, opts.StrokeColor.B)},
	)
	if opts.LineWidth > 0 {
		*ops = append(*ops, semantic.Operation{Operator: "w", Operands: nums(opts.LineWidth)})
	}
	*ops = append(*ops,
		semantic.Operation{Operator: "m", Operands: nums(x1, y1)},
		semantic.Operation{Operator: "l", Operands: nums(x2, y2)},
		semantic.Operation{Operator: "S"},
		semantic.Operation{Operator: "Q"},
	)
	return p
}

// DrawImage paints img scaled to width x height with its lower-left corner
// at (x, y).
func (p *pageBuilderImpl) DrawImage(img *semantic.Image, x, y, width, height float64) PageBuilder {
	if img == nil {
		return p
	}
	name := p.parent.imageName(img)
	res := p.page.Resources
	if res.XObjects == nil {
		res.XObjects = make(map[string]*semantic.Image)
	}
	res.XObjects[name] = img
	ops := p.ops()
	*ops = append(*ops,
		semantic.Operation{Operator: "q"},
		semantic.Operation{Operator: "cm", Operands: nums(width, 0, 0, height, x, y)},
		semantic.Operation{Operator: "Do", Operands: []semantic.Operand{semantic.NameOperand{Value: name}}},
		semantic.Operation{Operator: "Q"},
	)
	return p
}

func (p *pageBuilderImpl) Finish() PDFBuilder { return p.parent }

func paintOperator(fill, stroke bool) string {
	switch {
	case fill && stroke:
		return "B"
	case fill:
		return "f"
	default:
		return "S"
	}
}
