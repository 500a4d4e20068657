// Package docmodel turns a quotation and its design into the ordered,
// renderer-independent block list both renderers paint.
package docmodel

import (
	"image"

	"github.com/wudi/quotekit/design"
)

// Kind tags a block.
type Kind int

const (
	KindHeader Kind = iota
	KindInfoBar
	KindCustomerPanel
	KindTextBlock
	KindItemTable
	KindTotalsPanel
	KindConditionsPanel
	KindFooter
)

var kindNames = [...]string{
	KindHeader:          "header",
	KindInfoBar:         "info-bar",
	KindCustomerPanel:   "customer-panel",
	KindTextBlock:       "text-block",
	KindItemTable:       "item-table",
	KindTotalsPanel:     "totals-panel",
	KindConditionsPanel: "conditions-panel",
	KindFooter:          "footer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Document is the immutable output of Build.
type Document struct {
	Title  string
	Author string
	Design design.Config
	Blocks []Block
}

// Block is one unit of content. Content's dynamic type matches Kind.
type Block struct {
	Kind    Kind
	Content Content
}

// Content is implemented only by the payload types of this package.
type Content interface {
	kind() Kind
}

// Field is a label/value pair.
type Field struct {
	Label string
	Value string
}

// Logo is a decoded image with its source bytes and pixel dimensions.
type Logo struct {
	Data   []byte
	Format string
	Width  int
	Height int

	// Image holds the decoded pixels; nil for logos not built by NewLogo.
	Image image.Image
}

type Header struct {
	CompanyName string
	Subtitle    string
	Contact     []string
	Logo        *Logo
	Align       design.Align
}

type InfoBar struct {
	Title  string
	Fields []Field
}

type CustomerPanel struct {
	Title  string
	Fields []Field
}

// TextRole identifies which document text produced a text block.
type TextRole string

const (
	RoleHeaderText      TextRole = "header-text"
	RoleIntro           TextRole = "intro"
	RoleCommercialNotes TextRole = "commercial-notes"
	RoleTechnicalNotes  TextRole = "technical-notes"
	RoleClosing         TextRole = "closing"
)

type TextBlock struct {
	Role  TextRole
	Title string // empty for untitled blocks
	Text  string
}

// Align is a cell alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Column describes one item-table column. Width is a fixed point width, or
// zero for the column that absorbs the remaining space.
type Column struct {
	Label string
	Width float64
	Align Align
	Money bool
}

// Row is one formatted item row. Index is the zero-based position in the
// full item list.
type Row struct {
	Index int
	Cells []string
}

// Striped reports whether the row gets the stripe background.
func (r Row) Striped() bool { return r.Index%2 == 1 }

type ItemTable struct {
	Columns []Column
	Rows    []Row
}

// DescriptionColumn is the index of the flexible column.
const DescriptionColumn = 1

type TotalLine struct {
	Label    string
	Value    string
	Emphasis bool
}

type TotalsPanel struct {
	Lines []TotalLine
}

type ConditionsPanel struct {
	Title  string
	Fields []Field
}

type Footer struct {
	Text string
}

func (Header) kind() Kind          { return KindHeader }
func (InfoBar) kind() Kind         { return KindInfoBar }
func (CustomerPanel) kind() Kind   { return KindCustomerPanel }
func (TextBlock) kind() Kind       { return KindTextBlock }
func (ItemTable) kind() Kind       { return KindItemTable }
func (TotalsPanel) kind() Kind     { return KindTotalsPanel }
func (ConditionsPanel) kind() Kind { return KindConditionsPanel }
func (Footer) kind() Kind          { return KindFooter }

// FooterText returns the footer text, or "" when the document has no footer.
func (d *Document) FooterText() string {
	for _, b := range d.Blocks {
		if f, ok := b.Content.(Footer); ok {
			return f.Text
		}
	}
	return ""
}
