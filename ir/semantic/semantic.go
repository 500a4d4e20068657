// Package semantic is the page-level document model produced by the builder
// and consumed by the writer: pages, content operations and the resources
// they reference.
package semantic

import (
	"github.com/wudi/quotekit/fonts"
)

// Document is a complete PDF document prior to serialization.
type Document struct {
	Pages []*Page
	Info  *DocumentInfo
}

// DocumentInfo is the document information dictionary. No dates are kept so
// that identical input serializes to identical bytes.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
}

// Rectangle is a PDF rectangle in default user space.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Page is one page with its content and resources.
type Page struct {
	Index     int
	MediaBox  Rectangle
	Resources *Resources
	Contents  []ContentStream
}

// Resources maps resource names used by content operations.
type Resources struct {
	Fonts    map[string]*fonts.Font
	XObjects map[string]*Image
}

// ContentStream is a sequence of operations.
type ContentStream struct {
	Operations []Operation
}

// Operation represents a PDF operator and operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a type-safe operand value.
type Operand interface {
	operand()
	Type() string
}

type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

// StringOperand holds already-encoded bytes.
type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

// Image is a raster image XObject. Data holds 8-bit samples in ColorSpace
// order; SMask, when set, is a DeviceGray alpha channel.
type Image struct {
	Width            int
	Height           int
	ColorSpace       string
	BitsPerComponent int
	Data             []byte
	SMask            *Image
}
