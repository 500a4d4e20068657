// Package writer serializes a semantic.Document to PDF bytes: a classic
// cross-reference table, Flate-compressed streams, and a trailer /ID derived
// from the file body so identical documents produce identical files.
package writer

import (
	"context"
	"errors"
	"io"

	"github.com/wudi/quotekit/ir/semantic"
)

type PDFVersion string

const (
	PDF14 PDFVersion = "1.4"
	PDF17 PDFVersion = "1.7"
)

// ErrNoPages is returned for a document without pages.
var ErrNoPages = errors.New("writer: document has no pages")

// Config controls serialization.
type Config struct {
	Version PDFVersion
	// Compression is the zlib level for streams; 0 writes streams uncompressed.
	Compression int
	// Deterministic derives /ID from the file body instead of random bytes.
	Deterministic bool
}

// DefaultConfig is what the quotation renderer uses.
func DefaultConfig() Config {
	return Config{Version: PDF17, Compression: 6, Deterministic: true}
}

type Writer interface {
	Write(ctx context.Context, doc *semantic.Document, w io.Writer, cfg Config) error
}

// Interceptor observes every indirect object as it is written.
type Interceptor interface {
	AfterWrite(ctx context.Context, objType string, bytesWritten int64) error
}

type WriterBuilder struct{ interceptors []Interceptor }

func (b *WriterBuilder) WithInterceptor(i Interceptor) *WriterBuilder {
	b.interceptors = append(b.interceptors, i)
	return b
}

func (b *WriterBuilder) Build() Writer { return &impl{interceptors: b.interceptors} }

// New returns a writer without interceptors.
func New() Writer { return &impl{} }
