// Package pdf paints a laid-out quotation onto PDF pages.
//
// Layout coordinates are top-down; the painter flips them into PDF user
// space. Every block painter receives and returns pen values, so no cursor
// state outlives a single call.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/wudi/quotekit/builder"
	"github.com/wudi/quotekit/docmodel"
	"github.com/wudi/quotekit/ir/semantic"
	"github.com/wudi/quotekit/layout"
	"github.com/wudi/quotekit/writer"
)

// Producer is written to the document information dictionary.
const Producer = "quotekit"

// Renderer turns a layout result into PDF bytes. It holds configuration only
// and is safe for concurrent use.
type Renderer struct {
	writer writer.Writer
	cfg    writer.Config
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWriterConfig overrides serialization settings.
func WithWriterConfig(cfg writer.Config) Option {
	return func(r *Renderer) { r.cfg = cfg }
}

// WithWriter replaces the serializer, e.g. one built with interceptors.
func WithWriter(w writer.Writer) Option {
	return func(r *Renderer) { r.writer = w }
}

// New creates a renderer with deterministic, compressed output.
func New(opts ...Option) *Renderer {
	r := &Renderer{writer: writer.New(), cfg: writer.DefaultConfig()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render paints every page of res and writes the PDF to w.
func (r *Renderer) Render(ctx context.Context, doc *docmodel.Document, res *layout.Result, w io.Writer) error {
	if doc == nil || res == nil {
		return fmt.Errorf("pdf: nil document or layout")
	}
	logo, err := decodeLogo(doc)
	if err != nil {
		return err
	}
	b := builder.NewBuilder().SetInfo(&semantic.DocumentInfo{
		Title:    doc.Title,
		Author:   doc.Author,
		Subject:  doc.Title,
		Creator:  Producer,
		Producer: Producer,
	})
	g := res.Geometry
	for _, page := range res.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &painter{
			page:  b.NewPage(g.PageWidth, g.PageHeight),
			geo:   g,
			theme: res.Theme,
			logo:  logo,
		}
		p.background()
		for _, pl := range page.Placements {
			p.placement(pl)
		}
		p.footer(page.Footer)
	}
	sem, err := b.Build()
	if err != nil {
		return fmt.Errorf("pdf: build pages: %w", err)
	}
	return r.writer.Write(ctx, sem, w, r.cfg)
}

// Bytes renders into a single in-memory buffer.
func (r *Renderer) Bytes(ctx context.Context, doc *docmodel.Document, res *layout.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(ctx, doc, res, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeLogo decodes the header logo once for all pages.
func decodeLogo(doc *docmodel.Document) (*semantic.Image, error) {
	for _, b := range doc.Blocks {
		h, ok := b.Content.(docmodel.Header)
		if !ok || h.Logo == nil {
			continue
		}
		if h.Logo.Image != nil {
			return builder.FromImage(h.Logo.Image), nil
		}
		img, err := builder.ImageFromBytes(h.Logo.Data)
		if err != nil {
			return nil, fmt.Errorf("pdf: logo: %w", err)
		}
		return img, nil
	}
	return nil, nil
}
