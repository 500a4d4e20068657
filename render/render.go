// Package render is the entry point of the quotation pipeline: it resolves
// branding and design, fetches the logo, builds the document model, lays it
// out and hands the result to the PDF or screen renderer.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wudi/quotekit/assets"
	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/docmodel"
	"github.com/wudi/quotekit/fonts"
	"github.com/wudi/quotekit/interp"
	"github.com/wudi/quotekit/layout"
	"github.com/wudi/quotekit/observability"
	"github.com/wudi/quotekit/quote"
	"github.com/wudi/quotekit/render/pdf"
	"github.com/wudi/quotekit/render/screen"
)

// ErrRenderFailed is matched by every *Error.
var ErrRenderFailed = errors.New("render failed")

// Pipeline stages reported in Error.Stage.
const (
	StageValidate = "validate"
	StageModel    = "model"
	StageLayout   = "layout"
	StagePaint    = "paint"
)

// Error reports a failed render. No partial document accompanies it.
type Error struct {
	Stage    string
	RenderID string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.RenderID, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrRenderFailed }

// Overrides replace the service defaults for a single call. Nil members keep
// the default.
type Overrides struct {
	Company *quote.CompanyBranding
	Design  *design.Config
	Policy  *interp.Policy
}

// Service renders quotations. It holds configuration only; every call builds
// its own model, layout and output buffer.
type Service struct {
	fetcher     assets.Fetcher
	logger      observability.Logger
	tracer      observability.Tracer
	metrics     *observability.Metrics
	registry    *fonts.Registry
	logoTimeout time.Duration
	policy      interp.Policy
	company     quote.CompanyBranding
	design      design.Config
	pdf         *pdf.Renderer
	newID       func() string
}

// Option configures a Service.
type Option func(*Service)

// WithFetcher sets the logo fetcher. A nil fetcher disables logos.
func WithFetcher(f assets.Fetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

func WithLogger(l observability.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithTracer(t observability.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithFontRegistry resolves design font names to embedded TrueType fonts.
func WithFontRegistry(r *fonts.Registry) Option {
	return func(s *Service) { s.registry = r }
}

// WithLogoTimeout bounds the logo fetch, redirect included.
func WithLogoTimeout(d time.Duration) Option {
	return func(s *Service) { s.logoTimeout = d }
}

// WithPolicy sets how unknown placeholders are treated.
func WithPolicy(p interp.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithCompany sets the default branding.
func WithCompany(c quote.CompanyBranding) Option {
	return func(s *Service) { s.company = c }
}

// WithDesign sets the default design.
func WithDesign(cfg design.Config) Option {
	return func(s *Service) { s.design = cfg }
}

// WithPDFRenderer replaces the PDF renderer.
func WithPDFRenderer(r *pdf.Renderer) Option {
	return func(s *Service) { s.pdf = r }
}

// NewService creates a service. By default logos are fetched from data:,
// http: and https: references with assets.DefaultTimeout.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger:      observability.NopLogger{},
		tracer:      observability.NopTracer(),
		logoTimeout: assets.DefaultTimeout,
		policy:      interp.KeepUnknown,
		design:      design.Default(),
		pdf:         pdf.New(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		web := assets.NewHTTPFetcher(assets.WithTimeout(s.logoTimeout))
		s.fetcher = assets.NewMux().Handle("http", web).Handle("https", web)
	}
	return s
}

// PDF renders q as a PDF document.
func (s *Service) PDF(ctx context.Context, q *quote.Quotation, o *Overrides) ([]byte, error) {
	var out []byte
	err := s.run(ctx, "pdf", q, o, func(ctx context.Context, j *job) error {
		ctx, span := s.tracer.StartSpan(ctx, observability.SpanPaint)
		defer span.Finish()
		b, err := s.pdf.Bytes(ctx, j.doc, j.res)
		if err != nil {
			span.SetError(err)
			return j.fail(StagePaint, err)
		}
		s.metrics.ObservePDFBytes(len(b))
		j.log.Debug("pdf written", observability.Int("bytes", len(b)))
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HTML renders q as on-screen markup.
func (s *Service) HTML(ctx context.Context, q *quote.Quotation, o *Overrides, opts screen.Options) ([]byte, error) {
	var out []byte
	err := s.run(ctx, "html", q, o, func(ctx context.Context, j *job) error {
		_, span := s.tracer.StartSpan(ctx, observability.SpanPaint)
		defer span.Finish()
		b, err := screen.Bytes(j.doc, j.res, opts)
		if err != nil {
			span.SetError(err)
			return j.fail(StagePaint, err)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// job is the state of one render call.
type job struct {
	id  string
	log observability.Logger
	doc *docmodel.Document
	res *layout.Result
}

func (j *job) fail(stage string, err error) error {
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Stage: stage, RenderID: j.id, Err: err}
}

// checkpoint aborts the render when the caller went away.
func (j *job) checkpoint(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return j.fail(stage, err)
	}
	return nil
}

func (s *Service) run(ctx context.Context, format string, q *quote.Quotation, o *Overrides, paint func(context.Context, *job) error) error {
	start := time.Now()
	j := &job{id: s.newID()}
	j.log = s.logger.With(observability.String("render_id", j.id), observability.String("format", format))

	ctx, span := s.tracer.StartSpan(ctx, observability.SpanRender)
	defer span.Finish()
	span.SetTag("render_id", j.id)
	span.SetTag("format", format)

	err := s.prepare(ctx, j, q, o)
	if err == nil {
		err = j.checkpoint(ctx, StagePaint)
	}
	if err == nil {
		err = paint(ctx, j)
	}

	elapsed := time.Since(start)
	if err != nil {
		span.SetError(err)
		s.metrics.ObserveRender(format, "error", elapsed)
		j.log.Error("render failed", observability.Error("error", err), observability.Duration("elapsed", elapsed))
		return err
	}
	span.SetTag("pages", len(j.res.Pages))
	s.metrics.ObserveRender(format, "ok", elapsed)
	s.metrics.ObservePages(len(j.res.Pages))
	j.log.Info("quotation rendered",
		observability.String("number", q.Number),
		observability.Int("pages", len(j.res.Pages)),
		observability.Duration("elapsed", elapsed),
	)
	return nil
}

// prepare validates the input and produces the model and its layout.
func (s *Service) prepare(ctx context.Context, j *job, q *quote.Quotation, o *Overrides) error {
	if q == nil {
		return j.fail(StageValidate, errors.New("nil quotation"))
	}
	if err := q.Validate(); err != nil {
		return j.fail(StageValidate, err)
	}
	company, cfg, policy := s.company, s.design, s.policy
	if o != nil {
		if o.Company != nil {
			company = *o.Company
		}
		if o.Design != nil {
			cfg = *o.Design
		}
		if o.Policy != nil {
			policy = *o.Policy
		}
	}
	if err := cfg.Validate(); err != nil {
		return j.fail(StageValidate, err)
	}

	var logo *docmodel.Logo
	if cfg.ShowLogo && company.LogoURL != "" {
		logo = s.logo(ctx, j, company.LogoURL)
	}
	if err := j.checkpoint(ctx, StageModel); err != nil {
		return err
	}

	_, span := s.tracer.StartSpan(ctx, observability.SpanModel)
	doc, err := docmodel.Build(docmodel.Input{
		Quotation: q,
		Company:   company,
		Design:    cfg,
		Logo:      logo,
		Policy:    policy,
	})
	span.SetError(err)
	span.Finish()
	if err != nil {
		return j.fail(StageModel, err)
	}
	j.doc = doc
	if err := j.checkpoint(ctx, StageLayout); err != nil {
		return err
	}

	_, span = s.tracer.StartSpan(ctx, observability.SpanLayout)
	res, err := layout.NewEngine(layout.WithFontRegistry(s.registry)).Layout(doc)
	span.SetError(err)
	span.Finish()
	if err != nil {
		return j.fail(StageLayout, err)
	}
	j.res = res
	return nil
}

// logo fetches and validates the company logo. Any failure is logged and
// the document is rendered without it.
func (s *Service) logo(ctx context.Context, j *job, ref string) *docmodel.Logo {
	ctx, span := s.tracer.StartSpan(ctx, observability.SpanLogo)
	defer span.Finish()
	if s.logoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.logoTimeout)
		defer cancel()
	}

	data, err := s.fetcher.Fetch(ctx, ref)
	var logo *docmodel.Logo
	if err == nil {
		logo, err = docmodel.NewLogo(data)
	}
	if err != nil {
		span.SetError(err)
		s.metrics.LogoFetchFailed()
		j.log.Warn("logo unavailable, rendering without it", observability.Error("error", err))
		return nil
	}
	return logo
}
