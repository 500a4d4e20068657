// Package server exposes quotations, settings and rendering over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/wudi/quotekit/quote"
	"github.com/wudi/quotekit/render"
	"github.com/wudi/quotekit/render/screen"
	"github.com/wudi/quotekit/store"
)

// Store is the persistence the handlers need. *store.SQLStore implements it.
type Store interface {
	GetQuotation(ctx context.Context, owner, id string) (*quote.Quotation, error)
	SaveQuotation(ctx context.Context, owner string, q *quote.Quotation) error
	ListQuotations(ctx context.Context, owner string) ([]store.Summary, error)
	GetSettings(ctx context.Context, owner string) (store.Settings, error)
	SaveSettings(ctx context.Context, owner string, s store.Settings) error
}

// Renderer produces documents. *render.Service implements it.
type Renderer interface {
	PDF(ctx context.Context, q *quote.Quotation, o *render.Overrides) ([]byte, error)
	HTML(ctx context.Context, q *quote.Quotation, o *render.Overrides, opts screen.Options) ([]byte, error)
}

type Dependencies struct {
	// Store may be nil; the quotation and settings routes then answer 503
	// and ad-hoc renders use the default settings.
	Store    Store
	Renderer Renderer
	Logger   zerolog.Logger
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	JWTSecret       []byte
	Issuer          string
}

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	cfg    Config
}

func New(cfg Config, deps Dependencies) *WebAPI {
	h := &handler{store: deps.Store, renderer: deps.Renderer}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	logger := deps.Logger

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(RequestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticate(cfg.JWTSecret, cfg.Issuer))
		r.Get("/quotations", h.listQuotations)
		r.Get("/quotations/{id}", h.getQuotation)
		r.Put("/quotations/{id}", h.putQuotation)
		r.Get("/quotations/{id}/pdf", h.quotationPDF)
		r.Get("/quotations/{id}/preview", h.quotationPreview)
		r.Post("/render/pdf", h.renderPDF)
		r.Post("/render/preview", h.renderPreview)
		r.Get("/settings", h.getSettings)
		r.Put("/settings", h.putSettings)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		cfg:    cfg,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *WebAPI) Handler() http.Handler { return w.router }

// Start serves until ctx is canceled, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")
		timeout := w.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := w.server.Shutdown(sctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
