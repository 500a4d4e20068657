package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wudi/quotekit/assets"
	"github.com/wudi/quotekit/config"
	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/docmodel"
	"github.com/wudi/quotekit/fonts"
	"github.com/wudi/quotekit/observability"
	"github.com/wudi/quotekit/render"
	"github.com/wudi/quotekit/server"
	"github.com/wudi/quotekit/store"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the rendering API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfgPath, cmd.Flags().Changed("log-level"))
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to the YAML configuration file")
	return cmd
}

func serve(ctx context.Context, cfgPath string, levelFromFlag bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if !levelFromFlag {
		logLevel = cfg.LogLevel
	}
	logger := newLogger()
	ctx = logger.WithContext(ctx)
	log := observability.NewZerolog(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	fetcher, err := newFetcher(ctx, cfg, log)
	if err != nil {
		return err
	}

	registry := fonts.NewRegistry()
	if cfg.FontsDir != "" {
		n, err := registry.LoadDir(cfg.FontsDir)
		if err != nil {
			return fmt.Errorf("load fonts: %w", err)
		}
		logger.Info().Int("fonts", n).Str("dir", cfg.FontsDir).Msg("fonts registered")
	}

	defaultDesign, err := design.LoadFile(cfg.Design)
	if err != nil {
		return err
	}

	svc := render.NewService(
		render.WithFetcher(fetcher),
		render.WithLogger(log),
		render.WithTracer(observability.NewOTelTracer(nil)),
		render.WithMetrics(metrics),
		render.WithFontRegistry(registry),
		render.WithLogoTimeout(cfg.Assets.Timeout),
		render.WithDesign(defaultDesign),
	)

	deps := server.Dependencies{Renderer: svc, Logger: logger, Gatherer: reg}
	if cfg.Database.DSN != "" {
		st, err := store.Open(ctx, store.Dialect(cfg.Database.Driver), cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		deps.Store = st
	} else {
		logger.Warn().Msg("no database configured; quotation and settings routes are disabled")
	}

	api := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		JWTSecret:       []byte(cfg.Auth.JWTSecret),
		Issuer:          cfg.Auth.Issuer,
	}, deps)
	return api.Start(ctx)
}

// newFetcher assembles the logo fetchers the configuration enables.
func newFetcher(ctx context.Context, cfg *config.Config, log observability.Logger) (assets.Fetcher, error) {
	web := assets.NewHTTPFetcher(assets.WithTimeout(cfg.Assets.Timeout), assets.WithMaxBytes(cfg.Assets.MaxBytes))
	mux := assets.NewMux().Handle("http", web).Handle("https", web)
	if cfg.Assets.Root != "" {
		mux.Handle("file", assets.FileFetcher{Root: cfg.Assets.Root})
	}
	if cfg.Assets.S3Region != "" {
		s3f, err := assets.NewS3FetcherFromEnv(ctx, cfg.Assets.S3Region)
		if err != nil {
			return nil, err
		}
		mux.Handle("s3", s3f)
	}
	if cfg.Redis.Addr == "" {
		return mux, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	zerolog.Ctx(ctx).Info().Str("addr", cfg.Redis.Addr).Msg("logo cache enabled")
	return assets.NewRedisCache(client, mux,
		assets.WithTTL(cfg.Redis.TTL),
		assets.WithCacheLogger(log),
		assets.WithValidator(validLogo),
	), nil
}

// validLogo keeps undecodable or oversized logos out of the cache.
func validLogo(data []byte) error {
	_, err := docmodel.NewLogo(data)
	return err
}
