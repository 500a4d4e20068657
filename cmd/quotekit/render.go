package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wudi/quotekit/assets"
	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/fonts"
	"github.com/wudi/quotekit/observability"
	"github.com/wudi/quotekit/quote"
	"github.com/wudi/quotekit/render"
	"github.com/wudi/quotekit/render/screen"
)

type renderFlags struct {
	quotation   string
	company     string
	design      string
	fontsDir    string
	assetsRoot  string
	logoTimeout time.Duration
	out         string
}

func (f *renderFlags) register(cmd *cobra.Command, defaultOut string) {
	cmd.Flags().StringVarP(&f.quotation, "quotation", "q", "", "quotation file (JSON or YAML)")
	cmd.Flags().StringVar(&f.company, "company", "", "company branding file (JSON or YAML)")
	cmd.Flags().StringVarP(&f.design, "design", "d", "classic", "design file or preset name")
	cmd.Flags().StringVar(&f.fontsDir, "fonts", "", "directory of TrueType fonts")
	cmd.Flags().StringVar(&f.assetsRoot, "assets", "", "root directory for file:// logos")
	cmd.Flags().DurationVar(&f.logoTimeout, "logo-timeout", assets.DefaultTimeout, "logo fetch timeout")
	cmd.Flags().StringVarP(&f.out, "out", "o", defaultOut, "output file")
	_ = cmd.MarkFlagRequired("quotation")
}

// decodeFile reads JSON, or YAML when the extension says so.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// service builds a render service and the quotation from the flags.
func (f *renderFlags) service() (*render.Service, *quote.Quotation, error) {
	var q quote.Quotation
	if err := decodeFile(f.quotation, &q); err != nil {
		return nil, nil, err
	}
	var company quote.CompanyBranding
	if f.company != "" {
		if err := decodeFile(f.company, &company); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := design.LoadFile(f.design)
	if err != nil {
		return nil, nil, err
	}
	reg := fonts.NewRegistry()
	if f.fontsDir != "" {
		if _, err := reg.LoadDir(f.fontsDir); err != nil {
			return nil, nil, err
		}
	}
	web := assets.NewHTTPFetcher(assets.WithTimeout(f.logoTimeout))
	fetcher := assets.NewMux().
		Handle("http", web).
		Handle("https", web).
		Handle("file", assets.FileFetcher{Root: f.assetsRoot})

	svc := render.NewService(
		render.WithLogger(observability.NewZerolog(newLogger())),
		render.WithFetcher(fetcher),
		render.WithFontRegistry(reg),
		render.WithLogoTimeout(f.logoTimeout),
		render.WithCompany(company),
		render.WithDesign(cfg),
	)
	return svc, &q, nil
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a quotation to PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, q, err := f.service()
			if err != nil {
				return err
			}
			out, err := svc.PDF(cmd.Context(), q, nil)
			if err != nil {
				return err
			}
			return os.WriteFile(f.out, out, 0o644)
		},
	}
	f.register(cmd, "proposta.pdf")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var f renderFlags
	var opts screen.Options
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a quotation to HTML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, q, err := f.service()
			if err != nil {
				return err
			}
			out, err := svc.HTML(cmd.Context(), q, nil, opts)
			if err != nil {
				return err
			}
			return os.WriteFile(f.out, out, 0o644)
		},
	}
	f.register(cmd, "proposta.html")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "emit print CSS for the host print engine")
	cmd.Flags().BoolVar(&opts.Fragment, "fragment", false, "emit only the document fragment")
	return cmd
}
