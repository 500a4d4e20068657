// Command quotekit renders quotations to PDF and HTML and serves the
// rendering API.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wudi/quotekit/observability"
)

var logLevel string

func newLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(observability.ParseLevel(logLevel))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quotekit",
		Short:         "Render sales quotations to PDF and HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(newRenderCmd(), newPreviewCmd(), newServeCmd(), newDesignCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "quotekit: %v\n", err)
		os.Exit(1)
	}
}
