package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/launch-data-etl/internal/config"
	"github.com/couchcryptid/launch-data-etl/internal/observability"
)

// newMetrics is swapped in tests; the default registry rejects duplicates.
var newMetrics = observability.NewMetrics

// app carries what every subcommand needs once the root has run.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	out     io.Writer
}

type appKey struct{}

func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		return nil, errors.New("application not initialised")
	}
	return a, nil
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:   "launchrecon",
		Short: "Reconcile SpaceX API launches with Wikipedia booster tables",
		Long: `launchrecon fetches launch records from the SpaceX API, scrapes booster
records from the Wikipedia launch list, joins each launch to the booster row
nearest in time, and reports landing success rates.

Settings come from the environment (optionally loaded from .env files).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loadEnvFiles(envFiles)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a := &app{
				cfg:     cfg,
				logger:  observability.NewLogger(cfg, cmd.ErrOrStderr()),
				metrics: newMetrics(),
				out:     cmd.OutOrStdout(),
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, appKey{}, a))
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env", ".env.local"},
		"environment files to load before reading configuration; missing files are skipped")

	root.AddCommand(
		newFetchCmd(),
		newScrapeCmd(),
		newReconcileCmd(),
		newReportCmd(),
		newValidateCmd(),
	)
	return root
}

// loadEnvFiles loads each file that exists. Variables already set in the
// environment win.
func loadEnvFiles(files []string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}
