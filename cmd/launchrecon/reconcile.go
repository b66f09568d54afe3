package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/launch-data-etl/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/launch-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/launch-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/launch-data-etl/internal/pipeline"
)

func newReconcileCmd() *cobra.Command {
	var apiPath, wikiPath, outPath string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Join the API and wiki tables and write the enriched table",
		Long: `reconcile reads both source tables, matches every API launch to the wiki
row nearest in time within MATCH_TOLERANCE, resolves orbit and launch site,
and writes the enriched CSV. With KAFKA_ENABLED=true each record is also
published. With HTTP_ADDR set, health and metrics endpoints stay up after
the run until the process is interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if apiPath != "" {
				a.cfg.APICSVPath = apiPath
			}
			if wikiPath != "" {
				a.cfg.WikiCSVPath = wikiPath
			}
			if outPath != "" {
				a.cfg.OutputCSVPath = outPath
			}
			return runReconcile(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVar(&apiPath, "api", "", "API table path (default $API_CSV)")
	cmd.Flags().StringVar(&wikiPath, "wiki", "", "wiki table path (default $WIKI_CSV)")
	cmd.Flags().StringVar(&outPath, "out", "", "enriched table path (default $OUTPUT_CSV)")
	return cmd
}

func runReconcile(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)

	var opts []pipeline.Option
	if a.cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(a.cfg, runID, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		opts = append(opts, pipeline.WithPublisher(writer))
		logger.Info("kafka publishing enabled", "topic", a.cfg.KafkaTopic)
	}

	p := pipeline.New(
		csvfile.LaunchFile{Path: a.cfg.APICSVPath},
		csvfile.BoosterFile{Path: a.cfg.WikiCSVPath},
		pipeline.NewReconciler(a.cfg.MatchTolerance),
		csvfile.ReconciledFile{Path: a.cfg.OutputCSVPath},
		logger, a.metrics, opts...,
	)

	var srv *httpadapter.Server
	if a.cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(a.cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	stats, runErr := p.Run(ctx)
	if runErr == nil {
		renderStats(a.out, a.cfg.OutputCSVPath, stats)
	}

	if srv != nil {
		if runErr == nil {
			logger.Info("run complete; serving until interrupted", "addr", a.cfg.HTTPAddr)
			<-ctx.Done()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	return runErr
}
