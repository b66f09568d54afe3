package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/launch-data-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/launch-data-etl/internal/adapter/spacex"
	"github.com/couchcryptid/launch-data-etl/internal/adapter/wiki"
)

func newFetchCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch launches from the SpaceX API into the API CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = a.cfg.APICSVPath
			}

			client := spacex.NewClient(a.cfg.SpaceXBaseURL, a.cfg.SpaceXTimeout, a.metrics, a.logger)
			lookup := spacex.NewCachedLookup(client, a.cfg.SpaceXCacheSize, a.metrics)
			records, err := spacex.NewFetcher(client, lookup, a.logger).LoadLaunches(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch launches: %w", err)
			}
			if err := csvfile.WriteLaunchesFile(out, records); err != nil {
				return err
			}
			a.logger.Info("api table written", "path", out, "rows", len(records))
			fmt.Fprintf(a.out, "wrote %d launches to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default $API_CSV)")
	return cmd
}

func newScrapeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the Wikipedia launch tables into the wiki CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = a.cfg.WikiCSVPath
			}

			scraper := wiki.NewScraper(a.cfg.WikiURL, a.cfg.WikiMaxTables, a.cfg.WikiTimeout, a.logger)
			records, err := scraper.LoadBoosters(cmd.Context())
			if err != nil {
				return fmt.Errorf("scrape boosters: %w", err)
			}
			if err := csvfile.WriteBoostersFile(out, records); err != nil {
				return err
			}
			a.logger.Info("wiki table written", "path", out, "rows", len(records))
			fmt.Fprintf(a.out, "wrote %d booster rows to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default $WIKI_CSV)")
	return cmd
}
