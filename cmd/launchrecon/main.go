// Command launchrecon collects SpaceX launch data from the public API and the
// Wikipedia launch list, reconciles the two by nearest launch time, and
// reports landing success rates.
//
// Usage:
//
//	launchrecon fetch      # API -> $API_CSV
//	launchrecon scrape     # wiki -> $WIKI_CSV
//	launchrecon reconcile  # $API_CSV + $WIKI_CSV -> $OUTPUT_CSV (+ Kafka)
//	launchrecon report     # $OUTPUT_CSV -> SQLite -> success-rate tables
//	launchrecon validate   # integrity checks over $OUTPUT_CSV
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
