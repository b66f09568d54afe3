package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultWikiURL is the wiki page holding the booster launch tables.
const DefaultWikiURL = "https://en.wikipedia.org/wiki/List_of_Falcon_9_and_Falcon_Heavy_launches"

// Config holds all settings, populated from environment variables.
type Config struct {
	APICSVPath    string
	WikiCSVPath   string
	OutputCSVPath string

	MatchTolerance time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka sink for reconciled records.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// SpaceX API fetcher.
	SpaceXBaseURL   string
	SpaceXTimeout   time.Duration
	SpaceXCacheSize int

	// Wiki scraper.
	WikiURL       string
	WikiMaxTables int
	WikiTimeout   time.Duration

	// SQLite report database; ":memory:" keeps it in process.
	ReportDB string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	tolerance, err := parsePositiveDuration("MATCH_TOLERANCE", "720h")
	if err != nil {
		return nil, err
	}

	spacexTimeout, err := parsePositiveDuration("SPACEX_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	wikiMaxTables, err := parsePositiveInt("WIKI_MAX_TABLES", 10)
	if err != nil {
		return nil, err
	}

	wikiTimeout, err := parsePositiveDuration("WIKI_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APICSVPath:      sharedcfg.EnvOrDefault("API_CSV", "data/processed/spacex_cleaned.csv"),
		WikiCSVPath:     sharedcfg.EnvOrDefault("WIKI_CSV", "data/raw/wiki_booster_data.csv"),
		OutputCSVPath:   sharedcfg.EnvOrDefault("OUTPUT_CSV", "data/processed/spacex_enriched.csv"),
		MatchTolerance:  tolerance,
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "reconciled-launches"),

		SpaceXBaseURL:   sharedcfg.EnvOrDefault("SPACEX_API_URL", "https://api.spacexdata.com"),
		SpaceXTimeout:   spacexTimeout,
		SpaceXCacheSize: parseCacheSize(),

		WikiURL:       sharedcfg.EnvOrDefault("WIKI_URL", DefaultWikiURL),
		WikiMaxTables: wikiMaxTables,
		WikiTimeout:   wikiTimeout,

		ReportDB: sharedcfg.EnvOrDefault("REPORT_DB", ":memory:"),
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseCacheSize() int {
	if s := os.Getenv("SPACEX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
