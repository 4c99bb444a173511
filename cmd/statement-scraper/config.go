// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/statement-scraper/internal/fetch"
	"github.com/pdiddy/statement-scraper/internal/scrape"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

// Configuration keys. Each can be set in the config file, through a
// STATEMENT_SCRAPER_<KEY> environment variable, or by the matching flag.
const (
	keyDBPath      = "db_path"
	keyInputDir    = "input_dir"
	keyOutputDir   = "output_dir"
	keyFormat      = "format"
	keyFetcher     = "fetcher"
	keyTimeout     = "timeout"
	keyConcurrency = "concurrency"
	keyDelay       = "delay"
	keyUserAgent   = "user_agent"
	keyMaxRetries  = "max_retries"
	keyLogLevel    = "log_level"
	keyMetricsFile = "metrics_file"
)

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"db-path":      keyDBPath,
	"input-dir":    keyInputDir,
	"output-dir":   keyOutputDir,
	"format":       keyFormat,
	"fetcher":      keyFetcher,
	"timeout":      keyTimeout,
	"concurrency":  keyConcurrency,
	"delay":        keyDelay,
	"user-agent":   keyUserAgent,
	"max-retries":  keyMaxRetries,
	"log-level":    keyLogLevel,
	"metrics-file": keyMetricsFile,
}

func setDefaults() {
	viper.SetDefault(keyDBPath, "scraped_content.db")
	viper.SetDefault(keyInputDir, "input")
	viper.SetDefault(keyOutputDir, "output")
	viper.SetDefault(keyFormat, string(types.FormatJSON))
	viper.SetDefault(keyFetcher, string(types.FetcherBrowser))
	viper.SetDefault(keyTimeout, fetch.DefaultTimeout)
	viper.SetDefault(keyConcurrency, scrape.DefaultConcurrency)
	viper.SetDefault(keyDelay, time.Duration(0))
	viper.SetDefault(keyUserAgent, fetch.DefaultUserAgent)
	viper.SetDefault(keyMaxRetries, 0)
	viper.SetDefault(keyLogLevel, "warn")
}

// bindFlags binds the flags the running command defines to their keys.
// Flags are bound per command because several commands share names.
func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// addScrapeFlags registers the fetch settings on cmd.
func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().String("fetcher", "", "page fetcher: browser (headless Chrome) or http (default browser)")
	cmd.Flags().Duration("timeout", 0, "per-page fetch timeout (default 60s)")
	cmd.Flags().Int("concurrency", 0, "distinct URLs fetched in parallel (default 4)")
	cmd.Flags().Duration("delay", 0, "pause between consecutive fetches per worker")
	cmd.Flags().String("user-agent", "", "User-Agent sent with requests")
	cmd.Flags().Int("max-retries", 0, "retries of a rate-limited (429/503) page within one fetch (default none)")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile after the run")
}

// addExportFlags registers the export settings on cmd.
func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-dir", "", "directory for report files (default output)")
	cmd.Flags().String("format", "", "report format: json or yaml (default json)")
}

// runConfig assembles the configuration from flags, environment and
// config file.
func runConfig() types.RunConfig {
	return types.RunConfig{
		InputDir: viper.GetString(keyInputDir),
		Store:    types.StoreConfig{Path: viper.GetString(keyDBPath)},
		Scrape: types.ScrapeConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration(keyTimeout),
				UserAgent:  viper.GetString(keyUserAgent),
				MaxRetries: viper.GetInt(keyMaxRetries),
			},
			Fetcher:     types.FetcherKind(viper.GetString(keyFetcher)),
			Concurrency: viper.GetInt(keyConcurrency),
			Delay:       viper.GetDuration(keyDelay),
		},
		Export: types.ExportConfig{
			OutputDir: viper.GetString(keyOutputDir),
			Format:    types.ExportFormat(viper.GetString(keyFormat)),
		},
		LogLevel:    viper.GetString(keyLogLevel),
		MetricsFile: viper.GetString(keyMetricsFile),
	}
}
