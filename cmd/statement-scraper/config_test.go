// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/statement-scraper/internal/fetch"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("db-path", "", "")
	cmd.Flags().String("input-dir", "", "")
	addScrapeFlags(cmd)
	addExportFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	require.NoError(t, bindFlags(cmd))
	return cmd
}

func TestRunConfigDefaults(t *testing.T) {
	testCommand(t)
	cfg := runConfig()

	assert.Equal(t, "input", cfg.InputDir)
	assert.Equal(t, "scraped_content.db", cfg.Store.Path)
	assert.Equal(t, "output", cfg.Export.OutputDir)
	assert.Equal(t, types.FormatJSON, cfg.Export.Format)
	assert.Equal(t, types.FetcherBrowser, cfg.Scrape.Fetcher)
	assert.Equal(t, fetch.DefaultTimeout, cfg.Scrape.Timeout)
	assert.Equal(t, 4, cfg.Scrape.Concurrency)
	assert.Equal(t, fetch.DefaultUserAgent, cfg.Scrape.UserAgent)
	assert.Zero(t, cfg.Scrape.MaxRetries)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsFile)
}

func TestRunConfigFlagsOverride(t *testing.T) {
	testCommand(t,
		"--db-path", "x.db",
		"--input-dir", "lists",
		"--fetcher", "http",
		"--timeout", "5s",
		"--concurrency", "8",
		"--delay", "250ms",
		"--max-retries", "2",
		"--format", "yaml",
		"--metrics-file", "run.prom",
	)
	cfg := runConfig()

	assert.Equal(t, "x.db", cfg.Store.Path)
	assert.Equal(t, "lists", cfg.InputDir)
	assert.Equal(t, types.FetcherHTTP, cfg.Scrape.Fetcher)
	assert.Equal(t, 5*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, 8, cfg.Scrape.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.Scrape.Delay)
	assert.Equal(t, 2, cfg.Scrape.MaxRetries)
	assert.Equal(t, types.FormatYAML, cfg.Export.Format)
	assert.Equal(t, "run.prom", cfg.MetricsFile)
}

func TestRunConfigEnv(t *testing.T) {
	t.Setenv("STATEMENT_SCRAPER_CONCURRENCY", "2")
	testCommand(t)
	viper.SetEnvPrefix("STATEMENT_SCRAPER")
	viper.AutomaticEnv()

	assert.Equal(t, 2, runConfig().Scrape.Concurrency)
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run-all", "init", "import-links", "batch", "report", "count", "validate", "export", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "statement-scraper "+version+"\n", out.String())
}
