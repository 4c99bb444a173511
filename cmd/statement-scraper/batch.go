// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-scraper/internal/metrics"
	"github.com/pdiddy/statement-scraper/internal/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Scrape the distinct URLs of already imported tables",
	Long: `Batch fetches every distinct statement URL once and writes the
extracted fields to all products sharing it. Products without a URL are
left alone. Use --table to limit the run to one table.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("table", "", "scrape only this table")
	addScrapeFlags(batchCmd)

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := runConfig()
	only, _ := cmd.Flags().GetString("table")

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	tables, err := selectTables(ctx, st, only)
	if err != nil {
		return err
	}

	m := metrics.New()
	defer finishMetrics(m, cfg.MetricsFile)

	_, err = scrapeTables(ctx, st, cfg, tables, m, os.Stdout)
	return err
}
