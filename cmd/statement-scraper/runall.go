// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/statement-scraper/internal/importer"
	"github.com/pdiddy/statement-scraper/internal/metrics"
	"github.com/pdiddy/statement-scraper/internal/store"
)

var runAllCmd = &cobra.Command{
	Use:   "run-all",
	Short: "Wipe, import every CSV, scrape, summarise and export",
	Long: `Run-all is the monthly job. It reads every CSV file in the input
directory, drops all previously imported tables, imports each file as its
own table, scrapes every distinct statement URL, prints a per-portfolio
summary and writes one report file per table to the output directory.

All input files are checked before anything is dropped: a missing input
directory or a bad header stops the run with a non-zero exit status. A
page that cannot be fetched is recorded on its rows and does not.`,
	RunE: runRunAll,
}

func init() {
	runAllCmd.Flags().String("input-dir", "", "directory of CSV files (default input)")
	addScrapeFlags(runAllCmd)
	addExportFlags(runAllCmd)

	rootCmd.AddCommand(runAllCmd)
}

func runRunAll(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := runConfig()
	out := os.Stdout

	files, err := importer.ListFiles(cfg.InputDir)
	if err != nil {
		return err
	}
	results, err := importer.ReadFiles(files)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	defer finishMetrics(m, cfg.MetricsFile)

	if err := st.WipeAll(ctx); err != nil {
		return err
	}
	imported, err := st.ImportResults(ctx, results, out)
	if err != nil {
		return err
	}
	for _, t := range imported.Tables {
		m.Imported(t.Table, t.Rows, t.Skipped)
	}
	fmt.Fprintf(out, "\nImport summary: %d rows in %d tables, %d skipped\n\n",
		imported.Rows(), len(imported.Tables), imported.Skipped())

	tables := make([]string, 0, len(imported.Tables))
	for _, t := range imported.Tables {
		tables = append(tables, t.Table)
	}

	summary, err := scrapeTables(ctx, st, cfg, tables, m, out)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		logger.Info("some statement pages could not be fetched", zap.Int("failed", summary.Failed))
	}

	if err := printReports(ctx, st, tables, false, out); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return exportTables(ctx, st, cfg.Export, out)
}
