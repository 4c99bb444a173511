// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-scraper/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show per-portfolio and completion statistics",
	Long: `Report prints, for each table, how many products per portfolio have
a last review date, followed by how many rows carry a last review, a WCAG
version and a compliance level, and how many were scraped successfully.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("table", "", "report only this table")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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
	return printReports(ctx, st, tables, true, os.Stdout)
}
