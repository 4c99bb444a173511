// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-scraper/internal/store"
)

var importLinksCmd = &cobra.Command{
	Use:   "import-links <csv>...",
	Short: "Import product lists into the database without scraping",
	Long: `Import-links loads one or more CSV files, each into the table named
after its file. Existing products are updated in place and their scrape
results cleared; nothing is dropped. The header must contain Product Name,
Portfolio and Statement URL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImportLinks,
}

func init() {
	rootCmd.AddCommand(importLinksCmd)
}

func runImportLinks(cmd *cobra.Command, args []string) error {
	cfg := runConfig()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.ImportFiles(cmd.Context(), args, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("\nImport summary: %d rows in %d tables, %d skipped\n",
		summary.Rows(), len(summary.Tables), summary.Skipped())
	return nil
}
