// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-scraper/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one report file per table",
	Long: `Export writes every table to <output-dir>/<table>.json (or .yaml with
--format yaml), replacing the previous file. Each row is an object with
all fields present; fields that were not found are null.`,
	RunE: runExport,
}

func init() {
	addExportFlags(exportCmd)

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := runConfig()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	return exportTables(cmd.Context(), st, cfg.Export, os.Stdout)
}
