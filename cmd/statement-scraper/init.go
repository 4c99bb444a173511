// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-scraper/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and the input and output directories",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("input-dir", "", "directory of CSV files (default input)")
	initCmd.Flags().String("output-dir", "", "directory for report files (default output)")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := runConfig()

	for _, dir := range []string{cfg.InputDir, cfg.Export.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Printf("Database initialized at %s\n", cfg.Store.Path)
	return nil
}
