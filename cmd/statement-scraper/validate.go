// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-scraper/internal/store"
)

const maxInvalidShown = 10

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check tables for rows with an empty product name",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := runConfig()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	tables, err := st.Tables(ctx)
	if err != nil {
		return err
	}
	bad := 0
	for _, t := range tables {
		rows, err := st.InvalidRows(ctx, t)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		bad += len(rows)
		fmt.Printf("%s: %d bad rows (missing product name)\n", t, len(rows))
		for i, r := range rows {
			if i == maxInvalidShown {
				fmt.Printf("  ... %d more\n", len(rows)-maxInvalidShown)
				break
			}
			fmt.Printf("  id=%d portfolio=%q status=%s\n", r.ID, r.Portfolio, r.Status)
		}
	}
	if bad == 0 {
		fmt.Println("No bad rows found.")
		return nil
	}
	return fmt.Errorf("%d bad row(s) found", bad)
}
