// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statement-scraper/internal/store"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of rows in each table",
	RunE:  runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
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
	total := 0
	for _, t := range tables {
		n, err := st.Count(ctx, t)
		if err != nil {
			return err
		}
		fmt.Printf("%-30s %d\n", t, n)
		total += n
	}
	fmt.Printf("Total rows: %d in %d tables\n", total, len(tables))
	return nil
}
