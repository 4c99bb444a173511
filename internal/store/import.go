// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/statement-scraper/internal/importer"
)

// TableImport is the outcome of loading one CSV file.
type TableImport struct {
	File    string
	Table   string
	Rows    int
	Skipped int
}

// ImportSummary holds counts from an import run.
type ImportSummary struct {
	Tables []TableImport
}

// Rows returns the number of rows imported across all tables.
func (s ImportSummary) Rows() int {
	n := 0
	for _, t := range s.Tables {
		n += t.Rows
	}
	return n
}

// Skipped returns the number of CSV rows skipped across all tables.
func (s ImportSummary) Skipped() int {
	n := 0
	for _, t := range s.Tables {
		n += t.Skipped
	}
	return n
}

// Import loads a parsed CSV file into its table, creating the table when
// needed.
func (s *Store) Import(ctx context.Context, res importer.Result) (TableImport, error) {
	if err := s.EnsureTable(ctx, res.Table); err != nil {
		return TableImport{}, fmt.Errorf("importing %s: %w", res.File, err)
	}
	for _, rec := range res.Records {
		if err := s.Upsert(ctx, res.Table, rec); err != nil {
			return TableImport{}, fmt.Errorf("importing %s: %w", res.File, err)
		}
	}
	return TableImport{File: res.File, Table: res.Table, Rows: len(res.Records), Skipped: res.Skipped}, nil
}

// ImportResults loads parsed files in order, printing one line per table.
func (s *Store) ImportResults(ctx context.Context, results []*importer.Result, w io.Writer) (ImportSummary, error) {
	var summary ImportSummary
	for _, res := range results {
		ti, err := s.Import(ctx, *res)
		if err != nil {
			return summary, err
		}
		fmt.Fprintf(w, "imported: %s -> %s (%d rows, %d skipped)\n", ti.File, ti.Table, ti.Rows, ti.Skipped)
		summary.Tables = append(summary.Tables, ti)
	}
	return summary, nil
}

// ImportFiles parses every file before writing anything, so a bad header
// in any file leaves the store untouched.
func (s *Store) ImportFiles(ctx context.Context, files []string, w io.Writer) (ImportSummary, error) {
	results, err := importer.ReadFiles(files)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.ImportResults(ctx, results, w)
}

// ImportDir imports every CSV file in dir. See ImportFiles.
func (s *Store) ImportDir(ctx context.Context, dir string, w io.Writer) (ImportSummary, error) {
	files, err := importer.ListFiles(dir)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.ImportFiles(ctx, files, w)
}
