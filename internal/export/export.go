// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes each table's rows to its own report file in the
// output directory, replacing the previous file.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/statement-scraper/pkg/types"
)

// Source reads tables to export.
type Source interface {
	Tables(ctx context.Context) ([]string, error)
	Rows(ctx context.Context, table string) ([]types.Row, error)
}

// Encode serialises rows as a JSON or YAML array. Absent values are kept
// as null and every field is present in every object.
func Encode(rows []types.Row, format types.ExportFormat) ([]byte, error) {
	if rows == nil {
		rows = []types.Row{}
	}
	switch format {
	case types.FormatJSON, "":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(data, '\n'), nil
	case types.FormatYAML:
		data, err := yaml.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Path returns the report file for table.
func Path(cfg types.ExportConfig, table string) string {
	ext := string(cfg.Format)
	if ext == "" {
		ext = string(types.FormatJSON)
	}
	return filepath.Join(cfg.OutputDir, table+"."+ext)
}

// Table writes one table's report and returns its path and row count.
func Table(ctx context.Context, src Source, table string, cfg types.ExportConfig) (string, int, error) {
	rows, err := src.Rows(ctx, table)
	if err != nil {
		return "", 0, err
	}
	data, err := Encode(rows, cfg.Format)
	if err != nil {
		return "", 0, err
	}
	path := Path(cfg, table)
	if err := writeFile(path, data); err != nil {
		return "", 0, err
	}
	return path, len(rows), nil
}

// All exports every table and returns the files written.
func All(ctx context.Context, src Source, cfg types.ExportConfig, w io.Writer) ([]string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	tables, err := src.Tables(ctx)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, t := range tables {
		path, n, err := Table(ctx, src, t, cfg)
		if err != nil {
			return paths, fmt.Errorf("exporting %s: %w", t, err)
		}
		fmt.Fprintf(w, "exported: %s -> %s (%d rows)\n", t, path, n)
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile replaces path with data through a temporary file in the same
// directory.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
