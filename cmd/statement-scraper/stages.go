// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/statement-scraper/internal/export"
	"github.com/pdiddy/statement-scraper/internal/fetch"
	"github.com/pdiddy/statement-scraper/internal/metrics"
	"github.com/pdiddy/statement-scraper/internal/report"
	"github.com/pdiddy/statement-scraper/internal/scrape"
	"github.com/pdiddy/statement-scraper/internal/store"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

// selectTables returns the stored tables, or only the named one.
func selectTables(ctx context.Context, st *store.Store, only string) ([]string, error) {
	tables, err := st.Tables(ctx)
	if err != nil {
		return nil, err
	}
	if only == "" {
		return tables, nil
	}
	if !slices.Contains(tables, only) {
		return nil, fmt.Errorf("no table %q (have %v)", only, tables)
	}
	return []string{only}, nil
}

// scrapeTables fetches and extracts every distinct URL in tables.
func scrapeTables(ctx context.Context, st *store.Store, cfg types.RunConfig, tables []string, m *metrics.Metrics, w io.Writer) (scrape.Summary, error) {
	f, err := fetch.New(cfg.Scrape, logger)
	if err != nil {
		return scrape.Summary{}, err
	}
	defer f.Close()

	o := scrape.New(st, f, cfg.Scrape)
	o.Logger = logger
	o.Metrics = m
	return o.ScrapeTables(ctx, tables, w)
}

// printReports writes the per-portfolio summary, and optionally the
// completion statistics, for each table.
func printReports(ctx context.Context, st *store.Store, tables []string, completion bool, w io.Writer) error {
	for _, t := range tables {
		rows, err := st.Rows(ctx, t)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		report.RenderPortfolios(w, t, rows)
		if completion {
			report.RenderCompletion(w, t, rows)
		}
	}
	return nil
}

// exportTables writes one report file per table.
func exportTables(ctx context.Context, st *store.Store, cfg types.ExportConfig, w io.Writer) error {
	_, err := export.All(ctx, st, cfg, w)
	return err
}

// finishMetrics stamps the run and writes the textfile when configured.
func finishMetrics(m *metrics.Metrics, path string) {
	m.Finish(time.Now())
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn("writing metrics", zap.Error(err))
	}
}
