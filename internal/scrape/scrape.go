// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches each distinct statement URL of a table once and
// writes the extracted fields to every row sharing that URL.
package scrape

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/statement-scraper/internal/extract"
	"github.com/pdiddy/statement-scraper/internal/fetch"
	"github.com/pdiddy/statement-scraper/internal/logging"
	"github.com/pdiddy/statement-scraper/internal/metrics"
	"github.com/pdiddy/statement-scraper/internal/store"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

// DefaultConcurrency is the number of URLs fetched in parallel when the
// config does not say.
const DefaultConcurrency = 4

// Store is the part of the table store the orchestrator needs.
type Store interface {
	URLGroups(ctx context.Context, table string) ([]store.URLGroup, error)
	UpdateScrapeResult(ctx context.Context, table, url string, f types.Fields, status types.Status, fetchedAt string) (int64, error)
}

// Summary holds counts of distinct URLs by outcome. Skipped counts URLs
// left untouched because the run was cancelled.
type Summary struct {
	Success   int
	NoContent int
	Failed    int
	Skipped   int
	Rows      int64
}

// Total returns the number of distinct URLs seen.
func (s Summary) Total() int {
	return s.Success + s.NoContent + s.Failed + s.Skipped
}

// HasFailures reports whether any URL failed to fetch.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

func (s *Summary) add(o Summary) {
	s.Success += o.Success
	s.NoContent += o.NoContent
	s.Failed += o.Failed
	s.Skipped += o.Skipped
	s.Rows += o.Rows
}

func (s *Summary) record(status types.Status, rows int64) {
	switch status {
	case types.StatusSuccess:
		s.Success++
	case types.StatusNoContent:
		s.NoContent++
	case types.StatusFailed:
		s.Failed++
	}
	s.Rows += rows
}

// Orchestrator runs the scrape stage. Now, Extract, Logger and Metrics
// may be replaced before use.
type Orchestrator struct {
	store   Store
	fetcher fetch.Fetcher
	cfg     types.ScrapeConfig

	// Now supplies the run date written to fetched_at.
	Now func() time.Time
	// Extract derives fields from fetched content.
	Extract func(content string) types.Fields
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// New returns an orchestrator reading and writing st and fetching with f.
func New(st Store, f fetch.Fetcher, cfg types.ScrapeConfig) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		store:   st,
		fetcher: f,
		cfg:     cfg,
		Now:     time.Now,
		Extract: extract.Extract,
		Logger:  zap.NewNop(),
	}
}

// Classify turns a fetch outcome into the fields and status to store.
// Failed and empty fetches store no fields. Any other page is a success,
// even when none of its sections were located.
func Classify(content string, ok bool, extractFn func(string) types.Fields) (types.Fields, types.Status) {
	if !ok {
		return types.Fields{}, types.StatusFailed
	}
	if strings.TrimSpace(content) == "" {
		return types.Fields{}, types.StatusNoContent
	}
	return extractFn(content), types.StatusSuccess
}

// ScrapeTable processes every distinct URL in table. A URL's failure is
// recorded on its rows and never stops the run; only store errors and
// cancellation are returned. Progress lines go to w.
func (o *Orchestrator) ScrapeTable(ctx context.Context, table string, w io.Writer) (Summary, error) {
	groups, err := o.store.URLGroups(ctx, table)
	if err != nil {
		return Summary{}, err
	}

	logger := logging.Or(o.Logger).With(zap.String("table", table))
	runDate := o.Now().Format(types.FetchedAtLayout)

	var (
		mu      sync.Mutex
		summary Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Concurrency)

	for i, grp := range groups {
		i, grp := i, grp
		g.Go(func() error {
			if i >= o.cfg.Concurrency && o.cfg.Delay > 0 {
				select {
				case <-gctx.Done():
				case <-time.After(o.cfg.Delay):
				}
			}
			if gctx.Err() != nil {
				mu.Lock()
				summary.Skipped++
				mu.Unlock()
				return nil
			}

			start := time.Now()
			content, ok := o.fetcher.Fetch(gctx, grp.URL)
			if gctx.Err() != nil {
				mu.Lock()
				summary.Skipped++
				mu.Unlock()
				return nil
			}
			fields, status := Classify(content, ok, o.Extract)

			n, err := o.store.UpdateScrapeResult(gctx, table, grp.URL, fields, status, runDate)
			if err != nil {
				return err
			}
			o.Metrics.URLDone(table, string(status), n, time.Since(start))
			logger.Debug("scraped", zap.String("url", grp.URL), zap.String("status", string(status)),
				zap.Strings("products", grp.Products))

			mu.Lock()
			defer mu.Unlock()
			summary.record(status, n)
			fmt.Fprintf(w, "%-9s %s (%d %s)\n", status+":", grp.URL, n, plural(n, "row"))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "\nScrape summary for %s: %d success, %d no_content, %d failed, %d skipped (total: %d URLs, %d rows)\n",
		table, summary.Success, summary.NoContent, summary.Failed, summary.Skipped, summary.Total(), summary.Rows)
	return summary, ctx.Err()
}

// ScrapeTables runs ScrapeTable over tables in order and returns the
// combined summary. It stops at the first error.
func (o *Orchestrator) ScrapeTables(ctx context.Context, tables []string, w io.Writer) (Summary, error) {
	var total Summary
	for _, t := range tables {
		s, err := o.ScrapeTable(ctx, t, w)
		total.add(s)
		if err != nil {
			return total, fmt.Errorf("scraping %s: %w", t, err)
		}
	}
	return total, nil
}

func plural(n int64, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
