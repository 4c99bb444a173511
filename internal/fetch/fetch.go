// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves accessibility statement pages. A Fetcher never
// returns an error: timeouts, network failures and non-success responses
// all report ok=false, and the caller records the URL as failed.
package fetch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/statement-scraper/pkg/types"
)

// Default settings applied when the config leaves a field zero.
const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetcher returns the raw content of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (content string, ok bool)
}

// FetchCloser is a Fetcher holding resources that must be released.
type FetchCloser interface {
	Fetcher
	Close() error
}

// New builds the fetcher selected by cfg.Fetcher. An empty kind selects
// the headless browser.
func New(cfg types.ScrapeConfig, logger *zap.Logger) (FetchCloser, error) {
	switch cfg.Fetcher {
	case types.FetcherBrowser, "":
		return NewBrowser(cfg.HTTPConfig, logger), nil
	case types.FetcherHTTP:
		return NewHTTP(cfg.HTTPConfig, logger), nil
	default:
		return nil, fmt.Errorf("unknown fetcher %q (want %q or %q)", cfg.Fetcher, types.FetcherBrowser, types.FetcherHTTP)
	}
}

func withDefaults(cfg types.HTTPConfig) types.HTTPConfig {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return cfg
}
