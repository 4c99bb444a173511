// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/statement-scraper/internal/httputil"
	"github.com/pdiddy/statement-scraper/internal/logging"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

// maxBodyBytes bounds how much of a page is read.
const maxBodyBytes = 10 << 20

// HTTP fetches pages with a plain GET. It does not run JavaScript, so
// pages rendered client-side come back without their statement text.
type HTTP struct {
	client *http.Client
	cfg    types.HTTPConfig
	logger *zap.Logger
}

// NewHTTP returns an HTTP fetcher using cfg's timeout and User-Agent.
func NewHTTP(cfg types.HTTPConfig, logger *zap.Logger) *HTTP {
	cfg = withDefaults(cfg)
	return &HTTP{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logging.Or(logger),
	}
}

// Fetch performs the GET. Rate-limit replies are retried by
// httputil.DoWithRetry only when MaxRetries is set; any other non-2xx
// status is a failure.
func (h *HTTP) Fetch(ctx context.Context, url string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		h.logger.Warn("building request", zap.String("url", url), zap.Error(err))
		return "", false
	}
	req.Header.Set("User-Agent", h.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	retries := h.cfg.MaxRetries
	if retries <= 0 {
		retries = -1
	}
	resp, err := httputil.DoWithRetry(ctx, h.client, req, retries)
	if err != nil {
		h.logger.Warn("fetching page", zap.String("url", url), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if !httputil.IsSuccess(resp.StatusCode) {
		h.logger.Warn("unexpected status", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("reading body", zap.String("url", url), zap.Error(err))
		return "", false
	}
	return string(body), true
}

// Close releases idle connections.
func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
