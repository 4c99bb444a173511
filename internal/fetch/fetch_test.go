// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/statement-scraper/internal/httputil"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func TestHTTPFetch(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("<h2>Feedback</h2><p>Email us</p>"))
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	f := NewHTTP(types.HTTPConfig{Timeout: 50 * time.Millisecond, UserAgent: "test-agent"}, nil)
	defer f.Close()

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/ok", "<h2>Feedback</h2><p>Email us</p>", true},
		{"/empty", "", true},
		{"/missing", "", false},
		{"/slow", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := f.Fetch(context.Background(), ts.URL+tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "test-agent", gotUA)
}

func TestHTTPFetchRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	f := NewHTTP(types.HTTPConfig{Timeout: time.Second, MaxRetries: 3}, nil)
	got, ok := f.Fetch(context.Background(), ts.URL)
	assert.True(t, ok)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPFetchRateLimitFailsWithoutRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	f := NewHTTP(types.HTTPConfig{Timeout: time.Second}, nil)
	got, ok := f.Fetch(context.Background(), ts.URL)
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPFetchBadURL(t *testing.T) {
	f := NewHTTP(types.HTTPConfig{}, nil)
	_, ok := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	assert.False(t, ok)

	_, ok = f.Fetch(context.Background(), "://bad")
	assert.False(t, ok)
}

func TestNewSelectsFetcher(t *testing.T) {
	f, err := New(types.ScrapeConfig{Fetcher: types.FetcherHTTP}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTP{}, f)
	require.NoError(t, f.Close())

	f, err = New(types.ScrapeConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Browser{}, f)
	require.NoError(t, f.Close())

	_, err = New(types.ScrapeConfig{Fetcher: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

func TestWithDefaults(t *testing.T) {
	cfg := withDefaults(types.HTTPConfig{})
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)

	cfg = withDefaults(types.HTTPConfig{Timeout: time.Second, UserAgent: "x"})
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, "x", cfg.UserAgent)
}
