package types

import "time"

// HTTPConfig holds shared settings for fetching statement pages.
type HTTPConfig struct {
	// Timeout bounds a single page fetch, including browser navigation.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is how many times a 429 or 503 reply is retried within a
	// fetch. Zero means a rate-limited page fails like any other.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetcherKind selects the page fetch implementation.
type FetcherKind string

const (
	FetcherBrowser FetcherKind = "browser"
	FetcherHTTP    FetcherKind = "http"
)

// ScrapeConfig holds settings for the scrape stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// Fetcher selects headless Chrome or plain HTTP.
	Fetcher FetcherKind `json:"fetcher" yaml:"fetcher"`

	// Concurrency is the number of distinct URLs fetched in parallel (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// Delay is the pause a worker takes between consecutive fetches.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// StoreConfig holds settings for the SQLite table store.
type StoreConfig struct {
	// Path is the database file (e.g. "scraped_content.db").
	Path string `json:"path" yaml:"path"`
}

// ExportFormat selects the report file format.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// OutputDir receives one file per table.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format is json (default) or yaml.
	Format ExportFormat `json:"format" yaml:"format"`
}

// RunConfig groups all stage configurations for a full run.
type RunConfig struct {
	InputDir    string       `json:"input_dir" yaml:"input_dir"`
	Store       StoreConfig  `json:"store" yaml:"store"`
	Scrape      ScrapeConfig `json:"scrape" yaml:"scrape"`
	Export      ExportConfig `json:"export" yaml:"export"`
	LogLevel    string       `json:"log_level" yaml:"log_level"`
	MetricsFile string       `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}
