// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/statement-scraper/internal/scrape"
	"github.com/pdiddy/statement-scraper/internal/store"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

var exportKeys = []string{
	"compliance_level", "compliance_status", "enforcement", "enforcement_present",
	"feedback", "feedback_present", "fetched_at", "id", "issue_text", "last_review",
	"non_accessible", "portfolio", "preparation", "product_name", "status", "url", "wcag",
}

type pageFetcher map[string]string

func (p pageFetcher) Fetch(_ context.Context, url string) (string, bool) {
	c, ok := p[url]
	return c, ok
}

// runPipeline wipes the store, imports dir, scrapes with a fixed clock and
// exports to out.
func runPipeline(t *testing.T, s *store.Store, dir, out string, day time.Time) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.WipeAll(ctx))
	_, err := s.ImportDir(ctx, dir, &bytes.Buffer{})
	require.NoError(t, err)

	o := scrape.New(s, pageFetcher{"https://ok": "<p>This page was last reviewed: 01/02/2024</p>"}, types.ScrapeConfig{})
	o.Now = func() time.Time { return day }
	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	_, err = o.ScrapeTables(ctx, tables, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = All(ctx, s, types.ExportConfig{OutputDir: out}, &bytes.Buffer{})
	require.NoError(t, err)
}

func setup(t *testing.T) (*store.Store, string, string) {
	t.Helper()
	root := t.TempDir()
	s, err := store.Open(types.StoreConfig{Path: filepath.Join(root, "scraped_content.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	in := filepath.Join(root, "input")
	require.NoError(t, os.Mkdir(in, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "products.csv"),
		[]byte("Product Name,Portfolio,Statement URL\nA,X,\nB,X,https://ok\n"), 0o644))
	return s, in, filepath.Join(root, "output")
}

func TestExportLastReviewScenario(t *testing.T) {
	s, in, out := setup(t)
	runPipeline(t, s, in, out, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))

	data, err := os.ReadFile(filepath.Join(out, "products.json"))
	require.NoError(t, err)

	var objs []map[string]any
	require.NoError(t, json.Unmarshal(data, &objs))
	require.Len(t, objs, 2)

	for _, o := range objs {
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		assert.Equal(t, exportKeys, keys)
	}

	a, b := objs[0], objs[1]
	assert.Equal(t, "A", a["product_name"])
	assert.Equal(t, "no_url", a["status"])
	assert.Nil(t, a["url"])
	assert.Nil(t, a["fetched_at"])
	for _, k := range []string{"feedback", "last_review", "wcag", "issue_text", "feedback_present"} {
		assert.Nil(t, a[k], k)
	}

	assert.Equal(t, "B", b["product_name"])
	assert.Equal(t, "success", b["status"])
	assert.Equal(t, "https://ok", b["url"])
	assert.Equal(t, "01/02/2024", b["last_review"])
	assert.Equal(t, "19/10/2026", b["fetched_at"])
	assert.Equal(t, "no", b["feedback_present"])
	assert.Equal(t, float64(2), b["id"])
}

func TestExportRerunIsStable(t *testing.T) {
	s, in, out := setup(t)
	path := filepath.Join(out, "products.json")

	runPipeline(t, s, in, out, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	runPipeline(t, s, in, out, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	runPipeline(t, s, in, out, time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC))
	third, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), strings.ReplaceAll(string(third), "20/11/2026", "19/10/2026"))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestEncodeEmptyTable(t *testing.T) {
	data, err := Encode(nil, types.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestEncodeYAML(t *testing.T) {
	rows := []types.Row{{ID: 1, ProductName: "A", Portfolio: "X", Status: types.StatusNoURL}}
	data, err := Encode(rows, types.FormatYAML)
	require.NoError(t, err)

	var objs []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &objs))
	require.Len(t, objs, 1)
	assert.Len(t, objs[0], len(exportKeys))
	assert.Contains(t, objs[0], "last_review")
	assert.Nil(t, objs[0]["last_review"])
	assert.Equal(t, "no_url", objs[0]["status"])
}

func TestEncodeUnknownFormat(t *testing.T) {
	_, err := Encode(nil, "xml")
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "t.json"), Path(types.ExportConfig{OutputDir: "out"}, "t"))
	assert.Equal(t, filepath.Join("out", "t.yaml"), Path(types.ExportConfig{OutputDir: "out", Format: types.FormatYAML}, "t"))
}

func TestAllWritesYAMLFiles(t *testing.T) {
	s, in, out := setup(t)
	ctx := context.Background()
	_, err := s.ImportDir(ctx, in, &bytes.Buffer{})
	require.NoError(t, err)

	var buf bytes.Buffer
	paths, err := All(ctx, s, types.ExportConfig{OutputDir: out, Format: types.FormatYAML}, &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "products.yaml")}, paths)
	assert.Contains(t, buf.String(), "exported: products")
}
