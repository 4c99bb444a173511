// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/statement-scraper/internal/importer"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "db", "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(name, portfolio, url string) importer.Record {
	r := importer.Record{ProductName: name, Portfolio: portfolio}
	if url != "" {
		r.URL = &url
	}
	return r
}

func seed(t *testing.T, s *Store, table string, recs ...importer.Record) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx, table))
	for _, r := range recs {
		require.NoError(t, s.Upsert(ctx, table, r))
	}
}

// --- schema tests ---

func TestEnsureTableRegisters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureTable(ctx, "beta"))
	require.NoError(t, s.EnsureTable(ctx, "alpha"))
	require.NoError(t, s.EnsureTable(ctx, "alpha"))

	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, tables)
}

func TestEnsureTableRejectsBadNames(t *testing.T) {
	s := testStore(t)
	for _, name := range []string{"", "Bad", "a;drop", "1abc", registryTable, "sqlite_master"} {
		assert.Error(t, s.EnsureTable(context.Background(), name), name)
	}
}

// --- upsert tests ---

func TestUpsertIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	recs := []importer.Record{
		rec("A", "X", ""),
		rec("B", "X", "https://b"),
		rec("C", "Y", "https://c"),
	}

	seed(t, s, "products", recs...)
	first, err := s.Rows(ctx, "products")
	require.NoError(t, err)

	seed(t, s, "products", recs...)
	second, err := s.Rows(ctx, "products")
	require.NoError(t, err)

	n, err := s.Count(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, first, second)
}

func TestUpsertUpdatesAndKeepsID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	seed(t, s, "products", rec("A", "X", "https://old"), rec("B", "X", ""))

	before, err := s.Rows(ctx, "products")
	require.NoError(t, err)

	_, err = s.UpdateScrapeResult(ctx, "products", "https://old",
		types.Fields{WCAG: types.StringPtr("2.1")}, types.StatusSuccess, "01/01/2026")
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, "products", rec("A", "Z", "https://new")))

	after, err := s.Rows(ctx, "products")
	require.NoError(t, err)
	require.Len(t, after, 2)

	a := after[0]
	assert.Equal(t, before[0].ID, a.ID)
	assert.Equal(t, "Z", a.Portfolio)
	require.NotNil(t, a.URL)
	assert.Equal(t, "https://new", *a.URL)
	assert.Equal(t, types.StatusPending, a.Status)
	assert.Nil(t, a.WCAG)
	assert.Nil(t, a.FetchedAt)
}

func TestUpsertStatusFollowsURL(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	seed(t, s, "products", rec("A", "X", ""), rec("B", "X", "https://b"))

	rows, err := s.Rows(ctx, "products")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].URL)
	assert.Equal(t, types.StatusNoURL, rows[0].Status)
	assert.Equal(t, types.StatusPending, rows[1].Status)
	assert.Nil(t, rows[1].FetchedAt)
}

func TestUpsertRejectsEmptyProduct(t *testing.T) {
	s := testStore(t)
	seed(t, s, "products")
	assert.Error(t, s.Upsert(context.Background(), "products", rec("", "X", "")))
}

// --- scrape result tests ---

func TestUpdateScrapeResultBroadcasts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	seed(t, s, "products",
		rec("A", "X", "https://shared"),
		rec("B", "Y", "https://shared"),
		rec("C", "X", "https://other"),
		rec("D", "X", ""),
	)

	fields := types.Fields{
		Feedback:        types.StringPtr("email us"),
		FeedbackPresent: types.StringPtr(types.Yes),
		LastReview:      types.StringPtr("01/02/2024"),
	}
	n, err := s.UpdateScrapeResult(ctx, "products", "https://shared", fields, types.StatusSuccess, "19/10/2026")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err := s.Rows(ctx, "products")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, rows[0].Fields, rows[1].Fields)
	assert.Equal(t, fields, rows[0].Fields)
	assert.Equal(t, types.StatusSuccess, rows[0].Status)
	assert.Equal(t, types.StatusSuccess, rows[1].Status)
	require.NotNil(t, rows[0].FetchedAt)
	assert.Equal(t, "19/10/2026", *rows[0].FetchedAt)

	assert.Equal(t, types.StatusPending, rows[2].Status)
	assert.Nil(t, rows[2].FetchedAt)
	assert.Equal(t, types.StatusNoURL, rows[3].Status)
}

func TestUpdateScrapeResultOverwritesFullSet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	seed(t, s, "products", rec("A", "X", "https://a"))

	_, err := s.UpdateScrapeResult(ctx, "products", "https://a",
		types.Fields{WCAG: types.StringPtr("2.2"), IssueText: types.StringPtr("alt text missing")},
		types.StatusSuccess, "01/01/2026")
	require.NoError(t, err)

	_, err = s.UpdateScrapeResult(ctx, "products", "https://a", types.Fields{}, types.StatusFailed, "02/01/2026")
	require.NoError(t, err)

	rows, err := s.Rows(ctx, "products")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.Fields{}, rows[0].Fields)
	assert.Equal(t, types.StatusFailed, rows[0].Status)
	assert.Equal(t, "02/01/2026", *rows[0].FetchedAt)
}

func TestUpdateScrapeResultRejectsBadStatus(t *testing.T) {
	s := testStore(t)
	seed(t, s, "products", rec("A", "X", "https://a"))
	_, err := s.UpdateScrapeResult(context.Background(), "products", "https://a", types.Fields{}, "bogus", "01/01/2026")
	assert.Error(t, err)
}

// --- query tests ---

func TestURLGroups(t *testing.T) {
	s := testStore(t)
	seed(t, s, "products",
		rec("A", "X", "https://2"),
		rec("B", "X", "https://1"),
		rec("C", "X", ""),
		rec("D", "X", "https://2"),
	)

	groups, err := s.URLGroups(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, []URLGroup{
		{URL: "https://2", Products: []string{"A", "D"}},
		{URL: "https://1", Products: []string{"B"}},
	}, groups)
}

func TestInvalidRows(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	seed(t, s, "products", rec("A", "X", ""))

	_, err := s.db.Exec(`INSERT INTO "products" (product_name, portfolio) VALUES ('  ', 'X')`)
	require.NoError(t, err)

	bad, err := s.InvalidRows(ctx, "products")
	require.NoError(t, err)
	require.Len(t, bad, 1)
	assert.Equal(t, "  ", bad[0].ProductName)
}

// --- wipe tests ---

func TestWipeAll(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	seed(t, s, "one", rec("A", "X", ""))
	seed(t, s, "two", rec("B", "X", ""))

	require.NoError(t, s.WipeAll(ctx))

	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)

	_, err = s.Count(ctx, "one")
	assert.Error(t, err)

	seed(t, s, "one", rec("C", "X", ""))
	rows, err := s.Rows(ctx, "one")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "C", rows[0].ProductName)
}
