// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/statement-scraper/pkg/types"
)

// URLGroup is a distinct statement URL and the products that share it.
type URLGroup struct {
	URL      string
	Products []string
}

// Rows returns every row of table in id order.
func (s *Store) Rows(ctx context.Context, table string) ([]types.Row, error) {
	return s.queryRows(ctx, table, "")
}

// InvalidRows returns rows with an empty product name. The schema forbids
// NULL, so this only finds rows written outside the importer.
func (s *Store) InvalidRows(ctx context.Context, table string) ([]types.Row, error) {
	return s.queryRows(ctx, table, `WHERE product_name IS NULL OR TRIM(product_name) = ''`)
}

func (s *Store) queryRows(ctx context.Context, table, where string) ([]types.Row, error) {
	if err := checkName(table); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, product_name, portfolio, url, fetched_at, %s, status
		FROM %q %s ORDER BY id`, strings.Join(fieldColumns, ", "), table, where)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var out []types.Row
	for rows.Next() {
		var (
			r         types.Row
			url       sql.NullString
			fetchedAt sql.NullString
			status    string
			fields    = make([]sql.NullString, len(fieldColumns))
		)
		dest := []any{&r.ID, &r.ProductName, &r.Portfolio, &url, &fetchedAt}
		for i := range fields {
			dest = append(dest, &fields[i])
		}
		dest = append(dest, &status)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}

		r.URL = fromNull(url)
		r.FetchedAt = fromNull(fetchedAt)
		for i, p := range fieldPointers(&r.Fields) {
			*p = fromNull(fields[i])
		}
		r.Status = types.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// URLGroups returns the distinct non-null URLs in table, in order of first
// appearance, each with the product names that reference it.
func (s *Store) URLGroups(ctx context.Context, table string) ([]URLGroup, error) {
	if err := checkName(table); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT url, product_name FROM %q WHERE url IS NOT NULL ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("querying urls in %s: %w", table, err)
	}
	defer rows.Close()

	var groups []URLGroup
	index := make(map[string]int)
	for rows.Next() {
		var url, product string
		if err := rows.Scan(&url, &product); err != nil {
			return nil, fmt.Errorf("scanning url row: %w", err)
		}
		i, ok := index[url]
		if !ok {
			i = len(groups)
			index[url] = i
			groups = append(groups, URLGroup{URL: url})
		}
		groups[i].Products = append(groups[i].Products, product)
	}
	return groups, rows.Err()
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if err := checkName(table); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
