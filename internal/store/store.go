// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists product rows in a SQLite file, one table per
// imported CSV file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/statement-scraper/internal/importer"
	"github.com/pdiddy/statement-scraper/pkg/types"
)

// registryTable tracks the source tables created by imports so WipeAll
// knows what to drop.
const registryTable = "source_tables"

var validTableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// fieldColumns lists the extracted-field columns in Row order.
var fieldColumns = []string{
	"feedback",
	"enforcement",
	"compliance_status",
	"preparation",
	"non_accessible",
	"feedback_present",
	"enforcement_present",
	"last_review",
	"wcag",
	"compliance_level",
	"issue_text",
}

// Store manages the SQLite database. Writes are serialised: only one
// goroutine modifies the database at a time.
type Store struct {
	db      *sql.DB
	writeMu sync.Mutex
}

// Open opens or creates the database at cfg.Path and creates the table
// registry if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createRegistry(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createRegistry() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ` + registryTable + ` (
		name TEXT PRIMARY KEY
	)`)
	return err
}

func checkName(table string) error {
	if !validTableName.MatchString(table) || table == registryTable || strings.HasPrefix(table, "sqlite_") {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// EnsureTable creates table with the row columns if it does not exist and
// records it in the registry.
func (s *Store) EnsureTable(ctx context.Context, table string) error {
	if err := checkName(table); err != nil {
		return err
	}

	var cols strings.Builder
	for _, c := range fieldColumns {
		fmt.Fprintf(&cols, "\t\t%s TEXT,\n", c)
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id INTEGER PRIMARY KEY,
		product_name TEXT NOT NULL UNIQUE,
		portfolio TEXT NOT NULL DEFAULT '',
		url TEXT,
		fetched_at TEXT,
%s		status TEXT NOT NULL DEFAULT '%s'
	)`, table, cols.String(), types.StatusPending)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q(url)`, "idx_"+table+"_url", table)); err != nil {
		return fmt.Errorf("creating url index on %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO `+registryTable+` (name) VALUES (?)`, table,
	); err != nil {
		return fmt.Errorf("registering table %s: %w", table, err)
	}
	return tx.Commit()
}

// WipeAll drops every table in the registry and empties it.
func (s *Store) WipeAll(ctx context.Context) error {
	tables, err := s.Tables(ctx)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, t)); err != nil {
			return fmt.Errorf("dropping table %s: %w", t, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+registryTable); err != nil {
		return fmt.Errorf("clearing table registry: %w", err)
	}
	return tx.Commit()
}

// Tables returns the registered source tables in name order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM `+registryTable+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Upsert inserts rec into table or updates the row with the same product
// name, keeping its id. The row's status is reset to pending (or no_url
// when rec has no URL) and previously scraped values are cleared.
func (s *Store) Upsert(ctx context.Context, table string, rec importer.Record) error {
	if err := checkName(table); err != nil {
		return err
	}
	if rec.ProductName == "" {
		return fmt.Errorf("upsert into %s: empty product name", table)
	}

	status := types.StatusPending
	if rec.URL == nil {
		status = types.StatusNoURL
	}

	var clear strings.Builder
	for _, c := range append([]string{"fetched_at"}, fieldColumns...) {
		fmt.Fprintf(&clear, ", %s=NULL", c)
	}
	stmt := fmt.Sprintf(`INSERT INTO %q (product_name, portfolio, url, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(product_name) DO UPDATE SET
			portfolio=excluded.portfolio, url=excluded.url, status=excluded.status%s`,
		table, clear.String())

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.ExecContext(ctx, stmt, rec.ProductName, rec.Portfolio, nullable(rec.URL), string(status)); err != nil {
		return fmt.Errorf("upserting %q into %s: %w", rec.ProductName, table, err)
	}
	return nil
}

// UpdateScrapeResult writes one fetch outcome to every row in table whose
// url equals url. All eleven fields are overwritten together.
// It returns the number of rows updated.
func (s *Store) UpdateScrapeResult(ctx context.Context, table, url string, f types.Fields, status types.Status, fetchedAt string) (int64, error) {
	if err := checkName(table); err != nil {
		return 0, err
	}
	if !status.Valid() {
		return 0, fmt.Errorf("invalid status %q", status)
	}

	var set strings.Builder
	for _, c := range fieldColumns {
		fmt.Fprintf(&set, "%s=?, ", c)
	}
	stmt := fmt.Sprintf(`UPDATE %q SET %sstatus=?, fetched_at=? WHERE url = ?`, table, set.String())

	args := make([]any, 0, len(fieldColumns)+3)
	for _, v := range fieldPointers(&f) {
		args = append(args, nullable(*v))
	}
	args = append(args, string(status), fetchedAt, url)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("updating %s for %s: %w", table, url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting updated rows: %w", err)
	}
	return n, tx.Commit()
}

// fieldPointers returns pointers to the Fields members in fieldColumns order.
func fieldPointers(f *types.Fields) []**string {
	return []**string{
		&f.Feedback,
		&f.Enforcement,
		&f.ComplianceStatus,
		&f.Preparation,
		&f.NonAccessible,
		&f.FeedbackPresent,
		&f.EnforcementPresent,
		&f.LastReview,
		&f.WCAG,
		&f.ComplianceLevel,
		&f.IssueText,
	}
}

func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
