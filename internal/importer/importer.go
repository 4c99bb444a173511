// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer reads product CSV files into normalised records.
// Each file becomes one source table; the table name is derived from the
// file name.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Required header columns.
const (
	ColProductName  = "Product Name"
	ColPortfolio    = "Portfolio"
	ColStatementURL = "Statement URL"
)

var requiredColumns = []string{ColProductName, ColPortfolio, ColStatementURL}

// ErrNoInputFiles is returned by ListFiles when the directory holds no CSV files.
var ErrNoInputFiles = errors.New("no CSV files found")

// HeaderError reports a CSV file whose header lacks a required column.
type HeaderError struct {
	File   string
	Column string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.File, e.Column)
}

// Record is one normalised CSV row. URL is nil when the row has no usable
// statement URL.
type Record struct {
	ProductName string
	Portfolio   string
	URL         *string
}

// Result holds the records read from one file and the count of skipped rows.
type Result struct {
	File    string
	Table   string
	Records []Record
	Skipped int
}

// noURLValues are the Statement URL values treated as "no URL".
var noURLValues = map[string]bool{
	"":        true,
	"null":    true,
	"none":    true,
	"n/a":     true,
	"working": true,
}

// NormalizeURL trims raw and reports whether it is a usable URL. The
// placeholders "null", "none", "n/a" and "working" (any case) and the empty
// string are not.
func NormalizeURL(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	if noURLValues[strings.ToLower(u)] {
		return "", false
	}
	return u, true
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var nonIdent = regexp.MustCompile(`[^a-z0-9]+`)

// TableName derives a safe SQL identifier from a file path:
// "Products 2024-Q1.csv" becomes "products_2024_q1".
func TableName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := nonIdent.ReplaceAllString(strings.ToLower(base), "_")
	name = strings.Trim(name, "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "t_" + name
	}
	return name
}

// ListFiles returns the CSV files in dir sorted by name.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoInputFiles)
	}
	sort.Strings(files)
	return files, nil
}

// ReadFiles parses every file in order. It fails on the first bad file,
// and when two files sanitise to the same table name.
func ReadFiles(files []string) ([]*Result, error) {
	owner := make(map[string]string, len(files))
	results := make([]*Result, 0, len(files))
	for _, f := range files {
		res, err := ReadFile(f)
		if err != nil {
			return nil, err
		}
		if prev, ok := owner[res.Table]; ok {
			return nil, fmt.Errorf("%s and %s both map to table %q", prev, f, res.Table)
		}
		owner[res.Table] = f
		results = append(results, res)
	}
	return results, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := Read(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	res.File = path
	res.Table = TableName(path)
	return res, nil
}

// Read parses CSV data with a header row. name identifies the source in
// errors. Rows without a product name are skipped; the whole read fails
// only on a malformed header or unreadable data.
func Read(r io.Reader, name string) (*Result, error) {
	br := bufio.NewReader(r)
	if b, _ := br.Peek(len(utf8BOM)); bytes.Equal(b, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &HeaderError{File: name, Column: ColProductName}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", name, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &HeaderError{File: name, Column: col}
		}
	}

	field := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res := &Result{File: name}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: reading row: %w", name, err)
		}

		product := field(row, ColProductName)
		if product == "" {
			res.Skipped++
			continue
		}

		rec := Record{
			ProductName: product,
			Portfolio:   field(row, ColPortfolio),
		}
		if u, ok := NormalizeURL(field(row, ColStatementURL)); ok {
			rec.URL = &u
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}
