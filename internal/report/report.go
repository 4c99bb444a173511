// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report summarises scraped tables for the operator. It only
// reads rows; nothing here changes stored data.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/statement-scraper/pkg/types"
)

// PortfolioCounts maps every portfolio in rows to the number of its rows
// with a last_review value. Portfolios without one map to 0.
func PortfolioCounts(rows []types.Row) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		if _, ok := counts[r.Portfolio]; !ok {
			counts[r.Portfolio] = 0
		}
		if r.LastReview != nil {
			counts[r.Portfolio]++
		}
	}
	return counts
}

// PortfolioLine is one portfolio's row in the summary table.
type PortfolioLine struct {
	Portfolio  string
	Products   int
	LastReview int
}

// Portfolios returns per-portfolio totals sorted by portfolio name.
func Portfolios(rows []types.Row) []PortfolioLine {
	idx := make(map[string]int)
	var lines []PortfolioLine
	for _, r := range rows {
		i, ok := idx[r.Portfolio]
		if !ok {
			i = len(lines)
			idx[r.Portfolio] = i
			lines = append(lines, PortfolioLine{Portfolio: r.Portfolio})
		}
		lines[i].Products++
		if r.LastReview != nil {
			lines[i].LastReview++
		}
	}
	sort.Slice(lines, func(a, b int) bool { return lines[a].Portfolio < lines[b].Portfolio })
	return lines
}

// Completion counts how many rows of a table carry the key fields.
type Completion struct {
	Total           int
	LastReview      int
	WCAG            int
	ComplianceLevel int
	Success         int
	ByStatus        map[types.Status]int
}

// Complete computes completion counts over rows. Empty strings count as
// missing.
func Complete(rows []types.Row) Completion {
	c := Completion{Total: len(rows), ByStatus: make(map[types.Status]int)}
	for _, r := range rows {
		if present(r.LastReview) {
			c.LastReview++
		}
		if present(r.WCAG) {
			c.WCAG++
		}
		if present(r.ComplianceLevel) {
			c.ComplianceLevel++
		}
		if r.Status == types.StatusSuccess {
			c.Success++
		}
		c.ByStatus[r.Status]++
	}
	return c
}

// Percent returns n as a percentage of the total, rounded to two places.
func (c Completion) Percent(n int) float64 {
	if c.Total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(c.Total)*10000) / 100
}

func present(v *string) bool {
	return v != nil && *v != ""
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	return t
}

// RenderPortfolios writes the per-portfolio last-review summary for table.
func RenderPortfolios(w io.Writer, tableName string, rows []types.Row) {
	t := newTable(w, tableName)
	t.AppendHeader(table.Row{"Portfolio", "Products", "Last review found"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	var products, found int
	for _, l := range Portfolios(rows) {
		name := l.Portfolio
		if strings.TrimSpace(name) == "" {
			name = "(none)"
		}
		t.AppendRow(table.Row{name, l.Products, l.LastReview})
		products += l.Products
		found += l.LastReview
	}
	t.AppendFooter(table.Row{"Total", products, found})
	t.Render()
}

// RenderCompletion writes completion statistics for table.
func RenderCompletion(w io.Writer, tableName string, rows []types.Row) {
	c := Complete(rows)
	t := newTable(w, tableName+" completion")
	t.AppendHeader(table.Row{"Field", "Rows", "Of", "Percent"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, m := range []struct {
		name string
		n    int
	}{
		{"Last review", c.LastReview},
		{"WCAG", c.WCAG},
		{"Compliance level", c.ComplianceLevel},
		{"Successful scrapes", c.Success},
	} {
		t.AppendRow(table.Row{m.name, m.n, c.Total, fmt.Sprintf("%.2f%%", c.Percent(m.n))})
	}
	t.Render()

	statuses := make([]string, 0, len(c.ByStatus))
	for s, n := range c.ByStatus {
		statuses = append(statuses, fmt.Sprintf("%s=%d", s, n))
	}
	sort.Strings(statuses)
	fmt.Fprintf(w, "Status: %s\n", strings.Join(statuses, ", "))
}
