// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/pdiddy/statement-scraper/pkg/types"
)

// reviewPhrase finds a review marker and captures the rest of its line.
var reviewPhrase = regexp.MustCompile(`(?i)(last reviewed(?: on)?|reviewed(?: on)?|last updated|updated(?: on)?)\s*[:\-]?\s*(.*)`)

const maxDateCandidate = 200

const monthNames = `january|february|march|april|may|june|july|august|september|october|november|december|` +
	`jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

var (
	numericDate  = regexp.MustCompile(`\b\d{1,2}[/.\-]\d{1,2}[/.\-](?:\d{4}|\d{2})\b`)
	isoDate      = regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`)
	dayMonthDate = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)\.?,?\s+(\d{4})\b`)
	monthDayDate = regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	monthYear    = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+(\d{4})\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// LastReview returns the date following a "last reviewed" or "updated"
// phrase in text, formatted DD/MM/YYYY. Ambiguous numeric dates are read
// day first. Each phrase is tried in order until one is followed by a date.
func LastReview(text string) *string {
	for _, m := range reviewPhrase.FindAllStringSubmatch(text, -1) {
		candidate := m[2]
		if len(candidate) > maxDateCandidate {
			candidate = candidate[:maxDateCandidate]
		}
		if t, ok := findDate(candidate); ok {
			return types.StringPtr(t.Format(types.FetchedAtLayout))
		}
	}
	return nil
}

// findDate returns the earliest date in s.
func findDate(s string) (time.Time, bool) {
	type hit struct {
		pos   int
		parse func() (time.Time, bool)
	}
	var best *hit
	consider := func(loc []int, parse func() (time.Time, bool)) {
		if loc == nil || (best != nil && best.pos <= loc[0]) {
			return
		}
		best = &hit{pos: loc[0], parse: parse}
	}

	if loc := isoDate.FindStringIndex(s); loc != nil {
		consider(loc, func() (time.Time, bool) { return parseNumeric(s[loc[0]:loc[1]]) })
	}
	if loc := numericDate.FindStringIndex(s); loc != nil {
		consider(loc, func() (time.Time, bool) { return parseNumeric(s[loc[0]:loc[1]]) })
	}
	if m := dayMonthDate.FindStringSubmatchIndex(s); m != nil {
		consider(m, func() (time.Time, bool) {
			return civilDate(s[m[6]:m[7]], s[m[4]:m[5]], s[m[2]:m[3]])
		})
	}
	if m := monthDayDate.FindStringSubmatchIndex(s); m != nil {
		consider(m, func() (time.Time, bool) {
			return civilDate(s[m[6]:m[7]], s[m[2]:m[3]], s[m[4]:m[5]])
		})
	}
	if m := monthYear.FindStringSubmatchIndex(s); m != nil {
		consider(m, func() (time.Time, bool) {
			return civilDate(s[m[4]:m[5]], s[m[2]:m[3]], "1")
		})
	}

	if best == nil {
		return time.Time{}, false
	}
	return best.parse()
}

func parseNumeric(s string) (time.Time, bool) {
	t, err := dateparse.ParseAny(s,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func civilDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	key := strings.ToLower(month)
	if len(key) > 3 {
		key = key[:3]
	}
	mon, ok := months[key]
	if !ok {
		return time.Time{}, false
	}
	t := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != mon {
		return time.Time{}, false
	}
	return t, true
}

var wcagVersions = []struct {
	version string
	re      *regexp.Regexp
}{
	{"2.2", regexp.MustCompile(`(?:^|[^\d.])2\.2(?:[^\d]|$)`)},
	{"2.1", regexp.MustCompile(`(?:^|[^\d.])2\.1(?:[^\d]|$)`)},
	{"2.0", regexp.MustCompile(`(?:^|[^\d.])2\.0(?:[^\d]|$)`)},
}

// WCAGVersion returns the newest WCAG version number ("2.2", "2.1" or
// "2.0") mentioned in text.
func WCAGVersion(text string) *string {
	for _, v := range wcagVersions {
		if v.re.MatchString(text) {
			return types.StringPtr(v.version)
		}
	}
	return nil
}

// Compliance levels reported by ComplianceLevel.
const (
	LevelFully     = "Fully Compliant"
	LevelPartially = "Partially Compliant"
	LevelNot       = "Not Compliant"
)

var notCompliant = regexp.MustCompile(`(?i)\bnot\s+compliant\b|\bnon[\s-]?compliant\b`)

// ComplianceLevel classifies a compliance status statement.
func ComplianceLevel(text string) *string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "partial"):
		return types.StringPtr(LevelPartially)
	case notCompliant.MatchString(t):
		return types.StringPtr(LevelNot)
	case strings.Contains(t, "fully") && strings.Contains(t, "compliant"):
		return types.StringPtr(LevelFully)
	}
	return nil
}

// Present returns "yes" when the section was located and "no" otherwise.
func Present(p Page, s Section) *string {
	if p.Has(s) {
		return types.StringPtr(types.Yes)
	}
	return types.StringPtr(types.No)
}

// SectionText returns the section's text, or nil when it is missing or
// empty.
func SectionText(p Page, s Section) *string {
	if t := strings.TrimSpace(p.Sections[s]); t != "" {
		return &t
	}
	return nil
}

// IssueText returns the trimmed text describing content that is not
// accessible.
func IssueText(p Page) *string {
	return SectionText(p, SectionNonAccessible)
}
