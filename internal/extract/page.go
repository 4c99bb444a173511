// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Section names a heading-delimited part of a statement page.
type Section string

const (
	SectionFeedback         Section = "feedback"
	SectionEnforcement      Section = "enforcement"
	SectionComplianceStatus Section = "compliance_status"
	SectionPreparation      Section = "preparation"
	SectionNonAccessible    Section = "non_accessible"
)

// sectionKeywords maps each section to the heading substrings that start
// it. Order matters: a heading belongs to the first section it matches.
var sectionKeywords = []struct {
	section  Section
	keywords []string
}{
	{SectionFeedback, []string{"feedback", "contact", "reporting"}},
	{SectionEnforcement, []string{"enforcement"}},
	{SectionComplianceStatus, []string{"compliance status"}},
	{SectionPreparation, []string{"preparation"}},
	{SectionNonAccessible, []string{
		"non-accessible", "not accessible", "does not fully meet",
		"non compliance", "non-compliance", "content not accessible",
		"not compliant", "partially compliant",
	}},
}

// Page is the text of a fetched document split into lines, with the
// located sections.
type Page struct {
	// Text is the whole visible text, one block per line.
	Text string

	// Sections holds the text under each located heading. A located
	// heading with nothing beneath it maps to "".
	Sections map[Section]string
}

// Has reports whether the section's heading was located.
func (p Page) Has(s Section) bool {
	_, ok := p.Sections[s]
	return ok
}

// line is one block of visible text. Headings are kept as their own lines.
type line struct {
	text    string
	heading bool
	// matchable is true for h1-h5; h6 only ends a section.
	matchable bool
}

// Parse reads content as HTML and locates the known sections. Plain text
// parses as a single block with no headings.
func Parse(content string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return Page{}, err
	}

	var f flattener
	for _, n := range doc.Nodes {
		f.walk(n)
	}
	f.flush()

	return Page{
		Text:     joinLines(f.lines),
		Sections: locate(f.lines),
	}, nil
}

// Sections returns the located sections of content, or nil when it does
// not parse.
func Sections(content string) map[Section]string {
	p, err := Parse(content)
	if err != nil {
		return nil
	}
	return p.Sections
}

func locate(lines []line) map[Section]string {
	sections := make(map[Section]string)
	for i, l := range lines {
		if !l.matchable {
			continue
		}
		s, ok := match(l.text)
		if !ok {
			continue
		}
		if _, seen := sections[s]; seen {
			continue
		}
		sections[s] = body(lines[i+1:], s == SectionNonAccessible)
	}
	return sections
}

func match(heading string) (Section, bool) {
	h := strings.ToLower(heading)
	for _, sk := range sectionKeywords {
		for _, kw := range sk.keywords {
			if strings.Contains(h, kw) {
				return sk.section, true
			}
		}
	}
	return "", false
}

// body collects the lines following a heading. Unless toEnd is set it
// stops at the next heading of any level.
func body(lines []line, toEnd bool) string {
	end := len(lines)
	if !toEnd {
		for i, l := range lines {
			if l.heading {
				end = i
				break
			}
		}
	}
	return joinLines(lines[:end])
}

func joinLines(lines []line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.text)
	}
	return strings.Join(parts, "\n")
}

var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true, "svg": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "details": true, "dialog": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true, "form": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "summary": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

var headingLevel = map[string]int{"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6}

// flattener turns a DOM into lines of visible text.
type flattener struct {
	lines []line
	cur   []string
}

func (f *flattener) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
			f.cur = append(f.cur, t)
		}
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if lvl, ok := headingLevel[n.Data]; ok {
			f.flush()
			text := strings.Join(strings.Fields(goquery.NewDocumentFromNode(n).Text()), " ")
			if text != "" {
				f.lines = append(f.lines, line{text: text, heading: true, matchable: lvl <= 5})
			}
			return
		}
		if blockTags[n.Data] {
			f.flush()
			defer f.flush()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
}

func (f *flattener) flush() {
	if len(f.cur) == 0 {
		return
	}
	f.lines = append(f.lines, line{text: strings.Join(f.cur, " ")})
	f.cur = f.cur[:0]
}
