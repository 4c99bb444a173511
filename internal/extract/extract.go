// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract derives accessibility statement fields from page
// content. Each field has its own function; none reads another's result.
// A missing match is a nil field, never an error.
package extract

import (
	"github.com/pdiddy/statement-scraper/pkg/types"
)

// Extract parses content and fills every field it can find. Content that
// cannot be parsed as HTML is treated as plain text.
func Extract(content string) types.Fields {
	p, err := Parse(content)
	if err != nil {
		p = Page{Text: content}
	}
	return FromPage(p)
}

// FromPage derives the fields from an already parsed page.
func FromPage(p Page) types.Fields {
	return types.Fields{
		Feedback:           SectionText(p, SectionFeedback),
		Enforcement:        SectionText(p, SectionEnforcement),
		ComplianceStatus:   SectionText(p, SectionComplianceStatus),
		Preparation:        SectionText(p, SectionPreparation),
		NonAccessible:      SectionText(p, SectionNonAccessible),
		FeedbackPresent:    Present(p, SectionFeedback),
		EnforcementPresent: Present(p, SectionEnforcement),
		LastReview:         first(LastReview(p.Sections[SectionPreparation]), func() *string { return LastReview(p.Text) }),
		WCAG:               first(WCAGVersion(p.Sections[SectionComplianceStatus]), func() *string { return WCAGVersion(p.Text) }),
		ComplianceLevel:    ComplianceLevel(p.Sections[SectionComplianceStatus]),
		IssueText:          IssueText(p),
	}
}

func first(v *string, fallback func() *string) *string {
	if v != nil {
		return v
	}
	return fallback()
}
