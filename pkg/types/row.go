// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Status records the outcome of the scrape step for a row.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusNoContent Status = "no_content"
	StatusNoURL     Status = "no_url"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusNoContent, StatusNoURL:
		return true
	}
	return false
}

// Flag values for the derived feedback_present and enforcement_present fields.
const (
	Yes = "yes"
	No  = "no"
)

// FetchedAtLayout is the day/month/year layout used for fetched_at and
// normalised last_review values.
const FetchedAtLayout = "02/01/2006"

// Fields holds the values extracted from an accessibility statement page.
// A nil pointer means the field was not found. The zero value is the set
// written for failed and empty fetches.
type Fields struct {
	Feedback           *string `json:"feedback" yaml:"feedback"`
	Enforcement        *string `json:"enforcement" yaml:"enforcement"`
	ComplianceStatus   *string `json:"compliance_status" yaml:"compliance_status"`
	Preparation        *string `json:"preparation" yaml:"preparation"`
	NonAccessible      *string `json:"non_accessible" yaml:"non_accessible"`
	FeedbackPresent    *string `json:"feedback_present" yaml:"feedback_present"`
	EnforcementPresent *string `json:"enforcement_present" yaml:"enforcement_present"`
	LastReview         *string `json:"last_review" yaml:"last_review"`
	WCAG               *string `json:"wcag" yaml:"wcag"`
	ComplianceLevel    *string `json:"compliance_level" yaml:"compliance_level"`
	IssueText          *string `json:"issue_text" yaml:"issue_text"`
}

// Row is one product in one source table.
type Row struct {
	ID          int64   `json:"id" yaml:"id"`
	ProductName string  `json:"product_name" yaml:"product_name"`
	Portfolio   string  `json:"portfolio" yaml:"portfolio"`
	URL         *string `json:"url" yaml:"url"`
	FetchedAt   *string `json:"fetched_at" yaml:"fetched_at"`

	Fields `yaml:",inline"`

	Status Status `json:"status" yaml:"status"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
