package dmarc

import (
	"github.com/synqronlabs/safemx/utils"
)

// Tag names with a field in every Result.
const (
	TagVersion         = "v"
	TagPolicy          = "p"
	TagADKIM           = "adkim"
	TagASPF            = "aspf"
	TagSubdomainPolicy = "sp"
	TagFailureOptions  = "fo"
	TagFailureURI      = "ruf"
	TagAggregateURI    = "rua"
	TagReportFormat    = "rf"
	TagPercentage      = "pct"
	TagInterval        = "ri"
)

// RequiredTags must appear in a usable DMARC record.
var RequiredTags = []string{TagVersion, TagPolicy}

// OptionalTags are the remaining standard tags.
var OptionalTags = []string{
	TagADKIM, TagASPF, TagSubdomainPolicy, TagFailureOptions,
	TagFailureURI, TagAggregateURI, TagReportFormat, TagPercentage, TagInterval,
}

// EnumeratedTags are explained per value rather than per tag.
var EnumeratedTags = []string{TagPolicy, TagADKIM, TagASPF, TagSubdomainPolicy, TagFailureOptions, TagReportFormat}

// Field is a tag value that may be absent.
type Field = utils.Field

// Result is the structured form of one DMARC record.
type Result struct {
	// Record is the raw TXT string that was parsed.
	Record string `json:"record"`

	// Fields holds every tag found in the record plus every standard tag.
	// Standard tags missing from the record are present as absent Fields.
	// Unknown values are kept as published.
	Fields map[string]Field `json:"fields"`

	// Tags lists the tag names found in the record, in record order and
	// without duplicates.
	Tags []string `json:"-"`

	// Explanations describes each tag found in the record.
	Explanations map[string]string `json:"explanations"`

	// Warnings are problems that make the policy ineffective.
	Warnings []string `json:"warnings"`

	// Notes are informational findings.
	Notes []string `json:"notes"`
}

// Value returns the value of tag and whether the record set it.
func (r *Result) Value(tag string) (string, bool) {
	f := r.Fields[tag]
	return f.Value, f.Present
}
