package dmarc

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/synqronlabs/safemx/explain"
	"github.com/synqronlabs/safemx/utils"
)

// Advisory messages attached to a Result.
const (
	NoteMonitorOnly  = "Policy p=none only monitors: mail failing DMARC is still delivered normally."
	NoteNoAggregate  = "No rua tag: aggregate reports are not requested, so failures go unnoticed."
	WarnBadVersion   = `Version is not "DMARC1"; receivers will ignore this record.`
	missingTemplate  = "Missing required tag %s."
	partialTemplate  = "Only %d%% of failing mail is subject to the policy."
	badPctTemplate   = "pct=%s is not a percentage between 0 and 100."
	intervalTemplate = "%s Published interval: %s seconds."
	pctTemplate      = "%s %s%% of emails will be subject to DMARC filtering."
)

// Parse parses a DMARC record using the default explanation catalog.
func Parse(record string) *Result {
	return ParseWith(nil, record)
}

// ParseWith parses a DMARC record, taking explanations from catalog. A nil
// catalog selects explain.DMARC().
//
// Segments are split on their first "="; segments without one are skipped.
// When a tag repeats, the last value wins. ParseWith never fails.
func ParseWith(catalog *explain.Catalog, record string) *Result {
	if catalog == nil {
		catalog = explain.DMARC()
	}

	r := &Result{
		Record:       record,
		Fields:       make(map[string]Field),
		Explanations: make(map[string]string),
		Warnings:     []string{},
		Notes:        []string{},
	}

	for _, tag := range utils.SplitTagList(record) {
		if _, seen := r.Fields[tag.Name]; !seen {
			r.Tags = append(r.Tags, tag.Name)
		}
		r.Fields[tag.Name] = utils.Present(tag.Value)
		r.Explanations[tag.Name] = explainTag(catalog, tag.Name, tag.Value)
	}

	for _, tag := range RequiredTags {
		if _, ok := r.Fields[tag]; !ok {
			r.Fields[tag] = Field{}
			r.Warnings = append(r.Warnings, fmt.Sprintf(missingTemplate, tag))
		}
	}
	for _, tag := range OptionalTags {
		if _, ok := r.Fields[tag]; !ok {
			r.Fields[tag] = Field{}
		}
	}

	assess(r)
	return r
}

// explainTag resolves the explanation of one tag. Enumerated tags go through
// the per-value table; fo and rf may hold colon-separated lists.
func explainTag(c *explain.Catalog, tag, value string) string {
	switch {
	case tag == TagPercentage:
		return fmt.Sprintf(pctTemplate, c.Explain(tag), value)
	case tag == TagInterval:
		return fmt.Sprintf(intervalTemplate, c.Explain(tag), value)
	case (tag == TagFailureOptions || tag == TagReportFormat) && strings.Contains(value, ":"):
		var parts []string
		for _, v := range strings.Split(value, ":") {
			parts = append(parts, c.ExplainValue(tag, strings.TrimSpace(v)))
		}
		return strings.Join(parts, " ")
	case slices.Contains(EnumeratedTags, tag):
		return c.ExplainValue(tag, value)
	default:
		return c.Explain(tag)
	}
}

// assess adds findings that depend on tag values.
func assess(r *Result) {
	if v, ok := r.Value(TagVersion); ok && v != "DMARC1" {
		r.Warnings = append(r.Warnings, WarnBadVersion)
	}

	if p, ok := r.Value(TagPolicy); ok && p == "none" {
		r.Notes = append(r.Notes, NoteMonitorOnly)
	}

	if pct, ok := r.Value(TagPercentage); ok {
		n, err := strconv.Atoi(pct)
		switch {
		case err != nil || n < 0 || n > 100:
			r.Warnings = append(r.Warnings, fmt.Sprintf(badPctTemplate, pct))
		case n < 100:
			r.Notes = append(r.Notes, fmt.Sprintf(partialTemplate, n))
		}
	}

	if _, ok := r.Value(TagAggregateURI); !ok {
		r.Notes = append(r.Notes, NoteNoAggregate)
	}
}
