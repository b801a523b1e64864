package dkim

import (
	"fmt"
	"slices"
	"strings"

	"github.com/synqronlabs/safemx/explain"
	"github.com/synqronlabs/safemx/utils"
)

// Advisory messages attached to a Result.
const (
	WarnBadVersion  = `Version is not "DKIM1"; verifiers will ignore this record.`
	WarnRevoked     = "The public key is empty: this key has been revoked."
	NoteTesting     = "The key is flagged for testing (t=y); verifiers may treat failures leniently."
	missingTemplate = "Missing required tag %s."
	keyErrTemplate  = "The public key could not be decoded: %v"
	weakTemplate    = "The RSA key is only %d bits; keys under 1024 bits are trivially breakable."
	shortTemplate   = "The RSA key is %d bits; 2048 bits or more is recommended."
)

// Parse parses a DKIM key record using the default explanation catalog.
func Parse(record string) *Result {
	return ParseWith(nil, record)
}

// ParseWith parses a DKIM key record, taking explanations from catalog. A nil
// catalog selects explain.DKIM().
//
// The record is split like a DMARC record: on ";", then on the first "=".
// When a tag repeats, the last value wins. ParseWith never fails.
func ParseWith(catalog *explain.Catalog, record string) *Result {
	if catalog == nil {
		catalog = explain.DKIM()
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
		r.Explanations[tag.Name] = catalog.Explain(tag.Name)
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

func assess(r *Result) {
	if v, ok := r.Value(TagVersion); ok && v != "DKIM1" {
		r.Warnings = append(r.Warnings, WarnBadVersion)
	}

	if flags, ok := r.Value(TagFlags); ok {
		if slices.ContainsFunc(strings.Split(flags, ":"), func(f string) bool {
			return strings.EqualFold(strings.TrimSpace(f), "y")
		}) {
			r.Notes = append(r.Notes, NoteTesting)
		}
	}

	p, ok := r.Value(TagPublicKey)
	if !ok {
		return
	}
	k, _ := r.Value(TagKeyType)
	info := InspectKey(k, p)
	r.Key = &info

	switch {
	case info.Revoked:
		r.Warnings = append(r.Warnings, WarnRevoked)
	case info.Err != nil:
		r.Warnings = append(r.Warnings, fmt.Sprintf(keyErrTemplate, info.Err))
	case info.Type == "rsa" && info.Bits < 1024:
		r.Warnings = append(r.Warnings, fmt.Sprintf(weakTemplate, info.Bits))
	case info.Type == "rsa" && info.Bits < 2048:
		r.Notes = append(r.Notes, fmt.Sprintf(shortTemplate, info.Bits))
	}
}
