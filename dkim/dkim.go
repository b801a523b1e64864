// Package dkim interprets DomainKeys Identified Mail (DKIM) key records per
// RFC 6376 Section 3.6.1.
//
// A DKIM key record is published as a DNS TXT record under
// "<selector>._domainkey.<domain>":
//
//	v=DKIM1; k=rsa; p=MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEA...
//
// This package parses the record into tag fields, explains each tag, and
// inspects the shape of the published public key (type, size, revocation).
// It does not verify message signatures.
//
// # Basic Usage
//
//	res := dkim.Parse("v=DKIM1; k=rsa; p=MIIBIjANBg...")
//	fmt.Println(res.Fields["k"].Value) // "rsa"
//	if res.Key != nil && res.Key.Revoked {
//	    fmt.Println("key revoked")
//	}
package dkim

import (
	"github.com/synqronlabs/safemx/utils"
)

// Tag names with a field in every Result.
const (
	TagVersion   = "v"
	TagPublicKey = "p"
	TagKeyType   = "k"
	TagServices  = "s"
	TagHashes    = "h"
	TagFlags     = "t"
	TagNotes     = "n"
)

// DefaultSelector is used when the caller does not name a selector.
const DefaultSelector = "default"

// RequiredTags must appear in a usable key record.
var RequiredTags = []string{TagVersion, TagPublicKey}

// OptionalTags always get a field, present or not.
var OptionalTags = []string{TagKeyType, TagServices}

// Field is a tag value that may be absent.
type Field = utils.Field

// Result is the structured form of one DKIM key record.
type Result struct {
	// Record is the raw TXT string that was parsed.
	Record string `json:"record"`

	// Fields holds every tag found in the record plus the tags in
	// RequiredTags and OptionalTags, absent ones marked as such.
	Fields map[string]Field `json:"fields"`

	// Tags lists the tag names found in the record, in record order and
	// without duplicates.
	Tags []string `json:"-"`

	// Explanations describes each tag found in the record.
	Explanations map[string]string `json:"explanations"`

	// Key describes the public key, or is nil when p= is absent.
	Key *KeyInfo `json:"key,omitempty"`

	Warnings []string `json:"warnings"`
	Notes    []string `json:"notes"`
}

// Value returns the value of tag and whether the record set it.
func (r *Result) Value(tag string) (string, bool) {
	f := r.Fields[tag]
	return f.Value, f.Present
}

// QueryName returns the DNS name holding the key for selector at domain.
// An empty selector means DefaultSelector.
func QueryName(selector, domain string) string {
	if selector == "" {
		selector = DefaultSelector
	}
	return selector + "._domainkey." + domain
}
