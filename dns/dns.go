// Package dns provides the TXT lookups used by the record checks.
//
// Two resolvers are offered: DNSResolver, built on github.com/miekg/dns with
// explicit nameservers and DNSSEC support, and StdResolver, built on the
// standard library. MockResolver serves tests.
//
// Resolve folds a lookup into an Outcome, which separates a domain that does
// not exist from a domain that exists but publishes no TXT data.
package dns

import (
	"context"
	"errors"
)

// DNS errors.
var (
	// ErrDNSNotFound is returned when the name does not exist (NXDOMAIN).
	ErrDNSNotFound = errors.New("dns: domain not found")

	// ErrDNSNoRecords is returned when the name exists but has no TXT records.
	ErrDNSNoRecords = errors.New("dns: no records")

	ErrDNSTimeout  = errors.New("dns: query timed out")
	ErrDNSServFail = errors.New("dns: server failure")
	ErrDNSRefused  = errors.New("dns: query refused")

	// ErrDNSBogus is returned when DNSSEC validation failed upstream.
	ErrDNSBogus = errors.New("dns: DNSSEC validation failed")
)

// IsNotFound reports whether err means the domain does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDNSNotFound)
}

// IsNoRecords reports whether err means the name has no records of the
// requested type.
func IsNoRecords(err error) bool {
	return errors.Is(err, ErrDNSNoRecords)
}

// IsTimeout reports whether err is a query timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDNSTimeout)
}

// IsServFail reports whether err is a server failure.
func IsServFail(err error) bool {
	return errors.Is(err, ErrDNSServFail)
}

// IsTemporary reports whether retrying the query later might succeed.
func IsTemporary(err error) bool {
	return IsTimeout(err) || IsServFail(err) || errors.Is(err, ErrDNSRefused)
}

// Result holds the records of one lookup.
type Result[T any] struct {
	Records []T

	// Authentic is true when the answer was DNSSEC-validated upstream.
	Authentic bool
}

// Resolver looks up TXT records.
type Resolver interface {
	// LookupTXT returns the TXT strings published at name. Character strings
	// of one record are concatenated. It returns ErrDNSNotFound when the name
	// does not exist and ErrDNSNoRecords when it has no TXT records.
	LookupTXT(ctx context.Context, name string) (Result[string], error)
}

// OutcomeKind classifies a lookup.
type OutcomeKind int

const (
	OutcomeFound OutcomeKind = iota
	OutcomeNoRecord
	OutcomeDomainNotFound
	OutcomeTransientError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeNoRecord:
		return "no-record"
	case OutcomeDomainNotFound:
		return "domain-not-found"
	case OutcomeTransientError:
		return "transient-error"
	}
	return "unknown"
}

// Outcome is the result of one TXT lookup.
type Outcome struct {
	Kind OutcomeKind

	// Records is set for OutcomeFound.
	Records []string

	Authentic bool

	// Err is set for OutcomeTransientError.
	Err error
}

// Found returns an OutcomeFound holding records.
func Found(records ...string) Outcome {
	return Outcome{Kind: OutcomeFound, Records: records}
}

// Resolve looks up the TXT records at name and classifies the answer.
func Resolve(ctx context.Context, r Resolver, name string) Outcome {
	res, err := r.LookupTXT(ctx, name)
	switch {
	case err == nil && len(res.Records) > 0:
		return Outcome{Kind: OutcomeFound, Records: res.Records, Authentic: res.Authentic}
	case err == nil, IsNoRecords(err):
		return Outcome{Kind: OutcomeNoRecord, Authentic: res.Authentic}
	case IsNotFound(err):
		return Outcome{Kind: OutcomeDomainNotFound, Authentic: res.Authentic}
	default:
		return Outcome{Kind: OutcomeTransientError, Authentic: res.Authentic, Err: err}
	}
}
