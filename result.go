package safemx

import (
	"encoding/json"

	"github.com/synqronlabs/safemx/dkim"
	"github.com/synqronlabs/safemx/dmarc"
	"github.com/synqronlabs/safemx/spf"
)

// CheckType names one of the record checks.
type CheckType string

const (
	CheckSPF   CheckType = "spf"
	CheckDMARC CheckType = "dmarc"
	CheckDKIM  CheckType = "dkim"
)

// CheckResult is the outcome of one record check. Exactly one of the parsed
// results is set when Err is nil.
type CheckResult struct {
	Type CheckType

	// Domain is the domain being checked.
	Domain string

	// Name is the DNS name that was queried.
	Name string

	// Selector is the DKIM selector; empty for other checks.
	Selector string

	// Authentic is true when the answer was DNSSEC-validated.
	Authentic bool

	// Record is the raw TXT string that was parsed.
	Record string

	SPF   *spf.Result
	DMARC *dmarc.Result
	DKIM  *dkim.Result

	Err *CheckError
}

// OK reports whether a record was found and parsed.
func (r *CheckResult) OK() bool {
	return r != nil && r.Err == nil
}

// Warnings returns the warnings of the parsed record.
func (r *CheckResult) Warnings() []string {
	switch {
	case r.SPF != nil:
		return r.SPF.Warnings
	case r.DMARC != nil:
		return r.DMARC.Warnings
	case r.DKIM != nil:
		return r.DKIM.Warnings
	}
	return nil
}

// Notes returns the notes of the parsed record.
func (r *CheckResult) Notes() []string {
	switch {
	case r.SPF != nil:
		return r.SPF.Notes
	case r.DMARC != nil:
		return r.DMARC.Notes
	case r.DKIM != nil:
		return r.DKIM.Notes
	}
	return nil
}

type errorJSON struct {
	Error     string    `json:"error"`
	ErrorCode ErrorCode `json:"error_code"`
	Records   []string  `json:"records,omitempty"`
}

// MarshalJSON encodes a successful check as its parsed record and a failed
// one as {"error", "error_code", "records"}.
func (r *CheckResult) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(errorJSON{
			Error:     r.Err.Message,
			ErrorCode: r.Err.Code,
			Records:   r.Err.Records,
		})
	}

	switch {
	case r.SPF != nil:
		return json.Marshal(r.SPF)
	case r.DMARC != nil:
		return json.Marshal(r.DMARC)
	case r.DKIM != nil:
		return json.Marshal(r.DKIM)
	}
	return []byte("{}"), nil
}
