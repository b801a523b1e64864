package safemx

import (
	"fmt"
	"strings"

	"github.com/synqronlabs/safemx/dkim"
	"github.com/synqronlabs/safemx/dmarc"
	"github.com/synqronlabs/safemx/dns"
	"github.com/synqronlabs/safemx/explain"
	"github.com/synqronlabs/safemx/spf"
)

// Substrings that mark a TXT string as a candidate record. The match is
// case-sensitive and anywhere in the string.
const (
	markerSPF   = "v=spf1"
	markerDMARC = "v=DMARC1"
	markerDKIM  = "v=DKIM1"
)

// DMARCName returns the name holding the DMARC record of domain.
func DMARCName(domain string) string {
	return "_dmarc." + domain
}

// ClassifySPF turns the TXT lookup of domain into an SPF check result using
// the default explanations.
//
// A domain may publish one SPF record. None yields CodeNoSPF and more than
// one yields CodeMultipleSPF with every candidate attached.
func ClassifySPF(domain string, o dns.Outcome) *CheckResult {
	return classifySPF(nil, domain, o)
}

// ClassifyDMARC turns the TXT lookup of _dmarc.<domain> into a DMARC check
// result using the default explanations. The first candidate record is used.
func ClassifyDMARC(domain string, o dns.Outcome) *CheckResult {
	return classifyDMARC(nil, domain, o)
}

// ClassifyDKIM turns the TXT lookup of <selector>._domainkey.<domain> into a
// DKIM check result using the default explanations. The first candidate
// record is used. An empty selector means dkim.DefaultSelector.
func ClassifyDKIM(domain, selector string, o dns.Outcome) *CheckResult {
	return classifyDKIM(nil, domain, selector, o)
}

func classifySPF(catalog *explain.Catalog, domain string, o dns.Outcome) *CheckResult {
	res := &CheckResult{Type: CheckSPF, Domain: domain, Name: domain, Authentic: o.Authentic}
	if lookupFailed(res, "SPF", o) {
		return res
	}

	candidates := filter(o.Records, markerSPF)
	switch len(candidates) {
	case 0:
		res.Err = &CheckError{Code: CodeNoSPF, Message: fmt.Sprintf("No SPF record found for %s", domain)}
	case 1:
		res.Record = candidates[0]
		res.SPF = spf.ParseWith(catalog, candidates[0])
	default:
		res.Err = &CheckError{
			Code:    CodeMultipleSPF,
			Message: fmt.Sprintf("Multiple SPF records found for %s", domain),
			Records: candidates,
		}
	}
	return res
}

func classifyDMARC(catalog *explain.Catalog, domain string, o dns.Outcome) *CheckResult {
	res := &CheckResult{Type: CheckDMARC, Domain: domain, Name: DMARCName(domain), Authentic: o.Authentic}
	if lookupFailed(res, "DMARC", o) {
		return res
	}

	candidates := filter(o.Records, markerDMARC)
	if len(candidates) == 0 {
		res.Err = &CheckError{Code: CodeNoDMARC, Message: fmt.Sprintf("No DMARC record found for %s", domain)}
		return res
	}
	res.Record = candidates[0]
	res.DMARC = dmarc.ParseWith(catalog, candidates[0])
	return res
}

func classifyDKIM(catalog *explain.Catalog, domain, selector string, o dns.Outcome) *CheckResult {
	if selector == "" {
		selector = dkim.DefaultSelector
	}
	res := &CheckResult{
		Type:      CheckDKIM,
		Domain:    domain,
		Name:      dkim.QueryName(selector, domain),
		Selector:  selector,
		Authentic: o.Authentic,
	}
	if lookupFailed(res, "DKIM", o) {
		return res
	}

	candidates := filter(o.Records, markerDKIM)
	if len(candidates) == 0 {
		res.Err = &CheckError{
			Code:    CodeNoDKIM,
			Message: fmt.Sprintf("No DKIM record found for %s with selector '%s'", domain, selector),
		}
		return res
	}
	res.Record = candidates[0]
	res.DKIM = dkim.ParseWith(catalog, candidates[0])
	return res
}

// lookupFailed sets res.Err for outcomes that pre-empt record handling.
// A name with no TXT records is treated like an answer with no candidates.
func lookupFailed(res *CheckResult, label string, o dns.Outcome) bool {
	switch o.Kind {
	case dns.OutcomeDomainNotFound:
		res.Err = &CheckError{Code: CodeNXDomain, Message: fmt.Sprintf("Domain %s does not exist.", res.Domain)}
		return true
	case dns.OutcomeTransientError:
		res.Err = &CheckError{
			Code:    CodeUnknown,
			Message: fmt.Sprintf("An error occurred while retrieving %s: %v", label, o.Err),
		}
		return true
	}
	return false
}

func filter(records []string, marker string) []string {
	var out []string
	for _, r := range records {
		if strings.Contains(r, marker) {
			out = append(out, r)
		}
	}
	return out
}
