// Package dmarc interprets Domain-based Message Authentication, Reporting,
// and Conformance (DMARC) policy records per RFC 7489.
//
// A DMARC record is published as a DNS TXT record under "_dmarc.<domain>" and
// is a semicolon-separated list of tag=value pairs:
//
//	v=DMARC1; p=reject; rua=mailto:dmarc@example.com; pct=100
//
// This package provides:
//   - Lenient tag-list parsing that never rejects a record
//   - A field for every standard tag, with absent tags marked explicitly
//   - Plain-language explanations for each tag and enumerated value
//   - Advisory findings (missing required tags, monitoring-only policy,
//     partial enforcement, no aggregate reporting)
//   - Organizational domain detection using the Public Suffix List
//
// # Basic Usage
//
//	res := dmarc.Parse("v=DMARC1; p=reject; pct=50")
//	if f := res.Fields["p"]; f.Present {
//	    fmt.Println("policy:", f.Value, "-", res.Explanations["p"])
//	}
//	if !res.Fields["rua"].Present {
//	    fmt.Println("no aggregate reports requested")
//	}
//
// # Organizational Domain
//
// When no record exists at "_dmarc.<domain>", RFC 7489 Section 6.6.3 directs
// receivers to query the organizational domain instead:
//
//	org := dmarc.OrganizationalDomain("mail.example.co.uk") // "example.co.uk"
//
// References:
//   - RFC 7489: Domain-based Message Authentication, Reporting, and Conformance (DMARC)
package dmarc
