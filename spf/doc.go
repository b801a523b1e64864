// Package spf decomposes Sender Policy Framework (SPF) TXT records into
// mechanisms and modifiers, annotating each with an explanation and flagging
// missing or suspicious configuration.
//
// The parser is deliberately lenient. SPF records found in DNS are frequently
// non-conformant, so nothing is rejected: unknown terms become mechanisms of
// kind KindOther, and problems are reported as warnings and notes on the
// Result.
//
// This package provides:
//   - Whitespace tokenization with a fixed classification order
//   - Detection of every known mechanism and modifier
//   - The list of mechanism categories the record does not use
//   - Advisory checks: uppercase characters, "+all", "ptr", a missing "all" or
//     "redirect=", and the top-level DNS lookup count
//
// Basic Usage:
//
//	res := spf.Parse("v=spf1 ip4:203.0.113.0/24 include:_spf.example.com -all")
//	for _, m := range res.Mechanisms {
//	    fmt.Println(m.Kind, m.Value, m.Explanation)
//	}
//	for _, w := range res.Warnings {
//	    fmt.Println("warning:", w)
//	}
//
// Custom explanations can be supplied with ParseWith.
//
// Non-goals: the parser does not evaluate the record against a sender, and it
// does not follow include: or redirect= targets.
//
// References:
//   - RFC 7208: Sender Policy Framework (SPF)
package spf
