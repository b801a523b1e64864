// Package safemx inspects the email-authentication records a domain
// publishes in DNS: SPF, DMARC and DKIM.
//
// # Checking a domain
//
// A Checker looks up each record, classifies the TXT answer, and hands a
// well-formed record to the matching parser:
//
//	checker := safemx.New(safemx.Config{
//	    Resolver: dns.NewResolver(dns.ResolverConfig{DNSSEC: true}),
//	    Logger:   logger,
//	})
//
//	report, err := checker.Run(ctx, "example.com", safemx.Checks{
//	    SPF:      true,
//	    DMARC:    true,
//	    DKIM:     true,
//	    Selector: "google",
//	})
//	if err != nil {
//	    log.Fatal(err) // the domain name itself was invalid
//	}
//
//	if report.SPF.OK() {
//	    for _, m := range report.SPF.SPF.Mechanisms {
//	        fmt.Println(m.Kind, m.Value, m.Explanation)
//	    }
//	} else {
//	    fmt.Println(report.SPF.Err.Code, report.SPF.Err.Message)
//	}
//
// Lookup failures and missing records are reported as data in
// CheckResult.Err, never as Go errors.
//
// # Classifying without DNS
//
// The classifiers are pure and take a dns.Outcome directly:
//
//	res := safemx.ClassifySPF("example.com", dns.Found("v=spf1 -all", "v=spf1 +all"))
//	// res.Err.Code == safemx.CodeMultipleSPF
//
// # Output
//
// A Report encodes as JSON holding only the checks that were requested, or
// as MessagePack with its ID and timestamp.
package safemx
