package safemx

import (
	"log/slog"

	"github.com/synqronlabs/safemx/dns"
	"github.com/synqronlabs/safemx/explain"
)

// Catalogs holds the explanation catalogs handed to the parsers. A nil
// entry selects the package default.
type Catalogs struct {
	SPF   *explain.Catalog
	DMARC *explain.Catalog
	DKIM  *explain.Catalog
}

// Config configures a Checker.
type Config struct {
	// Resolver performs the TXT lookups.
	// Default: dns.NewResolver with system nameservers
	Resolver dns.Resolver

	// Logger receives lookup traces at Debug and lookup failures at Warn.
	// Default: a logger that discards everything
	Logger *slog.Logger

	// Catalogs overrides the explanation texts.
	Catalogs Catalogs

	// DMARCOrgFallback queries the organizational domain's DMARC record
	// when a subdomain publishes none (RFC 7489 Section 6.6.3).
	// Default: false
	DMARCOrgFallback bool
}

// DefaultConfig returns a Config using the system nameservers.
func DefaultConfig() Config {
	return Config{
		Resolver: dns.NewResolver(dns.ResolverConfig{}),
		Logger:   slog.New(slog.DiscardHandler),
	}
}
