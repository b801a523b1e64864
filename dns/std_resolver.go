package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// StdResolver implements Resolver with the standard library. It cannot see
// DNSSEC status, so Authentic is always false.
type StdResolver struct {
	resolver *net.Resolver
}

// NewStdResolver returns a resolver backed by net.DefaultResolver.
func NewStdResolver() *StdResolver {
	return &StdResolver{resolver: net.DefaultResolver}
}

// NewStdResolverWithDialer returns a resolver using the pure Go resolver
// with a custom dial function, for pointing it at specific servers.
func NewStdResolverWithDialer(dial func(ctx context.Context, network, address string) (net.Conn, error)) *StdResolver {
	return &StdResolver{
		resolver: &net.Resolver{
			PreferGo: true,
			Dial:     dial,
		},
	}
}

// LookupTXT retrieves the TXT records at name.
func (r *StdResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	records, err := r.resolver.LookupTXT(ctx, strings.TrimSuffix(name, "."))
	if err != nil {
		return Result[string]{}, convertError(err)
	}
	if len(records) == 0 {
		return Result[string]{}, ErrDNSNoRecords
	}
	return Result[string]{Records: records}, nil
}

// convertError maps a net.DNSError onto the package errors.
//
// The standard library reports NXDOMAIN and an empty answer alike through
// IsNotFound, so both become ErrDNSNoRecords. Callers that need to tell a
// missing domain from a missing record should use DNSResolver.
func convertError(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsNotFound:
			return ErrDNSNoRecords
		case dnsErr.IsTimeout:
			return fmt.Errorf("%w: %v", ErrDNSTimeout, err)
		case dnsErr.IsTemporary:
			return fmt.Errorf("%w: %v", ErrDNSServFail, err)
		}
	}
	return fmt.Errorf("dns: lookup failed: %w", err)
}
