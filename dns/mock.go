package dns

import (
	"context"
	"slices"
)

// MockResolver is a Resolver for tests. Names are matched as FQDNs, with
// a trailing dot.
type MockResolver struct {
	// TXT maps a name to its TXT strings. A name mapped to an empty slice
	// exists but has no TXT records.
	TXT map[string][]string

	// NXDomain lists names that do not exist. Names absent from both TXT and
	// NXDomain also count as non-existent.
	NXDomain []string

	// Fail lists names whose lookup returns ErrDNSServFail.
	Fail []string

	// Authentic lists names answered with Authentic set.
	Authentic []string

	// Queries, when non-nil, receives every queried name.
	Queries chan<- string
}

var _ Resolver = MockResolver{}

func ensureFQDN(name string) string {
	if len(name) == 0 || name[len(name)-1] != '.' {
		return name + "."
	}
	return name
}

// LookupTXT returns the configured TXT strings for name.
func (r MockResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	fqdn := ensureFQDN(name)
	if r.Queries != nil {
		r.Queries <- fqdn
	}

	result := Result[string]{Authentic: slices.Contains(r.Authentic, fqdn)}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if slices.Contains(r.Fail, fqdn) {
		return result, ErrDNSServFail
	}
	if slices.Contains(r.NXDomain, fqdn) {
		return result, ErrDNSNotFound
	}

	records, ok := r.TXT[fqdn]
	if !ok {
		return result, ErrDNSNotFound
	}
	if len(records) == 0 {
		return result, ErrDNSNoRecords
	}

	result.Records = slices.Clone(records)
	return result, nil
}
