package safemx

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"

	"github.com/synqronlabs/safemx/utils"
)

const maxDomainLength = 253

var lookupProfile = idna.New(idna.MapForLookup(), idna.Transitional(false))

// NormalizeDomain returns domain in the form used for queries: lower-case
// A-labels without a trailing dot. Internationalized names are converted
// with IDNA2008 lookup rules.
func NormalizeDomain(domain string) (string, error) {
	d := strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if d == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidDomain)
	}

	ascii, err := lookupProfile.ToASCII(d)
	if err != nil {
		// The lookup profile rejects underscores, which appear in some
		// service names. Plain ASCII names are accepted on label shape alone.
		if utils.ContainsNonASCII(d) {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidDomain, domain, err)
		}
		ascii = strings.ToLower(d)
	}

	if len(ascii) > maxDomainLength {
		return "", fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidDomain, domain, maxDomainLength)
	}
	for label := range strings.SplitSeq(ascii, ".") {
		if !validLabel(label) {
			return "", fmt.Errorf("%w: %q has an invalid label %q", ErrInvalidDomain, domain, label)
		}
	}
	return ascii, nil
}

func validLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, c := range []byte(label) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
