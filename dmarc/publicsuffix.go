package dmarc

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// OrganizationalDomain returns the registrable domain of name: the label
// directly under its public suffix. Names without one, such as "localhost"
// or a bare suffix, are returned lower-cased and unchanged.
func OrganizationalDomain(name string) string {
	name = strings.TrimSuffix(strings.ToLower(name), ".")
	if name == "" {
		return ""
	}
	org, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}
	return org
}

// FallbackDomain returns the domain whose policy applies when name
// publishes none. ok is false if name is its own organizational domain.
func FallbackDomain(name string) (org string, ok bool) {
	name = strings.TrimSuffix(strings.ToLower(name), ".")
	org = OrganizationalDomain(name)
	if org == "" || org == name {
		return "", false
	}
	return org, true
}
