package spf

import "slices"

// Kind identifies the category of an SPF mechanism.
type Kind string

const (
	// KindIP covers the ip4: and ip6: mechanisms.
	KindIP Kind = "ip"

	// KindA is the "a" mechanism, optionally with a domain and prefix length.
	KindA Kind = "a"

	// KindMX is any term starting with "mx".
	KindMX Kind = "mx"

	// KindPTR is any term starting with "ptr". Deprecated by RFC 7208.
	KindPTR Kind = "ptr"

	// KindExists is the exists: mechanism.
	KindExists Kind = "exists"

	// KindInclude is the include: mechanism, with or without a "+" qualifier.
	KindInclude Kind = "include"

	// KindAll is one of -all, ~all, ?all or +all.
	KindAll Kind = "all"

	// KindOther is any term no other rule recognizes.
	KindOther Kind = "other"
)

// CheckedKinds are the mechanism categories reported in Result.Absent when a
// record does not use them.
var CheckedKinds = []Kind{KindIP, KindA, KindMX, KindPTR, KindExists, KindInclude}

// ModifierKind identifies an SPF modifier.
type ModifierKind string

const (
	// ModifierRedirect is "redirect=", which hands evaluation to another domain.
	ModifierRedirect ModifierKind = "redirect"

	// ModifierExp is "exp=", naming a domain that holds the failure explanation.
	ModifierExp ModifierKind = "exp"
)

// Mechanism is one SPF directive as it appeared in the record.
type Mechanism struct {
	// Kind is the detected category.
	Kind Kind `json:"type"`

	// Value is the raw token, including any qualifier.
	Value string `json:"value"`

	// Domain is the target domain for a:, mx:, ptr:, exists: and include:.
	Domain string `json:"domain,omitempty"`

	// PrefixLength is the text after "/" for a and mx, unvalidated.
	PrefixLength string `json:"prefix_length,omitempty"`

	// Explanation describes the mechanism in plain language.
	Explanation string `json:"explanation"`
}

// Modifier is a redirect= or exp= term.
type Modifier struct {
	Kind        ModifierKind `json:"type"`
	Value       string       `json:"value"`
	Domain      string       `json:"domain,omitempty"`
	Explanation string       `json:"explanation"`
}

// Result is the structured form of one SPF record.
//
// Every whitespace-delimited token of Record is either a version token, a
// Mechanism or a Modifier, in the order encountered.
type Result struct {
	// Record is the raw TXT string that was parsed.
	Record string `json:"record"`

	// Version is the last "v=" token, or empty if there was none.
	Version string `json:"version,omitempty"`

	// Versions holds every "v=" token in order. Normally just one.
	Versions []string `json:"-"`

	// VersionExplanation describes the version tag.
	VersionExplanation string `json:"-"`

	Mechanisms []Mechanism `json:"mechanisms"`
	Modifiers  []Modifier  `json:"modifiers"`

	// Absent lists the categories in CheckedKinds with no mechanism in the
	// record. A kind in Absent was checked and not found.
	Absent []Kind `json:"absent"`

	// LookupCount is the number of DNS-querying terms at the top level of the
	// record. Included records are not followed.
	LookupCount int `json:"lookup_count"`

	// Warnings are misconfigurations that weaken or break the policy.
	Warnings []string `json:"warnings"`

	// Notes are informational findings.
	Notes []string `json:"notes"`
}

// Has reports whether the record contains a mechanism of the given kind.
func (r *Result) Has(kind Kind) bool {
	return slices.ContainsFunc(r.Mechanisms, func(m Mechanism) bool {
		return m.Kind == kind
	})
}

// MechanismsOf returns the mechanisms of the given kind in record order.
func (r *Result) MechanismsOf(kind Kind) []Mechanism {
	var out []Mechanism
	for _, m := range r.Mechanisms {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Modifier returns the last modifier of the given kind.
func (r *Result) Modifier(kind ModifierKind) (Modifier, bool) {
	for i := len(r.Modifiers) - 1; i >= 0; i-- {
		if r.Modifiers[i].Kind == kind {
			return r.Modifiers[i], true
		}
	}
	return Modifier{}, false
}
