package spf

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/synqronlabs/safemx/explain"
)

// Advisory messages attached to a Result.
const (
	WarnUppercase       = "SPF record contains uppercase characters, which is invalid."
	WarnMissingIP       = "Missing IP mechanism (ip4: or ip6:). Add an IP address mechanism."
	WarnMissingInclude  = "Missing include mechanism (include:). No other domain's senders are authorized."
	WarnPassAll         = "The +all mechanism allows any server to send mail for this domain."
	NoteMissingAll      = "Missing 'all' or 'redirect=' mechanism. The record has no defined behavior for non-matching senders."
	NotePTRDeprecated   = "The ptr mechanism is deprecated (RFC 7208 Section 5.5) and slow to evaluate."
	maxLookups          = 10
	lookupLimitTemplate = "SPF record uses %d DNS-querying terms; more than %d causes a permerror (RFC 7208 Section 4.6.4)."
)

var allTokens = []string{"-all", "~all", "?all", "+all"}

// rule classifies one token. Rules are tried in order and the first match
// wins; some prefixes overlap, so the order is significant.
type rule struct {
	match func(tok string) bool
	apply func(p *parser, tok string)
}

var rules = []rule{
	{hasPrefix("v="), (*parser).version},
	{hasPrefix("ip4:", "ip6:"), (*parser).ip},
	{func(tok string) bool {
		return tok == "a" || strings.HasPrefix(tok, "a:") || strings.HasPrefix(tok, "a/")
	}, (*parser).a},
	{hasPrefix("mx"), (*parser).mx},
	{hasPrefix("ptr"), (*parser).ptr},
	{hasPrefix("exists:"), (*parser).exists},
	{hasPrefix("include:", "+include:"), (*parser).include},
	{hasPrefix("redirect="), (*parser).redirect},
	{hasPrefix("exp="), (*parser).exp},
	{func(tok string) bool { return slices.Contains(allTokens, tok) }, (*parser).all},
}

func hasPrefix(prefixes ...string) func(string) bool {
	return func(tok string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(tok, p) {
				return true
			}
		}
		return false
	}
}

// parser is the per-call state of Parse.
type parser struct {
	catalog     *explain.Catalog
	res         *Result
	hasRedirect bool
}

// Parse parses an SPF record using the default explanation catalog.
func Parse(record string) *Result {
	return ParseWith(nil, record)
}

// ParseWith parses an SPF record, taking explanations from catalog. A nil
// catalog selects explain.SPF().
//
// ParseWith never fails. Tokens that match no rule are kept as KindOther.
func ParseWith(catalog *explain.Catalog, record string) *Result {
	if catalog == nil {
		catalog = explain.SPF()
	}

	p := &parser{
		catalog: catalog,
		res: &Result{
			Record:     record,
			Mechanisms: []Mechanism{},
			Modifiers:  []Modifier{},
			Absent:     []Kind{},
			Warnings:   []string{},
			Notes:      []string{},
		},
	}

	if strings.ContainsFunc(record, unicode.IsUpper) {
		p.warn(WarnUppercase)
	}

	for _, tok := range strings.Fields(record) {
		p.classify(tok)
	}

	p.finish()
	return p.res
}

func (p *parser) classify(tok string) {
	for _, r := range rules {
		if r.match(tok) {
			r.apply(p, tok)
			return
		}
	}
	p.other(tok)
}

func (p *parser) warn(msg string) { p.res.Warnings = append(p.res.Warnings, msg) }
func (p *parser) note(msg string) { p.res.Notes = append(p.res.Notes, msg) }

func (p *parser) mechanism(m Mechanism) {
	p.res.Mechanisms = append(p.res.Mechanisms, m)
}

func (p *parser) version(tok string) {
	p.res.Version = tok
	p.res.Versions = append(p.res.Versions, tok)
	p.res.VersionExplanation = p.catalog.Explain("v")
}

func (p *parser) ip(tok string) {
	name, _, _ := strings.Cut(tok, ":")
	p.mechanism(Mechanism{Kind: KindIP, Value: tok, Explanation: p.catalog.Explain(name)})
}

func (p *parser) a(tok string) {
	domain, prefix := domainAndPrefix(tok)
	p.res.LookupCount++
	p.mechanism(Mechanism{
		Kind:         KindA,
		Value:        tok,
		Domain:       domain,
		PrefixLength: prefix,
		Explanation:  p.catalog.Explain("a"),
	})
}

func (p *parser) mx(tok string) {
	m := Mechanism{Kind: KindMX, Value: tok, Explanation: p.catalog.Explain("mx")}
	if tok == "mx" || strings.HasPrefix(tok, "mx:") || strings.HasPrefix(tok, "mx/") {
		m.Domain, m.PrefixLength = domainAndPrefix(tok)
	}
	p.res.LookupCount++
	p.mechanism(m)
}

func (p *parser) ptr(tok string) {
	m := Mechanism{Kind: KindPTR, Value: tok, Explanation: p.catalog.Explain("ptr")}
	if rest, ok := strings.CutPrefix(tok, "ptr:"); ok {
		m.Domain = rest
	}
	p.res.LookupCount++
	p.mechanism(m)
}

func (p *parser) exists(tok string) {
	_, domain, _ := strings.Cut(tok, ":")
	p.res.LookupCount++
	p.mechanism(Mechanism{Kind: KindExists, Value: tok, Domain: domain, Explanation: p.catalog.Explain("exists")})
}

func (p *parser) include(tok string) {
	_, domain, _ := strings.Cut(tok, ":")
	p.res.LookupCount++
	p.mechanism(Mechanism{Kind: KindInclude, Value: tok, Domain: domain, Explanation: p.catalog.Explain("include")})
}

func (p *parser) redirect(tok string) {
	_, domain, _ := strings.Cut(tok, "=")
	p.hasRedirect = true
	p.res.LookupCount++
	p.res.Modifiers = append(p.res.Modifiers, Modifier{
		Kind:        ModifierRedirect,
		Value:       tok,
		Domain:      domain,
		Explanation: p.catalog.Explain("redirect"),
	})
}

func (p *parser) exp(tok string) {
	_, domain, _ := strings.Cut(tok, "=")
	p.res.Modifiers = append(p.res.Modifiers, Modifier{
		Kind:        ModifierExp,
		Value:       tok,
		Domain:      domain,
		Explanation: p.catalog.Explain("exp"),
	})
}

func (p *parser) all(tok string) {
	p.mechanism(Mechanism{Kind: KindAll, Value: tok, Explanation: p.catalog.ExplainValue("all", tok)})
}

func (p *parser) other(tok string) {
	name, _, _ := strings.Cut(tok, ":")
	p.mechanism(Mechanism{Kind: KindOther, Value: tok, Explanation: p.catalog.Explain(name)})
}

// finish records absent categories and record-level findings.
func (p *parser) finish() {
	r := p.res

	for _, kind := range CheckedKinds {
		if r.Has(kind) {
			continue
		}
		r.Absent = append(r.Absent, kind)
		switch kind {
		case KindIP:
			p.warn(WarnMissingIP)
		case KindInclude:
			p.warn(WarnMissingInclude)
		default:
			p.note(fmt.Sprintf("No '%s' mechanism found.", kind))
		}
	}

	if !r.Has(KindAll) && !p.hasRedirect {
		p.note(NoteMissingAll)
	}

	if slices.ContainsFunc(r.Mechanisms, func(m Mechanism) bool { return m.Value == "+all" }) {
		p.warn(WarnPassAll)
	}

	if r.Has(KindPTR) {
		p.note(NotePTRDeprecated)
	}

	if r.LookupCount > maxLookups {
		p.warn(fmt.Sprintf(lookupLimitTemplate, r.LookupCount, maxLookups))
	}
}

// domainAndPrefix splits "a:example.com/24" style terms. The domain is the
// text between the first and second ":" up to any "/"; the prefix length is
// the text between the first and second "/".
func domainAndPrefix(tok string) (domain, prefix string) {
	if strings.Contains(tok, ":") {
		domain, _, _ = strings.Cut(strings.Split(tok, ":")[1], "/")
	}
	if strings.Contains(tok, "/") {
		prefix = strings.Split(tok, "/")[1]
	}
	return domain, prefix
}
