package spf

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/synqronlabs/safemx/explain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		checkFunc func(t *testing.T, r *Result)
	}{
		{
			name:  "typical record",
			input: "v=spf1 ip4:203.0.113.0/24 include:_spf.example.com -all",
			checkFunc: func(t *testing.T, r *Result) {
				if r.Version != "v=spf1" {
					t.Errorf("Version = %q, want %q", r.Version, "v=spf1")
				}
				if got := r.MechanismsOf(KindIP); len(got) != 1 || got[0].Value != "ip4:203.0.113.0/24" {
					t.Errorf("ip mechanisms = %+v", got)
				}
				inc := r.MechanismsOf(KindInclude)
				if len(inc) != 1 || inc[0].Domain != "_spf.example.com" {
					t.Errorf("include mechanisms = %+v", inc)
				}
				all := r.MechanismsOf(KindAll)
				if len(all) != 1 || all[0].Value != "-all" {
					t.Errorf("all mechanisms = %+v", all)
				}
				if slices.Contains(r.Notes, NoteMissingAll) {
					t.Error("unexpected missing-all note")
				}
				if len(r.Warnings) != 0 {
					t.Errorf("unexpected warnings: %v", r.Warnings)
				}
			},
		},
		{
			name:  "a mechanism variants",
			input: "v=spf1 a a:mail.example.com a/24 a:mail.example.com/28 -all",
			checkFunc: func(t *testing.T, r *Result) {
				want := []Mechanism{
					{Kind: KindA, Value: "a"},
					{Kind: KindA, Value: "a:mail.example.com", Domain: "mail.example.com"},
					{Kind: KindA, Value: "a/24", PrefixLength: "24"},
					{Kind: KindA, Value: "a:mail.example.com/28", Domain: "mail.example.com", PrefixLength: "28"},
				}
				got := r.MechanismsOf(KindA)
				for i := range got {
					got[i].Explanation = ""
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("a mechanisms mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:  "prefix precedence",
			input: "v=spf1 mx mx:mail.example.com/24 mxfoo ptr ptr:example.com exists:%{i}.example.com +include:a.example.com -all",
			checkFunc: func(t *testing.T, r *Result) {
				kinds := make([]Kind, len(r.Mechanisms))
				for i, m := range r.Mechanisms {
					kinds[i] = m.Kind
				}
				want := []Kind{KindMX, KindMX, KindMX, KindPTR, KindPTR, KindExists, KindInclude, KindAll}
				if diff := cmp.Diff(want, kinds); diff != "" {
					t.Errorf("kinds mismatch (-want +got):\n%s", diff)
				}
				if r.Mechanisms[1].Domain != "mail.example.com" || r.Mechanisms[1].PrefixLength != "24" {
					t.Errorf("mx:mail.example.com/24 = %+v", r.Mechanisms[1])
				}
				if r.Mechanisms[2].Domain != "" {
					t.Errorf("mxfoo got domain %q", r.Mechanisms[2].Domain)
				}
				if r.Mechanisms[4].Domain != "example.com" {
					t.Errorf("ptr domain = %q", r.Mechanisms[4].Domain)
				}
				if r.Mechanisms[6].Domain != "a.example.com" {
					t.Errorf("+include domain = %q", r.Mechanisms[6].Domain)
				}
			},
		},
		{
			name:  "a does not swallow all",
			input: "v=spf1 ~all",
			checkFunc: func(t *testing.T, r *Result) {
				if r.Has(KindA) {
					t.Error("~all classified as a mechanism")
				}
				if len(r.MechanismsOf(KindAll)) != 1 {
					t.Errorf("expected one all mechanism, got %+v", r.Mechanisms)
				}
			},
		},
		{
			name:  "modifiers",
			input: "v=spf1 redirect=_spf.example.com exp=explain.example.com",
			checkFunc: func(t *testing.T, r *Result) {
				red, ok := r.Modifier(ModifierRedirect)
				if !ok || red.Domain != "_spf.example.com" {
					t.Errorf("redirect = %+v, %v", red, ok)
				}
				exp, ok := r.Modifier(ModifierExp)
				if !ok || exp.Domain != "explain.example.com" {
					t.Errorf("exp = %+v, %v", exp, ok)
				}
				if slices.Contains(r.Notes, NoteMissingAll) {
					t.Error("redirect should satisfy the all/redirect check")
				}
			},
		},
		{
			name:  "missing all and redirect",
			input: "v=spf1 ip4:192.0.2.1",
			checkFunc: func(t *testing.T, r *Result) {
				if !slices.Contains(r.Notes, NoteMissingAll) {
					t.Errorf("expected missing-all note, got %v", r.Notes)
				}
			},
		},
		{
			name:  "unknown tokens fall through",
			input: "v=spf1 -include:bad.example.com foo=bar ?mx all",
			checkFunc: func(t *testing.T, r *Result) {
				for _, m := range r.Mechanisms {
					if m.Kind != KindOther {
						t.Errorf("%q classified as %s, want other", m.Value, m.Kind)
					}
					if m.Explanation != "Unknown mechanism" {
						t.Errorf("%q explanation = %q", m.Value, m.Explanation)
					}
				}
			},
		},
		{
			name:  "uppercase",
			input: "V=spf1 -all",
			checkFunc: func(t *testing.T, r *Result) {
				if !slices.Contains(r.Warnings, WarnUppercase) {
					t.Errorf("expected uppercase warning, got %v", r.Warnings)
				}
				if len(r.MechanismsOf(KindAll)) != 1 {
					t.Error("-all should still be extracted")
				}
				if r.Version != "" {
					t.Errorf("Version = %q, want empty", r.Version)
				}
			},
		},
		{
			name:  "multiple versions last wins",
			input: "v=spf1 v=spf2 -all",
			checkFunc: func(t *testing.T, r *Result) {
				if r.Version != "v=spf2" {
					t.Errorf("Version = %q, want v=spf2", r.Version)
				}
				if len(r.Versions) != 2 {
					t.Errorf("Versions = %v", r.Versions)
				}
			},
		},
		{
			name:  "pass all and ptr",
			input: "v=spf1 ptr +all",
			checkFunc: func(t *testing.T, r *Result) {
				if !slices.Contains(r.Warnings, WarnPassAll) {
					t.Errorf("expected +all warning, got %v", r.Warnings)
				}
				if !slices.Contains(r.Notes, NotePTRDeprecated) {
					t.Errorf("expected ptr note, got %v", r.Notes)
				}
			},
		},
		{
			name:  "empty record",
			input: "",
			checkFunc: func(t *testing.T, r *Result) {
				if len(r.Mechanisms) != 0 || len(r.Modifiers) != 0 {
					t.Errorf("expected no terms, got %+v %+v", r.Mechanisms, r.Modifiers)
				}
				if len(r.Absent) != len(CheckedKinds) {
					t.Errorf("Absent = %v", r.Absent)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFunc(t, Parse(tt.input))
		})
	}
}

func TestParseAbsent(t *testing.T) {
	r := Parse("v=spf1 ip6:2001:db8::/32 mx -all")

	want := []Kind{KindA, KindPTR, KindExists, KindInclude}
	if diff := cmp.Diff(want, r.Absent); diff != "" {
		t.Errorf("Absent mismatch (-want +got):\n%s", diff)
	}
	if !slices.Contains(r.Warnings, WarnMissingInclude) {
		t.Errorf("missing include should be a warning, got %v", r.Warnings)
	}
	if slices.Contains(r.Warnings, WarnMissingIP) {
		t.Error("ip6 present but missing-ip warning raised")
	}
	if !slices.Contains(r.Notes, "No 'a' mechanism found.") {
		t.Errorf("missing a should be a note, got %v", r.Notes)
	}
	for _, kind := range r.Absent {
		if r.Has(kind) {
			t.Errorf("%s reported absent but present", kind)
		}
	}
}

// Every token is the version, exactly one mechanism or exactly one modifier.
func TestParseRoundTrip(t *testing.T) {
	records := []string{
		"v=spf1 ip4:203.0.113.0/24 include:_spf.example.com -all",
		"v=spf1 a mx ptr:example.org exists:%{i}.bl.example.com ~all",
		"v=spf1 ip6:2001:db8::/32 redirect=_spf.example.net exp=why.example.net",
		"v=spf1   include:a.example  +include:b.example\t?all  unknown:thing",
	}

	for _, rec := range records {
		r := Parse(rec)
		var got []string
		got = append(got, r.Versions...)
		for _, m := range r.Mechanisms {
			got = append(got, m.Value)
		}
		for _, m := range r.Modifiers {
			got = append(got, m.Value)
		}
		want := strings.Fields(rec)
		slices.Sort(got)
		slices.Sort(want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Parse(%q) tokens mismatch (-want +got):\n%s", rec, diff)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	rec := "v=spf1 a:x.example/24 include:y.example redirect=z.example"
	if diff := cmp.Diff(Parse(rec), Parse(rec)); diff != "" {
		t.Errorf("parses differ:\n%s", diff)
	}
}

func TestParseLookupCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("v=spf1")
	for i := 0; i < 11; i++ {
		b.WriteString(" include:")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString(".example.com")
	}
	b.WriteString(" -all")

	r := Parse(b.String())
	if r.LookupCount != 11 {
		t.Errorf("LookupCount = %d, want 11", r.LookupCount)
	}
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "permerror") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected lookup limit warning, got %v", r.Warnings)
	}

	if got := Parse("v=spf1 ip4:192.0.2.0/24 -all").LookupCount; got != 0 {
		t.Errorf("ip-only LookupCount = %d, want 0", got)
	}
}

func TestParseWithCatalog(t *testing.T) {
	c := explain.New(map[string]string{"include": "custom include"}, nil, "nope")
	r := ParseWith(c, "v=spf1 include:example.com ip4:192.0.2.1 -all")

	if got := r.MechanismsOf(KindInclude)[0].Explanation; got != "custom include" {
		t.Errorf("include explanation = %q", got)
	}
	if got := r.MechanismsOf(KindIP)[0].Explanation; got != "nope" {
		t.Errorf("ip explanation = %q, want catalog fallback", got)
	}
	if got := r.MechanismsOf(KindAll)[0].Explanation; got != "Unknown all value: -all" {
		t.Errorf("all explanation = %q", got)
	}
}
