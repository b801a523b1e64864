package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/synqronlabs/safemx"
	"github.com/synqronlabs/safemx/dns"
)

func render(res ...*safemx.CheckResult) string {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	for _, r := range res {
		c.Check(r)
	}
	return buf.String()
}

func TestConsoleSPF(t *testing.T) {
	out := render(safemx.ClassifySPF("example.com", dns.Found(
		"v=spf1 ip4:192.0.2.0/24 a:mail.example.com/28 include:_spf.example.net redirect=_spf.example.com ~all",
	)))

	wantInOrder := []string{
		"[+] SPF record for example.com found!",
		"    spf: v=spf1 ip4:192.0.2.0/24",
		"    Version Detected: v=spf1",
		"    IP Address Detected: ip4:192.0.2.0/24",
		"        [i] ",
		"    'a' Mechanism with Domain and Prefix Detected: a:mail.example.com/28",
		"        Domain: mail.example.com, Prefix Length: 28",
		"    Include Detected: include:_spf.example.net",
		"    Redirect Modifier Detected: redirect=_spf.example.com",
		"    'all' Mechanism Detected: ~all",
		"[!] No 'mx' mechanism found.",
		"SPF Record Analysis Complete.",
	}
	assertInOrder(t, out, wantInOrder)

	if strings.Contains(out, "\x1b[") {
		t.Error("escape sequences written with color disabled")
	}
}

func TestConsoleDMARC(t *testing.T) {
	out := render(safemx.ClassifyDMARC("example.com", dns.Found("v=DMARC1; p=none; zz=1")))

	assertInOrder(t, out, []string{
		"[+] DMARC record for example.com found!",
		"    Version Detected: v=DMARC1",
		"    Policy Detected: p=none",
		"    Other Tag Detected: zz=1",
		"        [i] Unknown DMARC tag",
		"    Optional Field Not Present: adkim='none'",
		"    Optional Field Not Present: ri='none'",
		"DMARC Record Analysis Complete.",
	})
}

func TestConsoleDKIM(t *testing.T) {
	out := render(safemx.ClassifyDKIM("example.com", "s1", dns.Found(
		"v=DKIM1; k=ed25519; p=11qYAYKxCrfVS/7TyWQHOg7hcvPapiMlrwIaaPcHURo=",
	)))

	assertInOrder(t, out, []string{
		"[+] DKIM record for example.com found with selector 's1'!",
		"    Version Detected: v=DKIM1",
		"    Other Mechanism Detected: k=ed25519",
		"    Public Key Detected: p=11qY",
		"        Key: ed25519, 256 bits",
		"    Optional Field Not Present: s='none'",
		"DKIM Record Analysis Complete.",
	})
}

func TestConsoleErrors(t *testing.T) {
	tests := []struct {
		name string
		res  *safemx.CheckResult
		want []string
	}{
		{
			name: "no spf",
			res:  safemx.ClassifySPF("example.com", dns.Outcome{Kind: dns.OutcomeNoRecord}),
			want: []string{"[!] No SPF record found for example.com! Careful!"},
		},
		{
			name: "multiple spf",
			res:  safemx.ClassifySPF("example.com", dns.Found("v=spf1 -all", "v=spf1 ~all")),
			want: []string{
				"[!] Multiple SPF records found for example.com. This is a misconfiguration!",
				"    spf: v=spf1 -all",
				"    spf: v=spf1 ~all",
			},
		},
		{
			name: "nxdomain",
			res:  safemx.ClassifyDMARC("example.com", dns.Outcome{Kind: dns.OutcomeDomainNotFound}),
			want: []string{"[!] Domain example.com does not exist."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(tt.res)
			assertInOrder(t, out, tt.want)
			if strings.Contains(out, "Analysis Complete") {
				t.Error("failed check printed an analysis footer")
			}
		})
	}
}

func TestConsoleReport(t *testing.T) {
	report := &safemx.Report{
		SPF:  safemx.ClassifySPF("example.com", dns.Found("v=spf1 -all")),
		DKIM: safemx.ClassifyDKIM("example.com", "", dns.Outcome{Kind: dns.OutcomeNoRecord}),
	}

	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	c.Notice("No DKIM selector provided. Proceeding with default selector '%s'", "default")
	c.Report(report)

	assertInOrder(t, buf.String(), []string{
		"[!] No DKIM selector provided. Proceeding with default selector 'default'",
		"SPF Record Analysis Complete.\n\n",
		"[!] No DKIM record found for example.com with selector 'default'",
	})
}

func assertInOrder(t *testing.T, out string, want []string) {
	t.Helper()
	rest := out
	for _, w := range want {
		i := strings.Index(rest, w)
		if i < 0 {
			t.Fatalf("output missing %q (in order); got:\n%s", w, out)
		}
		rest = rest[i+len(w):]
	}
}
