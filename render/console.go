// Package render narrates check results as a colored console transcript.
//
// Every item of a parsed record becomes a bold colored title line followed
// by an indented "[i]" explanation. Errors and warnings are red, notices
// yellow, success green.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/synqronlabs/safemx"
	"github.com/synqronlabs/safemx/dkim"
	"github.com/synqronlabs/safemx/dmarc"
	"github.com/synqronlabs/safemx/spf"
)

const (
	indent     = "    "
	infoIndent = "        "
)

// Console writes transcripts to an io.Writer.
type Console struct {
	w io.Writer

	red     *color.Color
	yellow  *color.Color
	green   *color.Color
	magenta *color.Color

	// Bold variants for title lines.
	titleRed     *color.Color
	titleYellow  *color.Color
	titleGreen   *color.Color
	titleCyan    *color.Color
	titleBlue    *color.Color
	titleMagenta *color.Color
}

// NewConsole returns a Console writing to w. With noColor set, no escape
// sequences are written; otherwise color follows the fatih/color terminal
// detection.
func NewConsole(w io.Writer, noColor bool) *Console {
	c := &Console{
		w:            w,
		red:          color.New(color.FgRed),
		yellow:       color.New(color.FgYellow),
		green:        color.New(color.FgGreen),
		magenta:      color.New(color.FgMagenta),
		titleRed:     color.New(color.Bold, color.FgRed),
		titleYellow:  color.New(color.Bold, color.FgYellow),
		titleGreen:   color.New(color.Bold, color.FgGreen),
		titleCyan:    color.New(color.Bold, color.FgCyan),
		titleBlue:    color.New(color.Bold, color.FgBlue),
		titleMagenta: color.New(color.Bold, color.FgMagenta),
	}
	if noColor {
		for _, col := range []*color.Color{
			c.red, c.yellow, c.green, c.magenta,
			c.titleRed, c.titleYellow, c.titleGreen, c.titleCyan, c.titleBlue, c.titleMagenta,
		} {
			col.DisableColor()
		}
	}
	return c
}

// Banner prints the program banner.
func (c *Console) Banner(banner string) {
	c.magenta.Fprintln(c.w, banner)
}

// Notice prints a yellow "[!]" line.
func (c *Console) Notice(format string, args ...any) {
	c.titleYellow.Fprintf(c.w, "[!] %s\n", fmt.Sprintf(format, args...))
}

// Error prints a red "[!]" line.
func (c *Console) Error(format string, args ...any) {
	c.red.Fprintf(c.w, "[!] %s\n", fmt.Sprintf(format, args...))
}

// Info prints an uncolored line.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintln(c.w, fmt.Sprintf(format, args...))
}

// Report prints every check in the report, separated by blank lines.
func (c *Console) Report(r *safemx.Report) {
	for i, res := range r.Results() {
		if i > 0 {
			fmt.Fprintln(c.w)
		}
		c.Check(res)
	}
}

// Check prints one check result.
func (c *Console) Check(res *safemx.CheckResult) {
	if !res.OK() {
		c.checkError(res)
		return
	}

	switch res.Type {
	case safemx.CheckSPF:
		c.titleGreen.Fprintf(c.w, "[+] SPF record for %s found!\n", res.Domain)
	case safemx.CheckDMARC:
		c.titleGreen.Fprintf(c.w, "[+] DMARC record for %s found!\n", res.Domain)
		if want := safemx.DMARCName(res.Domain); res.Name != want {
			fmt.Fprintf(c.w, "%sinherited from %s\n", indent, res.Name)
		}
	case safemx.CheckDKIM:
		c.titleGreen.Fprintf(c.w, "[+] DKIM record for %s found with selector '%s'!\n", res.Domain, res.Selector)
	}
	fmt.Fprintf(c.w, "%s%s: %s\n", indent, res.Type, res.Record)
	if res.Authentic {
		c.green.Fprintf(c.w, "%sdnssec: validated\n", indent)
	}
	fmt.Fprintln(c.w)

	switch {
	case res.SPF != nil:
		c.spf(res.SPF)
	case res.DMARC != nil:
		c.dmarc(res.DMARC)
	case res.DKIM != nil:
		c.dkim(res.DKIM)
	}

	for _, w := range res.Warnings() {
		c.red.Fprintf(c.w, "[!] %s\n", w)
	}
	for _, n := range res.Notes() {
		c.yellow.Fprintf(c.w, "[!] %s\n", n)
	}

	label := strings.ToUpper(string(res.Type))
	c.titleCyan.Fprintf(c.w, "%s Record Analysis Complete.\n", label)
}

func (c *Console) checkError(res *safemx.CheckResult) {
	e := res.Err
	switch e.Code {
	case safemx.CodeMultipleSPF:
		c.red.Fprintf(c.w, "[!] %s. This is a misconfiguration!\n", e.Message)
		for _, r := range e.Records {
			fmt.Fprintf(c.w, "%sspf: %s\n\n", indent, r)
		}
	case safemx.CodeNoSPF:
		c.red.Fprintf(c.w, "[!] %s!", e.Message)
		fmt.Fprintln(c.w, " Careful! Attackers can send emails on behalf of this domain.")
	default:
		c.titleRed.Fprintf(c.w, "[!] %s\n", e.Message)
	}
}

func (c *Console) item(title *color.Color, label, value, explanation string) {
	fmt.Fprint(c.w, indent)
	title.Fprint(c.w, label)
	fmt.Fprintf(c.w, " %s\n", value)
	if explanation != "" {
		fmt.Fprintf(c.w, "%s[i] %s\n", infoIndent, explanation)
	}
}

// spf walks the record tokens in order. Each token produced exactly one
// version, mechanism or modifier entry, so the three lists are consumed in
// step with the tokens.
func (c *Console) spf(r *spf.Result) {
	var vi, mi, di int
	for _, tok := range strings.Fields(r.Record) {
		switch {
		case vi < len(r.Versions) && r.Versions[vi] == tok:
			vi++
			c.item(c.titleCyan, "Version Detected:", tok, r.VersionExplanation)
		case mi < len(r.Mechanisms) && r.Mechanisms[mi].Value == tok:
			c.mechanism(r.Mechanisms[mi])
			mi++
		case di < len(r.Modifiers) && r.Modifiers[di].Value == tok:
			c.modifier(r.Modifiers[di])
			di++
		}
	}
}

func (c *Console) mechanism(m spf.Mechanism) {
	switch m.Kind {
	case spf.KindIP:
		c.item(c.titleGreen, "IP Address Detected:", m.Value, m.Explanation)
	case spf.KindA:
		label := "'a' Mechanism Detected:"
		switch {
		case m.Domain != "" && m.PrefixLength != "":
			label = "'a' Mechanism with Domain and Prefix Detected:"
		case m.Domain != "":
			label = "'a' Mechanism with Domain Detected:"
		case m.PrefixLength != "":
			label = "'a' Mechanism with Prefix Detected:"
		}
		c.item(c.titleBlue, label, m.Value, m.Explanation)
		c.target(m.Domain, m.PrefixLength)
	case spf.KindMX, spf.KindPTR, spf.KindExists:
		c.item(c.titleBlue, fmt.Sprintf("'%s' Mechanism Detected:", m.Kind), m.Value, m.Explanation)
		c.target(m.Domain, m.PrefixLength)
	case spf.KindInclude:
		c.item(c.titleYellow, "Include Detected:", m.Value, m.Explanation)
	case spf.KindAll:
		c.item(c.titleMagenta, "'all' Mechanism Detected:", m.Value, m.Explanation)
	default:
		c.item(c.titleBlue, "Other Mechanism Detected:", m.Value, m.Explanation)
	}
}

func (c *Console) target(domain, prefix string) {
	var parts []string
	if domain != "" {
		parts = append(parts, "Domain: "+domain)
	}
	if prefix != "" {
		parts = append(parts, "Prefix Length: "+prefix)
	}
	if len(parts) > 0 {
		fmt.Fprintf(c.w, "%s%s\n", infoIndent, strings.Join(parts, ", "))
	}
}

func (c *Console) modifier(m spf.Modifier) {
	label := "Redirect Modifier Detected:"
	if m.Kind == spf.ModifierExp {
		label = "Explanation Modifier Detected:"
	}
	c.item(c.titleYellow, label, m.Value, m.Explanation)
}

func (c *Console) dmarcTitle(tag string) (*color.Color, string) {
	switch tag {
	case dmarc.TagVersion:
		return c.titleCyan, "Version Detected:"
	case dmarc.TagPolicy:
		return c.titleGreen, "Policy Detected:"
	case dmarc.TagADKIM:
		return c.titleYellow, "DKIM Alignment Mode Detected:"
	case dmarc.TagASPF:
		return c.titleYellow, "SPF Alignment Mode Detected:"
	case dmarc.TagSubdomainPolicy:
		return c.titleGreen, "Subdomain Policy Detected:"
	case dmarc.TagFailureOptions:
		return c.titleMagenta, "Forensic Options Detected:"
	case dmarc.TagFailureURI:
		return c.titleBlue, "Forensic Reports URI Detected:"
	case dmarc.TagAggregateURI:
		return c.titleBlue, "Aggregate Reports URI Detected:"
	case dmarc.TagReportFormat:
		return c.titleBlue, "Reporting Format Detected:"
	case dmarc.TagPercentage:
		return c.titleMagenta, "Percentage Detected:"
	case dmarc.TagInterval:
		return c.titleMagenta, "Reporting Interval Detected:"
	}
	return c.titleBlue, "Other Tag Detected:"
}

func (c *Console) dmarc(r *dmarc.Result) {
	for _, tag := range r.Tags {
		value, _ := r.Value(tag)
		title, label := c.dmarcTitle(tag)
		c.item(title, label, tag+"="+value, r.Explanations[tag])
	}
	for _, tag := range dmarc.OptionalTags {
		if _, ok := r.Value(tag); !ok {
			c.absent(tag)
		}
	}
}

func (c *Console) dkim(r *dkim.Result) {
	for _, tag := range r.Tags {
		value, _ := r.Value(tag)
		switch tag {
		case dkim.TagVersion:
			c.item(c.titleCyan, "Version Detected:", tag+"="+value, r.Explanations[tag])
		case dkim.TagPublicKey:
			c.item(c.titleGreen, "Public Key Detected:", tag+"="+value, r.Explanations[tag])
			if k := r.Key; k != nil && k.Err == nil && !k.Revoked {
				fmt.Fprintf(c.w, "%sKey: %s, %d bits\n", infoIndent, k.Type, k.Bits)
			}
		default:
			c.item(c.titleBlue, "Other Mechanism Detected:", tag+"="+value, r.Explanations[tag])
		}
	}
	for _, tag := range dkim.OptionalTags {
		if _, ok := r.Value(tag); !ok {
			c.absent(tag)
		}
	}
}

func (c *Console) absent(tag string) {
	fmt.Fprint(c.w, indent)
	c.titleYellow.Fprint(c.w, "Optional Field Not Present:")
	fmt.Fprintf(c.w, " %s='none'\n", tag)
}
