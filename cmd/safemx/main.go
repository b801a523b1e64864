// Command safemx checks the SPF, DMARC and DKIM records of a domain.
//
// Usage:
//
//	safemx [-spf] [-dmarc] [-dkim] [-selector name] [-output console|json|msgpack] [-outfile path] domain
//
// Flags may appear before or after the domain. At least one of -spf, -dmarc
// or -dkim is required.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/synqronlabs/safemx"
	"github.com/synqronlabs/safemx/dkim"
	"github.com/synqronlabs/safemx/dns"
	"github.com/synqronlabs/safemx/render"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const banner = `
  ________     __       _______   _______  ___      ___  ___  ___
 /"       )   /""\     /"     "| /"     "||"  \    /"  ||"  \/"  |
(:   \___/   /    \   (: ______)(: ______) \   \  //   | \   \  /
 \___  \    /' /\  \   \/    |   \/    |   /\\  \/.    |  \\  \/
  __/  \\  //  __'  \  // ___)   // ___)_ |: \.        |  /\.  \
 /" \   :)/   /  \\  \(:  (     (:      "||.  \    /:  | /  \   \
(_______/(___/    \___)\__/      \_______)|___|\__/|___||___/\___|
`

// usageError is a command line mistake the flag package did not report.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	domain      string
	checks      safemx.Checks
	selectorSet bool
	output      string
	outfile     string
	nameservers listFlag
	timeout     time.Duration
	dnssec      bool
	fallback    bool
	noColor     bool
	debug       bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("safemx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: safemx [-h] [-spf] [-dmarc] [-dkim] [-selector SELECTOR] [-output FORMAT] [-outfile PATH] domain")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Check domain's SPF, DMARC, and DKIM records.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	fs.BoolVar(&opts.checks.SPF, "spf", false, "Check SPF record")
	fs.BoolVar(&opts.checks.DMARC, "dmarc", false, "Check DMARC record")
	fs.BoolVar(&opts.checks.DKIM, "dkim", false, "Check DKIM record")
	fs.StringVar(&opts.checks.Selector, "selector", dkim.DefaultSelector, "DKIM selector for DKIM check")
	fs.StringVar(&opts.output, "output", "console", "Output format: console, json or msgpack")
	fs.StringVar(&opts.outfile, "outfile", "", "Output file for json/msgpack results (default output.json or output.msgpack)")
	fs.Var(&opts.nameservers, "nameserver", "DNS server to query, host[:port] (repeatable; default from /etc/resolv.conf)")
	fs.DurationVar(&opts.timeout, "timeout", dns.DefaultTimeout, "Timeout for each DNS query")
	fs.BoolVar(&opts.dnssec, "dnssec", false, "Request DNSSEC validation from the resolver")
	fs.BoolVar(&opts.fallback, "dmarc-fallback", false, "Use the organizational domain's DMARC record when a subdomain has none")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&opts.debug, "debug", false, "Log DNS lookups to stderr")
	return fs
}

// parseArgs parses args, allowing flags on either side of the domain.
func parseArgs(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := newFlagSet(opts, stderr)

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fs, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "selector" {
			opts.selectorSet = true
		}
	})

	switch len(positional) {
	case 0:
		return nil, fs, &usageError{"the following arguments are required: domain"}
	case 1:
		opts.domain = positional[0]
	default:
		return nil, fs, &usageError{"unrecognized arguments: " + strings.Join(positional[1:], " ")}
	}

	switch opts.output {
	case "console", "json", "msgpack":
	default:
		return nil, fs, &usageError{fmt.Sprintf("invalid -output %q (choose from console, json, msgpack)", opts.output)}
	}
	if opts.outfile == "" && opts.output != "console" {
		opts.outfile = "output." + opts.output
	}
	return opts, fs, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		// The flag package has already printed its own error and usage.
		var uerr *usageError
		if errors.As(err, &uerr) {
			fs.Usage()
			fmt.Fprintf(stderr, "safemx: error: %v\n", err)
		}
		return exitUsage
	}

	console := render.NewConsole(stdout, opts.noColor)
	console.Banner(banner)

	if !opts.checks.Any() {
		console.Info("No check option provided, use -spf, -dmarc, or -dkim flags.")
		fs.Usage()
		return exitFailure
	}

	level := slog.LevelWarn
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	checker := safemx.New(safemx.Config{
		Resolver: dns.NewResolver(dns.ResolverConfig{
			Nameservers: opts.nameservers,
			DNSSEC:      opts.dnssec,
			Timeout:     opts.timeout,
		}),
		Logger:           logger,
		DMARCOrgFallback: opts.fallback,
	})

	if opts.checks.DKIM && !opts.selectorSet {
		console.Notice("No DKIM selector provided. Proceeding with default selector '%s'", dkim.DefaultSelector)
	}

	report, err := checker.Run(ctx, opts.domain, opts.checks)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	switch opts.output {
	case "console":
		console.Report(report)
	case "json":
		if err := writeFile(opts.outfile, report.WriteJSON); err != nil {
			logger.Error("writing report", slog.String("path", opts.outfile), slog.Any("error", err))
			return exitFailure
		}
		console.Info("JSON output written to %s", opts.outfile)
	case "msgpack":
		if err := writeFile(opts.outfile, report.WriteMsgpack); err != nil {
			logger.Error("writing report", slog.String("path", opts.outfile), slog.Any("error", err))
			return exitFailure
		}
		console.Info("MessagePack output written to %s", opts.outfile)
	}
	return exitOK
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
