package safemx

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/synqronlabs/safemx/dkim"
	"github.com/synqronlabs/safemx/dmarc"
	"github.com/synqronlabs/safemx/dns"
)

// Checks selects the checks Run performs.
type Checks struct {
	SPF   bool
	DMARC bool
	DKIM  bool

	// Selector is the DKIM selector. Empty means dkim.DefaultSelector.
	Selector string
}

// Any reports whether at least one check is selected.
func (c Checks) Any() bool {
	return c.SPF || c.DMARC || c.DKIM
}

// Checker looks up and interprets a domain's email-authentication records.
// It is safe for concurrent use.
type Checker struct {
	config Config
	logger *slog.Logger
}

// New creates a Checker, filling unset fields of config with defaults.
func New(config Config) *Checker {
	if config.Resolver == nil {
		config.Resolver = dns.NewResolver(dns.ResolverConfig{})
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Checker{config: config, logger: config.Logger}
}

func (c *Checker) lookup(ctx context.Context, check CheckType, name string) dns.Outcome {
	start := time.Now()
	o := dns.Resolve(ctx, c.config.Resolver, name)

	attrs := []any{
		slog.String("check", string(check)),
		slog.String("name", name),
		slog.String("outcome", o.Kind.String()),
		slog.Int("records", len(o.Records)),
		slog.Bool("authentic", o.Authentic),
		slog.Duration("duration", time.Since(start)),
	}
	if o.Kind == dns.OutcomeTransientError {
		c.logger.Warn("TXT lookup failed", append(attrs, slog.Any("error", o.Err))...)
	} else {
		c.logger.Debug("TXT lookup", attrs...)
	}
	return o
}

// CheckSPF looks up and classifies the SPF record of domain. The error is
// non-nil only when domain is not a valid name.
func (c *Checker) CheckSPF(ctx context.Context, domain string) (*CheckResult, error) {
	d, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	return c.checkSPF(ctx, d), nil
}

// CheckDMARC looks up and classifies the DMARC record of domain.
func (c *Checker) CheckDMARC(ctx context.Context, domain string) (*CheckResult, error) {
	d, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	return c.checkDMARC(ctx, d), nil
}

// CheckDKIM looks up and classifies the DKIM key record of domain under
// selector. An empty selector means dkim.DefaultSelector.
func (c *Checker) CheckDKIM(ctx context.Context, domain, selector string) (*CheckResult, error) {
	d, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	return c.checkDKIM(ctx, d, selector), nil
}

func (c *Checker) checkSPF(ctx context.Context, domain string) *CheckResult {
	return classifySPF(c.config.Catalogs.SPF, domain, c.lookup(ctx, CheckSPF, domain))
}

func (c *Checker) checkDMARC(ctx context.Context, domain string) *CheckResult {
	res := classifyDMARC(c.config.Catalogs.DMARC, domain, c.lookup(ctx, CheckDMARC, DMARCName(domain)))
	if !c.config.DMARCOrgFallback || res.OK() {
		return res
	}
	if code := res.Err.Code; code != CodeNoDMARC && code != CodeNXDomain {
		return res
	}

	org, ok := dmarc.FallbackDomain(domain)
	if !ok {
		return res
	}

	c.logger.Debug("falling back to organizational domain",
		slog.String("domain", domain),
		slog.String("org_domain", org),
	)
	fallback := classifyDMARC(c.config.Catalogs.DMARC, org, c.lookup(ctx, CheckDMARC, DMARCName(org)))
	if !fallback.OK() {
		return res
	}
	fallback.Domain = domain
	return fallback
}

func (c *Checker) checkDKIM(ctx context.Context, domain, selector string) *CheckResult {
	if selector == "" {
		selector = dkim.DefaultSelector
	}
	return classifyDKIM(c.config.Catalogs.DKIM, domain, selector, c.lookup(ctx, CheckDKIM, dkim.QueryName(selector, domain)))
}

// Run performs the selected checks on domain concurrently and collects them
// in a Report. Unselected checks are nil in the Report.
//
// Run returns an error only when no check is selected or domain is not a
// valid name; lookup failures are reported in each CheckResult.
func (c *Checker) Run(ctx context.Context, domain string, checks Checks) (*Report, error) {
	if !checks.Any() {
		return nil, ErrNoChecks
	}
	d, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:        ulid.Make(),
		Domain:    d,
		CheckedAt: time.Now().UTC(),
	}
	c.logger.Debug("checking domain",
		slog.String("report_id", report.ID.String()),
		slog.String("domain", d),
	)

	// Each goroutine writes a distinct field of report.
	var g errgroup.Group
	if checks.SPF {
		g.Go(func() error {
			report.SPF = c.checkSPF(ctx, d)
			return nil
		})
	}
	if checks.DMARC {
		g.Go(func() error {
			report.DMARC = c.checkDMARC(ctx, d)
			return nil
		})
	}
	if checks.DKIM {
		g.Go(func() error {
			report.DKIM = c.checkDKIM(ctx, d, checks.Selector)
			return nil
		})
	}
	_ = g.Wait()

	return report, nil
}
