package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// Default resolver settings.
const (
	DefaultTimeout = 5 * time.Second
	DefaultRetries = 2
)

var fallbackNameservers = []string{"8.8.8.8:53", "1.1.1.1:53"}

// ResolverConfig configures a DNSResolver.
type ResolverConfig struct {
	// Nameservers lists the servers to query, as "host" or "host:port".
	// When empty, the servers in /etc/resolv.conf are used, falling back to
	// public resolvers.
	Nameservers []string

	// DNSSEC sets the DO bit on queries. Authentic in the result then reports
	// whether the upstream resolver validated the answer.
	DNSSEC bool

	// Timeout bounds each query. Default is DefaultTimeout.
	Timeout time.Duration

	// Retries is the number of extra passes over Nameservers after the
	// first. Default is DefaultRetries; a negative value disables retries.
	Retries int
}

// DNSResolver implements Resolver with github.com/miekg/dns.
type DNSResolver struct {
	config ResolverConfig
	client *mdns.Client
}

// NewResolver creates a DNSResolver, filling unset fields of config with
// defaults.
func NewResolver(config ResolverConfig) *DNSResolver {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	switch {
	case config.Retries == 0:
		config.Retries = DefaultRetries
	case config.Retries < 0:
		config.Retries = 0
	}

	servers := make([]string, 0, len(config.Nameservers))
	for _, s := range config.Nameservers {
		if s = NormalizeNameserver(s); s != "" {
			servers = append(servers, s)
		}
	}
	if len(servers) == 0 {
		servers = systemNameservers()
	}
	config.Nameservers = servers

	return &DNSResolver{
		config: config,
		client: &mdns.Client{Timeout: config.Timeout},
	}
}

// NormalizeNameserver returns server as "host:port", adding port 53 when
// none is given. Bare and bracketed IPv6 addresses are accepted.
func NormalizeNameserver(server string) string {
	server = strings.TrimSpace(server)
	if server == "" {
		return ""
	}
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), "53")
}

func systemNameservers() []string {
	cc, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cc.Servers) == 0 {
		return fallbackNameservers
	}

	port := cc.Port
	if port == "" {
		port = "53"
	}
	servers := make([]string, 0, len(cc.Servers))
	for _, s := range cc.Servers {
		servers = append(servers, net.JoinHostPort(s, port))
	}
	return servers
}

// query sends one question to each nameserver in turn until one gives a
// definitive answer. NXDOMAIN is definitive; SERVFAIL and REFUSED move on to
// the next server.
func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) (*mdns.Msg, bool, error) {
	m := new(mdns.Msg)
	m.SetQuestion(mdns.Fqdn(name), qtype)
	m.RecursionDesired = true
	if r.config.DNSSEC {
		m.SetEdns0(4096, true)
	}

	var lastErr error
	for range r.config.Retries + 1 {
		for _, server := range r.config.Nameservers {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}

			resp, _, err := r.client.ExchangeContext(ctx, m, server)
			if err != nil {
				var ne net.Error
				if errors.As(err, &ne) && ne.Timeout() {
					lastErr = fmt.Errorf("%w: %s", ErrDNSTimeout, server)
				} else {
					lastErr = fmt.Errorf("dns: query to %s failed: %w", server, err)
				}
				continue
			}

			authentic := r.config.DNSSEC && resp.AuthenticatedData
			switch resp.Rcode {
			case mdns.RcodeSuccess:
				return resp, authentic, nil
			case mdns.RcodeNameError:
				return nil, authentic, ErrDNSNotFound
			case mdns.RcodeServerFailure:
				// With DO set, SERVFAIL is how validating resolvers report bogus data.
				if r.config.DNSSEC {
					lastErr = ErrDNSBogus
				} else {
					lastErr = ErrDNSServFail
				}
			case mdns.RcodeRefused:
				lastErr = ErrDNSRefused
			default:
				lastErr = fmt.Errorf("%w: rcode %s", ErrDNSServFail, mdns.RcodeToString[resp.Rcode])
			}
		}
	}

	if lastErr == nil {
		lastErr = ErrDNSServFail
	}
	return nil, false, lastErr
}

// LookupTXT retrieves the TXT records at name. A NOERROR answer without TXT
// records yields ErrDNSNoRecords; NXDOMAIN yields ErrDNSNotFound.
func (r *DNSResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	resp, authentic, err := r.query(ctx, name, mdns.TypeTXT)
	if err != nil {
		return Result[string]{Authentic: authentic}, err
	}

	var records []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			// Character strings of one record are concatenated (RFC 7208 3.3).
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}
	if len(records) == 0 {
		return Result[string]{Authentic: authentic}, ErrDNSNoRecords
	}

	return Result[string]{Records: records, Authentic: authentic}, nil
}

// Config returns the resolver's effective configuration.
func (r *DNSResolver) Config() ResolverConfig {
	return r.config
}
