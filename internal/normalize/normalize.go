// Package normalize validates and canonicalizes nameserver targets, domains
// and DNS query types. It is the single source of truth for protocol scheme
// and default port mapping.
package normalize

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

const (
	// SchemeUDP is plain DNS over UDP (Do53)
	SchemeUDP = "udp"
	// SchemeTCP is plain DNS over TCP (Do53)
	SchemeTCP = "tcp"
	// SchemeTLS is DNS-over-TLS (DoT)
	SchemeTLS = "tls"
	// SchemeHTTPS is DNS-over-HTTPS (DoH)
	SchemeHTTPS = "https"
	// SchemeQUIC is DNS-over-QUIC (DoQ)
	SchemeQUIC = "quic"
)

// ProtocolConfig describes one supported upstream scheme.
type ProtocolConfig struct {
	Scheme      string
	DisplayName string
	DefaultPort int
	// UsesHostname allows hostname targets (certificate validation needs the
	// name for the encrypted protocols). Do53 requires a literal IP.
	UsesHostname bool
}

// ProtocolConfigs maps URL schemes to protocol settings. AdGuard dnsproxy
// accepts all of these target forms.
var ProtocolConfigs = map[string]ProtocolConfig{
	SchemeUDP:   {Scheme: SchemeUDP, DisplayName: "Do53", DefaultPort: 53},
	SchemeTCP:   {Scheme: SchemeTCP, DisplayName: "Do53", DefaultPort: 53},
	SchemeTLS:   {Scheme: SchemeTLS, DisplayName: "DoT", DefaultPort: 853, UsesHostname: true},
	SchemeHTTPS: {Scheme: SchemeHTTPS, DisplayName: "DoH", DefaultPort: 443, UsesHostname: true},
	SchemeQUIC:  {Scheme: SchemeQUIC, DisplayName: "DoQ", DefaultPort: 853, UsesHostname: true},
}

// metaQTypes are query types that address the protocol itself rather than a
// record set. They cannot be compared between nameservers and are rejected
// as configuration errors.
var metaQTypes = map[uint16]bool{
	dns.TypeANY:  true,
	dns.TypeAXFR: true,
	dns.TypeIXFR: true,
	dns.TypeOPT:  true,
	dns.TypeTKEY: true,
	dns.TypeTSIG: true,
	dns.TypeNone: true,
}

// IsValidIP reports whether s is a valid IPv4 or IPv6 textual address.
func IsValidIP(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

// Target canonicalizes a nameserver target to scheme://host:port form.
// A bare token must be a literal IP address and maps to udp://ip:53.
func Target(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty nameserver target")
	}

	if !strings.Contains(raw, "://") {
		if !IsValidIP(raw) {
			return "", fmt.Errorf("not a valid IP address: %q", raw)
		}
		return fmt.Sprintf("%s://%s", SchemeUDP, net.JoinHostPort(raw, "53")), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("malformed target %q: %w", raw, err)
	}

	cfg, ok := ProtocolConfigs[u.Scheme]
	if !ok {
		return "", fmt.Errorf("unsupported scheme %q in target %q", u.Scheme, raw)
	}

	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("missing host in target %q", raw)
	}
	if !cfg.UsesHostname && !IsValidIP(host) {
		return "", fmt.Errorf("%s targets require a literal IP address, got %q", cfg.DisplayName, host)
	}

	port := u.Port()
	if port == "" {
		port = strconv.Itoa(cfg.DefaultPort)
	} else if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
		return "", fmt.Errorf("invalid port %q in target %q", port, raw)
	}

	// DoH keeps its query path; other protocols are host:port only.
	if u.Scheme == SchemeHTTPS {
		path := u.Path
		if path == "" {
			path = "/dns-query"
		}
		return fmt.Sprintf("%s://%s%s", u.Scheme, net.JoinHostPort(host, port), path), nil
	}
	return fmt.Sprintf("%s://%s", u.Scheme, net.JoinHostPort(host, port)), nil
}

// Protocol returns the display name for a normalized target's scheme.
func Protocol(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return "Unknown"
	}
	if cfg, ok := ProtocolConfigs[u.Scheme]; ok {
		return cfg.DisplayName
	}
	return "Unknown"
}

// QType validates and upper-cases a DNS record type token. Meta query types
// (ANY, AXFR, ...) are rejected: their answers are resolver-dependent and
// cannot be meaningfully compared.
func QType(token string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(token))
	code, ok := dns.StringToType[upper]
	if !ok {
		return "", fmt.Errorf("unknown DNS record type %q", token)
	}
	if metaQTypes[code] {
		return "", fmt.Errorf("meta query type %s is not supported", upper)
	}
	return upper, nil
}

// Domain validates a domain name and strips a trailing dot.
func Domain(raw string) (string, error) {
	d := strings.TrimSuffix(strings.TrimSpace(raw), ".")
	if d == "" {
		return "", fmt.Errorf("empty domain")
	}
	if _, ok := dns.IsDomainName(d); !ok {
		return "", fmt.Errorf("invalid domain name %q", raw)
	}
	return d, nil
}
