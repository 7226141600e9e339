package normalize

import "testing"

func TestIsValidIP(t *testing.T) {
	tests := []struct {
		addr  string
		valid bool
	}{
		{"208.67.222.222", true},
		{"9.9.9.9", true},
		{"2620:fe::fe", true},
		{"::1", true},
		{"256.1.1.1", false},
		{"9.9.9", false},
		{"dns.quad9.net", false},
		{"", false},
		{"9.9.9.9:53", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := IsValidIP(tt.addr); got != tt.valid {
				t.Errorf("IsValidIP(%q) = %v, want %v", tt.addr, got, tt.valid)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"208.67.222.222", "udp://208.67.222.222:53", false},
		{"2620:fe::fe", "udp://[2620:fe::fe]:53", false},
		{"udp://9.9.9.9:53", "udp://9.9.9.9:53", false},
		{"tcp://9.9.9.9", "tcp://9.9.9.9:53", false},
		{"tls://dns.quad9.net", "tls://dns.quad9.net:853", false},
		{"https://dns.quad9.net/dns-query", "https://dns.quad9.net:443/dns-query", false},
		{"quic://dns.adguard-dns.com", "quic://dns.adguard-dns.com:853", false},
		{"not-an-ip", "", true},
		{"", "", true},
		{"udp://dns.quad9.net:53", "", true},
		{"ftp://9.9.9.9", "", true},
		{"udp://9.9.9.9:99999", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Target(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Target(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Target(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestProtocol(t *testing.T) {
	tests := []struct {
		target   string
		expected string
	}{
		{"udp://9.9.9.9:53", "Do53"},
		{"tcp://94.140.14.14:53", "Do53"},
		{"tls://dns.quad9.net:853", "DoT"},
		{"https://dns.quad9.net:443/dns-query", "DoH"},
		{"quic://dns.adguard-dns.com:853", "DoQ"},
		{"invalid", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := Protocol(tt.target); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestQType(t *testing.T) {
	tests := []struct {
		token   string
		want    string
		wantErr bool
	}{
		{"A", "A", false},
		{"a", "A", false},
		{"mx", "MX", false},
		{" CNAME ", "CNAME", false},
		{"AAAA", "AAAA", false},
		{"TXT", "TXT", false},
		{"ANY", "", true},
		{"AXFR", "", true},
		{"IXFR", "", true},
		{"BOGUS", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := QType(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("QType(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("QType(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"example.org", "example.org", false},
		{"example.org.", "example.org", false},
		{"sub.example.org", "sub.example.org", false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Domain(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Domain(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Domain(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
