package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.GetPrimary(); got != DefaultPrimary {
		t.Errorf("GetPrimary() = %q, want %q", got, DefaultPrimary)
	}
	if got := cfg.GetSecondary(); got != "" {
		t.Errorf("GetSecondary() = %q, want empty", got)
	}
	if got := cfg.GetDNSTimeout(); got != DefaultDNSTimeout {
		t.Errorf("GetDNSTimeout() = %d, want %d", got, DefaultDNSTimeout)
	}
	if got := cfg.GetServerPort(); got != "5000" {
		t.Errorf("GetServerPort() = %q, want 5000", got)
	}
	if got := cfg.GetMaxWorkers(); got != 4 {
		t.Errorf("GetMaxWorkers() = %d, want 4", got)
	}
}

func TestLoadValidConfig(t *testing.T) {
	content := `
resolvers:
  primary: udp://9.9.9.9:53
  secondary: tls://dns.quad9.net
dns:
  timeout: 5
report:
  quiet: true
server:
  port: "8080"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.GetPrimary(); got != "udp://9.9.9.9:53" {
		t.Errorf("GetPrimary() = %q", got)
	}
	if got := cfg.GetSecondary(); got != "tls://dns.quad9.net" {
		t.Errorf("GetSecondary() = %q", got)
	}
	if got := cfg.GetDNSTimeout(); got != 5 {
		t.Errorf("GetDNSTimeout() = %d, want 5", got)
	}
	if !cfg.Report.Quiet {
		t.Error("Report.Quiet = false, want true")
	}
	if got := cfg.GetServerPort(); got != "8080" {
		t.Errorf("GetServerPort() = %q, want 8080", got)
	}
}

func TestLoadRejectsInvalidResolver(t *testing.T) {
	content := `
resolvers:
  primary: not-an-ip
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid primary resolver")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("resolvers: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestApplyIntOverride(t *testing.T) {
	tests := []struct {
		name        string
		flagChanged bool
		flagValue   int
		initial     int
		defaultVal  int
		want        int
	}{
		{"flag wins", true, 7, 3, 5, 7},
		{"config kept", false, 0, 3, 5, 3},
		{"default fills zero", false, 0, 0, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.initial
			ApplyIntOverride(tt.flagChanged, tt.flagValue, &v, tt.defaultVal)
			if v != tt.want {
				t.Errorf("got %d, want %d", v, tt.want)
			}
		})
	}
}

func TestApplyStringOverride(t *testing.T) {
	v := ""
	ApplyStringOverride("", &v, "fallback")
	if v != "fallback" {
		t.Errorf("got %q, want fallback", v)
	}

	v = "from-config"
	ApplyStringOverride("from-flag", &v, "fallback")
	if v != "from-flag" {
		t.Errorf("got %q, want from-flag", v)
	}
}
