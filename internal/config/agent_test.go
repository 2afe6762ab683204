package config

import (
	"errors"
	"testing"
	"time"

	"github.com/vshulcz/Carbonaut/internal/domain"
)

func TestLoadAgentConfig_Defaults(t *testing.T) {
	cfg, err := LoadAgentConfig(nil, nil)
	if err != nil {
		t.Fatalf("LoadAgentConfig: %v", err)
	}
	if cfg.Host != "localhost" {
		t.Fatalf("Host=%q want localhost", cfg.Host)
	}
	if cfg.Port != domain.DefaultPicklePort {
		t.Fatalf("Port=%d want %d", cfg.Port, domain.DefaultPicklePort)
	}
	if cfg.Protocol != domain.Pickle {
		t.Fatalf("Protocol=%q want pickle", cfg.Protocol)
	}
	if cfg.Address() != "localhost:2004" {
		t.Fatalf("Address=%q want localhost:2004", cfg.Address())
	}
	if cfg.ReportInterval != 10*time.Second || cfg.PollInterval != 2*time.Second {
		t.Fatalf("intervals=%v/%v want 10s/2s", cfg.ReportInterval, cfg.PollInterval)
	}
	if cfg.RateLimit != 1 {
		t.Fatalf("RateLimit=%d want 1", cfg.RateLimit)
	}
}

func TestLoadAgentConfig_PlaintextDefaultPort(t *testing.T) {
	cfg, err := LoadAgentConfig([]string{"-e", "plaintext"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != domain.DefaultPlaintextPort {
		t.Fatalf("Port=%d want %d", cfg.Port, domain.DefaultPlaintextPort)
	}
}

func TestLoadAgentConfig_Flags(t *testing.T) {
	args := []string{"-a", "carbon.prod:3003", "-e", "plaintext", "-n", "svc", "-r", "30", "-p", "5", "-l", "4"}
	cfg, err := LoadAgentConfig(args, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "carbon.prod" || cfg.Port != 3003 {
		t.Fatalf("addr=%s:%d want carbon.prod:3003", cfg.Host, cfg.Port)
	}
	if cfg.Protocol != domain.Plaintext {
		t.Fatalf("Protocol=%q want plaintext", cfg.Protocol)
	}
	if cfg.Prefix != "svc" {
		t.Fatalf("Prefix=%q want svc", cfg.Prefix)
	}
	if cfg.ReportInterval != 30*time.Second || cfg.PollInterval != 5*time.Second {
		t.Fatalf("intervals=%v/%v", cfg.ReportInterval, cfg.PollInterval)
	}
	if cfg.RateLimit != 4 {
		t.Fatalf("RateLimit=%d want 4", cfg.RateLimit)
	}
}

func TestLoadAgentConfig_EnvOverridesFlags(t *testing.T) {
	t.Setenv("ADDRESS", "carbon.env")
	t.Setenv("PORT", "4004")
	t.Setenv("PROTOCOL", "plaintext")
	t.Setenv("PREFIX", "envpfx")
	t.Setenv("REPORT_INTERVAL", "25")
	t.Setenv("POLL_INTERVAL", "3s")
	t.Setenv("RATE_LIMIT", "7")

	cfg, err := LoadAgentConfig([]string{"-a", "flagged:1111", "-e", "pickle", "-n", "flagpfx", "-r", "99", "-p", "99", "-l", "2"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "carbon.env" || cfg.Port != 4004 {
		t.Fatalf("addr=%s:%d want carbon.env:4004", cfg.Host, cfg.Port)
	}
	if cfg.Protocol != domain.Plaintext {
		t.Fatalf("Protocol=%q want plaintext", cfg.Protocol)
	}
	if cfg.Prefix != "envpfx" {
		t.Fatalf("Prefix=%q want envpfx", cfg.Prefix)
	}
	if cfg.ReportInterval != 25*time.Second {
		t.Fatalf("ReportInterval=%v want 25s", cfg.ReportInterval)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval=%v want 3s", cfg.PollInterval)
	}
	if cfg.RateLimit != 7 {
		t.Fatalf("RateLimit=%d want 7", cfg.RateLimit)
	}
}

func TestLoadAgentConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad_protocol", []string{"-e", "msgpack"}, nil},
		{"bad_port", nil, map[string]string{"ADDRESS": "host:notaport"}},
		{"zero_report", nil, map[string]string{"REPORT_INTERVAL": "0"}},
		{"zero_poll", nil, map[string]string{"POLL_INTERVAL": "-1s"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadAgentConfig(tc.args, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadAgentConfig_BadProtocolError(t *testing.T) {
	_, err := LoadAgentConfig([]string{"-e", "msgpack"}, nil)
	if !errors.Is(err, domain.ErrInvalidProtocol) {
		t.Fatalf("err=%v, want ErrInvalidProtocol", err)
	}
}

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		in       string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"carbon.local", "carbon.local", 0, false},
		{"carbon.local:2003", "carbon.local", 2003, false},
		{"::1", "::1", 0, false},
		{"carbon.local:x", "", 0, true},
	}
	for _, tc := range tests {
		host, port, err := splitAddress(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("splitAddress(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("splitAddress(%q): %v", tc.in, err)
		}
		if host != tc.wantHost || port != tc.wantPort {
			t.Fatalf("splitAddress(%q)=%q,%d want %q,%d", tc.in, host, port, tc.wantHost, tc.wantPort)
		}
	}
}
