// Package config resolves agent and sink settings from the environment,
// CLI flags, and defaults, in that order of precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/vshulcz/Carbonaut/internal/domain"
	"github.com/vshulcz/Carbonaut/internal/misc"
)

const (
	defaultServerHost     = "localhost"
	defaultProtocol       = domain.Pickle
	defaultPrefix         = "carbonaut"
	defaultReportInterval = 10
	defaultPollInterval   = 2
	defaultRateLimit      = 1
)

// AgentConfig holds everything the agent needs to collect and ship metrics.
type AgentConfig struct {
	Host           string
	Port           int
	Protocol       domain.Protocol
	Prefix         string
	PollInterval   time.Duration
	ReportInterval time.Duration
	RateLimit      int
}

// Address is the host:port the agent dials.
func (c AgentConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LoadAgentConfig resolves the agent configuration. ENV > CLI > defaults.
func LoadAgentConfig(args []string, out io.Writer) (AgentConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fs.SetOutput(out)

	var addrOpt string
	var protoOpt string
	var prefixOpt string
	var reportOpt int
	var pollOpt int
	var limitOpt int

	fs.StringVar(&addrOpt, "a", "", fmt.Sprintf("carbon server address (host or host:port), default: %s", defaultServerHost))
	fs.StringVar(&protoOpt, "e", "", fmt.Sprintf("wire protocol (%s or %s), default: %s", domain.Plaintext, domain.Pickle, defaultProtocol))
	fs.StringVar(&prefixOpt, "n", "", fmt.Sprintf("metric namespace prefix, default: %s", defaultPrefix))
	fs.IntVar(&reportOpt, "r", 0, fmt.Sprintf("report interval in seconds, default: %d", defaultReportInterval))
	fs.IntVar(&pollOpt, "p", 0, fmt.Sprintf("poll interval in seconds, default: %d", defaultPollInterval))
	fs.IntVar(&limitOpt, "l", 0, fmt.Sprintf("max concurrent publishes, default: %d", defaultRateLimit))

	if err := fs.Parse(args); err != nil {
		return AgentConfig{}, err
	}

	proto := domain.Protocol(strings.ToLower(strings.TrimSpace(misc.Getenv("PROTOCOL", protoOpt))))
	if proto == "" {
		proto = defaultProtocol
	}
	switch proto {
	case domain.Plaintext, domain.Pickle:
	default:
		return AgentConfig{}, fmt.Errorf("%w: %q", domain.ErrInvalidProtocol, proto)
	}

	addr := strings.TrimSpace(misc.Getenv("ADDRESS", addrOpt))
	if addr == "" {
		addr = defaultServerHost
	}
	host, port, err := splitAddress(addr)
	if err != nil {
		return AgentConfig{}, err
	}
	if p := misc.GetInt("PORT", 0); p > 0 {
		port = p
	}
	if port == 0 {
		port = defaultPort(proto)
	}
	if port <= 0 || port > 65535 {
		return AgentConfig{}, fmt.Errorf("invalid port: %d", port)
	}

	prefix := strings.TrimSpace(misc.Getenv("PREFIX", prefixOpt))
	if prefix == "" {
		prefix = defaultPrefix
	}

	report := interval("REPORT_INTERVAL", reportOpt, defaultReportInterval)
	if report <= 0 {
		return AgentConfig{}, fmt.Errorf("report interval must be > 0, got %v", report)
	}
	poll := interval("POLL_INTERVAL", pollOpt, defaultPollInterval)
	if poll <= 0 {
		return AgentConfig{}, fmt.Errorf("poll interval must be > 0, got %v", poll)
	}

	limit := misc.GetInt("RATE_LIMIT", 0)
	if limit <= 0 {
		limit = limitOpt
	}
	if limit <= 0 {
		limit = defaultRateLimit
	}

	return AgentConfig{
		Host:           host,
		Port:           port,
		Protocol:       proto,
		Prefix:         prefix,
		PollInterval:   poll,
		ReportInterval: report,
		RateLimit:      limit,
	}, nil
}

func splitAddress(addr string) (string, int, error) {
	if !strings.Contains(addr, ":") {
		return addr, 0, nil
	}
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		// Bare IPv6 literal without a port.
		if strings.Count(addr, ":") > 1 {
			return addr, 0, nil
		}
		return "", 0, fmt.Errorf("invalid server address %q", addr)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 {
		return "", 0, fmt.Errorf("invalid port in address %q", addr)
	}
	return host, port, nil
}

func defaultPort(p domain.Protocol) int {
	if p == domain.Plaintext {
		return domain.DefaultPlaintextPort
	}
	return domain.DefaultPicklePort
}

func interval(envKey string, flagSeconds, defSeconds int) time.Duration {
	if strings.TrimSpace(misc.Getenv(envKey, "")) != "" {
		return misc.GetDuration(envKey, time.Duration(defSeconds)*time.Second)
	}
	if flagSeconds > 0 {
		return time.Duration(flagSeconds) * time.Second
	}
	return time.Duration(defSeconds) * time.Second
}
