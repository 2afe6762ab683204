package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vshulcz/Carbonaut/internal/misc"
)

const (
	defaultLineAddr   = "localhost:2003"
	defaultPickleAddr = "localhost:2004"
	defaultHTTPAddr   = "localhost:8080"
)

// SinkConfig configures the local development sink: two TCP listeners (one
// per wire protocol) and an HTTP address for the inspection API.
type SinkConfig struct {
	LineAddr   string
	PickleAddr string
	HTTPAddr   string
}

// LoadSinkConfig resolves the sink configuration. ENV > CLI > defaults.
func LoadSinkConfig(args []string, out io.Writer) (SinkConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("carbonsink", flag.ContinueOnError)
	fs.SetOutput(out)

	var lineOpt, pickleOpt, httpOpt string
	fs.StringVar(&lineOpt, "line", "", fmt.Sprintf("plaintext listener address, default: %s", defaultLineAddr))
	fs.StringVar(&pickleOpt, "pickle", "", fmt.Sprintf("pickle listener address, default: %s", defaultPickleAddr))
	fs.StringVar(&httpOpt, "http", "", fmt.Sprintf("inspection API address, default: %s", defaultHTTPAddr))

	if err := fs.Parse(args); err != nil {
		return SinkConfig{}, err
	}

	cfg := SinkConfig{
		LineAddr:   pick("LINE_ADDR", lineOpt, defaultLineAddr),
		PickleAddr: pick("PICKLE_ADDR", pickleOpt, defaultPickleAddr),
		HTTPAddr:   pick("HTTP_ADDR", httpOpt, defaultHTTPAddr),
	}
	if cfg.LineAddr == cfg.PickleAddr {
		return SinkConfig{}, fmt.Errorf("listener addresses collide: %s", cfg.LineAddr)
	}
	return cfg, nil
}

func pick(envKey, flagVal, def string) string {
	if v := strings.TrimSpace(misc.Getenv(envKey, "")); v != "" {
		return v
	}
	if v := strings.TrimSpace(flagVal); v != "" {
		return v
	}
	return def
}
