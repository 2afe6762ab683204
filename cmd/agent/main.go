package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	collector "github.com/vshulcz/Carbonaut/internal/adapters/collector/runtime"
	"github.com/vshulcz/Carbonaut/internal/adapters/publisher/carbon"
	"github.com/vshulcz/Carbonaut/internal/config"
	"github.com/vshulcz/Carbonaut/internal/graphite"
	agentsvc "github.com/vshulcz/Carbonaut/internal/services/agent"
)

func main() {
	cfg, err := config.LoadAgentConfig(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := graphite.Dial(ctx, cfg.Address(), graphite.WithProtocol(cfg.Protocol))
	if err != nil {
		logger.Warn("carbon not reachable yet, will reconnect on first send", zap.Error(err))
		if session, err = graphite.New(cfg.Address(), graphite.WithProtocol(cfg.Protocol)); err != nil {
			logger.Fatal("failed to init session", zap.Error(err))
		}
	}
	defer session.Close()

	prefix, err := graphite.SanitizePath(strings.TrimSpace(cfg.Prefix))
	if err != nil {
		logger.Fatal("invalid metric prefix", zap.Error(err))
	}

	pub := carbon.New(session, prefix)
	runner := agentsvc.New(cfg, collector.New(), pub, logger)

	logger.Info("agent started",
		zap.String("server", session.Addr()),
		zap.String("protocol", string(cfg.Protocol)),
		zap.String("prefix", prefix),
		zap.Duration("poll", cfg.PollInterval),
		zap.Duration("report", cfg.ReportInterval),
		zap.Int("limit", cfg.RateLimit),
	)
	if err := runner.Run(ctx); err != nil {
		logger.Fatal("agent stopped", zap.Error(err))
	}
}
