package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vshulcz/Carbonaut/internal/config"
	"github.com/vshulcz/Carbonaut/internal/sink"
)

func main() {
	cfg, err := config.LoadSinkConfig(os.Args[1:], nil)
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

	st := sink.NewStore()

	lineLn, err := net.Listen("tcp", cfg.LineAddr)
	if err != nil {
		logger.Fatal("plaintext listener failed", zap.Error(err))
	}
	pickleLn, err := net.Listen("tcp", cfg.PickleAddr)
	if err != nil {
		logger.Fatal("pickle listener failed", zap.Error(err))
	}

	go sink.ServeLine(lineLn, st, logger.Named("line"))
	go sink.ServePickle(pickleLn, st, logger.Named("pickle"))
	go func() {
		<-ctx.Done()
		lineLn.Close()
		pickleLn.Close()
	}()

	h := sink.NewHandler(st)
	r := sink.NewRouter(h, sink.ZapLogger(logger))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("carbonsink started",
		zap.String("line", cfg.LineAddr),
		zap.String("pickle", cfg.PickleAddr),
		zap.String("http", cfg.HTTPAddr),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
