package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"tetrimino/config"
	"tetrimino/server"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, closeStore, err := config.OpenStore(cfg.Scores, logger)
	if err != nil {
		log.Fatalf("failed to open scores: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("unable to close scores", slog.String("error", err.Error()))
		}
	}()

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	defer lis.Close()
	s := grpc.NewServer()
	server.Register(s, server.New(store, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		s.GracefulStop()
	}()

	logger.Info("starting scoreboard", slog.String("addr", lis.Addr().String()), slog.String("backend", cfg.Scores.Backend))
	if err := s.Serve(lis); err != nil {
		logger.Error("failed to serve", slog.String("error", err.Error()))
	}
}
