package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tetrimino/client"
	"tetrimino/config"
	"tetrimino/highscore"
	"tetrimino/server"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.ParsePlayer(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	// the terminal is taken by the game so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer logFile.Close()
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level}))

	recorder, closeRecorder, err := newRecorder(cfg, logger)
	if err != nil {
		log.Fatalf("unable to set up highscores: %v", err)
	}
	defer func() {
		if err := closeRecorder(); err != nil {
			logger.Error("unable to close highscores", slog.String("error", err.Error()))
		}
	}()

	c, err := client.New(logger, &client.Options{
		Recorder:      recorder,
		Seed:          cfg.Seed,
		FrameInterval: cfg.FrameInterval,
		NoColor:       bool(cfg.NoColor),
	})
	if err != nil {
		log.Fatalf("unable to start client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	summary, err := c.Run(ctx)
	if err := summary.Print(os.Stdout); err != nil {
		logger.Error("unable to print summary", slog.String("error", err.Error()))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "highscores not saved: %v\n", err)
	}
}

// newRecorder records into the remote scoreboard when an address is configured and into the
// local store otherwise.
func newRecorder(cfg config.Player, l *slog.Logger) (highscore.Recorder, func() error, error) {
	if cfg.Address != "" {
		c, err := server.Dial(cfg.Address)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
	store, closeStore, err := config.OpenStore(cfg.Scores, l)
	if err != nil {
		return nil, nil, err
	}
	return highscore.LocalRecorder{Store: store}, closeStore, nil
}
