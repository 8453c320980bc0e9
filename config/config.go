// Package config reads the player and scoreboard server settings from the environment, an
// optional .env file and command line flags, in that order of precedence from lowest to
// highest.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Scores selects where the high score table is kept.
type Scores struct {
	Backend string `env:"TETRIS_SCORES_BACKEND" envDefault:"file"`
	File    string `env:"TETRIS_SCORES_FILE" envDefault:"scores.txt"`
	DBPath  string `env:"TETRIS_SCORES_DB" envDefault:"scores.db"`
}

// Player holds the terminal client configuration. A zero FrameInterval keeps the game's
// default pace.
type Player struct {
	Scores Scores
	// Address of a remote scoreboard. Empty keeps the scores locally.
	Address string `env:"TETRIS_SCOREBOARD_ADDR"`
	// Seed for the tetromino draws. 0 picks a random seed.
	Seed          uint64        `env:"TETRIS_SEED"`
	FrameInterval time.Duration `env:"TETRIS_FRAME_INTERVAL"`
	NoColor       Presence      `env:"NO_COLOR"`
	LogFile       string        `env:"TETRIS_LOG_FILE" envDefault:"tetris.log"`
	Debug         bool          `env:"TETRIS_DEBUG"`
}

// Presence is true whenever its variable holds a non-empty value, whatever the value is.
type Presence bool

func (p *Presence) UnmarshalText(b []byte) error {
	*p = len(b) > 0
	return nil
}

// Server holds the scoreboard server configuration.
type Server struct {
	Scores Scores
	Addr   string `env:"TETRIS_SERVER_ADDR" envDefault:":9000"`
	Debug  bool   `env:"TETRIS_DEBUG"`
}

// LoadDotEnv loads the variables in the given files, or .env when none is given, without
// overriding the ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParsePlayer parses environment and flags into a Player.
func ParsePlayer(fs *flag.FlagSet, args []string) (Player, error) {
	var cfg Player
	if err := ParseEnv(&cfg); err != nil {
		return Player{}, err
	}
	scoresFlags(fs, &cfg.Scores)
	fs.StringVar(&cfg.Address, "addr", cfg.Address, "Remote scoreboard address, scores are kept locally when empty")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for the tetromino draws, 0 for a random one")
	fs.DurationVar(&cfg.FrameInterval, "frame", cfg.FrameInterval, "Time between two frames, 0 for the default")
	fs.BoolVar((*bool)(&cfg.NoColor), "no-color", bool(cfg.NoColor), "Draw the stack without colors")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Log file")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Log at debug level")
	if err := parseArgs(fs, args); err != nil {
		return Player{}, err
	}
	if err := cfg.Scores.validate(); err != nil {
		return Player{}, err
	}
	if cfg.FrameInterval < 0 {
		return Player{}, fmt.Errorf("frame interval can't be negative, got %s", cfg.FrameInterval)
	}
	return cfg, nil
}

// ParseServer parses environment and flags into a Server.
func ParseServer(fs *flag.FlagSet, args []string) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	scoresFlags(fs, &cfg.Scores)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The scoreboard gRPC listen address")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Log at debug level")
	if err := parseArgs(fs, args); err != nil {
		return Server{}, err
	}
	if err := cfg.Scores.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func scoresFlags(fs *flag.FlagSet, s *Scores) {
	fs.StringVar(&s.Backend, "scores-backend", s.Backend, "High score storage: file or sqlite")
	fs.StringVar(&s.File, "scores-file", s.File, "High score text file")
	fs.StringVar(&s.DBPath, "scores-db", s.DBPath, "High score SQLite database")
}

func parseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

func (s Scores) validate() error {
	switch s.Backend {
	case BackendFile:
		if s.File == "" {
			return errors.New("scores file is required")
		}
	case BackendSQLite:
		if s.DBPath == "" {
			return errors.New("scores database path is required")
		}
	default:
		return fmt.Errorf("unknown scores backend %q", s.Backend)
	}
	return nil
}
