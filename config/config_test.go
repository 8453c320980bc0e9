package config

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetrimino/highscore"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

var envKeys = []string{
	"TETRIS_SCORES_BACKEND", "TETRIS_SCORES_FILE", "TETRIS_SCORES_DB", "TETRIS_SCOREBOARD_ADDR",
	"TETRIS_SEED", "TETRIS_FRAME_INTERVAL", "NO_COLOR", "TETRIS_LOG_FILE", "TETRIS_DEBUG",
	"TETRIS_SERVER_ADDR",
}

// clearEnv unsets every variable the package reads and restores them when t ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestParsePlayerDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := ParsePlayer(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, Player{
		Scores:  Scores{Backend: BackendFile, File: "scores.txt", DBPath: "scores.db"},
		LogFile: "tetris.log",
	}, cfg)
}

func TestParsePlayerEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TETRIS_SCORES_BACKEND", "sqlite")
	t.Setenv("TETRIS_SCORES_DB", "/tmp/top.db")
	t.Setenv("TETRIS_SCOREBOARD_ADDR", "localhost:9000")
	t.Setenv("TETRIS_SEED", "42")
	t.Setenv("TETRIS_FRAME_INTERVAL", "50ms")
	t.Setenv("NO_COLOR", "true")

	cfg, err := ParsePlayer(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Scores.Backend)
	assert.Equal(t, "/tmp/top.db", cfg.Scores.DBPath)
	assert.Equal(t, "localhost:9000", cfg.Address)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 50*time.Millisecond, cfg.FrameInterval)
	assert.True(t, bool(cfg.NoColor))
}

func TestParsePlayerNoColor(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "1", want: true},
		{value: "yes", want: true},
		{value: "x", want: true},
		{value: "false", want: true},
		{value: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("NO_COLOR", tt.value)
			cfg, err := ParsePlayer(newFlagSet(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bool(cfg.NoColor))
		})
	}

	clearEnv(t)
	cfg, err := ParsePlayer(newFlagSet(), []string{"-no-color"})
	require.NoError(t, err)
	assert.True(t, bool(cfg.NoColor))
}

func TestParsePlayerFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TETRIS_SEED", "42")
	t.Setenv("TETRIS_LOG_FILE", "env.log")

	cfg, err := ParsePlayer(newFlagSet(), []string{"-seed", "7", "-log", "flag.log", "-debug", "-scores-file", "top.txt"})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, "flag.log", cfg.LogFile)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "top.txt", cfg.Scores.File)
}

func TestParsePlayerErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "unknown backend", args: []string{"-scores-backend", "redis"}},
		{name: "empty scores file", args: []string{"-scores-file", ""}},
		{name: "empty db path", args: []string{"-scores-backend", "sqlite", "-scores-db", ""}},
		{name: "negative frame", args: []string{"-frame", "-1s"}},
		{name: "unknown flag", args: []string{"-ghost"}},
		{name: "bad env seed", env: map[string]string{"TETRIS_SEED": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParsePlayer(newFlagSet(), tt.args)
			require.Error(t, err)
		})
	}
}

func TestParseServer(t *testing.T) {
	clearEnv(t)
	cfg, err := ParseServer(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, BackendFile, cfg.Scores.Backend)

	t.Setenv("TETRIS_SERVER_ADDR", ":9100")
	cfg, err = ParseServer(newFlagSet(), []string{"-scores-backend", "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, BackendSQLite, cfg.Scores.Backend)

	_, err = ParseServer(nil, nil)
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TETRIS_SEED=99\nTETRIS_LOG_FILE=dotenv.log\n"), 0o644))

	// already set variables win over the file.
	t.Setenv("TETRIS_LOG_FILE", "set.log")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	cfg, err := ParsePlayer(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, "set.log", cfg.LogFile)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, s := range []Scores{
		{Backend: BackendFile, File: filepath.Join(dir, "scores.txt")},
		{Backend: BackendSQLite, DBPath: filepath.Join(dir, "scores.db")},
	} {
		t.Run(s.Backend, func(t *testing.T) {
			store, closeStore, err := OpenStore(s, nil)
			require.NoError(t, err)
			defer func() { require.NoError(t, closeStore()) }()

			_, err = highscore.Record(ctx, store, highscore.Entry{Score: 10, Lines: 1, Level: 1})
			require.NoError(t, err)
			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, highscore.Table{Scores: []uint32{10}, Lines: []uint32{1}}, got)
		})
	}

	_, _, err := OpenStore(Scores{Backend: "redis"}, nil)
	require.Error(t, err)
}
