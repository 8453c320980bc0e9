package config

import (
	"fmt"
	"log/slog"

	"tetrimino/highscore"
)

// OpenStore opens the configured high score store. The returned func releases it.
func OpenStore(s Scores, l *slog.Logger) (highscore.Store, func() error, error) {
	switch s.Backend {
	case BackendFile:
		return highscore.NewFileStore(s.File, l), func() error { return nil }, nil
	case BackendSQLite:
		db, err := highscore.OpenSQL(s.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open scores database: %w", err)
		}
		return db, db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown scores backend %q", s.Backend)
}
