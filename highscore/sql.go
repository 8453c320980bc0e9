package highscore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"

	"tetrimino/highscore/migrations"
)

const (
	listScores = "scores"
	listLines  = "lines"

	migrationTable = "schema_migrations"
)

var migrationSet = migrate.MigrationSet{TableName: migrationTable}

// SQLStore keeps the table in a SQLite database.
type SQLStore struct {
	db *sql.DB
}

// OpenSQL opens the SQLite database at path and applies the embedded migrations.
func OpenSQL(path string) (*SQLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLStore) Load(ctx context.Context) (Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT list, value FROM highscores ORDER BY list, position`)
	if err != nil {
		return Table{}, fmt.Errorf("query highscores: %w", err)
	}
	defer rows.Close()

	var t Table
	for rows.Next() {
		var (
			list  string
			value int64
		)
		if err := rows.Scan(&list, &value); err != nil {
			return Table{}, fmt.Errorf("scan highscore: %w", err)
		}
		switch list {
		case listScores:
			t.Scores = append(t.Scores, uint32(value))
		case listLines:
			t.Lines = append(t.Lines, uint32(value))
		}
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("iterate highscores: %w", err)
	}
	return t, nil
}

// Save replaces both lists in a single transaction.
func (s *SQLStore) Save(ctx context.Context, t Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM highscores`); err != nil {
		return fmt.Errorf("clear highscores: %w", err)
	}
	for list, values := range map[string][]uint32{listScores: t.Scores, listLines: t.Lines} {
		for i, v := range values {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO highscores (list, position, value) VALUES (?, ?, ?)`,
				list, i, int64(v),
			); err != nil {
				return fmt.Errorf("insert %s highscore: %w", list, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit highscores: %w", err)
	}
	return nil
}

// applyMigrations runs the embedded migrations not yet recorded in the migration table and
// returns how many ran.
func applyMigrations(db *sql.DB) (int, error) {
	source := &migrate.EmbedFileSystemMigrationSource{FileSystem: migrations.FS, Root: "."}
	return migrationSet.Exec(db, "sqlite3", source, migrate.Up)
}
