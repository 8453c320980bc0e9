package highscore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Parse reads the two line text format: scores on the first line, line counts on the
// second, both as whitespace separated unsigned integers. Tokens that aren't numbers are
// dropped. Anything other than exactly two lines is not a table and ok is false.
func Parse(content string) (t Table, ok bool) {
	content = strings.TrimSuffix(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := strings.Split(content, "\n")
	if len(lines) != 2 {
		return Table{}, false
	}
	return Table{Scores: parseLine(lines[0]), Lines: parseLine(lines[1])}, true
}

func parseLine(line string) []uint32 {
	var out []uint32
	for _, f := range strings.Fields(line) {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, uint32(v))
	}
	return out
}

// Format writes t in the format Parse reads.
func Format(w io.Writer, t Table) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", formatLine(t.Scores), formatLine(t.Lines))
	return err
}

func formatLine(list []uint32) string {
	s := make([]string, len(list))
	for i, v := range list {
		s[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(s, " ")
}

// FileStore keeps the table in a text file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, l *slog.Logger) *FileStore {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &FileStore{path: path, logger: l}
}

// Load never fails: a missing, unreadable or malformed file is an empty table.
func (f *FileStore) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("unable to read highscores", slog.String("path", f.path), slog.String("error", err.Error()))
		}
		return Table{}, nil
	}
	t, ok := Parse(string(b))
	if !ok {
		f.logger.Warn("ignoring malformed highscores file", slog.String("path", f.path))
		return Table{}, nil
	}
	return t, nil
}

// Save replaces the file through a temporary file in the same directory, keeping the
// permissions of the file it replaces (0644 for a new one).
func (f *FileStore) Save(ctx context.Context, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".highscores-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint: errcheck
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := Format(tmp, t); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write highscores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
