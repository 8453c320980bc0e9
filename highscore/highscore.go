// Package highscore keeps the best scores and the best line counts of finished games.
//
// Both lists hold at most Size entries in ascending order and are updated independently.
package highscore

import (
	"context"
	"fmt"
	"slices"
)

// Size is how many entries each list keeps.
const Size = 5

// Table holds the best scores and line counts, lowest first.
type Table struct {
	Scores []uint32
	Lines  []uint32
}

// Entry is a finished game as seen by the table.
type Entry struct {
	// ID identifies the game. Remote scoreboards use it to refuse a game recorded twice.
	ID    string
	Score uint32
	Lines uint32
	Level uint32
}

// Standing is the table after an entry was added and which lists the entry made it into.
type Standing struct {
	Table    Table
	NewScore bool
	NewLines bool
}

// Store loads and saves a Table.
type Store interface {
	Load(ctx context.Context) (Table, error)
	Save(ctx context.Context, t Table) error
}

// Recorder records a finished game somewhere and reports where it stands.
type Recorder interface {
	Record(ctx context.Context, e Entry) (Standing, error)
}

// Add puts the entry's score and lines in their lists. It reports which list changed.
func (t *Table) Add(e Entry) (newScore, newLines bool) {
	t.Scores, newScore = insert(t.Scores, e.Score)
	t.Lines, newLines = insert(t.Lines, e.Lines)
	return newScore, newLines
}

// insert appends v while the list has room; once full, v replaces the lowest entry if it is
// greater. The list is kept sorted.
func insert(list []uint32, v uint32) ([]uint32, bool) {
	list = slices.Clone(list)
	slices.Sort(list)
	if len(list) < Size {
		list = append(list, v)
		slices.Sort(list)
		return list, true
	}
	if v <= list[0] {
		return list, false
	}
	list[0] = v
	slices.Sort(list)
	return list, true
}

// Record adds the entry to the table kept in store, saving it when either list changed.
func Record(ctx context.Context, store Store, e Entry) (Standing, error) {
	t, err := store.Load(ctx)
	if err != nil {
		return Standing{}, fmt.Errorf("load highscores: %w", err)
	}
	s := Standing{Table: t}
	s.NewScore, s.NewLines = s.Table.Add(e)
	if !s.NewScore && !s.NewLines {
		return s, nil
	}
	if err := store.Save(ctx, s.Table); err != nil {
		return s, fmt.Errorf("save highscores: %w", err)
	}
	return s, nil
}

// LocalRecorder records entries straight into a Store.
type LocalRecorder struct {
	Store Store
}

func (r LocalRecorder) Record(ctx context.Context, e Entry) (Standing, error) {
	return Record(ctx, r.Store, e)
}
