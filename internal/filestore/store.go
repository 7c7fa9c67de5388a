// Package filestore implements the repository interfaces on top of JSON
// flat files, one array per table under a data directory. It serves
// lightweight single-node deployments that run without Postgres.
//
// Every write replaces the whole table file through a temp file and
// rename, so a single table is never observed half-written. There is no
// cross-table atomicity. Direct messages and assessments are not
// supported by this backend.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ovra/internal/repository"
)

// Store owns the data directory and serializes all access to it.
type Store struct {
	mu  sync.Mutex
	dir string
}

// Open prepares the data directory and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// New opens dataDir and returns the full repository bundle backed by it.
// The Messages and Assessments repositories are stubs: reads return empty
// results and writes fail.
func New(dataDir string) (*repository.Repositories, error) {
	store, err := Open(dataDir)
	if err != nil {
		return nil, err
	}
	return &repository.Repositories{
		Users:         NewUserStore(store),
		Posts:         NewPostStore(store),
		Engagements:   NewEngagementStore(store),
		Comments:      NewCommentStore(store),
		Follows:       NewFollowStore(store),
		Friends:       NewFriendStore(store),
		Messages:      &messageStore{},
		Notifications: NewNotificationStore(store),
		Assessments:   &assessmentStore{},
	}, nil
}

// readTable loads a table file into rows. A missing file is an empty
// table. The caller must hold the store lock.
func readTable[T any](s *Store, table string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, table+".json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s table: %w", table, err)
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s table: %w", table, err)
	}
	return rows, nil
}

// writeTable atomically replaces the table file. The caller must hold the
// store lock.
func writeTable[T any](s *Store, table string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s table: %w", table, err)
	}

	tmp, err := os.CreateTemp(s.dir, table+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s table: %w", table, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s table: %w", table, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s table: %w", table, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, table+".json")); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s table: %w", table, err)
	}
	return nil
}

// nextID returns one past the highest assigned ID.
func nextID[T any](rows []T, id func(T) uint) uint {
	var max uint
	for _, row := range rows {
		if v := id(row); v > max {
			max = v
		}
	}
	return max + 1
}

// paginate applies offset and limit. A non-positive limit means no limit.
func paginate[T any](rows []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return []T{}
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
