// Package storage persists projects, work logs, settings and the current
// project selection in a single JSON document. The store is the only
// durable state the application has; the tracker is its only log writer.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"worktimer/internal/core/model"
)

const documentName = "work-timer-data.json"

// retention is how long closed work logs are kept. Older records are
// purged when the store is opened.
const retention = 30 * 24 * time.Hour

type document struct {
	Projects       []model.Project `json:"projects"`
	WorkLogs       []model.WorkLog `json:"workLogs"`
	Settings       model.Settings  `json:"settings"`
	CurrentProject string          `json:"currentProjectId"`
}

// Store is the durable document store. All access goes through the
// mutex; every mutation is written back atomically.
type Store struct {
	path string
	mu   sync.Mutex
	doc  document
}

// Open loads the document from dir, creating it with defaults if absent.
// Documents written by older revisions may miss whole sections; missing
// fields are filled with defaults rather than rejected. Work logs older
// than the retention window are purged here, once per process start.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	store := &Store{path: filepath.Join(dir, documentName)}
	if err := store.load(); err != nil {
		return nil, err
	}

	if purged := store.purgeLocked(time.Now().Add(-retention)); purged > 0 {
		log.Printf("storage: purged %d work logs past retention", purged)
	}
	if err := store.save(); err != nil {
		return nil, err
	}
	return store, nil
}

func (store *Store) load() error {
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			store.doc = document{Settings: model.DefaultSettings()}
			return nil
		}
		return fmt.Errorf("read data file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(rawData, &doc); err != nil {
		return fmt.Errorf("parse data file: %w", err)
	}
	doc.Settings.Normalize()
	store.doc = doc
	return nil
}

// save writes the document atomically: marshal to a sibling temp file,
// then rename over the original.
func (store *Store) save() error {
	rawData, err := json.MarshalIndent(store.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, rawData, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// purgeLocked removes work logs whose interval started before cutoff and
// returns how many were dropped. Callers hold no lock during Open; the
// store is not shared yet.
func (store *Store) purgeLocked(cutoff time.Time) int {
	kept := store.doc.WorkLogs[:0]
	for _, entry := range store.doc.WorkLogs {
		if !entry.StartTime.Before(cutoff) {
			kept = append(kept, entry)
		}
	}
	purged := len(store.doc.WorkLogs) - len(kept)
	store.doc.WorkLogs = kept
	return purged
}

// Path returns the location of the backing document.
func (store *Store) Path() string {
	return store.path
}
