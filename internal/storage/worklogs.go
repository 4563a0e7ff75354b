package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"worktimer/internal/core/model"
)

// AppendWorkLog stores one closed interval, assigning its id. The entry
// must describe a positive span; the duration field is recomputed from
// the endpoints so the invariant duration == end - start always holds.
func (store *Store) AppendWorkLog(entry model.WorkLog) (model.WorkLog, error) {
	if !entry.EndTime.After(entry.StartTime) {
		return model.WorkLog{}, fmt.Errorf("append work log: empty interval")
	}
	if !entry.State.Valid() {
		return model.WorkLog{}, fmt.Errorf("append work log: unknown state %q", entry.State)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	entry.ID = uuid.New().String()
	entry.Duration = int64(entry.EndTime.Sub(entry.StartTime) / time.Second)
	store.doc.WorkLogs = append(store.doc.WorkLogs, entry)
	if err := store.save(); err != nil {
		store.doc.WorkLogs = store.doc.WorkLogs[:len(store.doc.WorkLogs)-1]
		return model.WorkLog{}, err
	}
	return entry, nil
}

// WorkLogs returns entries whose start time falls within [start, end],
// inclusive, in insertion order. A zero bound is open on that side.
func (store *Store) WorkLogs(start, end time.Time) []model.WorkLog {
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []model.WorkLog
	for _, entry := range store.doc.WorkLogs {
		if !start.IsZero() && entry.StartTime.Before(start) {
			continue
		}
		if !end.IsZero() && entry.StartTime.After(end) {
			continue
		}
		matched = append(matched, entry)
	}
	return matched
}

// PurgeOlderThan deletes entries whose interval started before cutoff
// and reports how many were removed.
func (store *Store) PurgeOlderThan(cutoff time.Time) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	purged := store.purgeLocked(cutoff)
	if purged == 0 {
		return 0, nil
	}
	return purged, store.save()
}

// DeleteWorkLogsByProject removes every entry attributed to the project.
func (store *Store) DeleteWorkLogsByProject(projectID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	kept := store.doc.WorkLogs[:0]
	for _, entry := range store.doc.WorkLogs {
		if entry.ProjectID != projectID {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(store.doc.WorkLogs) {
		return nil
	}
	store.doc.WorkLogs = kept
	return store.save()
}
