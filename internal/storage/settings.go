package storage

import "worktimer/internal/core/model"

// Settings returns the current user settings.
func (store *Store) Settings() model.Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.doc.Settings
}

// SetSettings replaces the stored settings. Zero or out-of-range fields
// are filled from the defaults before writing.
func (store *Store) SetSettings(settings model.Settings) error {
	settings.Normalize()

	store.mu.Lock()
	defer store.mu.Unlock()
	store.doc.Settings = settings
	return store.save()
}
