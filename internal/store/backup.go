package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"accordion-cli/internal/model"
)

const backupFileName = "backup.json"

type backupPayload struct {
	Version int          `json:"version"`
	SavedAt time.Time    `json:"savedAt"`
	Nodes   []model.Node `json:"nodes"`
}

func (s Store) backupPath() string {
	return filepath.Join(filepath.Clean(s.Dir), backupFileName)
}

// WriteBackup snapshots the document next to the SQLite state so a corrupted
// or lost database can be recovered with `accordion backup restore`.
func (s Store) WriteBackup(db *DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	payload := backupPayload{
		Version: db.Version,
		SavedAt: time.Now().UTC(),
		Nodes:   db.Nodes,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.backupPath() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.backupPath())
}

// LoadBackup reads the snapshot without touching the SQLite state.
func (s Store) LoadBackup() (*DB, time.Time, error) {
	b, err := os.ReadFile(s.backupPath())
	if err != nil {
		return nil, time.Time{}, err
	}
	var payload backupPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, time.Time{}, err
	}
	db := &DB{Version: payload.Version, NextIDs: map[string]int{}, Nodes: payload.Nodes}
	if db.Version == 0 {
		db.Version = 1
	}
	if db.Nodes == nil {
		db.Nodes = []model.Node{}
	}
	return db, payload.SavedAt, nil
}

// RestoreBackup replaces the SQLite state with the snapshot contents.
func (s Store) RestoreBackup() (*DB, time.Time, error) {
	db, savedAt, err := s.LoadBackup()
	if err != nil {
		return nil, time.Time{}, err
	}
	if err := s.Save(db); err != nil {
		return nil, time.Time{}, err
	}
	return db, savedAt, nil
}
