package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"accordion-cli/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "accordion.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a TUI and CLI overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// LoadSQLite loads the document state from the workspace SQLite file,
// creating the schema on first use.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return nil, err
	}
	return loadStateFromSQLite(ctx, db)
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", fmt.Sprintf("%d", st.Version)); err != nil {
		return err
	}

	// Replace-all strategy: documents are small and this keeps writes simple
	// and atomic.
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return err
	}

	nowMs := time.Now().UTC().UnixMilli()
	for _, n := range st.Nodes {
		raw, _ := json.Marshal(n)
		parent := ""
		if n.ParentID != nil {
			parent = strings.TrimSpace(*n.ParentID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes(
			id, parent_id, rank, title, locked, image_path,
			json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, parent, strings.TrimSpace(n.Rank), n.Title, boolToInt(n.Locked), strings.TrimSpace(n.ImagePath),
			string(raw), nowMs,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL,
			rank TEXT NOT NULL,
			title TEXT NOT NULL,
			locked INTEGER NOT NULL,
			image_path TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, rank);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, ts_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: 1, NextIDs: map[string]int{}}

	var v string
	_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "version").Scan(&v)
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
		out.Version = n
	}

	rows, err := db.QueryContext(ctx, `SELECT json FROM nodes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var n model.Node
		if err := json.Unmarshal([]byte(js), &n); err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if out.Nodes == nil {
		out.Nodes = []model.Node{}
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
