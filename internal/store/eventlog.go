package store

import (
	"context"
	"encoding/json"
	"time"

	"accordion-cli/internal/model"
)

// AppendEvent records one mutation in the append-only audit log. The log is
// advisory: failures here never fail the mutation itself, so callers may
// ignore the returned error.
func (s Store) AppendEvent(typ, entityID string, payload any) error {
	ctx := context.Background()
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return err
	}

	id, err := newRandomID("evt")
	if err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("null")
	}
	_, err = db.ExecContext(ctx, `INSERT INTO events(id, ts_unixms, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		id, time.Now().UTC().UnixMilli(), typ, entityID, string(raw))
	return err
}

// ReadEventsTail returns the last limit events in chronological order.
// limit <= 0 returns all events.
func (s Store) ReadEventsTail(limit int) ([]model.Event, error) {
	ctx := context.Background()
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return nil, err
	}

	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM events ORDER BY ts_unixms DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var tsMs int64
		var payload string
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		var p any
		if err := json.Unmarshal([]byte(payload), &p); err == nil {
			ev.Payload = p
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; return oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}
