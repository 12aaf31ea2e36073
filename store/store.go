// Package store is the persistence collaborator: the template key-value
// store and the outbound-send audit log, backed by SQLite. The core treats
// a nil record as "no template configured" and falls back to the compiled-in
// default body.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Schema for the template store and send log.
const Schema = `
CREATE TABLE IF NOT EXISTS templates (
	key        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	label      TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS send_log (
	send_id    TEXT PRIMARY KEY,
	context_id TEXT NOT NULL,
	recipient  TEXT NOT NULL,
	body_chars INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
`

// SharedKey is the cross-list fallback slot: when a list has no template of
// its own, GetWithFallback consults this key. The host application only ever
// has one active list per tab, so a single shared slot is sufficient.
const SharedKey = "shared"

// TemplateRecord is one stored template. Created on first Set for a key,
// overwritten by later Sets, never deleted automatically. Label is the
// list's display name at the time of the last save — a mismatch against the
// live label means the underlying list was renamed or reused.
type TemplateRecord struct {
	Key       string
	Body      string
	Label     string
	UpdatedAt int64
}

// Store is the database handle.
type Store struct {
	DB *sql.DB
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Get returns the template stored under key, or nil when none exists.
func (s *Store) Get(ctx context.Context, key string) (*TemplateRecord, error) {
	var rec TemplateRecord
	err := s.DB.QueryRowContext(ctx, `
		SELECT key, body, label, updated_at FROM templates WHERE key = ?`,
		key).Scan(&rec.Key, &rec.Body, &rec.Label, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %q: %w", key, err)
	}
	return &rec, nil
}

// GetWithFallback returns the template for key, falling back to SharedKey
// when none is stored. A nil, nil result means neither exists and the caller
// should use the compiled-in default.
func (s *Store) GetWithFallback(ctx context.Context, key string) (*TemplateRecord, error) {
	rec, err := s.Get(ctx, key)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.Get(ctx, SharedKey)
}

// Set stores body and label under key. Idempotent: repeating a Set with
// identical values is an observable no-op — updated_at is not touched, so
// watchers and readers see no change.
func (s *Store) Set(ctx context.Context, key, body, label string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO templates (key, body, label, updated_at) VALUES (?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body, label = excluded.label, updated_at = excluded.updated_at
		WHERE templates.body <> excluded.body OR templates.label <> excluded.label`,
		key, body, label, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: set %q: %w", key, err)
	}
	return nil
}

// LogSend records one transport handoff. The OS gives no visibility into
// whether the message actually left the device, so this is an audit of
// handoffs, not deliveries.
func (s *Store) LogSend(ctx context.Context, contextID, recipient string, bodyChars int) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO send_log (send_id, context_id, recipient, body_chars, created_at)
		VALUES (?,?,?,?,?)`,
		"snd_"+uuid.Must(uuid.NewV7()).String(), contextID, recipient, bodyChars, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: log send: %w", err)
	}
	return nil
}
