package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mbeier/famsync/database"
	"github.com/mbeier/famsync/internal/model"
)

var _ model.RemoteRegistry = (*Registry)(nil)

// Registry is a RemoteRegistry backed by a shared postgres instance. Records
// live in a single path-keyed table mirroring the registry paths
// families/{code} and chats/{code}/{messageId}. Writes replace the whole
// record: the upsert is the last-writer-wins semantics.
type Registry struct {
	db *sql.DB
}

// New connects to the registry database and applies migrations.
func New(ctx context.Context, dsn string) (*Registry, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping registry database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate registry database: %w", err)
	}

	return &Registry{db: db}, nil
}

// NewWithDB wraps an existing connection. Used in tests.
func NewWithDB(db *sql.DB) *Registry {
	return &Registry{db: db}
}

func (r *Registry) Close() error {
	return r.db.Close()
}

func familyPath(code string) string {
	return "families/" + strings.ToUpper(code)
}

func messagePath(code, messageID string) string {
	return "chats/" + strings.ToUpper(code) + "/" + messageID
}

func (r *Registry) ReadFamily(ctx context.Context, code string) (model.FamilyProfile, error) {
	var raw []byte
	query := `SELECT value FROM registry_entries WHERE path = $1`

	err := r.db.QueryRowContext(ctx, query, familyPath(code)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FamilyProfile{}, model.ErrNotFound
	}
	if err != nil {
		return model.FamilyProfile{}, fmt.Errorf("failed to read family: %w", err)
	}

	var family model.FamilyProfile
	if err := json.Unmarshal(raw, &family); err != nil {
		// A record that cannot be decoded is treated as missing.
		return model.FamilyProfile{}, model.ErrNotFound
	}

	return family, nil
}

func (r *Registry) WriteFamily(ctx context.Context, family model.FamilyProfile) error {
	raw, err := json.Marshal(family)
	if err != nil {
		return fmt.Errorf("failed to marshal family: %w", err)
	}

	query := `INSERT INTO registry_entries (path, value, updated_at) VALUES ($1, $2, now())
			  ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, familyPath(family.Code), raw); err != nil {
		return fmt.Errorf("failed to write family: %w", err)
	}

	return nil
}

func (r *Registry) WriteMessage(ctx context.Context, code string, message model.ChatMessage) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Messages are immutable, so a duplicate write is a no-op.
	query := `INSERT INTO registry_entries (path, value, updated_at) VALUES ($1, $2, now())
			  ON CONFLICT (path) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, messagePath(code, message.ID), raw); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (r *Registry) ReadMessages(ctx context.Context, code string) ([]model.ChatMessage, error) {
	query := `SELECT value FROM registry_entries WHERE path LIKE $1`

	rows, err := r.db.QueryContext(ctx, query, "chats/"+strings.ToUpper(code)+"/%")
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		var message model.ChatMessage
		if err := json.Unmarshal(raw, &message); err != nil {
			continue
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

func (r *Registry) Available(ctx context.Context) bool {
	return r.db.PingContext(ctx) == nil
}
