// Package audit records administrative actions in an append-only log.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"tably/internal/types"
)

type Entry struct {
	ID        int64          `json:"id"`
	ActorID   *types.ID      `json:"actor_id,omitempty"`
	ActorType string         `json:"actor_type"` // "superadmin", "admin", "user"
	TenantID  *types.ID      `json:"tenant_id,omitempty"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Recorder is what mutating services depend on; the zero-dependency NopRecorder
// satisfies it in tests.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

type Store struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

func NewStore(db *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Record appends the entry. Audit writes never fail the action they
// describe; failures are logged and dropped.
func (s *Store) Record(ctx context.Context, e Entry) {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		s.log.Error().Err(err).Str("action", e.Action).Msg("audit: marshal metadata")
		return
	}

	var actorID, tenantID *string
	if e.ActorID != nil {
		v := string(*e.ActorID)
		actorID = &v
	}
	if e.TenantID != nil {
		v := string(*e.TenantID)
		tenantID = &v
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO audit_logs (actor_id, actor_type, tenant_id, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		actorID, e.ActorType, tenantID, e.Action, raw, time.Now().UTC(),
	)
	if err != nil {
		s.log.Error().Err(err).Str("action", e.Action).Msg("audit: insert failed")
	}
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, actor_id, actor_type, tenant_id, action, metadata, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var actorID, tenantID *string
		var raw []byte
		if err := rows.Scan(&e.ID, &actorID, &e.ActorType, &tenantID, &e.Action, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if actorID != nil {
			v := types.ID(*actorID)
			e.ActorID = &v
		}
		if tenantID != nil {
			v := types.ID(*tenantID)
			e.TenantID = &v
		}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &e.Metadata)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// NopRecorder discards entries.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) {}
