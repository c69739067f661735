package audit

import (
	"context"
	"embed"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgconn"
)

// Migrations holds the goose migrations for PostgresStorage.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStorage writes events to the audit_events table.
type PostgresStorage struct {
	db Execer
}

func NewPostgresStorage(db Execer) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const insertEventQuery = `
	INSERT INTO audit_events
		(id, actor, actor_kind, action, resource, resource_id, result, error, request_id, ip, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (s *PostgresStorage) Store(ctx context.Context, e Event) error {
	var metadata []byte
	if len(e.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(e.Metadata); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(ctx, insertEventQuery,
		e.ID, e.Actor, e.ActorKind, e.Action, e.Resource, e.ResourceID,
		string(e.Result), e.Error, e.RequestID, e.IP, metadata, e.CreatedAt,
	)
	return err
}
