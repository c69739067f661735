package passcode

import (
	"context"
	"embed"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/folio/pkg/pg"
)

// Migrations holds the goose migrations for PostgresStore.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps records in the passcodes table. The primary key on
// recipient gives one record per recipient; Consume is a single
// DELETE ... RETURNING so concurrent callers cannot both match.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	putQuery = `
		INSERT INTO passcodes (recipient, hash, issued_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (recipient) DO UPDATE
		SET hash = EXCLUDED.hash, issued_at = EXCLUDED.issued_at, attempts = 0`

	consumeQuery = `
		DELETE FROM passcodes
		WHERE recipient = $1 AND hash = $2 AND issued_at > $3
		RETURNING recipient, hash, issued_at, attempts`

	failQuery = `
		UPDATE passcodes SET attempts = attempts + 1
		WHERE recipient = $1 AND issued_at > $2
		RETURNING attempts`

	burnQuery = `DELETE FROM passcodes WHERE recipient = $1 AND attempts >= $2`

	deleteExpiredQuery = `DELETE FROM passcodes WHERE issued_at <= $1`
)

func (s *PostgresStore) Put(ctx context.Context, rec Record) error {
	_, err := s.db.Exec(ctx, putQuery, rec.Recipient, rec.Hash, rec.IssuedAt)
	return err
}

func (s *PostgresStore) Consume(ctx context.Context, recipient, hash string, notBefore time.Time) (Record, error) {
	var rec Record
	err := s.db.QueryRow(ctx, consumeQuery, recipient, hash, notBefore).
		Scan(&rec.Recipient, &rec.Hash, &rec.IssuedAt, &rec.Attempts)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *PostgresStore) Fail(ctx context.Context, recipient string, notBefore time.Time, maxAttempts int) (int, error) {
	var attempts int
	if err := s.db.QueryRow(ctx, failQuery, recipient, notBefore).Scan(&attempts); err != nil {
		if pg.IsNotFoundError(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if attempts >= maxAttempts {
		if _, err := s.db.Exec(ctx, burnQuery, recipient, maxAttempts); err != nil {
			return attempts, err
		}
	}
	return attempts, nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, before time.Time) error {
	_, err := s.db.Exec(ctx, deleteExpiredQuery, before)
	return err
}
