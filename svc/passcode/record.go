package passcode

import (
	"context"
	"time"
)

// Record is a persisted passcode. Hash is the hex encoded HMAC of the flow,
// the recipient and the code; the code itself is never stored.
type Record struct {
	Recipient string    `json:"recipient" bson:"recipient"`
	Hash      string    `json:"hash" bson:"hash"`
	IssuedAt  time.Time `json:"issued_at" bson:"issued_at"`
	Attempts  int       `json:"attempts" bson:"attempts"`
}

// Store persists passcode records keyed by recipient.
type Store interface {
	// Put replaces every record held for rec.Recipient with rec.
	Put(ctx context.Context, rec Record) error

	// Consume deletes and returns the record matching recipient and hash that
	// was issued after notBefore. Matching and deletion are one atomic step.
	// It returns ErrNotFound when nothing matches.
	Consume(ctx context.Context, recipient, hash string, notBefore time.Time) (Record, error)

	// Fail counts a failed attempt against the live record of recipient and
	// deletes the record once maxAttempts is reached. It returns the number
	// of failed attempts so far, or ErrNotFound when no live record exists.
	Fail(ctx context.Context, recipient string, notBefore time.Time, maxAttempts int) (int, error)

	// DeleteExpired purges records issued at or before the given time.
	DeleteExpired(ctx context.Context, before time.Time) error
}
