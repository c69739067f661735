package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/session"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

// UserLookup finds the portfolio user for a session. *portfolio.Service
// satisfies it.
type UserLookup interface {
	UserByEmail(ctx context.Context, email string) (portfolio.User, error)
}

// Identity is the signed-in user as seen by handlers. Profile is nil when
// the user row no longer exists.
type Identity struct {
	UserID    uuid.UUID       `json:"user_id"`
	Email     string          `json:"email"`
	SessionID uuid.UUID       `json:"session_id"`
	Profile   *portfolio.User `json:"profile,omitempty"`
}

// HasProfile reports whether the portfolio user was found.
func (i Identity) HasProfile() bool { return i.Profile != nil }

// Materialize builds the Identity for sess. A missing user is not an error.
func Materialize(ctx context.Context, sess *session.Session, users UserLookup) (Identity, error) {
	if !sess.IsAuthenticated() {
		return Identity{}, ErrNoIdentity
	}

	id := Identity{UserID: sess.UserID, Email: sess.Email, SessionID: sess.ID}
	user, err := users.UserByEmail(ctx, sess.Email)
	switch {
	case errors.Is(err, portfolio.ErrNotFound):
		return id, nil
	case err != nil:
		return Identity{}, err
	}
	id.Profile = &user
	return id, nil
}

// Middleware materializes the Identity of requests that carry a session.
// Requests without one pass through; a lookup failure is logged and the
// request continues without an Identity.
func Middleware(users UserLookup, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			id, err := Materialize(r.Context(), sess, users)
			if err != nil {
				log.WarnContext(r.Context(), "failed to materialize identity",
					logger.UserID(sess.UserID.String()),
					logger.Error(err),
					logger.Component("auth"),
				)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetIdentityToContext(r.Context(), id)))
		})
	}
}
