package grant

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/folio/pkg/session"
)

// SessionProvider authorizes signed-in end users.
type SessionProvider struct {
	sessions *session.Manager
}

func NewSessionProvider(sessions *session.Manager) *SessionProvider {
	return &SessionProvider{sessions: sessions}
}

func (p *SessionProvider) Authorize(r *http.Request) (Grant, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		var err error
		if sess, err = p.sessions.Get(r.Context(), r); err != nil {
			return Grant{}, errors.Join(ErrUnauthorized, err)
		}
	}
	if !sess.IsAuthenticated() {
		return Grant{}, ErrUnauthorized
	}

	return Grant{
		ID:        sess.ID.String(),
		Kind:      KindSession,
		Subject:   sess.Email,
		UserID:    sess.UserID,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}
