package grant

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Kind tells the two authorization mechanisms apart.
type Kind string

const (
	KindSession Kind = "session"
	KindAdmin   Kind = "admin"
)

// Grant is the authorization attached to a request.
type Grant struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Subject   string    `json:"subject"`
	UserID    uuid.UUID `json:"user_id,omitzero"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether g was obtained through the admin passcode flow.
func (g Grant) IsAdmin() bool { return g.Kind == KindAdmin }

// Provider authorizes a request.
type Provider interface {
	Authorize(r *http.Request) (Grant, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(r *http.Request) (Grant, error)

func (f ProviderFunc) Authorize(r *http.Request) (Grant, error) { return f(r) }
