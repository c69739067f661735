package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/folio/pkg/cookie"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/sanitizer"
	"github.com/dmitrymomot/folio/pkg/session"
	"github.com/dmitrymomot/folio/pkg/token"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

// Users creates the portfolio user on first sign-in. *portfolio.Service
// satisfies it.
type Users interface {
	EnsureUser(ctx context.Context, email, name, avatarURL string) (portfolio.User, error)
}

// Sessions starts end-user sessions. *session.Manager satisfies it.
type Sessions interface {
	Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID, email string) (*session.Session, error)
}

type statePayload struct {
	Nonce     string    `json:"n"`
	Provider  string    `json:"p"`
	ExpiresAt time.Time `json:"e"`
}

func (s statePayload) Expiry() time.Time { return s.ExpiresAt }

// SignIn runs the federated sign-in round trip.
type SignIn struct {
	users       Users
	sessions    Sessions
	cookies     *cookie.Manager
	stateKey    []byte
	providers   map[string]ProviderAdapter
	stateTTL    time.Duration
	stateCookie string
	secure      bool
	now         func() time.Time
	logger      *slog.Logger
}

type Option func(*SignIn)

func WithProvider(p ProviderAdapter) Option {
	return func(s *SignIn) {
		if p != nil {
			s.providers[p.ProviderID()] = p
		}
	}
}

func WithStateTTL(ttl time.Duration) Option {
	return func(s *SignIn) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

func WithStateCookie(name string) Option {
	return func(s *SignIn) {
		if name != "" {
			s.stateCookie = name
		}
	}
}

func WithSecureCookie(secure bool) Option {
	return func(s *SignIn) {
		s.secure = secure
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *SignIn) {
		if log != nil {
			s.logger = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *SignIn) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSignIn panics when a collaborator is missing or stateKey is shorter
// than 32 bytes.
func NewSignIn(users Users, sessions Sessions, cookies *cookie.Manager, stateKey []byte, opts ...Option) *SignIn {
	switch {
	case users == nil:
		panic("auth: users is required")
	case sessions == nil:
		panic("auth: sessions is required")
	case cookies == nil:
		panic("auth: cookie manager is required")
	case len(stateKey) < 32:
		panic("auth: state key must be at least 32 bytes")
	}

	s := &SignIn{
		users:       users,
		sessions:    sessions,
		cookies:     cookies,
		stateKey:    stateKey,
		providers:   make(map[string]ProviderAdapter),
		stateTTL:    10 * time.Minute,
		stateCookie: "oauth_state",
		now:         time.Now,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("signin"))
	return s
}

// Providers lists the configured provider ids in sorted order.
func (s *SignIn) Providers() []string {
	ids := make([]string, 0, len(s.providers))
	for id := range s.providers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Begin sets the state cookie and returns the provider authorization URL.
func (s *SignIn) Begin(w http.ResponseWriter, provider string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state, err := token.GenerateToken(statePayload{
		Nonce:     base64.RawURLEncoding.EncodeToString(nonce),
		Provider:  provider,
		ExpiresAt: s.now().Add(s.stateTTL),
	}, s.stateKey)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}

	// Lax, so the cookie survives the top-level redirect back from the provider.
	s.cookies.Set(w, s.stateCookie, state,
		cookie.WithMaxAge(int(s.stateTTL.Seconds())),
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(s.secure),
		cookie.WithSameSite(http.SameSiteLaxMode),
	)
	return p.AuthURL(state), nil
}

// Complete finishes the round trip started by Begin. The state cookie is
// cleared whatever the outcome.
func (s *SignIn) Complete(ctx context.Context, w http.ResponseWriter, r *http.Request, provider, state, code string) (*session.Session, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	stored, _ := s.cookies.Get(r, s.stateCookie)
	s.cookies.Delete(w, s.stateCookie)
	if err := s.checkState(stored, state, provider); err != nil {
		s.logger.WarnContext(ctx, "rejected sign-in state", slog.String("provider", provider), logger.Error(err))
		return nil, err
	}

	profile, err := p.ResolveProfile(ctx, code)
	if err != nil {
		return nil, err
	}
	email := sanitizer.NormalizeEmail(profile.Email)
	if email == "" {
		return nil, ErrNoPrimaryEmail
	}
	if !profile.EmailVerified {
		return nil, ErrUnverifiedEmail
	}

	user, err := s.users.EnsureUser(ctx, email, profile.Name, profile.AvatarURL)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Authenticate(ctx, w, r, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user signed in",
		logger.UserID(user.ID.String()),
		slog.String("provider", provider),
		logger.Event("auth.signed_in"),
	)
	return sess, nil
}

func (s *SignIn) checkState(stored, state, provider string) error {
	if stored == "" || state == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(state)) != 1 {
		return ErrInvalidState
	}
	payload, err := token.ParseToken[statePayload](state, s.stateKey)
	if err != nil {
		return errors.Join(ErrInvalidState, err)
	}
	if payload.Provider != provider || !s.now().Before(payload.ExpiresAt) {
		return ErrInvalidState
	}
	return nil
}
