package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/folio/pkg/cookie"
	"github.com/dmitrymomot/folio/pkg/logger"
)

// Manager creates, loads and destroys end-user sessions.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	logger        *slog.Logger
	now           func() time.Time
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option

	activity  chan activityUpdate
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type activityUpdate struct {
	token string
	at    time.Time
}

// New creates a Manager. A store and either a transport or a cookie manager
// are required; New panics without them so misconfiguration fails at startup.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:   DefaultConfig(),
		now:      time.Now,
		activity: make(chan activityUpdate, 1000),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		panic("session: store is required")
	}
	if m.logger == nil {
		m.logger = logger.Discard()
	}
	if m.transport == nil {
		if m.cookieManager == nil {
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	m.wg.Add(1)
	go m.activityWorker()

	return m
}

// Get loads the session referenced by the request.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	now := m.now()
	if session.IsExpiredAt(now) || now.Sub(session.LastActivityAt) > m.config.IdleTimeout {
		_ = m.store.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if now.Sub(session.LastActivityAt) >= m.config.ActivityUpdateThreshold {
		m.queueActivityUpdate(session.Token, now)
	}

	return session, nil
}

// Authenticate starts a new session for the user. Any session carried by
// the request is discarded first so a token is never reused across sign-ins.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID, email string) (*Session, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidSession
	}

	if old, err := m.transport.GetToken(r); err == nil {
		_ = m.store.Delete(ctx, old)
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	session := &Session{
		ID:             uuid.New(),
		Token:          token,
		UserID:         userID,
		Email:          email,
		Data:           make(map[string]any),
		ExpiresAt:      now.Add(m.config.MaxLifetime),
		LastActivityAt: now,
		CreatedAt:      now,
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, token, m.config.MaxLifetime); err != nil {
		_ = m.store.Delete(ctx, token)
		return nil, err
	}

	m.logger.InfoContext(ctx, "session started",
		logger.UserID(userID.String()),
		logger.Event("session.authenticated"),
	)
	return session, nil
}

// Save persists changes made to a loaded session's data.
func (m *Manager) Save(ctx context.Context, session *Session) error {
	return m.store.Update(ctx, session)
}

// Destroy deletes the request's session and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil {
		if err := m.store.Delete(ctx, token); err != nil {
			return err
		}
	}
	return m.transport.ClearToken(w)
}

// DestroyUser deletes every session of userID.
func (m *Manager) DestroyUser(ctx context.Context, userID uuid.UUID) error {
	return m.store.DeleteByUserID(ctx, userID)
}

// Cleanup removes expired sessions from stores without native expiry.
func (m *Manager) Cleanup(ctx context.Context) error {
	return m.store.DeleteExpired(ctx)
}

func (m *Manager) queueActivityUpdate(token string, at time.Time) {
	select {
	case m.activity <- activityUpdate{token: token, at: at}:
	default:
		// Dropped; the next request retries.
	}
}

func (m *Manager) activityWorker() {
	defer m.wg.Done()

	apply := func(u activityUpdate) {
		if err := m.store.UpdateActivity(context.Background(), u.token, u.at); err != nil && !errors.Is(err, ErrSessionNotFound) {
			m.logger.Warn("session activity update failed", logger.Error(err))
		}
	}

	for {
		select {
		case u := <-m.activity:
			apply(u)
		case <-m.done:
			for {
				select {
				case u := <-m.activity:
					apply(u)
				default:
					return
				}
			}
		}
	}
}

// Close drains pending activity updates and stops the worker.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	m.wg.Wait()
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
