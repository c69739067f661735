package grant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/folio/pkg/cookie"
	"github.com/dmitrymomot/folio/pkg/jwt"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/sanitizer"
)

// DefaultCookieName is the cookie carrying the admin grant.
const DefaultCookieName = "admin_token"

type adminClaims struct {
	jwt.Claims
	Kind Kind `json:"knd"`
}

// AdminIssuer mints, checks and revokes the admin grant. It is also the
// Provider for admin routes.
type AdminIssuer struct {
	tokens      *jwt.Service
	cookies     *cookie.Manager
	revocations RevocationStore
	adminEmail  string
	cookieName  string
	ttl         time.Duration
	secure      bool
	extract     jwt.TokenExtractorFunc
	now         func() time.Time
	logger      *slog.Logger
}

type AdminOption func(*AdminIssuer)

func WithTTL(ttl time.Duration) AdminOption {
	return func(a *AdminIssuer) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

func WithCookieName(name string) AdminOption {
	return func(a *AdminIssuer) {
		if name != "" {
			a.cookieName = name
		}
	}
}

// WithSecureCookie sets the Secure attribute; enable it in production.
func WithSecureCookie(secure bool) AdminOption {
	return func(a *AdminIssuer) {
		a.secure = secure
	}
}

func WithRevocationStore(store RevocationStore) AdminOption {
	return func(a *AdminIssuer) {
		if store != nil {
			a.revocations = store
		}
	}
}

func WithAdminLogger(log *slog.Logger) AdminOption {
	return func(a *AdminIssuer) {
		if log != nil {
			a.logger = log
		}
	}
}

func WithAdminClock(now func() time.Time) AdminOption {
	return func(a *AdminIssuer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAdminIssuer creates an issuer for adminEmail. The jwt.Service should be
// configured with the same clock passed through WithAdminClock.
func NewAdminIssuer(tokens *jwt.Service, cookies *cookie.Manager, adminEmail string, opts ...AdminOption) *AdminIssuer {
	a := &AdminIssuer{
		tokens:      tokens,
		cookies:     cookies,
		revocations: NewMemoryRevocations(),
		adminEmail:  sanitizer.NormalizeEmail(adminEmail),
		cookieName:  DefaultCookieName,
		ttl:         24 * time.Hour,
		now:         time.Now,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.extract = jwt.FirstOf(jwt.CookieTokenExtractor(a.cookieName), jwt.BearerTokenExtractor)
	a.logger = a.logger.With(logger.Component("admin_grant"))
	return a
}

// Grant issues the admin grant to email and sets the cookie. Callers must
// have verified an admin passcode for email first.
func (a *AdminIssuer) Grant(ctx context.Context, w http.ResponseWriter, email string) (Grant, error) {
	email = sanitizer.NormalizeEmail(email)
	if a.adminEmail == "" || !strings.EqualFold(email, a.adminEmail) {
		return Grant{}, ErrNotAdmin
	}

	now := a.now().UTC()
	g := Grant{
		ID:        uuid.NewString(),
		Kind:      KindAdmin,
		Subject:   email,
		ExpiresAt: now.Add(a.ttl).Truncate(time.Second),
	}

	token, err := a.tokens.Generate(adminClaims{
		Claims: jwt.Claims{
			ID:        g.ID,
			Subject:   g.Subject,
			Issuer:    a.tokens.Issuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(g.ExpiresAt),
		},
		Kind: KindAdmin,
	})
	if err != nil {
		return Grant{}, err
	}

	a.cookies.Set(w, a.cookieName, token, a.cookieOptions(int(a.ttl/time.Second))...)
	a.logger.InfoContext(ctx, "admin grant issued", logger.GrantID(g.ID), logger.Event("grant.issued"))
	return g, nil
}

// Authorize implements Provider.
func (a *AdminIssuer) Authorize(r *http.Request) (Grant, error) {
	token, err := a.extract(r)
	if err != nil {
		return Grant{}, ErrUnauthorized
	}

	g, err := a.parse(token)
	if err != nil {
		return Grant{}, errors.Join(ErrUnauthorized, err)
	}

	revoked, err := a.revocations.IsRevoked(r.Context(), g.ID)
	if err != nil {
		return Grant{}, errors.Join(ErrRevocationStore, err)
	}
	if revoked {
		return Grant{}, errors.Join(ErrUnauthorized, ErrRevoked)
	}
	return g, nil
}

// Revoke ends the grant carried by r, if any, and clears the cookie.
func (a *AdminIssuer) Revoke(w http.ResponseWriter, r *http.Request) error {
	defer a.cookies.Delete(w, a.cookieName, a.cookieOptions(-1)...)

	token, err := a.extract(r)
	if err != nil {
		return nil
	}
	g, err := a.parse(token)
	if err != nil {
		// Expired or forged tokens grant nothing; clearing the cookie is enough.
		return nil
	}

	if err := a.revocations.Revoke(r.Context(), g.ID, g.ExpiresAt); err != nil {
		return errors.Join(ErrRevocationStore, err)
	}
	a.logger.InfoContext(r.Context(), "admin grant revoked", logger.GrantID(g.ID), logger.Event("grant.revoked"))
	return nil
}

func (a *AdminIssuer) parse(token string) (Grant, error) {
	var claims adminClaims
	if err := a.tokens.Parse(token, &claims); err != nil {
		return Grant{}, err
	}
	if claims.Kind != KindAdmin || claims.ID == "" {
		return Grant{}, ErrWrongKind
	}
	if !strings.EqualFold(claims.Subject, a.adminEmail) {
		return Grant{}, ErrNotAdmin
	}

	return Grant{
		ID:        claims.ID,
		Kind:      KindAdmin,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

func (a *AdminIssuer) cookieOptions(maxAge int) []cookie.Option {
	return []cookie.Option{
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(a.secure),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithMaxAge(maxAge),
	}
}
