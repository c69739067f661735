package grant

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/requestid"
)

type route struct {
	prefix   string
	provider Provider // nil marks a public prefix
}

// ErrorFunc writes the response for a request that failed authorization.
type ErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

// Bridge selects a Provider by the longest matching route prefix.
type Bridge struct {
	routes  []route
	onError ErrorFunc
	logger  *slog.Logger
}

type BridgeOption func(*Bridge)

func WithBridgeLogger(log *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if log != nil {
			b.logger = log
		}
	}
}

func WithErrorFunc(fn ErrorFunc) BridgeOption {
	return func(b *Bridge) {
		if fn != nil {
			b.onError = fn
		}
	}
}

func NewBridge(opts ...BridgeOption) *Bridge {
	b := &Bridge{logger: logger.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	if b.onError == nil {
		b.onError = defaultErrorFunc
	}
	return b
}

// Route guards every path under prefix with provider.
func (b *Bridge) Route(prefix string, provider Provider) *Bridge {
	if provider == nil {
		panic("grant: provider is required, use Public for open routes")
	}
	return b.add(prefix, provider)
}

// Public exempts paths under prefix from a broader Route.
func (b *Bridge) Public(prefix string) *Bridge {
	return b.add(prefix, nil)
}

func (b *Bridge) add(prefix string, provider Provider) *Bridge {
	prefix = "/" + strings.Trim(prefix, "/")
	b.routes = append(b.routes, route{prefix: prefix, provider: provider})
	sort.SliceStable(b.routes, func(i, j int) bool {
		return len(b.routes[i].prefix) > len(b.routes[j].prefix)
	})
	return b
}

// Provider returns the provider guarding path, or nil when the path is open.
func (b *Bridge) Provider(path string) Provider {
	for _, rt := range b.routes {
		if matchPrefix(path, rt.prefix) {
			return rt.provider
		}
	}
	return nil
}

// Middleware authorizes requests on guarded prefixes and stores the grant
// in the request context.
func (b *Bridge) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provider := b.Provider(r.URL.Path)
		if provider == nil {
			next.ServeHTTP(w, r)
			return
		}

		g, err := provider.Authorize(r)
		if err != nil {
			b.logger.DebugContext(r.Context(), "request not authorized",
				slog.String("path", r.URL.Path),
				logger.RequestID(requestid.FromContext(r.Context())),
				logger.Error(err),
			)
			b.onError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithGrant(r.Context(), g)))
	})
}

func matchPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func defaultErrorFunc(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := handler.ErrUnauthorized
	if errors.Is(err, ErrRevocationStore) {
		httpErr = handler.ErrInternalServerError
	}
	_ = handler.JSONError(httpErr).Render(w, r)
}
