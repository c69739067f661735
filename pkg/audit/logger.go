package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContextExtractor reads a string value from the context.
type ContextExtractor func(context.Context) (string, bool)

// Logger builds events and writes them to a Storage.
type Logger struct {
	storage            Storage
	actorExtractor     func(context.Context) (kind, actor string, ok bool)
	requestIDExtractor ContextExtractor
	ipExtractor        ContextExtractor
	now                func() time.Time
}

type Option func(*Logger)

// WithActorExtractor resolves who performs the action.
func WithActorExtractor(fn func(context.Context) (kind, actor string, ok bool)) Option {
	return func(l *Logger) {
		l.actorExtractor = fn
	}
}

// WithRequestIDExtractor accepts requestid.FromContext style functions.
func WithRequestIDExtractor(fn func(context.Context) string) Option {
	return func(l *Logger) {
		l.requestIDExtractor = func(ctx context.Context) (string, bool) {
			id := fn(ctx)
			return id, id != ""
		}
	}
}

func WithIPExtractor(fn ContextExtractor) Option {
	return func(l *Logger) {
		l.ipExtractor = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates an audit logger. It panics when storage is nil.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &Logger{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.eventFromContext(ctx, action)
	event.Result = ResultSuccess
	return l.store(ctx, event, opts)
}

// LogError records a failed action. Expected failures such as a wrong
// passcode should pass WithResult(ResultFailure).
func (l *Logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	event := l.eventFromContext(ctx, action)
	event.Result = ResultError
	if err != nil {
		event.Error = err.Error()
	}
	return l.store(ctx, event, opts)
}

func (l *Logger) store(ctx context.Context, event Event, opts []EventOption) error {
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if err := l.storage.Store(ctx, event); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

func (l *Logger) eventFromContext(ctx context.Context, action string) Event {
	event := Event{
		ID:        uuid.NewString(),
		Action:    action,
		CreatedAt: l.now().UTC(),
	}

	if l.actorExtractor != nil {
		if kind, actor, ok := l.actorExtractor(ctx); ok {
			event.ActorKind = kind
			event.Actor = actor
		}
	}
	if l.requestIDExtractor != nil {
		if id, ok := l.requestIDExtractor(ctx); ok {
			event.RequestID = id
		}
	}
	if l.ipExtractor != nil {
		if ip, ok := l.ipExtractor(ctx); ok {
			event.IP = ip
		}
	}

	return event
}
