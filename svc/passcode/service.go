package passcode

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/folio/pkg/email"
	"github.com/dmitrymomot/folio/pkg/email/templates"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/sanitizer"
	"github.com/dmitrymomot/folio/pkg/validator"
)

const (
	DefaultTTL         = 180 * time.Second
	DefaultCodeLength  = 6
	DefaultMaxAttempts = 5
)

// Limiter throttles issuance per flow and recipient. *ratelimiter.Bucket
// satisfies it.
type Limiter interface {
	Take(ctx context.Context, key string) error
}

// Template renders the HTML body of a passcode email.
type Template func(data templates.CodeData) templ.Component

// Service issues and verifies passcodes.
type Service struct {
	store      Store
	sender     email.Sender
	pepper     []byte
	ttl        time.Duration
	codeLength int
	attempts   int
	fallback   bool
	template   Template
	limiter    Limiter
	now        func() time.Time
	logger     *slog.Logger
}

type Option func(*Service)

// WithTTL sets how long an issued code stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithCodeLength(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= 18 {
			s.codeLength = n
		}
	}
}

// WithMaxAttempts sets how many wrong codes a record tolerates before it is
// deleted.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDeliveryFallback makes Issue log the code and succeed when the email
// cannot be sent. Never enable it in production.
func WithDeliveryFallback(enabled bool) Option {
	return func(s *Service) {
		s.fallback = enabled
	}
}

func WithTemplate(tpl Template) Option {
	return func(s *Service) {
		if tpl != nil {
			s.template = tpl
		}
	}
}

// WithLimiter throttles Issue per flow and recipient.
func WithLimiter(l Limiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

// NewService creates a passcode service. It panics when store, sender or
// pepper is missing since the service cannot work without them.
func NewService(store Store, sender email.Sender, pepper []byte, opts ...Option) *Service {
	if store == nil {
		panic("passcode: store is required")
	}
	if sender == nil {
		panic("passcode: email sender is required")
	}
	if len(pepper) == 0 {
		panic(ErrMissingPepper)
	}

	s := &Service{
		store:      store,
		sender:     sender,
		pepper:     pepper,
		ttl:        DefaultTTL,
		codeLength: DefaultCodeLength,
		attempts:   DefaultMaxAttempts,
		template:   templates.Code,
		now:        time.Now,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("passcode"))

	return s
}

// TTL returns the validity window of issued codes.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue sends a fresh code to recipient if flow authorizes it. Any code the
// recipient held before stops working. The code is only ever delivered by
// email; it is not returned.
func (s *Service) Issue(ctx context.Context, flow Flow, recipient string) error {
	recipient = sanitizer.NormalizeEmail(recipient)
	if err := validator.Apply(validator.ValidEmail("email", recipient)); err != nil {
		return err
	}

	log := s.logger.With(logger.Flow(flow.Name), logger.Recipient(recipient))

	if flow.Authorize == nil {
		return ErrUnauthorizedRecipient
	}
	if err := flow.Authorize(ctx, recipient); err != nil {
		log.WarnContext(ctx, "passcode requested for unauthorized recipient", logger.Error(err))
		if errors.Is(err, ErrUnauthorizedRecipient) {
			return err
		}
		return errors.Join(ErrUnauthorizedRecipient, err)
	}

	if s.limiter != nil {
		if err := s.limiter.Take(ctx, flow.Name+":"+recipient); err != nil {
			return err
		}
	}

	code, err := s.generateCode()
	if err != nil {
		return errors.Join(ErrCodeGeneration, err)
	}

	rec := Record{
		Recipient: recipient,
		Hash:      s.hash(flow, recipient, code),
		IssuedAt:  s.now().UTC(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		log.ErrorContext(ctx, "failed to store passcode", logger.Error(err))
		return errors.Join(ErrStore, err)
	}

	if err := s.deliver(ctx, flow, recipient, code); err != nil {
		// The stored record stays valid: a late delivery still works.
		if !s.fallback {
			log.ErrorContext(ctx, "failed to deliver passcode", logger.Error(err))
			return errors.Join(ErrDelivery, err)
		}
		log.WarnContext(ctx, "passcode delivery failed, logging code instead",
			slog.Bool("non_production", true),
			slog.String("code", code),
			logger.Error(err),
		)
	}

	log.InfoContext(ctx, "passcode issued", logger.Event("passcode.issued"))
	return nil
}

// Verify consumes the code issued to recipient in flow. A wrong, already
// used or expired code yields ErrInvalidOrExpired without telling which.
// Every wrong code counts against the record; once the attempt budget is
// spent the record is deleted and even the right code is rejected.
func (s *Service) Verify(ctx context.Context, flow Flow, recipient, code string) error {
	recipient = sanitizer.NormalizeEmail(recipient)
	if err := validator.Apply(
		validator.ValidEmail("email", recipient),
		validator.RequiredString("code", code),
		validator.LenString("code", code, s.codeLength),
		validator.ValidNumericString("code", code),
	); err != nil {
		return err
	}

	notBefore := s.now().UTC().Add(-s.ttl)
	if _, err := s.store.Consume(ctx, recipient, s.hash(flow, recipient, code), notBefore); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.reject(ctx, flow, recipient, notBefore)
			return ErrInvalidOrExpired
		}
		s.logger.ErrorContext(ctx, "failed to consume passcode", logger.Flow(flow.Name), logger.Error(err))
		return errors.Join(ErrStore, err)
	}

	s.logger.InfoContext(ctx, "passcode verified",
		logger.Flow(flow.Name),
		logger.Recipient(recipient),
		logger.Event("passcode.verified"),
	)
	return nil
}

// reject counts a failed attempt. Store failures here are logged only: the
// caller already gets ErrInvalidOrExpired.
func (s *Service) reject(ctx context.Context, flow Flow, recipient string, notBefore time.Time) {
	log := s.logger.With(logger.Flow(flow.Name), logger.Recipient(recipient))

	attempts, err := s.store.Fail(ctx, recipient, notBefore, s.attempts)
	switch {
	case errors.Is(err, ErrNotFound):
		log.InfoContext(ctx, "passcode rejected", logger.Event("passcode.rejected"))
	case err != nil:
		log.ErrorContext(ctx, "failed to count passcode attempt", logger.Error(err))
	case attempts >= s.attempts:
		log.WarnContext(ctx, "passcode attempts exhausted, code revoked",
			slog.Int("attempts", attempts),
			logger.Event("passcode.exhausted"),
		)
	default:
		log.InfoContext(ctx, "passcode rejected",
			slog.Int("attempts", attempts),
			logger.Event("passcode.rejected"),
		)
	}
}

// Sweep purges expired records from stores without native expiry.
func (s *Service) Sweep(ctx context.Context) error {
	if err := s.store.DeleteExpired(ctx, s.now().UTC().Add(-s.ttl)); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (s *Service) deliver(ctx context.Context, flow Flow, recipient, code string) error {
	expiresIn := humanizeTTL(s.ttl)
	title := flow.Title() + " code"

	html, err := templates.Render(ctx, s.template(templates.CodeData{
		Title:     title,
		Intro:     "Use the code below to continue. If you did not request it, ignore this email.",
		Code:      code,
		ExpiresIn: expiresIn,
		Footer:    "Never share this code with anyone.",
	}))
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, email.Message{
		To:      recipient,
		Subject: title,
		Text:    fmt.Sprintf("Your code is %s. It expires in %s.", code, expiresIn),
		HTML:    html,
		Tag:     flow.Name,
	})
}

func (s *Service) generateCode() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s.codeLength)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", s.codeLength, n.Int64()), nil
}

func (s *Service) hash(flow Flow, recipient, code string) string {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(flow.Name))
	mac.Write([]byte{0})
	mac.Write([]byte(recipient))
	mac.Write([]byte{0})
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

func humanizeTTL(d time.Duration) string {
	switch {
	case d%time.Minute == 0 && d >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	case d == time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
}
