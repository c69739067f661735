package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/sanitizer"
	"github.com/dmitrymomot/folio/pkg/slug"
	"github.com/dmitrymomot/folio/pkg/validator"
)

// Service is the portfolio domain API.
type Service struct {
	users   Users
	catalog *Catalog
	logger  *slog.Logger

	Projects   *OwnedResources[Project]
	Education  *OwnedResources[Education]
	Experience *OwnedResources[Experience]

	ShowcaseProjects  *AdminResources[ShowcaseProject]
	ShowcaseEducation *AdminResources[ShowcaseEducation]
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithCatalog replaces the embedded template catalog.
func WithCatalog(c *Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		users:             repo.Users,
		catalog:           DefaultCatalog(),
		logger:            logger.Discard(),
		Projects:          NewOwnedResources(repo.Projects),
		Education:         NewOwnedResources(repo.Education),
		Experience:        NewOwnedResources(repo.Experience),
		ShowcaseProjects:  NewAdminResources(repo.ShowcaseProjects),
		ShowcaseEducation: NewAdminResources(repo.ShowcaseEducation),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("portfolio"))
	return s
}

func (s *Service) Catalog() *Catalog { return s.catalog }

// EnsureUser returns the user for a signed-in email, creating it on first
// sign-in.
func (s *Service) EnsureUser(ctx context.Context, email, name, avatarURL string) (User, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return User{}, ErrEmailRequired
	}
	user, err := s.users.UpsertByEmail(ctx, email, sanitizer.TrimString(name), avatarURL)
	if err != nil {
		return User{}, wrapRepo(err)
	}
	return user, nil
}

// UserByEmail looks a user up by the sign-in email.
func (s *Service) UserByEmail(ctx context.Context, email string) (User, error) {
	user, err := s.users.GetByEmail(ctx, sanitizer.NormalizeEmail(email))
	return user, wrapRepo(err)
}

func (s *Service) Profile(ctx context.Context, actor uuid.UUID) (User, error) {
	user, err := s.users.GetByID(ctx, actor)
	return user, wrapRepo(err)
}

// UpdateProfile validates and stores the editable profile of actor.
func (s *Service) UpdateProfile(ctx context.Context, actor uuid.UUID, in ProfileInput) (User, error) {
	in.Username = normalizeUsername(in.Username)
	in.Name = sanitizer.TrimString(in.Name)
	if in.Template == "" {
		in.Template = s.catalog.Default().ID
	}

	rules := []validator.Rule{
		validator.MaxLenString("name", in.Name, 100),
		validator.MaxLenString("bio", in.Bio, 2000),
		validator.OptionalURL("avatar_url", in.AvatarURL),
		validator.InListString("template", in.Template, s.catalog.IDs()),
	}
	if in.Username != "" {
		rules = append(rules, validator.ValidUsername("username", in.Username))
	}
	rules = append(rules, in.Socials.rules()...)
	if err := validator.Apply(rules...); err != nil {
		return User{}, err
	}

	user, err := s.users.UpdateProfile(ctx, actor, in)
	if err != nil {
		return User{}, wrapRepo(err)
	}
	s.logger.InfoContext(ctx, "profile updated", logger.UserID(actor.String()))
	return user, nil
}

// SuggestUsername proposes a free username for actor derived from the
// profile name or the email local part.
func (s *Service) SuggestUsername(ctx context.Context, actor uuid.UUID) (string, error) {
	user, err := s.users.GetByID(ctx, actor)
	if err != nil {
		return "", wrapRepo(err)
	}

	source := user.Name
	if source == "" {
		source, _, _ = strings.Cut(user.Email, "@")
	}
	base := slug.Make(source, slug.MaxLength(usernameMaxLength-suggestionSuffix-1))
	if len(base) < usernameMinLength {
		base = "folio"
	}

	candidate := base
	for range suggestionAttempts {
		taken, err := s.users.GetByUsername(ctx, candidate)
		switch {
		case errors.Is(err, ErrNotFound):
			return candidate, nil
		case err != nil:
			return "", wrapRepo(err)
		case taken.ID == actor:
			return candidate, nil
		}
		candidate = slug.Make(base, slug.WithSuffix(suggestionSuffix), slug.MaxLength(usernameMaxLength))
	}
	return "", ErrUsernameTaken
}

// DeleteAccount removes actor and everything it owns. Nothing is removed
// when any step fails.
func (s *Service) DeleteAccount(ctx context.Context, actor uuid.UUID) error {
	if actor == uuid.Nil {
		return ErrForbidden
	}
	if err := s.users.DeleteAccount(ctx, actor); err != nil {
		return wrapRepo(err)
	}
	s.logger.InfoContext(ctx, "account deleted", logger.UserID(actor.String()), logger.Event("account.deleted"))
	return nil
}

// PublicPortfolio loads the public page data for username.
func (s *Service) PublicPortfolio(ctx context.Context, username string) (Portfolio, error) {
	username = normalizeUsername(username)
	if username == "" {
		return Portfolio{}, ErrNotFound
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return Portfolio{}, wrapRepo(err)
	}

	p := Portfolio{User: user, Template: s.catalog.Resolve(user.Template)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.Projects, err = s.Projects.List(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Education, err = s.Education.List(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Experience, err = s.Experience.List(gctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Portfolio{}, err
	}

	// Public pages never expose the sign-in email.
	p.User.Email = ""
	return p, nil
}

const (
	usernameMinLength  = 3
	usernameMaxLength  = 32
	suggestionSuffix   = 4
	suggestionAttempts = 5
)

func normalizeUsername(s string) string {
	return slug.Make(s, slug.MaxLength(usernameMaxLength))
}

// IsNotFound reports whether err means the target does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
