package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// Users persists portfolio owners.
type Users interface {
	// UpsertByEmail creates the user for email or returns the existing one.
	// Name and avatar only fill fields that are still empty.
	UpsertByEmail(ctx context.Context, email, name, avatarURL string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	// UpdateProfile returns ErrUsernameTaken on a username conflict.
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (User, error)
	// DeleteAccount removes the user and every owned resource atomically.
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// Collection persists one resource kind. For unowned kinds the owner
// arguments are ignored. Get, Update and Delete return ErrNotFound for an
// unknown id.
type Collection[T any] interface {
	List(ctx context.Context, owner uuid.UUID) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	Create(ctx context.Context, owner uuid.UUID, item T) (T, error)
	Update(ctx context.Context, id uuid.UUID, item T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository groups the stores the service works with.
type Repository struct {
	Users             Users
	Projects          Collection[Project]
	Education         Collection[Education]
	Experience        Collection[Experience]
	ShowcaseProjects  Collection[ShowcaseProject]
	ShowcaseEducation Collection[ShowcaseEducation]
}
