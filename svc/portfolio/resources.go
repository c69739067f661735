package portfolio

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Owned is a resource that belongs to a user.
type Owned interface {
	OwnerID() uuid.UUID
	Validate() error
}

// OwnedResources enforces ownership on one resource kind. Reads and writes
// of another user's resource fail with ErrForbidden; nothing is changed.
type OwnedResources[T Owned] struct {
	store Collection[T]
}

func NewOwnedResources[T Owned](store Collection[T]) *OwnedResources[T] {
	return &OwnedResources[T]{store: store}
}

func (o *OwnedResources[T]) List(ctx context.Context, actor uuid.UUID) ([]T, error) {
	items, err := o.store.List(ctx, actor)
	return items, wrapRepo(err)
}

func (o *OwnedResources[T]) Get(ctx context.Context, actor, id uuid.UUID) (T, error) {
	return o.owned(ctx, actor, id)
}

func (o *OwnedResources[T]) Create(ctx context.Context, actor uuid.UUID, item T) (T, error) {
	var zero T
	if actor == uuid.Nil {
		return zero, ErrForbidden
	}
	if err := item.Validate(); err != nil {
		return zero, err
	}
	created, err := o.store.Create(ctx, actor, item)
	return created, wrapRepo(err)
}

func (o *OwnedResources[T]) Update(ctx context.Context, actor, id uuid.UUID, item T) (T, error) {
	var zero T
	if _, err := o.owned(ctx, actor, id); err != nil {
		return zero, err
	}
	if err := item.Validate(); err != nil {
		return zero, err
	}
	updated, err := o.store.Update(ctx, id, item)
	return updated, wrapRepo(err)
}

func (o *OwnedResources[T]) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := o.owned(ctx, actor, id); err != nil {
		return err
	}
	return wrapRepo(o.store.Delete(ctx, id))
}

func (o *OwnedResources[T]) owned(ctx context.Context, actor, id uuid.UUID) (T, error) {
	var zero T
	item, err := o.store.Get(ctx, id)
	if err != nil {
		return zero, wrapRepo(err)
	}
	if actor == uuid.Nil || item.OwnerID() != actor {
		return zero, ErrForbidden
	}
	return item, nil
}

// Validatable is a resource checked before it is written.
type Validatable interface {
	Validate() error
}

// AdminResources manages an unowned resource kind. Callers must hold the
// admin grant.
type AdminResources[T Validatable] struct {
	store Collection[T]
}

func NewAdminResources[T Validatable](store Collection[T]) *AdminResources[T] {
	return &AdminResources[T]{store: store}
}

func (a *AdminResources[T]) List(ctx context.Context) ([]T, error) {
	items, err := a.store.List(ctx, uuid.Nil)
	return items, wrapRepo(err)
}

func (a *AdminResources[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	item, err := a.store.Get(ctx, id)
	return item, wrapRepo(err)
}

func (a *AdminResources[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := item.Validate(); err != nil {
		return zero, err
	}
	created, err := a.store.Create(ctx, uuid.Nil, item)
	return created, wrapRepo(err)
}

func (a *AdminResources[T]) Update(ctx context.Context, id uuid.UUID, item T) (T, error) {
	var zero T
	if err := item.Validate(); err != nil {
		return zero, err
	}
	updated, err := a.store.Update(ctx, id, item)
	return updated, wrapRepo(err)
}

func (a *AdminResources[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return wrapRepo(a.store.Delete(ctx, id))
}

// wrapRepo keeps domain errors and marks everything else as a repository
// failure.
func wrapRepo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrUsernameTaken):
		return err
	default:
		return errors.Join(ErrRepository, err)
	}
}
