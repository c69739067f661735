package portfolio

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryDB backs NewMemoryRepository. One mutex covers every collection so
// DeleteAccount is atomic.
type memoryDB struct {
	mu     sync.RWMutex
	now    func() time.Time
	purges []func(owner uuid.UUID)
}

// NewMemoryRepository returns a Repository kept in process memory, for
// development and tests.
func NewMemoryRepository() Repository {
	db := &memoryDB{now: time.Now}
	return Repository{
		Users: &memUsers{db: db, byID: make(map[uuid.UUID]User)},
		Projects: newMemCollection(db, true, func(p Project) uuid.UUID { return p.UserID },
			func(p Project, id, owner uuid.UUID, created, updated time.Time) Project {
				p.ID, p.UserID, p.CreatedAt, p.UpdatedAt = id, owner, created, updated
				return p
			}, func(p Project) (uuid.UUID, time.Time, int) { return p.ID, p.CreatedAt, p.Position }),
		Education: newMemCollection(db, true, func(e Education) uuid.UUID { return e.UserID },
			func(e Education, id, owner uuid.UUID, created, updated time.Time) Education {
				e.ID, e.UserID, e.CreatedAt, e.UpdatedAt = id, owner, created, updated
				return e
			}, func(e Education) (uuid.UUID, time.Time, int) { return e.ID, e.CreatedAt, e.Position }),
		Experience: newMemCollection(db, true, func(e Experience) uuid.UUID { return e.UserID },
			func(e Experience, id, owner uuid.UUID, created, updated time.Time) Experience {
				e.ID, e.UserID, e.CreatedAt, e.UpdatedAt = id, owner, created, updated
				return e
			}, func(e Experience) (uuid.UUID, time.Time, int) { return e.ID, e.CreatedAt, e.Position }),
		ShowcaseProjects: newMemCollection(db, false, nil,
			func(p ShowcaseProject, id, _ uuid.UUID, created, updated time.Time) ShowcaseProject {
				p.ID, p.CreatedAt, p.UpdatedAt = id, created, updated
				return p
			}, func(p ShowcaseProject) (uuid.UUID, time.Time, int) { return p.ID, p.CreatedAt, p.Position }),
		ShowcaseEducation: newMemCollection(db, false, nil,
			func(e ShowcaseEducation, id, _ uuid.UUID, created, updated time.Time) ShowcaseEducation {
				e.ID, e.CreatedAt, e.UpdatedAt = id, created, updated
				return e
			}, func(e ShowcaseEducation) (uuid.UUID, time.Time, int) { return e.ID, e.CreatedAt, e.Position }),
	}
}

type memUsers struct {
	db   *memoryDB
	byID map[uuid.UUID]User
}

func (u *memUsers) UpsertByEmail(_ context.Context, email, name, avatarURL string) (User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	now := u.db.now()
	for id, existing := range u.byID {
		if existing.Email != email {
			continue
		}
		if existing.Name == "" {
			existing.Name = name
		}
		if existing.AvatarURL == "" {
			existing.AvatarURL = avatarURL
		}
		existing.UpdatedAt = now
		u.byID[id] = existing
		return existing, nil
	}

	user := User{ID: uuid.New(), Email: email, Name: name, AvatarURL: avatarURL, Template: "minimal", CreatedAt: now, UpdatedAt: now}
	u.byID[user.ID] = user
	return user, nil
}

func (u *memUsers) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	user, ok := u.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (u *memUsers) GetByEmail(_ context.Context, email string) (User, error) {
	return u.find(func(user User) bool { return user.Email == email })
}

func (u *memUsers) GetByUsername(_ context.Context, username string) (User, error) {
	return u.find(func(user User) bool { return user.Username != nil && *user.Username == username })
}

func (u *memUsers) find(match func(User) bool) (User, error) {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	for _, user := range u.byID {
		if match(user) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (u *memUsers) UpdateProfile(_ context.Context, id uuid.UUID, in ProfileInput) (User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	user, ok := u.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	var username *string
	if in.Username != "" {
		for otherID, other := range u.byID {
			if otherID != id && other.Username != nil && strings.EqualFold(*other.Username, in.Username) {
				return User{}, ErrUsernameTaken
			}
		}
		username = &in.Username
	}

	user.Username = username
	user.Name, user.Bio, user.AvatarURL, user.Template, user.Socials = in.Name, in.Bio, in.AvatarURL, in.Template, in.Socials
	user.UpdatedAt = u.db.now()
	u.byID[id] = user
	return user, nil
}

func (u *memUsers) DeleteAccount(_ context.Context, id uuid.UUID) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	if _, ok := u.byID[id]; !ok {
		return ErrNotFound
	}
	for _, purge := range u.db.purges {
		purge(id)
	}
	delete(u.byID, id)
	return nil
}

type memCollection[T any] struct {
	db    *memoryDB
	owned bool
	owner func(T) uuid.UUID
	stamp func(item T, id, owner uuid.UUID, created, updated time.Time) T
	key   func(T) (id uuid.UUID, created time.Time, position int)
	items map[uuid.UUID]T
}

func newMemCollection[T any](
	db *memoryDB,
	owned bool,
	owner func(T) uuid.UUID,
	stamp func(T, uuid.UUID, uuid.UUID, time.Time, time.Time) T,
	key func(T) (uuid.UUID, time.Time, int),
) *memCollection[T] {
	c := &memCollection[T]{db: db, owned: owned, owner: owner, stamp: stamp, key: key, items: make(map[uuid.UUID]T)}
	if owned {
		db.purges = append(db.purges, func(id uuid.UUID) {
			maps.DeleteFunc(c.items, func(_ uuid.UUID, item T) bool { return c.owner(item) == id })
		})
	}
	return c
}

func (c *memCollection[T]) List(_ context.Context, owner uuid.UUID) ([]T, error) {
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()

	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if !c.owned || c.owner(item) == owner {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b T) int {
		_, ac, ap := c.key(a)
		_, bc, bp := c.key(b)
		if ap != bp {
			return ap - bp
		}
		return ac.Compare(bc)
	})
	return out, nil
}

func (c *memCollection[T]) Get(_ context.Context, id uuid.UUID) (T, error) {
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return item, nil
}

func (c *memCollection[T]) Create(_ context.Context, owner uuid.UUID, item T) (T, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	now := c.db.now()
	item = c.stamp(item, uuid.New(), owner, now, now)
	id, _, _ := c.key(item)
	c.items[id] = item
	return item, nil
}

func (c *memCollection[T]) Update(_ context.Context, id uuid.UUID, item T) (T, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	existing, ok := c.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	var owner uuid.UUID
	if c.owned {
		owner = c.owner(existing)
	}
	_, created, _ := c.key(existing)
	item = c.stamp(item, id, owner, created, c.db.now())
	c.items[id] = item
	return item, nil
}

func (c *memCollection[T]) Delete(_ context.Context, id uuid.UUID) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	return nil
}
