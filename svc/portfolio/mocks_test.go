package portfolio_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/folio/svc/portfolio"
)

// MockUsers is a mock implementation of portfolio.Users.
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) UpsertByEmail(ctx context.Context, email, name, avatarURL string) (portfolio.User, error) {
	args := m.Called(ctx, email, name, avatarURL)
	return args.Get(0).(portfolio.User), args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id uuid.UUID) (portfolio.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(portfolio.User), args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (portfolio.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(portfolio.User), args.Error(1)
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (portfolio.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(portfolio.User), args.Error(1)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, id uuid.UUID, in portfolio.ProfileInput) (portfolio.User, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(portfolio.User), args.Error(1)
}

func (m *MockUsers) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCollection is a mock implementation of portfolio.Collection.
type MockCollection[T any] struct {
	mock.Mock
}

func (m *MockCollection[T]) List(ctx context.Context, owner uuid.UUID) ([]T, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockCollection[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockCollection[T]) Create(ctx context.Context, owner uuid.UUID, item T) (T, error) {
	args := m.Called(ctx, owner, item)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockCollection[T]) Update(ctx context.Context, id uuid.UUID, item T) (T, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockCollection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mocks struct {
	users             *MockUsers
	projects          *MockCollection[portfolio.Project]
	education         *MockCollection[portfolio.Education]
	experience        *MockCollection[portfolio.Experience]
	showcaseProjects  *MockCollection[portfolio.ShowcaseProject]
	showcaseEducation *MockCollection[portfolio.ShowcaseEducation]
}

func newMocks() *mocks {
	return &mocks{
		users:             &MockUsers{},
		projects:          &MockCollection[portfolio.Project]{},
		education:         &MockCollection[portfolio.Education]{},
		experience:        &MockCollection[portfolio.Experience]{},
		showcaseProjects:  &MockCollection[portfolio.ShowcaseProject]{},
		showcaseEducation: &MockCollection[portfolio.ShowcaseEducation]{},
	}
}

func (m *mocks) repository() portfolio.Repository {
	return portfolio.Repository{
		Users:             m.users,
		Projects:          m.projects,
		Education:         m.education,
		Experience:        m.experience,
		ShowcaseProjects:  m.showcaseProjects,
		ShowcaseEducation: m.showcaseEducation,
	}
}

func (m *mocks) service() *portfolio.Service {
	return portfolio.NewService(m.repository())
}
