package portfolio_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/pg"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

// Runs against a disposable database when FOLIO_TEST_PG_URL is set.
func newPostgresService(t *testing.T) *portfolio.Service {
	t.Helper()

	url := os.Getenv("FOLIO_TEST_PG_URL")
	if url == "" {
		t.Skip("FOLIO_TEST_PG_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := pg.Config{
		ConnectionString: url,
		MaxOpenConns:     4,
		RetryAttempts:    1,
		RetryInterval:    time.Second,
		MigrationsTable:  "portfolio_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, cfg, portfolio.Migrations, portfolio.MigrationsDir, logger.Discard()))

	return portfolio.NewService(portfolio.NewPostgresRepository(pool))
}

func TestPostgresRepository(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	user, err := svc.EnsureUser(ctx, email, "Ada", "")
	require.NoError(t, err)

	again, err := svc.EnsureUser(ctx, email, "Someone Else", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Ada", again.Name)

	username := "ada-" + uuid.NewString()[:8]
	_, err = svc.UpdateProfile(ctx, user.ID, portfolio.ProfileInput{Username: username, Name: "Ada"})
	require.NoError(t, err)

	other, err := svc.EnsureUser(ctx, uuid.NewString()+"@example.com", "", "")
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, other.ID, portfolio.ProfileInput{Username: username})
	require.ErrorIs(t, err, portfolio.ErrUsernameTaken)

	project, err := svc.Projects.Create(ctx, user.ID, portfolio.Project{
		ProjectDetails: portfolio.ProjectDetails{Title: "Compiler", Tags: []string{"go"}},
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, project.UserID)

	_, err = svc.Projects.Get(ctx, other.ID, project.ID)
	require.ErrorIs(t, err, portfolio.ErrForbidden)

	_, err = svc.Experience.Create(ctx, user.ID, portfolio.Experience{
		ExperienceDetails: portfolio.ExperienceDetails{Company: "Analytical", Role: "Engineer", StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	page, err := svc.PublicPortfolio(ctx, username)
	require.NoError(t, err)
	assert.Len(t, page.Projects, 1)
	assert.Len(t, page.Experience, 1)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))

	_, err = svc.Profile(ctx, user.ID)
	require.ErrorIs(t, err, portfolio.ErrNotFound)
	_, err = svc.Projects.Get(ctx, user.ID, project.ID)
	require.ErrorIs(t, err, portfolio.ErrNotFound)
	require.ErrorIs(t, svc.DeleteAccount(ctx, user.ID), portfolio.ErrNotFound)
}
