package portfolio_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/svc/portfolio"
)

func TestMemoryRepositoryDeleteAccountCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := portfolio.NewService(portfolio.NewMemoryRepository())

	ada, err := svc.EnsureUser(ctx, "ada@example.com", "Ada", "")
	require.NoError(t, err)
	bob, err := svc.EnsureUser(ctx, "bob@example.com", "Bob", "")
	require.NoError(t, err)

	adaProject, err := svc.Projects.Create(ctx, ada.ID, portfolio.Project{ProjectDetails: portfolio.ProjectDetails{Title: "Engine"}})
	require.NoError(t, err)
	_, err = svc.Education.Create(ctx, ada.ID, portfolio.Education{EducationDetails: portfolio.EducationDetails{School: "UCL", StartYear: 2001}})
	require.NoError(t, err)
	_, err = svc.Experience.Create(ctx, ada.ID, portfolio.Experience{ExperienceDetails: portfolio.ExperienceDetails{
		Company: "Analytical", Role: "Programmer", StartDate: time.Date(1842, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	_, err = svc.Projects.Create(ctx, bob.ID, portfolio.Project{ProjectDetails: portfolio.ProjectDetails{Title: "Bridge"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, ada.ID))

	_, err = svc.Profile(ctx, ada.ID)
	require.ErrorIs(t, err, portfolio.ErrNotFound)
	_, err = svc.Projects.Get(ctx, ada.ID, adaProject.ID)
	require.ErrorIs(t, err, portfolio.ErrNotFound)
	for _, list := range []func() (int, error){
		func() (int, error) { l, err := svc.Education.List(ctx, ada.ID); return len(l), err },
		func() (int, error) { l, err := svc.Experience.List(ctx, ada.ID); return len(l), err },
	} {
		n, err := list()
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	bobProjects, err := svc.Projects.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobProjects, 1)
}

func TestMemoryRepositoryUsernames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := portfolio.NewService(portfolio.NewMemoryRepository())

	ada, err := svc.EnsureUser(ctx, "ada@example.com", "", "")
	require.NoError(t, err)
	bob, err := svc.EnsureUser(ctx, "bob@example.com", "", "")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, ada.ID, portfolio.ProfileInput{Username: "ada"})
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, bob.ID, portfolio.ProfileInput{Username: "ADA"})
	require.ErrorIs(t, err, portfolio.ErrUsernameTaken)

	page, err := svc.PublicPortfolio(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, ada.ID, page.User.ID)
	assert.Empty(t, page.User.Email)
}
