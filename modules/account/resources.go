package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

type idRequest struct {
	ID uuid.UUID `path:"id"`
}

// itemRequest is a create or update body for one resource kind.
type itemRequest[T any] interface {
	itemID() uuid.UUID
	item() T
}

type projectRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
	portfolio.ProjectDetails
}

func (r projectRequest) itemID() uuid.UUID { return r.ID }
func (r projectRequest) item() portfolio.Project {
	return portfolio.Project{ProjectDetails: r.ProjectDetails}
}

type educationRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
	portfolio.EducationDetails
}

func (r educationRequest) itemID() uuid.UUID { return r.ID }
func (r educationRequest) item() portfolio.Education {
	return portfolio.Education{EducationDetails: r.EducationDetails}
}

type experienceRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
	portfolio.ExperienceDetails
}

func (r experienceRequest) itemID() uuid.UUID { return r.ID }
func (r experienceRequest) item() portfolio.Experience {
	return portfolio.Experience{ExperienceDetails: r.ExperienceDetails}
}

// mountOwned registers list, get, create, update and delete for one kind.
// Every call acts on behalf of the session user.
func mountOwned[T portfolio.Owned, R itemRequest[T]](r chi.Router, m *Module, path string, res *portfolio.OwnedResources[T]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", wrap(m, func(ctx handler.Context, _ noRequest) handler.Response {
			g, err := actor(ctx)
			if err != nil {
				return handler.Error(err)
			}
			items, err := res.List(ctx, g.UserID)
			if err != nil {
				return handler.Error(err)
			}
			return handler.JSON(items)
		}))

		r.Post("/", wrap(m, func(ctx handler.Context, req R) handler.Response {
			g, err := actor(ctx)
			if err != nil {
				return handler.Error(err)
			}
			created, err := res.Create(ctx, g.UserID, req.item())
			if err != nil {
				return handler.Error(err)
			}
			return handler.JSON(created, handler.WithJSONStatus(http.StatusCreated))
		}, jsonBinder()))

		r.Get("/{id}", wrap(m, func(ctx handler.Context, req idRequest) handler.Response {
			g, err := actor(ctx)
			if err != nil {
				return handler.Error(err)
			}
			item, err := res.Get(ctx, g.UserID, req.ID)
			if err != nil {
				return handler.Error(err)
			}
			return handler.JSON(item)
		}, pathBinder()))

		r.Put("/{id}", wrap(m, func(ctx handler.Context, req R) handler.Response {
			g, err := actor(ctx)
			if err != nil {
				return handler.Error(err)
			}
			updated, err := res.Update(ctx, g.UserID, req.itemID(), req.item())
			if err != nil {
				return handler.Error(err)
			}
			return handler.JSON(updated)
		}, pathBinder(), jsonBinder()))

		r.Delete("/{id}", wrap(m, func(ctx handler.Context, req idRequest) handler.Response {
			g, err := actor(ctx)
			if err != nil {
				return handler.Error(err)
			}
			if err := res.Delete(ctx, g.UserID, req.ID); err != nil {
				return handler.Error(err)
			}
			return handler.Empty()
		}, pathBinder()))
	})
}
