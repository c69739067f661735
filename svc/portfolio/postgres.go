package portfolio

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/folio/pkg/pg"
)

// Migrations holds the goose migrations for the Postgres repository.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	pg.TxBeginner
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NewPostgresRepository wires every store to db.
func NewPostgresRepository(db DB) Repository {
	return Repository{
		Users:             &pgUsers{db: db},
		Projects:          &pgCollection[Project]{db: db, t: projectsTable},
		Education:         &pgCollection[Education]{db: db, t: educationTable},
		Experience:        &pgCollection[Experience]{db: db, t: experienceTable},
		ShowcaseProjects:  &pgCollection[ShowcaseProject]{db: db, t: showcaseProjectsTable},
		ShowcaseEducation: &pgCollection[ShowcaseEducation]{db: db, t: showcaseEducationTable},
	}
}

// ownedTables are emptied before their user row is removed.
var ownedTables = []string{"projects", "education", "experience"}

type pgUsers struct {
	db DB
}

const upsertUserQuery = `
	INSERT INTO users (email, name, avatar_url)
	VALUES ($1, $2, $3)
	ON CONFLICT (email) DO UPDATE SET
		name = CASE WHEN users.name = '' THEN EXCLUDED.name ELSE users.name END,
		avatar_url = CASE WHEN users.avatar_url = '' THEN EXCLUDED.avatar_url ELSE users.avatar_url END,
		updated_at = now()
	RETURNING *`

const updateProfileQuery = `
	UPDATE users SET
		username = $2, name = $3, bio = $4, avatar_url = $5, template = $6, socials = $7,
		updated_at = now()
	WHERE id = $1
	RETURNING *`

func (u *pgUsers) UpsertByEmail(ctx context.Context, email, name, avatarURL string) (User, error) {
	return u.one(ctx, upsertUserQuery, email, name, avatarURL)
}

func (u *pgUsers) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return u.one(ctx, `SELECT * FROM users WHERE id = $1`, id)
}

func (u *pgUsers) GetByEmail(ctx context.Context, email string) (User, error) {
	return u.one(ctx, `SELECT * FROM users WHERE email = $1`, email)
}

func (u *pgUsers) GetByUsername(ctx context.Context, username string) (User, error) {
	return u.one(ctx, `SELECT * FROM users WHERE username = $1`, username)
}

func (u *pgUsers) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (User, error) {
	var username *string
	if in.Username != "" {
		username = &in.Username
	}
	user, err := u.one(ctx, updateProfileQuery, id, username, in.Name, in.Bio, in.AvatarURL, in.Template, in.Socials)
	if pg.IsDuplicateKeyError(err) {
		return User{}, ErrUsernameTaken
	}
	return user, err
}

func (u *pgUsers) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return pg.WithTx(ctx, u.db, func(tx pgx.Tx) error {
		for _, table := range ownedTables {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", id); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (u *pgUsers) one(ctx context.Context, sql string, args ...any) (User, error) {
	rows, err := u.db.Query(ctx, sql, args...)
	if err != nil {
		return User{}, err
	}
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[User])
	if err != nil {
		return User{}, notFound(err)
	}
	return user, nil
}

// table describes how a resource kind maps to its table. columns and
// values cover the editable fields only; ids and timestamps come from
// column defaults.
type table[T any] struct {
	name    string
	owned   bool
	columns []string
	values  func(T) []any
}

type pgCollection[T any] struct {
	db DB
	t  table[T]
}

func (c *pgCollection[T]) List(ctx context.Context, owner uuid.UUID) ([]T, error) {
	sql := "SELECT * FROM " + c.t.name
	var args []any
	if c.t.owned {
		sql += " WHERE user_id = $1"
		args = append(args, owner)
	}
	sql += " ORDER BY position, created_at"

	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

func (c *pgCollection[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	return c.one(ctx, "SELECT * FROM "+c.t.name+" WHERE id = $1", id)
}

func (c *pgCollection[T]) Create(ctx context.Context, owner uuid.UUID, item T) (T, error) {
	columns := c.t.columns
	args := c.t.values(item)
	if c.t.owned {
		columns = append([]string{"user_id"}, columns...)
		args = append([]any{owner}, args...)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		c.t.name, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return c.one(ctx, sql, args...)
}

func (c *pgCollection[T]) Update(ctx context.Context, id uuid.UUID, item T) (T, error) {
	set := make([]string, len(c.t.columns))
	for i, col := range c.t.columns {
		set[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	sql := fmt.Sprintf("UPDATE %s SET %s, updated_at = now() WHERE id = $1 RETURNING *",
		c.t.name, strings.Join(set, ", "))
	return c.one(ctx, sql, append([]any{id}, c.t.values(item)...)...)
}

func (c *pgCollection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := c.db.Exec(ctx, "DELETE FROM "+c.t.name+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *pgCollection[T]) one(ctx context.Context, sql string, args ...any) (T, error) {
	var zero T
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, notFound(err)
	}
	return item, nil
}

func notFound(err error) error {
	if pg.IsNotFoundError(err) {
		return ErrNotFound
	}
	return err
}

var (
	projectColumns   = []string{"title", "description", "url", "repo_url", "image_url", "tags", "position"}
	educationColumns = []string{"school", "degree", "field", "start_year", "end_year", "description", "position"}
)

func projectValues(d ProjectDetails) []any {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return []any{d.Title, d.Description, d.URL, d.RepoURL, d.ImageURL, tags, d.Position}
}

func educationValues(d EducationDetails) []any {
	return []any{d.School, d.Degree, d.Field, d.StartYear, d.EndYear, d.Description, d.Position}
}

var (
	projectsTable = table[Project]{
		name: "projects", owned: true, columns: projectColumns,
		values: func(p Project) []any { return projectValues(p.ProjectDetails) },
	}
	showcaseProjectsTable = table[ShowcaseProject]{
		name: "showcase_projects", columns: projectColumns,
		values: func(p ShowcaseProject) []any { return projectValues(p.ProjectDetails) },
	}
	educationTable = table[Education]{
		name: "education", owned: true, columns: educationColumns,
		values: func(e Education) []any { return educationValues(e.EducationDetails) },
	}
	showcaseEducationTable = table[ShowcaseEducation]{
		name: "showcase_education", columns: educationColumns,
		values: func(e ShowcaseEducation) []any { return educationValues(e.EducationDetails) },
	}
	experienceTable = table[Experience]{
		name:    "experience",
		owned:   true,
		columns: []string{"company", "role", "location", "description", "start_date", "end_date", "position"},
		values: func(e Experience) []any {
			d := e.ExperienceDetails
			return []any{d.Company, d.Role, d.Location, d.Description, d.StartDate, d.EndDate, d.Position}
		},
	}
)
