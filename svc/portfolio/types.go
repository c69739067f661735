package portfolio

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/folio/pkg/validator"
)

// Socials are the profile's external links.
type Socials struct {
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

func (s Socials) rules() []validator.Rule {
	return []validator.Rule{
		validator.OptionalURL("socials.github", s.GitHub),
		validator.OptionalURL("socials.linkedin", s.LinkedIn),
		validator.OptionalURL("socials.twitter", s.Twitter),
		validator.OptionalURL("socials.website", s.Website),
	}
}

// User is a portfolio owner. Email joins it to the sign-in identity;
// Username is chosen during onboarding and may be unset.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Username  *string   `json:"username,omitempty" db:"username"`
	Name      string    `json:"name" db:"name"`
	Bio       string    `json:"bio" db:"bio"`
	AvatarURL string    `json:"avatar_url" db:"avatar_url"`
	Template  string    `json:"template" db:"template"`
	Socials   Socials   `json:"socials" db:"socials"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileInput is the editable part of a User. An empty Username clears it.
type ProfileInput struct {
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	Bio       string  `json:"bio"`
	AvatarURL string  `json:"avatar_url"`
	Template  string  `json:"template"`
	Socials   Socials `json:"socials"`
}

// ProjectDetails are the editable fields shared by user and showcase projects.
type ProjectDetails struct {
	Title       string   `json:"title" db:"title"`
	Description string   `json:"description" db:"description"`
	URL         string   `json:"url" db:"url"`
	RepoURL     string   `json:"repo_url" db:"repo_url"`
	ImageURL    string   `json:"image_url" db:"image_url"`
	Tags        []string `json:"tags" db:"tags"`
	Position    int      `json:"position" db:"position"`
}

func (d ProjectDetails) Validate() error {
	return validator.Apply(
		validator.RequiredString("title", d.Title),
		validator.MaxLenString("title", d.Title, 120),
		validator.MaxLenString("description", d.Description, 5000),
		validator.OptionalURL("url", d.URL),
		validator.OptionalURL("repo_url", d.RepoURL),
		validator.OptionalURL("image_url", d.ImageURL),
	)
}

type Project struct {
	ID     uuid.UUID `json:"id" db:"id"`
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	ProjectDetails
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (p Project) OwnerID() uuid.UUID { return p.UserID }

// ShowcaseProject belongs to the operator's showcase, not to a user.
type ShowcaseProject struct {
	ID uuid.UUID `json:"id" db:"id"`
	ProjectDetails
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EducationDetails are the editable fields shared by user and showcase education.
type EducationDetails struct {
	School      string `json:"school" db:"school"`
	Degree      string `json:"degree" db:"degree"`
	Field       string `json:"field" db:"field"`
	StartYear   int    `json:"start_year" db:"start_year"`
	EndYear     *int   `json:"end_year,omitempty" db:"end_year"`
	Description string `json:"description" db:"description"`
	Position    int    `json:"position" db:"position"`
}

func (d EducationDetails) Validate() error {
	rules := []validator.Rule{
		validator.RequiredString("school", d.School),
		validator.MaxLenString("school", d.School, 200),
		validator.MaxLenString("degree", d.Degree, 200),
		validator.MaxLenString("field", d.Field, 200),
		validator.MaxLenString("description", d.Description, 5000),
		{
			Check: func() bool { return d.StartYear >= 1900 && d.StartYear <= 2200 },
			Error: validator.ValidationError{Field: "start_year", Message: "must be a valid year", TranslationKey: "validation.year"},
		},
		{
			Check: func() bool { return d.EndYear == nil || *d.EndYear >= d.StartYear },
			Error: validator.ValidationError{Field: "end_year", Message: "must not be before start_year", TranslationKey: "validation.year_order"},
		},
	}
	return validator.Apply(rules...)
}

type Education struct {
	ID     uuid.UUID `json:"id" db:"id"`
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	EducationDetails
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (e Education) OwnerID() uuid.UUID { return e.UserID }

// ShowcaseEducation belongs to the operator's showcase, not to a user.
type ShowcaseEducation struct {
	ID uuid.UUID `json:"id" db:"id"`
	EducationDetails
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ExperienceDetails are the editable fields of a work experience entry.
// A nil EndDate means the position is current.
type ExperienceDetails struct {
	Company     string     `json:"company" db:"company"`
	Role        string     `json:"role" db:"role"`
	Location    string     `json:"location" db:"location"`
	Description string     `json:"description" db:"description"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	Position    int        `json:"position" db:"position"`
}

func (d ExperienceDetails) Validate() error {
	return validator.Apply(
		validator.RequiredString("company", d.Company),
		validator.RequiredString("role", d.Role),
		validator.MaxLenString("company", d.Company, 200),
		validator.MaxLenString("role", d.Role, 200),
		validator.MaxLenString("location", d.Location, 200),
		validator.MaxLenString("description", d.Description, 5000),
		validator.Rule{
			Check: func() bool { return !d.StartDate.IsZero() },
			Error: validator.ValidationError{Field: "start_date", Message: "field is required", TranslationKey: "validation.required"},
		},
		validator.Rule{
			Check: func() bool { return d.EndDate == nil || !d.EndDate.Before(d.StartDate) },
			Error: validator.ValidationError{Field: "end_date", Message: "must not be before start_date", TranslationKey: "validation.date_order"},
		},
	)
}

type Experience struct {
	ID     uuid.UUID `json:"id" db:"id"`
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	ExperienceDetails
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (e Experience) OwnerID() uuid.UUID { return e.UserID }

// Portfolio is everything a public page renders.
type Portfolio struct {
	User       User         `json:"user"`
	Template   Template     `json:"template"`
	Projects   []Project    `json:"projects"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
}
