package portfolio

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultCatalog []byte

// Template describes a selectable public layout.
type Template struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Default     bool   `yaml:"default" json:"default"`
}

// Catalog is the set of available templates.
type Catalog struct {
	templates []Template
	byID      map[string]Template
	def       Template
}

// LoadCatalog parses a catalog document. Ids must be unique and exactly one
// template must be the default.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrCatalog, err)
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("%w: no templates", ErrCatalog)
	}

	c := &Catalog{templates: doc.Templates, byID: make(map[string]Template, len(doc.Templates))}
	defaults := 0
	for _, t := range doc.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: template without id", ErrCatalog)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate template %q", ErrCatalog, t.ID)
		}
		c.byID[t.ID] = t
		if t.Default {
			c.def = t
			defaults++
		}
	}
	if defaults != 1 {
		return nil, fmt.Errorf("%w: want exactly one default template, got %d", ErrCatalog, defaults)
	}
	return c, nil
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) All() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.templates))
	for i, t := range c.templates {
		ids[i] = t.ID
	}
	return ids
}

func (c *Catalog) Default() Template { return c.def }

// Resolve returns the template with id, or the default when id is unknown
// or empty.
func (c *Catalog) Resolve(id string) Template {
	if t, ok := c.byID[id]; ok {
		return t
	}
	return c.def
}
