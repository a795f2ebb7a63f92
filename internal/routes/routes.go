// Package routes loads, validates, and resolves the route configuration
// that binds content folders to field schemas.
package routes

import (
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/schema"
	pkgconfig "github.com/starford/raido/pkg/config"
)

// ConfigError reports an invalid route configuration. It is fatal to the
// call that requested it.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "routes: invalid configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NotFoundError reports a request for a route name absent from the
// configuration.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("routes: route %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return apperr.ErrNotFound }

// File is the on-disk shape of the routes configuration.
type File struct {
	Routes []Route `yaml:"routes"`
}

// Route binds a URL path and a content folder to an ordered field schema.
type Route struct {
	Name   string      `yaml:"name" json:"name"`
	Path   string      `yaml:"path" json:"path"`
	Folder string      `yaml:"folder" json:"folder"`
	Fields []FieldSpec `yaml:"fields" json:"fields"`
}

// Validate checks the route shape.
func (r Route) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Folder, validation.Required),
		validation.Field(&r.Fields),
	)
}

// Schema returns the route's ordered field descriptors.
func (r *Route) Schema() []schema.Field {
	out := make([]schema.Field, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Schema()
	}
	return out
}

// FieldSpec is the configuration shape of one schema field.
type FieldSpec struct {
	Name     string `yaml:"name" json:"name"`
	Kind     string `yaml:"kind" json:"kind"`
	Required bool   `yaml:"required" json:"required"`
	ItemKind string `yaml:"item_kind,omitempty" json:"item_kind,omitempty"`
}

// Validate checks the field shape.
func (f FieldSpec) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
	)
}

// Schema converts the configuration shape into a compiled field descriptor.
// Unrecognized kind strings become the opaque Unknown kind rather than a
// load failure; the validator accepts any value for them.
func (f FieldSpec) Schema() schema.Field {
	return schema.Field{
		Name:     f.Name,
		Kind:     schema.ParseKind(f.Kind),
		Required: f.Required,
		ItemKind: schema.ParseKind(f.ItemKind),
	}
}

// Registry holds the validated route set and its lookup tables.
type Registry struct {
	routes []Route
	byName map[string]*Route
}

// NewRegistry validates the route list and builds the registry. Duplicate
// route names and duplicate field names within a route are rejected.
func NewRegistry(list []Route) (*Registry, error) {
	reg := &Registry{
		routes: list,
		byName: make(map[string]*Route, len(list)),
	}
	for i := range reg.routes {
		r := &reg.routes[i]
		if err := r.Validate(); err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("route %q: %w", r.Name, err)}
		}
		if _, dup := reg.byName[r.Name]; dup {
			return nil, &ConfigError{Err: fmt.Errorf("duplicate route name %q", r.Name)}
		}
		seen := make(map[string]struct{}, len(r.Fields))
		for _, f := range r.Fields {
			if _, dup := seen[f.Name]; dup {
				return nil, &ConfigError{Err: fmt.Errorf("route %q: duplicate field %q", r.Name, f.Name)}
			}
			seen[f.Name] = struct{}{}
		}
		reg.byName[r.Name] = r
	}
	return reg, nil
}

// Load reads the routes file with strict decoding (unknown keys rejected)
// and validates it.
func Load(path string) (*Registry, error) {
	var file File
	if err := pkgconfig.LoadStrict(path, &file); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return NewRegistry(file.Routes)
}

// Get returns the route with the given name.
func (g *Registry) Get(name string) (*Route, error) {
	r, ok := g.byName[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return r, nil
}

// All returns every configured route in declaration order.
func (g *Registry) All() []Route {
	return g.routes
}

// RouteForPath maps a content-relative file path to the route owning its
// folder. The longest matching folder prefix wins.
func (g *Registry) RouteForPath(rel string) (*Route, bool) {
	rel = filepath.ToSlash(rel)
	var best *Route
	bestLen := -1
	for i := range g.routes {
		r := &g.routes[i]
		folder := strings.Trim(filepath.ToSlash(r.Folder), "/")
		if !strings.HasPrefix(rel, folder+"/") {
			continue
		}
		if len(folder) > bestLen {
			best = r
			bestLen = len(folder)
		}
	}
	return best, best != nil
}
