// Package docservice coordinates storage, routes, and the document pipeline.
package docservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/render"
	"github.com/starford/raido/internal/routes"
	"github.com/starford/raido/internal/schema"
	"github.com/starford/raido/internal/storage"
)

// DocumentDetail is the full representation of a processed document.
type DocumentDetail struct {
	Route     string          `json:"route"`
	Path      string          `json:"path"`
	Metadata  schema.Metadata `json:"metadata"`
	Nodes     []parser.Node   `json:"nodes"`
	Content   string          `json:"content"`
	Checksum  string          `json:"checksum"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response. Invalid
// documents are listed rather than hidden; Error carries the reason.
type DocumentListItem struct {
	Path      string    `json:"path"`
	Valid     bool      `json:"valid"`
	Error     string    `json:"error,omitempty"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Diagnostic is one per-document check failure.
type Diagnostic struct {
	Route string `json:"route"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Service runs the document pipeline against a content store.
type Service struct {
	store storage.Provider
	reg   *routes.Registry
}

// NewService creates a new document service.
func NewService(store storage.Provider, reg *routes.Registry) *Service {
	return &Service{store: store, reg: reg}
}

// docPath resolves a document name inside the route's folder.
func docPath(route *routes.Route, name string) string {
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return path.Join(route.Folder, name)
}

// invalid tags a pipeline failure with the sentinel the API layer maps to
// 422, keeping the typed errors matchable underneath.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
}

// Get reads a document and runs it through the full pipeline.
func (s *Service) Get(_ context.Context, routeName, name string) (*DocumentDetail, error) {
	route, err := s.reg.Get(routeName)
	if err != nil {
		return nil, err
	}
	p := docPath(route, name)
	data, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	doc, err := document.Process(string(data), route.Schema())
	if err != nil {
		return nil, invalid(err)
	}
	return &DocumentDetail{
		Route:     route.Name,
		Path:      p,
		Metadata:  doc.Meta,
		Nodes:     doc.Nodes,
		Content:   string(data),
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}, nil
}

// List returns every document of a route with a per-document validity flag.
func (s *Service) List(_ context.Context, routeName string) ([]DocumentListItem, error) {
	route, err := s.reg.Get(routeName)
	if err != nil {
		return nil, err
	}
	metas, err := s.store.List(route.Folder)
	if err != nil {
		return nil, err
	}
	items := make([]DocumentListItem, 0, len(metas))
	for _, m := range metas {
		item := DocumentListItem{
			Path:      m.Path,
			Valid:     true,
			Checksum:  m.Checksum,
			UpdatedAt: m.UpdatedAt,
		}
		data, readErr := s.store.Read(m.Path)
		if readErr != nil {
			item.Valid = false
			item.Error = readErr.Error()
		} else if _, perr := document.Process(string(data), route.Schema()); perr != nil {
			item.Valid = false
			item.Error = perr.Error()
		}
		items = append(items, item)
	}
	return items, nil
}

// Create writes a new document. The incoming text runs through the full
// pipeline first; nothing that fails validation is ever written.
func (s *Service) Create(ctx context.Context, routeName, name string, content []byte) (*DocumentDetail, error) {
	route, err := s.reg.Get(routeName)
	if err != nil {
		return nil, err
	}
	if _, err := document.Process(string(content), route.Schema()); err != nil {
		return nil, invalid(err)
	}
	p := docPath(route, name)
	if _, err := s.store.Read(p); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(p, content); err != nil {
		return nil, err
	}
	return s.Get(ctx, routeName, name)
}

// Update overwrites a document with optimistic concurrency. ifMatch, when
// non-empty, must equal the checksum of the current content.
func (s *Service) Update(ctx context.Context, routeName, name string, content []byte, ifMatch string) (*DocumentDetail, error) {
	route, err := s.reg.Get(routeName)
	if err != nil {
		return nil, err
	}
	if _, err := document.Process(string(content), route.Schema()); err != nil {
		return nil, invalid(err)
	}
	p := docPath(route, name)
	existing, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(p, content); err != nil {
		return nil, err
	}
	return s.Get(ctx, routeName, name)
}

// Delete removes a document.
func (s *Service) Delete(_ context.Context, routeName, name string) error {
	route, err := s.reg.Get(routeName)
	if err != nil {
		return err
	}
	if err := s.store.Delete(docPath(route, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

// Render returns the document body as an HTML fragment.
func (s *Service) Render(ctx context.Context, routeName, name string) (string, error) {
	detail, err := s.Get(ctx, routeName, name)
	if err != nil {
		return "", err
	}
	return render.Markup(detail.Nodes), nil
}

// Check runs the pipeline on the given text without touching storage.
func (s *Service) Check(_ context.Context, routeName string, content []byte) error {
	route, err := s.reg.Get(routeName)
	if err != nil {
		return err
	}
	if _, err := document.Process(string(content), route.Schema()); err != nil {
		return invalid(err)
	}
	return nil
}

// CheckAll validates every document of every route, collecting failures
// instead of stopping at the first.
func (s *Service) CheckAll(ctx context.Context) ([]Diagnostic, error) {
	var diags []Diagnostic
	for _, route := range s.reg.All() {
		items, err := s.List(ctx, route.Name)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if !it.Valid {
				diags = append(diags, Diagnostic{Route: route.Name, Path: it.Path, Error: it.Error})
			}
		}
	}
	return diags, nil
}
