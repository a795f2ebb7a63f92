// Package builder generates the static HTML rendition of every route.
package builder

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/render"
	"github.com/starford/raido/internal/routes"
	"github.com/starford/raido/internal/storage"
)

// Result records the outcome for one document. Err is set when the
// document failed to process or write; failures are collected, not fatal.
type Result struct {
	Route string
	Path  string
	Out   string
	Err   error
}

// Build renders every document of every route into outDir, one HTML page
// per document, parallel across documents. Documents are independent, so
// per-document failures are reported in the results instead of aborting
// the build.
func Build(ctx context.Context, reg *routes.Registry, store storage.Provider, outDir string, logger *slog.Logger) ([]Result, error) {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	var results []Result
	record := func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	for _, route := range reg.All() {
		metas, err := store.List(route.Folder)
		if err != nil {
			return nil, fmt.Errorf("builder: list %s: %w", route.Name, err)
		}
		for _, m := range metas {
			g.Go(func() error {
				res := Result{Route: route.Name, Path: m.Path}

				data, err := store.Read(m.Path)
				if err != nil {
					res.Err = err
					record(res)
					return nil
				}
				doc, err := document.Process(string(data), route.Schema())
				if err != nil {
					res.Err = err
					record(res)
					return nil
				}

				out := outputPath(outDir, &route, m.Path)
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					res.Err = err
					record(res)
					return nil
				}
				page := Page(pageTitle(doc, m.Path), render.Markup(doc.Nodes))
				if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
					res.Err = err
					record(res)
					return nil
				}

				res.Out = out
				record(res)
				logger.Debug("builder: wrote page",
					slog.String("route", route.Name),
					slog.String("path", m.Path),
					slog.String("out", out))
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// outputPath maps a content file to its page location under the route's
// URL path: blog/post.md -> <out>/blog/post.html.
func outputPath(outDir string, route *routes.Route, contentPath string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(contentPath), strings.Trim(filepath.ToSlash(route.Folder), "/")+"/")
	rel = strings.TrimSuffix(rel, ".md") + ".html"
	return filepath.Join(outDir, strings.Trim(route.Path, "/"), filepath.FromSlash(rel))
}

// pageTitle prefers the document's title field, falling back to the file
// stem.
func pageTitle(doc *document.Document, contentPath string) string {
	if t, ok := doc.Meta["title"].(string); ok && t != "" {
		return t
	}
	base := filepath.Base(contentPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Page wraps an HTML fragment in a minimal document shell.
func Page(title, fragment string) string {
	return fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
%s
</body>
</html>
`, html.EscapeString(title), fragment)
}
