// Package watch observes the content root and reports document changes to
// drive live reload.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/routes"
)

// Callback is invoked for every document change.
// kind is one of "created", "updated", "deleted".
type Callback func(kind, route, path string)

// Watch starts an fsnotify watcher on the content root and processes file
// change events until ctx is cancelled. Paths are mapped to routes by
// folder; files outside every configured route folder are ignored. New
// directories created at runtime are added to the watch list, and any .md
// files they already contain are reported as created.
func Watch(ctx context.Context, root string, reg *routes.Registry, logger *slog.Logger, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	notify := func(kind, rel string) {
		route, ok := reg.RouteForPath(rel)
		if !ok {
			logger.Debug("watcher: path outside routes", slog.String("path", rel))
			return
		}
		logger.Debug("watcher: document "+kind,
			slog.String("route", route.Name),
			slog.String("path", rel))
		if cb != nil {
			cb(kind, route.Name, rel)
		}
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to watcher and report any .md files
			// already inside.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					reportNewDir(root, absPath, notify)
					continue
				}
			}

			// Only .md files from here on.
			if !strings.HasSuffix(absPath, ".md") {
				continue
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&fsnotify.Create != 0:
				notify("created", rel)
			case ev.Op&fsnotify.Write != 0:
				notify("updated", rel)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// fsnotify fires Rename on the old path only; the new
				// path arrives as a separate Create event if it stays
				// inside a watched dir.
				notify("deleted", rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reportNewDir reports any .md files found in a newly created directory.
func reportNewDir(root, dirPath string, notify func(kind, rel string)) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		notify("created", filepath.ToSlash(rel))
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
