// Package testutil provides shared test helpers for content roots and route
// registries.
package testutil

import (
	"testing"

	"github.com/starford/raido/internal/routes"
	"github.com/starford/raido/internal/storage"
)

// TestContent creates a temporary content root with a storage.Provider.
func TestContent(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestRegistry builds a validated registry from the given routes.
func TestRegistry(t *testing.T, list ...routes.Route) *routes.Registry {
	t.Helper()
	reg, err := routes.NewRegistry(list)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

// BlogRoute is the canonical route used across tests: required title and
// author strings plus an optional tag list, over the "blog" folder.
func BlogRoute() routes.Route {
	return routes.Route{
		Name:   "blog",
		Path:   "/blog",
		Folder: "blog",
		Fields: []routes.FieldSpec{
			{Name: "title", Kind: "string", Required: true},
			{Name: "author", Kind: "string", Required: true},
			{Name: "tags", Kind: "string[]"},
		},
	}
}

// ValidDoc is a document that passes BlogRoute's schema.
const ValidDoc = `---
title: Hello
author: Jane
---
# Hi
- one
- two
`
