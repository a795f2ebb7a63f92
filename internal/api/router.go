package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/docservice"
	"github.com/starford/raido/internal/routes"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// contentRoot is used to resolve the assets directory.
func NewRouter(svc *docservice.Service, reg *routes.Registry, authEnabled bool, token string, sseHandler http.Handler, contentRoot string) chi.Router {
	h := NewHandler(svc, reg)
	ah := NewAssetHandler(contentRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Route registry.
	r.Get("/routes", h.ListRoutes)

	// Documents per route.
	r.Get("/routes/{route}/documents", h.ListDocuments)
	r.Post("/routes/{route}/documents", h.CreateDocument)
	r.Get("/routes/{route}/documents/*", h.GetDocument)
	r.Put("/routes/{route}/documents/*", h.UpdateDocument)
	r.Delete("/routes/{route}/documents/*", h.DeleteDocument)

	// Projections.
	r.Get("/routes/{route}/render/*", h.RenderDocument)
	r.Post("/routes/{route}/check", h.CheckDocument)

	// Assets.
	r.Post("/assets", ah.Upload)
	r.Get("/assets/{filename}", ah.ServeFile)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
