package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/docservice"
	"github.com/starford/raido/internal/routes"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
	reg *routes.Registry
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service, reg *routes.Registry) *Handler {
	return &Handler{svc: svc, reg: reg}
}

// docName extracts the document name from the URL wildcard. Supports
// encoded slashes from generated clients (e.g. guides%2Fsetup.md).
func docName(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeServiceError maps domain errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("document already exists"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
	case errors.Is(err, apperr.ErrInvalid):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListRoutes handles GET /routes.
func (h *Handler) ListRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"routes": h.reg.All(),
	})
}

// ListDocuments handles GET /routes/{route}/documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	routeName := chi.URLParam(r, "route")
	items, err := h.svc.List(r.Context(), routeName)
	if err != nil {
		writeServiceError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: items, Total: len(items)})
}

// GetDocument handles GET /routes/{route}/documents/*.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	name := docName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("document name is required"))
		return
	}
	detail, err := h.svc.Get(r.Context(), chi.URLParam(r, "route"), name)
	if err != nil {
		writeServiceError(w, "get document", err)
		return
	}
	w.Header().Set("ETag", `"`+detail.Checksum+`"`)
	writeJSON(w, http.StatusOK, detail)
}

// CreateDocument handles POST /routes/{route}/documents.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name and content are required"))
		return
	}
	detail, err := h.svc.Create(r.Context(), chi.URLParam(r, "route"), req.Name, []byte(req.Content))
	if err != nil {
		writeServiceError(w, "create document", err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// UpdateDocument handles PUT /routes/{route}/documents/*. The If-Match
// header, when present, carries the expected checksum.
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	name := docName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("document name is required"))
		return
	}
	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	detail, err := h.svc.Update(r.Context(), chi.URLParam(r, "route"), name, []byte(req.Content), ifMatch)
	if err != nil {
		writeServiceError(w, "update document", err)
		return
	}
	w.Header().Set("ETag", `"`+detail.Checksum+`"`)
	writeJSON(w, http.StatusOK, detail)
}

// DeleteDocument handles DELETE /routes/{route}/documents/*.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	name := docName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("document name is required"))
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "route"), name); err != nil {
		writeServiceError(w, "delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenderDocument handles GET /routes/{route}/render/* and returns the HTML
// fragment for the document body.
func (h *Handler) RenderDocument(w http.ResponseWriter, r *http.Request) {
	name := docName(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("document name is required"))
		return
	}
	html, err := h.svc.Render(r.Context(), chi.URLParam(r, "route"), name)
	if err != nil {
		writeServiceError(w, "render document", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// CheckDocument handles POST /routes/{route}/check: a dry-run validation of
// the provided text that never writes anything.
func (h *Handler) CheckDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CheckDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.Check(r.Context(), chi.URLParam(r, "route"), []byte(req.Content)); err != nil {
		writeServiceError(w, "check document", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
