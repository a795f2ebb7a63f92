package api

import "github.com/starford/raido/internal/docservice"

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	Content string `json:"content"`
}

// CheckDocumentRequest is the request body for a dry-run validation.
type CheckDocumentRequest struct {
	Content string `json:"content"`
}

// DocumentDetail is the full document response type (aliased from the
// domain layer).
type DocumentDetail = docservice.DocumentDetail

// DocumentListItem is a lightweight item in a list response (aliased from
// the domain layer).
type DocumentListItem = docservice.DocumentListItem

// DocumentListResponse wraps route document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents"`
	Total     int                `json:"total"`
}
