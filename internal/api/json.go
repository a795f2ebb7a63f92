package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/schema"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error      string         `json:"error"`
	Issues     []schema.Issue `json:"issues,omitempty"`
	Unexpected []string       `json:"unexpected_fields,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// validationBody flattens the typed pipeline errors into one structured
// response so clients see every problem at once.
func validationBody(err error) errResponse {
	resp := errResponse{Error: err.Error()}
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		resp.Issues = verr.Issues
	}
	var uerr *frontmatter.UnexpectedFieldError
	if errors.As(err, &uerr) {
		resp.Unexpected = uerr.Fields
	}
	var ferr *parser.FormatError
	if errors.As(err, &ferr) {
		resp.Error = ferr.Error()
	}
	return resp
}
