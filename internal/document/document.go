// Package document composes the split, validate, and parse stages into the
// full processing pipeline.
package document

import (
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/schema"
)

// Document is the fully processed form of one source file: typed metadata
// plus the renderer-agnostic node sequence.
type Document struct {
	Meta  schema.Metadata `json:"metadata"`
	Nodes []parser.Node   `json:"nodes"`
}

// Process runs raw document text through the pipeline. It fails closed: any
// splitting or validation error yields no partial result. Body parsing
// itself never fails.
func Process(raw string, fields []schema.Field) (*Document, error) {
	front, body, err := parser.Split(raw)
	if err != nil {
		return nil, err
	}
	meta, err := frontmatter.Validate(front, fields)
	if err != nil {
		return nil, err
	}
	return &Document{Meta: meta, Nodes: parser.Parse(body)}, nil
}
