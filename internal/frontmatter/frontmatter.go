// Package frontmatter decodes the YAML metadata block and validates it
// against a route's field schema.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/raido/internal/schema"
)

// UnexpectedFieldError reports front-matter keys absent from the schema.
// It is always fatal to the document, even when every declared field
// validates.
type UnexpectedFieldError struct {
	Fields []string
}

func (e *UnexpectedFieldError) Error() string {
	return "frontmatter: unexpected fields: " + strings.Join(e.Fields, ", ")
}

// Decode parses front-matter text into a raw key/value mapping. Empty text
// decodes to an empty mapping.
func Decode(text string) (map[string]any, error) {
	var raw map[string]any
	dec := yaml.NewDecoder(bytes.NewBufferString(text))
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("frontmatter: decode: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Validate decodes text, runs it through the compiled schema validator, and
// applies the closed-world check. The two gates are independent: unexpected
// keys fail the document even when schema validation succeeded, and when
// both gates fail the caller gets both errors joined. On any failure no
// partial metadata is returned.
func Validate(text string, fields []schema.Field) (schema.Metadata, error) {
	raw, err := Decode(text)
	if err != nil {
		return nil, err
	}

	meta, verr := schema.Build(fields).Validate(raw)

	declared := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		declared[f.Name] = struct{}{}
	}
	var unexpected []string
	for k := range raw {
		if _, ok := declared[k]; !ok {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		uerr := &UnexpectedFieldError{Fields: unexpected}
		if verr != nil {
			return nil, errors.Join(verr, uerr)
		}
		return nil, uerr
	}

	if verr != nil {
		return nil, verr
	}
	return meta, nil
}
