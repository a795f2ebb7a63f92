// Package schema compiles ordered field descriptors into metadata validators.
package schema

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the declared semantic type of a metadata field.
type Kind string

// Supported field kinds. Unrecognized declared types map to KindUnknown,
// which accepts any value and keeps it opaque.
const (
	KindString     Kind = "string"
	KindNumber     Kind = "number"
	KindBoolean    Kind = "boolean"
	KindDate       Kind = "date"
	KindStringList Kind = "string[]"
	KindUnknown    Kind = "unknown"
)

// ParseKind maps a declared type string to its Kind.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string":
		return KindString
	case "number":
		return KindNumber
	case "boolean", "bool":
		return KindBoolean
	case "date":
		return KindDate
	case "string[]", "[]string", "array":
		return KindStringList
	default:
		return KindUnknown
	}
}

// Field describes a single metadata field of a route schema.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	ItemKind Kind
}

// Metadata maps field names to values conforming to their declared Kind.
// Optional fields absent from the input are absent here too, never defaulted.
type Metadata map[string]any

// Issue is one field-level validation failure.
type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every field failure found in a single pass, so
// a caller sees all problems at once.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = fmt.Sprintf("%s: %s", is.Field, is.Reason)
	}
	return "schema: " + strings.Join(parts, "; ")
}

// Validator checks a raw front-matter mapping against a compiled field list.
type Validator struct {
	fields []Field
}

// Build compiles an ordered field list into a Validator. The caller-supplied
// slice is never mutated.
func Build(fields []Field) *Validator {
	return &Validator{fields: fields}
}

// Validate coerces raw values to their declared kinds. Every field is
// checked independently; failures are aggregated into one ValidationError.
// Keys absent from the field list are ignored here; closed-world enforcement
// is a separate gate owned by the frontmatter package.
func (v *Validator) Validate(raw map[string]any) (Metadata, error) {
	meta := make(Metadata, len(raw))
	var issues []Issue

	for _, f := range v.fields {
		val, ok := raw[f.Name]
		if !ok {
			if f.Required {
				issues = append(issues, Issue{Field: f.Name, Reason: "required field is missing"})
			}
			continue
		}
		coerced, err := coerce(f.Kind, val)
		if err != nil {
			issues = append(issues, Issue{Field: f.Name, Reason: err.Error()})
			continue
		}
		meta[f.Name] = coerced
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return meta, nil
}

func coerce(k Kind, val any) (any, error) {
	switch k {
	case KindString:
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", val)
		}
		return s, nil

	case KindNumber:
		switch n := val.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		}
		return nil, fmt.Errorf("expected a number, got %T", val)

	case KindBoolean:
		b, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a boolean, got %T", val)
		}
		return b, nil

	case KindDate:
		switch d := val.(type) {
		case time.Time:
			return d, nil
		case string:
			for _, layout := range []string{"2006-01-02", time.RFC3339} {
				if t, err := time.Parse(layout, d); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("unparsable date %q", d)
		}
		return nil, fmt.Errorf("expected a date, got %T", val)

	case KindStringList:
		switch l := val.(type) {
		case []string:
			return l, nil
		case []any:
			out := make([]string, len(l))
			for i, item := range l {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("element %d is not a string (%T)", i, item)
				}
				out[i] = s
			}
			return out, nil
		}
		return nil, fmt.Errorf("expected a list of strings, got %T", val)

	default:
		// Unknown kinds accept any value unchanged.
		return val, nil
	}
}
