package frontmatter

import (
	"errors"
	"testing"

	"github.com/starford/raido/internal/schema"
)

var testFields = []schema.Field{
	{Name: "title", Kind: schema.KindString, Required: true},
	{Name: "author", Kind: schema.KindString, Required: true},
	{Name: "tags", Kind: schema.KindStringList},
}

func TestValidate_Valid(t *testing.T) {
	meta, err := Validate("title: Hello\nauthor: Jane\ntags:\n  - go\n", testFields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta["title"] != "Hello" || meta["author"] != "Jane" {
		t.Errorf("meta = %v", meta)
	}
	tags, ok := meta["tags"].([]string)
	if !ok || len(tags) != 1 || tags[0] != "go" {
		t.Errorf("tags = %v", meta["tags"])
	}
}

func TestValidate_ClosedWorld(t *testing.T) {
	// An undeclared key fails even though everything declared validates.
	_, err := Validate("title: Hello\nauthor: Jane\ndraft: true\n", testFields)
	var uerr *UnexpectedFieldError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnexpectedFieldError, got %v", err)
	}
	if len(uerr.Fields) != 1 || uerr.Fields[0] != "draft" {
		t.Errorf("fields = %v, want [draft]", uerr.Fields)
	}
}

func TestValidate_BothGatesReported(t *testing.T) {
	// Missing required field AND an undeclared key: both errors surface.
	_, err := Validate("draft: true\n", testFields)
	var uerr *UnexpectedFieldError
	if !errors.As(err, &uerr) {
		t.Errorf("unexpected-field error not reported: %v", err)
	}
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("schema validation error not reported: %v", err)
	}
}

func TestValidate_SchemaFailureAlone(t *testing.T) {
	_, err := Validate("title: 42\nauthor: Jane\n", testFields)
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	var uerr *UnexpectedFieldError
	if errors.As(err, &uerr) {
		t.Errorf("no unexpected fields should be reported, got %v", uerr.Fields)
	}
}

func TestDecode_Empty(t *testing.T) {
	raw, err := Decode("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw == nil || len(raw) != 0 {
		t.Errorf("raw = %v, want empty mapping", raw)
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode(": invalid: yaml: {{{"); err == nil {
		t.Fatal("expected decode error")
	}
}
