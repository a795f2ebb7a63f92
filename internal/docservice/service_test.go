package docservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestContent(t)
	reg := testutil.TestRegistry(t, testutil.BlogRoute())
	return NewService(store, reg)
}

func TestCreateAndGet(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	detail, err := svc.Create(ctx, "blog", "hello", []byte(testutil.ValidDoc))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if detail.Path != "blog/hello.md" {
		t.Errorf("path = %q", detail.Path)
	}
	if detail.Metadata["title"] != "Hello" {
		t.Errorf("metadata = %v", detail.Metadata)
	}
	if len(detail.Nodes) == 0 {
		t.Error("nodes empty")
	}

	got, err := svc.Get(ctx, "blog", "hello.md")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Checksum != detail.Checksum {
		t.Errorf("checksum mismatch: %q vs %q", got.Checksum, detail.Checksum)
	}
}

func TestCreate_RefusesInvalidDocument(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	// Missing required author plus an undeclared key.
	bad := "---\ntitle: Hello\ndraft: true\n---\nbody\n"
	_, err := svc.Create(ctx, "blog", "bad", []byte(bad))
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}

	// Fail-closed: nothing was written.
	if _, err := svc.Get(ctx, "blog", "bad"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("invalid document was written: %v", err)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "blog", "dup", []byte(testutil.ValidDoc)); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(ctx, "blog", "dup", []byte(testutil.ValidDoc))
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestUpdate_OptimisticConcurrency(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "blog", "lock", []byte(testutil.ValidDoc)); err != nil {
		t.Fatal(err)
	}

	v2 := strings.Replace(testutil.ValidDoc, "Hello", "Hello v2", 1)

	// Stale checksum is rejected.
	_, err := svc.Update(ctx, "blog", "lock", []byte(v2), "stale")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// Matching checksum succeeds.
	cs := checksum.Sum([]byte(testutil.ValidDoc))
	detail, err := svc.Update(ctx, "blog", "lock", []byte(v2), cs)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if detail.Metadata["title"] != "Hello v2" {
		t.Errorf("metadata = %v", detail.Metadata)
	}
}

func TestUpdate_MissingDocument(t *testing.T) {
	svc := testService(t)
	_, err := svc.Update(context.Background(), "blog", "nope", []byte(testutil.ValidDoc), "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList_FlagsInvalidDocuments(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "blog", "good", []byte(testutil.ValidDoc)); err != nil {
		t.Fatal(err)
	}
	// Bypass validation by writing through storage directly.
	if err := svc.store.Write("blog/broken.md", []byte("---\ntitle: 1\n---\nx")); err != nil {
		t.Fatal(err)
	}

	items, err := svc.List(ctx, "blog")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d: %v", len(items), items)
	}
	byPath := map[string]DocumentListItem{}
	for _, it := range items {
		byPath[it.Path] = it
	}
	if !byPath["blog/good.md"].Valid {
		t.Error("good.md flagged invalid")
	}
	broken := byPath["blog/broken.md"]
	if broken.Valid || broken.Error == "" {
		t.Errorf("broken.md not flagged: %+v", broken)
	}
}

func TestRenderAndCheck(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "blog", "r", []byte(testutil.ValidDoc)); err != nil {
		t.Fatal(err)
	}
	html, err := svc.Render(ctx, "blog", "r")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<h1>Hi</h1>") || !strings.Contains(html, "<ul>") {
		t.Errorf("html = %q", html)
	}

	if err := svc.Check(ctx, "blog", []byte(testutil.ValidDoc)); err != nil {
		t.Errorf("Check valid: %v", err)
	}
	if err := svc.Check(ctx, "blog", []byte("no delimiters")); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("Check invalid = %v, want ErrInvalid", err)
	}
}

func TestCheckAll(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "blog", "ok", []byte(testutil.ValidDoc)); err != nil {
		t.Fatal(err)
	}
	if err := svc.store.Write("blog/bad.md", []byte("nope")); err != nil {
		t.Fatal(err)
	}

	diags, err := svc.CheckAll(ctx)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(diags) != 1 || diags[0].Path != "blog/bad.md" || diags[0].Route != "blog" {
		t.Errorf("diags = %v", diags)
	}
}

func TestUnknownRoute(t *testing.T) {
	svc := testService(t)
	_, err := svc.Get(context.Background(), "nope", "x")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
