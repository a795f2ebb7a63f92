package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/raido/internal/docservice"
	"github.com/starford/raido/internal/testutil"
)

// testEnv sets up a temp content root, registry, service, and router.
// An empty authToken means auth is disabled.
func testEnv(t *testing.T, authToken string) (*docservice.Service, http.Handler) {
	t.Helper()
	root, store := testutil.TestContent(t)
	reg := testutil.TestRegistry(t, testutil.BlogRoute())
	svc := docservice.NewService(store, reg)
	router := NewRouter(svc, reg, authToken != "", authToken, nil, root)
	return svc, router
}

func createDoc(t *testing.T, router http.Handler, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name, "content": content})
	req := httptest.NewRequest(http.MethodPost, "/routes/blog/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetDocument(t *testing.T) {
	_, router := testEnv(t, "")

	if w := createDoc(t, router, "hello", testutil.ValidDoc); w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/routes/blog/documents/hello.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	if etag := w.Header().Get("ETag"); !strings.HasPrefix(etag, `"`) {
		t.Errorf("ETag = %q", etag)
	}
	var detail DocumentDetail
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if detail.Path != "blog/hello.md" {
		t.Errorf("path = %q", detail.Path)
	}
	if detail.Metadata["title"] != "Hello" {
		t.Errorf("metadata = %v", detail.Metadata)
	}
	if len(detail.Nodes) == 0 {
		t.Error("nodes empty")
	}
}

func TestCreate_InvalidDocumentIs422(t *testing.T) {
	_, router := testEnv(t, "")

	bad := "---\ntitle: Hello\ndraft: true\n---\nbody\n"
	w := createDoc(t, router, "bad", bad)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error      string   `json:"error"`
		Issues     []any    `json:"issues"`
		Unexpected []string `json:"unexpected_fields"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Issues) == 0 {
		t.Error("schema issues missing from response")
	}
	if len(resp.Unexpected) != 1 || resp.Unexpected[0] != "draft" {
		t.Errorf("unexpected_fields = %v", resp.Unexpected)
	}
}

func TestCreateDuplicate(t *testing.T) {
	_, router := testEnv(t, "")
	if w := createDoc(t, router, "dup", testutil.ValidDoc); w.Code != http.StatusCreated {
		t.Fatalf("first create = %d", w.Code)
	}
	if w := createDoc(t, router, "dup", testutil.ValidDoc); w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestUpdateWithOptimisticLocking(t *testing.T) {
	_, router := testEnv(t, "")
	if w := createDoc(t, router, "lock", testutil.ValidDoc); w.Code != http.StatusCreated {
		t.Fatal("create failed")
	}

	v2 := strings.Replace(testutil.ValidDoc, "Hello", "Hello v2", 1)
	body, _ := json.Marshal(map[string]string{"content": v2})

	// Wrong If-Match.
	req := httptest.NewRequest(http.MethodPut, "/routes/blog/documents/lock.md", bytes.NewReader(body))
	req.Header.Set("If-Match", `"stale"`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("stale update = %d, want 409", w.Code)
	}

	// No If-Match succeeds.
	req = httptest.NewRequest(http.MethodPut, "/routes/blog/documents/lock.md", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestDeleteDocument(t *testing.T) {
	_, router := testEnv(t, "")
	if w := createDoc(t, router, "gone", testutil.ValidDoc); w.Code != http.StatusCreated {
		t.Fatal("create failed")
	}

	req := httptest.NewRequest(http.MethodDelete, "/routes/blog/documents/gone.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/routes/blog/documents/gone.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestListRoutesAndDocuments(t *testing.T) {
	_, router := testEnv(t, "")
	createDoc(t, router, "a", testutil.ValidDoc)

	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"blog"`) {
		t.Errorf("routes = %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/routes/blog/documents", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var list DocumentListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 || len(list.Documents) != 1 || !list.Documents[0].Valid {
		t.Errorf("list = %+v", list)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	_, router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/routes/nope/documents", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRenderDocument(t *testing.T) {
	_, router := testEnv(t, "")
	createDoc(t, router, "r", testutil.ValidDoc)

	req := httptest.NewRequest(http.MethodGet, "/routes/blog/render/r.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("render = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<h1>Hi</h1>") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestCheckDocument(t *testing.T) {
	_, router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"content": testutil.ValidDoc})
	req := httptest.NewRequest(http.MethodPost, "/routes/blog/check", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("check valid = %d: %s", w.Code, w.Body.String())
	}

	body, _ = json.Marshal(map[string]string{"content": "no delimiters"})
	req = httptest.NewRequest(http.MethodPost, "/routes/blog/check", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("check invalid = %d, want 422", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/routes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/routes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestAssetUploadAndServe(t *testing.T) {
	_, router := testEnv(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "pic.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte{0x89, 'P', 'N', 'G'})
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/assets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/assets/pic.png", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("serve = %d", w.Code)
	}
}
