package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/linker"
	"github.com/starford/ansuz/internal/storage"
)

// testEnv sets up a temp vault, SQLite catalog, service, and router.
// authToken="" means auth disabled; a non-empty token enables token mode.
func testEnv(t *testing.T, authToken string) (*docservice.Service, http.Handler) {
	t.Helper()

	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	dbFile, err := os.CreateTemp("", "ansuz-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine := linker.NewEngine(linker.DefaultConfig())
	svc := docservice.NewService(store, db, engine)
	router := NewRouter(svc, authToken != "", authToken, nil)
	return svc, router
}

// createDoc is a helper that POSTs a document and fails the test on error.
func createDoc(t *testing.T, router http.Handler, path, content string) DocumentDetail {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"path": path, "content": content})
	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s = %d, body = %s", path, w.Code, w.Body.String())
	}
	var doc DocumentDetail
	_ = json.Unmarshal(w.Body.Bytes(), &doc)
	return doc
}

func TestCreateAndGetDocument(t *testing.T) {
	_, router := testEnv(t, "")

	createDoc(t, router, "hello.md", "# Hello\nWorld")

	req := httptest.NewRequest(http.MethodGet, "/documents/hello.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var doc DocumentDetail
	_ = json.Unmarshal(w.Body.Bytes(), &doc)
	if doc.Path != "hello.md" {
		t.Errorf("path = %q", doc.Path)
	}
	if doc.Basename != "hello" {
		t.Errorf("basename = %q, want hello", doc.Basename)
	}
	if doc.Title != "Hello" {
		t.Errorf("title = %q, want Hello", doc.Title)
	}
}

func TestCreateDuplicate(t *testing.T) {
	_, router := testEnv(t, "")

	createDoc(t, router, "dup.md", "a")

	body, _ := json.Marshal(map[string]string{"path": "dup.md", "content": "a"})
	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestUpdateWithOptimisticLocking(t *testing.T) {
	_, router := testEnv(t, "")

	created := createDoc(t, router, "lock.md", "v1")

	updateBody, _ := json.Marshal(map[string]string{"content": "v2"})
	req := httptest.NewRequest(http.MethodPut, "/documents/lock.md", bytes.NewReader(updateBody))
	req.Header.Set("If-Match", created.Checksum)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update with correct checksum = %d, body = %s", w.Code, w.Body.String())
	}

	// Same checksum is stale now.
	req = httptest.NewRequest(http.MethodPut, "/documents/lock.md", bytes.NewReader(updateBody))
	req.Header.Set("If-Match", created.Checksum)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("update with stale checksum = %d, want 409", w.Code)
	}
}

func TestDeleteDocument(t *testing.T) {
	_, router := testEnv(t, "")

	createDoc(t, router, "bye.md", "gone")

	req := httptest.NewRequest(http.MethodDelete, "/documents/bye.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/documents/bye.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestListDocuments(t *testing.T) {
	_, router := testEnv(t, "")

	for _, name := range []string{"a.md", "b.md"} {
		createDoc(t, router, name, "# "+name)
	}

	req := httptest.NewRequest(http.MethodGet, "/documents?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp DocumentListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Documents) != 2 {
		t.Errorf("len(documents) = %d, want 2", len(resp.Documents))
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}

func TestScanEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createDoc(t, router, "apple.md", "# Apple")

	body, _ := json.Marshal(ScanRequest{Path: "draft.md", Text: "Apple pie and apple juice"})
	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("scan = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ScanResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Ranges) != 2 {
		t.Fatalf("ranges = %d, want 2", len(resp.Ranges))
	}
	if resp.Ranges[0].Class != linker.ClassPrimary {
		t.Errorf("first class = %q, want %q", resp.Ranges[0].Class, linker.ClassPrimary)
	}
	if resp.Ranges[1].Class != linker.ClassMuted {
		t.Errorf("second class = %q, want %q", resp.Ranges[1].Class, linker.ClassMuted)
	}
}

func TestScanEmptyResult(t *testing.T) {
	_, router := testEnv(t, "")

	body, _ := json.Marshal(ScanRequest{Path: "draft.md", Text: "nothing matches here"})
	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("scan = %d", w.Code)
	}
	var resp ScanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Ranges == nil || len(resp.Ranges) != 0 {
		t.Errorf("ranges = %v, want empty non-nil slice", resp.Ranges)
	}
}

func TestCompleteEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createDoc(t, router, "apple.md", "# Apple")

	body, _ := json.Marshal(CompleteRequest{Path: "draft.md", Word: "apple"})
	req := httptest.NewRequest(http.MethodPost, "/complete", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("complete = %d, body = %s", w.Code, w.Body.String())
	}
	var res linker.MatchResult
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Target == nil || res.Target.Path != "apple.md" {
		t.Errorf("target = %+v, want apple.md", res.Target)
	}
}

func TestCompleteNoMatch(t *testing.T) {
	_, router := testEnv(t, "")

	body, _ := json.Marshal(CompleteRequest{Path: "draft.md", Word: "unknown"})
	req := httptest.NewRequest(http.MethodPost, "/complete", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("complete with no match = %d, want 204", w.Code)
	}
}

func TestCompleteSelfTarget(t *testing.T) {
	_, router := testEnv(t, "")

	createDoc(t, router, "apple.md", "# Apple")

	// Resolving "apple" from inside apple.md is never offered.
	body, _ := json.Marshal(CompleteRequest{Path: "apple.md", Word: "apple"})
	req := httptest.NewRequest(http.MethodPost, "/complete", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("complete for own document = %d, want 204", w.Code)
	}
}

func TestMaterializeEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createDoc(t, router, "apple.md", "# Apple")

	body, _ := json.Marshal(MaterializeRequest{Path: "draft.md", Word: "Apples", Start: 10, End: 16})
	req := httptest.NewRequest(http.MethodPost, "/materialize", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("materialize = %d, body = %s", w.Code, w.Body.String())
	}
	var resp MaterializeResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Replacement != "[[apple|Apples]]" {
		t.Errorf("replacement = %q, want [[apple|Apples]]", resp.Replacement)
	}
	if resp.Start != 10 || resp.End != 16 {
		t.Errorf("range = [%d, %d), want [10, 16)", resp.Start, resp.End)
	}
}

func TestMaterializeNoTarget(t *testing.T) {
	_, router := testEnv(t, "")

	body, _ := json.Marshal(MaterializeRequest{Path: "draft.md", Word: "unknown"})
	req := httptest.NewRequest(http.MethodPost, "/materialize", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("materialize with no target = %d, want 404", w.Code)
	}
}

func TestTargetsEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createDoc(t, router, "apple.md", "---\naliases: [pomme]\n---\n# Apple")
	createDoc(t, router, "banana.md", "# Banana")

	req := httptest.NewRequest(http.MethodGet, "/targets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("targets = %d", w.Code)
	}
	var resp TargetsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3 (apple, pomme, banana)", resp.Total)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	body, _ := json.Marshal(map[string]string{"path": "auth.md", "content": "test"})
	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("authed create = %d, want 201", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/documents/nope.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing document = %d, want 404", w.Code)
	}
}
