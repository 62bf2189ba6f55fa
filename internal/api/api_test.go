package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/princepal9120/vibestack/internal/content"
	"github.com/princepal9120/vibestack/internal/directory"
	"github.com/princepal9120/vibestack/internal/identity"
	"github.com/princepal9120/vibestack/internal/models"
	"github.com/princepal9120/vibestack/internal/store"
	"github.com/princepal9120/vibestack/internal/suggest"
	"github.com/princepal9120/vibestack/internal/testutil"
)

const testCatalogYAML = `
profiles:
  - id: cursor
    name: Cursor
    tagline: AI-first code editor
    url: https://cursor.com
collections:
  - id: starter
    name: Starter Pack
    description: First picks
    items: [cursor]
items:
  - id: todo-agent
    type: project
    title: Todo Agent
    subtitle: Built with Cursor
    url: https://example.com/todo-agent
`

// testEnv sets up a temp SQLite DB, a small catalog, and the full router.
func testEnv(t *testing.T) (*store.DB, http.Handler) {
	t.Helper()

	catFile, err := os.CreateTemp("", "vibestack-catalog-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := catFile.WriteString(testCatalogYAML); err != nil {
		t.Fatal(err)
	}
	catFile.Close()
	t.Cleanup(func() { os.Remove(catFile.Name()) })

	catalog, err := content.Load(catFile.Name())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	index, err := suggest.NewIndex(catalog.Items(), suggest.DefaultConfig())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	db := testutil.TestDB(t)
	sessions := identity.NewProvider(db, identity.DefaultSessionTTL)
	dir := directory.NewService(db, nil)

	router := NewRouter(dir, suggest.NewService(index), catalog, sessions, RouterConfig{WriteLimit: 10000})
	return db, router
}

// do sends a JSON request through the router, optionally authenticated.
func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// login seeds a user via testutil and logs in through the API.
func login(t *testing.T, db *store.DB, router http.Handler, username string) (*models.User, string) {
	t.Helper()
	u := testutil.SeedUser(t, db, username)
	w := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": "secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Token == "" {
		t.Fatal("login returned empty token")
	}
	return u, resp.Data.Token
}

// decodeData unmarshals the data half of the success envelope into v.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("envelope: %v, body = %s", err, w.Body.String())
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("data: %v", err)
	}
}

func TestSuggest_Match(t *testing.T) {
	_, router := testEnv(t)

	w := do(t, router, http.MethodGet, "/search/suggest?q=curso", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp suggest.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Suggestions) == 0 {
		t.Fatal("expected suggestions for 'curso'")
	}
	if resp.Suggestions[0].ID != "cursor" {
		t.Errorf("top suggestion = %q, want %q", resp.Suggestions[0].ID, "cursor")
	}
	if resp.Error != "" {
		t.Errorf("unexpected error field: %q", resp.Error)
	}
}

func TestSuggest_InvalidInput(t *testing.T) {
	_, router := testEnv(t)

	for _, path := range []string{
		"/search/suggest",
		"/search/suggest?q=%20%20",
		"/search/suggest?q=ok&limit=0",
		"/search/suggest?q=ok&limit=21",
		"/search/suggest?q=ok&limit=nope",
	} {
		w := do(t, router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
			continue
		}
		var resp suggest.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Error == "" {
			t.Errorf("%s: missing error field", path)
		}
		if resp.Suggestions == nil || len(resp.Suggestions) != 0 {
			t.Errorf("%s: suggestions should be an empty list", path)
		}
	}
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	_, router := testEnv(t)

	w := do(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	w = do(t, router, http.MethodGet, "/auth/me", resp.Data.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}
	var me models.User
	decodeData(t, w, &me)
	if me.Username != "alice" {
		t.Errorf("me username = %q, want alice", me.Username)
	}

	w = do(t, router, http.MethodGet, "/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me status = %d, want 401", w.Code)
	}
}

func TestAuth_BadCredentials(t *testing.T) {
	db, router := testEnv(t)
	testutil.SeedUser(t, db, "bob")

	w := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "bob",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateProject_RequiresAuth(t *testing.T) {
	_, router := testEnv(t)

	w := do(t, router, http.MethodPost, "/projects", "", map[string]string{
		"title": "Anon Project",
		"url":   "https://example.com/anon",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCreateProject_ValidationDetails(t *testing.T) {
	db, router := testEnv(t)
	_, token := login(t, db, router, "carol")

	w := do(t, router, http.MethodPost, "/projects", token, map[string]string{
		"title": "",
		"url":   "not a url",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Details["title"] == "" || resp.Details["url"] == "" {
		t.Errorf("expected field details for title and url, got %v", resp.Details)
	}
}

func TestUpvoteFlow(t *testing.T) {
	db, router := testEnv(t)
	owner := testutil.SeedUser(t, db, "owner")
	p := testutil.SeedProject(t, db, owner.ID, "Voted Project")
	_, token := login(t, db, router, "voter")

	w := do(t, router, http.MethodPost, "/projects/"+p.ID+"/upvote", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("upvote status = %d, body = %s", w.Code, w.Body.String())
	}
	var got models.Project
	decodeData(t, w, &got)
	if got.UpvoteCount != 1 {
		t.Errorf("upvote_count = %d, want 1", got.UpvoteCount)
	}

	// A second vote by the same user conflicts.
	w = do(t, router, http.MethodPost, "/projects/"+p.ID+"/upvote", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate upvote status = %d, want 409", w.Code)
	}

	// The authenticated project detail reports the viewer's vote.
	w = do(t, router, http.MethodGet, "/projects/"+p.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var detail struct {
		models.Project
		Upvoted *bool `json:"upvoted"`
	}
	decodeData(t, w, &detail)
	if detail.Upvoted == nil || !*detail.Upvoted {
		t.Error("detail should report upvoted=true for the voter")
	}

	w = do(t, router, http.MethodDelete, "/projects/"+p.ID+"/upvote", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove upvote status = %d", w.Code)
	}
	decodeData(t, w, &got)
	if got.UpvoteCount != 0 {
		t.Errorf("upvote_count after removal = %d, want 0", got.UpvoteCount)
	}

	w = do(t, router, http.MethodDelete, "/projects/"+p.ID+"/upvote", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("removing absent upvote status = %d, want 404", w.Code)
	}

	w = do(t, router, http.MethodPost, "/projects/no-such-project/upvote", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("upvote on missing project status = %d, want 404", w.Code)
	}
}

func TestCommentLifecycle(t *testing.T) {
	db, router := testEnv(t)
	owner := testutil.SeedUser(t, db, "owner")
	p := testutil.SeedProject(t, db, owner.ID, "Discussed Project")
	_, authorToken := login(t, db, router, "author")
	_, intruderToken := login(t, db, router, "intruder")

	w := do(t, router, http.MethodPost, "/projects/"+p.ID+"/comments", authorToken, map[string]string{
		"body": "great work",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment status = %d, body = %s", w.Code, w.Body.String())
	}
	var c models.Comment
	decodeData(t, w, &c)

	// Only the author may edit or delete.
	w = do(t, router, http.MethodPatch, "/comments/"+c.ID, intruderToken, map[string]string{"body": "hijacked"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("intruder edit status = %d, want 403", w.Code)
	}
	w = do(t, router, http.MethodDelete, "/comments/"+c.ID, intruderToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("intruder delete status = %d, want 403", w.Code)
	}

	w = do(t, router, http.MethodPatch, "/comments/"+c.ID, authorToken, map[string]string{"body": "great work, updated"})
	if w.Code != http.StatusOK {
		t.Fatalf("author edit status = %d, body = %s", w.Code, w.Body.String())
	}
	decodeData(t, w, &c)
	if c.Body != "great work, updated" {
		t.Errorf("comment body = %q", c.Body)
	}

	w = do(t, router, http.MethodDelete, "/comments/"+c.ID, authorToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("author delete status = %d", w.Code)
	}

	// Comment count returns to zero.
	w = do(t, router, http.MethodGet, "/projects/"+p.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get project status = %d", w.Code)
	}
	var got models.Project
	decodeData(t, w, &got)
	if got.CommentCount != 0 {
		t.Errorf("comment_count = %d, want 0", got.CommentCount)
	}
}

func TestListProjects_PaginationMeta(t *testing.T) {
	db, router := testEnv(t)
	owner := testutil.SeedUser(t, db, "owner")
	for i := 0; i < 3; i++ {
		testutil.SeedProject(t, db, owner.ID, fmt.Sprintf("Project %d", i))
	}

	w := do(t, router, http.MethodGet, "/projects?limit=2&page=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data []models.Project `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			TotalPages int `json:"totalPages"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("page 2 len = %d, want 1", len(resp.Data))
	}
	if resp.Meta.Total != 3 || resp.Meta.Page != 2 || resp.Meta.Limit != 2 || resp.Meta.TotalPages != 2 {
		t.Errorf("meta = %+v", resp.Meta)
	}
}

func TestListProjects_BadQuery(t *testing.T) {
	_, router := testEnv(t)

	for _, path := range []string{
		"/projects?page=0",
		"/projects?page=abc",
		"/projects?limit=0",
		"/projects?limit=51",
	} {
		w := do(t, router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestGetProject_CountsViews(t *testing.T) {
	db, router := testEnv(t)
	owner := testutil.SeedUser(t, db, "owner")
	p := testutil.SeedProject(t, db, owner.ID, "Watched Project")

	var got models.Project
	for i := 0; i < 3; i++ {
		w := do(t, router, http.MethodGet, "/projects/"+p.ID, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("get status = %d", w.Code)
		}
		decodeData(t, w, &got)
	}
	if got.ViewCount != 3 {
		t.Errorf("view_count = %d, want 3", got.ViewCount)
	}
}

func TestUpdateUser_SelfOnly(t *testing.T) {
	db, router := testEnv(t)
	_, aliceToken := login(t, db, router, "alice")
	_, malloryToken := login(t, db, router, "mallory")

	w := do(t, router, http.MethodPatch, "/users/alice", malloryToken, map[string]string{
		"display_name": "Not Alice",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("intruder patch status = %d, want 403", w.Code)
	}

	w = do(t, router, http.MethodPatch, "/users/alice", aliceToken, map[string]string{
		"display_name": "Alice L",
		"bio":          "building things",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("self patch status = %d, body = %s", w.Code, w.Body.String())
	}
	var u models.User
	decodeData(t, w, &u)
	if u.DisplayName != "Alice L" || u.Bio != "building things" {
		t.Errorf("patched user = %+v", u)
	}
}

func TestSubmitResource_DuplicateURL(t *testing.T) {
	_, router := testEnv(t)

	body := map[string]string{
		"title": "Great Guide",
		"url":   "https://example.com/guide",
	}
	w := do(t, router, http.MethodPost, "/resources/submit", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("first submit status = %d, body = %s", w.Code, w.Body.String())
	}
	var res models.Resource
	decodeData(t, w, &res)
	if res.Status != models.ResourcePending {
		t.Errorf("status = %q, want pending", res.Status)
	}

	w = do(t, router, http.MethodPost, "/resources/submit", "", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate submit status = %d, want 400, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Details["url"] == "" {
		t.Errorf("expected url detail, got %v", resp.Details)
	}
}

func TestProfilesAndCollections(t *testing.T) {
	_, router := testEnv(t)

	w := do(t, router, http.MethodGet, "/profiles", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list profiles status = %d", w.Code)
	}
	var profiles []content.Profile
	decodeData(t, w, &profiles)
	if len(profiles) != 1 || profiles[0].ID != "cursor" {
		t.Errorf("profiles = %+v", profiles)
	}

	w = do(t, router, http.MethodGet, "/profiles/cursor", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get profile status = %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/profiles/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing profile status = %d, want 404", w.Code)
	}

	w = do(t, router, http.MethodGet, "/collections/starter", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get collection status = %d", w.Code)
	}
	var coll content.Collection
	decodeData(t, w, &coll)
	if len(coll.ItemIDs) != 1 || coll.ItemIDs[0] != "cursor" {
		t.Errorf("collection items = %v", coll.ItemIDs)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	db, router := testEnv(t)
	_, token := login(t, db, router, "dave")

	w := do(t, router, http.MethodPost, "/auth/logout", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout status = %d, want 401", w.Code)
	}
}
