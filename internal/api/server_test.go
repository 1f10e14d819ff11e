package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `{
  "servers": [
    {
      "name": "HTTP",
      "stars": 120,
      "description": "Lightweight HTTP framework",
      "githubUrl": "https://github.com/utopia-php/http",
      "version": "1.2.0",
      "lastUpdated": "2024-01-15",
      "features": ["Routing"],
      "category": "servers",
      "concepts": [
        {"title": "Routes", "path": "routes", "description": "Define routes"},
        {"title": "Setup", "path": "guides/setup", "description": "Getting started"}
      ]
    },
    {
      "name": "WebSocket Server",
      "stars": 40,
      "description": "Realtime server",
      "githubUrl": "https://github.com/utopia-php/websocket",
      "version": "0.3.1",
      "lastUpdated": "2023-11-10",
      "category": "servers"
    }
  ],
  "data": [
    {
      "name": "Database",
      "stars": 300,
      "description": "Query builder and adapters",
      "githubUrl": "https://github.com/utopia-php/database",
      "version": "2.0.0",
      "lastUpdated": "2024-02-01",
      "category": "data"
    }
  ]
}`

const testRoutes = "Routes map paths to actions.\n\n```php\n$app->get('/');\n```\n\n## Additional Information\n\nUse **groups** for shared hooks.\n"

const testPost = `---
title: Hello
date: 2024-03-01
excerpt: First post
tags: [news]
---
## Welcome

Hello there.
`

const testChangelog = `- id: v2
  date: "2024-02-01"
  title: Database 2.0
  category: release
  content: New **adapters**.
- id: fix
  date: "2024-01-20"
  title: Routing fix
  category: bugfix
  content: Fixed trailing slashes.
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, body string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	write("libraries.json", testCatalog)
	write("concepts/http/routes.md", testRoutes)
	write("concepts/http/guides/setup.md", "# Setup\n\nInstall with composer.\n")
	write("blog/hello.md", testPost)
	write("changelog.yaml", testChangelog)

	return config.Config{
		CatalogPath:         filepath.Join(dir, "libraries.json"),
		ContentDir:          filepath.Join(dir, "concepts"),
		BlogDir:             filepath.Join(dir, "blog"),
		ChangelogPath:       filepath.Join(dir, "changelog.yaml"),
		AdminAPIKey:         "secret",
		WorkerCount:         1,
		MaxQueueSize:        4,
		JobTTL:              time.Hour,
		EditRepoURL:         "https://github.com/utopia-php/docs",
		EditBranch:          "main",
		SearchSnippetTokens: 40,
		CacheMaxAge:         time.Hour,
	}
}

func newTestServer(t *testing.T, cfg config.Config, build bool) (*Server, *pipeline.Orchestrator) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	orch := pipeline.NewOrchestrator(cfg, log)
	if build {
		_, err := orch.BuildNow(context.Background(), "test")
		require.NoError(t, err)
	}
	return NewServer(orch, log, cfg), orch
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), false)
	rec := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "building", decode(t, rec)["status"])

	srv, _ = newTestServer(t, testConfig(t), true)
	body := decode(t, get(t, srv, "/health"))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 2, body["concepts"])
}

func TestUnavailableBeforeFirstBuild(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), false)
	rec := get(t, srv, "/api/libraries")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "site is still building", decode(t, rec)["error"])
}

func TestLibraries(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	rec := get(t, srv, "/api/libraries")
	require.Equal(t, http.StatusOK, rec.Code)
	libs := decode(t, rec)["libraries"].([]any)
	require.Len(t, libs, 3)
	first := libs[0].(map[string]any)
	assert.Equal(t, "HTTP", first["name"])
	assert.Equal(t, "http", first["slug"])
	assert.Equal(t, "v1.2.0", first["displayVersion"])
	assert.Equal(t, "January 15, 2024", first["displayLastUpdated"])

	rec = get(t, srv, "/api/libraries?q=query")
	libs = decode(t, rec)["libraries"].([]any)
	require.Len(t, libs, 1)
	assert.Equal(t, "Database", libs[0].(map[string]any)["name"])
}

func TestGetLibrary(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	rec := get(t, srv, "/api/libraries/websocket-server")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "WebSocket Server", decode(t, rec)["name"])

	rec = get(t, srv, "/api/libraries/message-queue")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `library "Message Queue" not found`, decode(t, rec)["error"])
}

func TestRelatedLibraries(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	rec := get(t, srv, "/api/libraries/http/related")
	require.Equal(t, http.StatusOK, rec.Code)
	libs := decode(t, rec)["libraries"].([]any)
	require.Len(t, libs, 1)
	assert.Equal(t, "WebSocket Server", libs[0].(map[string]any)["name"])

	rec = get(t, srv, "/api/libraries/http/related?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategories(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	cats := decode(t, get(t, srv, "/api/categories"))["categories"].([]any)
	assert.Len(t, cats, 8)

	rec := get(t, srv, "/api/categories/data")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["libraries"].([]any), 1)

	rec = get(t, srv, "/api/categories/games")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	body := decode(t, get(t, srv, "/api/stats"))
	catalogStats := body["catalog"].(map[string]any)
	assert.EqualValues(t, 3, catalogStats["totalLibraries"])
	assert.EqualValues(t, 460, catalogStats["totalStars"])
	assert.EqualValues(t, 1, body["posts"])
	top := body["topLibraries"].([]any)
	assert.Equal(t, "Database", top[0].(map[string]any)["name"])
}

func TestGetConcept(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	rec := get(t, srv, "/api/libraries/http/concepts/routes")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)

	assert.Equal(t, "Routes", body["title"])
	assert.Equal(t, true, body["found"])
	blocks := body["contentBlocks"].([]any)
	require.Len(t, blocks, 2)
	assert.Equal(t, "text", blocks[0].(map[string]any)["type"])
	assert.Equal(t, "code", blocks[1].(map[string]any)["type"])

	example := body["codeExample"].(map[string]any)
	assert.Equal(t, "php", example["language"])
	assert.Equal(t, true, example["showLineNumbers"])
	assert.Equal(t, "<p>Use <strong class=\"font-semibold\">groups</strong> for shared hooks.</p>", body["additionalInfo"])

	assert.Equal(t, "https://github.com/utopia-php/docs/edit/main/src/data/concepts/http/routes.md", body["editUrl"])
	crumbs := body["breadcrumbs"].([]any)
	require.Len(t, crumbs, 3)
	assert.Equal(t, "/docs/library/http/concept/routes", crumbs[2].(map[string]any)["href"])
}

func TestGetConcept_NestedPath(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	rec := get(t, srv, "/api/libraries/HTTP/concepts/guides/setup")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Setup", body["title"])
	toc := body["toc"].([]any)
	assert.Empty(t, toc, "h1 headings are not listed")
}

func TestGetConcept_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	rec := get(t, srv, "/api/libraries/http/concepts/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "concept not found", decode(t, rec)["error"])
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/libraries/nope/concepts/routes").Code)
}

func TestSearch(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	rec := get(t, srv, "/api/search?q=routes")
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode(t, rec)["results"].([]any)
	require.NotEmpty(t, results)
	top := results[0].(map[string]any)
	assert.Equal(t, "Routes", top["title"])
	assert.Equal(t, "concept", top["kind"])

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/search").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/search?q=x&limit=-1").Code)
}

func TestSearchIndex(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	rec := get(t, srv, "/search.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	// 3 libraries, 2 concepts, 1 post.
	assert.Len(t, entries, 6)
	for _, e := range entries {
		assert.NotEmpty(t, e["slug"])
		assert.NotNil(t, e["headings"])
	}
}

func TestBlog(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	posts := decode(t, get(t, srv, "/api/blog"))["posts"].([]any)
	require.Len(t, posts, 1)
	summary := posts[0].(map[string]any)
	assert.Equal(t, "hello", summary["slug"])
	assert.NotContains(t, summary, "content")

	rec := get(t, srv, "/api/blog/hello")
	require.Equal(t, http.StatusOK, rec.Code)
	post := decode(t, rec)
	assert.Contains(t, post["content"], `<h2 id="welcome">Welcome</h2>`)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/blog/missing").Code)
}

func TestChangelog(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), true)

	entries := decode(t, get(t, srv, "/api/changelog"))["entries"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "v2", entries[0].(map[string]any)["id"])

	entries = decode(t, get(t, srv, "/api/changelog?category=bugfix"))["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "fix", entries[0].(map[string]any)["id"])

	entries = decode(t, get(t, srv, "/api/changelog?category=none"))["entries"].([]any)
	assert.Empty(t, entries)
}

func TestEditURL(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t), false)

	rec := get(t, srv, "/api/edit-url?path=/docs/comparison")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "src/routes/_docs/comparison.tsx", body["file"])
	assert.Equal(t, "https://github.com/utopia-php/docs/edit/main/src/routes/_docs/comparison.tsx", body["editUrl"])

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/edit-url").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/edit-url?path=/nowhere").Code)
}

func TestRebuild_Auth(t *testing.T) {
	cfg := testConfig(t)
	srv, _ := newTestServer(t, cfg, true)

	req := httptest.NewRequest(http.MethodPost, "/api/rebuild", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/rebuild", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cfg.AdminAPIKey = ""
	srv, _ = newTestServer(t, cfg, true)
	req = httptest.NewRequest(http.MethodPost, "/api/rebuild", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRebuild(t *testing.T) {
	srv, orch := newTestServer(t, testConfig(t), true)
	orch.Start(context.Background())
	defer orch.Stop()

	req := httptest.NewRequest(http.MethodPost, "/api/rebuild?reason=deploy", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	body := decode(t, rec)
	pollURL := body["poll_url"].(string)
	require.NotEmpty(t, body["job_id"])

	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, pollURL, nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			return false
		}
		status := decode(t, rec)
		return status["status"] == string(pipeline.StatusCompleted) && status["reason"] == "deploy"
	}, 5*time.Second, 10*time.Millisecond)

	req = httptest.NewRequest(http.MethodGet, "/api/rebuild/unknown/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
