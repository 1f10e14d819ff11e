package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docsite/internal/config"
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
      "version": "1.0.0",
      "lastUpdated": "2024-01-15",
      "category": "servers",
      "concepts": [
        {"title": "Routes", "path": "routes", "description": "Define routes"},
        {"title": "Hooks", "path": "hooks", "description": "Lifecycle hooks"}
      ]
    }
  ]
}`

const testRoutes = "Routes map paths.\n\n```php\n$app->get('/');\n```\n"

const testPost = `---
title: Hello
date: 2024-03-01
excerpt: First post
---
## Welcome

Hello there.
`

func writeSite(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, body string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	write("libraries.json", testCatalog)
	write("concepts/http/routes.md", testRoutes)
	write("blog/hello.md", testPost)

	return config.Config{
		CatalogPath:         filepath.Join(dir, "libraries.json"),
		ContentDir:          filepath.Join(dir, "concepts"),
		BlogDir:             filepath.Join(dir, "blog"),
		WorkerCount:         1,
		MaxQueueSize:        4,
		JobTTL:              time.Hour,
		SearchSnippetTokens: 40,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBuildNow(t *testing.T) {
	cfg := writeSite(t)
	o := NewOrchestrator(cfg, testLogger())
	assert.Nil(t, o.Snapshot())

	job, err := o.BuildNow(context.Background(), "startup")
	require.NoError(t, err)

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 2, snap.Progress.TotalConcepts)
	assert.Equal(t, 2, snap.Progress.ConceptsRendered)
	assert.Equal(t, 1, snap.Progress.ConceptsMissing)
	// 1 library, 1 concept with content, 1 post.
	assert.Equal(t, 3, snap.Progress.IndexEntries)

	site := o.Snapshot()
	require.NotNil(t, site)
	routes, ok := site.Concept("http", "routes")
	require.True(t, ok)
	assert.True(t, routes.Found)
	require.NotNil(t, routes.CodeExample)
	assert.Equal(t, "php", routes.CodeExample.Language)

	hooks, ok := site.Concept("HTTP", "hooks")
	require.True(t, ok)
	assert.False(t, hooks.Found)
	assert.Contains(t, hooks.Blocks[0].Content, "Content not available")

	require.Len(t, site.Blog.Posts(), 1)
	assert.NotNil(t, o.GetJob(job.ID))
}

func TestBuildNow_ReusesUnchangedConcepts(t *testing.T) {
	cfg := writeSite(t)
	o := NewOrchestrator(cfg, testLogger())

	_, err := o.BuildNow(context.Background(), "startup")
	require.NoError(t, err)

	job, err := o.BuildNow(context.Background(), "again")
	require.NoError(t, err)
	p := job.Snapshot().Progress
	assert.Equal(t, 2, p.ConceptsReused)
	assert.Zero(t, p.ConceptsRendered)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.ContentDir, "http", "routes.md"), []byte("Changed."), 0o644))
	job, err = o.BuildNow(context.Background(), "edit")
	require.NoError(t, err)
	p = job.Snapshot().Progress
	assert.Equal(t, 1, p.ConceptsReused)
	assert.Equal(t, 1, p.ConceptsRendered)

	routes, _ := o.Snapshot().Concept("HTTP", "routes")
	assert.Equal(t, "<p>Changed.</p>", routes.Blocks[0].Content)
	assert.Nil(t, routes.CodeExample)
}

func TestBuildNow_FailureKeepsPreviousSnapshot(t *testing.T) {
	cfg := writeSite(t)
	o := NewOrchestrator(cfg, testLogger())

	_, err := o.BuildNow(context.Background(), "startup")
	require.NoError(t, err)
	before := o.Snapshot()

	require.NoError(t, os.WriteFile(cfg.CatalogPath, []byte("{broken"), 0o644))
	job, err := o.BuildNow(context.Background(), "edit")
	require.Error(t, err)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "loading", snap.Phase)
	assert.NotEmpty(t, snap.Progress.Errors)
	assert.Same(t, before, o.Snapshot())
}

func TestOrchestrator_SubmitProcessesJobs(t *testing.T) {
	cfg := writeSite(t)
	o := NewOrchestrator(cfg, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	job, err := o.Rebuild("api")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return job.Snapshot().Done()
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, StatusCompleted, job.Snapshot().Status)
	assert.NotNil(t, o.Snapshot())
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := writeSite(t)
	o := NewOrchestrator(cfg, testLogger())
	o.Start(context.Background())
	o.Stop()
	o.Stop()

	job, err := o.Rebuild("late")
	assert.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, StatusFailed, job.Snapshot().Status)
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := writeSite(t)
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, testLogger())

	// Workers not started, so the queue never drains.
	_, err := o.Rebuild("one")
	require.NoError(t, err)
	job, err := o.Rebuild("two")
	require.Error(t, err)
	assert.Equal(t, "queue_full", job.Snapshot().Phase)
	assert.Equal(t, 1, o.QueueDepth())
}
