package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docsite/internal/catalog"
	"github.com/dgallion1/docsite/internal/contentstore"
	"github.com/dgallion1/docsite/internal/search"
	"github.com/dgallion1/docsite/internal/site"
)

// Worker builds site snapshots.
type Worker struct {
	sources       site.Sources
	log           *slog.Logger
	snippetTokens int
}

func NewWorker(sources site.Sources, log *slog.Logger, snippetTokens int) *Worker {
	return &Worker{
		sources:       sources,
		log:           log,
		snippetTokens: snippetTokens,
	}
}

// Process runs a full rebuild for a job. Concepts whose inputs hash the
// same as in prev are carried over without reparsing. It returns nil when
// the job failed.
func (w *Worker) Process(ctx context.Context, job *Job, prev *site.Snapshot) *site.Snapshot {
	log := w.log.With("job_id", job.ID, "reason", job.Reason)
	start := time.Now()

	fail := func(phase string, err error) *site.Snapshot {
		log.Error("rebuild failed", "phase", phase, "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
		return nil
	}

	// Phase 1: Load sources
	job.SetStatus(StatusLoading, "loading")
	snap := site.New()
	var err error
	if snap.Catalog, err = w.sources.LoadCatalog(); err != nil {
		return fail("loading", err)
	}
	if snap.Store, err = w.sources.LoadStore(); err != nil {
		return fail("loading", err)
	}
	if snap.Blog, err = w.sources.LoadBlog(); err != nil {
		return fail("loading", err)
	}
	if snap.Changelog, err = w.sources.LoadChangelog(); err != nil {
		return fail("loading", err)
	}
	log.Info("sources loaded", "content_files", snap.Store.Len(), "posts", len(snap.Blog.Posts()))

	// Phase 2: Render concepts
	job.SetStatus(StatusRendering, "rendering")
	loader := contentstore.NewLoader(snap.Store, log)
	libs := snap.Catalog.All()
	total := 0
	for _, lib := range libs {
		total += len(lib.Concepts)
	}
	job.SetTotalConcepts(total)

	ix := search.NewBuilder(w.snippetTokens)
	for _, lib := range libs {
		ix.AddLibrary(lib)
		for _, c := range lib.Concepts {
			if err := ctx.Err(); err != nil {
				return fail("rendering", err)
			}
			raw, key, found := loader.Load(c, lib.Name)
			meta, _ := snap.Store.Meta(key)
			hash, err := conceptHash(c, meta, lib.Name, raw)
			if err != nil {
				return fail("rendering", err)
			}
			r, reused := prev.Reusable(lib.Name, c.Path, hash)
			if !reused {
				r = loader.Render(c, lib.Name, raw, key, found)
			}
			snap.PutConcept(r, hash)
			job.IncrConcept(reused, !found)
			if found {
				ix.AddConcept(search.ConceptDoc{Library: lib, Concept: c, Raw: raw})
			}
		}
	}

	// Phase 3: Index
	job.SetStatus(StatusIndexing, "indexing")
	for _, p := range snap.Blog.Posts() {
		ix.AddPost(p)
	}
	snap.Index = ix.Build()
	job.SetIndexEntries(len(snap.Index.Entries()))
	snap.BuiltAt = time.Now()

	progress := job.Snapshot().Progress
	log.Info("rebuild complete",
		"concepts", progress.TotalConcepts,
		"rendered", progress.ConceptsRendered,
		"reused", progress.ConceptsReused,
		"missing", progress.ConceptsMissing,
		"index_entries", progress.IndexEntries,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	job.SetStatus(StatusCompleted, "done")
	return snap
}

// conceptHash covers everything that feeds a rendered concept: the raw
// content, its front matter and the catalog fields used as fallbacks.
func conceptHash(c catalog.Concept, meta contentstore.Meta, libraryName, raw string) (string, error) {
	head, err := json.Marshal(struct {
		Concept catalog.Concept
		Meta    contentstore.Meta
	}{c, meta})
	if err != nil {
		return "", fmt.Errorf("hash concept: %w", err)
	}
	buf := make([]byte, 0, len(head)+len(libraryName)+len(raw)+2)
	buf = append(buf, head...)
	buf = append(buf, 0)
	buf = append(buf, libraryName...)
	buf = append(buf, 0)
	buf = append(buf, raw...)
	return ContentHashHex(buf), nil
}
