package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleRebuild queues a full site rebuild.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	reason := r.URL.Query().Get("reason")
	if reason == "" {
		reason = "api"
	}
	job, err := s.orchestrator.Rebuild(reason)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	snap := job.Snapshot()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/rebuild/%s/status", snap.ID),
	})
}

func (s *Server) handleRebuildStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
