package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgallion1/docchat/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type buildCacheRequest struct {
	Documents []string `json:"documents"`
	Force     bool     `json:"force,omitempty"`
}

func (s *Server) handleBuildCache(w http.ResponseWriter, r *http.Request) {
	var req buildCacheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(req.Documents, req.Force)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/cache/build/%s/status", job.ID),
	})
}

func (s *Server) handleBuildStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":    snap.ID,
		"status":    snap.Status,
		"documents": snap.Documents,
		"results":   snap.Results,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"documents": s.builder.CachedIDs(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
