// handlers.go - API endpoint handlers

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jceal/stormwater-classifier/internal/classifier"
	"github.com/jceal/stormwater-classifier/internal/state"
)

// ClassifyRequest is the POST /api/classify request body.
type ClassifyRequest struct {
	Description string `json:"description"`
	Explain     bool   `json:"explain"`
}

// ClassifyResponse is the POST /api/classify response body.
type ClassifyResponse struct {
	Labels        classifier.Labels         `json:"labels"`
	NNIRequired   bool                      `json:"nni_required"`
	Intermediates *classifier.Intermediates `json:"intermediates,omitempty"`
}

// RunResponse is one evaluation run in GET /api/runs responses.
type RunResponse struct {
	ID          string  `json:"id"`
	Dataset     string  `json:"dataset"`
	Status      string  `json:"status"`
	StartedAt   string  `json:"started_at"`
	CompletedAt string  `json:"completed_at,omitempty"`
	Rows        int     `json:"rows"`
	MacroF1     float64 `json:"macro_f1"`
	MicroF1     float64 `json:"micro_f1"`
	WeightedF1  float64 `json:"weighted_f1"`
	Accuracy    float64 `json:"accuracy"`
	Error       string  `json:"error,omitempty"`
}

// MetricResponse is one label metric in GET /api/runs/{id}/metrics
// responses.
type MetricResponse struct {
	Label     string  `json:"label"`
	Kind      string  `json:"kind"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "description is required"})
		return
	}

	labels, inter, err := s.current().ClassifyWithExplanation(req.Description)
	if err != nil {
		s.logger.Error("classification failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "classification failed"})
		return
	}

	resp := ClassifyResponse{Labels: labels, NNIRequired: labels.NNIRequired()}
	if req.Explain {
		resp.Intermediates = &inter
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	runs, err := s.store.ListEvalRuns(limit)
	if err != nil {
		s.logger.Error("listing runs failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list runs"})
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, runResponse(run))
	}
	writeJSON(w, http.StatusOK, resp)
}

func runResponse(run state.EvalRun) RunResponse {
	r := RunResponse{
		ID:         run.ID,
		Dataset:    run.Dataset,
		Status:     string(run.Status),
		StartedAt:  run.StartedAt.Format(time.RFC3339),
		Rows:       run.Rows,
		MacroF1:    run.MacroF1,
		MicroF1:    run.MicroF1,
		WeightedF1: run.WeightedF1,
		Accuracy:   run.Accuracy,
		Error:      run.Error,
	}
	if run.CompletedAt != nil {
		r.CompletedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return r
}

func (s *Server) handleRunMetrics(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	metrics, err := s.store.LabelMetricsForRun(runID)
	if err != nil {
		s.logger.Error("loading run metrics failed", "run_id", runID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load metrics"})
		return
	}
	if len(metrics) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run not found"})
		return
	}

	resp := make([]MetricResponse, 0, len(metrics))
	for _, m := range metrics {
		resp = append(resp, MetricResponse{
			Label:     m.Label,
			Kind:      string(m.Kind),
			Precision: m.Precision,
			Recall:    m.Recall,
			F1:        m.F1,
			Support:   m.Support,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
