// internal/api/handlers.go
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financial-health-workers/internal/common/errors"
	"financial-health-workers/internal/healthscore"
	"financial-health-workers/internal/healthscore/benchmarks"
	calculatehealthscore "financial-health-workers/internal/workers/health/calculate-health-score"
	validatefinancialinputs "financial-health-workers/internal/workers/health/validate-financial-inputs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.deps.Version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.deps.Checks))
	for _, c := range s.deps.Checks {
		if err := c.Ping(ctx); err != nil {
			results[c.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[c.Name] = "ok"
	}

	writeJSON(w, status, map[string]interface{}{
		"ready":  status == http.StatusOK,
		"checks": results,
	})
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	var input calculatehealthscore.Input
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, err)
		return
	}
	if input.RequestID == "" {
		input.RequestID = middleware.GetReqID(r.Context())
	}

	output, err := s.deps.Calculator.Execute(r.Context(), &input)
	if err != nil {
		s.logger.Warn("health score request failed", map[string]interface{}{
			"requestId": input.RequestID,
			"error":     err.Error(),
		})
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var input validatefinancialinputs.Input
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, err)
		return
	}
	if input.RequestID == "" {
		input.RequestID = middleware.GetReqID(r.Context())
	}

	output, err := s.deps.Validator.Execute(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// healthCheckRequest starts the BPMN process; its fields become the
// process instance variables.
type healthCheckRequest struct {
	RequestID string                 `json:"requestId"`
	UserID    string                 `json:"userId"`
	Email     string                 `json:"email"`
	Phone     string                 `json:"phone,omitempty"`
	Name      string                 `json:"name,omitempty"`
	Inputs    map[string]interface{} `json:"inputs"`
}

func (s *Server) handleStartHealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.deps.Processes == nil {
		writeError(w, errors.NewExternalServiceError("zeebe", stderrors.New("process engine is not configured")))
		return
	}

	var req healthCheckRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Inputs) == 0 {
		writeError(w, errors.NewInvalidHealthInputError("inputs are required"))
		return
	}
	if req.RequestID == "" {
		req.RequestID = middleware.GetReqID(r.Context())
	}

	vars := map[string]interface{}{
		"requestId": req.RequestID,
		"userId":    req.UserID,
		"email":     req.Email,
		"phone":     req.Phone,
		"name":      req.Name,
		"inputs":    req.Inputs,
	}
	started, err := s.deps.Processes.StartHealthCheck(r.Context(), vars)
	if err != nil {
		s.logger.Warn("health check process start failed", map[string]interface{}{
			"requestId": req.RequestID,
			"error":     err.Error(),
		})
		writeError(w, err)
		return
	}

	s.logger.Info("health check process started", map[string]interface{}{
		"requestId":          req.RequestID,
		"processInstanceKey": started.ProcessInstanceKey,
	})
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"requestId": req.RequestID,
		"process":   started,
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Reports == nil {
		writeError(w, errors.NewExternalServiceError("postgres", stderrors.New("report store is not configured")))
		return
	}

	id := chi.URLParam(r, "reportId")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, errors.NewReportNotFoundError(id))
		return
	}

	report, err := s.deps.Reports.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handlePeers lists the peer buckets, or with ?age= the matching bucket,
// and with ?age=&score= the full peer comparison.
func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ageParam := strings.TrimSpace(q.Get("age"))
	if ageParam == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"buckets": benchmarks.PeerBuckets})
		return
	}

	age, err := strconv.ParseFloat(ageParam, 64)
	if err != nil || age < 0 {
		writeError(w, errors.NewInvalidHealthInputError("age must be a non-negative number"))
		return
	}

	scoreParam := strings.TrimSpace(q.Get("score"))
	if scoreParam == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"bucket": benchmarks.PeerBucketFor(age)})
		return
	}

	score, err := strconv.Atoi(scoreParam)
	if err != nil || score < 0 || score > 100 {
		writeError(w, errors.NewInvalidHealthInputError("score must be an integer between 0 and 100"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bucket":     benchmarks.PeerBucketFor(age),
		"comparison": healthscore.ComparePeers(score, age),
	})
}
