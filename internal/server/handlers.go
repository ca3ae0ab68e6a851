package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	stderrors "skillmatch/internal/common/errors"
	"skillmatch/internal/common/validation"
)

const healthCheckTimeout = 3 * time.Second

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	payload, raw, err := readBody(r)
	if err != nil {
		s.writeError(w, stderrors.Wrap(stderrors.ErrCodeInvalidRequest, "malformed request body", err))
		return
	}
	if err := validation.ValidateSearchRequest(payload); err != nil {
		s.writeError(w, stderrors.Wrap(stderrors.ErrCodeInvalidRequest, "invalid search request", err))
		return
	}

	var req searchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeError(w, stderrors.Wrap(stderrors.ErrCodeInvalidRequest, "malformed request body", err))
		return
	}

	resp, err := s.svc.Search(r.Context(), req.toServiceRequest())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSkillCategories(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.SkillCategories(r.Context(), s.categories)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"categories": groups})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	payload, raw, err := readBody(r)
	if err != nil {
		s.writeError(w, stderrors.Wrap(stderrors.ErrCodeInvalidRequest, "malformed request body", err))
		return
	}
	if err := validation.ValidateStatisticsRequest(payload); err != nil {
		s.writeError(w, stderrors.Wrap(stderrors.ErrCodeInvalidRequest, "invalid statistics request", err))
		return
	}

	var req statisticsRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeError(w, stderrors.Wrap(stderrors.ErrCodeInvalidRequest, "malformed request body", err))
		return
	}

	resp, err := s.svc.Statistics(r.Context(), s.stats, req.toServiceRequest())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.health))
	for name, check := range s.health {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]interface{}{"checks": checks}
	if status == http.StatusOK {
		body["status"] = "healthy"
	} else {
		body["status"] = "unhealthy"
	}
	s.writeJSON(w, status, body)
}

// readBody decodes the request body once into a generic map for schema
// validation, returning the raw bytes for the typed decode.
func readBody(r *http.Request) (map[string]interface{}, []byte, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, err
	}
	return payload, raw, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write response", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var stdErr *stderrors.StandardError
	if !errors.As(err, &stdErr) {
		stdErr = stderrors.Normalize(err)
	}

	status := stderrors.HTTPStatus(stdErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"code":    string(stdErr.Code),
			"message": stdErr.Message,
			"details": stdErr.Details,
		})
	} else {
		s.logger.Warn("request rejected", map[string]interface{}{
			"code":    string(stdErr.Code),
			"message": stdErr.Message,
		})
	}
	s.writeJSON(w, status, map[string]interface{}{"error": stdErr})
}
