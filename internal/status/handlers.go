package status

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/nerrad567/homerpc/internal/audit"
)

// healthCheckTimeout bounds each component check.
const healthCheckTimeout = 2 * time.Second

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}

// handleHealth reports "ok", or "degraded" with 503 when any sink fails
// its check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: s.version}
	status := http.StatusOK

	if len(s.checks) > 0 {
		resp.Components = make(map[string]string, len(s.checks))
		for name, check := range s.checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			err := check.HealthCheck(ctx)
			cancel()

			if err != nil {
				resp.Components[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Components[name] = "ok"
		}
	}

	writeJSON(w, status, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

// handleListAudit returns recent audit entries.
//
// Query parameters:
//   - method: exact method name
//   - code: reply code
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeError(w, r, http.StatusNotFound, codeNotFound, "audit trail not enabled")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{Method: q.Get("method")}

	if v := q.Get("code"); v != "" {
		code, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "code must be an integer")
			return
		}
		filter.Code = &code
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, p.name+" must be an integer")
			return
		}
		*p.dst = n
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list audit entries", "error", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "failed to list audit entries")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// componentNames returns the configured health check names, sorted.
func (s *Server) componentNames() []string {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
