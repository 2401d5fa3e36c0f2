package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/homerpc/internal/audit"
	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/infrastructure/config"
	"github.com/nerrad567/homerpc/internal/infrastructure/logging"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
	"github.com/nerrad567/homerpc/internal/server"
)

type fakeAudit struct {
	got    audit.Filter
	result *audit.ListResult
	err    error
}

func (f *fakeAudit) Create(context.Context, *audit.Entry) error { return nil }

func (f *fakeAudit) List(_ context.Context, filter audit.Filter) (*audit.ListResult, error) {
	f.got = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type checkFunc func(context.Context) error

func (f checkFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func testLogger() *logging.Logger {
	return logging.NewWithWriter(config.LoggingConfig{Level: "error"}, "test", io.Discard)
}

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.Logger == nil {
		deps.Logger = testLogger()
	}
	if deps.Stats == nil {
		deps.Stats = server.NewStats()
	}
	s, err := New(deps)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(Deps{Stats: server.NewStats()})
	assert.Error(t, err)

	_, err = New(Deps{Logger: testLogger()})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	t.Run("no components", func(t *testing.T) {
		s := newTestServer(t, Deps{Version: "1.2.3"})
		rec := get(t, s.Handler(), "/health")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","version":"1.2.3"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("healthy components", func(t *testing.T) {
		s := newTestServer(t, Deps{Checks: map[string]HealthChecker{
			"database": checkFunc(func(context.Context) error { return nil }),
		}})
		rec := get(t, s.Handler(), "/health")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","components":{"database":"ok"}}`, rec.Body.String())
	})

	t.Run("failing component degrades", func(t *testing.T) {
		s := newTestServer(t, Deps{Checks: map[string]HealthChecker{
			"database": checkFunc(func(context.Context) error { return nil }),
			"mqtt":     checkFunc(func(context.Context) error { return errors.New("mqtt: client not connected") }),
		}})
		rec := get(t, s.Handler(), "/health")

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "ok", body.Components["database"])
		assert.Equal(t, "mqtt: client not connected", body.Components["mqtt"])
	})
}

func TestStats(t *testing.T) {
	stats := server.NewStats()
	ctx := context.Background()
	stats.CommandExecuted(ctx, dispatch.Outcome{Reply: jsonrpc.NewReply("1", "ok")})
	stats.CommandExecuted(ctx, dispatch.Outcome{Reply: jsonrpc.Render("2", jsonrpc.CodeAPIError, "x")})
	stats.BatchCompleted(ctx, dispatch.BatchSummary{Commands: 2, Errors: 1, At: time.Now()})

	s := newTestServer(t, Deps{Stats: stats})
	rec := get(t, s.Handler(), "/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap server.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, int64(1), snap.Batches)
	assert.Equal(t, int64(2), snap.Commands)
	assert.Equal(t, map[string]int64{"0": 1, "1": 1}, snap.RepliesByCode)
}

func TestAuditDisabled(t *testing.T) {
	s := newTestServer(t, Deps{})
	rec := get(t, s.Handler(), "/audit")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "audit trail not enabled")
}

func TestAuditQuery(t *testing.T) {
	repo := &fakeAudit{result: &audit.ListResult{
		Entries: []audit.Entry{{ID: "aud-1", Method: "addRoom", Code: 1}},
		Total:   1,
		Limit:   10,
		Offset:  5,
	}}
	s := newTestServer(t, Deps{Audit: repo})

	rec := get(t, s.Handler(), "/audit?method=addRoom&code=1&limit=10&offset=5")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "addRoom", repo.got.Method)
	require.NotNil(t, repo.got.Code)
	assert.Equal(t, 1, *repo.got.Code)
	assert.Equal(t, 10, repo.got.Limit)
	assert.Equal(t, 5, repo.got.Offset)

	var body audit.ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "aud-1", body.Entries[0].ID)
}

func TestAuditBadParams(t *testing.T) {
	s := newTestServer(t, Deps{Audit: &fakeAudit{}})

	for _, target := range []string{"/audit?code=x", "/audit?limit=ten", "/audit?offset=-z"} {
		rec := get(t, s.Handler(), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestAuditRepositoryFailure(t *testing.T) {
	s := newTestServer(t, Deps{Audit: &fakeAudit{err: errors.New("database is locked")}})
	rec := get(t, s.Handler(), "/audit")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "locked")
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(t, Deps{})
	h := s.Handler()

	rec := get(t, h, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, Deps{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "trace-1")
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "trace-1", rec.Header().Get("X-Request-ID"))
}

func TestStartServeClose(t *testing.T) {
	cfg := config.Default()
	cfg.Status.Timeouts = config.StatusTimeoutConfig{Read: 5, Write: 7, Idle: 9}
	s := newTestServer(t, Deps{
		Address: "127.0.0.1:0",
		Timeouts: Timeouts{
			Read:  cfg.GetReadTimeout(),
			Write: cfg.GetWriteTimeout(),
			Idle:  cfg.GetIdleTimeout(),
		},
	})
	assert.Nil(t, s.Addr())

	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	s.mu.Lock()
	hs := s.server
	s.mu.Unlock()
	assert.Equal(t, 5*time.Second, hs.ReadTimeout)
	assert.Equal(t, 7*time.Second, hs.WriteTimeout)
	assert.Equal(t, 9*time.Second, hs.IdleTimeout)

	resp, err := http.Get(fmt.Sprintf("http://%s/health", s.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestErrorBodyCarriesRequestID(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req.Header.Set("X-Request-ID", "req-42")
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no such endpoint","code":"not_found","request_id":"req-42"}`, rec.Body.String())
}
