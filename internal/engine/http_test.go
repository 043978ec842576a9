package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bombarena/pkg/core"
)

func newTestServer(t *testing.T) (*httptest.Server, *Manager) {
	t.Helper()
	reg := prometheus.NewRegistry()
	opts := fastOptions(1, 0)
	opts.Metrics = NewMetrics(reg)
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(ctx, opts)
	t.Cleanup(m.Shutdown)

	ts := httptest.NewServer(NewRouter(m, reg))
	t.Cleanup(ts.Close)
	t.Cleanup(cancel)
	return ts, m
}

func do(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestSessionEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/sessions")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var info Info
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.NotEmpty(t, info.ID)

	resp = do(t, http.MethodGet, ts.URL+"/sessions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []Info
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, info.ID, list[0].ID)

	// 快照里状态以名字输出
	require.Eventually(t, func() bool {
		r := do(t, http.MethodGet, ts.URL+"/sessions/"+info.ID)
		b, _ := io.ReadAll(r.Body)
		return r.StatusCode == http.StatusOK && strings.Contains(string(b), `"state":"PLAYING"`)
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusAccepted, do(t, http.MethodPost, ts.URL+"/sessions/"+info.ID+"/input/right").StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, ts.URL+"/sessions/"+info.ID+"/input/jump").StatusCode)

	require.Eventually(t, func() bool {
		r := do(t, http.MethodGet, ts.URL+"/sessions/"+info.ID)
		var snap core.Snapshot
		if json.NewDecoder(r.Body).Decode(&snap) != nil {
			return false
		}
		return len(snap.Players) == 1 && snap.Players[0].Col == 2
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusAccepted, do(t, http.MethodPost, ts.URL+"/sessions/"+info.ID+"/pause").StatusCode)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, ts.URL+"/sessions/"+info.ID).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, ts.URL+"/sessions/"+info.ID).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodDelete, ts.URL+"/sessions/"+info.ID).StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, m := newTestServer(t)
	_, err := m.Create(nil)
	require.NoError(t, err)

	resp := do(t, http.MethodGet, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "arena_active_sessions 1")
}
