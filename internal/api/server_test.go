package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
	"github.com/oakvale/townsim/internal/engine"
	"github.com/oakvale/townsim/internal/town"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	spawner := agents.NewSpawner(42)
	cfg := town.DefaultGenConfig()
	cfg.Population = 12
	tw, roster := town.Generate(cfg, spawner)
	w := engine.NewWorld(tw, roster, spawner, engine.Options{Name: "Oakvale", Seed: 42})
	return &Server{
		World: w,
		Log:   w.Chronicle.(*chronicle.Memory),
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "10.0.0.1:54321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Oakvale", resp["world_name"])
	assert.EqualValues(t, 0, resp["tick"])
	assert.EqualValues(t, 50, resp["morale"])
	require.Contains(t, resp, "stats")
}

func TestHandleAgents_List(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 12)
	assert.Contains(t, resp[0], "name")
	assert.Contains(t, resp[0], "alive")
}

func TestHandleAgent_ByID(t *testing.T) {
	s := newTestServer(t)
	r := s.Router()

	first := s.World.Agents[0]
	rec := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/agents/%d", first.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, first.Name, resp["name"])
	assert.Contains(t, resp, "traits")

	rec = doJSON(t, r, http.MethodGet, "/api/agents/99999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/agents/bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMorale(t *testing.T) {
	s := newTestServer(t)
	s.World.Morale = 72.5

	rec := doJSON(t, s.Router(), http.MethodGet, "/api/morale", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 72.5, resp["morale"])
	assert.Equal(t, 50.0, resp["baseline"])
}

func TestHandleStep_AdvancesWorld(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/step", map[string]any{
		"time_of_day": "day",
		"hour":        12,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res engine.TimestepResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, uint64(1), s.World.LastTick)
}

func TestHandleStep_BadBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/step", bytes.NewBufferString("{nope"))
	req.RemoteAddr = "10.0.0.2:1"
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFastForward(t *testing.T) {
	s := newTestServer(t)
	r := s.Router()

	rec := doJSON(t, r, http.MethodPost, "/api/fastforward", map[string]any{
		"missing_timesteps": 30,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(30), s.World.LastTick)

	rec = doJSON(t, r, http.MethodPost, "/api/fastforward", map[string]any{
		"missing_timesteps": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFestival_Schedules(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/festival", map[string]any{
		"in_timesteps": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, s.World.Scheduled, 1)
	assert.Equal(t, engine.EventFestival, s.World.Scheduled[0].Kind)
	assert.Equal(t, uint64(5), s.World.Scheduled[0].EndTick)
}

func TestHandleEvents_MemoryLog(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Log.Append(chronicle.New(3, chronicle.KindFestival, nil, "festival on the square")))

	rec := doJSON(t, s.Router(), http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []chronicle.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, chronicle.KindFestival, resp[0].Kind)
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	// Other addresses have their own bucket.
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiter_MiddlewareRejects(t *testing.T) {
	s := newTestServer(t)
	r := s.Router()

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = doJSON(t, r, http.MethodPost, "/api/festival", map[string]any{"in_timesteps": 1})
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}
