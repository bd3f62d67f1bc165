// Package api exposes the running world over HTTP: read endpoints for
// observation and control endpoints that drive timesteps. This is a thin
// caller over the engine, not part of the simulation core.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakvale/townsim/internal/chronicle"
	"github.com/oakvale/townsim/internal/engine"
	"github.com/oakvale/townsim/internal/persistence"
	"github.com/oakvale/townsim/internal/routine"
)

// Server serves one world over HTTP. The mutex serializes timestep
// execution against reads; the engine itself assumes no two timesteps
// overlap.
type Server struct {
	mu    sync.RWMutex
	World *engine.World
	DB    *persistence.DB
	Log   *chronicle.Memory // Optional in-memory event log for /events.
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	limiter := NewRateLimiter(10, time.Minute)

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/agents", s.handleAgents)
	r.Get("/api/agents/{agentID}", s.handleAgent)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/morale", s.handleMorale)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/api/step", s.handleStep)
		r.Post("/api/fastforward", s.handleFastForward)
		r.Post("/api/festival", s.handleFestival)
	})

	return r
}

// Serve starts the HTTP listener and blocks.
func (s *Server) Serve(addr string) error {
	slog.Info("api listening", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

// Step executes one timestep under the server lock. The run loop uses
// this too, so loop-driven and API-driven steps never interleave.
func (s *Server) Step(ctx context.Context, tick uint64, timeOfDay routine.TimeOfDay, hour int) (engine.TimestepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.World.ExecuteTimestep(ctx, tick, timeOfDay, hour)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"world_id":   s.World.ID,
		"world_name": s.World.Name,
		"tick":       s.World.LastTick,
		"morale":     s.World.Morale,
		"stats":      s.World.Stats,
	})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type agentSummary struct {
		ID      uint64 `json:"id"`
		Name    string `json:"name"`
		Age     uint16 `json:"age"`
		Alive   bool   `json:"alive"`
		Married bool   `json:"married"`
	}
	out := make([]agentSummary, 0, len(s.World.Agents))
	for _, a := range s.World.Agents {
		out = append(out, agentSummary{
			ID:      uint64(a.ID),
			Name:    a.Name,
			Age:     a.Age,
			Alive:   a.Alive,
			Married: a.Married(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, err := strconv.ParseUint(chi.URLParam(r, "agentID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}
	for _, a := range s.World.Agents {
		if uint64(a.ID) == id {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeError(w, http.StatusNotFound, "agent not found")
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			n = parsed
		}
	}

	if s.DB != nil {
		events, err := s.DB.RecentEvents(n)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, events)
		return
	}
	if s.Log != nil {
		writeJSON(w, http.StatusOK, s.Log.Recent(n))
		return
	}
	writeJSON(w, http.StatusOK, []chronicle.Record{})
}

func (s *Server) handleMorale(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]float64{
		"morale":   s.World.Morale,
		"baseline": s.World.MoraleBaseline,
	})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tick      uint64 `json:"tick"`
		TimeOfDay string `json:"time_of_day"`
		Hour      int    `json:"hour"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Tick == 0 {
		req.Tick = s.World.LastTick + 1
	}
	tod := routine.TimeOfDay(req.TimeOfDay)
	if tod != routine.Day && tod != routine.Night {
		tod = routine.Day
	}

	res, err := s.Step(r.Context(), req.Tick, tod, req.Hour)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("timestep failed to complete: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFastForward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Missing int `json:"missing_timesteps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Missing < 1 {
		writeError(w, http.StatusBadRequest, "missing_timesteps must be positive")
		return
	}

	s.mu.Lock()
	res, err := s.World.ExecuteLowFidelity(r.Context(), s.World.LastTick+uint64(req.Missing), req.Missing)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("timestep failed to complete: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFestival(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InTimesteps uint64 `json:"in_timesteps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	ev := s.World.ScheduleFestival(s.World.LastTick + req.InTimesteps)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, ev)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
