// Timestep scheduler — the fixed phase order every simulated day runs
// through, plus the low-fidelity batch path for fast-forwarding.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
	"github.com/oakvale/townsim/internal/knowledge"
	"github.com/oakvale/townsim/internal/routine"
)

// ObservationChance gates whether a co-located agent registers in the
// observer's mental model this timestep.
const ObservationChance = 0.3

// TimestepResult summarizes what one timestep did.
type TimestepResult struct {
	Observations    int                `json:"observations"`
	Socializations  int                `json:"socializations"`
	LifeEvents      []chronicle.Record `json:"life_events"`
	TrackingUpdates int                `json:"tracking_updates"`
}

// ExecuteTimestep runs one high-fidelity timestep: whereabouts,
// observation, socialization, life events, tracking refresh, in that
// order. One agent's failure is logged and skipped; a collaborator
// failure aborts the timestep.
func (w *World) ExecuteTimestep(ctx context.Context, tick uint64, timeOfDay routine.TimeOfDay, hour int) (TimestepResult, error) {
	if err := ctx.Err(); err != nil {
		return TimestepResult{}, err
	}
	var res TimestepResult
	w.LastTick = tick

	// Phase 1: whereabouts. Everyone living is placed, toddlers included.
	if err := w.updateWhereabouts(timeOfDay, hour); err != nil {
		return res, fmt.Errorf("timestep %d: %w", tick, err)
	}

	// Phase 2: observation.
	res.Observations = w.runObservation(tick)

	// Phase 3: socialization, with information exchange.
	res.Socializations = w.runSocialization(tick, true)

	// Yearly aging happens between socialization and the life events that
	// depend on age thresholds.
	if tick > 0 && tick%agents.TimestepsPerYear == 0 {
		w.ageAgents(tick)
	}

	// Phase 4: life events and community events.
	events, err := w.runLifeEvents(tick)
	if err != nil {
		return res, fmt.Errorf("timestep %d: %w", tick, err)
	}
	res.LifeEvents = events

	// Phase 5: tracking refresh.
	res.TrackingUpdates = w.refreshTracking()

	w.updateStats()
	return res, nil
}

// ExecuteLowFidelity advances the world as if `missing` timesteps of
// routine contact had passed, without materializing each day. Observation
// and information exchange are skipped; relationships of agents who would
// plausibly have met (household, coworkers) advance by a batch delta.
func (w *World) ExecuteLowFidelity(ctx context.Context, tick uint64, missing int) (TimestepResult, error) {
	if err := ctx.Err(); err != nil {
		return TimestepResult{}, err
	}
	if missing < 1 {
		missing = 1
	}
	var res TimestepResult
	w.LastTick = tick

	for _, a := range w.Agents {
		if !a.SociallyActive() {
			continue
		}
		for _, b := range w.routineContacts(a) {
			if !w.decideToInstigate(a, b) {
				continue
			}
			w.Relations.Progress(a.ID, b.ID, missing, tick)
			w.progressSpark(a, b, float64(missing)*0.3, tick)
			res.Socializations++
		}
	}

	w.updateStats()
	return res, nil
}

// updateWhereabouts places every living agent per the routine collaborator.
func (w *World) updateWhereabouts(timeOfDay routine.TimeOfDay, hour int) error {
	for _, a := range w.Agents {
		if !a.Alive {
			continue
		}
		loc, err := w.Routine.Whereabouts(a, timeOfDay, hour)
		if err != nil {
			if errors.Is(err, ErrAgentNotFound) {
				slog.Warn("whereabouts skipped", "agent", a.ID, "error", err)
				continue
			}
			return fmt.Errorf("whereabouts: %w", err)
		}
		a.Location = loc
	}
	return nil
}

// runObservation lets each agent notice who shares their location.
func (w *World) runObservation(tick uint64) int {
	observations := 0
	for _, observer := range w.Agents {
		if !observer.SociallyActive() {
			continue
		}
		for _, subject := range w.Agents {
			if subject.ID == observer.ID || !subject.Alive || subject.Location != observer.Location {
				continue
			}
			if w.Rand.Float() >= ObservationChance {
				continue
			}
			if w.Knowledge.AddFact(observer.ID, subject.ID, knowledge.FactName, tick) {
				observations++
				continue
			}
			// Already acquainted: observing again refreshes where they
			// tend to be.
			if w.Knowledge.AddFact(observer.ID, subject.ID, knowledge.FactLocation, tick) {
				observations++
			}
		}
	}
	return observations
}

// ageAgents increments every living agent's age by one simulated year.
func (w *World) ageAgents(tick uint64) {
	for _, a := range w.Agents {
		if a.Alive {
			a.Age++
		}
	}
	slog.Debug("agents aged", "tick", tick)
}

// runLifeEvents executes the evaluators in fixed order, then the
// community event scheduler.
func (w *World) runLifeEvents(tick uint64) ([]chronicle.Record, error) {
	var out []chronicle.Record

	for _, eval := range []func(uint64) ([]chronicle.Record, error){
		w.CheckForMarriageProposals,
		w.CheckForReproduction,
		w.CheckForBirths,
		w.CheckForDivorces,
		w.CheckForDeaths,
	} {
		recs, err := eval(tick)
		if err != nil {
			return out, err
		}
		out = append(out, recs...)
	}

	recs, err := w.runCommunityEvents(tick)
	if err != nil {
		return out, err
	}
	out = append(out, recs...)
	return out, nil
}
