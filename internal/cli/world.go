// World bootstrap and restore shared by the commands.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/config"
	"github.com/oakvale/townsim/internal/engine"
	"github.com/oakvale/townsim/internal/entropy"
	"github.com/oakvale/townsim/internal/persistence"
	"github.com/oakvale/townsim/internal/routine"
	"github.com/oakvale/townsim/internal/town"
)

// openWorld loads the saved world from the database, or bootstraps a
// fresh one when none exists. Life events are chronicled straight to the
// database either way.
func openWorld(cfg *config.Config) (*engine.World, *persistence.DB, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := persistence.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	var w *engine.World
	if db.HasWorldState() {
		slog.Info("found saved world state, loading", "path", cfg.Database.Path)
		w, err = db.LoadWorld(cfg.World.Seed)
		if err != nil && !errors.Is(err, engine.ErrWorldNotFound) {
			db.Close()
			return nil, nil, fmt.Errorf("load world: %w", err)
		}
	}

	if w == nil {
		slog.Info("bootstrapping world",
			"name", cfg.World.Name,
			"population", cfg.World.Population,
			"seed", cfg.World.Seed,
		)
		spawner := agents.NewSpawner(cfg.World.Seed)
		t, roster := town.Generate(town.GenConfig{
			Name:       cfg.World.Name,
			Population: cfg.World.Population,
			Seed:       cfg.World.Seed,
		}, spawner)
		w = engine.NewWorld(t, roster, spawner, engine.Options{
			Name:           cfg.World.Name,
			Seed:           cfg.World.Seed,
			MoraleBaseline: cfg.World.MoraleBaseline,
		})
	}

	w.Chronicle = db.NewSink()
	if pooled := entropy.NewPooled(cfg.World.RandomOrgKey); pooled != nil {
		slog.Info("using random.org entropy pool")
		w.Rand = pooled
	}

	return w, db, nil
}

// scheduleFor maps a tick onto the time-of-day and hour the whereabouts
// phase runs at. Days cycle through a morning, midday, evening, and
// night slice so routine locations vary.
func scheduleFor(tick uint64) (routine.TimeOfDay, int) {
	switch tick % 4 {
	case 0:
		return routine.Day, 9
	case 1:
		return routine.Day, 13
	case 2:
		return routine.Day, 18
	default:
		return routine.Night, 22
	}
}
