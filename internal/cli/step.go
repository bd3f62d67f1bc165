package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

var stepCount int

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Advance the simulation by a number of timesteps and save",
	RunE:  runStep,
}

func init() {
	stepCmd.Flags().IntVarP(&stepCount, "count", "n", 1, "number of timesteps to execute")
}

func runStep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w, db, err := openWorld(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tick := w.LastTick
	for i := 0; i < stepCount; i++ {
		tick++
		timeOfDay, hour := scheduleFor(tick)
		res, err := w.ExecuteTimestep(ctx, tick, timeOfDay, hour)
		if err != nil {
			return err
		}
		slog.Info("timestep complete",
			"tick", tick,
			"observations", res.Observations,
			"socializations", res.Socializations,
			"life_events", res.LifeEvents,
		)
	}

	w.LogDailyReport(tick)
	return db.SaveWorldState(w)
}
