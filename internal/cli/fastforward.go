package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

var fastForwardSteps int

var fastForwardCmd = &cobra.Command{
	Use:   "fastforward",
	Short: "Catch the world up with a cheap low-fidelity pass and save",
	Long: `Runs a single low-fidelity update that approximates the given number
of missed timesteps: relationships drift along their routine contacts
without individual observation or gossip.`,
	RunE: runFastForward,
}

func init() {
	fastForwardCmd.Flags().IntVarP(&fastForwardSteps, "steps", "n", 30, "number of missed timesteps to approximate")
}

func runFastForward(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w, db, err := openWorld(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	tick := w.LastTick + uint64(fastForwardSteps)
	res, err := w.ExecuteLowFidelity(context.Background(), tick, fastForwardSteps)
	if err != nil {
		return err
	}

	slog.Info("fast-forward complete",
		"tick", tick,
		"missed", fastForwardSteps,
		"socializations", res.Socializations,
	)
	return db.SaveWorldState(w)
}
