package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakvale/townsim/internal/api"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation continuously with the HTTP API",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w, db, err := openWorld(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &api.Server{World: w, DB: db}
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.Serve(addr); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.Sim.StepIntervalMS) * time.Millisecond
	tick := w.LastTick

	slog.Info("simulation started", "tick", tick, "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down, saving world", "tick", tick)
			if err := db.SaveWorldState(w); err != nil {
				slog.Error("final save failed", "error", err)
			}
			return nil
		default:
		}

		tick++
		timeOfDay, hour := scheduleFor(tick)
		if _, err := srv.Step(ctx, tick, timeOfDay, hour); err != nil {
			// A failed timestep leaves state as-is; the next loop
			// iteration retries with the following tick.
			slog.Error("timestep failed to complete", "tick", tick, "error", err)
		}

		if tick%uint64(cfg.Sim.SaveEvery) == 0 {
			w.LogDailyReport(tick)
			if err := db.SaveWorldState(w); err != nil {
				slog.Error("save failed", "tick", tick, "error", err)
			}
		}

		if interval > 0 {
			time.Sleep(interval)
		}
	}
}
