// Package cli wires the cobra command tree for the townsim binary.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakvale/townsim/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "townsim",
	Short: "Autonomous town social simulation",
	Long:  "townsim runs a persistent population of agents who observe each other, gossip, marry, reproduce, and die across simulated decades.",
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: ./townsim.yaml)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(fastForwardCmd)
}

// loadConfig resolves configuration and applies the log level.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, nil
}
