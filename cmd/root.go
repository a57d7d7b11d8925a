package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/factory-sim/factory-sim/sim"
)

var logLevel string

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Discrete-event simulator for a multi-stage manufacturing line",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// loadScenario resolves the scenario for a subcommand: the YAML file when
// --config is set, the built-in default otherwise, with --seed and
// --horizon overriding the file when the caller changed them.
func loadScenario(cmd *cobra.Command, configPath string, seed int64, horizon float64) (*sim.Scenario, error) {
	var sc *sim.Scenario
	if configPath != "" {
		loaded, err := sim.LoadScenario(configPath)
		if err != nil {
			return nil, err
		}
		sc = loaded
	} else {
		sc = sim.DefaultScenario()
	}
	if cmd.Flags().Changed("seed") {
		sc.Seed = seed
	}
	if cmd.Flags().Changed("horizon") {
		sc.Horizon = horizon
	}
	return sc, nil
}
