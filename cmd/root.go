package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/station-sim/station-sim/sim"
	"github.com/station-sim/station-sim/sim/record"
	"github.com/station-sim/station-sim/station"
)

var (
	// CLI flags for the scenario configuration
	scenarioFile string // YAML scenario file, overridden by explicit flags
	logLevel     string // Log verbosity level
	samplesDB    string // SQLite file for recorded samples ("" = no recording)

	seed            int64 // Seed for the scenario random streams
	horizon         int64 // Total simulated time (virtual seconds)
	pumps           int   // Number of fuel pumps
	cashiers        int   // Number of cashiers in the shop
	meanServiceTime int64 // Average fueling time
	meanRefillTime  int64 // Average station-tank refill time
	meanCashierTime int64 // Average food sale time
	meanArrivalGap  int64 // Average gap between customer arrivals
	deviation       int64 // Uniform deviation applied to every timed activity
	emptyTankChance float64
	slowChance      float64
	foodChance      float64
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "station-sim",
	Short: "Discrete-event simulator for a gas station queueing network",
}

// runCmd executes the simulation using parameters from the scenario file and
// CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the gas station simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := loadConfig(cmd)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		logrus.Infof("Starting simulation: %d pumps, %d cashiers, horizon=%ds, seed=%d",
			cfg.Pumps, cfg.Cashiers, cfg.Horizon, cfg.Seed)

		env := sim.NewEnvironment()
		st, err := station.New(env, cfg)
		if err != nil {
			logrus.Fatalf("Could not build station: %v", err)
		}

		st.Run()
		st.Report().Print()

		if samplesDB != "" {
			writeRecording(st)
		}

		logrus.Info("Simulation complete.")
	},
}

// loadConfig merges defaults, the scenario file, and explicitly set flags,
// in that order of precedence.
func loadConfig(cmd *cobra.Command) station.Config {
	cfg := station.DefaultConfig()
	if scenarioFile != "" {
		loaded, err := station.LoadConfig(scenarioFile)
		if err != nil {
			logrus.Fatalf("Could not load scenario: %v", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("horizon") {
		cfg.Horizon = sim.SimTime(horizon)
	}
	if flags.Changed("pumps") {
		cfg.Pumps = pumps
	}
	if flags.Changed("cashiers") {
		cfg.Cashiers = cashiers
	}
	if flags.Changed("mean-service-time") {
		cfg.MeanServiceTime = sim.SimTime(meanServiceTime)
	}
	if flags.Changed("mean-refill-time") {
		cfg.MeanRefillTime = sim.SimTime(meanRefillTime)
	}
	if flags.Changed("mean-cashier-time") {
		cfg.MeanCashierTime = sim.SimTime(meanCashierTime)
	}
	if flags.Changed("mean-arrival-gap") {
		cfg.MeanArrivalGap = sim.SimTime(meanArrivalGap)
	}
	if flags.Changed("deviation") {
		cfg.Deviation = sim.SimTime(deviation)
	}
	if flags.Changed("empty-tank-chance") {
		cfg.EmptyTankChance = emptyTankChance
	}
	if flags.Changed("slow-customer-chance") {
		cfg.SlowCustomerChance = slowChance
	}
	if flags.Changed("wants-food-chance") {
		cfg.WantsFoodChance = foodChance
	}
	return cfg
}

func writeRecording(st *station.Station) {
	rec, err := record.New(samplesDB)
	if err != nil {
		logrus.Fatalf("Could not open recording database: %v", err)
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logrus.Errorf("Closing recording database: %v", err)
		}
	}()

	for _, res := range []*sim.MonitoredResource{st.Pumps(), st.Cashier()} {
		if err := rec.WriteSamples(res.Name(), res.Samples()); err != nil {
			logrus.Fatalf("Could not record %s samples: %v", res.Name(), err)
		}
	}
	if err := rec.WriteWaitingTimes(st.WaitingTimes().Records()); err != nil {
		logrus.Fatalf("Could not record waiting times: %v", err)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := station.DefaultConfig()

	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "YAML scenario file")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&samplesDB, "samples-db", "", "Record samples and waiting times into this SQLite file")

	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for the scenario random streams")
	runCmd.Flags().Int64Var(&horizon, "horizon", int64(defaults.Horizon), "Total simulated time (virtual seconds)")
	runCmd.Flags().IntVar(&pumps, "pumps", defaults.Pumps, "Number of fuel pumps")
	runCmd.Flags().IntVar(&cashiers, "cashiers", defaults.Cashiers, "Number of cashiers")
	runCmd.Flags().Int64Var(&meanServiceTime, "mean-service-time", int64(defaults.MeanServiceTime), "Average fueling time (seconds)")
	runCmd.Flags().Int64Var(&meanRefillTime, "mean-refill-time", int64(defaults.MeanRefillTime), "Average station-tank refill time (seconds)")
	runCmd.Flags().Int64Var(&meanCashierTime, "mean-cashier-time", int64(defaults.MeanCashierTime), "Average food sale time (seconds)")
	runCmd.Flags().Int64Var(&meanArrivalGap, "mean-arrival-gap", int64(defaults.MeanArrivalGap), "Average gap between arrivals (seconds)")
	runCmd.Flags().Int64Var(&deviation, "deviation", int64(defaults.Deviation), "Uniform deviation for all timed activities (seconds)")
	runCmd.Flags().Float64Var(&emptyTankChance, "empty-tank-chance", defaults.EmptyTankChance, "Probability the station tank is empty on arrival")
	runCmd.Flags().Float64Var(&slowChance, "slow-customer-chance", defaults.SlowCustomerChance, "Probability a customer takes twice the service time")
	runCmd.Flags().Float64Var(&foodChance, "wants-food-chance", defaults.WantsFoodChance, "Probability a customer buys food afterwards")

	rootCmd.AddCommand(runCmd)
}
