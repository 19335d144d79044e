// Package station implements the gas-station scenario on top of the sim
// kernel: customer journeys over pumps and a cashier, arrival generation, and
// the end-of-run report.
package station

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/station-sim/station-sim/sim"
)

// Config is the scenario configuration. All timing values are virtual
// seconds; timed activities draw uniformly from [mean-deviation,
// mean+deviation].
type Config struct {
	Pumps    int `yaml:"pumps"`
	Cashiers int `yaml:"cashiers"`

	MeanServiceTime sim.SimTime `yaml:"mean_service_time"` // fueling one car
	MeanRefillTime  sim.SimTime `yaml:"mean_refill_time"`  // refilling an empty station tank
	MeanCashierTime sim.SimTime `yaml:"mean_cashier_time"` // one food sale
	MeanArrivalGap  sim.SimTime `yaml:"mean_arrival_gap"`  // between customer arrivals
	Deviation       sim.SimTime `yaml:"deviation"`

	EmptyTankChance    float64 `yaml:"empty_tank_chance"`    // station tank is empty on arrival
	SlowCustomerChance float64 `yaml:"slow_customer_chance"` // customer takes twice the service time
	WantsFoodChance    float64 `yaml:"wants_food_chance"`    // customer visits the shop afterwards

	Horizon sim.SimTime `yaml:"horizon"`
	Seed    int64       `yaml:"seed"`
}

// DefaultConfig returns a working day at a two-pump station.
func DefaultConfig() Config {
	return Config{
		Pumps:              2,
		Cashiers:           1,
		MeanServiceTime:    300,
		MeanRefillTime:     600,
		MeanCashierTime:    120,
		MeanArrivalGap:     180,
		Deviation:          60,
		EmptyTankChance:    0.05,
		SlowCustomerChance: 0.35,
		WantsFoodChance:    0.25,
		Horizon:            24 * 60 * 60,
		Seed:               1 << 25,
	}
}

// LoadConfig reads a YAML scenario file over the defaults. Fields absent from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scenario file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the kernel or the scenario cannot run.
// The kernel re-checks capacities at resource construction; everything else
// is validated only here.
func (c Config) Validate() error {
	if c.Pumps < 1 {
		return fmt.Errorf("pumps must be at least 1, got %d", c.Pumps)
	}
	if c.Cashiers < 1 {
		return fmt.Errorf("cashiers must be at least 1, got %d", c.Cashiers)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if c.Deviation < 0 {
		return fmt.Errorf("deviation must not be negative, got %d", c.Deviation)
	}

	for _, tv := range []struct {
		name string
		mean sim.SimTime
	}{
		{"mean_service_time", c.MeanServiceTime},
		{"mean_refill_time", c.MeanRefillTime},
		{"mean_cashier_time", c.MeanCashierTime},
	} {
		if tv.mean <= 0 {
			return fmt.Errorf("%s must be positive, got %d", tv.name, tv.mean)
		}
		if c.Deviation > tv.mean {
			return fmt.Errorf("deviation %d exceeds %s %d; draws would go negative",
				c.Deviation, tv.name, tv.mean)
		}
	}
	// A zero arrival gap would spawn unboundedly many customers at one
	// instant, so the gap must stay strictly positive.
	if c.MeanArrivalGap <= 0 {
		return fmt.Errorf("mean_arrival_gap must be positive, got %d", c.MeanArrivalGap)
	}
	if c.Deviation >= c.MeanArrivalGap {
		return fmt.Errorf("deviation %d must be below mean_arrival_gap %d",
			c.Deviation, c.MeanArrivalGap)
	}

	for _, pv := range []struct {
		name string
		p    float64
	}{
		{"empty_tank_chance", c.EmptyTankChance},
		{"slow_customer_chance", c.SlowCustomerChance},
		{"wants_food_chance", c.WantsFoodChance},
	} {
		if pv.p < 0 || pv.p > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", pv.name, pv.p)
		}
	}
	return nil
}
