package station

import (
	"errors"
	"fmt"

	"github.com/station-sim/station-sim/sim"
)

// ResourceStats is the per-resource slice of a Report.
type ResourceStats struct {
	Name            string
	Capacity        int
	Utilization     float64 // in [0, 1]
	MeanQueueLength float64 // time-averaged demand
	Samples         int
}

// Report aggregates a finished run.
type Report struct {
	Horizon            sim.SimTime
	CompletedCustomers int
	Arrivals           int
	MeanWaitingTime    float64
	HasWaitingData     bool
	Pumps              ResourceStats
	Cashier            ResourceStats
}

// Report computes the end-of-run statistics over the configured horizon.
func (s *Station) Report() Report {
	r := Report{
		Horizon:  s.cfg.Horizon,
		Arrivals: s.arrivals,
		Pumps:    resourceStats(s.pumps, s.cfg.Horizon),
		Cashier:  resourceStats(s.shop, s.cfg.Horizon),
	}

	r.CompletedCustomers = s.waits.Count()
	mean, err := s.waits.Mean()
	switch {
	case errors.Is(err, sim.ErrNoData):
		r.HasWaitingData = false
	case err == nil:
		r.HasWaitingData = true
		r.MeanWaitingTime = mean
	}
	return r
}

func resourceStats(m *sim.MonitoredResource, horizon sim.SimTime) ResourceStats {
	samples := m.Samples()
	return ResourceStats{
		Name:            m.Name(),
		Capacity:        m.Capacity(),
		Utilization:     sim.Utilization(samples, m.Capacity(), horizon),
		MeanQueueLength: sim.MeanQueueLength(samples, horizon),
		Samples:         len(samples),
	}
}

// Print displays the report at the end of the simulation.
func (r Report) Print() {
	fmt.Println("=== Gas Station Simulation ===")
	fmt.Printf("Simulated horizon     : %d seconds\n", r.Horizon)
	fmt.Printf("Customers arrived     : %d\n", r.Arrivals)
	fmt.Printf("Customers completed   : %d\n", r.CompletedCustomers)
	if r.HasWaitingData {
		fmt.Printf("Mean waiting time     : %.4f seconds\n", r.MeanWaitingTime)
	} else {
		fmt.Println("Mean waiting time     : no customers completed within the horizon")
	}

	for _, rs := range []ResourceStats{r.Pumps, r.Cashier} {
		fmt.Printf("%s (capacity %d):\n", rs.Name, rs.Capacity)
		fmt.Printf("  utilization         : %.2f%%\n", rs.Utilization*100)
		fmt.Printf("  mean queue demand   : %.4f\n", rs.MeanQueueLength)
	}
}
