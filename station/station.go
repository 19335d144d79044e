package station

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/station-sim/station-sim/sim"
)

// Station is the scenario: a bank of fuel pumps and a cashier, both
// monitored, plus the collected waiting times. It spawns one process per
// arriving customer and drives everything through the kernel's two yield
// points.
type Station struct {
	env   *sim.Environment
	cfg   Config
	rng   *Streams
	pumps *sim.MonitoredResource
	shop  *sim.MonitoredResource
	waits *sim.WaitingTimes

	arrivals int
}

// New builds a Station from a validated configuration.
func New(env *sim.Environment, cfg Config) (*Station, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("station config: %w", err)
	}

	pumps, err := sim.NewMonitoredResource(env, "pumps", cfg.Pumps)
	if err != nil {
		return nil, err
	}
	shop, err := sim.NewMonitoredResource(env, "cashier", cfg.Cashiers)
	if err != nil {
		return nil, err
	}

	return &Station{
		env:   env,
		cfg:   cfg,
		rng:   NewStreams(cfg.Seed),
		pumps: pumps,
		shop:  shop,
		waits: &sim.WaitingTimes{},
	}, nil
}

// Start spawns the arrival generator. Customers then keep arriving until the
// caller stops driving the event loop; the generator itself never terminates.
func (s *Station) Start() {
	s.env.Spawn(s.generateArrivals)
}

// Run executes the scenario for the configured horizon.
func (s *Station) Run() {
	s.Start()
	s.env.RunUntil(s.cfg.Horizon)
}

// Arrivals returns the number of customers spawned so far.
func (s *Station) Arrivals() int { return s.arrivals }

// Pumps returns the monitored pump bank.
func (s *Station) Pumps() *sim.MonitoredResource { return s.pumps }

// Cashier returns the monitored cashier.
func (s *Station) Cashier() *sim.MonitoredResource { return s.shop }

// WaitingTimes returns the per-customer waiting time collection.
func (s *Station) WaitingTimes() *sim.WaitingTimes { return s.waits }

// generateArrivals spawns a customer every uniform(mean±dev) virtual seconds.
func (s *Station) generateArrivals(p *sim.Process) {
	rng := s.rng.For(streamArrivals)

	var next func()
	next = func() {
		gap := uniform(rng, s.cfg.MeanArrivalGap, s.cfg.Deviation)
		p.Delay(gap, func() {
			s.arrivals++
			s.env.Spawn(s.customer)
			next()
		})
	}
	next()
}

// customer is one visitor's journey. The first draw decides both the
// empty-tank and the slow-customer branches, a second draw decides the food
// purchase; the waiting time is recorded when the journey completes.
func (s *Station) customer(p *sim.Process) {
	arrival := s.env.Now()
	rng := s.rng.For(streamCustomers)
	dice := rng.Float64()

	finish := func() {
		s.waits.Record(s.env.Now() - arrival)
		logrus.Debugf("[t=%07d] customer %s left after %d seconds",
			s.env.Now(), p.ID, s.env.Now()-arrival)
	}

	maybeBuyFood := func() {
		if rng.Float64() >= s.cfg.WantsFoodChance {
			finish()
			return
		}
		s.shop.Use(p, func(done func()) {
			p.Delay(uniform(rng, s.cfg.MeanCashierTime, s.cfg.Deviation), func() {
				done()
				logrus.Infof("[t=%07d] customer %s bought food at the shop", s.env.Now(), p.ID)
				finish()
			})
		})
	}

	fuelUp := func() {
		d := uniform(rng, s.cfg.MeanServiceTime, s.cfg.Deviation)
		slow := dice <= s.cfg.SlowCustomerChance
		if slow {
			d *= 2
		}
		s.pumps.Use(p, func(done func()) {
			p.Delay(d, func() {
				done()
				if slow {
					logrus.Infof("[t=%07d] customer %s struggled with the pump and took twice as long",
						s.env.Now(), p.ID)
				}
				maybeBuyFood()
			})
		})
	}

	if dice <= s.cfg.EmptyTankChance {
		// The station tank is empty; the customer occupies a pump while it
		// is refilled, then fuels up as usual.
		s.pumps.Use(p, func(done func()) {
			p.Delay(uniform(rng, s.cfg.MeanRefillTime, s.cfg.Deviation), func() {
				done()
				logrus.Infof("[t=%07d] customer %s waited for the station tank to be refilled",
					s.env.Now(), p.ID)
				fuelUp()
			})
		})
		return
	}
	fuelUp()
}
