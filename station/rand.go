package station

import (
	"hash/fnv"
	"math/rand"

	"github.com/station-sim/station-sim/sim"
)

// RNG stream names. Arrivals and customer decisions draw from isolated
// streams so that changing one side of the scenario cannot perturb the other
// side's draws between otherwise identical runs.
const (
	streamArrivals  = "arrivals"
	streamCustomers = "customers"
)

// Streams provides deterministic, isolated rand sources per named stream.
// Two runs constructed from the same seed produce identical draws.
//
// Derivation: the arrivals stream uses the master seed directly; every other
// stream uses masterSeed XOR fnv1a64(name).
//
// Not safe for concurrent use; the kernel runs single-threaded.
type Streams struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewStreams creates a Streams from a master seed.
func NewStreams(seed int64) *Streams {
	return &Streams{
		seed:    seed,
		streams: make(map[string]*rand.Rand),
	}
}

// For returns the rand source for the named stream, creating it on first use.
// The same name always returns the same instance.
func (s *Streams) For(name string) *rand.Rand {
	if rng, ok := s.streams[name]; ok {
		return rng
	}

	derived := s.seed
	if name != streamArrivals {
		derived ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(derived))
	s.streams[name] = rng
	return rng
}

// Seed returns the master seed used to create this Streams.
func (s *Streams) Seed() int64 {
	return s.seed
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// uniform draws an integer duration from [mean-dev, mean+dev], inclusive.
// Callers guarantee mean >= dev >= 0 via Config.Validate.
func uniform(rng *rand.Rand, mean, dev sim.SimTime) sim.SimTime {
	if dev == 0 {
		return mean
	}
	return mean - dev + sim.SimTime(rng.Int63n(int64(2*dev)+1))
}
