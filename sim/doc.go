// Package sim provides the discrete-event simulation kernel for station-sim.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - event.go: SimTime, the scheduled wake-up Event, and the (time, sequence)
//     ordered event queue
//   - environment.go: the virtual clock and the event loop (Step, RunUntil)
//   - process.go: the cooperative process model and its two yield points
//     (Delay and resource acquisition)
//
// # Architecture
//
// Exactly one process segment executes at any instant. A process advances by
// issuing yield points; between yield points control sits in the Environment's
// event loop, which pops the earliest pending event and resumes whichever
// process it belongs to. Events scheduled for the same virtual instant fire in
// scheduling order, which makes a run fully deterministic for a fixed random
// stream and spawn order.
//
// Resources (resource.go) are the only shared mutable state. All mutation
// happens synchronously inside Request/Release, so no locking is needed:
// mutual exclusion is structural, not enforced by a lock.
//
// The scenario layer lives outside this package (see package station); it
// consumes only Spawn, Delay, Use/Request/Release and the statistics types.
package sim
