package sim

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Kernel error taxonomy. All are programming errors in scenario code; they
// abort the offending process only and never stop the run (see process.go).
var (
	// ErrInvalidDelay reports a negative timeout request.
	ErrInvalidDelay = errors.New("negative delay requested")

	// ErrInvalidRelease reports a release without a matching held grant.
	ErrInvalidRelease = errors.New("release without a held grant")

	// ErrCapacityMisconfiguration reports a resource constructed with
	// capacity below one. Rejected before the run starts.
	ErrCapacityMisconfiguration = errors.New("resource capacity must be at least 1")
)

// Environment owns the virtual clock and the event queue, spawns processes,
// and drives the main loop until a time bound or until no events remain.
type Environment struct {
	clock   SimTime
	queue   eventQueue
	nextSeq uint64
}

// NewEnvironment creates an Environment with the clock at zero and no
// pending events.
func NewEnvironment() *Environment {
	env := &Environment{queue: make(eventQueue, 0)}
	heap.Init(&env.queue)
	return env
}

// Now returns the current virtual time.
func (env *Environment) Now() SimTime {
	return env.clock
}

// Pending returns the number of events not yet fired.
func (env *Environment) Pending() int {
	return env.queue.Len()
}

// Schedule registers resume to run delay virtual seconds from now. Events
// scheduled for the same instant fire in scheduling order. Returns
// ErrInvalidDelay if delay is negative.
func (env *Environment) Schedule(delay SimTime, resume func()) (*Event, error) {
	if delay < 0 {
		return nil, fmt.Errorf("schedule at t=%d: %w (delay %d)", env.clock, ErrInvalidDelay, delay)
	}

	ev := &Event{
		fireTime: env.clock + delay,
		seq:      env.nextSeq,
		resume:   resume,
	}
	env.nextSeq++
	heap.Push(&env.queue, ev)
	return ev, nil
}

// mustSchedule is for kernel-internal wake-ups with non-negative delays.
func (env *Environment) mustSchedule(delay SimTime, resume func()) *Event {
	ev, err := env.Schedule(delay, resume)
	if err != nil {
		panic(fmt.Sprintf("kernel scheduled an invalid event: %v", err))
	}
	return ev
}

// Step pops the earliest pending event, advances the clock to its fire time,
// and runs its resume callback. Returns false when no events remain.
func (env *Environment) Step() bool {
	if env.queue.Len() == 0 {
		return false
	}

	ev := heap.Pop(&env.queue).(*Event)
	// The heap never yields an event in the past: fire times are clock+delay
	// with delay >= 0 and the clock only moves here.
	env.clock = ev.fireTime
	logrus.Debugf("[t=%07d] firing event seq=%d", env.clock, ev.seq)
	ev.resume()
	return true
}

// RunUntil repeatedly steps while the next event's fire time is at or before
// limit, then stops. Processes still waiting past the limit are left
// suspended, not failed; their events stay queued.
func (env *Environment) RunUntil(limit SimTime) {
	for {
		next := env.queue.peek()
		if next == nil || next.fireTime > limit {
			break
		}
		env.Step()
	}
	logrus.Debugf("[t=%07d] run stopped at limit %d with %d events pending",
		env.clock, limit, env.queue.Len())
}

// Run steps until no events remain.
func (env *Environment) Run() {
	for env.Step() {
	}
}
