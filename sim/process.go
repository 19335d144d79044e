package sim

import (
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// ProcessState tracks where a process is in its lifecycle.
type ProcessState int

const (
	// StateWaiting means the process is suspended on a timer or a resource
	// grant. A freshly spawned process is Waiting on its start event.
	StateWaiting ProcessState = iota
	// StateRunnable means a segment of the process is executing right now.
	StateRunnable
	// StateFinished means the process body ran to completion.
	StateFinished
	// StateFailed means the kernel aborted the process after a scenario
	// programming error (invalid delay or invalid release). Grants the
	// process still held were returned so other processes are unaffected.
	StateFailed
)

func (s ProcessState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateRunnable:
		return "runnable"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProcessBody is the first segment of a process. It runs when the process's
// start event fires, never at Spawn time.
type ProcessBody func(p *Process)

// Process is a unit of simulated activity. It advances as a chain of
// synchronous segments separated by yield points: Delay (a timeout) and
// resource acquisition (Resource.Request/Use). The Environment resumes it by
// invoking its next continuation; a segment is never preempted.
type Process struct {
	ID    string
	env   *Environment
	state ProcessState
	held  []*Grant
}

// Spawn introduces a new process. The body is enqueued behind a start event
// at the current instant and first runs when that event fires.
func (env *Environment) Spawn(body ProcessBody) *Process {
	p := &Process{
		ID:    xid.New().String(),
		env:   env,
		state: StateWaiting,
	}
	env.mustSchedule(0, func() {
		p.runSegment(func() { body(p) })
	})
	logrus.Debugf("[t=%07d] spawned process %s", env.clock, p.ID)
	return p
}

// State returns the process lifecycle state.
func (p *Process) State() ProcessState {
	return p.state
}

// Env returns the owning environment.
func (p *Process) Env() *Environment {
	return p.env
}

// Delay suspends the process for d virtual seconds, then runs the next
// segment. A negative d is a scenario programming error: it is logged and
// aborts this process only.
func (p *Process) Delay(d SimTime, then func()) {
	if _, err := p.env.Schedule(d, func() { p.runSegment(then) }); err != nil {
		logrus.Errorf("process %s: %v", p.ID, err)
		p.abort()
		return
	}
	p.state = StateWaiting
}

// runSegment executes one segment with the process marked Runnable. A segment
// that returns without suspending or aborting completes the process.
func (p *Process) runSegment(segment func()) {
	if p.state == StateFinished || p.state == StateFailed {
		return
	}
	p.state = StateRunnable
	segment()
	if p.state == StateRunnable {
		p.state = StateFinished
		logrus.Debugf("[t=%07d] process %s finished", p.env.clock, p.ID)
	}
}

// abort fails the process and returns every grant it still holds, so resource
// counters stay correct for everyone else. Waiters behind those grants are
// promoted as usual.
func (p *Process) abort() {
	p.state = StateFailed
	for len(p.held) > 0 {
		g := p.held[0]
		if err := g.res.Release(g); err != nil {
			// Release drops the grant from p.held before it can fail.
			panic("abort: releasing a held grant failed: " + err.Error())
		}
	}
	logrus.Warnf("[t=%07d] process %s aborted", p.env.clock, p.ID)
}

func (p *Process) holdGrant(g *Grant) {
	p.held = append(p.held, g)
}

func (p *Process) dropGrant(g *Grant) {
	for i, held := range p.held {
		if held == g {
			p.held = append(p.held[:i], p.held[i+1:]...)
			return
		}
	}
}
