package sim

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// waiter is a pending request parked in a resource's FIFO wait queue.
type waiter struct {
	proc *Process
	then func(*Grant)
}

// Resource is a capacity-bounded shared facility. At most capacity processes
// hold it concurrently; everyone else waits in strict FIFO order. Capacity is
// fixed at construction.
//
// Invariant: 0 <= holders <= capacity at all times. A request is granted
// immediately iff holders < capacity and the wait queue is empty; a newly
// arriving request never jumps ahead of an already-queued one, even if
// capacity just freed.
type Resource struct {
	name     string
	capacity int
	holders  int
	waitQ    []*waiter

	// Observer positions for monitoring (see monitor.go). onRequest fires
	// before the admission decision; onRelease fires after the holder count
	// is decremented and the head waiter dequeued, before the promotion is
	// counted as active.
	onRequest func()
	onRelease func()
}

// NewResource creates a Resource. Returns ErrCapacityMisconfiguration when
// capacity is below one.
func NewResource(name string, capacity int) (*Resource, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("resource %q: %w (got %d)", name, ErrCapacityMisconfiguration, capacity)
	}
	return &Resource{name: name, capacity: capacity}, nil
}

// Name returns the resource name.
func (r *Resource) Name() string { return r.name }

// Capacity returns the fixed number of concurrent holders allowed.
func (r *Resource) Capacity() int { return r.capacity }

// Holders returns the number of processes currently holding the resource.
func (r *Resource) Holders() int { return r.holders }

// QueueLen returns the number of requests waiting for a grant.
func (r *Resource) QueueLen() int { return len(r.waitQ) }

// Grant is the token returned by a successful request. It is required to
// release the held slot and is valid for exactly one release.
type Grant struct {
	id       string
	res      *Resource
	proc     *Process
	released bool
}

func (r *Resource) newGrant(p *Process) *Grant {
	g := &Grant{id: xid.New().String(), res: r, proc: p}
	p.holdGrant(g)
	return g
}

// Request asks for a slot on behalf of p. If one is free and nobody is
// queued, then runs at once with the grant, within the current segment.
// Otherwise the request joins the tail of the wait queue and p suspends until
// a release promotes it.
func (r *Resource) Request(p *Process, then func(*Grant)) {
	if r.onRequest != nil {
		r.onRequest()
	}

	if r.holders < r.capacity && len(r.waitQ) == 0 {
		r.holders++
		logrus.Debugf("[t=%07d] %s: process %s granted (%d/%d busy)",
			p.env.clock, r.name, p.ID, r.holders, r.capacity)
		then(r.newGrant(p))
		return
	}

	r.waitQ = append(r.waitQ, &waiter{proc: p, then: then})
	p.state = StateWaiting
	logrus.Debugf("[t=%07d] %s: process %s queued (%d waiting)",
		p.env.clock, r.name, p.ID, len(r.waitQ))
}

// Release returns a held slot. If anyone is waiting, the head of the queue is
// promoted: it becomes a holder immediately and its continuation runs at the
// current instant, in event order. Returns ErrInvalidRelease if the grant was
// already released or belongs to another resource.
func (r *Resource) Release(g *Grant) error {
	if g == nil || g.res != r || g.released {
		return fmt.Errorf("resource %q: %w", r.name, ErrInvalidRelease)
	}
	g.released = true
	g.proc.dropGrant(g)
	r.holders--

	var promoted *waiter
	if len(r.waitQ) > 0 {
		promoted = r.waitQ[0]
		r.waitQ = r.waitQ[1:]
	}

	if r.onRelease != nil {
		r.onRelease()
	}

	if promoted != nil {
		// The slot transfers before the continuation runs, so a request
		// arriving in between cannot jump the queue.
		r.holders++
		next := r.newGrant(promoted.proc)
		env := promoted.proc.env
		logrus.Debugf("[t=%07d] %s: promoting process %s (%d waiting)",
			env.clock, r.name, promoted.proc.ID, len(r.waitQ))
		env.mustSchedule(0, func() {
			promoted.proc.runSegment(func() { promoted.then(next) })
		})
	}
	return nil
}

// Use is the scoped acquisition form: it requests a slot for p, runs hold
// once granted, and guarantees exactly one release, whether hold's segments
// complete normally or the process aborts mid-hold. hold must call done when
// the work is finished; calling done more than once is an invalid release and
// aborts the process.
func (r *Resource) Use(p *Process, hold func(done func())) {
	r.Request(p, func(g *Grant) {
		hold(func() {
			if g.released {
				// A process abort already returned the grant; the late done
				// call is the discipline bug InvalidRelease exists for.
				logrus.Errorf("process %s: %s: %v", p.ID, r.name, ErrInvalidRelease)
				p.abort()
				return
			}
			if err := r.Release(g); err != nil {
				logrus.Errorf("process %s: %v", p.ID, err)
				p.abort()
			}
		})
	})
}
