package sim

// SimTime is virtual time, in simulated seconds since the start of the run.
// It is strictly non-decreasing across a run; multiple events may share the
// same SimTime.
type SimTime int64

// Event is a scheduled wake-up. It carries the virtual time at which it
// fires, a sequence number assigned at scheduling time, and the callback that
// resumes the suspended work. Events fire once and are then discarded.
type Event struct {
	fireTime SimTime
	seq      uint64
	resume   func()
}

// FireTime returns the virtual time at which the event fires.
func (e *Event) FireTime() SimTime {
	return e.fireTime
}

// eventQueue implements heap.Interface and orders events by (fireTime, seq).
// The sequence tie-breaker guarantees FIFO ordering among events scheduled
// for the same instant, which keeps runs reproducible for a fixed seed.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventQueue []*Event

func (eq eventQueue) Len() int { return len(eq) }

func (eq eventQueue) Less(i, j int) bool {
	if eq[i].fireTime != eq[j].fireTime {
		return eq[i].fireTime < eq[j].fireTime
	}
	return eq[i].seq < eq[j].seq
}

func (eq eventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *eventQueue) Push(x any) {
	*eq = append(*eq, x.(*Event))
}

func (eq *eventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*eq = old[0 : n-1]
	return item
}

// peek returns the earliest pending event without removing it, or nil if the
// queue is empty.
func (eq eventQueue) peek() *Event {
	if len(eq) == 0 {
		return nil
	}
	return eq[0]
}
