package sim

// MonitoringSample is a timestamped occupancy/queue-length snapshot. Samples
// are immutable and appended in chronological order, once per request and
// once per release.
//
// The two sample kinds deliberately use different queue-length formulas:
// request samples count total demand, current holders plus queued requests
// plus the requester itself, whether it is about to wait or be served
// (taken before the admission decision); release samples count only the
// demand still queued after the releasing holder leaves (taken after the
// holder count drops and before the promoted waiter is counted as active).
// The time-integrated statistics in stats.go are defined relative to exactly
// this convention; do not unify the formulas.
type MonitoringSample struct {
	Time        SimTime
	QueueLength int
	ActiveUsers int
}

// MonitoredResource wraps a Resource by composition, recording a
// MonitoringSample on every request and release. It forwards the full
// request/release protocol unchanged.
type MonitoredResource struct {
	env     *Environment
	res     *Resource
	samples []MonitoringSample
}

// NewMonitoredResource creates a Resource of the given capacity with sampling
// attached. Returns ErrCapacityMisconfiguration when capacity is below one.
func NewMonitoredResource(env *Environment, name string, capacity int) (*MonitoredResource, error) {
	res, err := NewResource(name, capacity)
	if err != nil {
		return nil, err
	}

	m := &MonitoredResource{env: env, res: res}
	res.onRequest = func() {
		// +1 counts the requester itself, about to wait or be served.
		m.samples = append(m.samples, MonitoringSample{
			Time:        env.clock,
			QueueLength: len(res.waitQ) + res.holders + 1,
			ActiveUsers: res.holders,
		})
	}
	res.onRelease = func() {
		m.samples = append(m.samples, MonitoringSample{
			Time:        env.clock,
			QueueLength: len(res.waitQ),
			ActiveUsers: res.holders,
		})
	}
	return m, nil
}

// Request forwards to the underlying resource; the request sample has already
// been recorded by the time the admission decision is made.
func (m *MonitoredResource) Request(p *Process, then func(*Grant)) {
	m.res.Request(p, then)
}

// Release forwards to the underlying resource.
func (m *MonitoredResource) Release(g *Grant) error {
	return m.res.Release(g)
}

// Use forwards the scoped acquisition form.
func (m *MonitoredResource) Use(p *Process, hold func(done func())) {
	m.res.Use(p, hold)
}

// Name returns the resource name.
func (m *MonitoredResource) Name() string { return m.res.name }

// Capacity returns the wrapped resource's capacity.
func (m *MonitoredResource) Capacity() int { return m.res.capacity }

// Holders returns the wrapped resource's current holder count.
func (m *MonitoredResource) Holders() int { return m.res.holders }

// QueueLen returns the wrapped resource's current wait-queue length.
func (m *MonitoredResource) QueueLen() int { return m.res.QueueLen() }

// Samples returns the recorded samples in chronological order. The returned
// slice is the internal storage; callers must not modify it.
func (m *MonitoredResource) Samples() []MonitoringSample {
	return m.samples
}
