package sim

import "testing"

func TestMonitoredResource_RejectsNonPositiveCapacity(t *testing.T) {
	env := NewEnvironment()
	if _, err := NewMonitoredResource(env, "pump", 0); err == nil {
		t.Error("NewMonitoredResource(capacity=0): got nil error")
	}
}

func TestMonitoredResource_SinglePump_TwoStaggeredCustomers(t *testing.T) {
	// GIVEN one pump, a customer arriving at t=0 needing 10 seconds, and a
	// second arriving at t=5 also needing 10 seconds
	env := NewEnvironment()
	res, err := NewMonitoredResource(env, "pump", 1)
	if err != nil {
		t.Fatalf("NewMonitoredResource: %v", err)
	}
	waits := &WaitingTimes{}

	var grants []SimTime
	serve := func(p *Process, arrival SimTime) {
		res.Use(p, func(done func()) {
			grants = append(grants, env.Now())
			p.Delay(10, func() {
				done()
				waits.Record(env.Now() - arrival)
			})
		})
	}

	env.Spawn(func(p *Process) { serve(p, 0) })
	env.Spawn(func(p *Process) {
		p.Delay(5, func() { serve(p, 5) })
	})

	// WHEN the run drains the queue
	env.Run()

	// THEN the second customer starts exactly when the first departs
	if len(grants) != 2 || grants[0] != 0 || grants[1] != 10 {
		t.Errorf("grant times: got %v, want [0 10]", grants)
	}

	// AND each waiting time spans arrival to departure: 10-0 and 20-5
	records := waits.Records()
	if len(records) != 2 || records[0] != 10 || records[1] != 15 {
		t.Errorf("waiting times: got %v, want [10 15]", records)
	}
	mean, err := waits.Mean()
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	if mean != 12.5 {
		t.Errorf("mean waiting time: got %v, want 12.5", mean)
	}

	// AND everything settled by t=20
	if res.Holders() != 0 {
		t.Errorf("holders after run: got %d, want 0", res.Holders())
	}
	if env.Now() != 20 {
		t.Errorf("Now() after run: got %d, want 20", env.Now())
	}

	// AND the sample trail shows the demand build-up and drain
	wantSamples := []MonitoringSample{
		{Time: 0, QueueLength: 1, ActiveUsers: 0},  // first request, pump idle
		{Time: 5, QueueLength: 2, ActiveUsers: 1},  // second request joins behind the holder
		{Time: 10, QueueLength: 0, ActiveUsers: 0}, // first release, waiter dequeued, not yet active
		{Time: 20, QueueLength: 0, ActiveUsers: 0}, // second release, pump idle again
	}
	assertSamples(t, res.Samples(), wantSamples)
}

func TestMonitoredResource_TwoSlots_ThreeSimultaneousRequests(t *testing.T) {
	// GIVEN a two-slot resource and three customers all requesting at t=0,
	// each holding for 10 seconds
	env := NewEnvironment()
	res, err := NewMonitoredResource(env, "cashier", 2)
	if err != nil {
		t.Fatalf("NewMonitoredResource: %v", err)
	}

	var grants []SimTime
	for i := 0; i < 3; i++ {
		env.Spawn(func(p *Process) {
			res.Use(p, func(done func()) {
				grants = append(grants, env.Now())
				p.Delay(10, done)
			})
		})
	}

	// WHEN the run drains the queue
	env.Run()

	// THEN the first two start at once and the third starts on the first
	// release
	if len(grants) != 3 || grants[0] != 0 || grants[1] != 0 || grants[2] != 10 {
		t.Errorf("grant times: got %v, want [0 0 10]", grants)
	}

	// AND the samples record total demand on request and remaining queue on
	// release
	wantSamples := []MonitoringSample{
		{Time: 0, QueueLength: 1, ActiveUsers: 0},  // first request on an idle resource
		{Time: 0, QueueLength: 2, ActiveUsers: 1},  // second request, one slot busy
		{Time: 0, QueueLength: 3, ActiveUsers: 2},  // third request, both slots busy
		{Time: 10, QueueLength: 0, ActiveUsers: 1}, // first release promotes the waiter
		{Time: 10, QueueLength: 0, ActiveUsers: 1}, // second release, only the promoted one remains
		{Time: 20, QueueLength: 0, ActiveUsers: 0}, // last release, idle again
	}
	assertSamples(t, res.Samples(), wantSamples)
}

func TestMonitoredResource_ForwardsResourceAccessors(t *testing.T) {
	env := NewEnvironment()
	res, err := NewMonitoredResource(env, "pump", 3)
	if err != nil {
		t.Fatalf("NewMonitoredResource: %v", err)
	}
	if res.Name() != "pump" {
		t.Errorf("Name(): got %q, want %q", res.Name(), "pump")
	}
	if res.Capacity() != 3 {
		t.Errorf("Capacity(): got %d, want 3", res.Capacity())
	}
	if res.Holders() != 0 || res.QueueLen() != 0 {
		t.Errorf("fresh resource: %d holders, %d queued; want 0, 0",
			res.Holders(), res.QueueLen())
	}
}

func assertSamples(t *testing.T, got, want []MonitoringSample) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("recorded %d samples, want %d: %v", len(got), len(want), got)
	}
	for i, s := range got {
		if s != want[i] {
			t.Errorf("sample[%d]: got %+v, want %+v", i, s, want[i])
		}
	}
}
