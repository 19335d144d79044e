package sim

import "testing"

func TestSpawn_BodyRunsAtStartEvent_NotAtSpawnTime(t *testing.T) {
	// GIVEN a spawned process
	env := NewEnvironment()
	started := false
	p := env.Spawn(func(p *Process) { started = true })

	// THEN the body has not run yet and the process waits on its start event
	if started {
		t.Fatal("body ran at Spawn time")
	}
	if p.State() != StateWaiting {
		t.Errorf("state after Spawn: got %v, want waiting", p.State())
	}

	// WHEN the start event fires
	env.Step()

	// THEN the body ran to completion at the spawn instant
	if !started {
		t.Error("body did not run after stepping")
	}
	if p.State() != StateFinished {
		t.Errorf("state after run: got %v, want finished", p.State())
	}
	if env.Now() != 0 {
		t.Errorf("start event fired at t=%d, want 0", env.Now())
	}
}

func TestProcess_DelayChaining_AccumulatesVirtualTime(t *testing.T) {
	// GIVEN a process with three chained delays
	env := NewEnvironment()
	var instants []SimTime
	p := env.Spawn(func(p *Process) {
		p.Delay(10, func() {
			instants = append(instants, env.Now())
			p.Delay(5, func() {
				instants = append(instants, env.Now())
				p.Delay(15, func() {
					instants = append(instants, env.Now())
				})
			})
		})
	})

	// WHEN the run drains the queue
	env.Run()

	// THEN each segment resumed at the cumulative instant
	want := []SimTime{10, 15, 30}
	if len(instants) != len(want) {
		t.Fatalf("resumed %d times, want %d", len(instants), len(want))
	}
	for i, at := range instants {
		if at != want[i] {
			t.Errorf("segment %d resumed at t=%d, want %d", i, at, want[i])
		}
	}
	if p.State() != StateFinished {
		t.Errorf("state after run: got %v, want finished", p.State())
	}
}

func TestProcess_SuspendedBetweenSegments(t *testing.T) {
	// GIVEN a process suspended on a delay
	env := NewEnvironment()
	p := env.Spawn(func(p *Process) {
		p.Delay(100, func() {})
	})

	// WHEN only the start event has fired
	env.Step()

	// THEN the process is waiting, not finished
	if p.State() != StateWaiting {
		t.Errorf("state mid-delay: got %v, want waiting", p.State())
	}
}

func TestProcess_NegativeDelay_AbortsOnlyTheOffendingProcess(t *testing.T) {
	// GIVEN a well-behaved process and one that schedules a negative delay
	env := NewEnvironment()
	goodRan := false
	good := env.Spawn(func(p *Process) {
		p.Delay(10, func() { goodRan = true })
	})
	bad := env.Spawn(func(p *Process) {
		p.Delay(5, func() {
			p.Delay(-1, func() {
				t.Error("segment after a negative delay must never run")
			})
		})
	})

	// WHEN the run drains the queue
	env.Run()

	// THEN the bad process failed and the good one completed untouched
	if bad.State() != StateFailed {
		t.Errorf("bad process state: got %v, want failed", bad.State())
	}
	if good.State() != StateFinished {
		t.Errorf("good process state: got %v, want finished", good.State())
	}
	if !goodRan {
		t.Error("good process segment did not run")
	}
	if env.Now() != 10 {
		t.Errorf("Now() after run: got %d, want 10", env.Now())
	}
}

func TestProcess_Abort_ReleasesHeldGrantAndPromotesWaiter(t *testing.T) {
	// GIVEN a single-slot resource held by a process that then aborts, with a
	// second process queued behind it
	env := NewEnvironment()
	res, err := NewResource("pump", 1)
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}

	holder := env.Spawn(func(p *Process) {
		res.Request(p, func(g *Grant) {
			p.Delay(10, func() {
				p.Delay(-1, func() {}) // aborts while holding the grant
			})
		})
	})

	var grantedAt SimTime = -1
	waiterProc := env.Spawn(func(p *Process) {
		res.Request(p, func(g *Grant) {
			grantedAt = env.Now()
			if err := res.Release(g); err != nil {
				t.Errorf("waiter release: %v", err)
			}
		})
	})

	// WHEN the run drains the queue
	env.Run()

	// THEN the abort returned the slot at t=10 and the waiter was promoted at
	// the same instant
	if holder.State() != StateFailed {
		t.Errorf("holder state: got %v, want failed", holder.State())
	}
	if grantedAt != 10 {
		t.Errorf("waiter granted at t=%d, want 10", grantedAt)
	}
	if waiterProc.State() != StateFinished {
		t.Errorf("waiter state: got %v, want finished", waiterProc.State())
	}
	if res.Holders() != 0 || res.QueueLen() != 0 {
		t.Errorf("resource after run: %d holders, %d queued; want 0, 0",
			res.Holders(), res.QueueLen())
	}
}

func TestProcessState_String(t *testing.T) {
	cases := map[ProcessState]string{
		StateWaiting:     "waiting",
		StateRunnable:    "runnable",
		StateFinished:    "finished",
		StateFailed:      "failed",
		ProcessState(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("ProcessState(%d).String(): got %q, want %q", state, got, want)
		}
	}
}
