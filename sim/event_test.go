package sim

import "testing"

func TestEventQueue_FiresInTimeOrder(t *testing.T) {
	// GIVEN events scheduled out of order
	env := NewEnvironment()
	var order []int
	mustSchedule(t, env, 30, func() { order = append(order, 3) })
	mustSchedule(t, env, 10, func() { order = append(order, 1) })
	mustSchedule(t, env, 20, func() { order = append(order, 2) })

	// WHEN the run drains the queue
	env.Run()

	// THEN events fire in fire-time order and the clock ends at the last one
	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("fired %d events, want %d", len(order), len(want))
	}
	for i, v := range order {
		if v != want[i] {
			t.Errorf("order[%d]: got %d, want %d", i, v, want[i])
		}
	}
	if env.Now() != 30 {
		t.Errorf("Now() after run: got %d, want 30", env.Now())
	}
}

func TestEventQueue_SameInstant_FIFOBySequence(t *testing.T) {
	// GIVEN five events all scheduled for the same instant
	env := NewEnvironment()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		mustSchedule(t, env, 7, func() { order = append(order, i) })
	}

	// WHEN the run drains the queue
	env.Run()

	// THEN they fire in scheduling order
	for i, v := range order {
		if v != i {
			t.Fatalf("same-instant order[%d]: got %d, want %d", i, v, i)
		}
	}
}

func TestEventQueue_Peek_ReturnsEarliestWithoutRemoving(t *testing.T) {
	// GIVEN two pending events
	env := NewEnvironment()
	mustSchedule(t, env, 20, func() {})
	ev := mustSchedule(t, env, 5, func() {})

	// WHEN peeking
	got := env.queue.peek()

	// THEN the earlier event is returned and nothing is removed
	if got != ev {
		t.Errorf("peek: got event at t=%d, want t=%d", got.FireTime(), ev.FireTime())
	}
	if env.Pending() != 2 {
		t.Errorf("peek modified queue length: got %d, want 2", env.Pending())
	}
}

func mustSchedule(t *testing.T, env *Environment, delay SimTime, resume func()) *Event {
	t.Helper()
	ev, err := env.Schedule(delay, resume)
	if err != nil {
		t.Fatalf("Schedule(%d): %v", delay, err)
	}
	return ev
}
