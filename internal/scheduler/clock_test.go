package scheduler

import (
	"testing"
	"time"
)

func TestFakeClock_FiresInDeadlineOrder(t *testing.T) {
	c := NewFakeClock(epoch)
	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() {
		order = append(order, 2)
		// Due inside the same Advance.
		c.AfterFunc(500*time.Millisecond, func() { order = append(order, 25) })
	})
	c.Advance(5 * time.Second)

	want := []int{1, 2, 25, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if !c.Now().Equal(epoch.Add(5 * time.Second)) {
		t.Errorf("Now() = %v", c.Now())
	}
}

func TestFakeClock_Stop(t *testing.T) {
	c := NewFakeClock(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })
	if c.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", c.Pending())
	}
	if !tm.Stop() {
		t.Error("first Stop should report true")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(time.Minute)
	if fired || c.Pending() != 0 {
		t.Error("stopped timer fired")
	}
}

func TestFakeClock_CallbackSeesDeadline(t *testing.T) {
	c := NewFakeClock(epoch)
	var at time.Time
	c.AfterFunc(1500*time.Millisecond, func() { at = c.Now() })
	c.Advance(time.Hour)
	if !at.Equal(epoch.Add(1500 * time.Millisecond)) {
		t.Errorf("callback saw %v", at)
	}
}

func TestFakeClock_NextDeadline(t *testing.T) {
	c := NewFakeClock(epoch)
	if _, ok := c.NextDeadline(); ok {
		t.Fatal("deadline reported without timers")
	}
	c.AfterFunc(2*time.Second, func() {})
	first := c.AfterFunc(time.Second, func() {})
	if at, _ := c.NextDeadline(); !at.Equal(epoch.Add(time.Second)) {
		t.Errorf("NextDeadline() = %v", at)
	}
	first.Stop()
	if at, _ := c.NextDeadline(); !at.Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("NextDeadline() after Stop = %v", at)
	}
}
