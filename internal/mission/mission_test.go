package mission

import "testing"

func TestEmptyMissionIsDone(t *testing.T) {
	m := New(nil)
	if !m.Done() {
		t.Error("empty mission should be done")
	}
	if _, ok := m.Current(); ok {
		t.Error("empty mission should have no current waypoint")
	}
	if m.AdvanceIfReached(0, 0) {
		t.Error("advance on a done mission should be a no-op")
	}
}

func TestAdvanceIfReached(t *testing.T) {
	m := New([]Waypoint{{X: 10, Y: 0, Tolerance: 2}, {X: 20, Y: 0, Tolerance: 2}})

	tests := []struct {
		name    string
		x, y    float64
		reached bool
		index   int
	}{
		{"far away", 0, 0, false, 0},
		{"just outside", 7.9, 0, false, 0},
		{"on the boundary", 10, 2, true, 1},
		{"second not yet", 15, 0, false, 1},
		{"second inside", 19, 1, true, 2},
		{"done", 20, 0, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.AdvanceIfReached(tt.x, tt.y); got != tt.reached {
				t.Errorf("AdvanceIfReached(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.reached)
			}
			if m.Index() != tt.index {
				t.Errorf("index = %d, want %d", m.Index(), tt.index)
			}
		})
	}

	if !m.Done() {
		t.Error("mission should be done")
	}
}

func TestAdvanceSkipsAtMostOne(t *testing.T) {
	// all three waypoints contain the origin
	m := New([]Waypoint{
		{X: 1, Y: 0, Tolerance: 5},
		{X: 0, Y: 1, Tolerance: 5},
		{X: -1, Y: 0, Tolerance: 5},
	})

	prev := m.Index()
	for i := 1; i <= 3; i++ {
		m.AdvanceIfReached(0, 0)
		if m.Index() != prev+1 {
			t.Fatalf("call %d: index %d, want %d", i, m.Index(), prev+1)
		}
		prev = m.Index()
	}
	if !m.Done() {
		t.Error("expected done after three calls")
	}
}

func TestCursorNeverDecreases(t *testing.T) {
	m := New([]Waypoint{{X: 0, Y: 0, Tolerance: 1}, {X: 50, Y: 50, Tolerance: 1}})
	m.AdvanceIfReached(0, 0)
	for _, p := range [][2]float64{{0, 0}, {100, 100}, {-5, 3}} {
		m.AdvanceIfReached(p[0], p[1])
		if m.Index() < 1 {
			t.Fatalf("cursor moved backwards to %d", m.Index())
		}
	}
}

func TestWaypointsIsACopy(t *testing.T) {
	m := New([]Waypoint{{X: 1, Y: 2, Tolerance: 3}})
	wps := m.Waypoints()
	wps[0].X = 100
	if wp, _ := m.Current(); wp.X != 1 {
		t.Error("Waypoints leaked internal storage")
	}
}

func TestReset(t *testing.T) {
	m := New([]Waypoint{{X: 0, Y: 0, Tolerance: 1}})
	m.AdvanceIfReached(0, 0)
	m.Reset()
	if m.Done() || m.Index() != 0 {
		t.Error("reset should rewind the cursor")
	}
}
