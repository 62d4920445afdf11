package belt

import "testing"

func TestSource_Window(t *testing.T) {
	s := Source{Material: "ore", Capacity: 100, FlowRate: 10, StartTime: 5}

	if got := s.EndTime(); got != 15 {
		t.Fatalf("EndTime() = %v, want 15", got)
	}

	tests := []struct {
		t      float64
		active bool
	}{
		{4.99, false},
		{5, true},
		{10, true},
		{15, true},
		{15.01, false},
	}
	for _, tt := range tests {
		if got := s.ActiveAt(tt.t); got != tt.active {
			t.Errorf("ActiveAt(%v) = %v, want %v", tt.t, got, tt.active)
		}
	}
}

func TestSource_EndTimeFollowsCapacity(t *testing.T) {
	s := Source{Capacity: 50, FlowRate: 5}
	s.Capacity = 100
	if s.EndTime() != 20 {
		t.Errorf("EndTime() = %v after capacity change, want 20", s.EndTime())
	}
}

func TestSource_Quantity(t *testing.T) {
	s := Source{FlowRate: 12.5}
	if got := s.Quantity(0.5); got != 6.25 {
		t.Errorf("Quantity(0.5) = %v, want 6.25", got)
	}
}
