package discovery

import (
	"testing"
)

func TestOnItemUnlocked_ThreeUnlocksReachPhaseOne(t *testing.T) {
	m := NewMachine(DefaultSchedule())
	st := NewState()

	var tr *Transition
	for i := 0; i < 3; i++ {
		if m.Phase(st) != 0 {
			t.Fatalf("phase = %d before unlock %d, want 0", m.Phase(st), i+1)
		}
		st, tr = m.OnItemUnlocked(st)
	}

	if st.TotalUnlocks != 3 {
		t.Errorf("TotalUnlocks = %d, want 3", st.TotalUnlocks)
	}
	if tr == nil {
		t.Fatal("expected transition on third unlock")
	}
	if tr.FromPhase != 0 || tr.ToPhase != 1 || tr.Threshold != 3 {
		t.Errorf("transition = %+v, want 0 -> 1 at 3", tr)
	}
	if !m.ShouldShowDiscovery(st) {
		t.Error("discovery should be pending at 3 unlocks")
	}

	st = m.Acknowledge(st)
	if m.ShouldShowDiscovery(st) {
		t.Error("acknowledge should clear the pending discovery")
	}
	if m.Phase(st) != 1 || st.TotalUnlocks != 3 {
		t.Errorf("acknowledge changed phase/total: phase=%d total=%d", m.Phase(st), st.TotalUnlocks)
	}
}

func TestOnItemUnlocked_NoTransitionBetweenThresholds(t *testing.T) {
	m := NewMachine(DefaultSchedule())
	st := State{TotalUnlocks: 3, AcknowledgedAt: 3}

	st, tr := m.OnItemUnlocked(st)
	if tr != nil {
		t.Errorf("unexpected transition at 4 unlocks: %+v", tr)
	}
	if m.ShouldShowDiscovery(st) {
		t.Error("no discovery should be pending at 4 after acknowledging 3")
	}
}

func TestPhaseProgression(t *testing.T) {
	m := NewMachine(DefaultSchedule())
	st := NewState()

	wantPhase := []int{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 3, 3}
	prevTotal := 0
	for total, want := range wantPhase {
		if got := m.Phase(st); got != want {
			t.Errorf("phase at %d = %d, want %d", total, got, want)
		}
		if st.TotalUnlocks < prevTotal {
			t.Fatalf("TotalUnlocks decreased: %d -> %d", prevTotal, st.TotalUnlocks)
		}
		prevTotal = st.TotalUnlocks
		st, _ = m.OnItemUnlocked(st)
		if st.TotalUnlocks != prevTotal+1 {
			t.Fatalf("TotalUnlocks = %d, want %d", st.TotalUnlocks, prevTotal+1)
		}
	}
}

func TestThresholdsContinuePastMaxPhase(t *testing.T) {
	m := NewMachine(DefaultSchedule())
	st := State{TotalUnlocks: 11, AcknowledgedAt: 9, Visible: true}

	st, tr := m.OnItemUnlocked(st)
	if tr == nil {
		t.Fatal("crossing 12 should emit a transition")
	}
	if tr.FromPhase != 3 || tr.ToPhase != 3 {
		t.Errorf("phase should stay capped at 3, got %d -> %d", tr.FromPhase, tr.ToPhase)
	}
	if !m.ShouldShowDiscovery(st) {
		t.Error("crossing 12 should make a discovery pending")
	}
}

func TestPendingSurvivesFurtherUnlocks(t *testing.T) {
	m := NewMachine(DefaultSchedule())
	st := NewState()
	for i := 0; i < 7; i++ {
		st, _ = m.OnItemUnlocked(st)
	}
	if !m.ShouldShowDiscovery(st) {
		t.Fatal("discovery should be pending at 7 with nothing acknowledged")
	}
	st = m.Acknowledge(st)
	if st.AcknowledgedAt != 6 {
		t.Errorf("AcknowledgedAt = %d, want 6", st.AcknowledgedAt)
	}
	if m.ShouldShowDiscovery(st) {
		t.Error("one acknowledgment covers every crossed threshold")
	}
}

func TestAcknowledge_Dormant(t *testing.T) {
	m := NewMachine(DefaultSchedule())
	st := m.Acknowledge(State{TotalUnlocks: 2, Visible: true})
	if st.AcknowledgedAt != 0 {
		t.Errorf("AcknowledgedAt = %d, want 0", st.AcknowledgedAt)
	}
	// Acknowledging early must not suppress the first threshold.
	st, _ = m.OnItemUnlocked(st)
	if !m.ShouldShowDiscovery(st) {
		t.Error("first threshold should still be pending")
	}
}

func TestSetVisible_Orthogonal(t *testing.T) {
	m := NewMachine(DefaultSchedule())
	st := State{TotalUnlocks: 3, Visible: true}

	hidden := m.SetVisible(st, false)
	if hidden.Visible {
		t.Error("SetVisible(false) should hide")
	}
	if hidden.TotalUnlocks != st.TotalUnlocks || hidden.AcknowledgedAt != st.AcknowledgedAt {
		t.Error("SetVisible should only touch Visible")
	}
	if m.ShouldShowDiscovery(hidden) != m.ShouldShowDiscovery(st) {
		t.Error("SetVisible should not affect pending discovery")
	}
}

func TestSnapshot(t *testing.T) {
	m := NewMachine(DefaultSchedule())

	tests := []struct {
		name string
		st   State
		want Snapshot
	}{
		{"fresh", NewState(), Snapshot{TotalUnlocks: 0, Phase: 0, Visible: true, UnlocksUntilNextThreshold: 3}},
		{"two", State{TotalUnlocks: 2, Visible: true}, Snapshot{TotalUnlocks: 2, Visible: true, UnlocksUntilNextThreshold: 1}},
		{"pending", State{TotalUnlocks: 3, Visible: true}, Snapshot{TotalUnlocks: 3, Phase: 1, ShouldShowDiscovery: true, Visible: true}},
		{"acked", State{TotalUnlocks: 4, AcknowledgedAt: 3}, Snapshot{TotalUnlocks: 4, Phase: 1, UnlocksUntilNextThreshold: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Snapshot(tt.st); got != tt.want {
				t.Errorf("Snapshot = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewMachine_InvalidScheduleFallsBack(t *testing.T) {
	m := NewMachine(Schedule{First: 0, Interval: 0})
	if m.Schedule() != DefaultSchedule() {
		t.Errorf("schedule = %+v, want default", m.Schedule())
	}
}
