package discovery

// Machine applies discovery transitions under a fixed schedule. It holds no
// per-user state; every method takes and returns a State value.
type Machine struct {
	schedule Schedule
}

// NewMachine creates a machine. An invalid schedule falls back to the
// default one.
func NewMachine(s Schedule) *Machine {
	if s.Validate() != nil {
		s = DefaultSchedule()
	}
	return &Machine{schedule: s}
}

// Schedule returns the machine's schedule.
func (m *Machine) Schedule() Schedule {
	return m.schedule
}

// OnItemUnlocked counts one newly unlocked item. Callers must only invoke it
// for items that were not already completed. Returns a Transition if the
// unlock crossed a threshold, nil otherwise.
func (m *Machine) OnItemUnlocked(st State) (State, *Transition) {
	before := m.schedule.Crossed(st.TotalUnlocks)
	fromPhase := m.schedule.Phase(st.TotalUnlocks)

	st.TotalUnlocks++

	if m.schedule.Crossed(st.TotalUnlocks) == before {
		return st, nil
	}
	return st, &Transition{
		FromPhase:    fromPhase,
		ToPhase:      m.schedule.Phase(st.TotalUnlocks),
		Threshold:    m.schedule.HighestCrossed(st.TotalUnlocks),
		TotalUnlocks: st.TotalUnlocks,
		Trigger:      "threshold-crossed",
	}
}

// Acknowledge marks the current discovery as shown. TotalUnlocks and Phase
// are unchanged.
func (m *Machine) Acknowledge(st State) State {
	if h := m.schedule.HighestCrossed(st.TotalUnlocks); h > st.AcknowledgedAt {
		st.AcknowledgedAt = h
	}
	return st
}

// SetVisible changes the display preference only.
func (m *Machine) SetVisible(st State, visible bool) State {
	st.Visible = visible
	return st
}

// Phase returns the engagement phase of st.
func (m *Machine) Phase(st State) int {
	return m.schedule.Phase(st.TotalUnlocks)
}

// ShouldShowDiscovery reports whether a threshold has been crossed since the
// last acknowledgment.
func (m *Machine) ShouldShowDiscovery(st State) bool {
	return m.schedule.HighestCrossed(st.TotalUnlocks) > st.AcknowledgedAt
}

// Snapshot derives the presentation view of st. UnlocksUntilNextThreshold
// is 0 while a discovery is pending.
func (m *Machine) Snapshot(st State) Snapshot {
	snap := Snapshot{
		TotalUnlocks:        st.TotalUnlocks,
		Phase:               m.Phase(st),
		ShouldShowDiscovery: m.ShouldShowDiscovery(st),
		Visible:             st.Visible,
	}
	if !snap.ShouldShowDiscovery {
		snap.UnlocksUntilNextThreshold = m.schedule.Next(st.TotalUnlocks) - st.TotalUnlocks
	}
	return snap
}
