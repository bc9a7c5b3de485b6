// Package discovery implements the guide's engagement state machine. It
// decides when new-topic suggestions should be surfaced based on the
// learner's cumulative unlock count. It never chooses the suggestions.
package discovery

// State is the stored, per-user discovery state. Phase and the pending flag
// are derived from it through a Schedule.
type State struct {
	TotalUnlocks int `json:"total_unlocks"`

	// AcknowledgedAt is the threshold value the user last acknowledged.
	AcknowledgedAt int `json:"acknowledged_at"`

	Visible bool `json:"visible"`
}

// NewState returns the state of a user who has unlocked nothing.
func NewState() State {
	return State{Visible: true}
}

// Snapshot is the read-only view handed to presentation.
type Snapshot struct {
	TotalUnlocks              int  `json:"total_unlocks"`
	Phase                     int  `json:"phase"`
	ShouldShowDiscovery       bool `json:"should_show_discovery"`
	Visible                   bool `json:"visible"`
	UnlocksUntilNextThreshold int  `json:"unlocks_until_next_threshold"`
}

// Dormant reports whether no threshold has been crossed yet.
func (s Snapshot) Dormant() bool {
	return s.Phase == 0
}

// Transition records a threshold crossing.
type Transition struct {
	FromPhase    int
	ToPhase      int
	Threshold    int
	TotalUnlocks int
	Trigger      string // "threshold-crossed"
}
