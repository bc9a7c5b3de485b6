package discovery

import "fmt"

// Default schedule values.
const (
	DefaultFirst    = 3
	DefaultInterval = 3
	DefaultMaxPhase = 3
)

// Schedule places discovery thresholds at First, First+Interval,
// First+2*Interval and so on. Phase is the number of thresholds crossed,
// capped at MaxPhase; thresholds keep firing after the cap.
type Schedule struct {
	First    int
	Interval int
	MaxPhase int
}

// DefaultSchedule returns the 3/6/9... schedule with three phases.
func DefaultSchedule() Schedule {
	return Schedule{
		First:    DefaultFirst,
		Interval: DefaultInterval,
		MaxPhase: DefaultMaxPhase,
	}
}

// Validate checks that the schedule is strictly increasing.
func (s Schedule) Validate() error {
	if s.First < 1 {
		return fmt.Errorf("discovery schedule: first threshold must be >= 1, got %d", s.First)
	}
	if s.Interval < 1 {
		return fmt.Errorf("discovery schedule: interval must be >= 1, got %d", s.Interval)
	}
	if s.MaxPhase < 1 {
		return fmt.Errorf("discovery schedule: max phase must be >= 1, got %d", s.MaxPhase)
	}
	return nil
}

// Threshold returns the unlock count of the k-th threshold (k >= 1).
func (s Schedule) Threshold(k int) int {
	if k < 1 {
		return 0
	}
	return s.First + (k-1)*s.Interval
}

// Crossed returns how many thresholds total has reached.
func (s Schedule) Crossed(total int) int {
	if total < s.First {
		return 0
	}
	return (total-s.First)/s.Interval + 1
}

// HighestCrossed returns the largest threshold <= total, or 0.
func (s Schedule) HighestCrossed(total int) int {
	return s.Threshold(s.Crossed(total))
}

// Next returns the smallest threshold > total.
func (s Schedule) Next(total int) int {
	return s.Threshold(s.Crossed(total) + 1)
}

// Phase maps a cumulative unlock count to its engagement phase.
func (s Schedule) Phase(total int) int {
	return min(s.Crossed(total), s.MaxPhase)
}
