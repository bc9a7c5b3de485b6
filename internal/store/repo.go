package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	UserID string    // only events for this user, when set
}

// AttemptEventData captures one quiz completion report.
type AttemptEventData struct {
	UserID         string
	ItemID         int
	Score          int
	TotalQuestions int
	Perfect        bool
	NewUnlock      bool
}

// AttemptEventRecord is an attempt event as read back from storage.
type AttemptEventRecord struct {
	AttemptEventData
	Sequence  int64
	Timestamp time.Time
}

// Discovery event actions.
const (
	DiscoveryActionThreshold   = "threshold"
	DiscoveryActionAcknowledge = "acknowledge"
	DiscoveryActionVisibility  = "visibility"
	DiscoveryActionSuggestions = "suggestions"
)

// DiscoveryEventData captures a change to, or use of, the discovery state.
type DiscoveryEventData struct {
	UserID       string
	Action       string
	TotalUnlocks int
	Phase        int
	Detail       string
}

// DiscoveryEventRecord is a discovery event as read back from storage.
type DiscoveryEventRecord struct {
	DiscoveryEventData
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEventRecord is an LLM request event as read back from storage.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAttempt records a quiz completion report.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// AppendDiscovery records a discovery state event.
	AppendDiscovery(ctx context.Context, data DiscoveryEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryAttempts returns attempt events, newest first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEventRecord, error)

	// QueryDiscovery returns discovery events, newest first.
	QueryDiscovery(ctx context.Context, opts QueryOpts) ([]DiscoveryEventRecord, error)

	// QueryLLMRequests returns LLM request events, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
}
