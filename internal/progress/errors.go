package progress

import (
	"errors"
	"fmt"
)

// ErrItemNotFound is returned when a completion names an item no roadmap
// contains.
var ErrItemNotFound = errors.New("roadmap item not found")

// InvalidScoreError reports a malformed score/total pair. Nothing is
// recorded when it is returned.
type InvalidScoreError struct {
	Score          int
	TotalQuestions int
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("invalid score %d of %d", e.Score, e.TotalQuestions)
}

func validateScore(score, total int) error {
	if score < 0 || total < 0 || score > total {
		return &InvalidScoreError{Score: score, TotalQuestions: total}
	}
	return nil
}
