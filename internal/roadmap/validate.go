package roadmap

import (
	"fmt"
	"strings"
)

// Validate checks the roadmap for structural issues. Level 1 must exist
// for the roadmap to be enterable. Returns a combined error describing all
// problems found, or nil if valid.
func Validate(r *Roadmap) error {
	var errs []string

	if strings.TrimSpace(r.Topic) == "" {
		errs = append(errs, "topic is empty")
	}
	if len(r.Items) == 0 {
		errs = append(errs, "roadmap has no items")
	}

	ids := make(map[int]bool, len(r.Items))
	hasEntry := false
	for i, it := range r.Items {
		if it.Level < 1 {
			errs = append(errs, fmt.Sprintf("item %d (%q): level must be >= 1, got %d", i, it.Title, it.Level))
		}
		if it.Level == 1 {
			hasEntry = true
		}
		if strings.TrimSpace(it.Title) == "" {
			errs = append(errs, fmt.Sprintf("item %d: title is empty", i))
		}
		if it.ID != 0 {
			if ids[it.ID] {
				errs = append(errs, fmt.Sprintf("duplicate item ID: %d", it.ID))
			}
			ids[it.ID] = true
		}
	}
	if len(r.Items) > 0 && !hasEntry {
		errs = append(errs, "no level 1 items found (level 1 must exist)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("roadmap validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
