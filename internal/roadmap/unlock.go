package roadmap

// IsLevelUnlocked reports whether a level of the roadmap is enterable.
//
// Level 1 is always unlocked. Any higher level is unlocked only when the
// previous level has at least one item and every one of those items is
// completed. An empty previous level keeps the level locked.
func IsLevelUnlocked(r *Roadmap, level int, completed CompletedSet) bool {
	if level == 1 {
		return true
	}
	if level < 1 || r == nil {
		return false
	}

	prev := 0
	for _, it := range r.Items {
		if it.Level != level-1 {
			continue
		}
		prev++
		if !completed.Has(it.ID) {
			return false
		}
	}
	return prev > 0
}

// IsItemUnlocked reports whether the item has been completed. For items,
// unlocked and completed are the same predicate.
func IsItemUnlocked(item Item, completed CompletedSet) bool {
	return completed.Has(item.ID)
}

// CanAttempt reports whether the item's quiz may be taken, which requires
// its level to be unlocked. It is independent of the completed flag.
func CanAttempt(r *Roadmap, item Item, completed CompletedSet) bool {
	return IsLevelUnlocked(r, item.Level, completed)
}

// UnlockedLevels returns the roadmap's levels that are currently enterable.
func UnlockedLevels(r *Roadmap, completed CompletedSet) []int {
	if r == nil {
		return nil
	}
	var result []int
	for _, level := range r.Levels() {
		if IsLevelUnlocked(r, level, completed) {
			result = append(result, level)
		}
	}
	return result
}
