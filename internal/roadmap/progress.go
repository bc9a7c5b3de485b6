package roadmap

// LevelProgress summarizes how far a user has advanced through a roadmap.
type LevelProgress struct {
	RoadmapID        int   `json:"roadmap_id"`
	CompletedLevels  []int `json:"completed_levels"`
	CurrentLevel     int   `json:"current_level"`
	CompletedItemIDs []int `json:"completed_item_ids"`
	TotalItems       int   `json:"total_items"`
	PercentComplete  int   `json:"percent_complete"`
}

// Progress computes the level progress of a roadmap. CompletedLevels lists
// levels in ascending order for as long as each is fully complete; the
// first level with an incomplete item becomes CurrentLevel. When every
// level is complete CurrentLevel is one past the highest level.
func Progress(r *Roadmap, completed CompletedSet) LevelProgress {
	p := LevelProgress{
		RoadmapID:        r.ID,
		CompletedLevels:  []int{},
		CurrentLevel:     1,
		CompletedItemIDs: []int{},
		TotalItems:       len(r.Items),
	}

	for _, id := range r.ItemIDs() {
		if completed.Has(id) {
			p.CompletedItemIDs = append(p.CompletedItemIDs, id)
		}
	}

	for _, level := range r.Levels() {
		done := true
		for _, it := range r.ItemsAtLevel(level) {
			if !completed.Has(it.ID) {
				done = false
				break
			}
		}
		if !done {
			p.CurrentLevel = level
			break
		}
		p.CompletedLevels = append(p.CompletedLevels, level)
		p.CurrentLevel = level + 1
	}

	if p.TotalItems > 0 {
		p.PercentComplete = len(p.CompletedItemIDs) * 100 / p.TotalItems
	}
	return p
}

// ItemStatus is the per-item view used when drawing a roadmap map.
type ItemStatus struct {
	Item        Item `json:"item"`
	Completed   bool `json:"completed"`
	Attemptable bool `json:"attemptable"`
}

// LevelStatus groups item statuses under one level.
type LevelStatus struct {
	Level    int          `json:"level"`
	Name     string       `json:"name"`
	Unlocked bool         `json:"unlocked"`
	Items    []ItemStatus `json:"items"`
}

// Status is the full evaluated state of a roadmap for one user.
type Status struct {
	Roadmap  *Roadmap      `json:"roadmap"`
	Levels   []LevelStatus `json:"levels"`
	Progress LevelProgress `json:"progress"`
}

// Evaluate runs the unlock rules over every level and item of the roadmap.
func Evaluate(r *Roadmap, completed CompletedSet) Status {
	st := Status{
		Roadmap:  r,
		Progress: Progress(r, completed),
	}
	for _, level := range r.Levels() {
		unlocked := IsLevelUnlocked(r, level, completed)
		ls := LevelStatus{
			Level:    level,
			Name:     LevelName(level),
			Unlocked: unlocked,
		}
		for _, it := range r.ItemsAtLevel(level) {
			ls.Items = append(ls.Items, ItemStatus{
				Item:        it,
				Completed:   IsItemUnlocked(it, completed),
				Attemptable: unlocked,
			})
		}
		st.Levels = append(st.Levels, ls)
	}
	return st
}
