package roadmap

import (
	"slices"
	"sort"
	"time"
)

// Item is a single leveled entry in a roadmap. Items are immutable once created.
type Item struct {
	ID            int      `json:"id" yaml:"id"`
	RoadmapID     int      `json:"roadmap_id" yaml:"-"`
	Title         string   `json:"title" yaml:"title"`
	Summary       string   `json:"summary" yaml:"summary"`
	Level         int      `json:"level" yaml:"level"`
	StudyMaterial []string `json:"study_material" yaml:"study_material"`
}

// Roadmap is a topic's curriculum, grouped into levels.
type Roadmap struct {
	ID         int       `json:"id" yaml:"-"`
	UserID     string    `json:"user_id" yaml:"-"`
	Topic      string    `json:"topic" yaml:"topic"`
	Experience string    `json:"experience" yaml:"experience"`
	CreatedAt  time.Time `json:"created_at" yaml:"-"`
	Items      []Item    `json:"items" yaml:"items"`
}

// ItemsAtLevel returns the items at the given level in id order.
func (r *Roadmap) ItemsAtLevel(level int) []Item {
	var result []Item
	for _, it := range r.Items {
		if it.Level == level {
			result = append(result, it)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Levels returns the distinct levels present in the roadmap, ascending.
// Levels need not be contiguous.
func (r *Roadmap) Levels() []int {
	seen := make(map[int]bool)
	var levels []int
	for _, it := range r.Items {
		if !seen[it.Level] {
			seen[it.Level] = true
			levels = append(levels, it.Level)
		}
	}
	slices.Sort(levels)
	return levels
}

// Item returns the item with the given id.
func (r *Roadmap) Item(id int) (Item, bool) {
	for _, it := range r.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// ItemIDs returns every item id in the roadmap, ascending.
func (r *Roadmap) ItemIDs() []int {
	ids := make([]int, 0, len(r.Items))
	for _, it := range r.Items {
		ids = append(ids, it.ID)
	}
	slices.Sort(ids)
	return ids
}

// CompletedSet is the set of item ids a user has perfectly scored.
type CompletedSet map[int]bool

// NewCompletedSet builds a set from the given ids.
func NewCompletedSet(ids ...int) CompletedSet {
	s := make(CompletedSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports whether id is in the set. A nil set is empty.
func (s CompletedSet) Has(id int) bool {
	return s[id]
}

// Add inserts id and reports whether it was not already present.
func (s CompletedSet) Add(id int) bool {
	if s[id] {
		return false
	}
	s[id] = true
	return true
}

// IDs returns the members in ascending order.
func (s CompletedSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id, ok := range s {
		if ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of members.
func (s CompletedSet) Len() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}
