package roadmap

import "fmt"

var levelNames = []string{
	"Beginner Bay",
	"Intermediate Isles",
	"Advanced Archipelago",
	"Expert Ocean",
}

// LevelName returns a display label for a level. Levels without a named
// region fall back to "Region N".
func LevelName(level int) string {
	if level >= 1 && level <= len(levelNames) {
		return levelNames[level-1]
	}
	return fmt.Sprintf("Region %d", level)
}
