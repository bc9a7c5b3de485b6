package knowledgegraph

const (
	// CompleteColor marks topics whose every item is unlocked.
	CompleteColor = "#10B981"
	// LockedColor marks item nodes that are still locked.
	LockedColor = "#9CA3AF"
)

// Palette holds the per-roadmap group colours.
var Palette = []string{
	"#3B82F6",
	"#EF4444",
	"#10B981",
	"#F59E0B",
	"#8B5CF6",
	"#06B6D4",
	"#F97316",
	"#84CC16",
}

// GroupColor returns the palette colour for a group index. Negative indices
// wrap the same way positive ones do.
func GroupColor(groupIdx int) string {
	n := len(Palette)
	return Palette[((groupIdx%n)+n)%n]
}
