package knowledgegraph

import (
	"strconv"
	"strings"
)

const (
	topicPrefix = "topic_"
	titlePrefix = "title_"
)

// TopicNodeID returns the node id of a roadmap's topic node.
func TopicNodeID(roadmapID int) string {
	return topicPrefix + strconv.Itoa(roadmapID)
}

// TitleNodeID returns the node id of a roadmap item.
func TitleNodeID(itemID int) string {
	return titlePrefix + strconv.Itoa(itemID)
}

// ParseTitleID extracts the item id from a title node id. It reports false
// for any id that TitleNodeID would not produce, so leading zeros and signs
// are rejected.
func ParseTitleID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, titlePrefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || strconv.Itoa(n) != rest {
		return 0, false
	}
	return n, true
}
