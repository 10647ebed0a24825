package domain

import (
	"errors"
	"fmt"
)

// SentinelDepth marks a placeholder item emitted for an id with no entity.
const SentinelDepth = -1

// HierarchyItem is one flattened node of the built hierarchy.
// Relatives holds the item itself, all its ancestors and all its descendants.
type HierarchyItem struct {
	Level     int     `json:"level"`
	Name      string  `json:"name"`
	ID        int64   `json:"id"`
	Relatives []int64 `json:"relatives"`
}

// IsSentinel reports whether the item is the lookup-inconsistency placeholder.
func (h *HierarchyItem) IsSentinel() bool {
	return h.Level == SentinelDepth
}

// String returns a string representation of the item
func (h *HierarchyItem) String() string {
	return fmt.Sprintf("%d: %s [L%d, %d relatives]", h.ID, h.Name, h.Level, len(h.Relatives))
}

// Levels is the ordered set of level tags. The first tag has depth 1.
type Levels struct {
	tags  []string
	depth map[string]int
}

var (
	ErrNoLevels       = errors.New("at least one level is required")
	ErrDuplicateLevel = errors.New("duplicate level tag")
)

// NewLevels builds the tag → depth table from tags ordered root first.
func NewLevels(tags ...string) (Levels, error) {
	if len(tags) == 0 {
		return Levels{}, ErrNoLevels
	}

	l := Levels{
		tags:  make([]string, len(tags)),
		depth: make(map[string]int, len(tags)),
	}
	copy(l.tags, tags)

	for i, tag := range tags {
		if _, exists := l.depth[tag]; exists {
			return Levels{}, fmt.Errorf("%w: %q", ErrDuplicateLevel, tag)
		}
		l.depth[tag] = i + 1
	}

	return l, nil
}

// MustLevels is NewLevels that panics on error. Intended for fixed tables.
func MustLevels(tags ...string) Levels {
	l, err := NewLevels(tags...)
	if err != nil {
		panic(err)
	}
	return l
}

// Depth returns the depth of tag, or false if the tag is unknown.
func (l Levels) Depth(tag string) (int, bool) {
	d, ok := l.depth[tag]
	return d, ok
}

// Tag returns the tag at depth d (1-based).
func (l Levels) Tag(d int) (string, bool) {
	if d < 1 || d > len(l.tags) {
		return "", false
	}
	return l.tags[d-1], true
}

// Len returns the number of levels.
func (l Levels) Len() int {
	return len(l.tags)
}

// LeafDepth returns the depth of the deepest level.
func (l Levels) LeafDepth() int {
	return len(l.tags)
}

// LeafTag returns the deepest level tag.
func (l Levels) LeafTag() string {
	if len(l.tags) == 0 {
		return ""
	}
	return l.tags[len(l.tags)-1]
}

// Tags returns a copy of the ordered tags.
func (l Levels) Tags() []string {
	out := make([]string, len(l.tags))
	copy(out, l.tags)
	return out
}
