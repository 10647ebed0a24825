package services

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/terratensor/geopicker/internal/core/domain"
)

// forest is a randomly generated, well-formed entity set.
type forest struct {
	levels   domain.Levels
	entities []domain.Entity
	parent   map[int64]int64
	depth    map[int64]int
}

func drawForest(t *rapid.T) forest {
	n := rapid.IntRange(1, 4).Draw(t, "levels")
	tags := make([]string, n)
	for i := range tags {
		tags[i] = fmt.Sprintf("level%d", i+1)
	}

	f := forest{
		levels: domain.MustLevels(tags...),
		parent: make(map[int64]int64),
		depth:  make(map[int64]int),
	}

	nextID := int64(1)
	var previous []int64
	for d := 1; d <= n; d++ {
		count := rapid.IntRange(1, 6).Draw(t, fmt.Sprintf("count%d", d))
		var current []int64
		for i := 0; i < count; i++ {
			e := domain.Entity{
				ID:    nextID,
				Name:  rapid.StringMatching(`[a-dA-D ]{1,5}`).Draw(t, "name"),
				Level: tags[d-1],
			}
			if d > 1 {
				p := rapid.SampledFrom(previous).Draw(t, "parent")
				e.Parent = domain.ParentID(p)
				f.parent[e.ID] = p
			}
			f.depth[e.ID] = d
			f.entities = append(f.entities, e)
			current = append(current, e.ID)
			nextID++
		}
		previous = current
	}

	f.entities = rapid.Permutation(f.entities).Draw(t, "order")
	return f
}

// isAncestor reports whether a is a strict ancestor of b.
func (f forest) isAncestor(a, b int64) bool {
	for {
		p, ok := f.parent[b]
		if !ok {
			return false
		}
		if p == a {
			return true
		}
		b = p
	}
}

func TestHierarchyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := drawForest(t)
		result := NewHierarchyBuilder(f.levels).Build(f.entities)

		require.Empty(t, result.Diagnostics)

		// Round-trip containment
		require.Len(t, result.Items, len(f.entities))
		byID := itemsByID(result.Items)
		require.Len(t, byID, len(f.entities))
		for _, e := range f.entities {
			item, ok := byID[e.ID]
			require.True(t, ok, "entity %d missing", e.ID)
			require.Equal(t, e.Name, item.Name)
			require.Equal(t, f.depth[e.ID], item.Level)
		}

		for _, item := range result.Items {
			// Self-inclusion
			require.Contains(t, item.Relatives, item.ID)

			// Relatives are exactly self, ancestors and descendants
			for _, other := range f.entities {
				related := other.ID == item.ID || f.isAncestor(other.ID, item.ID) || f.isAncestor(item.ID, other.ID)
				require.Equal(t, related, slices.Contains(item.Relatives, other.ID),
					"item %d relative %d", item.ID, other.ID)
			}

			// Symmetry
			for _, rel := range item.Relatives {
				require.Contains(t, byID[rel].Relatives, item.ID)
			}
		}
	})
}

func TestHierarchyRootCompleteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := drawForest(t)
		result := NewHierarchyBuilder(f.levels).Build(f.entities)

		for _, item := range result.Items {
			if item.Level != 1 {
				continue
			}
			var subtree []int64
			for _, e := range f.entities {
				if e.ID == item.ID || f.isAncestor(item.ID, e.ID) {
					subtree = append(subtree, e.ID)
				}
			}
			require.ElementsMatch(t, subtree, item.Relatives)
		}
	})
}

func TestFilterProperties(t *testing.T) {
	filter, err := NewSearchFilter("und", false)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		f := drawForest(t)
		items := NewHierarchyBuilder(f.levels).Build(f.entities).Items
		query := rapid.StringMatching(`[a-dA-D]{0,2}`).Draw(t, "query")

		got := filter.Filter(items, query)

		if query == "" {
			require.Equal(t, ids(items), ids(got))
			return
		}

		// Closure correctness: an item is present iff it is a relative of a direct match
		want := make([]int64, 0)
		for _, item := range items {
			for _, m := range items {
				if strings.Contains(strings.ToLower(m.Name), strings.ToLower(query)) && slices.Contains(m.Relatives, item.ID) {
					want = append(want, item.ID)
					break
				}
			}
		}
		require.Equal(t, want, ids(got))
	})
}
