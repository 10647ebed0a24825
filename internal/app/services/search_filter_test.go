package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terratensor/geopicker/internal/core/domain"
)

func scenarioItems(t *testing.T) []domain.HierarchyItem {
	t.Helper()
	result := NewHierarchyBuilder(censusLevels).Build([]domain.Entity{
		entity(1, "West", "region"),
		entity(2, "California", "state", 1),
		entity(3, "Los Angeles", "county", 2),
		entity(4, "Northeast", "region"),
		entity(5, "New York", "state", 4),
		entity(6, "Kings", "county", 5),
		entity(7, "Queens", "county", 5),
	})
	require.Empty(t, result.Diagnostics)
	return result.Items
}

func newFilter(t *testing.T, locale string, fold bool) *SearchFilter {
	t.Helper()
	f, err := NewSearchFilter(locale, fold)
	require.NoError(t, err)
	return f
}

func TestFilterScenario(t *testing.T) {
	items := scenarioItems(t)
	filter := newFilter(t, "und", false)

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"leaf match pulls ancestors", "los", []int64{1, 2, 3}},
		{"root match pulls descendants", "west", []int64{1, 2, 3}},
		{"case insensitive", "LOS ANGELES", []int64{1, 2, 3}},
		{"mid level match", "york", []int64{4, 5, 6, 7}},
		{"leaf keeps only its own chain", "queens", []int64{4, 5, 7}},
		{"matches across subtrees", "n", []int64{1, 2, 3, 4, 5, 6, 7}},
		{"no match", "zzz", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(filter.Filter(items, tt.query)))
		})
	}
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	items := scenarioItems(t)
	got := newFilter(t, "und", false).Filter(items, "")

	assert.Equal(t, items, got)
	assert.Same(t, &items[0], &got[0])
}

func TestFilterEmptyList(t *testing.T) {
	filter := newFilter(t, "und", false)
	assert.Empty(t, filter.Filter(nil, "los"))
	assert.Empty(t, filter.Filter([]domain.HierarchyItem{}, ""))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := scenarioItems(t)
	snapshot := make([]domain.HierarchyItem, len(items))
	for i, item := range items {
		snapshot[i] = item
		snapshot[i].Relatives = append([]int64(nil), item.Relatives...)
	}

	filter := newFilter(t, "und", false)
	for _, q := range []string{"los", "w", "kings", "zzz"} {
		filter.Filter(items, q)
	}

	assert.Equal(t, snapshot, items)
}

func TestFilterLocale(t *testing.T) {
	items := []domain.HierarchyItem{
		{ID: 1, Name: "İstanbul", Level: 1, Relatives: []int64{1}},
	}

	// Turkish lower-casing maps dotted capital İ to plain i
	assert.Equal(t, []int64{1}, ids(newFilter(t, "tr", false).Filter(items, "istanbul")))
	assert.True(t, newFilter(t, "tr", false).Matches("İstanbul", "İST"))

	_, err := NewSearchFilter("not a locale!", false)
	assert.Error(t, err)
}

func TestFilterFoldDiacritics(t *testing.T) {
	items := []domain.HierarchyItem{
		{ID: 1, Name: "San José", Level: 1, Relatives: []int64{1}},
		{ID: 2, Name: "Doña Ana", Level: 1, Relatives: []int64{2}},
	}

	assert.Empty(t, newFilter(t, "und", false).Filter(items, "jose"))

	folded := newFilter(t, "und", true)
	assert.Equal(t, []int64{1}, ids(folded.Filter(items, "jose")))
	assert.Equal(t, []int64{2}, ids(folded.Filter(items, "DONA")))
	assert.Equal(t, []int64{1}, ids(folded.Filter(items, "josé")))
}

func TestNormalizeDiacritics(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"München", "Munchen"},
		{"San José", "San Jose"},
		{"Doña Ana", "Dona Ana"},
		{"Los Angeles", "Los Angeles"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDiacritics(tt.input))
		})
	}
}
