package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/terratensor/geopicker/internal/core/domain"
)

// SearchFilter отбирает элементы, чьи наборы родственников содержат
// хотя бы одно совпадение по имени.
type SearchFilter struct {
	tag            language.Tag
	foldDiacritics bool
}

// NewSearchFilter creates a filter lower-casing with the rules of locale
// (a BCP 47 tag such as "und", "en" or "tr").
func NewSearchFilter(locale string, foldDiacritics bool) (*SearchFilter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid search locale %q: %w", locale, err)
	}
	return &SearchFilter{tag: tag, foldDiacritics: foldDiacritics}, nil
}

// normalizer returns a fresh key function. cases.Caser keeps state and is
// not safe to share between goroutines.
func (f *SearchFilter) normalizer() func(string) string {
	lower := cases.Lower(f.tag)
	return func(s string) string {
		if f.foldDiacritics {
			s = normalizeDiacritics(s)
		}
		return lower.String(s)
	}
}

// Matches reports whether name contains query case-insensitively.
func (f *SearchFilter) Matches(name, query string) bool {
	key := f.normalizer()
	return strings.Contains(key(name), key(query))
}

// Filter returns the items whose id lies in the union of relatives of all
// directly matching items, in their original order. An empty query returns
// items unchanged. The input is never modified.
func (f *SearchFilter) Filter(items []domain.HierarchyItem, query string) []domain.HierarchyItem {
	if query == "" {
		return items
	}

	key := f.normalizer()
	needle := key(query)

	closure := make(map[int64]struct{})
	for i := range items {
		if !strings.Contains(key(items[i].Name), needle) {
			continue
		}
		for _, id := range items[i].Relatives {
			closure[id] = struct{}{}
		}
	}

	if len(closure) == 0 {
		return []domain.HierarchyItem{}
	}

	out := make([]domain.HierarchyItem, 0, len(closure))
	for _, item := range items {
		if _, ok := closure[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}
