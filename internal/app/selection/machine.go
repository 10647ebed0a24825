// Package selection holds the picker's interaction state: whether the result
// popover is open, the current search text, and the chosen leaf item.
package selection

import (
	"errors"
	"fmt"

	"github.com/terratensor/geopicker/internal/core/domain"
)

// State is the picker state.
type State int

const (
	Closed State = iota
	Searching
	Selected
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Searching:
		return "searching"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNotOpen       = errors.New("picker is not open")
	ErrNotSelectable = errors.New("only leaf-level items can be selected")
)

// Filter narrows the item list for a search text.
type Filter interface {
	Filter(items []domain.HierarchyItem, query string) []domain.HierarchyItem
}

// Machine drives Closed → Searching → Selected. It is not safe for
// concurrent use; all transitions happen on the UI event loop.
type Machine struct {
	state     State
	search    string
	selected  domain.HierarchyItem
	leafDepth int

	items   []domain.HierarchyItem
	visible []domain.HierarchyItem
	filter  Filter

	onSelect func(domain.HierarchyItem)
}

// New creates a closed machine. leafDepth is the only depth that can be chosen.
func New(filter Filter, leafDepth int) *Machine {
	return &Machine{
		state:     Closed,
		filter:    filter,
		leafDepth: leafDepth,
	}
}

// OnSelect registers the item-selection callback.
func (m *Machine) OnSelect(fn func(domain.HierarchyItem)) {
	m.onSelect = fn
}

// SetItems installs the loaded list. The list is treated as read-only.
func (m *Machine) SetItems(items []domain.HierarchyItem) {
	m.items = items
	m.refilter()
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Search() string { return m.search }

func (m *Machine) Items() []domain.HierarchyItem { return m.items }

// SelectedItem returns the chosen item, if any.
func (m *Machine) SelectedItem() (domain.HierarchyItem, bool) {
	if m.state != Selected {
		return domain.HierarchyItem{}, false
	}
	return m.selected, true
}

// DisplayText is what the input box shows: the selected name, else the search text.
func (m *Machine) DisplayText() string {
	if m.state == Selected {
		return m.selected.Name
	}
	return m.search
}

// Visible returns the filtered list while searching and nil otherwise.
func (m *Machine) Visible() []domain.HierarchyItem {
	if m.state != Searching {
		return nil
	}
	return m.visible
}

// IsSelectable reports whether item may be chosen.
func (m *Machine) IsSelectable(item domain.HierarchyItem) bool {
	return item.Level == m.leafDepth
}

// Activate opens the popover with an empty search. Reopening never keeps
// earlier text, and a prior selection is dropped.
func (m *Machine) Activate() {
	m.state = Searching
	m.selected = domain.HierarchyItem{}
	m.setSearch("")
}

// Type replaces the search text. Typing always abandons a selection.
func (m *Machine) Type(text string) {
	m.state = Searching
	m.selected = domain.HierarchyItem{}
	m.setSearch(text)
}

// Choose selects a leaf item from the open list and closes the popover.
func (m *Machine) Choose(item domain.HierarchyItem) error {
	if m.state != Searching {
		return ErrNotOpen
	}
	if !m.IsSelectable(item) {
		return fmt.Errorf("%w: %s is at depth %d", ErrNotSelectable, item.Name, item.Level)
	}

	m.state = Selected
	m.selected = item
	if m.onSelect != nil {
		m.onSelect(item)
	}
	return nil
}

// Clear drops the selection and the search text and reopens the list.
func (m *Machine) Clear() {
	m.Activate()
}

// Dismiss closes an open popover without choosing anything.
func (m *Machine) Dismiss() {
	if m.state == Searching {
		m.state = Closed
	}
}

func (m *Machine) setSearch(text string) {
	m.search = text
	m.refilter()
}

func (m *Machine) refilter() {
	if m.filter == nil {
		m.visible = m.items
		return
	}
	m.visible = m.filter.Filter(m.items, m.search)
}
