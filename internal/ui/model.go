// Package ui renders the hierarchy picker as a bubbletea program: a search
// input over a scrolling window of the filtered hierarchy.
package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/terratensor/geopicker/internal/app/selection"
	"github.com/terratensor/geopicker/internal/core/domain"
)

// LoadFunc fetches and builds the item list. It runs once, off the event loop.
type LoadFunc func(ctx context.Context) ([]domain.HierarchyItem, error)

// Options configures the picker.
type Options struct {
	Levels       domain.Levels
	Filter       selection.Filter
	Load         LoadFunc
	VisibleRows  int
	CopyOnSelect bool
	OnSelect     func(domain.HierarchyItem)
}

// itemsLoadedMsg carries the result of the one-shot load.
type itemsLoadedMsg struct {
	items []domain.HierarchyItem
	err   error
}

// Model is the picker's bubbletea model.
type Model struct {
	machine *selection.Machine
	input   textinput.Model
	styles  Styles
	levels  domain.Levels

	load         LoadFunc
	loaded       bool
	copyOnSelect bool

	rows   int
	cursor int
	offset int
	width  int

	status string
}

// NewModel creates a closed picker. Items arrive through Init's load command.
func NewModel(opts Options) Model {
	rows := opts.VisibleRows
	if rows <= 0 {
		rows = 15
	}

	ti := textinput.New()
	ti.Placeholder = placeholder(opts.Levels)
	ti.Prompt = "› "
	ti.CharLimit = 80
	ti.Width = 40
	ti.Focus()

	machine := selection.New(opts.Filter, opts.Levels.LeafDepth())
	machine.OnSelect(opts.OnSelect)

	return Model{
		machine:      machine,
		input:        ti,
		styles:       DefaultStyles(),
		levels:       opts.Levels,
		load:         opts.Load,
		copyOnSelect: opts.CopyOnSelect,
		rows:         rows,
		width:        60,
	}
}

func placeholder(levels domain.Levels) string {
	if leaf := levels.LeafTag(); leaf != "" {
		return "Please select a " + leaf
	}
	return "Please select an item"
}

// Machine exposes the selection state, mainly for the caller after Run returns.
func (m Model) Machine() *selection.Machine {
	return m.machine
}

func (m Model) Init() tea.Cmd {
	if m.load == nil {
		return textinput.Blink
	}
	load := m.load
	return tea.Batch(textinput.Blink, func() tea.Msg {
		items, err := load(context.Background())
		return itemsLoadedMsg{items: items, err: err}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			// Без данных список просто остаётся пустым
			log.Printf("Failed to load hierarchy: %v", msg.err)
		}
		m.machine.SetItems(msg.items)
		m.clampCursor()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = clamp(msg.Width-12, 10, 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+x":
		m.machine.Clear()
		m.syncInput()
		return m, nil

	case "esc":
		if m.machine.State() == selection.Searching {
			m.machine.Dismiss()
			m.syncInput()
			return m, nil
		}
		return m, tea.Quit
	}

	if m.machine.State() != selection.Searching {
		switch msg.String() {
		case "enter", "down", "tab":
			m.machine.Activate()
			m.syncInput()
			return m, nil
		}
	} else {
		switch msg.String() {
		case "up", "ctrl+p":
			m.moveCursor(-1)
			return m, nil
		case "down", "ctrl+n":
			m.moveCursor(1)
			return m, nil
		case "pgup":
			m.moveCursor(-m.rows)
			return m, nil
		case "pgdown":
			m.moveCursor(m.rows)
			return m, nil
		case "enter":
			m.choose()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.machine.Type(after)
		m.cursor, m.offset = 0, 0
	}
	return m, cmd
}

func (m *Model) choose() {
	visible := m.machine.Visible()
	if len(visible) == 0 {
		return
	}
	item := visible[m.cursor]

	if err := m.machine.Choose(item); err != nil {
		// Промежуточные уровни показываются только для контекста
		m.status = fmt.Sprintf("%s is a %s; pick a %s", item.Name, m.levelName(item.Level), m.levels.LeafTag())
		return
	}

	if m.copyOnSelect {
		if err := clipboard.WriteAll(item.Name); err != nil {
			log.Printf("Failed to copy selection to clipboard: %v", err)
		} else {
			m.status = "Copied " + item.Name
		}
	}
	m.syncInput()
}

// syncInput shows the selected name or the search text in the input box.
func (m *Model) syncInput() {
	m.input.SetValue(m.machine.DisplayText())
	m.input.CursorEnd()
	m.cursor, m.offset = 0, 0
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// clampCursor keeps the cursor on an existing row and inside the window.
func (m *Model) clampCursor() {
	n := len(m.machine.Visible())
	if n == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = clamp(m.cursor, 0, n-1)

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows {
		m.offset = m.cursor - m.rows + 1
	}
	m.offset = clamp(m.offset, 0, max(0, n-m.rows))
}

func (m Model) levelName(depth int) string {
	if tag, ok := m.levels.Tag(depth); ok {
		return tag
	}
	return fmt.Sprintf("level %d", depth)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	if m.machine.State() == selection.Searching {
		b.WriteString(m.styles.Border.Render(m.listView()))
		b.WriteString("\n")
	}

	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	arrow := "▾"
	if m.machine.State() == selection.Searching {
		arrow = "▴"
	}

	line := m.input.View() + " " + m.styles.Prompt.Render(arrow)
	if m.machine.State() == selection.Selected {
		line += "  " + m.styles.Hint.Render("ctrl+x clear")
	}
	return line
}

func (m Model) listView() string {
	if !m.loaded {
		return m.styles.Hint.Render("Loading…")
	}

	visible := m.machine.Visible()
	if len(visible) == 0 {
		return m.styles.Hint.Render("No matches")
	}

	inner := clamp(m.width-6, 10, 120)
	end := min(m.offset+m.rows, len(visible))
	lines := make([]string, 0, end-m.offset)

	for i := m.offset; i < end; i++ {
		item := visible[i]
		indent := strings.Repeat("  ", max(0, item.Level-1))

		prefix := "  "
		if i == m.cursor {
			prefix = "▸ "
		}

		name := truncateRunes(item.Name, inner-len(indent)-len(prefix), "…")
		line := prefix + indent + name

		switch {
		case i == m.cursor:
			line = m.styles.Cursor.Render(line)
		case m.machine.IsSelectable(item):
			line = m.styles.Leaf.Render(line)
		default:
			line = m.styles.Context.Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) footerView() string {
	var parts []string

	switch m.machine.State() {
	case selection.Searching:
		if m.loaded {
			parts = append(parts, fmt.Sprintf("%d of %d", len(m.machine.Visible()), len(m.machine.Items())))
		}
		parts = append(parts, "↑/↓ move", "enter select", "esc close")
	case selection.Selected:
		item, _ := m.machine.SelectedItem()
		parts = append(parts, m.styles.Selected.Render("✓ "+item.Name), "enter reopen", "esc quit")
	default:
		parts = append(parts, "enter open", "esc quit")
	}

	if m.status != "" {
		parts = append(parts, m.status)
	}
	return m.styles.Status.Render(strings.Join(parts, " · "))
}
