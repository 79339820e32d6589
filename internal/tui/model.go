// Package tui implements the interactive tree preview.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/skel/internal/tree"
	"github.com/temirov/skel/internal/utils"
)

const (
	renameCharLimit   = 255
	renameInputWidth  = 40
	minimumViewHeight = 3
	chromeLines       = 3
)

// RenamedMsg is emitted after a node has been renamed.
type RenamedMsg struct {
	ID   tree.NodeID
	From string
	To   string
}

// Model is a collapsible tree browser that can rename nodes.
type Model struct {
	tree        *tree.Tree
	rows        []tree.VisibleNode
	cursor      int
	offset      int
	height      int
	renaming    bool
	renameInput textinput.Model
	status      string
	keys        keyMap
	quitting    bool
}

// New returns a preview of t. Renames are applied to t in place.
func New(t *tree.Tree) Model {
	renameInput := textinput.New()
	renameInput.CharLimit = renameCharLimit
	renameInput.Width = renameInputWidth
	renameInput.Prompt = "rename: "

	model := Model{tree: t, renameInput: renameInput, keys: defaultKeyMap}
	model.refresh()
	return model
}

// Tree returns the previewed tree.
func (m Model) Tree() *tree.Tree {
	return m.tree
}

// Selected returns the node under the cursor.
func (m Model) Selected() tree.NodeID {
	if len(m.rows) == 0 {
		return tree.InvalidNodeID
	}
	return m.rows[m.cursor].ID
}

// Renaming reports whether the rename input is open.
func (m Model) Renaming() bool {
	return m.renaming
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		selected := m.Selected()
		if node := m.tree.Node(selected); node != nil && node.IsFolder() {
			_, _ = m.tree.ToggleExpanded(selected)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Rename):
		node := m.tree.Node(m.Selected())
		if node == nil {
			return m, nil
		}
		m.renaming = true
		m.renameInput.SetValue(node.Name)
		m.renameInput.CursorEnd()
		return m, m.renameInput.Focus()
	}
	m.scroll()
	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeRename()
		return m, nil
	case key.Matches(msg, m.keys.Commit):
		name := m.renameInput.Value()
		if validationError := utils.ValidateName(name); validationError != nil {
			m.status = validationError.Error()
			return m, nil
		}
		selected := m.Selected()
		previous := m.tree.Node(selected).Name
		if _, renameError := m.tree.Rename(selected, name); renameError != nil {
			m.status = renameError.Error()
			return m, nil
		}
		m.closeRename()
		renamed := RenamedMsg{ID: selected, From: previous, To: name}
		return m, func() tea.Msg { return renamed }
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m *Model) closeRename() {
	m.renaming = false
	m.status = ""
	m.renameInput.Blur()
	m.renameInput.SetValue("")
}

// refresh recomputes the visible rows and keeps the cursor on a valid row.
func (m *Model) refresh() {
	selected := tree.InvalidNodeID
	if m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].ID
	}
	m.rows = tree.Visible(m.tree)
	m.cursor = 0
	for index, row := range m.rows {
		if row.ID == selected {
			m.cursor = index
			break
		}
	}
	m.scroll()
}

// scroll moves the window so the cursor row stays visible.
func (m *Model) scroll() {
	visible := m.visibleRowCount()
	if visible <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m Model) visibleRowCount() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	rows := m.height - chromeLines
	if rows < minimumViewHeight {
		rows = minimumViewHeight
	}
	return rows
}
