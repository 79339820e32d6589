package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/skel/internal/tree"
)

const (
	indentUnit       = "  "
	expandedMarker   = "▾ "
	collapsedMarker  = "▸ "
	fileMarker       = "  "
	cursorMarker     = "> "
	noCursorMarker   = "  "
	countsLineFormat = "%d files, %d folders"
)

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	folderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	footerStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var builder strings.Builder
	end := m.offset + m.visibleRowCount()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for index := m.offset; index < end; index++ {
		builder.WriteString(m.renderRow(index))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
	if m.renaming {
		builder.WriteString(m.renameInput.View())
		builder.WriteString("\n")
	}
	if m.status != "" {
		builder.WriteString(errorStyle.Render(m.status))
		builder.WriteString("\n")
	}
	builder.WriteString(footerStyle.Render(m.footer()))
	return builder.String()
}

func (m Model) renderRow(index int) string {
	row := m.rows[index]
	node := m.tree.Node(row.ID)
	marker := fileMarker
	label := node.Name
	if node.IsFolder() {
		marker = collapsedMarker
		if node.Expanded {
			marker = expandedMarker
		}
		label = folderStyle.Render(node.Name + "/")
	}
	line := strings.Repeat(indentUnit, row.Depth) + marker + label
	if index == m.cursor {
		return cursorStyle.Render(cursorMarker) + line
	}
	return noCursorMarker + line
}

func (m Model) footer() string {
	counts := tree.Count(m.tree, m.tree.Root())
	bindings := m.keys.browseHelp()
	if m.renaming {
		bindings = m.keys.renameHelp()
	}
	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		hints = append(hints, help.Key+" "+help.Desc)
	}
	return fmt.Sprintf(countsLineFormat, counts.Files, counts.Folders) + " • " + strings.Join(hints, " • ")
}
