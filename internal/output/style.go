package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const noColorEnvironmentVariable = "NO_COLOR"

// Style decorates raw tree lines. The zero value renders plain text.
type Style struct {
	enabled   bool
	folder    lipgloss.Style
	file      lipgloss.Style
	connector lipgloss.Style
	summary   lipgloss.Style
}

// NewStyle returns a colored style when enabled is true and a plain one otherwise.
func NewStyle(enabled bool) Style {
	if !enabled {
		return Style{}
	}
	return Style{
		enabled:   true,
		folder:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		file:      lipgloss.NewStyle(),
		connector: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		summary:   lipgloss.NewStyle().Faint(true),
	}
}

// ColorEnabled reports whether file is an interactive terminal and NO_COLOR is unset.
func ColorEnabled(file *os.File) bool {
	if file == nil {
		return false
	}
	if _, disabled := os.LookupEnv(noColorEnvironmentVariable); disabled {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func (style Style) render(lipStyle lipgloss.Style, text string) string {
	if !style.enabled || text == "" {
		return text
	}
	return lipStyle.Render(text)
}

func (style Style) folderName(text string) string    { return style.render(style.folder, text) }
func (style Style) fileName(text string) string      { return style.render(style.file, text) }
func (style Style) connectorText(text string) string { return style.render(style.connector, text) }
func (style Style) summaryText(text string) string   { return style.render(style.summary, text) }
