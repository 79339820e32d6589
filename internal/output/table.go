package output

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/temirov/skel/internal/stack"
	"github.com/temirov/skel/internal/templates"
)

const emptyChoice = "-"

// WriteTemplateTable lists templates with their default stack choices.
func WriteTemplateTable(writer io.Writer, entries []templates.Template) {
	tableWriter := table.NewWriter()
	tableWriter.SetOutputMirror(writer)
	tableWriter.SetStyle(table.StyleLight)
	tableWriter.AppendHeader(table.Row{"Name", "Title", "Language", "Stack", "Description"})
	for _, entry := range entries {
		tableWriter.AppendRow(table.Row{
			entry.Name,
			entry.Title,
			entry.Defaults.Language,
			stackSummary(entry),
			entry.Description,
		})
	}
	tableWriter.Render()
}

func stackSummary(entry templates.Template) string {
	var parts []string
	for _, choice := range []string{
		entry.Defaults.Database,
		entry.Defaults.Auth,
		entry.Defaults.UI,
		entry.Defaults.Testing,
		entry.Defaults.Deploy,
	} {
		if choice != "" && choice != stack.ChoiceNone {
			parts = append(parts, choice)
		}
	}
	if len(parts) == 0 {
		return emptyChoice
	}
	return strings.Join(parts, ", ")
}
