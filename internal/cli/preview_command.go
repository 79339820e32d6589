package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/skel/internal/output"
	"github.com/temirov/skel/internal/parser"
	"github.com/temirov/skel/internal/tree"
	"github.com/temirov/skel/internal/tui"
)

const (
	previewUse              = "preview <file>"
	previewShortDescription = "browse and rename a tree interactively"
	previewLongDescription  = `Open an interactive view of an ASCII tree. Move with the arrow keys or j/k,
collapse folders with enter or space, rename the selected entry with r and quit with q.
With --write the renamed tree is saved back to the file.`

	writeFlagName        = "write"
	writeFlagDescription = "save renames back to the input file"

	previewFileMode     = 0o644
	errorPreviewFormat  = "run preview: %w"
	errorSaveTreeFormat = "save %s: %w"
	savedTreeLogMessage = "saved previewed tree"
)

var (
	errPreviewNeedsTerminal = errors.New("preview needs an interactive terminal")
	errPreviewNeedsFile     = errors.New("preview reads the tree from a file, not stdin")
)

func newPreviewCommand(app *application) *cobra.Command {
	var writeBack bool

	previewCommand := &cobra.Command{
		Use:   previewUse,
		Short: previewShortDescription,
		Long:  previewLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if arguments[0] == stdinArgument {
				return errPreviewNeedsFile
			}
			if !app.interactive() {
				return errPreviewNeedsTerminal
			}
			path, input, readError := app.readInput(arguments)
			if readError != nil {
				return readError
			}
			program := tea.NewProgram(
				tui.New(parser.ParseFileTree(input)),
				tea.WithContext(command.Context()),
				tea.WithAltScreen(),
			)
			finalModel, runError := program.Run()
			if runError != nil {
				return fmt.Errorf(errorPreviewFormat, runError)
			}
			model, ok := finalModel.(tui.Model)
			if !ok {
				return nil
			}
			return app.finishPreview(model.Tree(), path, writeBack)
		},
	}
	registerBooleanFlag(previewCommand.Flags(), &writeBack, writeFlagName, false, writeFlagDescription)
	return previewCommand
}

// finishPreview prints the final tree and optionally saves it to path.
func (app *application) finishPreview(final *tree.Tree, path string, writeBack bool) error {
	snapshot := tree.Snapshot(final)
	output.WriteTreeRaw(app.stdout, snapshot, output.NewStyle(app.colorEnabled))
	if !writeBack {
		return nil
	}
	if saveError := os.WriteFile(path, []byte(output.RenderTreeRaw(snapshot, output.NewStyle(false))), previewFileMode); saveError != nil {
		return fmt.Errorf(errorSaveTreeFormat, path, saveError)
	}
	app.logger.Debug(savedTreeLogMessage, zap.String("path", path))
	return nil
}
