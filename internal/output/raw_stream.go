package output

import (
	"fmt"
	"io"

	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/types"
	"github.com/temirov/skel/internal/utils"
)

const rawCreateFormat = "%s %s (%s)\n"

type rawStreamRenderer struct {
	stdout         io.Writer
	stderr         io.Writer
	command        string
	includeSummary bool
	style          Style
	summary        *stream.SummaryEvent
	trees          []*types.TreeOutputNode
}

// NewRawStreamRenderer prints trees with connectors for parse and one line per file for generate.
func NewRawStreamRenderer(stdout, stderr io.Writer, command string, includeSummary bool, style Style) StreamRenderer {
	return &rawStreamRenderer{
		stdout:         stdout,
		stderr:         stderr,
		command:        command,
		includeSummary: includeSummary,
		style:          style,
	}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Message.Message)
		}
	case stream.EventKindError:
		if event.Err != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Err.Message)
		}
	case stream.EventKindFile:
		renderer.handleFile(event.File)
	case stream.EventKindSummary:
		renderer.summary = event.Summary
	case stream.EventKindTree:
		if event.Tree != nil {
			renderer.trees = append(renderer.trees, event.Tree)
		}
	}
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	for index, node := range renderer.trees {
		if index > 0 {
			fmt.Fprintln(renderer.stdout)
		}
		WriteTreeRaw(renderer.stdout, node, renderer.style)
	}
	if renderer.includeSummary && renderer.summary != nil {
		if len(renderer.trees) > 0 {
			fmt.Fprintln(renderer.stdout)
		}
		fmt.Fprintln(renderer.stdout, renderer.style.summaryText(FormatSummaryLine(renderer.outputSummary())))
	}
	return nil
}

func (renderer *rawStreamRenderer) handleFile(file *stream.FileEvent) {
	if renderer.stdout == nil || file == nil || renderer.command != types.CommandGenerate {
		return
	}
	fmt.Fprintf(renderer.stdout, rawCreateFormat,
		renderer.style.connectorText("create"),
		renderer.style.fileName(file.Path),
		utils.FormatFileSize(file.SizeBytes),
	)
}

func (renderer *rawStreamRenderer) outputSummary() types.OutputSummary {
	outputSummary := types.OutputSummary{
		TotalFiles:   renderer.summary.Files,
		TotalFolders: renderer.summary.Folders,
	}
	if renderer.command == types.CommandGenerate {
		outputSummary.TotalSize = utils.FormatFileSize(renderer.summary.Bytes)
	}
	return outputSummary
}
