package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/types"
	"github.com/temirov/skel/internal/utils"
)

type jsonDocument struct {
	Root    *types.TreeOutputNode `json:"root,omitempty"`
	Files   []types.FileOutput    `json:"files,omitempty"`
	Summary *types.OutputSummary  `json:"summary,omitempty"`
}

type jsonStreamRenderer struct {
	stdout         io.Writer
	stderr         io.Writer
	command        string
	includeSummary bool
	document       jsonDocument
}

// NewJSONStreamRenderer collects the stream and writes one indented JSON document on Flush.
func NewJSONStreamRenderer(stdout, stderr io.Writer, command string, includeSummary bool) StreamRenderer {
	return &jsonStreamRenderer{
		stdout:         stdout,
		stderr:         stderr,
		command:        command,
		includeSummary: includeSummary,
	}
}

func (renderer *jsonStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			_, err := fmt.Fprintln(renderer.stderr, event.Message.Message)
			return err
		}
	case stream.EventKindError:
		if event.Err != nil && renderer.stderr != nil {
			_, err := fmt.Fprintln(renderer.stderr, event.Err.Message)
			return err
		}
	case stream.EventKindTree:
		renderer.document.Root = event.Tree
	case stream.EventKindFile:
		if event.File != nil && renderer.command == types.CommandGenerate {
			renderer.document.Files = append(renderer.document.Files, types.FileOutput{
				Path:      event.File.Path,
				Type:      event.File.Type,
				Content:   event.File.Content,
				Size:      utils.FormatFileSize(event.File.SizeBytes),
				SizeBytes: event.File.SizeBytes,
			})
		}
	case stream.EventKindSummary:
		if event.Summary != nil && renderer.includeSummary {
			summary := types.OutputSummary{TotalFiles: event.Summary.Files, TotalFolders: event.Summary.Folders}
			if renderer.command == types.CommandGenerate {
				summary.TotalSize = utils.FormatFileSize(event.Summary.Bytes)
			}
			renderer.document.Summary = &summary
		}
	}
	return nil
}

func (renderer *jsonStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	encoder := json.NewEncoder(renderer.stdout)
	encoder.SetIndent(indentPrefix, indentSpacer)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(renderer.document)
}
