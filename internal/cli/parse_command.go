package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/skel/internal/output"
	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/services/watch"
	"github.com/temirov/skel/internal/tree"
	"github.com/temirov/skel/internal/types"
)

const (
	parseUse              = "parse [file|-]"
	parseAlias            = "p"
	parseShortDescription = "render a parsed ASCII tree (" + parseAlias + ")"
	parseLongDescription  = `Parse an ASCII file tree from a file or stdin and render it.
Lines are nested by indentation in steps of four columns; tree connectors are ignored.
Use --format to select raw, json or xml output and --watch to re-render whenever the file changes.`
	parseUsageExample = `  # Normalize a pasted tree
  pbpaste | skel parse

  # Emit JSON and keep watching the file
  skel parse --format json --watch layout.txt`

	watchFlagName        = "watch"
	watchFlagDescription = "re-render whenever the input file changes"

	invalidFormatMessage       = "invalid format value '%s'"
	errorCopyFormat            = "copy output: %w"
	warningWatchRenderMessage  = "render watched tree"
	defaultParseFormat         = types.FormatRaw
	defaultParseSummaryEnabled = true
)

var errWatchNeedsFile = errors.New("--watch requires a file argument")

type parseSettings struct {
	format  string
	summary bool
	copy    bool
}

func newParseCommand(app *application) *cobra.Command {
	var outputFormat string
	var summaryEnabled bool
	var copyEnabled bool
	var watchEnabled bool

	parseCommand := &cobra.Command{
		Use:     parseUse,
		Aliases: []string{parseAlias},
		Short:   parseShortDescription,
		Long:    parseLongDescription,
		Example: parseUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, configurationError := app.loadConfiguration()
			if configurationError != nil {
				return configurationError
			}
			settings := parseSettings{
				format:  strings.ToLower(resolveString(command, formatFlagName, outputFormat, configuration.Parse.Format, defaultParseFormat)),
				summary: resolveBoolean(command, summaryFlagName, summaryEnabled, configuration.Parse.Summary, defaultParseSummaryEnabled),
				copy:    resolveBoolean(command, copyFlagName, copyEnabled, configuration.Parse.Copy, false),
			}
			if !isSupportedFormat(settings.format) {
				return fmt.Errorf(invalidFormatMessage, settings.format)
			}
			if watchEnabled {
				if len(arguments) == 0 || arguments[0] == stdinArgument {
					return errWatchNeedsFile
				}
				return app.watchTree(command.Context(), app.resolvePath(arguments[0]), settings)
			}
			return app.runParse(command.Context(), arguments, settings)
		},
	}

	parseCommand.Flags().StringVar(&outputFormat, formatFlagName, defaultParseFormat, formatFlagDescription)
	registerBooleanFlag(parseCommand.Flags(), &summaryEnabled, summaryFlagName, defaultParseSummaryEnabled, summaryFlagDescription)
	registerCopyFlag(parseCommand.Flags(), &copyEnabled)
	registerBooleanFlag(parseCommand.Flags(), &watchEnabled, watchFlagName, false, watchFlagDescription)
	return parseCommand
}

func (app *application) newParseRenderer(writer io.Writer, settings parseSettings) (output.StreamRenderer, error) {
	return output.NewStreamRenderer(writer, app.stderr, output.RendererOptions{
		Format:         settings.format,
		Command:        types.CommandParse,
		IncludeSummary: settings.summary,
		Style:          output.NewStyle(app.colorEnabled && !settings.copy),
	})
}

// runParse renders into a buffer so the same text can be copied to the clipboard.
func (app *application) runParse(ctx context.Context, arguments []string, settings parseSettings) error {
	source, input, readError := app.readInput(arguments)
	if readError != nil {
		return readError
	}

	var rendered bytes.Buffer
	renderer, rendererError := app.newParseRenderer(&rendered, settings)
	if rendererError != nil {
		return rendererError
	}
	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		return stream.StreamParse(streamCtx, stream.ParseOptions{Source: source, Input: input}, events)
	}
	if dispatchError := stream.Dispatch(ctx, producer, renderer.Handle); dispatchError != nil {
		return dispatchError
	}
	if flushError := renderer.Flush(); flushError != nil {
		return flushError
	}
	return app.deliver(&rendered, settings)
}

func (app *application) watchTree(ctx context.Context, path string, settings parseSettings) error {
	return watch.Run(ctx, watch.Options{
		Path:   path,
		Logger: app.logger,
		OnChange: func(parsed *tree.Tree) {
			if renderError := app.renderTree(parsed, settings); renderError != nil {
				app.logger.Warn(warningWatchRenderMessage, zap.String("path", path), zap.Error(renderError))
			}
		},
	})
}

// renderTree writes an already parsed tree through the parse renderer.
func (app *application) renderTree(parsed *tree.Tree, settings parseSettings) error {
	var rendered bytes.Buffer
	renderer, rendererError := app.newParseRenderer(&rendered, settings)
	if rendererError != nil {
		return rendererError
	}
	counts := tree.Count(parsed, parsed.Root())
	events := []stream.Event{
		{Version: stream.SchemaVersion, Kind: stream.EventKindTree, Command: types.CommandParse, Tree: tree.Snapshot(parsed)},
		{Version: stream.SchemaVersion, Kind: stream.EventKindSummary, Command: types.CommandParse, Summary: &stream.SummaryEvent{Files: counts.Files, Folders: counts.Folders}},
	}
	for _, event := range events {
		if handleError := renderer.Handle(event); handleError != nil {
			return handleError
		}
	}
	if flushError := renderer.Flush(); flushError != nil {
		return flushError
	}
	return app.deliver(&rendered, settings)
}

// deliver writes rendered to stdout and optionally to the clipboard.
func (app *application) deliver(rendered *bytes.Buffer, settings parseSettings) error {
	if _, writeError := app.stdout.Write(rendered.Bytes()); writeError != nil {
		return writeError
	}
	if settings.copy {
		if copyError := app.copier.Copy(rendered.String()); copyError != nil {
			return fmt.Errorf(errorCopyFormat, copyError)
		}
	}
	return nil
}
