package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/skel/internal/export"
	"github.com/temirov/skel/internal/generator"
	"github.com/temirov/skel/internal/output"
	"github.com/temirov/skel/internal/parser"
	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/stack"
	"github.com/temirov/skel/internal/types"
	"github.com/temirov/skel/internal/utils"
)

const (
	generateUse              = "generate [file|-]"
	generateAlias            = "g"
	generateShortDescription = "write a project skeleton from an ASCII tree (" + generateAlias + ")"
	generateLongDescription  = `Generate package manifests, configuration files and boilerplate source for every
file of an ASCII tree. The tree is read from a file, from stdin or from the sample of --template.
The skeleton is written below --out (default: the current directory) or into a ZIP archive with --zip.`
	generateUsageExample = `  # Start from a template and write ./service
  skel generate --template go-service --name billing --author acme

  # Bundle a custom tree with a Postgres and NextAuth stack
  skel generate layout.txt --database postgres --auth nextauth --zip app.zip

  # Show what would be written
  skel generate layout.txt --dry-run`

	templateFlagName    = "template"
	nameFlagName        = "name"
	descriptionFlagName = "description"
	authorFlagName      = "author"
	licenseFlagName     = "license"
	languageFlagName    = "language"
	databaseFlagName    = "database"
	authFlagName        = "auth"
	uiFlagName          = "ui"
	testingFlagName     = "testing"
	deployFlagName      = "deploy"
	zipFlagName         = "zip"
	outFlagName         = "out"
	forceFlagName       = "force"
	dryRunFlagName      = "dry-run"

	templateFlagDescription    = "start from a named template (see skel templates)"
	nameFlagDescription        = "project name (default: the tree root)"
	descriptionFlagDescription = "project description"
	authorFlagDescription      = "author or organization"
	licenseFlagDescription     = "license identifier"
	zipFlagDescription         = "write a ZIP archive to this path"
	outFlagDescription         = "directory the skeleton root is created in"
	forceFlagDescription       = "overwrite existing files"
	dryRunFlagDescription      = "print the plan without writing"

	defaultOutputDirectory = "."
	archiveFileMode        = 0o644
	archiveWrittenFormat   = "archive %s (%d entries)\n"

	errorZipAndOutFormat = "--%s and --%s are mutually exclusive"
	errorZipDryRunFormat = "--%s cannot be combined with --%s"
	errorProjectFormat   = "project settings: %w"
	errorCreateArchive   = "create archive %s: %w"
	errorArchiveExists   = "archive %s already exists (use --force to overwrite)"
)

var errMissingTree = errors.New("no tree given: pass a file, pipe one on stdin or use --template")

type generateFlags struct {
	template string
	project  stack.Project
	zipPath  string
	out      string
	force    bool
	dryRun   bool
}

func newGenerateCommand(app *application) *cobra.Command {
	var flags generateFlags

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runGenerate(command, arguments, flags)
		},
	}

	choices := stack.Choices()
	flagSet := generateCommand.Flags()
	flagSet.StringVar(&flags.template, templateFlagName, utils.EmptyString, templateFlagDescription)
	flagSet.StringVar(&flags.project.Name, nameFlagName, utils.EmptyString, nameFlagDescription)
	flagSet.StringVar(&flags.project.Description, descriptionFlagName, utils.EmptyString, descriptionFlagDescription)
	flagSet.StringVar(&flags.project.Author, authorFlagName, utils.EmptyString, authorFlagDescription)
	flagSet.StringVar(&flags.project.License, licenseFlagName, utils.EmptyString, licenseFlagDescription)
	flagSet.StringVar(&flags.project.Language, languageFlagName, utils.EmptyString, choiceDescription(choices, languageFlagName))
	flagSet.StringVar(&flags.project.Database, databaseFlagName, utils.EmptyString, choiceDescription(choices, databaseFlagName))
	flagSet.StringVar(&flags.project.Auth, authFlagName, utils.EmptyString, choiceDescription(choices, authFlagName))
	flagSet.StringVar(&flags.project.UI, uiFlagName, utils.EmptyString, choiceDescription(choices, uiFlagName))
	flagSet.StringVar(&flags.project.Testing, testingFlagName, utils.EmptyString, choiceDescription(choices, testingFlagName))
	flagSet.StringVar(&flags.project.Deploy, deployFlagName, utils.EmptyString, choiceDescription(choices, deployFlagName))
	flagSet.StringVar(&flags.zipPath, zipFlagName, utils.EmptyString, zipFlagDescription)
	flagSet.StringVar(&flags.out, outFlagName, utils.EmptyString, outFlagDescription)
	registerBooleanFlag(flagSet, &flags.force, forceFlagName, false, forceFlagDescription)
	registerBooleanFlag(flagSet, &flags.dryRun, dryRunFlagName, false, dryRunFlagDescription)
	return generateCommand
}

func choiceDescription(choices map[string][]string, category string) string {
	return category + ": " + strings.Join(choices[category], ", ")
}

func (app *application) runGenerate(command *cobra.Command, arguments []string, flags generateFlags) error {
	if flags.zipPath != utils.EmptyString && command.Flags().Changed(outFlagName) {
		return fmt.Errorf(errorZipAndOutFormat, zipFlagName, outFlagName)
	}
	if flags.zipPath != utils.EmptyString && flags.dryRun {
		return fmt.Errorf(errorZipDryRunFormat, zipFlagName, dryRunFlagName)
	}
	configuration, configurationError := app.loadConfiguration()
	if configurationError != nil {
		return configurationError
	}

	templateName := resolveString(command, templateFlagName, flags.template, configuration.Generate.Template, utils.EmptyString)
	project := configuration.Generate.Project.Merge(flags.project)
	input := utils.EmptyString
	if len(arguments) > 0 {
		_, fileInput, readError := app.readInput(arguments)
		if readError != nil {
			return readError
		}
		input = fileInput
	}
	if templateName != utils.EmptyString {
		template, requireError := app.registry.Require(templateName)
		if requireError != nil {
			return requireError
		}
		if len(arguments) == 0 {
			input = template.Tree
		}
		project = template.Defaults.Merge(project)
	} else if len(arguments) == 0 {
		_, stdinInput, readError := app.readInput(nil)
		if readError != nil {
			return readError
		}
		input = stdinInput
	}
	if strings.TrimSpace(input) == utils.EmptyString {
		return errMissingTree
	}

	parsed := parser.ParseFileTree(input)
	if strings.TrimSpace(project.Name) == utils.EmptyString {
		project.Name = parsed.Node(parsed.Root()).Name
	}
	project = project.Normalize()
	if validationError := project.Validate(); validationError != nil {
		return fmt.Errorf(errorProjectFormat, validationError)
	}
	contentGenerator, generatorError := generator.New(project, app.logger)
	if generatorError != nil {
		return generatorError
	}

	force := resolveBoolean(command, forceFlagName, flags.force, configuration.Generate.Force, false)
	if flags.zipPath != utils.EmptyString {
		return app.generateArchive(command.Context(), app.resolvePath(flags.zipPath), force, stream.SkeletonOptions{Tree: parsed, Generator: contentGenerator})
	}
	destination := app.resolvePath(resolveString(command, outFlagName, flags.out, configuration.Generate.Output, defaultOutputDirectory))
	sink := export.NewDirectorySink(export.DirectoryOptions{
		Destination: destination,
		Force:       force,
		DryRun:      flags.dryRun,
		Report:      app.stdout,
	})
	return app.streamSkeleton(command.Context(), stream.SkeletonOptions{Tree: parsed, Generator: contentGenerator}, sink, flags.dryRun)
}

// generateArchive removes a partially written archive when generation fails.
func (app *application) generateArchive(ctx context.Context, archivePath string, force bool, options stream.SkeletonOptions) (err error) {
	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		openFlags |= os.O_EXCL
	}
	archiveFile, openError := os.OpenFile(archivePath, openFlags, archiveFileMode)
	if openError != nil {
		if os.IsExist(openError) {
			return fmt.Errorf(errorArchiveExists, archivePath)
		}
		return fmt.Errorf(errorCreateArchive, archivePath, openError)
	}
	defer func() {
		if closeError := archiveFile.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCreateArchive, archivePath, closeError)
		}
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()

	sink := export.NewZipSink(archiveFile)
	if streamError := app.streamSkeleton(ctx, options, sink, false); streamError != nil {
		return streamError
	}
	fmt.Fprintf(app.stdout, archiveWrittenFormat, archivePath, sink.Entries())
	return nil
}

// streamSkeleton feeds skeleton events to sink and to the raw renderer. In dry runs the sink reports the plan.
func (app *application) streamSkeleton(ctx context.Context, options stream.SkeletonOptions, sink export.Sink, dryRun bool) error {
	renderer := output.NewRawStreamRenderer(app.stdout, app.stderr, types.CommandGenerate, true, output.NewStyle(app.colorEnabled))
	consumer := func(event stream.Event) error {
		if handleError := sink.Handle(event); handleError != nil {
			return handleError
		}
		if dryRun && event.Kind == stream.EventKindFile {
			return nil
		}
		return renderer.Handle(event)
	}
	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		return stream.StreamSkeleton(streamCtx, options, events)
	}
	if dispatchError := stream.Dispatch(ctx, producer, consumer); dispatchError != nil {
		_ = sink.Close()
		return dispatchError
	}
	if closeError := sink.Close(); closeError != nil {
		return closeError
	}
	return renderer.Flush()
}
