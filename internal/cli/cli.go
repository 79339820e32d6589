// Package cli provides the skel command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/skel/internal/config"
	"github.com/temirov/skel/internal/output"
	"github.com/temirov/skel/internal/services/clipboard"
	"github.com/temirov/skel/internal/templates"
	"github.com/temirov/skel/internal/types"
	"github.com/temirov/skel/internal/utils"
)

const (
	versionFlagName        = "version"
	configFlagName         = "config"
	verboseFlagName        = "verbose"
	formatFlagName         = "format"
	summaryFlagName        = "summary"
	copyFlagName           = "copy"
	versionTemplate        = "skel version: %s\n"
	stdinArgument          = "-"
	stdinSourceLabel       = "stdin"
	rootUse                = utils.ApplicationName
	rootShortDescription   = "turn ASCII file trees into project skeletons"
	rootLongDescription    = `skel parses ASCII file trees such as the output of the tree command and turns them
into project skeletons with package manifests, configuration files and boilerplate source.
Use parse to inspect a tree, generate to write a skeleton, templates to list starters,
preview to browse and rename interactively and serve to run the HTTP service.`
	versionFlagDescription = "display application version"
	configFlagDescription  = "configuration file overriding ./" + utils.ConfigFileName
	verboseFlagDescription = "enable debug logging"
	formatFlagDescription  = "output format: raw, json or xml"
	summaryFlagDescription = "include a summary of files and folders"
	copyFlagDescription    = "copy the rendered output to the system clipboard"

	errorWorkingDirectoryFormat = "unable to determine working directory: %w"
	errorReadInputFormat        = "read %s: %w"
	errorRegistryFormat         = "load templates: %w"
	errorLoggerFormat           = "configure logger: %w"
)

// errVersionDisplayed stops command execution after --version was printed.
var errVersionDisplayed = errors.New("version displayed")

// application holds the dependencies shared by all commands.
type application struct {
	stdin             io.Reader
	stdout            io.Writer
	stderr            io.Writer
	logger            *zap.Logger
	copier            clipboard.Copier
	registry          *templates.Registry
	workingDirectory  string
	configurationPath string
	colorEnabled      bool
	interactive       func() bool
}

// Execute runs the skel application with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	app, setupError := newApplication(logger)
	if setupError != nil {
		return setupError
	}
	rootCommand := newRootCommand(app)
	rootCommand.SetArgs(normalizeArguments(rootCommand, os.Args[1:]))
	return run(ctx, rootCommand)
}

func newApplication(logger *zap.Logger) (*application, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return nil, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
	}
	registry, registryError := templates.NewRegistry()
	if registryError != nil {
		return nil, fmt.Errorf(errorRegistryFormat, registryError)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &application{
		stdin:            os.Stdin,
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		logger:           logger,
		copier:           clipboard.NewSystemCopier(),
		registry:         registry,
		workingDirectory: workingDirectory,
		colorEnabled:     output.ColorEnabled(os.Stdout),
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}, nil
}

func run(ctx context.Context, rootCommand *cobra.Command) error {
	if executeError := rootCommand.ExecuteContext(ctx); executeError != nil {
		if errors.Is(executeError, errVersionDisplayed) || errors.Is(executeError, context.Canceled) {
			return nil
		}
		return executeError
	}
	return nil
}

// normalizeArguments rewrites "--flag value" pairs of boolean and copy flags into "--flag=value".
func normalizeArguments(rootCommand *cobra.Command, arguments []string) []string {
	return normalizeCopyFlagArguments(normalizeBooleanFlagArguments(rootCommand, arguments))
}

// newRootCommand builds the root Cobra command and its subcommands.
func newRootCommand(app *application) *cobra.Command {
	var showVersion bool
	var verbose bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(app.stdout, versionTemplate, utils.ApplicationVersion())
				return errVersionDisplayed
			}
			if verbose {
				verboseLogger, loggerError := utils.NewApplicationLogger(true)
				if loggerError != nil {
					return fmt.Errorf(errorLoggerFormat, loggerError)
				}
				app.logger = verboseLogger
			}
			return nil
		},
	}
	rootCommand.SetIn(app.stdin)
	rootCommand.SetOut(app.stdout)
	rootCommand.SetErr(app.stderr)

	registerBooleanFlag(rootCommand.PersistentFlags(), &showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.configurationPath, configFlagName, utils.EmptyString, configFlagDescription)

	rootCommand.AddCommand(
		newParseCommand(app),
		newGenerateCommand(app),
		newTemplatesCommand(app),
		newPreviewCommand(app),
		newServeCommand(app),
		newConfigCommand(app),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// loadConfiguration reads the layered configuration for the current invocation.
func (app *application) loadConfiguration() (config.ApplicationConfiguration, error) {
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.workingDirectory,
		ExplicitFilePath: app.configurationPath,
	})
}

// readInput returns the source label and text of the first argument, or of stdin when it is absent or "-".
func (app *application) readInput(arguments []string) (string, string, error) {
	if len(arguments) == 0 || arguments[0] == stdinArgument {
		data, readError := io.ReadAll(app.stdin)
		if readError != nil {
			return stdinSourceLabel, utils.EmptyString, fmt.Errorf(errorReadInputFormat, stdinSourceLabel, readError)
		}
		return stdinSourceLabel, string(data), nil
	}
	path := app.resolvePath(arguments[0])
	data, readError := os.ReadFile(path)
	if readError != nil {
		return path, utils.EmptyString, fmt.Errorf(errorReadInputFormat, arguments[0], readError)
	}
	return path, string(data), nil
}

func (app *application) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(app.workingDirectory, path)
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// resolveBoolean prefers an explicitly set flag, then the configured value, then fallback.
func resolveBoolean(command *cobra.Command, flagName string, flagValue bool, configured *bool, fallback bool) bool {
	if command.Flags().Changed(flagName) {
		return flagValue
	}
	if configured != nil {
		return *configured
	}
	return fallback
}

// resolveString prefers an explicitly set flag, then a non-empty configured value, then fallback.
func resolveString(command *cobra.Command, flagName string, flagValue string, configured string, fallback string) string {
	if command.Flags().Changed(flagName) {
		return flagValue
	}
	if strings.TrimSpace(configured) != utils.EmptyString {
		return configured
	}
	return fallback
}
