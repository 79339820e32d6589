package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/skel/internal/config"
)

const (
	configUse                  = "config"
	configShortDescription     = "manage skel configuration"
	configInitUse              = "init"
	configInitShortDescription = "write a commented default configuration"
	configInitLongDescription  = `Write a default configuration to ./.skel.yaml, or to ~/.skel/config.yaml with --global.
Existing files are kept unless --force is given.`

	globalFlagName             = "global"
	globalFlagDescription      = "write the global configuration"
	configForceDescription     = "overwrite an existing configuration"
	configurationWrittenFormat = "configuration written to %s\n"
)

func newConfigCommand(app *application) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Long:  configInitLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: app.workingDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(app.stdout, configurationWrittenFormat, path)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, configForceDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}
