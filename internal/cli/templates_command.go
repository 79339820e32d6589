package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/skel/internal/output"
	"github.com/temirov/skel/internal/parser"
	"github.com/temirov/skel/internal/tree"
)

const (
	templatesUse                  = "templates"
	templatesAlias                = "ls"
	templatesShortDescription     = "list starter templates (" + templatesAlias + ")"
	templatesShowUse              = "show <name>"
	templatesShowShortDescription = "print the sample tree of a template"
	templatesUsageExample         = `  # List templates with their stacks
  skel templates

  # Start a custom tree from a sample
  skel templates show nextjs-saas > layout.txt`
)

func newTemplatesCommand(app *application) *cobra.Command {
	templatesCommand := &cobra.Command{
		Use:     templatesUse,
		Aliases: []string{templatesAlias},
		Short:   templatesShortDescription,
		Example: templatesUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			output.WriteTemplateTable(app.stdout, app.registry.List())
			return nil
		},
	}
	templatesCommand.AddCommand(&cobra.Command{
		Use:   templatesShowUse,
		Short: templatesShowShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			template, requireError := app.registry.Require(arguments[0])
			if requireError != nil {
				return requireError
			}
			sample := parser.ParseFileTree(template.Tree)
			output.WriteTreeRaw(app.stdout, tree.Snapshot(sample), output.NewStyle(app.colorEnabled))
			return nil
		},
	})
	return templatesCommand
}
