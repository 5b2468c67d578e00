package submodules

import (
	"github.com/spf13/cobra"
)

const (
	openUseConstant              = "open <name>"
	openShortDescriptionConstant = "Open a submodule working directory and print its location and HEAD"
	openedMessageTemplate        = "%s\t%s"
)

func newOpenCommand(resolver environmentResolver) *cobra.Command {
	return &cobra.Command{
		Use:   openUseConstant,
		Short: openShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			environment, environmentError := resolver.resolve(command)
			if environmentError != nil {
				return environmentError
			}

			instance, lookupError := environment.repository.Submodule(command.Context(), arguments[0])
			if lookupError != nil {
				return lookupError
			}

			opened, openError := instance.Open(command.Context())
			if openError != nil {
				return openError
			}
			headCommitID, headError := opened.HeadCommitID()
			if headError != nil {
				return headError
			}
			return writeLine(environment.output, openedMessageTemplate, opened.Path(), headCommitID.String())
		},
	}
}
