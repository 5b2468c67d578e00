package submodules

import (
	"github.com/spf13/cobra"
)

const (
	cloneUseConstant              = "clone <name>"
	cloneShortDescriptionConstant = "Clone a submodule into its working directory"
	clonedMessageTemplate         = "cloned %s into %s at %s"
)

func newCloneCommand(resolver environmentResolver) *cobra.Command {
	return &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescriptionConstant,
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

			cloned, cloneError := instance.Clone(command.Context())
			if cloneError != nil {
				return cloneError
			}
			headCommitID, headError := cloned.HeadCommitID()
			if headError != nil {
				return headError
			}
			return writeLine(environment.output, clonedMessageTemplate, instance.Name(), cloned.Path(), shortCommitID(headCommitID))
		},
	}
}
