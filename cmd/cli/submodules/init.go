package submodules

import (
	"github.com/spf13/cobra"

	flagutils "github.com/temirov/gitsub/internal/utils/flags"
)

const (
	initUseConstant              = "init [name ...]"
	initShortDescriptionConstant = "Copy submodule URLs from .gitmodules into the repository configuration"
	overwriteFlagNameConstant    = "overwrite"
	overwriteFlagUsageConstant   = "Replace URLs already present in the repository configuration"
	initializedMessageTemplate   = "initialized %s"
)

func newInitCommand(resolver environmentResolver) *cobra.Command {
	var overwrite bool
	command := &cobra.Command{
		Use:   initUseConstant,
		Short: initShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			environment, environmentError := resolver.resolve(command)
			if environmentError != nil {
				return environmentError
			}
			if !command.Flags().Changed(overwriteFlagNameConstant) {
				overwrite = environment.configuration.Overwrite
			}

			selected, selectionError := selectSubmodules(command.Context(), environment.repository, arguments)
			if selectionError != nil {
				return selectionError
			}

			for _, instance := range selected {
				if initializeError := instance.Initialize(command.Context(), overwrite); initializeError != nil {
					return initializeError
				}
				if writeError := writeLine(environment.output, initializedMessageTemplate, instance.Name()); writeError != nil {
					return writeError
				}
			}
			return nil
		},
	}
	flagutils.AddToggleFlag(command.Flags(), &overwrite, overwriteFlagNameConstant, "", DefaultCommandConfiguration().Overwrite, overwriteFlagUsageConstant)
	return command
}
