package submodules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/gitsub/internal/submodule"
	flagutils "github.com/temirov/gitsub/internal/utils/flags"
)

const (
	updateUseConstant              = "update [name ...]"
	updateShortDescriptionConstant = "Fetch and check out the commits recorded in the superproject index"
	initFlagNameConstant           = "init"
	initFlagUsageConstant          = "Initialize submodules that are not yet initialized"
	updatedMessageTemplate         = "updated %s at %s"
	updateSkippedMessageTemplate   = "skipped %s (update rule %s)"
	updateInitHintTemplate         = "%w; run init first or pass --%s"
)

func newUpdateCommand(resolver environmentResolver) *cobra.Command {
	var initialize bool
	command := &cobra.Command{
		Use:   updateUseConstant,
		Short: updateShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			environment, environmentError := resolver.resolve(command)
			if environmentError != nil {
				return environmentError
			}
			if !command.Flags().Changed(initFlagNameConstant) {
				initialize = environment.configuration.Initialize
			}

			selected, selectionError := selectSubmodules(command.Context(), environment.repository, arguments)
			if selectionError != nil {
				return selectionError
			}

			for _, instance := range selected {
				if updateError := instance.Update(command.Context(), initialize); updateError != nil {
					if isUninitializedFailure(updateError) {
						return fmt.Errorf(updateInitHintTemplate, updateError, initFlagNameConstant)
					}
					return updateError
				}
				var writeError error
				if instance.UpdateRule() == submodule.UpdateNone {
					writeError = writeLine(environment.output, updateSkippedMessageTemplate, instance.Name(), instance.UpdateRule())
				} else {
					writeError = writeLine(environment.output, updatedMessageTemplate, instance.Name(), shortCommitID(instance.IndexCommitID()))
				}
				if writeError != nil {
					return writeError
				}
			}
			return nil
		},
	}
	flagutils.AddToggleFlag(command.Flags(), &initialize, initFlagNameConstant, "", DefaultCommandConfiguration().Initialize, initFlagUsageConstant)
	return command
}
