package submodules

import (
	"github.com/spf13/cobra"

	flagutils "github.com/temirov/gitsub/internal/utils/flags"
)

const (
	groupUseConstant              = "submodules"
	groupAliasConstant            = "sm"
	groupShortDescriptionConstant = "Inspect and manage the submodules of a superproject"
	groupLongDescriptionConstant  = "submodules lists, inspects, initializes, updates, clones and opens the submodules declared in .gitmodules."
)

// CommandGroupBuilder assembles the submodules command group.
type CommandGroupBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
}

// Build constructs the submodules command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     groupUseConstant,
		Aliases: []string{groupAliasConstant},
		Short:   groupShortDescriptionConstant,
		Long:    groupLongDescriptionConstant,
	}

	defaults := DefaultCommandConfiguration()
	persistentFlags := command.PersistentFlags()
	persistentFlags.String(repositoryFlagNameConstant, defaults.RepositoryPath, repositoryFlagUsageConstant)
	persistentFlags.String(inspectorFlagNameConstant, defaults.Inspector, flagutils.FormatChoiceUsage(defaults.Inspector, inspectorChoices, inspectorFlagUsageConstant))

	resolver := environmentResolver{
		loggerProvider:               builder.LoggerProvider,
		humanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
		configurationProvider:        builder.ConfigurationProvider,
	}

	subcommandBuilders := []func(environmentResolver) *cobra.Command{
		newListCommand,
		newStatusCommand,
		newInitCommand,
		newUpdateCommand,
		newCloneCommand,
		newOpenCommand,
	}
	for _, buildSubcommand := range subcommandBuilders {
		command.AddCommand(buildSubcommand(resolver))
	}

	return command, nil
}

func addOutputFlag(command *cobra.Command) {
	defaults := DefaultCommandConfiguration()
	command.Flags().String(outputFlagNameConstant, defaults.Output, flagutils.FormatChoiceUsage(defaults.Output, outputChoices, outputFlagUsageConstant))
}
