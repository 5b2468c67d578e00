package submodules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/gitsub/internal/submodule"
	flagutils "github.com/temirov/gitsub/internal/utils/flags"
)

const (
	statusUseConstant              = "status [name ...]"
	statusShortDescriptionConstant = "Report the status flags of submodules"
	ignoreFlagNameConstant         = "ignore"
	ignoreFlagUsageConstant        = "Ignore rule applied to workdir changes"
	ignoreFlagParseTemplate        = "invalid --%s value: %w"
)

var (
	statusTableHeaders = []string{"NAME", "PATH", "STATUS"}
	ignoreChoices      = []string{
		submodule.IgnoreUnspecified.String(),
		submodule.IgnoreNone.String(),
		submodule.IgnoreUntracked.String(),
		submodule.IgnoreDirty.String(),
		submodule.IgnoreAll.String(),
	}
)

// statusEntry is the YAML form of one submodule status.
type statusEntry struct {
	Name   string                `yaml:"name"`
	Path   string                `yaml:"path"`
	Status submodule.StatusFlags `yaml:"status"`
	Flags  []string              `yaml:"flags"`
}

func newStatusCommand(resolver environmentResolver) *cobra.Command {
	command := &cobra.Command{
		Use:   statusUseConstant,
		Short: statusShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			environment, environmentError := resolver.resolve(command)
			if environmentError != nil {
				return environmentError
			}

			ignoreRule := environment.configuration.StatusIgnore
			if command.Flags().Changed(ignoreFlagNameConstant) {
				ignoreValue, _ := command.Flags().GetString(ignoreFlagNameConstant)
				parsedRule, parseError := submodule.ParseIgnoreRule(ignoreValue)
				if parseError != nil {
					return fmt.Errorf(ignoreFlagParseTemplate, ignoreFlagNameConstant, parseError)
				}
				ignoreRule = parsedRule
			}

			selected, selectionError := selectSubmodules(command.Context(), environment.repository, arguments)
			if selectionError != nil {
				return selectionError
			}

			entries := make([]statusEntry, 0, len(selected))
			for _, instance := range selected {
				status, statusError := instance.StatusWithIgnore(command.Context(), ignoreRule)
				if statusError != nil {
					return statusError
				}
				flagNames := make([]string, 0, len(status.Flags()))
				for _, flag := range status.Flags() {
					flagNames = append(flagNames, flag.String())
				}
				entries = append(entries, statusEntry{Name: instance.Name(), Path: instance.Path(), Status: status, Flags: flagNames})
			}

			if environment.configuration.Output == OutputFormatYAML {
				return renderYAML(environment.output, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Name, entry.Path, entry.Status.String()})
			}
			return renderTable(environment.output, statusTableHeaders, rows)
		},
	}
	addOutputFlag(command)
	command.Flags().String(ignoreFlagNameConstant, submodule.IgnoreUnspecified.String(), flagutils.FormatChoiceUsage(submodule.IgnoreUnspecified.String(), ignoreChoices, ignoreFlagUsageConstant))
	return command
}
