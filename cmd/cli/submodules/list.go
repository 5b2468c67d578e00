package submodules

import (
	"github.com/spf13/cobra"

	"github.com/temirov/gitsub/internal/submodule"
)

const (
	listUseConstant              = "list"
	listShortDescriptionConstant = "List declared submodules with their commits and rules"
)

var listTableHeaders = []string{"NAME", "PATH", "URL", "HEAD", "INDEX", "WORKDIR", "RECURSE", "IGNORE", "UPDATE"}

// listEntry is the YAML form of one listed submodule.
type listEntry struct {
	Name             string                `yaml:"name"`
	Path             string                `yaml:"path"`
	URL              string                `yaml:"url"`
	Branch           string                `yaml:"branch,omitempty"`
	HeadCommitID     string                `yaml:"head"`
	IndexCommitID    string                `yaml:"index"`
	WorkdirCommitID  string                `yaml:"workdir"`
	FetchRecurseRule submodule.RecurseRule `yaml:"fetch_recurse"`
	IgnoreRule       submodule.IgnoreRule  `yaml:"ignore"`
	UpdateRule       submodule.UpdateRule  `yaml:"update"`
}

func newListCommand(resolver environmentResolver) *cobra.Command {
	command := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			environment, environmentError := resolver.resolve(command)
			if environmentError != nil {
				return environmentError
			}

			declared, enumerateError := environment.repository.Submodules(command.Context())
			if enumerateError != nil {
				return enumerateError
			}

			entries := make([]listEntry, 0, len(declared))
			for _, instance := range declared {
				entries = append(entries, listEntry{
					Name:             instance.Name(),
					Path:             instance.Path(),
					URL:              instance.URL(),
					Branch:           instance.Branch(),
					HeadCommitID:     shortCommitID(instance.HeadCommitID()),
					IndexCommitID:    shortCommitID(instance.IndexCommitID()),
					WorkdirCommitID:  shortCommitID(instance.WorkdirCommitID()),
					FetchRecurseRule: instance.FetchRecurseRule(),
					IgnoreRule:       instance.IgnoreRule(),
					UpdateRule:       instance.UpdateRule(),
				})
			}

			if environment.configuration.Output == OutputFormatYAML {
				return renderYAML(environment.output, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Name,
					entry.Path,
					displayURL(entry.URL),
					entry.HeadCommitID,
					entry.IndexCommitID,
					entry.WorkdirCommitID,
					entry.FetchRecurseRule.String(),
					entry.IgnoreRule.String(),
					entry.UpdateRule.String(),
				})
			}
			return renderTable(environment.output, listTableHeaders, rows)
		},
	}
	addOutputFlag(command)
	return command
}
