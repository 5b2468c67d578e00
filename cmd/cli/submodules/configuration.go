package submodules

import (
	"strings"

	"github.com/temirov/gitsub/internal/submodule"
)

const (
	configurationRepositoryKeyConstant   = "repository"
	configurationOutputKeyConstant       = "output"
	configurationInspectorKeyConstant    = "inspector"
	configurationStatusIgnoreKeyConstant = "status_ignore"
	configurationOverwriteKeyConstant    = "overwrite"
	configurationInitializeKeyConstant   = "initialize"
	configurationKeySeparatorConstant    = "."
	defaultRepositoryPathConstant        = "."
)

const (
	// OutputFormatTable renders results as a bordered table.
	OutputFormatTable = "table"
	// OutputFormatYAML renders results as a YAML document.
	OutputFormatYAML = "yaml"
	// InspectorGoGit reads submodule working directories with go-git.
	InspectorGoGit = "gogit"
	// InspectorCLI reads submodule working directories by running git.
	InspectorCLI = "cli"
)

// CommandConfiguration describes the tools.submodules configuration section.
type CommandConfiguration struct {
	RepositoryPath string               `mapstructure:"repository"`
	Output         string               `mapstructure:"output"`
	Inspector      string               `mapstructure:"inspector"`
	StatusIgnore   submodule.IgnoreRule `mapstructure:"status_ignore"`
	Overwrite      bool                 `mapstructure:"overwrite"`
	Initialize     bool                 `mapstructure:"initialize"`
}

// DefaultCommandConfiguration returns baseline values for the submodules commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryPath: defaultRepositoryPathConstant,
		Output:         OutputFormatTable,
		Inspector:      InspectorGoGit,
		StatusIgnore:   submodule.IgnoreUnspecified,
		Overwrite:      false,
		Initialize:     true,
	}
}

// DefaultConfigurationValues produces Viper defaults rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationRepositoryKeyConstant:   defaults.RepositoryPath,
		prefix + configurationOutputKeyConstant:       defaults.Output,
		prefix + configurationInspectorKeyConstant:    defaults.Inspector,
		prefix + configurationStatusIgnoreKeyConstant: defaults.StatusIgnore.String(),
		prefix + configurationOverwriteKeyConstant:    defaults.Overwrite,
		prefix + configurationInitializeKeyConstant:   defaults.Initialize,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.RepositoryPath = strings.TrimSpace(configuration.RepositoryPath)
	if len(sanitized.RepositoryPath) == 0 {
		sanitized.RepositoryPath = defaults.RepositoryPath
	}
	sanitized.Output = strings.ToLower(strings.TrimSpace(configuration.Output))
	if len(sanitized.Output) == 0 {
		sanitized.Output = defaults.Output
	}
	sanitized.Inspector = strings.ToLower(strings.TrimSpace(configuration.Inspector))
	if len(sanitized.Inspector) == 0 {
		sanitized.Inspector = defaults.Inspector
	}
	return sanitized
}
