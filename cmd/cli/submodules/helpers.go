package submodules

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitsub/internal/execshell"
	"github.com/temirov/gitsub/internal/gitrepo"
	"github.com/temirov/gitsub/internal/submodule"
	"github.com/temirov/gitsub/internal/ui"
	"github.com/temirov/gitsub/internal/utils"
	flagutils "github.com/temirov/gitsub/internal/utils/flags"
	pathutils "github.com/temirov/gitsub/internal/utils/path"
)

const (
	repositoryFlagNameConstant           = "repository"
	repositoryFlagUsageConstant          = "Path inside the superproject repository"
	outputFlagNameConstant               = "output"
	outputFlagUsageConstant              = "Output format"
	inspectorFlagNameConstant            = "inspector"
	inspectorFlagUsageConstant           = "Working directory inspector"
	shortCommitLengthConstant            = 7
	missingCommitPlaceholderConstant     = "-"
	yamlIndentConstant                   = 2
	tableBorderColorConstant             = "240"
	outputChoiceKindConstant             = "output format"
	inspectorChoiceKindConstant          = "inspector"
	unsupportedInspectorTemplateConstant = "unsupported inspector %q"
	repositoryOpenErrorTemplateConstant  = "unable to open repository %s: %w"
	outputWriteErrorTemplateConstant     = "unable to write output: %w"
	environmentResolvedMessageConstant   = "submodules command environment resolved"
	logFieldRepositoryConstant           = "repository"
	logFieldInspectorConstant            = "inspector"
	logFieldOutputConstant               = "output"
	logFieldConfigurationFileConstant    = "config_file"
)

var (
	repositoryHomeDirectoryExpander = pathutils.NewHomeExpander()
	commandContextAccessor          = utils.NewCommandContextAccessor()
)

var (
	outputChoices    = []string{OutputFormatTable, OutputFormatYAML}
	inspectorChoices = []string{InspectorGoGit, InspectorCLI}
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider yields the tools.submodules configuration section.
type ConfigurationProvider func() CommandConfiguration

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// commandEnvironment carries the resolved collaborators of one command invocation.
type commandEnvironment struct {
	logger        *zap.Logger
	configuration CommandConfiguration
	repository    *submodule.Repository
	output        io.Writer
}

// environmentResolver assembles a commandEnvironment from builder providers and command flags.
type environmentResolver struct {
	loggerProvider               LoggerProvider
	humanReadableLoggingProvider func() bool
	configurationProvider        ConfigurationProvider
}

func (resolver environmentResolver) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if resolver.configurationProvider != nil {
		configuration = resolver.configurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(repositoryFlagNameConstant) {
		configuration.RepositoryPath, _ = flagSet.GetString(repositoryFlagNameConstant)
	}
	if flagSet.Changed(inspectorFlagNameConstant) {
		configuration.Inspector, _ = flagSet.GetString(inspectorFlagNameConstant)
	}
	if flagSet.Lookup(outputFlagNameConstant) != nil && flagSet.Changed(outputFlagNameConstant) {
		configuration.Output, _ = flagSet.GetString(outputFlagNameConstant)
	}
	return configuration.sanitize()
}

func (resolver environmentResolver) resolve(command *cobra.Command) (commandEnvironment, error) {
	logger := resolveLogger(resolver.loggerProvider)
	configuration := resolver.resolveConfiguration(command)

	output, outputError := flagutils.NormalizeChoice(outputChoiceKindConstant, configuration.Output, outputChoices)
	if outputError != nil {
		return commandEnvironment{}, outputError
	}
	configuration.Output = output

	inspectorName, inspectorNameError := flagutils.NormalizeChoice(inspectorChoiceKindConstant, configuration.Inspector, inspectorChoices)
	if inspectorNameError != nil {
		return commandEnvironment{}, inspectorNameError
	}

	inspector, inspectorError := resolver.buildInspector(logger, inspectorName)
	if inspectorError != nil {
		return commandEnvironment{}, inspectorError
	}

	repositoryPath, resolveError := repositoryHomeDirectoryExpander.Resolve(configuration.RepositoryPath)
	if resolveError != nil {
		return commandEnvironment{}, resolveError
	}
	repository, openError := submodule.OpenRepository(
		repositoryPath,
		submodule.WithLogger(logger),
		submodule.WithWorkdirInspector(inspector),
	)
	if openError != nil {
		return commandEnvironment{}, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	configurationFilePath, _ := commandContextAccessor.ConfigurationFilePath(command.Context())
	logger.Debug(
		environmentResolvedMessageConstant,
		zap.String(logFieldRepositoryConstant, repository.Path()),
		zap.String(logFieldInspectorConstant, inspectorName),
		zap.String(logFieldOutputConstant, configuration.Output),
		zap.String(logFieldConfigurationFileConstant, configurationFilePath),
	)

	return commandEnvironment{
		logger:        logger,
		configuration: configuration,
		repository:    repository,
		output:        utils.NewFlushingWriter(command.OutOrStdout()),
	}, nil
}

func (resolver environmentResolver) buildInspector(logger *zap.Logger, inspectorName string) (submodule.WorkdirInspector, error) {
	switch inspectorName {
	case InspectorGoGit:
		return submodule.NewGoGitWorkdirInspector(), nil
	case InspectorCLI:
		var executorOptions []execshell.ShellExecutorOption
		if resolver.humanReadableLoggingProvider != nil && resolver.humanReadableLoggingProvider() {
			executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
		}
		executor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), executorOptions...)
		if executorError != nil {
			return nil, executorError
		}
		commandInspector, inspectorError := submodule.NewCommandWorkdirInspector(executor)
		if inspectorError != nil {
			return nil, inspectorError
		}
		return commandInspector, nil
	default:
		return nil, fmt.Errorf(unsupportedInspectorTemplateConstant, inspectorName)
	}
}

// selectSubmodules returns the named submodules, or every declared submodule when names is empty.
func selectSubmodules(executionContext context.Context, repository *submodule.Repository, names []string) ([]*submodule.Submodule, error) {
	if len(names) == 0 {
		return repository.Submodules(executionContext)
	}
	selected := make([]*submodule.Submodule, 0, len(names))
	for _, name := range names {
		instance, lookupError := repository.Submodule(executionContext, name)
		if lookupError != nil {
			return nil, lookupError
		}
		selected = append(selected, instance)
	}
	return selected, nil
}

func shortCommitID(commitID plumbing.Hash) string {
	if commitID.IsZero() {
		return missingCommitPlaceholderConstant
	}
	return commitID.String()[:shortCommitLengthConstant]
}

// displayURL shortens hosted remotes to owner/repository and keeps other URLs as written.
func displayURL(submoduleURL string) string {
	remote, parseError := gitrepo.ParseRemoteURL(submoduleURL)
	if parseError != nil {
		return submoduleURL
	}
	return remote.DisplayName()
}

func renderTable(writer io.Writer, headers []string, rows [][]string) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	rendered := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColorConstant))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row int, column int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if _, writeError := fmt.Fprintln(writer, rendered.String()); writeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, writeError)
	}
	return nil
}

func renderYAML(writer io.Writer, document any) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, closeError)
	}
	return nil
}

func writeLine(writer io.Writer, format string, arguments ...any) error {
	if _, writeError := fmt.Fprintf(writer, format+"\n", arguments...); writeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, writeError)
	}
	return nil
}

// isUninitializedFailure reports failures that mean a submodule has not been set up yet.
func isUninitializedFailure(failure error) bool {
	return errors.Is(failure, submodule.ErrNotInitialized) || errors.Is(failure, submodule.ErrWorkdirUninitialized)
}
