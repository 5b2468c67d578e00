package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
	gitConfigurationOptionFlagConstant      = "-c"
	gitMessageFlagConstant                  = "-m"
)

const (
	gitRevParseSubcommandNameConstant  = "rev-parse"
	gitStatusSubcommandNameConstant    = "status"
	gitSubmoduleSubcommandNameConstant = "submodule"
	gitCloneSubcommandNameConstant     = "clone"
	gitInitSubcommandNameConstant      = "init"
	gitAddSubcommandNameConstant       = "add"
	gitCommitSubcommandNameConstant    = "commit"
	gitConfigSubcommandNameConstant    = "config"
	gitSubmoduleAddActionConstant      = "add"
	gitSubmoduleInitActionConstant     = "init"
	gitSubmoduleUpdateActionConstant   = "update"
	gitSubmoduleAllLabelConstant       = "all submodules"
	gitWorkingTreeLabelConstant        = "working tree"
)

// messageTemplates holds the four lifecycle templates of one git action.
// Start and success take the subject, failure adds exit code and stderr, execution failure adds the cause.
type messageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	gitRevisionTemplates = messageTemplates{
		start:            "Resolving %s in %s",
		success:          "Resolved %s in %s",
		failure:          "Failed to resolve %s in %s (exit code %d%s)",
		executionFailure: "Unable to resolve %s in %s: %s",
	}
	gitStatusTemplates = messageTemplates{
		start:            "Reviewing %s status in %s",
		success:          "Collected %s status in %s",
		failure:          "Failed to review %s status in %s (exit code %d%s)",
		executionFailure: "Unable to review %s status in %s: %s",
	}
	gitSubmoduleAddTemplates = messageTemplates{
		start:            "Adding submodule %s in %s",
		success:          "Added submodule %s in %s",
		failure:          "Failed to add submodule %s in %s (exit code %d%s)",
		executionFailure: "Unable to add submodule %s in %s: %s",
	}
	gitSubmoduleInitTemplates = messageTemplates{
		start:            "Initializing %s in %s",
		success:          "Initialized %s in %s",
		failure:          "Failed to initialize %s in %s (exit code %d%s)",
		executionFailure: "Unable to initialize %s in %s: %s",
	}
	gitSubmoduleUpdateTemplates = messageTemplates{
		start:            "Updating %s in %s",
		success:          "Updated %s in %s",
		failure:          "Failed to update %s in %s (exit code %d%s)",
		executionFailure: "Unable to update %s in %s: %s",
	}
	gitCloneTemplates = messageTemplates{
		start:            "Cloning %s from %s",
		success:          "Cloned %s from %s",
		failure:          "Failed to clone %s from %s (exit code %d%s)",
		executionFailure: "Unable to clone %s from %s: %s",
	}
	gitInitTemplates = messageTemplates{
		start:            "Creating repository %s in %s",
		success:          "Created repository %s in %s",
		failure:          "Failed to create repository %s in %s (exit code %d%s)",
		executionFailure: "Unable to create repository %s in %s: %s",
	}
	gitAddTemplates = messageTemplates{
		start:            "Staging %s in %s",
		success:          "Staged %s in %s",
		failure:          "Failed to stage %s in %s (exit code %d%s)",
		executionFailure: "Unable to stage %s in %s: %s",
	}
	gitCommitTemplates = messageTemplates{
		start:            "Creating commit %q in %s",
		success:          "Created commit %q in %s",
		failure:          "Failed to create commit %q in %s (exit code %d%s)",
		executionFailure: "Unable to create commit %q in %s: %s",
	}
	gitConfigTemplates = messageTemplates{
		start:            "Setting %s in %s",
		success:          "Set %s in %s",
		failure:          "Failed to set %s in %s (exit code %d%s)",
		executionFailure: "Unable to set %s in %s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := stripGlobalOptions(command.Details.Arguments)
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	subcommandArguments := arguments[1:]
	switch strings.TrimSpace(arguments[0]) {
	case gitRevParseSubcommandNameConstant:
		return formatter.render(gitRevisionTemplates, formatter.lastNonFlagArgument(subcommandArguments), workingDirectory, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		return formatter.render(gitStatusTemplates, gitWorkingTreeLabelConstant, workingDirectory, result, failure, stage)
	case gitSubmoduleSubcommandNameConstant:
		return formatter.describeGitSubmoduleMessage(command, subcommandArguments, workingDirectory, result, failure, stage)
	case gitCloneSubcommandNameConstant:
		return formatter.render(gitCloneTemplates, formatter.lastNonFlagArgument(subcommandArguments), formatter.firstNonFlagArgument(subcommandArguments), result, failure, stage)
	case gitInitSubcommandNameConstant:
		return formatter.render(gitInitTemplates, formatter.lastNonFlagArgument(subcommandArguments), workingDirectory, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.render(gitAddTemplates, formatter.joinNonFlagArguments(subcommandArguments), workingDirectory, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.render(gitCommitTemplates, formatter.flagValue(subcommandArguments, gitMessageFlagConstant), workingDirectory, result, failure, stage)
	case gitConfigSubcommandNameConstant:
		return formatter.render(gitConfigTemplates, formatter.firstNonFlagArgument(subcommandArguments), workingDirectory, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitSubmoduleMessage(command ShellCommand, arguments []string, workingDirectory string, result ExecutionResult, failure error, stage messageStage) string {
	action := formatter.firstNonFlagArgument(arguments)
	actionArguments := arguments
	if index := indexOfArgument(arguments, action); index >= 0 {
		actionArguments = arguments[index+1:]
	}

	switch action {
	case gitSubmoduleAddActionConstant:
		return formatter.render(gitSubmoduleAddTemplates, formatter.lastNonFlagArgument(actionArguments), workingDirectory, result, failure, stage)
	case gitSubmoduleInitActionConstant:
		return formatter.render(gitSubmoduleInitTemplates, formatter.describeSubmoduleTargets(actionArguments), workingDirectory, result, failure, stage)
	case gitSubmoduleUpdateActionConstant:
		return formatter.render(gitSubmoduleUpdateTemplates, formatter.describeSubmoduleTargets(actionArguments), workingDirectory, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) render(templates messageTemplates, subject string, location string, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, location)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, location)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, location, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, location, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := describeCommand(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) describeSubmoduleTargets(arguments []string) string {
	targets := formatter.joinNonFlagArguments(arguments)
	if targets == fallbackUnknownValueLabelConstant {
		return gitSubmoduleAllLabelConstant
	}
	return targets
}

func (formatter CommandMessageFormatter) firstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		return trimmed
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		return trimmed
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) joinNonFlagArguments(arguments []string) string {
	var values []string
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		values = append(values, trimmed)
	}
	if len(values) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return strings.Join(values, ", ")
}

func (formatter CommandMessageFormatter) flagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments)-1; index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

// stripGlobalOptions drops leading "-c key=value" pairs so the subcommand comes first.
func stripGlobalOptions(arguments []string) []string {
	remaining := arguments
	for len(remaining) >= 2 && strings.TrimSpace(remaining[0]) == gitConfigurationOptionFlagConstant {
		remaining = remaining[2:]
	}
	return remaining
}

func indexOfArgument(arguments []string, value string) int {
	for index, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return index
		}
	}
	return -1
}
