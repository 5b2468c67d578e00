package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentSeparatorConstant = "="
	gitTerminalPromptVariableConstant      = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant      = "0"
	localeVariableConstant                 = "LC_ALL"
	localeNeutralConstant                  = "C"
)

// gitEnvironmentDefaults run git without terminal prompts and with untranslated messages.
var gitEnvironmentDefaults = map[string]string{
	gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant,
	localeVariableConstant:            localeNeutralConstant,
}

// OSCommandRunner executes commands using os/exec.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes command and reports non-zero exits through ExecutionResult.ExitCode.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	executable.Dir = command.Details.WorkingDirectory
	executable.Env = buildEnvironment(command)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer
	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	result := ExecutionResult{}
	runError := executable.Run()
	if runError != nil {
		var exitError *exec.ExitError
		if !errors.As(runError, &exitError) {
			return ExecutionResult{}, runError
		}
		result.ExitCode = exitError.ExitCode()
	}
	result.StandardOutput = standardOutputBuffer.String()
	result.StandardError = standardErrorBuffer.String()
	return result, nil
}

// buildEnvironment layers git defaults and the command's variables over the process environment.
// Later entries win, so explicit variables override the defaults.
func buildEnvironment(command ShellCommand) []string {
	overrides := make(map[string]string, len(gitEnvironmentDefaults)+len(command.Details.EnvironmentVariables))
	if command.Name == CommandGit {
		for variableName, variableValue := range gitEnvironmentDefaults {
			overrides[variableName] = variableValue
		}
	}
	for variableName, variableValue := range command.Details.EnvironmentVariables {
		overrides[variableName] = variableValue
	}
	if len(overrides) == 0 {
		return nil
	}

	variableNames := make([]string, 0, len(overrides))
	for variableName := range overrides {
		variableNames = append(variableNames, variableName)
	}
	sort.Strings(variableNames)

	environment := append([]string{}, os.Environ()...)
	for _, variableName := range variableNames {
		environment = append(environment, variableName+environmentAssignmentSeparatorConstant+overrides[variableName])
	}
	return environment
}
