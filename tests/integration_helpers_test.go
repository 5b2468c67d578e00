package tests

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// runIntegrationCommand runs the go tool in repositoryRoot and fails the test when it exits with an error.
func runIntegrationCommand(testInstance *testing.T, repositoryRoot string, timeout time.Duration, arguments []string) string {
	testInstance.Helper()
	executionContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	command := exec.CommandContext(executionContext, "go", arguments...)
	command.Dir = repositoryRoot
	command.Env = os.Environ()

	outputBytes, runError := command.CombinedOutput()
	outputText := string(outputBytes)
	if runError != nil {
		testInstance.Fatalf("command failed: %v\n%s", runError, outputText)
	}
	return outputText
}

// filterStructuredOutput drops blank lines and JSON log records, keeping command output.
func filterStructuredOutput(rawOutput string) string {
	var filtered []string
	for _, line := range strings.Split(rawOutput, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "{") {
			continue
		}
		filtered = append(filtered, line)
	}
	if len(filtered) == 0 {
		return ""
	}
	return strings.Join(filtered, "\n") + "\n"
}

func containsText(text string, fragment string) bool {
	return strings.Contains(text, fragment)
}
