package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitsub/cmd/cli/submodules"
	"github.com/temirov/gitsub/internal/submodule"
	"github.com/temirov/gitsub/internal/submodule/testsupport"
	"github.com/temirov/gitsub/internal/utils"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: error\n  log_format: console\ntools:\n  submodules:\n    output: yaml\n    inspector: cli\n    status_ignore: dirty\n    initialize: false\n"
	testStatusIgnoreEnvironmentName   = "GITSUB_TOOLS_SUBMODULES_STATUS_IGNORE"
)

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	content, configurationType := EmbeddedDefaultConfiguration()
	require.Equal(testInstance, configurationTypeConstant, configurationType)

	var document map[string]any
	require.NoError(testInstance, yaml.Unmarshal(content, &document))
	require.Contains(testInstance, document, toolsConfigurationKeyConstant)

	var configuration ApplicationConfiguration
	loader := utils.NewConfigurationLoader(configurationNameConstant, configurationTypeConstant, environmentPrefixConstant, []string{testInstance.TempDir()})
	loader.SetEmbeddedConfiguration(content, configurationType)
	_, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, string(utils.LogLevelInfo), configuration.Common.LogLevel)
	require.Equal(testInstance, string(utils.LogFormatStructured), configuration.Common.LogFormat)
	require.Equal(testInstance, submodules.DefaultCommandConfiguration(), configuration.Tools.Submodules)
}

func TestInitializeConfigurationAppliesSources(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationPath := filepath.Join(configurationDirectory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o600))

	testCases := []struct {
		name                 string
		arguments            []string
		environmentValue     string
		expectedLogLevel     string
		expectedLogFormat    string
		expectedStatusIgnore submodule.IgnoreRule
	}{
		{
			name:                 "configuration_file",
			arguments:            []string{"--config", configurationPath},
			expectedLogLevel:     "error",
			expectedLogFormat:    "console",
			expectedStatusIgnore: submodule.IgnoreDirty,
		},
		{
			name:                 "flags_override_file",
			arguments:            []string{"--config", configurationPath, "--log-level", "debug", "--log-format", "structured"},
			expectedLogLevel:     "debug",
			expectedLogFormat:    "structured",
			expectedStatusIgnore: submodule.IgnoreDirty,
		},
		{
			name:                 "environment_overrides_file",
			arguments:            []string{"--config", configurationPath},
			environmentValue:     "all",
			expectedLogLevel:     "error",
			expectedLogFormat:    "console",
			expectedStatusIgnore: submodule.IgnoreAll,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			if len(testCase.environmentValue) > 0 {
				testInstance.Setenv(testStatusIgnoreEnvironmentName, testCase.environmentValue)
			}

			application := NewApplication()
			rootCommand := application.rootCommand
			rootCommand.SetContext(context.Background())
			require.NoError(testInstance, rootCommand.ParseFlags(testCase.arguments))
			require.NoError(testInstance, application.initializeConfiguration(rootCommand))

			require.Equal(testInstance, testCase.expectedLogLevel, application.configuration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedLogFormat, application.configuration.Common.LogFormat)
			require.Equal(testInstance, testCase.expectedLogFormat == "console", application.humanReadableLoggingEnabled())

			submodulesConfiguration := application.configuration.Tools.Submodules
			require.Equal(testInstance, submodules.OutputFormatYAML, submodulesConfiguration.Output)
			require.Equal(testInstance, submodules.InspectorCLI, submodulesConfiguration.Inspector)
			require.Equal(testInstance, testCase.expectedStatusIgnore, submodulesConfiguration.StatusIgnore)
			require.False(testInstance, submodulesConfiguration.Initialize)

			configurationFilePath, available := application.commandContextAccessor.ConfigurationFilePath(rootCommand.Context())
			require.True(testInstance, available)
			require.Equal(testInstance, configurationPath, configurationFilePath)
		})
	}
}

func TestInitializeConfigurationRejectsUnknownLogLevel(testInstance *testing.T) {
	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())
	require.NoError(testInstance, rootCommand.ParseFlags([]string{"--log-level", "verbose"}))

	initializationError := application.initializeConfiguration(rootCommand)
	require.Error(testInstance, initializationError)
	require.Contains(testInstance, initializationError.Error(), "unable to create logger")
}

func TestApplicationRunDispatchesSubmodulesCommand(testInstance *testing.T) {
	scenario := testsupport.NewSubmoduleScenario(testInstance, "")

	application := NewApplication()
	var outputBuffer bytes.Buffer
	application.rootCommand.SetOut(&outputBuffer)
	application.rootCommand.SetErr(&outputBuffer)

	runError := application.Run([]string{
		"--log-level", "error",
		"sm", "update",
		"--repository", scenario.CheckoutPath,
		"--init", "yes",
	})
	require.NoError(testInstance, runError)
	require.Contains(testInstance, outputBuffer.String(), "updated "+testsupport.SubmoduleName)
	require.Equal(testInstance, scenario.LibraryHeadID, scenario.Fixture.HeadID(scenario.SubmodulePath(scenario.CheckoutPath)))
}

func TestApplicationRunWithoutArgumentsPrintsHelp(testInstance *testing.T) {
	application := NewApplication()
	var outputBuffer bytes.Buffer
	application.rootCommand.SetOut(&outputBuffer)
	application.rootCommand.SetErr(&outputBuffer)

	require.NoError(testInstance, application.Run(nil))
	require.Contains(testInstance, outputBuffer.String(), applicationLongDescriptionConstant)
	require.Contains(testInstance, outputBuffer.String(), "submodules")
}
