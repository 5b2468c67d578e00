package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "DefaultFalse", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "ImplicitTrue", arguments: []string{"--overwrite"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitYes", arguments: []string{"--overwrite", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitTrueUppercase", arguments: []string{"--overwrite", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNo", arguments: []string{"--overwrite", "no"}, expectedValue: false, expectedChanged: true},
		{name: "ExplicitFalseUppercase", arguments: []string{"--overwrite", "FALSE"}, expectedValue: false, expectedChanged: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var overwriteValue bool
			AddToggleFlag(command.Flags(), &overwriteValue, "overwrite", "", false, "Replace configured URLs")

			normalizedArguments := NormalizeToggleArguments(testCase.arguments)
			parseError := command.ParseFlags(normalizedArguments)
			require.NoError(t, parseError)

			require.Equal(t, testCase.expectedValue, overwriteValue)

			flag := command.Flags().Lookup("overwrite")
			require.NotNil(t, flag)
			require.Equal(t, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(t *testing.T) {
	command := &cobra.Command{}

	var overwriteValue bool
	AddToggleFlag(command.Flags(), &overwriteValue, "overwrite", "", false, "Replace configured URLs")

	normalizedArguments := NormalizeToggleArguments([]string{"--overwrite=maybe"})
	parseError := command.ParseFlags(normalizedArguments)
	require.Error(t, parseError)

	require.Equal(t, false, overwriteValue)

	flag := command.Flags().Lookup("overwrite")
	require.NotNil(t, flag)
	require.False(t, flag.Changed)
}

func TestNormalizeToggleArgumentsLeavesUnknownWordsPositional(t *testing.T) {
	command := &cobra.Command{Args: cobra.ArbitraryArgs}

	var overwriteValue bool
	AddToggleFlag(command.Flags(), &overwriteValue, "overwrite", "", false, "Replace configured URLs")

	normalizedArguments := NormalizeToggleArguments([]string{"--overwrite", "maybe"})
	require.Equal(t, []string{"--overwrite", "maybe"}, normalizedArguments)

	require.NoError(t, command.ParseFlags(normalizedArguments))
	require.True(t, overwriteValue)
	require.Equal(t, []string{"maybe"}, command.Flags().Args())
}

func TestNormalizeToggleArgumentsHandlesShorthand(t *testing.T) {
	command := &cobra.Command{}

	var overwriteValue bool
	AddToggleFlag(command.Flags(), &overwriteValue, "overwrite", "o", false, "Replace configured URLs")

	normalizedArguments := NormalizeToggleArguments([]string{"-o", "no"})
	parseError := command.ParseFlags(normalizedArguments)
	require.NoError(t, parseError)

	require.False(t, overwriteValue)

	flag := command.Flags().Lookup("overwrite")
	require.NotNil(t, flag)
	require.True(t, flag.Changed)
}

func TestNormalizeToggleArgumentsKeepsPositionalArguments(t *testing.T) {
	command := &cobra.Command{Args: cobra.ArbitraryArgs}

	var initializeValue bool
	AddToggleFlag(command.Flags(), &initializeValue, "initialize", "", false, "Initialize first")

	normalizedArguments := NormalizeToggleArguments([]string{"--initialize", "modules/library", "--initialize", "off"})
	require.Equal(t, []string{"--initialize", "modules/library", "--initialize=off"}, normalizedArguments)

	require.NoError(t, command.ParseFlags(normalizedArguments))
	require.False(t, initializeValue)
	require.Equal(t, []string{"modules/library"}, command.Flags().Args())
}
