package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandContextAccessorConfigurationFilePath(testInstance *testing.T) {
	accessor := NewCommandContextAccessor()

	testCases := []struct {
		name             string
		executionContext context.Context
		expectedPath     string
		expectedRecorded bool
	}{
		{name: "nothing_recorded", executionContext: context.Background()},
		{name: "nil_context", executionContext: nil},
		{
			name:             "recorded_file",
			executionContext: accessor.WithConfigurationFilePath(context.Background(), "/etc/gitsub/config.yaml"),
			expectedPath:     "/etc/gitsub/config.yaml",
			expectedRecorded: true,
		},
		{
			name:             "defaults_only",
			executionContext: accessor.WithConfigurationFilePath(nil, ""),
			expectedRecorded: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationFilePath, recorded := accessor.ConfigurationFilePath(testCase.executionContext)
			require.Equal(testInstance, testCase.expectedPath, configurationFilePath)
			require.Equal(testInstance, testCase.expectedRecorded, recorded)
		})
	}
}
