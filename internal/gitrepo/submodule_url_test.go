package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitsub/internal/gitrepo"
)

const (
	testHTTPSBaseConstant         = "https://github.com/example/superproject.git"
	testSCPBaseConstant           = "git@github.com:example/superproject.git"
	testSSHSchemeBaseConstant     = "ssh://git@example.com/srv/git/superproject.git"
	testLocalBaseConstant         = "/srv/git/superproject"
	testSiblingURLConstant        = "../library.git"
	testNestedURLConstant         = "./modules/library"
	testAbsoluteURLConstant       = "https://example.com/library.git"
	testEscapingURLConstant       = "../../../../library.git"
	testHostOnlyBaseConstant      = "https://example.com"
	testTrailingSlashBaseConstant = "/srv/git/superproject/"
)

func TestResolveSubmoduleURL(testInstance *testing.T) {
	testCases := []struct {
		name          string
		baseURL       string
		submoduleURL  string
		expectedURL   string
		expectedError bool
	}{
		{name: "https_sibling", baseURL: testHTTPSBaseConstant, submoduleURL: testSiblingURLConstant, expectedURL: "https://github.com/example/library.git"},
		{name: "scp_sibling", baseURL: testSCPBaseConstant, submoduleURL: testSiblingURLConstant, expectedURL: "git@github.com:example/library.git"},
		{name: "ssh_scheme_sibling", baseURL: testSSHSchemeBaseConstant, submoduleURL: testSiblingURLConstant, expectedURL: "ssh://git@example.com/srv/git/library.git"},
		{name: "local_sibling", baseURL: testLocalBaseConstant, submoduleURL: testSiblingURLConstant, expectedURL: "/srv/git/library.git"},
		{name: "local_trailing_slash", baseURL: testTrailingSlashBaseConstant, submoduleURL: testSiblingURLConstant, expectedURL: "/srv/git/library.git"},
		{name: "nested", baseURL: testHTTPSBaseConstant, submoduleURL: testNestedURLConstant, expectedURL: "https://github.com/example/superproject.git/modules/library"},
		{name: "host_only_nested", baseURL: testHostOnlyBaseConstant, submoduleURL: testNestedURLConstant, expectedURL: "https://example.com/modules/library"},
		{name: "absolute_unchanged", baseURL: testHTTPSBaseConstant, submoduleURL: testAbsoluteURLConstant, expectedURL: testAbsoluteURLConstant},
		{name: "escaping_base", baseURL: testHTTPSBaseConstant, submoduleURL: testEscapingURLConstant, expectedError: true},
		{name: "missing_base", baseURL: "", submoduleURL: testSiblingURLConstant, expectedError: true},
		{name: "missing_url", baseURL: testHTTPSBaseConstant, submoduleURL: " ", expectedError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedURL, resolveError := gitrepo.ResolveSubmoduleURL(testCase.baseURL, testCase.submoduleURL)
			if testCase.expectedError {
				require.Error(testInstance, resolveError)
				var parseError gitrepo.RemoteURLParseError
				require.ErrorAs(testInstance, resolveError, &parseError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedURL, resolvedURL)
		})
	}
}

func TestIsRelativeSubmoduleURL(testInstance *testing.T) {
	require.True(testInstance, gitrepo.IsRelativeSubmoduleURL(testSiblingURLConstant))
	require.True(testInstance, gitrepo.IsRelativeSubmoduleURL(testNestedURLConstant))
	require.True(testInstance, gitrepo.IsRelativeSubmoduleURL(".."))
	require.False(testInstance, gitrepo.IsRelativeSubmoduleURL(testAbsoluteURLConstant))
	require.False(testInstance, gitrepo.IsRelativeSubmoduleURL(testLocalBaseConstant))
	require.False(testInstance, gitrepo.IsRelativeSubmoduleURL(testSCPBaseConstant))
}
