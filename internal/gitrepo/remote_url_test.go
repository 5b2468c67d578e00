package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitsub/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name             string
		remote           string
		expectedRemote   gitrepo.RemoteURL
		expectedDisplay  string
		expectParseError bool
	}{
		{
			name:            "scp_like",
			remote:          testSCPBaseConstant,
			expectedRemote:  gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "example", Repository: "superproject"},
			expectedDisplay: "example/superproject",
		},
		{
			name:            "ssh_scheme",
			remote:          "ssh://git@github.com/example/library.git",
			expectedRemote:  gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "example", Repository: "library"},
			expectedDisplay: "example/library",
		},
		{
			name:            "https",
			remote:          testHTTPSBaseConstant,
			expectedRemote:  gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "github.com", Owner: "example", Repository: "superproject"},
			expectedDisplay: "example/superproject",
		},
		{
			name:            "ssh_scheme_with_port",
			remote:          "ssh://git@git.example.org:2222/platform/tools/library.git",
			expectedRemote:  gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "git.example.org", Owner: "platform/tools", Repository: "library"},
			expectedDisplay: "platform/tools/library",
		},
		{
			name:            "scp_like_without_user",
			remote:          "gitlab.example.org:group/library",
			expectedRemote:  gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "gitlab.example.org", Owner: "group", Repository: "library"},
			expectedDisplay: "group/library",
		},
		{
			name:            "git_protocol",
			remote:          "git://git.example.org/example/library.git",
			expectedRemote:  gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolGit, Host: "git.example.org", Owner: "example", Repository: "library"},
			expectedDisplay: "example/library",
		},
		{
			name:            "http_with_trailing_slash",
			remote:          "http://git.example.org/example/library/",
			expectedRemote:  gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTP, Host: "git.example.org", Owner: "example", Repository: "library"},
			expectedDisplay: "example/library",
		},
		{name: "local_path", remote: testLocalBaseConstant, expectParseError: true},
		{name: "relative_path", remote: "../library", expectParseError: true},
		{name: "file_scheme", remote: "file:///srv/git/library.git", expectParseError: true},
		{name: "missing_owner", remote: "https://github.com/library.git", expectParseError: true},
		{name: "empty", remote: "  ", expectParseError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			remote, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectParseError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedRemote, remote)
			require.Equal(testInstance, testCase.expectedDisplay, remote.DisplayName())
		})
	}
}
