// Package testsupport builds throwaway superprojects with the git CLI for submodule tests.
package testsupport

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitsub/internal/execshell"
)

const (
	gitExecutableNameConstant            = "git"
	gitMissingSkipMessageConstant        = "git executable not available"
	fixtureAuthorNameConstant            = "Gitsub Fixture"
	fixtureAuthorEmailConstant           = "fixture@gitsub.invalid"
	fixtureFilePermissionsConstant       = 0o644
	fixtureDirectoryPermissionsConstant  = 0o755
	initialCommitMessageConstant         = "initial commit"
	submoduleCommitMessagePrefixConstant = "add submodule "
)

const (
	// LibraryDirectoryName names the repository used as submodule source.
	LibraryDirectoryName = "library"
	// SuperprojectDirectoryName names the repository that declares the submodule.
	SuperprojectDirectoryName = "superproject"
	// CheckoutDirectoryName names the clone of the superproject whose submodule is not yet cloned.
	CheckoutDirectoryName = "checkout"
	// SubmoduleName is the name and path of the submodule in scenarios.
	SubmoduleName = "modules/library"
	// LibraryFileName is the tracked file committed into the library.
	LibraryFileName = "README.md"
)

var fixtureGlobalOptions = []string{
	"-c", "init.defaultBranch=main",
	"-c", "protocol.file.allow=always",
	"-c", "commit.gpgsign=false",
	"-c", "user.name=" + fixtureAuthorNameConstant,
	"-c", "user.email=" + fixtureAuthorEmailConstant,
}

// GitFixture runs git inside a temporary root directory.
type GitFixture struct {
	testInstance  testing.TB
	executor      *execshell.ShellExecutor
	rootDirectory string
}

// NewGitFixture returns a fixture rooted in a fresh temporary directory. The test is skipped when git is missing.
func NewGitFixture(testInstance testing.TB) *GitFixture {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(gitExecutableNameConstant); lookupError != nil {
		testInstance.Skip(gitMissingSkipMessageConstant)
	}

	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)

	rootDirectory, resolveError := filepath.EvalSymlinks(testInstance.TempDir())
	require.NoError(testInstance, resolveError)

	return &GitFixture{testInstance: testInstance, executor: executor, rootDirectory: rootDirectory}
}

// Root returns the directory holding every repository the fixture creates.
func (fixture *GitFixture) Root() string {
	return fixture.rootDirectory
}

// Git runs git in workingDirectory and returns its trimmed standard output.
func (fixture *GitFixture) Git(workingDirectory string, arguments ...string) string {
	fixture.testInstance.Helper()
	result, executionError := fixture.executor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        append(append([]string{}, fixtureGlobalOptions...), arguments...),
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			"GIT_CONFIG_NOSYSTEM": "1",
			"GIT_CONFIG_GLOBAL":   os.DevNull,
			"GIT_AUTHOR_NAME":     fixtureAuthorNameConstant,
			"GIT_AUTHOR_EMAIL":    fixtureAuthorEmailConstant,
			"GIT_COMMITTER_NAME":  fixtureAuthorNameConstant,
			"GIT_COMMITTER_EMAIL": fixtureAuthorEmailConstant,
		},
	})
	require.NoError(fixture.testInstance, executionError)
	return strings.TrimSpace(result.StandardOutput)
}

// CreateRepository initializes a repository under the fixture root and commits files into it.
func (fixture *GitFixture) CreateRepository(name string, files map[string]string) string {
	fixture.testInstance.Helper()
	repositoryPath := filepath.Join(fixture.rootDirectory, name)
	require.NoError(fixture.testInstance, os.MkdirAll(repositoryPath, fixtureDirectoryPermissionsConstant))
	fixture.Git(repositoryPath, "init", "--quiet")
	for relativePath, content := range files {
		fixture.WriteFile(repositoryPath, relativePath, content)
	}
	fixture.Git(repositoryPath, "add", "--all")
	fixture.Git(repositoryPath, "commit", "--quiet", "--allow-empty", "-m", initialCommitMessageConstant)
	return repositoryPath
}

// WriteFile writes content to relativePath inside repositoryPath without staging it.
func (fixture *GitFixture) WriteFile(repositoryPath string, relativePath string, content string) {
	fixture.testInstance.Helper()
	filePath := filepath.Join(repositoryPath, filepath.FromSlash(relativePath))
	require.NoError(fixture.testInstance, os.MkdirAll(filepath.Dir(filePath), fixtureDirectoryPermissionsConstant))
	require.NoError(fixture.testInstance, os.WriteFile(filePath, []byte(content), fixtureFilePermissionsConstant))
}

// CommitFile writes, stages and commits a file, returning the new HEAD.
func (fixture *GitFixture) CommitFile(repositoryPath string, relativePath string, content string, message string) plumbing.Hash {
	fixture.testInstance.Helper()
	fixture.WriteFile(repositoryPath, relativePath, content)
	fixture.Git(repositoryPath, "add", relativePath)
	fixture.Git(repositoryPath, "commit", "--quiet", "-m", message)
	return fixture.HeadID(repositoryPath)
}

// AddSubmodule registers sourceURL at submodulePath in the superproject and commits the result.
func (fixture *GitFixture) AddSubmodule(superprojectPath string, sourceURL string, submodulePath string) {
	fixture.testInstance.Helper()
	fixture.Git(superprojectPath, "submodule", "--quiet", "add", sourceURL, submodulePath)
	fixture.Git(superprojectPath, "commit", "--quiet", "-m", submoduleCommitMessagePrefixConstant+submodulePath)
}

// CloneRepository clones sourcePath under the fixture root without recursing into submodules.
func (fixture *GitFixture) CloneRepository(sourcePath string, name string) string {
	fixture.testInstance.Helper()
	clonePath := filepath.Join(fixture.rootDirectory, name)
	fixture.Git(fixture.rootDirectory, "clone", "--quiet", sourcePath, clonePath)
	return clonePath
}

// HeadID returns the commit HEAD of repositoryPath points to.
func (fixture *GitFixture) HeadID(repositoryPath string) plumbing.Hash {
	fixture.testInstance.Helper()
	return plumbing.NewHash(fixture.Git(repositoryPath, "rev-parse", "HEAD"))
}

// SubmoduleScenario describes a superproject with one submodule and a fresh clone of it.
type SubmoduleScenario struct {
	Fixture          *GitFixture
	LibraryPath      string
	SuperprojectPath string
	CheckoutPath     string
	LibraryHeadID    plumbing.Hash
}

// NewSubmoduleScenario builds library and superproject as siblings, registers library at SubmoduleName
// through submoduleURL and clones the superproject into CheckoutDirectoryName.
// An empty submoduleURL registers the absolute library path.
func NewSubmoduleScenario(testInstance testing.TB, submoduleURL string) SubmoduleScenario {
	testInstance.Helper()
	fixture := NewGitFixture(testInstance)

	libraryPath := fixture.CreateRepository(LibraryDirectoryName, map[string]string{LibraryFileName: "library\n"})
	superprojectPath := fixture.CreateRepository(SuperprojectDirectoryName, map[string]string{"main.txt": "superproject\n"})
	if len(submoduleURL) == 0 {
		submoduleURL = libraryPath
	}
	fixture.AddSubmodule(superprojectPath, submoduleURL, SubmoduleName)
	checkoutPath := fixture.CloneRepository(superprojectPath, CheckoutDirectoryName)

	return SubmoduleScenario{
		Fixture:          fixture,
		LibraryPath:      libraryPath,
		SuperprojectPath: superprojectPath,
		CheckoutPath:     checkoutPath,
		LibraryHeadID:    fixture.HeadID(libraryPath),
	}
}

// SubmodulePath returns the absolute submodule path inside repositoryPath.
func (scenario SubmoduleScenario) SubmodulePath(repositoryPath string) string {
	return filepath.Join(repositoryPath, filepath.FromSlash(SubmoduleName))
}
