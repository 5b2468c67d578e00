package submodule

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/temirov/gitsub/internal/execshell"
)

const (
	gitMetadataEntryNameConstant          = ".git"
	gitRevParseSubcommandConstant         = "rev-parse"
	gitVerifyFlagConstant                 = "--verify"
	gitQuietFlagConstant                  = "--quiet"
	gitHeadReferenceConstant              = "HEAD"
	gitStatusSubcommandConstant           = "status"
	gitPorcelainFlagConstant              = "--porcelain"
	gitUntrackedFilesFlagConstant         = "--untracked-files=normal"
	porcelainUntrackedMarkerConstant      = "??"
	porcelainMinimumLineLengthConstant    = 2
	porcelainUnmodifiedCodeConstant       = ' '
	workdirOpenErrorTemplateConstant      = "failed to open submodule repository at %s: %w"
	workdirHeadErrorTemplateConstant      = "failed to resolve submodule HEAD at %s: %w"
	workdirStatusErrorTemplateConstant    = "failed to read submodule status at %s: %w"
	workdirHeadParseErrorTemplateConstant = "unexpected HEAD output %q at %s"
	gitExecutorMissingMessageConstant     = "git executor not configured"
)

// ErrGitExecutorNotConfigured indicates the command inspector received no executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// WorkdirInspection describes the repository checked out at a submodule path.
type WorkdirInspection struct {
	Present   bool
	HeadID    plumbing.Hash
	Staged    bool
	Unstaged  bool
	Untracked bool
}

// WorkdirInspector reports the state of a submodule working directory.
// When examineChanges is false only Present and HeadID are populated.
type WorkdirInspector interface {
	InspectWorkdir(executionContext context.Context, workdirPath string, examineChanges bool) (WorkdirInspection, error)
}

// GitExecutor runs git commands on behalf of the command inspector.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GoGitWorkdirInspector inspects submodule working directories with go-git.
type GoGitWorkdirInspector struct{}

// NewGoGitWorkdirInspector constructs the default inspector.
func NewGoGitWorkdirInspector() *GoGitWorkdirInspector {
	return &GoGitWorkdirInspector{}
}

// InspectWorkdir opens the repository at workdirPath and reads its HEAD and worktree status.
func (inspector *GoGitWorkdirInspector) InspectWorkdir(executionContext context.Context, workdirPath string, examineChanges bool) (WorkdirInspection, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return WorkdirInspection{}, contextError
	}

	gitRepository, openError := git.PlainOpen(workdirPath)
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return WorkdirInspection{}, nil
		}
		return WorkdirInspection{}, fmt.Errorf(workdirOpenErrorTemplateConstant, workdirPath, openError)
	}

	inspection := WorkdirInspection{Present: true}
	headReference, headError := gitRepository.Head()
	switch {
	case headError == nil:
		inspection.HeadID = headReference.Hash()
	case errors.Is(headError, plumbing.ErrReferenceNotFound):
	default:
		return WorkdirInspection{}, fmt.Errorf(workdirHeadErrorTemplateConstant, workdirPath, headError)
	}

	if !examineChanges {
		return inspection, nil
	}

	worktree, worktreeError := gitRepository.Worktree()
	if worktreeError != nil {
		return WorkdirInspection{}, fmt.Errorf(workdirStatusErrorTemplateConstant, workdirPath, worktreeError)
	}
	worktreeStatus, statusError := worktree.Status()
	if statusError != nil {
		return WorkdirInspection{}, fmt.Errorf(workdirStatusErrorTemplateConstant, workdirPath, statusError)
	}

	for _, fileStatus := range worktreeStatus {
		if fileStatus.Staging == git.Untracked && fileStatus.Worktree == git.Untracked {
			inspection.Untracked = true
			continue
		}
		if fileStatus.Staging != git.Unmodified {
			inspection.Staged = true
		}
		if fileStatus.Worktree != git.Unmodified && fileStatus.Worktree != git.Untracked {
			inspection.Unstaged = true
		}
	}

	return inspection, nil
}

// CommandWorkdirInspector inspects submodule working directories by running the git CLI.
type CommandWorkdirInspector struct {
	executor GitExecutor
}

// NewCommandWorkdirInspector constructs an inspector backed by the provided git executor.
func NewCommandWorkdirInspector(executor GitExecutor) (*CommandWorkdirInspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &CommandWorkdirInspector{executor: executor}, nil
}

// InspectWorkdir runs git rev-parse and git status --porcelain inside workdirPath.
func (inspector *CommandWorkdirInspector) InspectWorkdir(executionContext context.Context, workdirPath string, examineChanges bool) (WorkdirInspection, error) {
	if _, statError := os.Stat(filepath.Join(workdirPath, gitMetadataEntryNameConstant)); statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return WorkdirInspection{}, nil
		}
		return WorkdirInspection{}, fmt.Errorf(workdirOpenErrorTemplateConstant, workdirPath, statError)
	}

	inspection := WorkdirInspection{Present: true}
	var commandFailure execshell.CommandFailedError
	headResult, headError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: workdirPath,
	})
	switch {
	case headError == nil:
		headText := strings.TrimSpace(headResult.StandardOutput)
		if !plumbing.IsHash(headText) {
			return WorkdirInspection{}, fmt.Errorf(workdirHeadParseErrorTemplateConstant, headText, workdirPath)
		}
		inspection.HeadID = plumbing.NewHash(headText)
	case errors.As(headError, &commandFailure):
		// unborn HEAD
	default:
		return WorkdirInspection{}, fmt.Errorf(workdirHeadErrorTemplateConstant, workdirPath, headError)
	}

	if !examineChanges {
		return inspection, nil
	}

	statusResult, statusError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitPorcelainFlagConstant, gitUntrackedFilesFlagConstant},
		WorkingDirectory: workdirPath,
	})
	if statusError != nil {
		return WorkdirInspection{}, fmt.Errorf(workdirStatusErrorTemplateConstant, workdirPath, statusError)
	}

	applyPorcelainStatus(&inspection, statusResult.StandardOutput)
	return inspection, nil
}

func applyPorcelainStatus(inspection *WorkdirInspection, porcelainOutput string) {
	for _, line := range strings.Split(porcelainOutput, "\n") {
		if len(line) < porcelainMinimumLineLengthConstant {
			continue
		}
		if strings.HasPrefix(line, porcelainUntrackedMarkerConstant) {
			inspection.Untracked = true
			continue
		}
		if line[0] != porcelainUnmodifiedCodeConstant {
			inspection.Staged = true
		}
		if line[1] != porcelainUnmodifiedCodeConstant {
			inspection.Unstaged = true
		}
	}
}
