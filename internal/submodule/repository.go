package submodule

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

const (
	repositoryOpenErrorTemplateConstant     = "failed to open repository at %s: %w"
	repositoryWorktreeErrorTemplateConstant = "repository at %s has no working tree: %w"
	repositoryHeadErrorTemplateConstant     = "failed to resolve HEAD: %w"
	enumerationWarningMessageConstant       = "submodule metadata unavailable"
	logFieldSubmoduleConstant               = "submodule"
	logFieldPathConstant                    = "path"
	logFieldOperationConstant               = "operation"
	logFieldRepositoryConstant              = "repository"
)

// RepositoryOption customizes a Repository.
type RepositoryOption func(*Repository)

// WithLogger attaches a logger used by the repository and its submodules.
func WithLogger(logger *zap.Logger) RepositoryOption {
	return func(repository *Repository) {
		if logger != nil {
			repository.logger = logger
		}
	}
}

// WithWorkdirInspector replaces the inspector used to read submodule working directories.
func WithWorkdirInspector(inspector WorkdirInspector) RepositoryOption {
	return func(repository *Repository) {
		if inspector != nil {
			repository.workdirInspector = inspector
		}
	}
}

// Repository is a superproject opened through go-git.
// Submodules keep a non-owning pointer to it, so it must outlive them.
type Repository struct {
	gitRepository    *git.Repository
	workingDirectory string
	logger           *zap.Logger
	workdirInspector WorkdirInspector
	options          []RepositoryOption
}

// OpenRepository opens the repository containing path, searching parent directories for .git.
func OpenRepository(path string, options ...RepositoryOption) (*Repository, error) {
	gitRepository, openError := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return nil, fmt.Errorf(repositoryOpenErrorTemplateConstant, path, openError)
	}

	worktree, worktreeError := gitRepository.Worktree()
	if worktreeError != nil {
		return nil, fmt.Errorf(repositoryWorktreeErrorTemplateConstant, path, worktreeError)
	}

	return newRepository(gitRepository, worktree.Filesystem.Root(), options...), nil
}

func newRepository(gitRepository *git.Repository, workingDirectory string, options ...RepositoryOption) *Repository {
	repository := &Repository{
		gitRepository:    gitRepository,
		workingDirectory: workingDirectory,
		logger:           zap.NewNop(),
		workdirInspector: NewGoGitWorkdirInspector(),
		options:          append([]RepositoryOption{}, options...),
	}
	for _, option := range options {
		if option != nil {
			option(repository)
		}
	}
	return repository
}

// Handle returns the underlying go-git repository.
func (repository *Repository) Handle() *git.Repository {
	return repository.gitRepository
}

// Path returns the absolute working directory of the repository.
func (repository *Repository) Path() string {
	return repository.workingDirectory
}

// HeadCommitID returns the commit HEAD points to, or the zero hash for an unborn branch.
func (repository *Repository) HeadCommitID() (plumbing.Hash, error) {
	headReference, headError := repository.gitRepository.Head()
	if headError != nil {
		if errors.Is(headError, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, nil
		}
		return plumbing.ZeroHash, fmt.Errorf(repositoryHeadErrorTemplateConstant, headError)
	}
	return headReference.Hash(), nil
}

// Submodules builds a Submodule for every entry of .gitmodules, ordered by name.
// Entries whose metadata cannot be read are returned with default fields and logged.
func (repository *Repository) Submodules(executionContext context.Context) ([]*Submodule, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, newOperationError(OperationEnumerate, "", contextError)
	}

	worktree, worktreeError := repository.gitRepository.Worktree()
	if worktreeError != nil {
		return nil, newOperationError(OperationEnumerate, "", worktreeError)
	}
	modules, modulesError := readGitModules(worktree.Filesystem)
	if modulesError != nil {
		return nil, newOperationError(OperationEnumerate, "", modulesError)
	}

	declarations := listModuleDeclarations(modules)
	submodules := make([]*Submodule, 0, len(declarations))
	for _, declaration := range declarations {
		submodule, constructionError := NewSubmodule(executionContext, repository, declaration.Name, declaration.Path, declaration.URL)
		if constructionError != nil {
			repository.logger.Warn(
				enumerationWarningMessageConstant,
				zap.String(logFieldSubmoduleConstant, declaration.Name),
				zap.String(logFieldRepositoryConstant, repository.workingDirectory),
				zap.Error(constructionError),
			)
		}
		submodules = append(submodules, submodule)
	}
	return submodules, nil
}

// Submodule looks up a single submodule by name.
func (repository *Repository) Submodule(executionContext context.Context, name string) (*Submodule, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, newOperationError(OperationLookup, name, contextError)
	}

	worktree, worktreeError := repository.gitRepository.Worktree()
	if worktreeError != nil {
		return nil, newOperationError(OperationLookup, name, worktreeError)
	}
	modules, modulesError := readGitModules(worktree.Filesystem)
	if modulesError != nil {
		return nil, newOperationError(OperationLookup, name, modulesError)
	}

	declaration, declared := findModuleDeclaration(modules, name)
	if !declared {
		return nil, newOperationError(OperationLookup, name, ErrSubmoduleNotFound)
	}
	return NewSubmodule(executionContext, repository, declaration.Name, declaration.Path, declaration.URL)
}

// childRepository wraps a submodule checkout, inheriting this repository's options.
func (repository *Repository) childRepository(gitRepository *git.Repository, workingDirectory string) *Repository {
	return newRepository(gitRepository, workingDirectory, repository.options...)
}
