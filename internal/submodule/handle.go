package submodule

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	pathSeparatorConstant                   = "/"
	repositoryConfigErrorTemplateConstant   = "failed to read repository configuration: %w"
	headTreeErrorTemplateConstant           = "failed to read HEAD tree: %w"
	indexReadErrorTemplateConstant          = "failed to read index: %w"
	workdirStatErrorTemplateConstant        = "failed to inspect %s: %w"
	configurationWriteErrorTemplateConstant = "failed to write repository configuration: %w"
	rollbackErrorTemplateConstant           = "%w (rollback failed: %v)"
	gitlinkFileNameConstant                 = ".git"
	moduleStorageDirectoryNameConstant      = "modules"
)

// submoduleHandle is the transient view of one submodule used by a single operation.
type submoduleHandle struct {
	worktree                *git.Worktree
	gitSubmodule            *git.Submodule
	repositoryConfiguration *config.Config
	settings                moduleSettings
}

// withHandle acquires a handle, runs callback and releases the handle on every path.
func (submodule *Submodule) withHandle(executionContext context.Context, operation string, callback func(handle *submoduleHandle) error) error {
	handle, acquireError := submodule.acquireHandle(executionContext)
	if acquireError != nil {
		return newOperationError(operation, submodule.name, acquireError)
	}
	defer handle.release()

	return newOperationError(operation, submodule.name, callback(handle))
}

func (submodule *Submodule) acquireHandle(executionContext context.Context) (*submoduleHandle, error) {
	if submodule.repository == nil || submodule.repository.gitRepository == nil {
		return nil, ErrRepositoryRequired
	}
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	worktree, worktreeError := submodule.repository.gitRepository.Worktree()
	if worktreeError != nil {
		return nil, worktreeError
	}

	handle := &submoduleHandle{worktree: worktree}
	if loadError := submodule.loadHandle(handle); loadError != nil {
		return nil, loadError
	}
	return handle, nil
}

// loadHandle (re)reads module declarations, repository configuration and the go-git submodule.
func (submodule *Submodule) loadHandle(handle *submoduleHandle) error {
	modules, modulesError := readGitModules(handle.worktree.Filesystem)
	if modulesError != nil {
		return modulesError
	}

	repositoryConfiguration, configurationError := submodule.repository.gitRepository.Config()
	if configurationError != nil {
		return fmt.Errorf(repositoryConfigErrorTemplateConstant, configurationError)
	}

	settings, settingsError := resolveModuleSettings(modules, repositoryConfiguration.Raw, submodule.name)
	if settingsError != nil {
		return settingsError
	}

	gitSubmodule, lookupError := handle.worktree.Submodule(submodule.name)
	if lookupError != nil {
		return lookupError
	}

	handle.repositoryConfiguration = repositoryConfiguration
	handle.settings = settings
	handle.gitSubmodule = gitSubmodule
	return nil
}

func (handle *submoduleHandle) release() {
	handle.gitSubmodule = nil
	handle.worktree = nil
	handle.repositoryConfiguration = nil
}

func (submodule *Submodule) workdirPath(handle *submoduleHandle) string {
	return filepath.Join(submodule.repository.workingDirectory, filepath.FromSlash(handle.settings.declaration.Path))
}

// readSnapshot gathers HEAD, index and workdir observations for the submodule path.
func (submodule *Submodule) readSnapshot(executionContext context.Context, handle *submoduleHandle, examineChanges bool) (statusSnapshot, error) {
	submodulePath := strings.Trim(handle.settings.declaration.Path, pathSeparatorConstant)
	snapshot := statusSnapshot{inConfig: true}

	headID, inHead, headError := submodule.repository.headGitlink(submodulePath)
	if headError != nil {
		return statusSnapshot{}, headError
	}
	snapshot.headID = headID
	snapshot.inHead = inHead

	indexID, inIndex, indexError := submodule.repository.indexGitlink(submodulePath)
	if indexError != nil {
		return statusSnapshot{}, indexError
	}
	snapshot.indexID = indexID
	snapshot.inIndex = inIndex

	workdirPath := submodule.workdirPath(handle)
	_, statError := os.Stat(workdirPath)
	switch {
	case statError == nil:
		snapshot.workdirPathExists = true
	case errors.Is(statError, os.ErrNotExist):
	default:
		return statusSnapshot{}, fmt.Errorf(workdirStatErrorTemplateConstant, workdirPath, statError)
	}

	if snapshot.workdirPathExists {
		inspection, inspectionError := submodule.repository.workdirInspector.InspectWorkdir(executionContext, workdirPath, examineChanges)
		if inspectionError != nil {
			return statusSnapshot{}, inspectionError
		}
		snapshot.workdir = inspection
	}

	return snapshot, nil
}

// writeConfigurationEntry records the submodule in the repository configuration, keeping unrelated options.
func (submodule *Submodule) writeConfigurationEntry(handle *submoduleHandle, resolvedURL string) error {
	declaration := handle.settings.declaration
	configuration := handle.repositoryConfiguration
	if configuration.Submodules == nil {
		configuration.Submodules = make(map[string]*config.Submodule)
	}

	entry, exists := configuration.Submodules[declaration.Name]
	if !exists || entry == nil {
		entry = &config.Submodule{Name: declaration.Name}
		configuration.Submodules[declaration.Name] = entry
	}
	entry.Path = declaration.Path
	entry.URL = resolvedURL
	entry.Branch = declaration.Branch

	if writeError := submodule.repository.gitRepository.Storer.SetConfig(configuration); writeError != nil {
		return fmt.Errorf(configurationWriteErrorTemplateConstant, writeError)
	}
	return submodule.loadHandle(handle)
}

func (repository *Repository) headGitlink(submodulePath string) (plumbing.Hash, bool, error) {
	headReference, headError := repository.gitRepository.Head()
	if headError != nil {
		if errors.Is(headError, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, false, nil
		}
		return plumbing.ZeroHash, false, fmt.Errorf(headTreeErrorTemplateConstant, headError)
	}

	commit, commitError := repository.gitRepository.CommitObject(headReference.Hash())
	if commitError != nil {
		return plumbing.ZeroHash, false, fmt.Errorf(headTreeErrorTemplateConstant, commitError)
	}
	tree, treeError := commit.Tree()
	if treeError != nil {
		return plumbing.ZeroHash, false, fmt.Errorf(headTreeErrorTemplateConstant, treeError)
	}

	entry, entryError := tree.FindEntry(submodulePath)
	if entryError != nil {
		if errors.Is(entryError, object.ErrEntryNotFound) || errors.Is(entryError, object.ErrDirectoryNotFound) {
			return plumbing.ZeroHash, false, nil
		}
		return plumbing.ZeroHash, false, fmt.Errorf(headTreeErrorTemplateConstant, entryError)
	}
	if entry.Mode != filemode.Submodule {
		return plumbing.ZeroHash, false, nil
	}
	return entry.Hash, true, nil
}

func (repository *Repository) indexGitlink(submodulePath string) (plumbing.Hash, bool, error) {
	repositoryIndex, indexError := repository.gitRepository.Storer.Index()
	if indexError != nil {
		return plumbing.ZeroHash, false, fmt.Errorf(indexReadErrorTemplateConstant, indexError)
	}

	entry, entryError := repositoryIndex.Entry(submodulePath)
	if entryError != nil {
		if errors.Is(entryError, index.ErrEntryNotFound) {
			return plumbing.ZeroHash, false, nil
		}
		return plumbing.ZeroHash, false, fmt.Errorf(indexReadErrorTemplateConstant, entryError)
	}
	if entry.Mode != filemode.Submodule {
		return plumbing.ZeroHash, false, nil
	}
	return entry.Hash, true, nil
}

// checkoutCheckpoint records what existed before a checkout so a failed one can be undone.
type checkoutCheckpoint struct {
	configured           bool
	gitlinkExisted       bool
	moduleStorageExisted bool
}

func (submodule *Submodule) captureCheckpoint(handle *submoduleHandle) (checkoutCheckpoint, error) {
	checkpoint := checkoutCheckpoint{configured: handle.settings.initialized}

	gitlinkPath := filepath.Join(submodule.workdirPath(handle), gitlinkFileNameConstant)
	_, gitlinkError := os.Lstat(gitlinkPath)
	switch {
	case gitlinkError == nil:
		checkpoint.gitlinkExisted = true
	case !errors.Is(gitlinkError, os.ErrNotExist):
		return checkoutCheckpoint{}, fmt.Errorf(workdirStatErrorTemplateConstant, gitlinkPath, gitlinkError)
	}

	storageFilesystem, storagePath, hasStorage := submodule.moduleStorage()
	if hasStorage {
		_, storageError := storageFilesystem.Lstat(storagePath)
		switch {
		case storageError == nil:
			checkpoint.moduleStorageExisted = true
		case !errors.Is(storageError, os.ErrNotExist):
			return checkoutCheckpoint{}, fmt.Errorf(workdirStatErrorTemplateConstant, storagePath, storageError)
		}
	}
	return checkpoint, nil
}

// rollback removes the gitlink, module storage and configuration entry a failed checkout created.
// The configuration entry is kept when keepConfiguration is set.
func (submodule *Submodule) rollback(handle *submoduleHandle, checkpoint checkoutCheckpoint, keepConfiguration bool) error {
	var rollbackErrors []error

	if !checkpoint.gitlinkExisted {
		gitlinkPath := filepath.Join(submodule.workdirPath(handle), gitlinkFileNameConstant)
		if removeError := os.RemoveAll(gitlinkPath); removeError != nil {
			rollbackErrors = append(rollbackErrors, removeError)
		}
	}

	if !checkpoint.moduleStorageExisted {
		if storageFilesystem, storagePath, hasStorage := submodule.moduleStorage(); hasStorage {
			if removeError := util.RemoveAll(storageFilesystem, storagePath); removeError != nil {
				rollbackErrors = append(rollbackErrors, removeError)
			}
		}
	}

	if !checkpoint.configured && !keepConfiguration {
		if removeError := submodule.removeConfigurationEntry(handle); removeError != nil {
			rollbackErrors = append(rollbackErrors, removeError)
		}
	}
	return errors.Join(rollbackErrors...)
}

// moduleStorage locates .git/modules/<name> when the superproject lives on a filesystem.
func (submodule *Submodule) moduleStorage() (billy.Filesystem, string, bool) {
	filesystemStorer, onFilesystem := submodule.repository.gitRepository.Storer.(interface{ Filesystem() billy.Filesystem })
	if !onFilesystem {
		return nil, "", false
	}
	storageFilesystem := filesystemStorer.Filesystem()
	return storageFilesystem, storageFilesystem.Join(moduleStorageDirectoryNameConstant, submodule.name), true
}

func (submodule *Submodule) removeConfigurationEntry(handle *submoduleHandle) error {
	configuration, configurationError := submodule.repository.gitRepository.Config()
	if configurationError != nil {
		return fmt.Errorf(repositoryConfigErrorTemplateConstant, configurationError)
	}
	delete(configuration.Submodules, submodule.name)
	if writeError := submodule.repository.gitRepository.Storer.SetConfig(configuration); writeError != nil {
		return fmt.Errorf(configurationWriteErrorTemplateConstant, writeError)
	}
	return submodule.loadHandle(handle)
}

// checkoutWithRollback runs checkout and undoes its partial on-disk state when it fails.
func (submodule *Submodule) checkoutWithRollback(handle *submoduleHandle, checkpoint checkoutCheckpoint, keepConfiguration bool, checkout func() error) error {
	checkoutError := checkout()
	if checkoutError == nil {
		return nil
	}
	if rollbackError := submodule.rollback(handle, checkpoint, keepConfiguration); rollbackError != nil {
		return fmt.Errorf(rollbackErrorTemplateConstant, checkoutError, rollbackError)
	}
	return checkoutError
}
