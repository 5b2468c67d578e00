package submodule

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/temirov/gitsub/internal/gitrepo"
)

const (
	operationStartedMessageConstant    = "submodule operation started"
	operationCompletedMessageConstant  = "submodule operation completed"
	updateSkippedMessageConstant       = "submodule update skipped by update rule"
	initializeSkippedMessageConstant   = "submodule already initialized"
	logFieldStatusConstant             = "status"
	logFieldUpdateRuleConstant         = "update_rule"
	remoteLookupErrorTemplateConstant  = "failed to read remote %s: %w"
	remoteWithoutURLTemplateConstant   = "remote %s has no url"
	submoduleOpenErrorTemplateConstant = "failed to open submodule repository at %s: %w"
)

// Submodule describes one submodule of a superproject.
// Identifiers and rules are captured at construction and are not refreshed; use Reload for a new snapshot.
type Submodule struct {
	repository       *Repository
	name             string
	path             string
	url              string
	branch           string
	headCommitID     plumbing.Hash
	indexCommitID    plumbing.Hash
	workdirCommitID  plumbing.Hash
	fetchRecurseRule RecurseRule
	ignoreRule       IgnoreRule
	updateRule       UpdateRule
}

// NewSubmodule builds a Submodule bound to repository and reads its identifiers and rules.
// The returned Submodule is never nil: when metadata cannot be read its fields keep their defaults
// and the failure is returned alongside it.
func NewSubmodule(executionContext context.Context, repository *Repository, name string, path string, url string) (*Submodule, error) {
	defaults := defaultModuleSettings()
	submodule := &Submodule{
		repository:       repository,
		name:             name,
		path:             path,
		url:              url,
		fetchRecurseRule: defaults.fetchRecurseRule,
		ignoreRule:       defaults.ignoreRule,
		updateRule:       defaults.updateRule,
	}

	loadError := submodule.withHandle(executionContext, OperationLookup, func(handle *submoduleHandle) error {
		snapshot, snapshotError := submodule.readSnapshot(executionContext, handle, false)
		if snapshotError != nil {
			return snapshotError
		}
		submodule.branch = handle.settings.declaration.Branch
		submodule.headCommitID = snapshot.headID
		submodule.indexCommitID = snapshot.indexID
		submodule.workdirCommitID = snapshot.workdir.HeadID
		submodule.fetchRecurseRule = handle.settings.fetchRecurseRule
		submodule.ignoreRule = handle.settings.ignoreRule
		submodule.updateRule = handle.settings.updateRule
		return nil
	})
	return submodule, loadError
}

// Repository returns the superproject the submodule belongs to.
func (submodule *Submodule) Repository() *Repository {
	return submodule.repository
}

// Name returns the submodule name.
func (submodule *Submodule) Name() string {
	return submodule.name
}

// Path returns the submodule path relative to the superproject working directory.
func (submodule *Submodule) Path() string {
	return submodule.path
}

// URL returns the URL as recorded in .gitmodules.
func (submodule *Submodule) URL() string {
	return submodule.url
}

// Branch returns the tracked branch recorded in .gitmodules.
func (submodule *Submodule) Branch() string {
	return submodule.branch
}

// HeadCommitID returns the commit recorded for the submodule in the superproject HEAD.
func (submodule *Submodule) HeadCommitID() plumbing.Hash {
	return submodule.headCommitID
}

// IndexCommitID returns the commit recorded for the submodule in the superproject index.
func (submodule *Submodule) IndexCommitID() plumbing.Hash {
	return submodule.indexCommitID
}

// WorkdirCommitID returns the commit checked out in the submodule working directory.
func (submodule *Submodule) WorkdirCommitID() plumbing.Hash {
	return submodule.workdirCommitID
}

// FetchRecurseRule returns the fetchRecurseSubmodules rule.
func (submodule *Submodule) FetchRecurseRule() RecurseRule {
	return submodule.fetchRecurseRule
}

// IgnoreRule returns the ignore rule.
func (submodule *Submodule) IgnoreRule() IgnoreRule {
	return submodule.ignoreRule
}

// UpdateRule returns the update rule.
func (submodule *Submodule) UpdateRule() UpdateRule {
	return submodule.updateRule
}

// Reload reads identifiers and rules again and returns them as a new Submodule.
func (submodule *Submodule) Reload(executionContext context.Context) (*Submodule, error) {
	return NewSubmodule(executionContext, submodule.repository, submodule.name, submodule.path, submodule.url)
}

// Status reports the submodule status using its configured ignore rule.
func (submodule *Submodule) Status(executionContext context.Context) (StatusFlags, error) {
	return submodule.StatusWithIgnore(executionContext, IgnoreUnspecified)
}

// StatusWithIgnore reports the submodule status, masking dirtiness according to rule.
// IgnoreUnspecified applies the configured rule.
func (submodule *Submodule) StatusWithIgnore(executionContext context.Context, rule IgnoreRule) (StatusFlags, error) {
	var status StatusFlags
	statusError := submodule.withHandle(executionContext, OperationStatus, func(handle *submoduleHandle) error {
		effectiveRule := rule
		if effectiveRule == IgnoreUnspecified {
			effectiveRule = handle.settings.ignoreRule
		}
		examineChanges := effectiveRule != IgnoreAll && effectiveRule != IgnoreDirty

		snapshot, snapshotError := submodule.readSnapshot(executionContext, handle, examineChanges)
		if snapshotError != nil {
			return snapshotError
		}
		status = computeStatus(snapshot, effectiveRule)
		return nil
	})
	if statusError != nil {
		return StatusUnmodified, statusError
	}

	submodule.logger().Debug(
		operationCompletedMessageConstant,
		zap.String(logFieldSubmoduleConstant, submodule.name),
		zap.String(logFieldOperationConstant, OperationStatus),
		zap.Stringer(logFieldStatusConstant, status),
	)
	return status, nil
}

// IsWorkdirInitialized reports whether the submodule path holds a repository.
func (submodule *Submodule) IsWorkdirInitialized(executionContext context.Context) (bool, error) {
	status, statusError := submodule.Status(executionContext)
	if statusError != nil {
		return false, statusError
	}
	return !status.Has(StatusWorkdirUninitialized), nil
}

// ResolvedURL returns the submodule URL with relative forms resolved against the superproject origin.
func (submodule *Submodule) ResolvedURL(executionContext context.Context) (string, error) {
	var resolvedURL string
	resolveError := submodule.withHandle(executionContext, OperationResolveURL, func(handle *submoduleHandle) error {
		var urlError error
		resolvedURL, urlError = submodule.resolveURL(handle.settings.declaration.URL)
		return urlError
	})
	return resolvedURL, resolveError
}

// Initialize copies the submodule declaration into the repository configuration.
// An existing entry is kept unless overwrite is set.
func (submodule *Submodule) Initialize(executionContext context.Context, overwrite bool) error {
	submodule.logStarted(OperationInitialize)
	initializeError := submodule.withHandle(executionContext, OperationInitialize, func(handle *submoduleHandle) error {
		if handle.settings.initialized && !overwrite {
			submodule.logger().Debug(
				initializeSkippedMessageConstant,
				zap.String(logFieldSubmoduleConstant, submodule.name),
			)
			return nil
		}
		resolvedURL, urlError := submodule.resolveURL(handle.settings.declaration.URL)
		if urlError != nil {
			return urlError
		}
		return submodule.writeConfigurationEntry(handle, resolvedURL)
	})
	if initializeError != nil {
		return initializeError
	}
	submodule.logCompleted(OperationInitialize)
	return nil
}

// Open returns the repository checked out at the submodule path. The caller owns the result.
func (submodule *Submodule) Open(executionContext context.Context) (*Repository, error) {
	var opened *Repository
	openError := submodule.withHandle(executionContext, OperationOpen, func(handle *submoduleHandle) error {
		var childError error
		opened, childError = submodule.openWorkdir(handle)
		return childError
	})
	if openError != nil {
		return nil, openError
	}
	return opened, nil
}

// Clone initializes the submodule when needed, fetches it from its URL and checks out the index commit.
// The caller owns the returned repository.
func (submodule *Submodule) Clone(executionContext context.Context) (*Repository, error) {
	submodule.logStarted(OperationClone)
	var cloned *Repository
	cloneError := submodule.withHandle(executionContext, OperationClone, func(handle *submoduleHandle) error {
		inspection, inspectionError := submodule.repository.workdirInspector.InspectWorkdir(executionContext, submodule.workdirPath(handle), false)
		if inspectionError != nil {
			return inspectionError
		}
		if inspection.Present && !inspection.HeadID.IsZero() {
			return ErrAlreadyCloned
		}

		checkpoint, checkpointError := submodule.captureCheckpoint(handle)
		if checkpointError != nil {
			return checkpointError
		}
		if !handle.settings.initialized {
			resolvedURL, urlError := submodule.resolveURL(handle.settings.declaration.URL)
			if urlError != nil {
				return urlError
			}
			if writeError := submodule.writeConfigurationEntry(handle, resolvedURL); writeError != nil {
				return writeError
			}
		}

		updateError := submodule.checkoutWithRollback(handle, checkpoint, false, func() error {
			return submodule.update(executionContext, handle)
		})
		if updateError != nil {
			return updateError
		}

		var childError error
		cloned, childError = submodule.openWorkdir(handle)
		return childError
	})
	if cloneError != nil {
		return nil, cloneError
	}
	submodule.logCompleted(OperationClone)
	return cloned, nil
}

// Update fetches the submodule and checks out the commit recorded in the superproject index.
// When initialize is set an uninitialized submodule is initialized first.
func (submodule *Submodule) Update(executionContext context.Context, initialize bool) error {
	submodule.logStarted(OperationUpdate)
	updateError := submodule.withHandle(executionContext, OperationUpdate, func(handle *submoduleHandle) error {
		checkpoint, checkpointError := submodule.captureCheckpoint(handle)
		if checkpointError != nil {
			return checkpointError
		}
		if !handle.settings.initialized {
			if !initialize {
				return ErrNotInitialized
			}
			resolvedURL, urlError := submodule.resolveURL(handle.settings.declaration.URL)
			if urlError != nil {
				return urlError
			}
			if writeError := submodule.writeConfigurationEntry(handle, resolvedURL); writeError != nil {
				return writeError
			}
		}

		if handle.settings.updateRule == UpdateNone {
			submodule.logger().Info(
				updateSkippedMessageConstant,
				zap.String(logFieldSubmoduleConstant, submodule.name),
				zap.Stringer(logFieldUpdateRuleConstant, handle.settings.updateRule),
			)
			return nil
		}
		return submodule.checkoutWithRollback(handle, checkpoint, true, func() error {
			return submodule.update(executionContext, handle)
		})
	})
	if updateError != nil {
		return updateError
	}
	submodule.logCompleted(OperationUpdate)
	return nil
}

func (submodule *Submodule) update(executionContext context.Context, handle *submoduleHandle) error {
	recursion := git.NoRecurseSubmodules
	if handle.settings.fetchRecurseRule == RecurseYes {
		recursion = git.DefaultSubmoduleRecursionDepth
	}
	return handle.gitSubmodule.UpdateContext(executionContext, &git.SubmoduleUpdateOptions{
		RecurseSubmodules: recursion,
	})
}

func (submodule *Submodule) openWorkdir(handle *submoduleHandle) (*Repository, error) {
	workdirPath := submodule.workdirPath(handle)
	gitRepository, openError := git.PlainOpen(workdirPath)
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return nil, ErrWorkdirUninitialized
		}
		return nil, fmt.Errorf(submoduleOpenErrorTemplateConstant, workdirPath, openError)
	}
	return submodule.repository.childRepository(gitRepository, workdirPath), nil
}

// resolveURL resolves relative submodule URLs against the origin remote, or the working directory without one.
func (submodule *Submodule) resolveURL(declaredURL string) (string, error) {
	if !gitrepo.IsRelativeSubmoduleURL(declaredURL) {
		return declaredURL, nil
	}

	baseURL := submodule.repository.workingDirectory
	remote, remoteError := submodule.repository.gitRepository.Remote(git.DefaultRemoteName)
	switch {
	case remoteError == nil:
		remoteURLs := remote.Config().URLs
		if len(remoteURLs) == 0 {
			return "", fmt.Errorf(remoteWithoutURLTemplateConstant, git.DefaultRemoteName)
		}
		baseURL = remoteURLs[0]
	case errors.Is(remoteError, git.ErrRemoteNotFound):
	default:
		return "", fmt.Errorf(remoteLookupErrorTemplateConstant, git.DefaultRemoteName, remoteError)
	}

	return gitrepo.ResolveSubmoduleURL(baseURL, declaredURL)
}

func (submodule *Submodule) logger() *zap.Logger {
	if submodule.repository == nil || submodule.repository.logger == nil {
		return zap.NewNop()
	}
	return submodule.repository.logger
}

func (submodule *Submodule) logStarted(operation string) {
	submodule.logger().Debug(
		operationStartedMessageConstant,
		zap.String(logFieldSubmoduleConstant, submodule.name),
		zap.String(logFieldPathConstant, submodule.path),
		zap.String(logFieldOperationConstant, operation),
	)
}

func (submodule *Submodule) logCompleted(operation string) {
	submodule.logger().Info(
		operationCompletedMessageConstant,
		zap.String(logFieldSubmoduleConstant, submodule.name),
		zap.String(logFieldPathConstant, submodule.path),
		zap.String(logFieldOperationConstant, operation),
	)
}
