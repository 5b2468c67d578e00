package submodule

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

const (
	operationErrorTemplateConstant            = "submodule %s: %s: %v"
	operationErrorWithoutNameTemplateConstant = "submodule %s: %v"
	translatedErrorTemplateConstant           = "%w: %w"
)

// Operation labels reported through OperationError.
const (
	OperationLookup     = "lookup"
	OperationInitialize = "initialize"
	OperationOpen       = "open"
	OperationClone      = "clone"
	OperationUpdate     = "update"
	OperationStatus     = "status"
	OperationResolveURL = "resolve-url"
	OperationEnumerate  = "enumerate"
)

var (
	// ErrRepositoryRequired indicates a nil Repository was supplied.
	ErrRepositoryRequired = errors.New("repository must be provided")
	// ErrSubmoduleNotFound indicates no submodule with the requested name is declared in .gitmodules.
	ErrSubmoduleNotFound = errors.New("submodule not found")
	// ErrNotInitialized indicates the submodule has no entry in the repository configuration.
	ErrNotInitialized = errors.New("submodule not initialized")
	// ErrWorkdirUninitialized indicates the submodule path holds no repository.
	ErrWorkdirUninitialized = errors.New("submodule working directory not initialized")
	// ErrAlreadyCloned indicates the submodule path already holds a checked-out repository.
	ErrAlreadyCloned = errors.New("submodule already cloned")
)

// OperationError reports a failed submodule operation together with its cause.
type OperationError struct {
	Operation string
	Submodule string
	Err       error
}

// Error describes the failed operation.
func (operationError *OperationError) Error() string {
	if len(operationError.Submodule) == 0 {
		return fmt.Sprintf(operationErrorWithoutNameTemplateConstant, operationError.Operation, operationError.Err)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Submodule, operationError.Operation, operationError.Err)
}

// Unwrap returns the underlying cause.
func (operationError *OperationError) Unwrap() error {
	return operationError.Err
}

func newOperationError(operation string, submoduleName string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *OperationError
	if errors.As(cause, &existing) && existing.Operation == operation && existing.Submodule == submoduleName {
		return cause
	}
	return &OperationError{Operation: operation, Submodule: submoduleName, Err: translateGitError(cause)}
}

func translateGitError(cause error) error {
	switch {
	case errors.Is(cause, ErrSubmoduleNotFound), errors.Is(cause, ErrNotInitialized):
		return cause
	case errors.Is(cause, git.ErrSubmoduleNotFound):
		return fmt.Errorf(translatedErrorTemplateConstant, ErrSubmoduleNotFound, cause)
	case errors.Is(cause, git.ErrSubmoduleNotInitialized):
		return fmt.Errorf(translatedErrorTemplateConstant, ErrNotInitialized, cause)
	default:
		return cause
	}
}
