// Package submodule exposes git submodule metadata and lifecycle operations
// for a superproject repository.
//
// Submodule captures the recorded commit identifiers and the configured rules
// of a single submodule and delegates lifecycle and status requests to go-git.
// Every operation acquires a short-lived handle that is released before the
// call returns, and every failure is reported through OperationError.
package submodule
