// Package execshell runs the git command-line tool with structured logging.
//
// ShellExecutor logs every invocation through zap, reports non-zero exits as
// CommandFailedError and notifies an optional CommandEventObserver. The
// CommandMessageFormatter turns git invocations into readable progress lines.
package execshell
