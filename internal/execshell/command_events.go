package execshell

// CommandEventObserver is notified about each command the ShellExecutor runs.
type CommandEventObserver interface {
	// CommandStarted is called before the command is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called once the command exited, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is called when the command could not be launched or was interrupted.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

var _ CommandEventObserver = noopCommandEventObserver{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
