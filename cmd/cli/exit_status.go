package cli

import (
	"errors"

	"github.com/tidycommit/tidycommit/internal/commitpush"
	"github.com/tidycommit/tidycommit/internal/execshell"
)

const (
	exitStatusSuccessConstant        = 0
	exitStatusGenericFailureConstant = 1
)

// ResolveExitStatus maps an execution error to the process exit status.
// Workflow violations carry their own status codes; failures of the underlying
// git commands propagate the external command's exit code unchanged.
func ResolveExitStatus(executionError error) int {
	if executionError == nil {
		return exitStatusSuccessConstant
	}

	exitStatusError := commitpush.ExitStatusError{}
	if errors.As(executionError, &exitStatusError) {
		return exitStatusError.ExitStatus
	}

	commandFailure := execshell.CommandFailedError{}
	if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode != 0 {
		return commandFailure.Result.ExitCode
	}

	return exitStatusGenericFailureConstant
}
