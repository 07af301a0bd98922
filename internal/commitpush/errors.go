package commitpush

// Process exit statuses for the documented failure modes. Any other git
// failure terminates the run with the failing command's own exit code.
const (
	ExitStatusWhitespaceErrorsConstant   = 2
	ExitStatusForbiddenStagedConstant    = 3
	ExitStatusEmptyCommitMessageConstant = 4
	ExitStatusBranchUndeterminedConstant = 5
)

// ExitStatusError associates an operator-facing failure with a process exit status.
type ExitStatusError struct {
	ExitStatus int
	Message    string
}

// Error describes the failure for the operator.
func (statusError ExitStatusError) Error() string {
	return statusError.Message
}
