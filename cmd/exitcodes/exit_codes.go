package exitcodes

import "github.com/pkg/errors"

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeInvalidInput indicates the user supplied input that could not be parsed, such as a
	// malformed type expression, value, or hex payload.
	ExitCodeInvalidInput = 6
)

// ErrorWithExitCode pairs an error with the process exit code it should produce when it reaches
// the top level unhandled.
type ErrorWithExitCode struct {
	err      error
	exitCode int
}

// NewErrorWithExitCode wraps err with an explicit exit code.
func NewErrorWithExitCode(err error, exitCode int) *ErrorWithExitCode {
	return &ErrorWithExitCode{err: err, exitCode: exitCode}
}

// Error implements the error interface.
func (e *ErrorWithExitCode) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// GetInnerErrorAndExitCode resolves an error bubbled to the top level into the error to print and
// the code to exit with: success for nil, the wrapped pair for an ErrorWithExitCode, and the
// general error code otherwise.
func GetInnerErrorAndExitCode(err error) (error, int) {
	if err == nil {
		return nil, ExitCodeSuccess
	}
	var withCode *ErrorWithExitCode
	if errors.As(err, &withCode) {
		return withCode.err, withCode.exitCode
	}
	return err, ExitCodeGeneralError
}
