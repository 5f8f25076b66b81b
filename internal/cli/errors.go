package cli

import (
	"errors"
	"fmt"
)

// Error codes of the --json envelope. Scripts may rely on them.
const (
	ErrConfigInvalid  = "CONFIG_INVALID"
	ErrSchemaNotFound = "SCHEMA_NOT_FOUND"
	ErrSchemaInvalid  = "SCHEMA_INVALID"
	ErrInvalidInput   = "INVALID_INPUT"
	ErrNotInteractive = "NOT_INTERACTIVE"
	ErrInternal       = "INTERNAL_ERROR"
)

// reportedError is an error already printed as an envelope. Execute exits
// non-zero without printing it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func errSilent(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

// handleError reports err under code. With --json the envelope is printed
// here; otherwise the suggestion is appended for Execute to print.
func handleError(code string, err error, suggestion string) error {
	if jsonOutput {
		outputError(code, err.Error(), nil, suggestion)
		return &reportedError{err: err}
	}
	if suggestion != "" {
		return fmt.Errorf("%w\n\n%s", err, suggestion)
	}
	return err
}

// handleErrorWithDetails is handleError with structured details, which only
// the envelope carries.
func handleErrorWithDetails(code, message, suggestion string, details interface{}) error {
	err := errors.New(message)
	if jsonOutput {
		outputError(code, message, details, suggestion)
		return &reportedError{err: err}
	}
	return err
}
