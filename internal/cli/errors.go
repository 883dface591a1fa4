// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/service"
)

// Exit codes of the tasksync binary.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
	// ExitNeedsDecision means a document was deleted on the server while it
	// had local changes; run restore or sync --accept-delete.
	ExitNeedsDecision = 3
)

var (
	ErrInvalidRef  = errors.New("invalid item reference")
	ErrNoConflicts = errors.New("no conflicts recorded")
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err. Pending server-side
// deletions map to ExitNeedsDecision, other plain errors to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, service.ErrRemoteDeleted) {
		return ExitNeedsDecision
	}
	return ExitFailure
}

// hint returns advice printed after the error message, if any.
func hint(err error) string {
	if errors.Is(err, service.ErrRemoteDeleted) {
		return "local changes are kept; run \"tasksync restore <kind>\" to upload them or \"tasksync sync --accept-delete\" to drop them"
	}
	return ""
}
