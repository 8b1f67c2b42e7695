// Package exitcode maps command outcomes to process exit statuses.
package exitcode

import (
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

const (
	OK      = 0
	Failure = 1
)

// FromError returns OK for a nil error and Failure for anything else,
// including a check run that found critical drift.
func FromError(err error) int {
	if err == nil {
		return OK
	}
	return Failure
}

// IsCriticalFindings reports whether err signals a completed check with
// critical drift rather than a failure to run.
func IsCriticalFindings(err error) bool {
	return apperrors.Is(err, apperrors.CodeCriticalFindings)
}
