// internal/app/exit.go
package app

import (
	"context"
	"errors"

	"phtnsrc/internal/errs"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitNotFound = 1
	ExitUsage    = 2
	ExitIO       = 3
	ExitCanceled = 130
)

// ExitCode maps a run error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitCanceled
	case errs.IsLookup(err):
		return ExitNotFound
	case errors.Is(err, errs.ErrPrecondition),
		errors.Is(err, errs.ErrCapacity),
		errors.Is(err, errs.ErrGeometryMismatch),
		errors.Is(err, errs.ErrAlreadyExists):
		return ExitUsage
	default:
		return ExitIO
	}
}
