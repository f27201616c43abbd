// Package errs holds the error taxonomy shared by the reader, the reducer,
// the emitters and the mesh tag store.
//
// Every typed error unwraps to one of the sentinels below, so callers can
// branch with errors.Is without caring which stage produced the failure.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure marks input that cannot be classified or aggregated.
	ErrStructure = errors.New("malformed input")
	// ErrNotFound marks a selector (isotope, cooling step, tag) with no data.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition marks a stage invoked without its required input.
	ErrPrecondition = errors.New("precondition failed")
	// ErrCapacity marks a cell count beyond what the target format can address.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrGeometryMismatch marks a mesh grid that disagrees with the data.
	ErrGeometryMismatch = errors.New("geometry mismatch")
	// ErrAlreadyExists marks an attempt to overwrite without permission.
	ErrAlreadyExists = errors.New("already exists")
)

// ParseError reports a line of the source report that could not be tokenized.
type ParseError struct {
	Line int    // 1-based line number, 0 when unknown
	Text string // offending token or line
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrStructure }

// NotFoundError reports a lookup that matched nothing.
type NotFoundError struct {
	Resource string // "isotope", "cooling step", "tag"
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PreconditionError reports a stage called before the stage it depends on.
type PreconditionError struct {
	Stage    string
	Requires string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Stage, e.Requires)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// CapacityError reports more cells than a format can number.
type CapacityError struct {
	Format string
	Count  int
	Limit  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d mesh cells exceeds the limit of %d", e.Format, e.Count, e.Limit)
}

func (e *CapacityError) Unwrap() error { return ErrCapacity }

// GeometryMismatchError reports a grid whose cell count differs from the data.
type GeometryMismatchError struct {
	GeometryCells int
	Cells         int
}

func (e *GeometryMismatchError) Error() string {
	return fmt.Sprintf("mesh geometry has %d cells but the source has %d", e.GeometryCells, e.Cells)
}

func (e *GeometryMismatchError) Unwrap() error { return ErrGeometryMismatch }

// ExistsError reports a named resource that is already present.
type ExistsError struct {
	Resource string
	ID       string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.ID)
}

func (e *ExistsError) Unwrap() error { return ErrAlreadyExists }

// IsLookup reports whether err is a recoverable selector miss.
func IsLookup(err error) bool { return errors.Is(err, ErrNotFound) }
