package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		wantMsg string
	}{
		{"parse with line", &ParseError{Line: 3, Text: "X", Msg: "too few fields"}, ErrStructure, `line 3: too few fields: "X"`},
		{"parse without line", &ParseError{Text: "X", Msg: "bad"}, ErrStructure, `bad: "X"`},
		{"isotope", &NotFoundError{Resource: "isotope", ID: "Co60"}, ErrNotFound, "isotope not found: Co60"},
		{"bare not found", &NotFoundError{Resource: "tag"}, ErrNotFound, "tag not found"},
		{"precondition", &PreconditionError{Stage: "sdef", Requires: "reduced strengths"}, ErrPrecondition, "sdef requires reduced strengths"},
		{"capacity", &CapacityError{Format: "sdef", Count: 1000, Limit: 993}, ErrCapacity, "sdef: 1000 mesh cells exceeds the limit of 993"},
		{"geometry", &GeometryMismatchError{GeometryCells: 4, Cells: 2}, ErrGeometryMismatch, "mesh geometry has 4 cells but the source has 2"},
		{"exists", &ExistsError{Resource: "tag", ID: "phtn_src"}, ErrAlreadyExists, "tag already exists: phtn_src"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			wrapped := fmt.Errorf("stage: %w", tt.err)
			if !errors.Is(wrapped, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.want)
			}
		})
	}
}

func TestIsLookup(t *testing.T) {
	if !IsLookup(fmt.Errorf("x: %w", &NotFoundError{Resource: "isotope"})) {
		t.Fatal("not-found should be a lookup error")
	}
	if IsLookup(&CapacityError{}) {
		t.Fatal("capacity is not a lookup error")
	}
}
