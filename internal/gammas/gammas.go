// Package gammas builds the "gammas" source table read by patched transport
// builds: the mesh layout followed by one cumulative spectrum per mesh cell.
//
// The reader is positional. Every spectrum value takes exactly FieldWidth
// columns and there is no separator between values.
package gammas

import (
	"fmt"
	"strconv"
	"strings"

	"phtnsrc/internal/errs"
	"phtnsrc/internal/mcnp"
	"phtnsrc/internal/mesh"
	"phtnsrc/internal/source"
)

// FieldWidth is the width of one cumulative probability field.
const FieldWidth = 12

// fieldFormat is left-justified scientific notation with five decimals.
const fieldFormat = "%-12.5E"

// Build lays out the table. Nothing is returned on failure.
func Build(s *source.Strengths, g mesh.Geometry) ([]string, error) {
	if s.Cells() == 0 {
		return nil, &errs.PreconditionError{Stage: "gammas", Requires: "reduced source strengths"}
	}
	if err := g.CheckCells(s.Cells()); err != nil {
		return nil, err
	}
	for i, v := range s.Vectors {
		if len(v) != mcnp.GroupCount {
			return nil, &errs.ParseError{
				Text: fmt.Sprintf("mesh cell %d", i+1),
				Msg:  fmt.Sprintf("expected %d energy groups, got %d", mcnp.GroupCount, len(v)),
			}
		}
	}

	lines := make([]string, 0, 5+s.Cells())
	lines = append(lines, header(g))
	for _, a := range g {
		lines = append(lines, strings.Join(mcnp.Floats(a.Boundaries()), " "))
	}
	lines = append(lines, strings.Join(mcnp.Ints(1, mcnp.MaterialCount), " "))

	var b strings.Builder
	for _, v := range s.Vectors {
		b.Reset()
		for _, c := range Cumulative(v) {
			fmt.Fprintf(&b, fieldFormat, c)
		}
		lines = append(lines, b.String())
	}
	return lines, nil
}

// header lists each axis as "[min, max, intervals]", axes separated by one
// space.
func header(g mesh.Geometry) string {
	parts := make([]string, 0, 3)
	for _, a := range g {
		parts = append(parts, "["+mcnp.Float(a.Min)+", "+mcnp.Float(a.Max)+", "+strconv.Itoa(a.Intervals)+"]")
	}
	return strings.Join(parts, " ")
}

// Cumulative returns the running sum of v divided by its value at the last
// energy group, so the final entry is 1. A vector whose total is zero is
// treated as flat.
func Cumulative(v []float64) []float64 {
	out := make([]float64, len(v))
	var run float64
	for i, x := range v {
		run += x
		out[i] = run
	}
	last := mcnp.GroupCount - 1
	if last >= len(out) {
		last = len(out) - 1
	}
	if last < 0 {
		return out
	}
	norm := out[last]
	if norm == 0 {
		run = 0
		for i, x := range v {
			run += x + 1
			out[i] = run
		}
		norm = out[last]
	}
	for i := range out {
		out[i] /= norm
	}
	return out
}
