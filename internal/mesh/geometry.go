// Package mesh describes the structured Cartesian grid that the source report
// was computed on.
package mesh

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"phtnsrc/internal/errs"
)

// Axis is one direction of the grid: [Min, Max] split into Intervals bins.
type Axis struct {
	Min       float64
	Max       float64
	Intervals int
}

// Spacing is the width of one bin.
func (a Axis) Spacing() float64 { return (a.Max - a.Min) / float64(a.Intervals) }

// HalfSpacing is half the bin width.
func (a Axis) HalfSpacing() float64 { return a.Spacing() / 2 }

// Center is the midpoint of bin i, counting from zero.
func (a Axis) Center(i int) float64 { return a.Min + float64(2*i+1)*a.HalfSpacing() }

// Boundaries lists Min followed by the upper edge of every bin.
func (a Axis) Boundaries() []float64 {
	d := a.Spacing()
	out := make([]float64, 0, a.Intervals+1)
	out = append(out, a.Min)
	for n := 1; n <= a.Intervals; n++ {
		out = append(out, a.Min+float64(n)*d)
	}
	return out
}

// Geometry is the x, y, z axes of the grid.
type Geometry [3]Axis

// AxisNames labels the Geometry entries.
var AxisNames = [3]string{"x", "y", "z"}

// Limits on the grid size. Far above anything a source report can describe.
const (
	MaxIntervals = 1 << 20
	MaxCells     = 1 << 24
)

// CellCount is the product of the interval counts. Call Validate first; the
// product is only meaningful for a valid geometry.
func (g Geometry) CellCount() int {
	return g[0].Intervals * g[1].Intervals * g[2].Intervals
}

// Validate checks that every axis has a finite positive extent and between 1
// and MaxIntervals bins, and that the grid has at most MaxCells cells.
func (g Geometry) Validate() error {
	cells := 1
	for i, a := range g {
		if a.Intervals < 1 || a.Intervals > MaxIntervals {
			return fmt.Errorf("mesh %s axis: interval count must be in [1, %d], got %d", AxisNames[i], MaxIntervals, a.Intervals)
		}
		if math.IsInf(a.Min, 0) || math.IsInf(a.Max, 0) || !(a.Max > a.Min) {
			return fmt.Errorf("mesh %s axis: max (%g) must exceed min (%g)", AxisNames[i], a.Max, a.Min)
		}
		if cells > MaxCells/a.Intervals {
			return fmt.Errorf("mesh has more than %d cells", MaxCells)
		}
		cells *= a.Intervals
	}
	return nil
}

// CheckCells returns a GeometryMismatchError unless the grid has n cells.
func (g Geometry) CheckCells(n int) error {
	if c := g.CellCount(); c != n {
		return &errs.GeometryMismatchError{GeometryCells: c, Cells: n}
	}
	return nil
}

// Centers visits every cell centre, x outermost and z innermost. This is the
// order the source report lists its mesh cells in.
func (g Geometry) Centers(visit func(n int, x, y, z float64)) {
	n := 0
	for i := 0; i < g[0].Intervals; i++ {
		for j := 0; j < g[1].Intervals; j++ {
			for k := 0; k < g[2].Intervals; k++ {
				visit(n, g[0].Center(i), g[1].Center(j), g[2].Center(k))
				n++
			}
		}
	}
}

// Flat returns the nine numbers xmin xmax xint ymin ymax yint zmin zmax zint.
func (g Geometry) Flat() []float64 {
	out := make([]float64, 0, 9)
	for _, a := range g {
		out = append(out, a.Min, a.Max, float64(a.Intervals))
	}
	return out
}

// Default is the unit cube with one cell.
var Default = Geometry{{0, 1, 1}, {0, 1, 1}, {0, 1, 1}}

// FromFlat builds a geometry from nine numbers in the Flat order. The
// interval counts must be whole numbers.
func FromFlat(v []float64) (Geometry, error) {
	var g Geometry
	if len(v) != 9 {
		return g, fmt.Errorf("mesh needs 9 values (xmin xmax xintervals ymin ymax yintervals zmin zmax zintervals), got %d", len(v))
	}
	for i := range g {
		n := v[3*i+2]
		if n < 1 || n > MaxIntervals {
			return g, fmt.Errorf("mesh %s axis: interval count must be in [1, %d], got %g", AxisNames[i], MaxIntervals, n)
		}
		if n != math.Trunc(n) {
			return g, fmt.Errorf("mesh %s axis: interval count %g is not an integer", AxisNames[i], n)
		}
		g[i] = Axis{Min: v[3*i], Max: v[3*i+1], Intervals: int(n)}
	}
	return g, g.Validate()
}

// Parse reads the nine values from a string separated by spaces and/or commas.
func Parse(s string) (Geometry, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Geometry{}, fmt.Errorf("mesh value %q: %w", f, err)
		}
		vals[i] = v
	}
	return FromFlat(vals)
}
