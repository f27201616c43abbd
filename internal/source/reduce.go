package source

import (
	"strconv"

	"phtnsrc/internal/errs"
	"phtnsrc/internal/report"
)

// Strengths is the per-cell view of one heading at one cooling step. Totals[i]
// and Vectors[i] belong to mesh cell i of the aggregation they came from.
type Strengths struct {
	Key       string
	Step      int
	StepLabel string
	Totals    []float64
	Vectors   [][]float64
}

// Cells is the number of mesh cells, zero for a nil receiver.
func (s *Strengths) Cells() int {
	if s == nil {
		return 0
	}
	return len(s.Totals)
}

// Sum adds every cell's total.
func (s *Strengths) Sum() float64 {
	var total float64
	for _, v := range s.Totals {
		total += v
	}
	return total
}

// Reduce picks cooling step `step` in every mesh cell and sums its group
// vector into a scalar. The vectors are copied so callers may keep them.
func Reduce(agg *Aggregation, step int) (*Strengths, error) {
	if agg.Cells() == 0 {
		return nil, &errs.PreconditionError{Stage: "reduce", Requires: "an aggregated isotope"}
	}
	if step < 0 {
		return nil, &errs.NotFoundError{Resource: "cooling step", ID: strconv.Itoa(step)}
	}

	out := &Strengths{
		Key:     agg.Key,
		Step:    step,
		Totals:  make([]float64, agg.Cells()),
		Vectors: make([][]float64, agg.Cells()),
	}
	for i := range agg.blocks {
		block := agg.Block(i)
		if step >= len(block) {
			return nil, &errs.NotFoundError{Resource: "cooling step", ID: strconv.Itoa(step) + " in mesh cell " + strconv.Itoa(i+1)}
		}
		row := block[step]
		if i == 0 {
			out.StepLabel = row.Step.Label()
		}
		out.Totals[i] = row.Sum()
		out.Vectors[i] = append([]float64(nil), row.Probs...)
	}
	return out, nil
}

// ReduceSelector resolves selector against the catalog (index or label) and
// reduces at that step.
func ReduceSelector(agg *Aggregation, cat report.Catalog, selector string) (*Strengths, error) {
	step, err := cat.Resolve(selector)
	if err != nil {
		return nil, err
	}
	return Reduce(agg, step)
}
