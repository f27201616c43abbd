package source

import (
	"fmt"

	"phtnsrc/internal/errs"
	"phtnsrc/internal/report"
)

type span struct{ start, end int }

// Aggregation holds the rows of one heading, grouped per mesh cell. Rows are
// kept in one append-only slice; each cell is an index range into it.
type Aggregation struct {
	Key    string
	rows   []report.Row
	blocks []span
}

// Cells is the number of mesh cells found for the key.
func (a *Aggregation) Cells() int {
	if a == nil {
		return 0
	}
	return len(a.blocks)
}

// Block returns the rows of mesh cell i, one per cooling step.
func (a *Aggregation) Block(i int) []report.Row {
	b := a.blocks[i]
	return a.rows[b.start:b.end:b.end]
}

// Aggregate groups the rows headed by key into per-mesh-cell blocks. A
// shutdown row opens a new block; rows of other headings are skipped and do
// not move the boundary. A key with no rows yields a NotFoundError. Every
// block must list the catalog's cooling steps in catalog order; a missing,
// extra or reordered step is a ParseError at the offending row.
func Aggregate(st *report.Stream, key string) (*Aggregation, error) {
	if st == nil {
		return nil, &errs.PreconditionError{Stage: "aggregate", Requires: "a parsed report"}
	}
	if key == "" {
		key = report.TotalKey
	}

	agg := &Aggregation{Key: key}
	for _, r := range st.Rows {
		if r.Heading != key {
			continue
		}
		if r.Step.IsShutdown() {
			if n := len(agg.blocks); n > 0 {
				agg.blocks[n-1].end = len(agg.rows)
			}
			agg.blocks = append(agg.blocks, span{start: len(agg.rows)})
		} else if len(agg.blocks) == 0 {
			return nil, &errs.ParseError{Line: r.Line, Text: r.Heading + " " + r.Step.Label(), Msg: "row precedes the first shutdown row of its heading"}
		}
		agg.rows = append(agg.rows, r)
	}
	if len(agg.blocks) == 0 {
		return nil, &errs.NotFoundError{Resource: "isotope", ID: key}
	}
	agg.blocks[len(agg.blocks)-1].end = len(agg.rows)
	if err := agg.checkSteps(st.Catalog); err != nil {
		return nil, err
	}
	return agg, nil
}

func (a *Aggregation) checkSteps(cat report.Catalog) error {
	for i := range a.blocks {
		block := a.Block(i)
		for k, r := range block {
			if k >= len(cat) {
				return &errs.ParseError{Line: r.Line, Text: r.Heading + " " + r.Step.Label(),
					Msg: fmt.Sprintf("mesh cell %d has more than the %d cataloged cooling steps", i+1, len(cat))}
			}
			if r.Step != cat[k] {
				return &errs.ParseError{Line: r.Line, Text: r.Heading + " " + r.Step.Label(),
					Msg: fmt.Sprintf("mesh cell %d: expected cooling step %q at position %d", i+1, cat[k].Label(), k)}
			}
		}
		if len(block) < len(cat) {
			last := block[len(block)-1]
			return &errs.ParseError{Line: last.Line, Text: last.Heading + " " + last.Step.Label(),
				Msg: fmt.Sprintf("mesh cell %d ends after %d of %d cooling steps", i+1, len(block), len(cat))}
		}
	}
	return nil
}
