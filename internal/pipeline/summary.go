package pipeline

import (
	"phtnsrc/internal/report"
	"phtnsrc/internal/source"
	"phtnsrc/pkg/api"
)

// Summary converts a reduction into the stable JSON schema. withGroups keeps
// the per-group vectors.
func Summary(input string, st *report.Stream, s *source.Strengths, withGroups bool) api.SummaryV1 {
	out := api.SummaryV1{
		Input:       input,
		Isotope:     s.Key,
		CoolingStep: s.Step,
		StepLabel:   s.StepLabel,
		Cells:       make([]api.CellV1, s.Cells()),
		Total:       s.Sum(),
	}
	if st != nil {
		out.Catalog = st.Catalog.Labels()
		out.Headings = st.Headings()
	}
	for i := range out.Cells {
		c := api.CellV1{Cell: i + 1, Strength: s.Totals[i]}
		if withGroups {
			c.Groups = s.Vectors[i]
		}
		if n := len(s.Vectors[i]); n > out.Groups {
			out.Groups = n
		}
		out.Cells[i] = c
	}
	return out
}
