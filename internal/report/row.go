package report

import (
	"strconv"
	"strings"

	"phtnsrc/internal/errs"
)

// Shutdown is the zero-time cooling step. It is also the marker for the first
// row of every mesh cell's group of cooling steps.
const Shutdown = "shutdown"

// TotalKey is the heading of the per-cell sum over all isotopes.
const TotalKey = "TOTAL"

// CoolingStep identifies an elapsed time after irradiation: either the single
// token "shutdown" or a (magnitude, unit) pair such as ("1", "d").
type CoolingStep struct {
	Magnitude string
	Unit      string
}

// ShutdownStep is the sentinel cooling step.
var ShutdownStep = CoolingStep{Magnitude: Shutdown}

// IsShutdown reports whether s is the sentinel.
func (s CoolingStep) IsShutdown() bool { return s.Magnitude == Shutdown && s.Unit == "" }

// Label renders the step the way it appears in the report.
func (s CoolingStep) Label() string {
	if s.Unit == "" {
		return s.Magnitude
	}
	return s.Magnitude + " " + s.Unit
}

func (s CoolingStep) String() string { return s.Label() }

// Row is one tokenized line of the report.
type Row struct {
	Heading string
	Step    CoolingStep
	Probs   []float64
	Line    int
}

// Sum adds the row's group values in file order.
func (r Row) Sum() float64 {
	var total float64
	for _, p := range r.Probs {
		total += p
	}
	return total
}

// ParseLine tokenizes one report line. lineNo is only used for error context.
func ParseLine(line string, lineNo int) (Row, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Row{}, &errs.ParseError{Line: lineNo, Text: strings.TrimSpace(line), Msg: "expected a heading and a cooling step"}
	}

	row := Row{Heading: fields[0], Line: lineNo}
	rest := fields[2:]
	if fields[1] == Shutdown {
		row.Step = ShutdownStep
	} else {
		if len(fields) < 3 {
			return Row{}, &errs.ParseError{Line: lineNo, Text: strings.TrimSpace(line), Msg: "cooling step needs a magnitude and a unit"}
		}
		row.Step = CoolingStep{Magnitude: fields[1], Unit: fields[2]}
		rest = fields[3:]
	}

	row.Probs = make([]float64, len(rest))
	for i, tok := range rest {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Row{}, &errs.ParseError{Line: lineNo, Text: tok, Msg: "invalid source strength"}
		}
		row.Probs[i] = v
	}
	return row, nil
}
