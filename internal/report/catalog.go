package report

import (
	"strconv"
	"strings"

	"phtnsrc/internal/errs"
)

// Catalog is the ordered set of cooling steps found in one mesh cell's group.
// The position of a step is its numeric id everywhere else.
type Catalog []CoolingStep

// Labels returns the rendered cooling steps in catalog order.
func (c Catalog) Labels() []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.Label()
	}
	return out
}

// Index returns the position of the step with the given label, or -1.
// Runs of whitespace inside the label are ignored, so "1  d" matches "1 d".
func (c Catalog) Index(label string) int {
	want := strings.Join(strings.Fields(label), " ")
	for i, s := range c {
		if s.Label() == want {
			return i
		}
	}
	return -1
}

// Resolve turns a selector into a catalog index. A selector is either a
// decimal index or a cooling step label such as "shutdown" or "3 y".
func (c Catalog) Resolve(selector string) (int, error) {
	sel := strings.TrimSpace(selector)
	if n, err := strconv.Atoi(sel); err == nil {
		if n < 0 || n >= len(c) {
			return 0, &errs.NotFoundError{Resource: "cooling step", ID: sel}
		}
		return n, nil
	}
	if i := c.Index(sel); i >= 0 {
		return i, nil
	}
	return 0, &errs.NotFoundError{Resource: "cooling step", ID: sel}
}

type discoveryState int

const (
	discovering discoveryState = iota
	discovered
)

// catalogBuilder records cooling steps until the sentinel comes round again.
// It assumes every mesh cell repeats the same sequence starting at shutdown.
type catalogBuilder struct {
	state   discoveryState
	catalog Catalog
}

func (b *catalogBuilder) observe(step CoolingStep) {
	if b.state == discovered {
		return
	}
	if len(b.catalog) > 0 && step.IsShutdown() {
		b.state = discovered
		return
	}
	for _, s := range b.catalog {
		if s == step {
			return
		}
	}
	b.catalog = append(b.catalog, step)
}
