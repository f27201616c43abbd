// Package sdef builds an SDEF deck fragment that samples photons from a mesh
// of per-cell source strengths: a cell selector over transform cards, uniform
// sampling inside each cell, and a per-cell energy spectrum.
package sdef

import (
	"fmt"
	"strconv"

	"phtnsrc/internal/errs"
	"phtnsrc/internal/mcnp"
	"phtnsrc/internal/mesh"
	"phtnsrc/internal/source"
)

// MaxCells is the largest mesh the fragment can number: distributions
// 995-999 are reserved for the sampling cards.
const MaxCells = 993

// Distribution numbers of the fixed sampling cards.
const (
	distCell   = 995
	distX      = 996
	distY      = 997
	distZ      = 998
	distEnergy = 999
)

// Header is the sampling control card.
const Header = "sdef par=2 x=d996 y=d997 z=d998  erg ftr d999 tr=d995"

// Reminder is printed after the fragment is written.
const Reminder = "Remember to change imp:n to imp:p and update the mode card for photon transport."

// ZeroPolicy decides how cells without any photon source are sampled. The
// deck format rejects a distribution whose probabilities are all zero.
type ZeroPolicy string

const (
	// ZeroCompat adds one to every group value of an empty cell, so the cell
	// is weighted as if it emitted one unit per group with a flat spectrum.
	ZeroCompat ZeroPolicy = "compat"
	// ZeroEpsilon gives an empty cell a weight of Epsilon times the total of
	// the non-empty cells, with a flat spectrum.
	ZeroEpsilon ZeroPolicy = "epsilon"
)

// Epsilon is the relative weight of an empty cell under ZeroEpsilon.
const Epsilon = 1e-12

// ParseZeroPolicy validates a policy name; empty means ZeroCompat.
func ParseZeroPolicy(s string) (ZeroPolicy, error) {
	switch ZeroPolicy(s) {
	case "", ZeroCompat:
		return ZeroCompat, nil
	case ZeroEpsilon:
		return ZeroEpsilon, nil
	}
	return "", fmt.Errorf("invalid zero policy %q (want %s | %s)", s, ZeroCompat, ZeroEpsilon)
}

// Options tunes the layout.
type Options struct {
	Wrap   int // card width, mcnp.DefaultWrap when zero
	Policy ZeroPolicy
}

// Check reports whether s and g can be written as a fragment.
func Check(s *source.Strengths, g mesh.Geometry) error {
	if s.Cells() == 0 {
		return &errs.PreconditionError{Stage: "sdef", Requires: "reduced source strengths"}
	}
	if n := s.Cells(); n > MaxCells {
		return &errs.CapacityError{Format: "sdef", Count: n, Limit: MaxCells}
	}
	if err := g.CheckCells(s.Cells()); err != nil {
		return err
	}
	return checkGroups(s)
}

func checkGroups(s *source.Strengths) error {
	for i, v := range s.Vectors {
		if len(v) != mcnp.GroupCount {
			return &errs.ParseError{
				Text: fmt.Sprintf("mesh cell %d", i+1),
				Msg:  fmt.Sprintf("expected %d energy groups, got %d", mcnp.GroupCount, len(v)),
			}
		}
	}
	return nil
}

// Build lays out the whole fragment. Nothing is returned on failure.
func Build(s *source.Strengths, g mesh.Geometry, opt Options) ([]string, error) {
	if err := Check(s, g); err != nil {
		return nil, err
	}
	width := opt.Wrap
	if width == 0 {
		width = mcnp.DefaultWrap
	}
	n := s.Cells()
	cells := mcnp.Ints(1, n)

	lines := []string{Header}
	card := func(name string, entries ...string) {
		lines = append(lines, mcnp.Card(width, name, entries...)...)
	}

	lines = append(lines, fmt.Sprintf("c si%d - mesh cell selection through transforms", distCell))
	card(fmt.Sprintf("si%d L", distCell), cells...)
	card(fmt.Sprintf("sp%d D", distCell), mcnp.Floats(CellWeights(s, opt.Policy))...)

	for i, d := range []int{distX, distY, distZ} {
		h := g[i].HalfSpacing()
		lines = append(lines, fmt.Sprintf("c si%d - %s sampling", d, mesh.AxisNames[i]))
		card(fmt.Sprintf("si%d H", d), mcnp.Float(-h), mcnp.Float(h))
		lines = append(lines, fmt.Sprintf("sp%d D 0 1", d))
	}

	lines = append(lines, fmt.Sprintf("c ds%d - energy distribution of each mesh cell", distEnergy))
	card(fmt.Sprintf("ds%d S", distEnergy), cells...)

	for i, v := range s.Vectors {
		num := strconv.Itoa(i + 1)
		spectrum, placeholder := Spectrum(v)
		if placeholder {
			lines = append(lines,
				"c  mesh cell "+num+" has no photon source;",
				"c  its flat spectrum only keeps the card valid")
		}
		card("si"+num, mcnp.GroupBounds...)
		card("sp"+num+" 0", mcnp.Floats(spectrum)...)
	}

	g.Centers(func(k int, x, y, z float64) {
		lines = append(lines, fmt.Sprintf("tr%d %s %s %s", k+1, mcnp.Float(x), mcnp.Float(y), mcnp.Float(z)))
	})
	return lines, nil
}

// CellWeights returns the probability of sampling each mesh cell. The result
// sums to one; cells with zero strength are weighted according to policy.
func CellWeights(s *source.Strengths, policy ZeroPolicy) []float64 {
	w := make([]float64, s.Cells())
	var nonzero float64
	for _, t := range s.Totals {
		nonzero += t
	}
	for i, t := range s.Totals {
		switch {
		case t != 0:
			w[i] = t
		case policy == ZeroEpsilon && nonzero != 0:
			w[i] = Epsilon * nonzero
		case policy == ZeroEpsilon:
			w[i] = 1
		default:
			w[i] = float64(len(s.Vectors[i]))
		}
	}
	return normalize(w)
}

// Spectrum normalizes a group vector to sum to one. A vector that sums to
// zero becomes flat (every value plus one, normalized) and placeholder is set.
func Spectrum(v []float64) (out []float64, placeholder bool) {
	var sum float64
	for _, x := range v {
		sum += x
	}
	out = make([]float64, len(v))
	if sum == 0 {
		for i, x := range v {
			out[i] = x + 1
		}
		return normalize(out), true
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out, false
}

func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum == 0 {
		return v
	}
	for i := range v {
		v[i] /= sum
	}
	return v
}
