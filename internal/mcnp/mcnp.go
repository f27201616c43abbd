// Package mcnp holds the input-deck conventions shared by the emitters:
// the fixed photon energy group structure, card wrapping, and number
// rendering.
package mcnp

import (
	"math"
	"strconv"
	"strings"
)

// GroupBounds are the 43 photon energy boundaries (MeV) of the activation
// code's 42-group structure. Every cell uses the same structure.
var GroupBounds = []string{
	"0", "1e-2", "2e-2", "3e-2", "4.5e-2", "6e-2", "7e-2", "7.5e-2", "1e-1",
	"1.5e-1", "2e-1", "3e-1", "4e-1", "4.5e-1", "5.1e-1", "5.12e-1", "6e-1",
	"7e-1", "8e-1", "1e0", "1.33e0", "1.34e0", "1.5e0", "1.66e0", "2e0",
	"2.5e0", "3e0", "3.5e0", "4e0", "4.5e0", "5e0", "5.5e0", "6e0", "6.5e0",
	"7e0", "7.5e0", "8e0", "1e1", "1.2e1", "1.4e1", "2e1", "3e1", "5e1",
}

// GroupCount is the number of energy groups in every probability vector.
const GroupCount = 42

// MaterialCount is the size of the material catalog listed in a gammas file.
const MaterialCount = 100

const (
	// DefaultWrap is the card image width.
	DefaultWrap = 80
	// ContinuationIndent starts every continuation line of a card.
	ContinuationIndent = "     "
)

// Wrap lays out the whitespace-separated tokens of one logical card over as
// many lines as needed. The first line has no indent, continuation lines are
// indented five columns. Only whitespace breaks a line, never a hyphen, and a
// token wider than the card sits alone on its line.
func Wrap(card string, width int) []string {
	if width <= len(ContinuationIndent) {
		width = DefaultWrap
	}
	words := strings.Fields(card)
	if len(words) == 0 {
		return nil
	}

	var (
		lines []string
		cur   strings.Builder
		fresh = true
	)
	for _, w := range words {
		if !fresh && cur.Len()+1+len(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(ContinuationIndent)
			fresh = true
		}
		if !fresh {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
		fresh = false
	}
	return append(lines, cur.String())
}

// Card joins a mnemonic and its entries and wraps the result.
func Card(width int, name string, entries ...string) []string {
	return Wrap(name+" "+strings.Join(entries, " "), width)
}

// Float renders v as the shortest decimal that reads back to v, in the
// notation deck writers have always used: integral values keep a ".0",
// and magnitudes outside [1e-4, 1e16) switch to exponent form ("1e-05").
func Float(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// Floats renders every value with Float.
func Floats(vs []float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

// Ints renders lo..hi inclusive.
func Ints(lo, hi int) []string {
	if hi < lo {
		return nil
	}
	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}
