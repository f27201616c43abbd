// Package pipeline runs one conversion: read the activation report, reduce
// it to per-cell strengths for one isotope and cooling step, then hand the
// result to the selected emitters and the mesh tagger.
//
// Each stage returns a new value; the context is checked between stages.
// The only external contract is Tagger, so mesh tagging stays swappable and
// testable.
package pipeline
