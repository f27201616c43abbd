// Package source turns a tokenized report into per-cell source strengths.
//
// Aggregate and Reduce are pure: each returns a new value and never mutates
// its input, so the caller composes the stages explicitly.
package source
