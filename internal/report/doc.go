// Package report tokenizes photon source reports written by the activation
// code. A report has one line per (mesh cell, isotope, cooling step):
//
//	TOTAL shutdown 1.2e+03 4.5e+02 ...
//	TOTAL 1 d      9.9e+02 3.1e+02 ...
//
// The row type is positional: a cooling step is either the single token
// "shutdown" or a magnitude/unit pair. Nothing in the file marks where one
// mesh cell ends; the next cell starts when "shutdown" comes round again.
package report
