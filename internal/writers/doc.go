// Package writers turns reduced source strengths into files on disk.
//
// Design:
//   • Builders (sdef, gammas) own the layout and never touch the filesystem.
//   • Writers own persistence: one whole-file write per artifact.
//   • The registry maps an output mode to its builder.
package writers
