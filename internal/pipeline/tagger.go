// internal/pipeline/tagger.go
package pipeline

import (
	"context"

	"phtnsrc/internal/mesh"
)

// Tag names written to the mesh.
const (
	TagSource = "phtn_src"
	TagTotal  = "phtn_src_total"
)

// Tagger is the minimal mesh capability the pipeline needs.
// The sqlite store (and fakes in tests) satisfy it.
type Tagger interface {
	Init(ctx context.Context, g mesh.Geometry) error
	Has(ctx context.Context, name string) (bool, error)
	Tag(ctx context.Context, name string, cells [][]float64, replace bool) error
	TagScalars(ctx context.Context, name string, values []float64, replace bool) error
	Close() error
}

// OpenTagger opens the mesh store. Run calls it only once the reduction has
// succeeded, so a failed lookup never creates the store.
type OpenTagger func(ctx context.Context) (Tagger, error)
