// internal/writers/registry.go
package writers

import (
	"fmt"
	"sort"
	"strings"

	"phtnsrc/internal/gammas"
	"phtnsrc/internal/mesh"
	"phtnsrc/internal/sdef"
	"phtnsrc/internal/source"
)

// Output modes with a registered text builder.
const (
	ModeSDEF   = "sdef"
	ModeGammas = "gammas"
)

// BuildOptions carries the layout knobs a builder may use.
type BuildOptions struct {
	Wrap       int
	ZeroPolicy sdef.ZeroPolicy
}

// Builder renders one artifact as lines, without touching the filesystem.
type Builder struct {
	Build func(*source.Strengths, mesh.Geometry, BuildOptions) ([]string, error)
	// TrailingNewline ends the last line with '\n'.
	TrailingNewline bool
	// DefaultPath is used when no output path is configured.
	DefaultPath string
}

// Builders maps an output mode to its builder. Register in init().
var Builders = map[string]Builder{}

// Register adds or replaces (last wins) the builder for mode.
func Register(mode string, b Builder) { Builders[mode] = b }

// Lookup returns the builder for mode.
func Lookup(mode string) (Builder, error) {
	b, ok := Builders[mode]
	if !ok {
		return Builder{}, fmt.Errorf("unknown output mode %q (registered: %s)", mode, strings.Join(Modes(), ", "))
	}
	return b, nil
}

// Modes lists the registered modes in sorted order.
func Modes() []string {
	out := make([]string, 0, len(Builders))
	for m := range Builders {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(ModeSDEF, Builder{
		Build: func(s *source.Strengths, g mesh.Geometry, o BuildOptions) ([]string, error) {
			return sdef.Build(s, g, sdef.Options{Wrap: o.Wrap, Policy: o.ZeroPolicy})
		},
		DefaultPath: "phtn_sdef",
	})
	Register(ModeGammas, Builder{
		Build: func(s *source.Strengths, g mesh.Geometry, _ BuildOptions) ([]string, error) {
			return gammas.Build(s, g)
		},
		TrailingNewline: true,
		DefaultPath:     "gammas",
	})
}
