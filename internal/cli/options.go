// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"phtnsrc/internal/config"
	"phtnsrc/internal/logging"
	"phtnsrc/internal/mesh"
	"phtnsrc/internal/sdef"
)

// Artifact modes selectable on the command line.
const (
	ModeSDEF   = "sdef"
	ModeGammas = "gammas"
	ModeMesh   = "mesh"
)

// Options holds all CLI flags.
type Options struct {
	// Input
	Input      string
	ConfigPath string

	// Selection
	Isotope     string
	CoolingStep string
	Mesh        string

	// Artifacts
	SDEF   bool
	Gammas bool
	H5M    bool
	Output string
	Retag  bool
	Totals bool

	// Layout
	ZeroPolicy string
	Wrap       int

	// Reporting
	List     bool
	JSON     bool
	LogLevel string

	Version bool
}

// Register adds every flag to fs. Defaults come from config.Default so the
// help text and the YAML layer agree.
func Register(fs *pflag.FlagSet, opt *Options) {
	def := config.Default()

	fs.StringVarP(&opt.Input, "input", "i", "", "ALARA photon source file ('-' for STDIN, .gz/.xz accepted) [*]")
	fs.StringVar(&opt.ConfigPath, "config", "", "YAML run configuration")

	fs.StringVarP(&opt.Isotope, "isotope", "n", def.Isotope, "isotope heading to aggregate")
	fs.StringVarP(&opt.CoolingStep, "cooling-step", "c", string(def.CoolingStep), "cooling step index or label")
	fs.StringVarP(&opt.Mesh, "mesh", "m", string(def.Mesh), "xmin xmax xint ymin ymax yint zmin zmax zint")

	fs.BoolVarP(&opt.SDEF, "sdef", "s", false, "write the MCNP sdef/si/sp/tr cards")
	fs.BoolVarP(&opt.Gammas, "gammas", "g", false, "write a 'gammas' cumulative table")
	fs.BoolVarP(&opt.H5M, "h5m", "H", false, "tag the mesh store with per-cell source vectors")
	fs.StringVarP(&opt.Output, "output", "o", "", "artifact path for the selected mode ('-' for STDOUT)")
	fs.BoolVar(&opt.Retag, "retag", false, "replace existing mesh tags")
	fs.BoolVar(&opt.Totals, "totals", false, "also tag per-cell total strengths")

	fs.StringVar(&opt.ZeroPolicy, "zero-policy", def.ZeroPolicy, "weighting of empty cells: compat | epsilon")
	fs.IntVar(&opt.Wrap, "wrap", def.WrapWidth, "card wrap width")

	fs.BoolVarP(&opt.List, "list", "l", false, "print the catalog and per-cell strengths")
	fs.BoolVar(&opt.JSON, "json", false, "with --list, print JSON")
	fs.StringVar(&opt.LogLevel, "log-level", def.Log.Level, "debug | info | warn | error")

	fs.BoolVarP(&opt.Version, "version", "v", false, "print version and exit")
}

// Modes lists the selected artifacts in a fixed order.
func (o Options) Modes() []string {
	var out []string
	if o.SDEF {
		out = append(out, ModeSDEF)
	}
	if o.Gammas {
		out = append(out, ModeGammas)
	}
	if o.H5M {
		out = append(out, ModeMesh)
	}
	return out
}

// Validate checks flag values that do not depend on the config file.
func (o Options) Validate() error {
	if n := len(o.Modes()); o.Output != "" && n != 1 {
		return fmt.Errorf("--output needs exactly one of --sdef, --gammas or --h5m (got %d)", n)
	}
	if o.Output == "-" && o.H5M {
		return errors.New("--h5m cannot write to STDOUT")
	}
	if o.JSON && !o.List {
		return errors.New("--json requires --list")
	}
	if (o.Retag || o.Totals) && !o.H5M {
		return errors.New("--retag and --totals require --h5m")
	}
	if o.Wrap < 20 {
		return fmt.Errorf("--wrap %d is below 20", o.Wrap)
	}
	if _, err := sdef.ParseZeroPolicy(o.ZeroPolicy); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(o.LogLevel); err != nil {
		return err
	}
	if _, err := mesh.Parse(o.Mesh); err != nil {
		return fmt.Errorf("--mesh: %w", err)
	}
	return nil
}

// Apply layers explicitly set flags over cfg. Flags left at their default
// never override the config file.
func (o Options) Apply(cfg config.Config, fs *pflag.FlagSet) config.Config {
	set := func(name string) bool { return fs.Changed(name) }
	if set("isotope") {
		cfg.Isotope = o.Isotope
	}
	if set("cooling-step") {
		cfg.CoolingStep = config.Scalar(o.CoolingStep)
	}
	if set("mesh") {
		cfg.Mesh = config.MeshSpec(o.Mesh)
	}
	if set("zero-policy") {
		cfg.ZeroPolicy = o.ZeroPolicy
	}
	if set("wrap") {
		cfg.WrapWidth = o.Wrap
	}
	if set("log-level") {
		cfg.Log.Level = o.LogLevel
	}
	if o.Output != "" {
		switch {
		case o.SDEF:
			cfg.Outputs.SDEF = o.Output
		case o.Gammas:
			cfg.Outputs.Gammas = o.Output
		case o.H5M:
			cfg.Outputs.Mesh = o.Output
		}
	}
	return cfg
}
