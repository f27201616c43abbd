// internal/cli/usage.go
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"phtnsrc/internal/version"
)

// Hint is printed when no input file is given.
const Hint = "A photon source file is needed to begin. Use the -i option."

// Usage prints the sectioned help for fs.
func Usage(out io.Writer, fs *pflag.FlagSet, name string) {
	def := func(flagName string) string {
		if f := fs.Lookup(flagName); f != nil {
			return f.DefValue
		}
		return ""
	}

	fmt.Fprintf(out, "%s – ALARA photon source to MCNP converter\n\n", name)
	fmt.Fprintf(out, "Version: %s\n\n", version.Version)
	fmt.Fprintf(out, "Usage:\n  %s -i phtn_src [-m \"xmin xmax xint ymin ymax yint zmin zmax zint\"] [-s] [-g] [-H]\n", name)

	fmt.Fprintln(out, "\nInput:")
	fmt.Fprintln(out, "  -i, --input file            ALARA photon source file ('-' for STDIN, .gz/.xz ok) [*]")
	fmt.Fprintln(out, "      --config file           YAML run configuration")

	fmt.Fprintln(out, "\nSelection:")
	fmt.Fprintf(out, "  -n, --isotope string        Isotope heading to aggregate [%s]\n", def("isotope"))
	fmt.Fprintf(out, "  -c, --cooling-step string   Cooling step index or label [%s]\n", def("cooling-step"))
	fmt.Fprintf(out, "  -m, --mesh string           Nine mesh values, space or comma separated [%s]\n", def("mesh"))

	fmt.Fprintln(out, "\nArtifacts:")
	fmt.Fprintln(out, "  -s, --sdef                  MCNP sdef/si/sp/tr cards [phtn_sdef]")
	fmt.Fprintln(out, "  -g, --gammas                'gammas' cumulative table [gammas]")
	fmt.Fprintln(out, "  -H, --h5m                   Tag the mesh store [phtn_src.db]")
	fmt.Fprintln(out, "  -o, --output file           Path for the selected artifact ('-' for STDOUT)")
	fmt.Fprintln(out, "      --retag                 Replace existing mesh tags")
	fmt.Fprintln(out, "      --totals                Also tag per-cell totals")

	fmt.Fprintln(out, "\nLayout:")
	fmt.Fprintf(out, "      --zero-policy string    Empty cell weighting: compat | epsilon [%s]\n", def("zero-policy"))
	fmt.Fprintf(out, "      --wrap int              Card wrap width [%s]\n", def("wrap"))

	fmt.Fprintln(out, "\nMiscellaneous:")
	fmt.Fprintln(out, "  -l, --list                  Print catalog and per-cell strengths")
	fmt.Fprintln(out, "      --json                  With --list, print JSON")
	fmt.Fprintf(out, "      --log-level string      debug | info | warn | error [%s]\n", def("log-level"))
	fmt.Fprintln(out, "  -v, --version               Print version and exit")
	fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
}
