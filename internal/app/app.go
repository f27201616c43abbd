// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"phtnsrc/internal/cli"
	"phtnsrc/internal/config"
	"phtnsrc/internal/jsonutil"
	"phtnsrc/internal/logging"
	"phtnsrc/internal/mcnp"
	"phtnsrc/internal/meshtag"
	"phtnsrc/internal/pipeline"
	"phtnsrc/internal/sdef"
	"phtnsrc/internal/version"
	"phtnsrc/internal/writers"
)

const name = "phtn-src"

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	var opts cli.Options
	code := ExitOK
	cmd := &cobra.Command{
		Use:           name,
		Short:         "Convert ALARA photon source output to MCNP source cards",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code = run(cmd.Context(), cmd.Flags(), opts, outw, stderr)
			return nil
		},
	}
	cli.Register(cmd.Flags(), &opts)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) { cli.Usage(c.OutOrStdout(), c.Flags(), name) })
	if argv == nil {
		argv = []string{}
	}
	cmd.SetArgs(argv)
	cmd.SetOut(outw)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(parent); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		cli.Usage(stderr, cmd.Flags(), name)
		code = ExitUsage
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return code
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return ExitIO
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func run(ctx context.Context, fs *pflag.FlagSet, opts cli.Options, outw *bufio.Writer, stderr io.Writer) int {
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return ExitOK
	}
	if err := opts.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	cfg = opts.Apply(cfg, fs)
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	if opts.Input == "" {
		_, _ = fmt.Fprintln(outw, cli.Hint)
		_, _ = fmt.Fprintln(outw)
		cli.Usage(outw, fs, name)
		return ExitOK
	}

	log, err := logging.New(cfg.Log.Level, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	defer func() { _ = log.Sync() }()

	pcfg, err := pipelineConfig(opts, cfg)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	var open pipeline.OpenTagger
	if opts.H5M {
		open = func(ctx context.Context) (pipeline.Tagger, error) {
			store, err := meshtag.Open(ctx, cfg.Outputs.Mesh)
			if err != nil {
				return nil, err
			}
			return store, nil
		}
	}

	log.Debug("starting", zap.String("input", opts.Input), zap.Strings("modes", opts.Modes()))
	res, err := pipeline.Run(ctx, log, pcfg, open, outw)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return ExitCode(err)
	}

	// Artifacts on STDOUT keep the stream clean; notes go to stderr then.
	notes := io.Writer(outw)
	for _, p := range pcfg.Outputs {
		if p == "-" {
			notes = stderr
		}
	}

	if opts.List {
		if opts.JSON {
			if err := jsonutil.EncodePretty(outw, pipeline.Summary(opts.Input, res.Stream, res.Strengths, true)); err != nil {
				_, _ = fmt.Fprintln(stderr, err)
				return ExitIO
			}
		} else {
			printList(outw, res)
		}
	} else if len(opts.Modes()) == 0 {
		_, _ = fmt.Fprintf(notes, "Cooling steps are:\n%s\n", strings.Join(quoted(res.Stream.Catalog.Labels()), ", "))
	}

	for i, art := range res.Artifacts {
		switch pcfg.Modes[i] {
		case writers.ModeSDEF:
			_, _ = fmt.Fprintf(notes, "Wrote sdef cards for %d mesh cells to %s.\n%s\n", res.Strengths.Cells(), art.Path, sdef.Reminder)
		case writers.ModeGammas:
			_, _ = fmt.Fprintf(notes, "Wrote gammas table for %d mesh cells to %s.\n", res.Strengths.Cells(), art.Path)
		}
	}
	if len(res.Tags) > 0 {
		_, _ = fmt.Fprintf(notes, "Tagged %s with %s.\n", cfg.Outputs.Mesh, strings.Join(res.Tags, ", "))
	}
	return ExitOK
}

func pipelineConfig(opts cli.Options, cfg config.Config) (pipeline.Config, error) {
	g, err := cfg.Geometry()
	if err != nil {
		return pipeline.Config{}, err
	}
	policy, err := sdef.ParseZeroPolicy(cfg.ZeroPolicy)
	if err != nil {
		return pipeline.Config{}, err
	}
	pc := pipeline.Config{
		Input:       opts.Input,
		Isotope:     cfg.Isotope,
		CoolingStep: string(cfg.CoolingStep),
		Geometry:    g,
		Outputs:     map[string]string{},
		Wrap:        cfg.WrapWidth,
		ZeroPolicy:  policy,
		Retag:       opts.Retag,
		Totals:      opts.Totals,
	}
	if opts.SDEF {
		pc.Modes = append(pc.Modes, writers.ModeSDEF)
		pc.Outputs[writers.ModeSDEF] = cfg.Outputs.SDEF
	}
	if opts.Gammas {
		pc.Modes = append(pc.Modes, writers.ModeGammas)
		pc.Outputs[writers.ModeGammas] = cfg.Outputs.Gammas
	}
	return pc, nil
}

func printList(w io.Writer, res *pipeline.Result) {
	s := res.Strengths
	_, _ = fmt.Fprintf(w, "Cooling steps are:\n%s\n\n", strings.Join(quoted(res.Stream.Catalog.Labels()), ", "))
	_, _ = fmt.Fprintf(w, "Isotope %s at cooling step %d (%s)\n", s.Key, s.Step, s.StepLabel)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "cell\tstrength")
	for i, v := range s.Totals {
		_, _ = fmt.Fprintf(tw, "%d\t%s\n", i+1, mcnp.Float(v))
	}
	_, _ = fmt.Fprintf(tw, "total\t%s\n", mcnp.Float(s.Sum()))
	_ = tw.Flush()
}

func quoted(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = "'" + l + "'"
	}
	return out
}
