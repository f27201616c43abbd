// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"phtnsrc/internal/errs"
	"phtnsrc/internal/mesh"
	"phtnsrc/internal/report"
	"phtnsrc/internal/sdef"
	"phtnsrc/internal/source"
	"phtnsrc/internal/writers"
)

// Config describes one conversion.
type Config struct {
	Input       string // report path or "-"
	Isotope     string // heading to aggregate; "" means TOTAL
	CoolingStep string // catalog index or label
	Geometry    mesh.Geometry

	Modes   []string          // text artifacts to write (writers.ModeSDEF, writers.ModeGammas)
	Outputs map[string]string // mode -> path; missing entries use the builder default

	Wrap       int
	ZeroPolicy sdef.ZeroPolicy

	Retag  bool // replace existing mesh tags
	Totals bool // also tag per-cell scalar totals
}

// Result is what a run produced.
type Result struct {
	Stream    *report.Stream
	Strengths *source.Strengths
	Artifacts []writers.Artifact
	Tags      []string
}

// Load reads and parses the report.
func Load(ctx context.Context, log *zap.Logger, path string) (*report.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	st, err := report.ReadPath(path)
	if err != nil {
		return nil, err
	}
	log.Debug("parsed report",
		zap.String("input", path),
		zap.Int("rows", len(st.Rows)),
		zap.Int("catalog", len(st.Catalog)),
		zap.Duration("took", time.Since(start)))
	return st, nil
}

// Select aggregates the isotope and reduces at the cooling step.
func Select(ctx context.Context, log *zap.Logger, st *report.Stream, isotope, step string) (*source.Strengths, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	agg, err := source.Aggregate(st, isotope)
	if err != nil {
		return nil, err
	}
	var cat report.Catalog
	if st != nil {
		cat = st.Catalog
	}
	s, err := source.ReduceSelector(agg, cat, step)
	if err != nil {
		return nil, err
	}
	log.Debug("reduced source",
		zap.String("isotope", s.Key),
		zap.Int("step", s.Step),
		zap.String("label", s.StepLabel),
		zap.Int("cells", s.Cells()),
		zap.Float64("total", s.Sum()))
	return s, nil
}

// Emit builds and writes every requested text artifact. All builds run
// before the first write, so a rejected request writes nothing.
func Emit(ctx context.Context, log *zap.Logger, s *source.Strengths, cfg Config, stdout io.Writer) ([]writers.Artifact, error) {
	type pending struct {
		path    string
		lines   []string
		newline bool
	}
	opt := writers.BuildOptions{Wrap: cfg.Wrap, ZeroPolicy: cfg.ZeroPolicy}

	var work []pending
	for _, mode := range cfg.Modes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := writers.Lookup(mode)
		if err != nil {
			return nil, err
		}
		lines, err := b.Build(s, cfg.Geometry, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mode, err)
		}
		path := cfg.Outputs[mode]
		if path == "" {
			path = b.DefaultPath
		}
		work = append(work, pending{path: path, lines: lines, newline: b.TrailingNewline})
	}

	arts := make([]writers.Artifact, 0, len(work))
	for _, w := range work {
		if err := ctx.Err(); err != nil {
			return arts, err
		}
		art, err := writers.WriteLines(w.path, w.lines, w.newline, stdout)
		if err != nil {
			return arts, err
		}
		log.Info("wrote artifact",
			zap.String("path", art.Path),
			zap.Int("lines", art.Lines),
			zap.String("size", humanize.Bytes(uint64(art.Size))),
			zap.String("blake3", art.BLAKE3))
		arts = append(arts, art)
	}
	return arts, nil
}

// TagMesh writes the per-cell group vectors (and optionally totals) to t.
// Without Retag every requested tag is checked before the first write, so an
// existing tag leaves the store untouched.
func TagMesh(ctx context.Context, log *zap.Logger, t Tagger, s *source.Strengths, cfg Config) ([]string, error) {
	if s.Cells() == 0 {
		return nil, &errs.PreconditionError{Stage: "mesh tagging", Requires: "reduced source strengths"}
	}
	if err := cfg.Geometry.CheckCells(s.Cells()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.Init(ctx, cfg.Geometry); err != nil {
		return nil, err
	}
	want := []string{TagSource}
	if cfg.Totals {
		want = append(want, TagTotal)
	}
	if !cfg.Retag {
		for _, name := range want {
			ok, err := t.Has(ctx, name)
			if err != nil {
				return nil, err
			}
			if ok {
				return nil, &errs.ExistsError{Resource: "tag", ID: name}
			}
		}
	}
	if err := t.Tag(ctx, TagSource, s.Vectors, cfg.Retag); err != nil {
		return nil, err
	}
	tags := []string{TagSource}
	if cfg.Totals {
		if err := t.TagScalars(ctx, TagTotal, s.Totals, cfg.Retag); err != nil {
			return tags, err
		}
		tags = append(tags, TagTotal)
	}
	log.Info("tagged mesh", zap.Strings("tags", tags), zap.Int("cells", s.Cells()))
	return tags, nil
}

// Run performs Load, Select and Emit, then opens the mesh store and tags it
// when open is non-nil.
func Run(ctx context.Context, log *zap.Logger, cfg Config, open OpenTagger, stdout io.Writer) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	st, err := Load(ctx, log, cfg.Input)
	if err != nil {
		return nil, err
	}
	res := &Result{Stream: st}

	res.Strengths, err = Select(ctx, log, st, cfg.Isotope, cfg.CoolingStep)
	if err != nil {
		return res, err
	}

	res.Artifacts, err = Emit(ctx, log, res.Strengths, cfg, stdout)
	if err != nil {
		return res, err
	}

	if open != nil {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := cfg.Geometry.CheckCells(res.Strengths.Cells()); err != nil {
			return res, err
		}
		t, err := open(ctx)
		if err != nil {
			return res, err
		}
		defer func() { _ = t.Close() }()
		res.Tags, err = TagMesh(ctx, log, t, res.Strengths, cfg)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
