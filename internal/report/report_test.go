package report

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"go.uber.org/goleak"

	"phtnsrc/internal/errs"
)

func TestMain(m *testing.M) { goleak.VerifyTestMain(m) }

// two mesh cells, isotopes H3 and TOTAL, three cooling steps each
const sample = `H3 shutdown 1.0 0.0
H3 1 d 0.5 0.0
H3 2 y 0.1 0.0
TOTAL shutdown 1.0 1.0
TOTAL 1 d 0.5 0.5
TOTAL 2 y 0.1 0.1

H3 shutdown 2.0 0.0
H3 1 d 1.0 0.0
H3 2 y 0.2 0.0
TOTAL shutdown 2.0 2.0
TOTAL 1 d 1.0 1.0
TOTAL 2 y 0.2 0.2
`

func TestParseLineShutdown(t *testing.T) {
	r, err := ParseLine("TOTAL shutdown 1.5e+00 2.5", 7)
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", r.Heading)
	assert.True(t, r.Step.IsShutdown())
	assert.Equal(t, []float64{1.5, 2.5}, r.Probs)
	assert.Equal(t, 7, r.Line)
}

func TestParseLineTwoTokenStep(t *testing.T) {
	r, err := ParseLine("  Co60   1   d  3e-1 4e-1  ", 1)
	require.NoError(t, err)
	assert.Equal(t, CoolingStep{Magnitude: "1", Unit: "d"}, r.Step)
	assert.Equal(t, "1 d", r.Step.Label())
	assert.Equal(t, []float64{0.3, 0.4}, r.Probs)
	assert.InDelta(t, 0.7, r.Sum(), 1e-12)
}

func TestParseLineErrors(t *testing.T) {
	cases := map[string]string{
		"single field":      "TOTAL",
		"missing unit":      "TOTAL 1",
		"bad number":        "TOTAL shutdown 1.0 abc",
		"bad number 2-step": "TOTAL 1 d 1.0 1..0",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLine(line, 4)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrStructure), "want structural error, got %v", err)
			var pe *errs.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 4, pe.Line)
		})
	}
}

func TestReadBuildsCatalogFromFirstCycle(t *testing.T) {
	st, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Len(t, st.Rows, 12)
	assert.Equal(t, []string{"shutdown", "1 d", "2 y"}, st.Catalog.Labels())
	assert.Equal(t, []string{"H3", "TOTAL"}, st.Headings())
}

func TestReadCatalogStopsAtSecondShutdown(t *testing.T) {
	// a later cell that lists an extra step must not extend the catalog
	in := "TOTAL shutdown 1\nTOTAL 1 d 1\nTOTAL shutdown 1\nTOTAL 1 d 1\nTOTAL 5 y 1\n"
	st, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"shutdown", "1 d"}, st.Catalog.Labels())
}

func TestReadAbortsOnMalformedLine(t *testing.T) {
	in := "TOTAL shutdown 1\nTOTAL\n"
	_, err := Read(strings.NewReader(in))
	require.Error(t, err)
	var pe *errs.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

func TestCatalogResolve(t *testing.T) {
	c := Catalog{ShutdownStep, {Magnitude: "1", Unit: "d"}}
	i, err := c.Resolve("1")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = c.Resolve(" 1   d ")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = c.Resolve("shutdown")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	for _, bad := range []string{"53", "-3", "never"} {
		_, err := c.Resolve(bad)
		assert.True(t, errs.IsLookup(err), "selector %q: want not-found, got %v", bad, err)
	}
}

func writeTemp(t *testing.T, name string, write func(f *os.File)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	write(fh)
	if err := fh.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func TestReadPathCompressedMatchesPlain(t *testing.T) {
	plain := writeTemp(t, "phtn_src", func(f *os.File) {
		_, _ = f.WriteString(sample)
	})
	gz := writeTemp(t, "phtn_src.gz", func(f *os.File) {
		gw := gzip.NewWriter(f)
		_, _ = gw.Write([]byte(sample))
		if err := gw.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}
	})
	// no suffix: detection must fall back to the magic number
	xzPath := writeTemp(t, "phtn_src_packed", func(f *os.File) {
		xw, err := xz.NewWriter(f)
		if err != nil {
			t.Fatalf("xz writer: %v", err)
		}
		_, _ = xw.Write([]byte(sample))
		if err := xw.Close(); err != nil {
			t.Fatalf("xz close: %v", err)
		}
	})

	want, err := ReadPath(plain)
	require.NoError(t, err)
	for _, p := range []string{gz, xzPath} {
		got, err := ReadPath(p)
		require.NoError(t, err, p)
		assert.Equal(t, want, got, p)
	}
}

func TestReadPathMissingFile(t *testing.T) {
	_, err := ReadPath(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected open error")
	}
}
