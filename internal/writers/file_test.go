package writers

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestRender(t *testing.T) {
	assert.Equal(t, "a\nb", string(Render([]string{"a", "b"}, false)))
	assert.Equal(t, "a\nb\n", string(Render([]string{"a", "b"}, true)))
	assert.Equal(t, "", string(Render(nil, true)))
}

func TestWriteLinesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phtn_sdef")
	art, err := WriteLines(path, []string{"sdef par=2", "tr1 0.5 0.5 0.5"}, false, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sdef par=2\ntr1 0.5 0.5 0.5", string(data))
	assert.Equal(t, int64(len(data)), art.Size)
	assert.Equal(t, 2, art.Lines)

	sum := blake3.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), art.BLAKE3)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteLinesReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gammas")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are longer"), 0o644))
	_, err := WriteLines(path, []string{"new"}, true, nil)
	require.NoError(t, err)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "new\n", string(data))
}

func TestWriteLinesStdout(t *testing.T) {
	var out bytes.Buffer
	art, err := WriteLines("-", []string{"x"}, true, &out)
	require.NoError(t, err)
	assert.Equal(t, "x\n", out.String())
	assert.Equal(t, "-", art.Path)
}

func TestWriteLinesMissingDir(t *testing.T) {
	_, err := WriteLines(filepath.Join(t.TempDir(), "no", "such", "dir", "f"), []string{"x"}, false, nil)
	assert.Error(t, err)
}

type closedPipe struct{}

func (closedPipe) Write([]byte) (int, error) { return 0, fmt.Errorf("write stdout: %w", syscall.EPIPE) }

func TestWriteLinesStdoutBrokenPipe(t *testing.T) {
	_, err := WriteLines("-", []string{"x"}, true, closedPipe{})
	assert.NoError(t, err)
	assert.True(t, IsBrokenPipe(io.ErrClosedPipe))
	assert.False(t, IsBrokenPipe(nil))
}
