package writers

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/zeebo/blake3"
)

// Artifact describes a file that was written.
type Artifact struct {
	Path   string
	Lines  int
	Size   int64
	BLAKE3 string
}

// Render joins lines with '\n', optionally ending the last one too.
func Render(lines []string, trailingNewline bool) []byte {
	s := strings.Join(lines, "\n")
	if trailingNewline && len(lines) > 0 {
		s += "\n"
	}
	return []byte(s)
}

// WriteLines writes the whole artifact in one go. "-" writes to stdout.
// Files are written to a temporary sibling and renamed into place, so the
// target is either absent, unchanged, or complete.
func WriteLines(path string, lines []string, trailingNewline bool, stdout io.Writer) (Artifact, error) {
	data := Render(lines, trailingNewline)
	sum := blake3.Sum256(data)
	art := Artifact{Path: path, Lines: len(lines), Size: int64(len(data)), BLAKE3: hex.EncodeToString(sum[:])}

	if path == "-" {
		if _, err := stdout.Write(data); err != nil && !IsBrokenPipe(err) {
			return art, err
		}
		return art, nil
	}
	if err := writeAtomic(path, data); err != nil {
		return art, err
	}
	return art, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// IsBrokenPipe reports whether err is a broken or closed pipe, as when a
// downstream `head` exits early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
