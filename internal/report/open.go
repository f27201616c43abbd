package report

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// openReader opens path for reading, "-" being stdin. gzip and xz streams are
// detected by magic number or by suffix and decompressed transparently.
func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return decompress(io.NopCloser(os.Stdin), path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return decompress(fh, path)
}

func decompress(rc io.ReadCloser, path string) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	sig, _ := br.Peek(len(xzMagic))

	switch {
	case bytes.HasPrefix(sig, gzipMagic) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, rc}}, nil
	case bytes.HasPrefix(sig, xzMagic) || strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(br)
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: xr, closers: []io.Closer{rc}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{rc}}, nil
}
