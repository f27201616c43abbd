package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Stream is the result of one read pass: every row in file order plus the
// cooling-step catalog discovered along the way.
type Stream struct {
	Rows    []Row
	Catalog Catalog
}

// Headings returns the distinct row headings in first-seen order.
func (s *Stream) Headings() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.Rows {
		if _, ok := seen[r.Heading]; ok {
			continue
		}
		seen[r.Heading] = struct{}{}
		out = append(out, r.Heading)
	}
	return out
}

const maxLine = 4 * 1024 * 1024

// Read tokenizes a whole report. Any malformed line aborts the read, since
// mesh-cell boundaries depend on every row being present.
func Read(r io.Reader) (*Stream, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		st     Stream
		cb     catalogBuilder
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := ParseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		cb.observe(row.Step)
		st.Rows = append(st.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("report scan: %w", err)
	}
	st.Catalog = cb.catalog
	return &st, nil
}

// ReadPath opens path ("-" for stdin, optionally gzip or xz compressed) and
// reads it with Read.
func ReadPath(path string) (*Stream, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	st, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}
