// internal/jsonutil/json.go
package jsonutil

import (
	"encoding/json"
	"io"
)

// EncodePretty writes v as two-space indented JSON to w. HTML characters are
// left as is, since cooling-step labels may contain '<' or '&'.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
