package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Formatter renders normalized records as JSON text for output.
type Formatter struct {
	// Pretty selects indented output; compact single-line otherwise.
	Pretty bool
}

// NewFormatter creates a Formatter with pretty-printing enabled.
func NewFormatter() *Formatter {
	return &Formatter{Pretty: true}
}

// Format encodes v as JSON. Record types marshal cleanly by construction;
// an error here means the caller handed in something that is not a record.
func (f *Formatter) Format(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if f.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
