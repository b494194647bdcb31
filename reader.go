package gbf

import (
	"github.com/scigolib/gbf/internal/reader"
)

// ReadHeaderOnly opens path and reads just the prelude and header JSON,
// without touching the payload. Returns the parsed Header, the on-disk
// header length in bytes, and the raw header JSON bytes.
func ReadHeaderOnly(path string, opts ReadOptions) (Header, uint32, []byte, error) {
	return reader.ReadHeaderOnly(path, opts.toInternal())
}

// ReadFile reads and decodes the entire value tree stored at path.
func ReadFile(path string, opts ReadOptions) (Value, error) {
	return reader.ReadFile(path, opts.toInternal())
}

// ReadVar reads a single named variable out of path: either the leaf at
// the exact dotted path, or, if no leaf has that exact name, the subtree
// of every leaf whose path is prefixed by variable + ".".
func ReadVar(path, variable string, opts ReadOptions) (Value, error) {
	return reader.ReadVar(path, variable, opts.toInternal())
}
