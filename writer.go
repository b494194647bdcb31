package gbf

import (
	"github.com/scigolib/gbf/internal/writer"
)

// WriteFile encodes root and writes it to path: flatten to leaves, encode
// and compress each leaf, assign payload offsets, build the header, and
// commit the file atomically (temp file + rename).
func WriteFile(path string, root Value, opts WriteOptions) error {
	return writer.Write(path, root, opts.toInternal())
}
