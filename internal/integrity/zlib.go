package integrity

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/scigolib/gbf/internal/gbferr"
)

// Deflate compresses data with RFC 1950 zlib framing at the given level
// (0-9; klauspost/compress accepts the same level constants as compress/
// zlib). Level is forwarded verbatim; callers validate the 0..9 range.
func Deflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, gbferr.Wrap(gbferr.KindZlib, "zlib writer creation failed", err)
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, gbferr.Wrap(gbferr.KindZlib, "zlib compression failed", err)
	}

	if err := w.Close(); err != nil {
		return nil, gbferr.Wrap(gbferr.KindZlib, "zlib close failed", err)
	}

	return buf.Bytes(), nil
}

// Inflate decompresses a zlib stream, requiring the result to be exactly
// usize bytes long: decompression always checks the output length against
// the recorded uncompressed size.
func Inflate(data []byte, usize uint64) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, gbferr.Wrap(gbferr.KindZlib, "zlib reader creation failed", err)
	}
	defer func() { _ = r.Close() }()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, gbferr.Wrap(gbferr.KindZlib, "zlib decompression failed", err)
	}

	if uint64(len(out)) != usize {
		return nil, gbferr.New(gbferr.KindZlib, "zlib decompressed size mismatch")
	}

	return out, nil
}
