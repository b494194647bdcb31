package writer

import (
	"os"

	"github.com/scigolib/gbf/header"
	"github.com/scigolib/gbf/internal/codec"
	"github.com/scigolib/gbf/internal/integrity"
	"github.com/scigolib/gbf/value"
)

// Options carries the knobs WriteFile exposes to callers, mirrored from the
// root package's WriteOptions. A zero Compression resolves to PolicyAuto, a
// zero ZlibLevel resolves to 6, and a nil IncludeCRC32 resolves to true.
type Options struct {
	Compression   CompressionPolicy
	ZlibLevel     int
	IncludeCRC32  *bool
	CreatedUTC    string
	MatlabVersion string
	FileMode      os.FileMode
}

const magicPrefixLen = 8 // "GREDBIN" + NUL padding

const defaultZlibLevel = 6

// Write flattens root, encodes and compresses every leaf, builds the
// header, and atomically commits the whole file to path: flatten -> encode
// -> compress -> assign offsets -> build header (fixed point + CRC) ->
// write magic/header/payload.
func Write(path string, root value.Value, opts Options) error {
	compression := opts.Compression
	if compression == "" {
		compression = PolicyAuto
	}
	zlibLevel := opts.ZlibLevel
	if zlibLevel == 0 {
		zlibLevel = defaultZlibLevel
	}
	includeCRC32 := opts.IncludeCRC32 == nil || *opts.IncludeCRC32

	leaves := value.Flatten(&root, "")

	type preparedLeaf struct {
		meta header.FieldMeta
		data []byte
	}

	prepared := make([]preparedLeaf, 0, len(leaves))
	alloc := NewAllocator(0) // offsets relative to payload start, as the header records them

	for _, lp := range leaves {
		enc, err := codec.Encode(lp.Leaf)
		if err != nil {
			return err
		}
		compressed, err := Compress(enc.Data, compression, zlibLevel)
		if err != nil {
			return err
		}
		offset := alloc.Allocate(compressed.CSize)

		var crc32 uint32
		if includeCRC32 {
			crc32 = integrity.Checksum(enc.Data)
		}

		prepared = append(prepared, preparedLeaf{
			meta: header.FieldMeta{
				Name: lp.Name, Kind: enc.Kind, Class: enc.Class, Shape: enc.Shape,
				Complex: enc.Complex, Encoding: enc.Encoding,
				Compression: compressed.Compression,
				Offset:      offset, CSize: compressed.CSize, USize: compressed.USize,
				CRC32: crc32,
			},
			data: compressed.Data,
		})
	}

	fields := make([]header.FieldMeta, len(prepared))
	for i, p := range prepared {
		fields[i] = p.meta
	}

	headerJSON, h, err := header.Build(fields, header.BuildOptions{
		CreatedUTC: opts.CreatedUTC, MatlabVersion: opts.MatlabVersion,
	})
	if err != nil {
		return err
	}

	out := make([]byte, 0, h.FileSize)
	magic := make([]byte, magicPrefixLen)
	copy(magic, "GREDBIN")
	out = append(out, magic...)
	out = appendU32LE(out, uint32(len(headerJSON)))
	out = append(out, headerJSON...)
	for _, p := range prepared {
		out = append(out, p.data...)
	}

	perm := opts.FileMode
	if perm == 0 {
		perm = 0o644
	}
	return WriteAtomic(path, out, perm)
}

func appendU32LE(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
