package writer

import (
	"github.com/scigolib/gbf/internal/integrity"
)

// CompressionPolicy selects when a leaf's encoded bytes are zlib-compressed.
type CompressionPolicy string

// Compression policies.
const (
	PolicyNever  CompressionPolicy = "never"
	PolicyAlways CompressionPolicy = "always"
	PolicyAuto   CompressionPolicy = "auto"
)

// CompressedLeaf holds the bytes actually written to the payload for one
// leaf, plus the compression bookkeeping the header records.
type CompressedLeaf struct {
	Data        []byte
	Compression string // "none" or "zlib"
	CSize       uint64
	USize       uint64
}

// Compress applies policy to the uncompressed leaf bytes data, returning
// the bytes to place in the payload. auto keeps the compressed form only
// when it is strictly smaller than the original; never/always compressed is
// otherwise only gated on whether the policy requests it at all.
func Compress(data []byte, policy CompressionPolicy, level int) (CompressedLeaf, error) {
	usize := uint64(len(data))

	if policy == PolicyNever {
		return CompressedLeaf{Data: data, Compression: "none", CSize: usize, USize: usize}, nil
	}

	deflated, err := integrity.Deflate(data, level)
	if err != nil {
		return CompressedLeaf{}, err
	}
	csize := uint64(len(deflated))

	switch policy {
	case PolicyAlways:
		return CompressedLeaf{Data: deflated, Compression: "zlib", CSize: csize, USize: usize}, nil
	case PolicyAuto:
		if csize < usize {
			return CompressedLeaf{Data: deflated, Compression: "zlib", CSize: csize, USize: usize}, nil
		}
		return CompressedLeaf{Data: data, Compression: "none", CSize: usize, USize: usize}, nil
	default:
		return CompressedLeaf{Data: data, Compression: "none", CSize: usize, USize: usize}, nil
	}
}
