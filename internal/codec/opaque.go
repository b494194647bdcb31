package codec

import "github.com/scigolib/gbf/value"

// encodeOpaque passes the stored bytes through verbatim; kind/class/
// encoding are carried from the Value so the header records them exactly.
func encodeOpaque(v value.Value) (EncodedLeaf, error) {
	data := append([]byte(nil), v.OpaqueData...)
	return EncodedLeaf{
		Kind: v.OpaqueKind, Class: v.OpaqueClass, Shape: v.Shape,
		Complex: v.Complex, Encoding: v.OpaqueEncoding,
		Data: data, Usize: uint64(len(data)),
	}, nil
}
