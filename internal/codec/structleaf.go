package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/value"
)

// encodeStruct handles the only Struct shape that is ever a leaf: the
// empty scalar struct (no fields). A non-empty struct is never a leaf; the
// writer flattens it before reaching the codec layer.
func encodeStruct(v value.Value) (EncodedLeaf, error) {
	if len(v.Fields) != 0 {
		return EncodedLeaf{}, gbferr.New(gbferr.KindInvalidData, "non-empty struct cannot be encoded as a leaf")
	}
	return EncodedLeaf{
		Kind: "struct", Class: "", Shape: []uint64{1, 1}, Complex: false,
		Encoding: "empty-scalar-struct", Data: []byte{}, Usize: 0,
	}, nil
}

func decodeStruct(_ []uint64, _ string, data []byte) (value.Value, error) {
	if len(data) != 0 {
		return value.Value{}, gbferr.New(gbferr.KindInvalidData, "empty-scalar-struct leaf must have zero-length payload")
	}
	return value.NewStruct(), nil
}
