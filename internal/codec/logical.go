package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
	"github.com/scigolib/gbf/value"
)

func encodeLogical(v value.Value) (EncodedLeaf, error) {
	data := append([]byte(nil), v.LogicalData...)
	return EncodedLeaf{
		Kind: "logical", Shape: v.Shape, Encoding: "logical:byte-per-element",
		Data: data, Usize: uint64(len(data)),
	}, nil
}

func decodeLogical(shape []uint64, data []byte) (value.Value, error) {
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}
	if uint64(len(data)) != numel {
		return value.Value{}, gbferr.New(gbferr.KindInvalidData, "logical payload length mismatch")
	}
	return value.NewLogical(shape, append([]byte(nil), data...))
}
