package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
	"github.com/scigolib/gbf/value"
)

func encodeChar(v value.Value) (EncodedLeaf, error) {
	buf := primitives.NewBuffer(len(v.CodeUnits) * 2)
	for _, cu := range v.CodeUnits {
		buf.AppendU16LE(cu)
	}
	return EncodedLeaf{
		Kind: "char", Shape: v.Shape, Encoding: "char:utf16-code-units",
		Data: buf.Bytes(), Usize: uint64(buf.Len()),
	}, nil
}

func decodeChar(shape []uint64, data []byte) (value.Value, error) {
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}
	if uint64(len(data)) != numel*2 {
		return value.Value{}, gbferr.New(gbferr.KindInvalidData, "char payload length mismatch")
	}
	r := primitives.NewReader(data)
	codeUnits := make([]uint16, numel)
	for i := range codeUnits {
		cu, ok := r.U16LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "char payload truncated")
		}
		codeUnits[i] = cu
	}
	return value.NewChar(shape, codeUnits)
}
