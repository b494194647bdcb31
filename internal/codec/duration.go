package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
	"github.com/scigolib/gbf/value"
)

func encodeDuration(v value.Value) (EncodedLeaf, error) {
	buf := primitives.NewBuffer(len(v.NanMask) + len(v.Ms)*8)
	buf.AppendBytes(v.NanMask)
	for i, ms := range v.Ms {
		if v.NanMask[i] != 0 {
			buf.AppendI64LE(0)
			continue
		}
		buf.AppendI64LE(ms)
	}
	return EncodedLeaf{
		Kind: "duration", Shape: v.Shape, Encoding: "duration:nan-mask+ms",
		Data: buf.Bytes(), Usize: uint64(buf.Len()),
	}, nil
}

func decodeDuration(shape []uint64, data []byte) (value.Value, error) {
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}
	r := primitives.NewReader(data)
	mask, ok := r.Bytes(int(numel))
	if !ok {
		return value.Value{}, gbferr.New(gbferr.KindTruncated, "duration nan_mask truncated")
	}
	mask = append([]byte(nil), mask...)

	ms := make([]int64, numel)
	for i := range ms {
		v, ok := r.I64LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "duration ms truncated")
		}
		ms[i] = v
	}
	return value.NewDuration(shape, mask, ms)
}
