package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
	"github.com/scigolib/gbf/value"
)

func encodeCategorical(v value.Value) (EncodedLeaf, error) {
	buf := primitives.NewBuffer(4 + len(v.Categories)*8 + len(v.Codes)*4)
	buf.AppendU32LE(uint32(len(v.Categories)))
	for _, cat := range v.Categories {
		b := []byte(cat)
		buf.AppendU32LE(uint32(len(b)))
		buf.AppendBytes(b)
	}
	for _, code := range v.Codes {
		buf.AppendU32LE(code)
	}
	return EncodedLeaf{
		Kind: "categorical", Shape: v.Shape,
		Encoding: "categorical:ncats+cats+codes",
		Data:     buf.Bytes(), Usize: uint64(buf.Len()),
	}, nil
}

func decodeCategorical(shape []uint64, data []byte) (value.Value, error) {
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}
	r := primitives.NewReader(data)

	nCats, ok := r.U32LE()
	if !ok {
		return value.Value{}, gbferr.New(gbferr.KindTruncated, "categorical n_cats truncated")
	}

	categories := make([]string, nCats)
	for i := range categories {
		length, ok := r.U32LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "categorical category length truncated")
		}
		b, ok := r.Bytes(int(length))
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "categorical category text truncated")
		}
		categories[i] = string(b)
	}

	codes := make([]uint32, numel)
	for i := range codes {
		c, ok := r.U32LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "categorical codes truncated")
		}
		codes[i] = c
	}

	return value.NewCategorical(shape, categories, codes)
}
