package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
	"github.com/scigolib/gbf/value"
)

// encodeString lays out, per element, a missing flag byte, a u32 length,
// and the UTF-8 bytes (omitted when missing).
func encodeString(v value.Value) (EncodedLeaf, error) {
	buf := primitives.NewBuffer(len(v.StringData) * 8)
	for _, el := range v.StringData {
		if el.Missing {
			buf.AppendByte(1)
			buf.AppendU32LE(0)
			continue
		}
		buf.AppendByte(0)
		text := []byte(el.Text)
		buf.AppendU32LE(uint32(len(text)))
		buf.AppendBytes(text)
	}
	return EncodedLeaf{
		Kind: "string", Shape: v.Shape, Encoding: "string:missing-flag+len+utf8",
		Data: buf.Bytes(), Usize: uint64(buf.Len()),
	}, nil
}

func decodeString(shape []uint64, data []byte) (value.Value, error) {
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}
	r := primitives.NewReader(data)
	elements := make([]value.StringElement, numel)
	for i := range elements {
		flag, ok := r.Byte()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "string payload truncated (missing flag)")
		}
		length, ok := r.U32LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "string payload truncated (length)")
		}
		if flag != 0 {
			// A writer-conforming file has length==0 here; a tolerant
			// reader skips length bytes regardless.
			if length > 0 {
				if _, ok := r.Bytes(int(length)); !ok {
					return value.Value{}, gbferr.New(gbferr.KindTruncated, "string payload truncated (missing tail)")
				}
			}
			elements[i] = value.StringElement{Missing: true}
			continue
		}
		text, ok := r.Bytes(int(length))
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "string payload truncated (text)")
		}
		elements[i] = value.StringElement{Text: string(text)}
	}
	return value.NewString(shape, elements)
}
