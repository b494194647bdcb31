// Package codec implements the per-kind leaf wire encodings: the byte
// layout for each Value kind, independent of header bookkeeping,
// compression, and CRC placement (those live one layer up, in package
// header and package writer).
package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/value"
)

// EncodedLeaf is the result of encoding one Value leaf to its wire form.
type EncodedLeaf struct {
	Kind     string
	Class    string
	Shape    []uint64
	Complex  bool
	Encoding string
	Data     []byte // uncompressed payload bytes
	Usize    uint64 // len(Data), carried explicitly for clarity at call sites
}

// Encode dispatches to the per-kind encoder for v.
func Encode(v value.Value) (EncodedLeaf, error) {
	switch v.Kind {
	case value.KindStruct:
		return encodeStruct(v)
	case value.KindNumeric:
		return encodeNumeric(v)
	case value.KindLogical:
		return encodeLogical(v)
	case value.KindChar:
		return encodeChar(v)
	case value.KindString:
		return encodeString(v)
	case value.KindDateTime:
		return encodeDateTime(v)
	case value.KindDuration:
		return encodeDuration(v)
	case value.KindCalendarDuration:
		return encodeCalendarDuration(v)
	case value.KindCategorical:
		return encodeCategorical(v)
	case value.KindOpaque:
		return encodeOpaque(v)
	default:
		return EncodedLeaf{}, gbferr.New(gbferr.KindUnsupported, "unknown value kind")
	}
}

// Decode dispatches to the per-kind decoder named by kind.
func Decode(kind, class string, shape []uint64, isComplex bool, encoding string, data []byte) (value.Value, error) {
	switch kind {
	case "struct":
		return decodeStruct(shape, encoding, data)
	case "numeric":
		return decodeNumeric(class, shape, isComplex, data)
	case "logical":
		return decodeLogical(shape, data)
	case "char":
		return decodeChar(shape, data)
	case "string":
		return decodeString(shape, data)
	case "datetime":
		return decodeDateTime(shape, encoding, data)
	case "duration":
		return decodeDuration(shape, data)
	case "calendarDuration":
		return decodeCalendarDuration(shape, data)
	case "categorical":
		return decodeCategorical(shape, data)
	default:
		return value.NewOpaque(kind, class, shape, isComplex, encoding, data), nil
	}
}
