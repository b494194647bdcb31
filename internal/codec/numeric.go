package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
	"github.com/scigolib/gbf/value"
)

// encodeNumeric lays out real_le followed by imag_le (when complex), the
// exact buffers value.NewNumeric already validated the length of.
func encodeNumeric(v value.Value) (EncodedLeaf, error) {
	data := make([]byte, 0, len(v.RealLE)+len(v.ImagLE))
	data = append(data, v.RealLE...)
	if v.Complex {
		data = append(data, v.ImagLE...)
	}
	return EncodedLeaf{
		Kind: "numeric", Class: string(v.NumClass), Shape: v.Shape,
		Complex: v.Complex, Encoding: "numeric:real-le" + complexSuffix(v.Complex),
		Data: data, Usize: uint64(len(data)),
	}, nil
}

func complexSuffix(isComplex bool) string {
	if isComplex {
		return "+imag-le"
	}
	return ""
}

func decodeNumeric(class string, shape []uint64, isComplex bool, data []byte) (value.Value, error) {
	bpe, err := primitives.BytesPerElement(class)
	if err != nil {
		return value.Value{}, err
	}
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}
	want, err := primitives.CheckedMul(numel, bpe)
	if err != nil {
		return value.Value{}, err
	}

	expected := want
	if isComplex {
		doubled, err := primitives.CheckedMul(want, 2)
		if err != nil {
			return value.Value{}, err
		}
		expected = doubled
	}
	if uint64(len(data)) != expected {
		return value.Value{}, gbferr.New(gbferr.KindInvalidData, "numeric payload length mismatch")
	}

	realLE := append([]byte(nil), data[:want]...)
	var imagLE []byte
	if isComplex {
		imagLE = append([]byte(nil), data[want:]...)
	}
	return value.NewNumeric(value.NumericClass(class), shape, isComplex, realLE, imagLE)
}
