// Package primitives provides the little-endian byte primitives, growable
// buffer, and checked-arithmetic shape helpers shared by every leaf codec.
package primitives

import (
	"math"

	"github.com/scigolib/gbf/internal/gbferr"
)

// Numel returns the number of elements described by shape.
//
// An empty shape denotes an empty array with dimensionality 0 and returns
// 0. A non-empty shape containing a zero dimension is invalid: every
// declared dimension of a non-empty shape must be positive.
func Numel(shape []uint64) (uint64, error) {
	if len(shape) == 0 {
		return 0, nil
	}

	n := uint64(1)
	for _, d := range shape {
		if d == 0 {
			return 0, gbferr.New(gbferr.KindInvalidData,
				"shape dimension must be positive in a non-empty shape")
		}
		product, err := CheckedMul(n, d)
		if err != nil {
			return 0, gbferr.Wrap(gbferr.KindInvalidData,
				"numel overflow", err)
		}
		n = product
	}
	return n, nil
}

// CheckedMul multiplies two uint64 values, failing with an error instead of
// silently wrapping on overflow.
func CheckedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, gbferr.New(gbferr.KindInvalidData,
			"multiplication overflow")
	}
	return a * b, nil
}

// BytesPerElement returns the on-disk byte width of a numeric class.
func BytesPerElement(class string) (uint64, error) {
	switch class {
	case "double", "int64", "uint64":
		return 8, nil
	case "single", "int32", "uint32":
		return 4, nil
	case "int16", "uint16":
		return 2, nil
	case "int8", "uint8":
		return 1, nil
	default:
		return 0, gbferr.New(gbferr.KindUnsupported, "unknown numeric class "+class)
	}
}
