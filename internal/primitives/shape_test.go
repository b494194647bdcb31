package primitives

import (
	"testing"

	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumelEmptyShape(t *testing.T) {
	n, err := Numel(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestNumelProduct(t *testing.T) {
	n, err := Numel([]uint64{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, uint64(24), n)
}

func TestNumelZeroDimensionFails(t *testing.T) {
	_, err := Numel([]uint64{2, 0, 4})
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindInvalidData))
}

func TestNumelOverflowFails(t *testing.T) {
	_, err := Numel([]uint64{1 << 40, 1 << 40, 1 << 40})
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindInvalidData))
}

func TestCheckedMul(t *testing.T) {
	v, err := CheckedMul(3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), v)

	_, err = CheckedMul(1<<63, 2)
	require.Error(t, err)
}

func TestBytesPerElement(t *testing.T) {
	cases := map[string]uint64{
		"double": 8, "single": 4,
		"int8": 1, "uint8": 1,
		"int16": 2, "uint16": 2,
		"int32": 4, "uint32": 4,
		"int64": 8, "uint64": 8,
	}
	for class, want := range cases {
		got, err := BytesPerElement(class)
		require.NoError(t, err)
		assert.Equal(t, want, got, class)
	}

	_, err := BytesPerElement("bogus")
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindUnsupported))
}
