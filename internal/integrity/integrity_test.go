package integrity

import (
	"testing"

	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumKnownVector(t *testing.T) {
	// "123456789" is the standard CRC32/IEEE test vector: 0xCBF43926.
	assert.Equal(t, uint32(0xCBF43926), Checksum([]byte("123456789")))
}

func TestDeflateInflateRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated. " +
		"the quick brown fox jumps over the lazy dog, repeated.")

	for _, level := range []int{0, 1, 6, 9} {
		compressed, err := Deflate(data, level)
		require.NoError(t, err)

		out, err := Inflate(compressed, uint64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, data, out)
	}
}

func TestInflateSizeMismatchFails(t *testing.T) {
	compressed, err := Deflate([]byte("hello world"), 6)
	require.NoError(t, err)

	_, err = Inflate(compressed, 3)
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindZlib))
}

func TestInflateCorruptStreamFails(t *testing.T) {
	_, err := Inflate([]byte{0xFF, 0xFF, 0xFF, 0xFF}, 4)
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindZlib))
}
