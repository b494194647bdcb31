package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scigolib/gbf/internal/writer"
	"github.com/scigolib/gbf/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, policy writer.CompressionPolicy) string {
	t.Helper()
	root := value.NewStruct()

	real := make([]byte, 48)
	for i := range real {
		real[i] = byte(i)
	}
	numeric, err := value.NewNumeric(value.ClassDouble, []uint64{2, 3}, false, real, nil)
	require.NoError(t, err)
	require.NoError(t, value.InsertPath(&root, "a.matrix", numeric))

	elements := []value.StringElement{{Text: "hi"}, {Missing: true}}
	str, err := value.NewString([]uint64{1, 2}, elements)
	require.NoError(t, err)
	require.NoError(t, value.InsertPath(&root, "a.label", str))

	logical, err := value.NewLogical([]uint64{2}, []byte{1, 0})
	require.NoError(t, err)
	require.NoError(t, value.InsertPath(&root, "flags", logical))

	path := filepath.Join(t.TempDir(), "sample.gbf")
	require.NoError(t, writer.Write(path, root, writer.Options{Compression: policy, ZlibLevel: 6}))
	return path
}

func TestReadHeaderOnlyValidates(t *testing.T) {
	path := writeSample(t, writer.PolicyNever)
	h, headerLen, raw, err := ReadHeaderOnly(path, Options{Validate: true})
	require.NoError(t, err)
	assert.Equal(t, "GBF", h.Format)
	assert.Greater(t, headerLen, uint32(0))
	assert.Len(t, raw, int(headerLen))
	assert.Len(t, h.Fields, 3)
}

func TestReadFileRoundTrip(t *testing.T) {
	for _, policy := range []writer.CompressionPolicy{writer.PolicyNever, writer.PolicyAlways, writer.PolicyAuto} {
		path := writeSample(t, policy)
		got, err := ReadFile(path, Options{Validate: true})
		require.NoError(t, err)
		assert.Equal(t, value.KindStruct, got.Kind)

		matrix, ok := value.Lookup(&got, "a.matrix")
		require.True(t, ok)
		assert.Equal(t, value.KindNumeric, matrix.Kind)

		flags, ok := value.Lookup(&got, "flags")
		require.True(t, ok)
		assert.Equal(t, []byte{1, 0}, flags.LogicalData)
	}
}

func TestReadVarExactAndPrefix(t *testing.T) {
	path := writeSample(t, writer.PolicyAuto)

	exact, err := ReadVar(path, "flags", Options{Validate: true})
	require.NoError(t, err)
	assert.Equal(t, value.KindLogical, exact.Kind)

	subtree, err := ReadVar(path, "a", Options{Validate: true})
	require.NoError(t, err)
	assert.Equal(t, value.KindStruct, subtree.Kind)
	_, ok := value.Lookup(&subtree, "matrix")
	assert.True(t, ok)

	_, err = ReadVar(path, "does.not.exist", Options{Validate: true})
	require.Error(t, err)
}

func TestReadFileDetectsFieldCRCMismatch(t *testing.T) {
	path := writeSample(t, writer.PolicyNever)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Flip a byte well into the payload area to corrupt a leaf's bytes
	// without disturbing the header.
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = ReadFile(path, Options{Validate: true})
	require.Error(t, err)
}

func TestReadHeaderOnlyRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gbf")
	require.NoError(t, os.WriteFile(path, []byte("NOTAGBF\x00\x00\x00\x00\x00"), 0o644))
	_, _, _, err := ReadHeaderOnly(path, Options{})
	require.Error(t, err)
}
