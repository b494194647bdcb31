package gbf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scigolib/gbf/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) Value {
	t.Helper()
	root := value.NewStruct()

	real := make([]byte, 8*6)
	for i := range real {
		real[i] = byte(i * 7)
	}
	matrix, err := value.NewNumeric(value.ClassDouble, []uint64{2, 3}, false, real, nil)
	require.NoError(t, err)
	require.NoError(t, value.InsertPath(&root, "data.matrix", matrix))

	cat, err := value.NewCategorical([]uint64{4}, []string{"lo", "mid", "hi"}, []uint32{1, 2, 0, 3})
	require.NoError(t, err)
	require.NoError(t, value.InsertPath(&root, "data.level", cat))

	logical, err := value.NewLogical([]uint64{3}, []byte{1, 0, 1})
	require.NoError(t, err)
	require.NoError(t, value.InsertPath(&root, "mask", logical))

	return root
}

func TestWriteFileReadFileRoundTripAcrossCompressionModes(t *testing.T) {
	for _, policy := range []CompressionPolicy{CompressionNever, CompressionAlways, CompressionAuto} {
		root := buildSample(t)
		path := filepath.Join(t.TempDir(), "roundtrip.gbf")

		require.NoError(t, WriteFile(path, root, WriteOptions{Compression: policy, ZlibLevel: 6}))

		got, err := ReadFile(path, ReadOptions{Validate: true})
		require.NoError(t, err)

		matrix, ok := value.Lookup(&got, "data.matrix")
		require.True(t, ok)
		assert.Equal(t, []uint64{2, 3}, matrix.Shape)

		level, ok := value.Lookup(&got, "data.level")
		require.True(t, ok)
		assert.Equal(t, []uint32{1, 2, 0, 3}, level.Codes)

		mask, ok := value.Lookup(&got, "mask")
		require.True(t, ok)
		assert.Equal(t, []byte{1, 0, 1}, mask.LogicalData)
	}
}

func TestReadVarConsistentWithReadFile(t *testing.T) {
	root := buildSample(t)
	path := filepath.Join(t.TempDir(), "readvar.gbf")
	require.NoError(t, WriteFile(path, root, WriteOptions{Compression: CompressionAuto}))

	whole, err := ReadFile(path, ReadOptions{Validate: true})
	require.NoError(t, err)
	wantMatrix, ok := value.Lookup(&whole, "data.matrix")
	require.True(t, ok)

	gotMatrix, err := ReadVar(path, "data.matrix", ReadOptions{Validate: true})
	require.NoError(t, err)
	assert.Equal(t, wantMatrix.RealLE, gotMatrix.RealLE)

	subtree, err := ReadVar(path, "data", ReadOptions{Validate: true})
	require.NoError(t, err)
	_, ok = value.Lookup(&subtree, "matrix")
	assert.True(t, ok)
	_, ok = value.Lookup(&subtree, "level")
	assert.True(t, ok)
}

func TestHeaderLengthAndFileSizeArithmetic(t *testing.T) {
	root := buildSample(t)
	path := filepath.Join(t.TempDir(), "arith.gbf")
	require.NoError(t, WriteFile(path, root, WriteOptions{Compression: CompressionNever}))

	h, headerLen, _, err := ReadHeaderOnly(path, ReadOptions{Validate: true})
	require.NoError(t, err)

	assert.Equal(t, uint64(8+4+int(headerLen)), h.PayloadStart)

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(stat.Size()), h.FileSize)

	var totalCSize uint64
	for _, f := range h.Fields {
		totalCSize += f.CSize
	}
	assert.Equal(t, h.PayloadStart+totalCSize, h.FileSize)
}

func TestReadFileDetectsCorruptedHeader(t *testing.T) {
	root := buildSample(t)
	path := filepath.Join(t.TempDir(), "corrupt.gbf")
	require.NoError(t, WriteFile(path, root, WriteOptions{Compression: CompressionNever}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Flip a byte inside the header JSON region (past the 12-byte prelude).
	data[20] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = ReadFile(path, ReadOptions{Validate: true})
	require.Error(t, err)
}

func TestWriteFileAppliesDocumentedDefaults(t *testing.T) {
	root := buildSample(t)
	path := filepath.Join(t.TempDir(), "defaults.gbf")
	require.NoError(t, WriteFile(path, root, WriteOptions{}))

	h, _, _, err := ReadHeaderOnly(path, ReadOptions{Validate: true})
	require.NoError(t, err)
	for _, f := range h.Fields {
		assert.NotEqual(t, uint32(0), f.CRC32)
	}
}

func TestWriteFileCanDisableFieldCRC32(t *testing.T) {
	root := buildSample(t)
	path := filepath.Join(t.TempDir(), "nocrc.gbf")

	disabled := false
	require.NoError(t, WriteFile(path, root, WriteOptions{IncludeCRC32: &disabled}))

	h, _, _, err := ReadHeaderOnly(path, ReadOptions{Validate: true})
	require.NoError(t, err)
	for _, f := range h.Fields {
		assert.Equal(t, uint32(0), f.CRC32)
	}

	got, err := ReadFile(path, ReadOptions{Validate: true})
	require.NoError(t, err)
	mask, ok := value.Lookup(&got, "mask")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 0, 1}, mask.LogicalData)
}

func TestReadFileScalarRootValue(t *testing.T) {
	numeric, err := value.NewNumeric(value.ClassInt32, []uint64{1, 1}, false, []byte{7, 0, 0, 0}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scalar.gbf")
	require.NoError(t, WriteFile(path, numeric, WriteOptions{}))

	got, err := ReadFile(path, ReadOptions{Validate: true})
	require.NoError(t, err)
	assert.Equal(t, value.KindNumeric, got.Kind)
	assert.Equal(t, []byte{7, 0, 0, 0}, got.RealLE)
}
