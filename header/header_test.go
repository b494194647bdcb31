package header

import (
	"testing"

	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFields() []FieldMeta {
	return []FieldMeta{
		{
			Name: "x", Kind: "numeric", Class: "double", Shape: []uint64{2, 3},
			Complex: false, Encoding: "num:le-bytes", Compression: "none",
			Offset: 0, CSize: 48, USize: 48, CRC32: 0xDEADBEEF,
		},
		{
			Name: "y.z", Kind: "string", Shape: []uint64{1, 1},
			Complex: false, Encoding: "str:missing+len+utf8", Compression: "zlib",
			Offset: 48, CSize: 10, USize: 20, CRC32: 0x12345678,
		},
	}
}

func TestBuildParseRoundTrip(t *testing.T) {
	raw, h, err := Build(sampleFields(), BuildOptions{CreatedUTC: "2024-03-15T12:00:00Z", MatlabVersion: "24.1"})
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	fileSize := h.FileSize
	parsed, err := Parse(raw, true, fileSize)
	require.NoError(t, err)

	assert.Equal(t, "GBF", parsed.Format)
	assert.Equal(t, "GREDBIN", parsed.Magic)
	assert.Equal(t, 1, parsed.Version)
	assert.Equal(t, h.PayloadStart, parsed.PayloadStart)
	assert.Equal(t, h.FileSize, parsed.FileSize)
	assert.Equal(t, h.HeaderCRC32Hex, parsed.HeaderCRC32Hex)
	require.Len(t, parsed.Fields, 2)
	assert.Equal(t, "y.z", parsed.Fields[1].Name)
	assert.Equal(t, "2024-03-15T12:00:00Z", parsed.CreatedUTC)
	assert.Equal(t, "24.1", parsed.MatlabVersion)

	f, ok := parsed.FieldByName("y.z")
	require.True(t, ok)
	assert.Equal(t, uint64(48), f.Offset)
	assert.Equal(t, uint64(0x12345678), uint64(f.CRC32))
}

func TestBuildConverges(t *testing.T) {
	// A field list long enough to push payload_start/file_size across a
	// decimal-digit-width boundary, exercising more than one iteration.
	var fields []FieldMeta
	for i := 0; i < 50; i++ {
		fields = append(fields, FieldMeta{
			Name: "f", Kind: "numeric", Class: "double", Shape: []uint64{1, 1},
			Encoding: "num:le-bytes", Compression: "none",
			Offset: uint64(i) * 8, CSize: 8, USize: 8, CRC32: uint32(i),
		})
	}
	raw, h, err := Build(fields, BuildOptions{})
	require.NoError(t, err)

	expectedPayloadStart := uint64(8+4) + uint64(len(raw))
	assert.Equal(t, expectedPayloadStart, h.PayloadStart)
	assert.Equal(t, expectedPayloadStart+400, h.FileSize)
}

func TestParseDetectsHeaderCRCMismatch(t *testing.T) {
	raw, h, err := Build(sampleFields(), BuildOptions{})
	require.NoError(t, err)

	corrupted := append([]byte(nil), raw...)
	idx := -1
	for i := 0; i+len(headerCRCMarker) <= len(corrupted); i++ {
		if string(corrupted[i:i+len(headerCRCMarker)]) == headerCRCMarker {
			idx = i + len(headerCRCMarker)
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	if corrupted[idx] == 'F' {
		corrupted[idx] = '0'
	} else {
		corrupted[idx] = 'F'
	}

	_, err = Parse(corrupted, true, h.FileSize)
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindHeaderCRCMismatch))
}

func TestParseDetectsFileSizeMismatch(t *testing.T) {
	raw, h, err := Build(sampleFields(), BuildOptions{})
	require.NoError(t, err)

	_, err = Parse(raw, true, h.FileSize+1)
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindInvalidData))
}

func TestParseNonValidatingKeepsRecordedFileSize(t *testing.T) {
	raw, h, err := Build(sampleFields(), BuildOptions{})
	require.NoError(t, err)

	parsed, err := Parse(raw, false, 999999)
	require.NoError(t, err)
	assert.Equal(t, h.FileSize, parsed.FileSize)
}

func TestParseRejectsMissingRequiredField(t *testing.T) {
	raw, _, err := Build(sampleFields(), BuildOptions{})
	require.NoError(t, err)

	// Corrupt the magic key name so the required field lookup fails.
	mutated := []byte(string(raw))
	idx := -1
	marker := `"magic":"`
	for i := 0; i+len(marker) <= len(mutated); i++ {
		if string(mutated[i:i+len(marker)]) == marker {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	mutated[idx+1] = 'X' // "magic" -> "Xagic"

	_, err = Parse(mutated, false, 0)
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindHeaderJSONParse))
}

func TestSpliceCRCHexRejectsBadLength(t *testing.T) {
	raw, _, err := Build(sampleFields(), BuildOptions{})
	require.NoError(t, err)

	_, err = spliceCRCHex(raw, "abc")
	require.Error(t, err)
	assert.True(t, gbferr.Is(err, gbferr.KindInvalidData))
}

func TestFieldByNameMissing(t *testing.T) {
	_, _, err := Build(sampleFields(), BuildOptions{})
	require.NoError(t, err)
	h := Header{Fields: sampleFields()}
	_, ok := h.FieldByName("nope")
	assert.False(t, ok)
}
