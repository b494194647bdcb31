// Package header implements the GBF header model: the FieldMeta list, the
// header JSON build/parse round trip, the header-length fixed-point
// iteration, and header CRC placement.
package header

import (
	"bytes"
	"fmt"

	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/gjson"
	"github.com/scigolib/gbf/internal/integrity"
)

// FieldMeta is one header entry describing a single on-disk leaf.
type FieldMeta struct {
	Name        string
	Kind        string
	Class       string
	Shape       []uint64
	Complex     bool
	Encoding    string
	Compression string // "none" or "zlib"
	Offset      uint64
	CSize       uint64
	USize       uint64
	CRC32       uint32
}

// Header is the parsed/built GBF header.
type Header struct {
	Format         string
	Magic          string
	Version        int
	Endianness     string
	Order          string
	Root           string
	PayloadStart   uint64
	FileSize       uint64
	HeaderCRC32Hex string
	CreatedUTC     string
	MatlabVersion  string
	Fields         []FieldMeta

	fieldIndex map[string]int
}

// FieldByName returns the field with the given exact dotted name.
func (h *Header) FieldByName(name string) (FieldMeta, bool) {
	if h.fieldIndex == nil {
		h.buildIndex()
	}
	idx, ok := h.fieldIndex[name]
	if !ok {
		return FieldMeta{}, false
	}
	return h.Fields[idx], true
}

func (h *Header) buildIndex() {
	h.fieldIndex = make(map[string]int, len(h.Fields))
	for i, f := range h.Fields {
		h.fieldIndex[f.Name] = i
	}
}

const placeholderCRC = "00000000"

// headerCRCMarker is the fixed on-disk substring whose 8-hex-digit value
// is replaced in place, first with the placeholder and later with the
// real CRC. Its length never changes, which is what makes the header's
// self-referential CRC placement work.
const headerCRCMarker = `"header_crc32_hex":"`

// BuildOptions carries the optional header fields a writer may set.
type BuildOptions struct {
	CreatedUTC    string
	MatlabVersion string
}

// Build constructs the final header JSON bytes and populated Header for a
// fully-encoded, fully-offset-assigned field list. It performs the fixed-
// point iteration over header_len/payload_start/file_size and the CRC32
// stamp.
func Build(fields []FieldMeta, opts BuildOptions) ([]byte, Header, error) {
	var totalCSize uint64
	for _, f := range fields {
		totalCSize += f.CSize
	}

	h := Header{
		Format: "GBF", Magic: "GREDBIN", Version: 1,
		Endianness: "little", Order: "column-major", Root: "struct",
		HeaderCRC32Hex: placeholderCRC,
		CreatedUTC:     opts.CreatedUTC,
		MatlabVersion:  opts.MatlabVersion,
		Fields:         fields,
	}

	var raw []byte
	const maxIterations = 6
	converged := false
	for i := 0; i < maxIterations; i++ {
		raw = serialize(h)
		headerLen := uint64(len(raw))
		payloadStart := 8 + 4 + headerLen
		fileSize := payloadStart + totalCSize
		if payloadStart == h.PayloadStart && fileSize == h.FileSize {
			converged = true
			break
		}
		h.PayloadStart = payloadStart
		h.FileSize = fileSize
	}
	if !converged {
		return nil, Header{}, gbferr.New(gbferr.KindInvalidData,
			"header length failed to converge to a fixed point within 6 iterations")
	}

	crc := integrity.Checksum(raw)
	hex := fmt.Sprintf("%08X", crc)
	stamped, err := spliceCRCHex(raw, hex)
	if err != nil {
		return nil, Header{}, err
	}
	h.HeaderCRC32Hex = hex

	return stamped, h, nil
}

func serialize(h Header) []byte {
	return gjson.Serialize(toJSON(h))
}

func toJSON(h Header) gjson.Value {
	fields := make([]gjson.Value, len(h.Fields))
	for i, f := range h.Fields {
		fields[i] = fieldToJSON(f)
	}

	members := []gjson.Member{
		{Key: "format", Value: gjson.Str(h.Format)},
		{Key: "magic", Value: gjson.Str(h.Magic)},
		{Key: "version", Value: gjson.Int(int64(h.Version))},
		{Key: "endianness", Value: gjson.Str(h.Endianness)},
		{Key: "order", Value: gjson.Str(h.Order)},
		{Key: "root", Value: gjson.Str(h.Root)},
		{Key: "fields", Value: gjson.Arr(fields...)},
		{Key: "payload_start", Value: gjson.Uint(h.PayloadStart)},
		{Key: "file_size", Value: gjson.Uint(h.FileSize)},
		{Key: "header_crc32_hex", Value: gjson.Str(h.HeaderCRC32Hex)},
	}
	if h.CreatedUTC != "" {
		members = append(members, gjson.Member{Key: "created_utc", Value: gjson.Str(h.CreatedUTC)})
	}
	if h.MatlabVersion != "" {
		members = append(members, gjson.Member{Key: "matlab_version", Value: gjson.Str(h.MatlabVersion)})
	}
	return gjson.Obj(members...)
}

func fieldToJSON(f FieldMeta) gjson.Value {
	shape := make([]gjson.Value, len(f.Shape))
	for i, d := range f.Shape {
		shape[i] = gjson.Uint(d)
	}
	return gjson.Obj(
		gjson.Member{Key: "name", Value: gjson.Str(f.Name)},
		gjson.Member{Key: "kind", Value: gjson.Str(f.Kind)},
		gjson.Member{Key: "class", Value: gjson.Str(f.Class)},
		gjson.Member{Key: "shape", Value: gjson.Arr(shape...)},
		gjson.Member{Key: "complex", Value: gjson.Bool(f.Complex)},
		gjson.Member{Key: "encoding", Value: gjson.Str(f.Encoding)},
		gjson.Member{Key: "compression", Value: gjson.Str(f.Compression)},
		gjson.Member{Key: "offset", Value: gjson.Uint(f.Offset)},
		gjson.Member{Key: "csize", Value: gjson.Uint(f.CSize)},
		gjson.Member{Key: "usize", Value: gjson.Uint(f.USize)},
		gjson.Member{Key: "crc32", Value: gjson.Uint(uint64(f.CRC32))},
	)
}

// spliceCRCHex replaces the 8 hex digits following headerCRCMarker in raw
// with hex, without disturbing the length or any other byte. The header
// CRC stamping step depends on this splice being length-preserving.
func spliceCRCHex(raw []byte, hex string) ([]byte, error) {
	if len(hex) != 8 {
		return nil, gbferr.New(gbferr.KindInvalidData, "CRC hex must be exactly 8 characters")
	}
	idx := bytes.Index(raw, []byte(headerCRCMarker))
	if idx < 0 {
		return nil, gbferr.New(gbferr.KindInvalidData, "header_crc32_hex field not found in header JSON")
	}
	start := idx + len(headerCRCMarker)
	if start+8 > len(raw) || raw[start+8] != '"' {
		return nil, gbferr.New(gbferr.KindInvalidData, "malformed header_crc32_hex field")
	}
	out := append([]byte(nil), raw...)
	copy(out[start:start+8], hex)
	return out, nil
}

// zeroedCRCHex returns a copy of raw with the header_crc32_hex value
// replaced by 8 zero characters, used to recompute the CRC the same way
// Build did before stamping it.
func zeroedCRCHex(raw []byte) ([]byte, error) {
	return spliceCRCHex(raw, placeholderCRC)
}
