package header

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/gjson"
	"github.com/scigolib/gbf/internal/integrity"
)

// Parse decodes the raw header JSON bytes (exactly header_len bytes, as
// read from the file) into a Header. actualFileSize is the on-disk file
// size as reported by stat, used to fill in or validate file_size.
//
// When validate is true, payload_start/file_size/header CRC consistency is
// enforced; when false, missing/zero fields are filled in permissively and
// the CRC is not checked.
func Parse(raw []byte, validate bool, actualFileSize uint64) (Header, error) {
	root, err := gjson.Parse(raw)
	if err != nil {
		return Header{}, gbferr.Wrap(gbferr.KindHeaderJSONParse, "header JSON parse failed", err)
	}

	h := Header{}

	if h.Format, err = requireString(root, "format"); err != nil {
		return Header{}, err
	}
	if h.Magic, err = requireString(root, "magic"); err != nil {
		return Header{}, err
	}
	version, err := requireInt(root, "version")
	if err != nil {
		return Header{}, err
	}
	h.Version = int(version)
	if h.Endianness, err = requireString(root, "endianness"); err != nil {
		return Header{}, err
	}
	if h.Order, err = requireString(root, "order"); err != nil {
		return Header{}, err
	}
	if h.Root, err = requireString(root, "root"); err != nil {
		return Header{}, err
	}
	if h.HeaderCRC32Hex, err = requireString(root, "header_crc32_hex"); err != nil {
		return Header{}, err
	}
	if len(h.HeaderCRC32Hex) != 8 {
		return Header{}, gbferr.New(gbferr.KindHeaderJSONParse, "header_crc32_hex must be exactly 8 hex digits")
	}

	payloadStart, err := optionalUint(root, "payload_start")
	if err != nil {
		return Header{}, err
	}
	fileSize, err := optionalUint(root, "file_size")
	if err != nil {
		return Header{}, err
	}

	fieldsVal, ok := root.Get("fields")
	if !ok {
		return Header{}, gbferr.New(gbferr.KindHeaderJSONParse, "header missing required field 'fields'")
	}
	fieldsArr, err := fieldsVal.Array()
	if err != nil {
		return Header{}, gbferr.Wrap(gbferr.KindHeaderJSONParse, "'fields' must be an array", err)
	}
	h.Fields = make([]FieldMeta, len(fieldsArr))
	for i, fv := range fieldsArr {
		fm, err := parseFieldMeta(fv)
		if err != nil {
			return Header{}, err
		}
		h.Fields[i] = fm
	}
	h.buildIndex()

	if createdVal, ok := root.Get("created_utc"); ok {
		h.CreatedUTC, _ = createdVal.String()
	}
	if mvVal, ok := root.Get("matlab_version"); ok {
		h.MatlabVersion, _ = mvVal.String()
	}

	computedPayloadStart := uint64(8 + 4 + len(raw))
	if payloadStart == 0 {
		h.PayloadStart = computedPayloadStart
	} else {
		if validate && payloadStart != computedPayloadStart {
			return Header{}, gbferr.New(gbferr.KindInvalidData,
				"payload_start does not equal 8 + 4 + header_len")
		}
		h.PayloadStart = payloadStart
	}

	if fileSize == 0 {
		h.FileSize = actualFileSize
	} else {
		if validate && fileSize != actualFileSize {
			return Header{}, gbferr.New(gbferr.KindInvalidData,
				"file_size does not match actual file size")
		}
		h.FileSize = fileSize
	}

	if validate {
		if err := verifyHeaderCRC(raw, h.HeaderCRC32Hex); err != nil {
			return Header{}, err
		}
	}

	return h, nil
}

func verifyHeaderCRC(raw []byte, recordedHex string) error {
	zeroed, err := zeroedCRCHex(raw)
	if err != nil {
		return gbferr.Wrap(gbferr.KindHeaderJSONParse, "could not locate header_crc32_hex for validation", err)
	}
	computed := integrity.Checksum(zeroed)
	computedHex := formatCRCHex(computed)
	if computedHex != recordedHex {
		return gbferr.New(gbferr.KindHeaderCRCMismatch, "header CRC32 does not match recorded value")
	}
	return nil
}

func formatCRCHex(crc uint32) string {
	const hexDigits = "0123456789ABCDEF"
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = hexDigits[crc&0xF]
		crc >>= 4
	}
	return string(buf)
}

func parseFieldMeta(v gjson.Value) (FieldMeta, error) {
	var fm FieldMeta
	var err error
	if fm.Name, err = requireString(v, "name"); err != nil {
		return FieldMeta{}, err
	}
	if fm.Kind, err = requireString(v, "kind"); err != nil {
		return FieldMeta{}, err
	}
	if fm.Class, err = optionalString(v, "class"); err != nil {
		return FieldMeta{}, err
	}

	shapeVal, ok := v.Get("shape")
	if !ok {
		return FieldMeta{}, gbferr.New(gbferr.KindHeaderJSONParse, "field missing 'shape'")
	}
	shapeArr, err := shapeVal.Array()
	if err != nil {
		return FieldMeta{}, err
	}
	fm.Shape = make([]uint64, len(shapeArr))
	for i, d := range shapeArr {
		fm.Shape[i], err = d.Uint64()
		if err != nil {
			return FieldMeta{}, err
		}
	}

	complexVal, ok := v.Get("complex")
	if !ok {
		return FieldMeta{}, gbferr.New(gbferr.KindHeaderJSONParse, "field missing 'complex'")
	}
	if fm.Complex, err = complexVal.Boolean(); err != nil {
		return FieldMeta{}, err
	}

	if fm.Encoding, err = optionalString(v, "encoding"); err != nil {
		return FieldMeta{}, err
	}
	if fm.Compression, err = requireString(v, "compression"); err != nil {
		return FieldMeta{}, err
	}
	if fm.Compression != "none" && fm.Compression != "zlib" {
		return FieldMeta{}, gbferr.New(gbferr.KindHeaderJSONParse, "field compression must be 'none' or 'zlib'")
	}

	if fm.Offset, err = requireUint(v, "offset"); err != nil {
		return FieldMeta{}, err
	}
	if fm.CSize, err = requireUint(v, "csize"); err != nil {
		return FieldMeta{}, err
	}
	if fm.USize, err = requireUint(v, "usize"); err != nil {
		return FieldMeta{}, err
	}
	crc, err := requireUint(v, "crc32")
	if err != nil {
		return FieldMeta{}, err
	}
	fm.CRC32 = uint32(crc)

	return fm, nil
}

func requireString(v gjson.Value, key string) (string, error) {
	child, ok := v.Get(key)
	if !ok {
		return "", gbferr.New(gbferr.KindHeaderJSONParse, "missing required field '"+key+"'")
	}
	return child.String()
}

func optionalString(v gjson.Value, key string) (string, error) {
	child, ok := v.Get(key)
	if !ok {
		return "", nil
	}
	return child.String()
}

func requireInt(v gjson.Value, key string) (int64, error) {
	child, ok := v.Get(key)
	if !ok {
		return 0, gbferr.New(gbferr.KindHeaderJSONParse, "missing required field '"+key+"'")
	}
	return child.Int64()
}

func requireUint(v gjson.Value, key string) (uint64, error) {
	child, ok := v.Get(key)
	if !ok {
		return 0, gbferr.New(gbferr.KindHeaderJSONParse, "missing required field '"+key+"'")
	}
	return child.Uint64()
}

func optionalUint(v gjson.Value, key string) (uint64, error) {
	child, ok := v.Get(key)
	if !ok {
		return 0, nil
	}
	return child.Uint64()
}
