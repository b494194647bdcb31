package codec

import (
	"strings"

	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
	"github.com/scigolib/gbf/value"
)

// Encoding tags for the datetime leaf. A writer always emits the unix-ms
// form (naive or tz variant, chosen by timezone presence); a reader also
// accepts the legacy calendar-components form some deployed writers used.
const (
	EncodingDateTimeTZ     = "dt:tz-unixms+nat-mask+tz+locale+format"
	EncodingDateTimeNaive  = "dt:naive-unixms+nat-mask+tz+locale+format"
	EncodingDateTimeLegacy = "dt:legacy-calendar+nat-mask"
)

func encodeDateTime(v value.Value) (EncodedLeaf, error) {
	buf := primitives.NewBuffer(16 + len(v.NatMask) + len(v.UnixMs)*8)

	buf.AppendByte(3) // n_strings
	appendLenPrefixedString(buf, v.Timezone)
	appendLenPrefixedString(buf, v.Locale)
	appendLenPrefixedString(buf, v.Format)

	buf.AppendBytes(v.NatMask)
	for i, ms := range v.UnixMs {
		if v.NatMask[i] != 0 {
			buf.AppendI64LE(0)
			continue
		}
		buf.AppendI64LE(ms)
	}

	encoding := EncodingDateTimeNaive
	if v.Timezone != "" {
		encoding = EncodingDateTimeTZ
	}

	return EncodedLeaf{
		Kind: "datetime", Shape: v.Shape, Encoding: encoding,
		Data: buf.Bytes(), Usize: uint64(buf.Len()),
	}, nil
}

func appendLenPrefixedString(buf *primitives.Buffer, s string) {
	b := []byte(s)
	buf.AppendU32LE(uint32(len(b)))
	buf.AppendBytes(b)
}

func decodeDateTime(shape []uint64, encoding string, data []byte) (value.Value, error) {
	if strings.HasPrefix(encoding, "dt:legacy-calendar") {
		return decodeDateTimeLegacy(shape, data)
	}
	return decodeDateTimeUnixMs(shape, data)
}

func decodeDateTimeUnixMs(shape []uint64, data []byte) (value.Value, error) {
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}

	r := primitives.NewReader(data)
	n, ok := r.Byte()
	if !ok || n != 3 {
		return value.Value{}, gbferr.New(gbferr.KindInvalidData, "datetime header must declare 3 strings")
	}
	tz, err := readLenPrefixedString(r)
	if err != nil {
		return value.Value{}, err
	}
	locale, err := readLenPrefixedString(r)
	if err != nil {
		return value.Value{}, err
	}
	format, err := readLenPrefixedString(r)
	if err != nil {
		return value.Value{}, err
	}

	natMask, ok := r.Bytes(int(numel))
	if !ok {
		return value.Value{}, gbferr.New(gbferr.KindTruncated, "datetime nat_mask truncated")
	}
	natMask = append([]byte(nil), natMask...)

	unixMs := make([]int64, numel)
	for i := range unixMs {
		ms, ok := r.I64LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "datetime unix_ms truncated")
		}
		unixMs[i] = ms
	}

	return value.NewDateTime(shape, tz, locale, format, natMask, unixMs)
}

// decodeDateTimeLegacy decodes the calendar-components form documented as
// a deployed legacy encoding: year i16 + month u8 + day u8 + ms-of-day i32
// per element, immediately following the nat_mask, with no timezone/locale
// /format header. Calendar fields are converted to a naive Unix-ms value.
func decodeDateTimeLegacy(shape []uint64, data []byte) (value.Value, error) {
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}

	r := primitives.NewReader(data)
	natMask, ok := r.Bytes(int(numel))
	if !ok {
		return value.Value{}, gbferr.New(gbferr.KindTruncated, "legacy datetime nat_mask truncated")
	}
	natMask = append([]byte(nil), natMask...)

	unixMs := make([]int64, numel)
	for i := range unixMs {
		year, ok := r.U16LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "legacy datetime year truncated")
		}
		month, ok := r.Byte()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "legacy datetime month truncated")
		}
		day, ok := r.Byte()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "legacy datetime day truncated")
		}
		msOfDay, ok := r.I32LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "legacy datetime ms-of-day truncated")
		}
		if natMask[i] != 0 {
			unixMs[i] = 0
			continue
		}
		unixMs[i] = calendarToUnixMs(int16(year), month, day, msOfDay)
	}

	return value.NewDateTime(shape, "", "", "", natMask, unixMs)
}

// calendarToUnixMs converts a proleptic Gregorian calendar date plus a
// millisecond-of-day offset to milliseconds since the Unix epoch, using
// the standard days-from-civil algorithm (Howard Hinnant's civil_from_days
// inverse), avoiding a time.Time round-trip for dates outside its range.
func calendarToUnixMs(year int16, month, day uint8, msOfDay int32) int64 {
	y := int64(year)
	m := int64(month)
	d := int64(day)
	if m <= 2 {
		y--
	}
	era := y
	if era < 0 {
		era -= 399
	}
	era /= 400
	yoe := y - era*400
	var mp int64
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	days := era*146097 + doe - 719468
	return days*86400000 + int64(msOfDay)
}

func readLenPrefixedString(r *primitives.Reader) (string, error) {
	length, ok := r.U32LE()
	if !ok {
		return "", gbferr.New(gbferr.KindTruncated, "string length truncated")
	}
	b, ok := r.Bytes(int(length))
	if !ok {
		return "", gbferr.New(gbferr.KindTruncated, "string bytes truncated")
	}
	return string(b), nil
}
