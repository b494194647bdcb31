package codec

import (
	"github.com/scigolib/gbf/internal/gbferr"
	"github.com/scigolib/gbf/internal/primitives"
	"github.com/scigolib/gbf/value"
)

func encodeCalendarDuration(v value.Value) (EncodedLeaf, error) {
	buf := primitives.NewBuffer(len(v.CalMask) + len(v.Months)*4 + len(v.Days)*4 + len(v.CalTimeMs)*8)
	buf.AppendBytes(v.CalMask)
	for i, m := range v.Months {
		if v.CalMask[i] != 0 {
			buf.AppendI32LE(0)
			continue
		}
		buf.AppendI32LE(m)
	}
	for i, d := range v.Days {
		if v.CalMask[i] != 0 {
			buf.AppendI32LE(0)
			continue
		}
		buf.AppendI32LE(d)
	}
	for i, t := range v.CalTimeMs {
		if v.CalMask[i] != 0 {
			buf.AppendI64LE(0)
			continue
		}
		buf.AppendI64LE(t)
	}
	return EncodedLeaf{
		Kind: "calendarDuration", Shape: v.Shape,
		Encoding: "calendarDuration:mask+months+days+time-ms",
		Data:     buf.Bytes(), Usize: uint64(buf.Len()),
	}, nil
}

func decodeCalendarDuration(shape []uint64, data []byte) (value.Value, error) {
	numel, err := primitives.Numel(shape)
	if err != nil {
		return value.Value{}, err
	}
	r := primitives.NewReader(data)

	mask, ok := r.Bytes(int(numel))
	if !ok {
		return value.Value{}, gbferr.New(gbferr.KindTruncated, "calendarDuration mask truncated")
	}
	mask = append([]byte(nil), mask...)

	months := make([]int32, numel)
	for i := range months {
		m, ok := r.I32LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "calendarDuration months truncated")
		}
		months[i] = m
	}

	days := make([]int32, numel)
	for i := range days {
		d, ok := r.I32LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "calendarDuration days truncated")
		}
		days[i] = d
	}

	timeMs := make([]int64, numel)
	for i := range timeMs {
		t, ok := r.I64LE()
		if !ok {
			return value.Value{}, gbferr.New(gbferr.KindTruncated, "calendarDuration time_ms truncated")
		}
		timeMs[i] = t
	}

	return value.NewCalendarDuration(shape, mask, months, days, timeMs)
}
