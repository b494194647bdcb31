// Package reader implements GBF file reading: magic/header validation,
// per-field seeking, decompression, CRC checking, and leaf decode, behind
// the root package's ReadHeaderOnly/ReadFile/ReadVar.
package reader

import (
	"io"
	"sort"
	"sync"

	"github.com/scigolib/gbf/header"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 4096)
	},
}

func getBuffer(size int) []byte {
	buf := bufferPool.Get().([]byte)
	if cap(buf) < size {
		return make([]byte, size)
	}
	return buf[:size]
}

func releaseBuffer(buf []byte) {
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	bufferPool.Put(buf[:0])
}

// region is one field's byte span within the payload, in absolute file
// offsets.
type region struct {
	fieldIdx int
	start    uint64
	end      uint64 // exclusive
}

// ReadFields reads exactly the csize bytes of every requested field from r,
// coalescing adjacent/overlapping regions into single ReadAt calls so that a
// struct with many small leaves does not issue one syscall per leaf. The
// returned slice is indexed the same way as fields: result[i] holds the raw
// (still possibly compressed) bytes for fields[i].
func ReadFields(r io.ReaderAt, payloadStart uint64, fields []header.FieldMeta) ([][]byte, error) {
	regions := make([]region, len(fields))
	for i, f := range fields {
		start := payloadStart + f.Offset
		regions[i] = region{fieldIdx: i, start: start, end: start + f.CSize}
	}

	order := make([]int, len(regions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return regions[order[a]].start < regions[order[b]].start })

	out := make([][]byte, len(fields))

	i := 0
	for i < len(order) {
		groupStart := regions[order[i]].start
		groupEnd := regions[order[i]].end
		j := i + 1
		for j < len(order) && regions[order[j]].start <= groupEnd {
			if regions[order[j]].end > groupEnd {
				groupEnd = regions[order[j]].end
			}
			j++
		}

		size := groupEnd - groupStart
		if size > 0 {
			buf := getBuffer(int(size))
			if _, err := r.ReadAt(buf, int64(groupStart)); err != nil {
				releaseBuffer(buf)
				return nil, err
			}
			for k := i; k < j; k++ {
				idx := order[k]
				reg := regions[idx]
				localStart := reg.start - groupStart
				localEnd := reg.end - groupStart
				out[reg.fieldIdx] = append([]byte(nil), buf[localStart:localEnd]...)
			}
			releaseBuffer(buf)
		} else {
			for k := i; k < j; k++ {
				out[regions[order[k]].fieldIdx] = []byte{}
			}
		}
		i = j
	}

	return out, nil
}
