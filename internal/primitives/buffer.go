package primitives

import "encoding/binary"

// Buffer is a growable little-endian byte buffer used by every leaf
// encoder. It exists so encoders can build payloads with append calls
// instead of manual index bookkeeping, matching the append-oriented style
// of the wire codecs this module replaces.
type Buffer struct {
	b []byte
}

// NewBuffer returns a Buffer with the given starting capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{b: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated bytes.
func (buf *Buffer) Bytes() []byte {
	return buf.b
}

// Len returns the number of bytes written so far.
func (buf *Buffer) Len() int {
	return len(buf.b)
}

// AppendBytes appends raw bytes verbatim.
func (buf *Buffer) AppendBytes(p []byte) {
	buf.b = append(buf.b, p...)
}

// AppendByte appends a single byte.
func (buf *Buffer) AppendByte(v byte) {
	buf.b = append(buf.b, v)
}

// AppendU16LE appends a little-endian uint16.
func (buf *Buffer) AppendU16LE(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.b = append(buf.b, tmp[:]...)
}

// AppendU32LE appends a little-endian uint32.
func (buf *Buffer) AppendU32LE(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.b = append(buf.b, tmp[:]...)
}

// AppendI32LE appends a little-endian int32.
func (buf *Buffer) AppendI32LE(v int32) {
	buf.AppendU32LE(uint32(v))
}

// AppendU64LE appends a little-endian uint64.
func (buf *Buffer) AppendU64LE(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.b = append(buf.b, tmp[:]...)
}

// AppendI64LE appends a little-endian int64.
func (buf *Buffer) AppendI64LE(v int64) {
	buf.AppendU64LE(uint64(v))
}

// Reader wraps a byte slice with a cursor, for sequential little-endian
// decoding of leaf payloads. Each Read* method advances the cursor and
// fails if insufficient bytes remain.
type Reader struct {
	b   []byte
	pos int
}

// NewReader wraps b for sequential decoding.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.b) - r.pos
}

// Bytes reads n raw bytes and advances the cursor.
func (r *Reader) Bytes(n int) ([]byte, bool) {
	if n < 0 || r.Remaining() < n {
		return nil, false
	}
	p := r.b[r.pos : r.pos+n]
	r.pos += n
	return p, true
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, bool) {
	p, ok := r.Bytes(1)
	if !ok {
		return 0, false
	}
	return p[0], true
}

// U16LE reads a little-endian uint16.
func (r *Reader) U16LE() (uint16, bool) {
	p, ok := r.Bytes(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(p), true
}

// U32LE reads a little-endian uint32.
func (r *Reader) U32LE() (uint32, bool) {
	p, ok := r.Bytes(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(p), true
}

// I32LE reads a little-endian int32.
func (r *Reader) I32LE() (int32, bool) {
	v, ok := r.U32LE()
	return int32(v), ok
}

// U64LE reads a little-endian uint64.
func (r *Reader) U64LE() (uint64, bool) {
	p, ok := r.Bytes(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(p), true
}

// I64LE reads a little-endian int64.
func (r *Reader) I64LE() (int64, bool) {
	v, ok := r.U64LE()
	return int64(v), ok
}
