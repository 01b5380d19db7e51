// Package propstream implements the fixed-width little-endian property
// stream used by the house item snapshot format.
package propstream

import (
	"encoding/binary"
	"math"
)

// Reader is a bounds-checked cursor over an externally owned buffer.
// Every read fails soft: when fewer bytes remain than requested it returns
// ok=false and leaves the cursor where it was.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *Reader {
	r := &Reader{}
	r.Init(buf)
	return r
}

// Init rebinds the reader to buf and rewinds the cursor.
func (r *Reader) Init(buf []byte) {
	r.buf = buf
	r.pos = 0
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *Reader) take(n int) ([]byte, bool) {
	if n < 0 || r.Remaining() < n {
		return nil, false
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

func (r *Reader) ReadU8() (uint8, bool) {
	b, ok := r.take(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (r *Reader) ReadU16() (uint16, bool) {
	b, ok := r.take(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func (r *Reader) ReadU32() (uint32, bool) {
	b, ok := r.take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (r *Reader) ReadU64() (uint64, bool) {
	b, ok := r.take(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (r *Reader) ReadI32() (int32, bool) {
	v, ok := r.ReadU32()
	return int32(v), ok
}

func (r *Reader) ReadI64() (int64, bool) {
	v, ok := r.ReadU64()
	return int64(v), ok
}

// ReadString reads a u16 length followed by that many bytes. A truncated
// payload leaves the cursor before the length prefix.
func (r *Reader) ReadString() (string, bool) {
	start := r.pos
	n, ok := r.ReadU16()
	if !ok {
		return "", false
	}
	b, ok := r.take(int(n))
	if !ok {
		r.pos = start
		return "", false
	}
	return string(b), true
}

func (r *Reader) Skip(n int) bool {
	_, ok := r.take(n)
	return ok
}

// Writer accumulates a property stream in a growable buffer.
// The zero value is ready to use.
type Writer struct {
	buf []byte
}

func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

func (w *Writer) WriteI64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteString writes a u16 length prefix and the bytes of s, truncated to
// the largest length the prefix can carry.
func (w *Writer) WriteString(s string) {
	if len(s) > math.MaxUint16 {
		s = s[:math.MaxUint16]
	}
	w.WriteU16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// Bytes returns the accumulated stream. The slice aliases the internal
// buffer and is only valid until the next write or Clear.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

// Clear resets the length to zero and keeps the allocation for reuse.
func (w *Writer) Clear() {
	w.buf = w.buf[:0]
}
