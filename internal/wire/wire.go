// Package wire provides the low-level binary primitives used to frame
// Omega envelopes on the bus. It plays the same role for this client that
// kbin plays for franz-go: a small, hand-rolled append/read pair that the
// higher-level codec builds typed messages on top of.
//
// The wire format for a single logical frame is:
//
//	byte    kind tag
//	varint-free length-prefixed fields thereafter, each either:
//	  uint32 length + raw bytes (strings)
//	  4 bytes big-endian (int32)
//	  8 bytes big-endian (int64, float64 via math.Float64bits)
//	  1 byte (bool)
//
// There is no varint encoding; fields are fixed-width or length-prefixed.
// This keeps the codec trivial to audit, which matters more here than byte
// density: Omega envelopes are small control/order messages, not bulk data.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortBuffer is returned when a Reader runs out of bytes mid-field.
var ErrShortBuffer = errors.New("wire: short buffer")

// ErrTrailingBytes is returned by Complete when a frame has unread bytes
// remaining after every expected field has been consumed.
var ErrTrailingBytes = errors.New("wire: trailing bytes")

// Writer appends fields to an in-progress frame.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with a pre-sized backing buffer.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated frame.
func (w *Writer) Bytes() []byte { return w.buf }

// Byte appends a single byte (used for kind tags and presence flags).
func (w *Writer) Byte(b byte) { w.buf = append(w.buf, b) }

// Bool appends a single byte, 1 for true.
func (w *Writer) Bool(v bool) {
	if v {
		w.Byte(1)
	} else {
		w.Byte(0)
	}
}

// String appends a uint32 length prefix followed by the raw bytes. An empty
// string and an absent field are indistinguishable on the wire, matching the
// schema's "missing optional fields take schema defaults" policy.
func (w *Writer) String(s string) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	w.buf = append(w.buf, lenBuf[:]...)
	w.buf = append(w.buf, s...)
}

// Int32 appends a big-endian 4-byte signed integer.
func (w *Writer) Int32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

// Int64 appends a big-endian 8-byte signed integer.
func (w *Writer) Int64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

// Float64 appends an IEEE-754 double, big-endian.
func (w *Writer) Float64(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

// Reader consumes fields from a frame in the order they were written.
type Reader struct {
	Src []byte
	err error
}

// NewReader wraps a raw frame for sequential decoding.
func NewReader(src []byte) *Reader { return &Reader{Src: src} }

// Err returns the first error encountered, if any. Once set, all further
// reads are no-ops returning the zero value, so callers can chain reads and
// check Err() once at the end.
func (r *Reader) Err() error { return r.err }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.Src) < n {
		r.err = ErrShortBuffer
		return nil
	}
	b := r.Src[:n]
	r.Src = r.Src[n:]
	return b
}

// Byte reads a single byte.
func (r *Reader) Byte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Bool reads a single byte as a boolean.
func (r *Reader) Bool() bool { return r.Byte() != 0 }

// String reads a uint32-length-prefixed string.
func (r *Reader) String() string {
	lenBuf := r.take(4)
	if lenBuf == nil {
		return ""
	}
	n := binary.BigEndian.Uint32(lenBuf)
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

// Int32 reads a big-endian 4-byte signed integer.
func (r *Reader) Int32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

// Int64 reads a big-endian 8-byte signed integer.
func (r *Reader) Int64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

// Float64 reads an IEEE-754 double, big-endian.
func (r *Reader) Float64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// Complete returns an error if a prior read ran short, or if unread trailing
// bytes remain; the codec's ProtocolError classification uses this to catch
// truncated or over-long frames.
func (r *Reader) Complete() error {
	if r.err != nil {
		return r.err
	}
	if len(r.Src) != 0 {
		return ErrTrailingBytes
	}
	return nil
}
