package byteio

import (
	"io"
	"math"

	"github.com/arloliu/stata/endian"
)

// Writer wraps a seekable byte sink with typed little-endian writes.
//
// The dta writer needs seekability for exactly one fix-up: the offset map
// emitted as zeros and overwritten after the body is complete. A Writer is
// not safe for concurrent use.
type Writer struct {
	w      io.WriteSeeker
	engine endian.Engine
	buf    [8]byte
}

// NewWriter returns a Writer over w.
func NewWriter(w io.WriteSeeker) *Writer {
	return &Writer{w: w, engine: endian.Little()}
}

// Tell returns the current sink position.
func (w *Writer) Tell() (int64, error) {
	return w.w.Seek(0, io.SeekCurrent)
}

// Seek moves the sink to an absolute position.
func (w *Writer) Seek(pos int64) error {
	_, err := w.w.Seek(pos, io.SeekStart)
	return err
}

// Bytes writes b verbatim.
func (w *Writer) Bytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// Literal writes the ASCII literal lit, used for section markers.
func (w *Writer) Literal(lit string) error {
	_, err := io.WriteString(w.w, lit)
	return err
}

// Uint8 writes one unsigned byte.
func (w *Writer) Uint8(v uint8) error {
	w.buf[0] = v
	_, err := w.w.Write(w.buf[:1])

	return err
}

// Int8 writes one signed byte.
func (w *Writer) Int8(v int8) error {
	return w.Uint8(uint8(v))
}

// Uint16 writes a little-endian 16-bit unsigned integer.
func (w *Writer) Uint16(v uint16) error {
	w.engine.PutUint16(w.buf[:2], v)
	_, err := w.w.Write(w.buf[:2])

	return err
}

// Int16 writes a little-endian 16-bit signed integer.
func (w *Writer) Int16(v int16) error {
	return w.Uint16(uint16(v))
}

// Uint32 writes a little-endian 32-bit unsigned integer.
func (w *Writer) Uint32(v uint32) error {
	w.engine.PutUint32(w.buf[:4], v)
	_, err := w.w.Write(w.buf[:4])

	return err
}

// Int32 writes a little-endian 32-bit signed integer.
func (w *Writer) Int32(v int32) error {
	return w.Uint32(uint32(v))
}

// Uint64 writes a little-endian 64-bit unsigned integer.
func (w *Writer) Uint64(v uint64) error {
	w.engine.PutUint64(w.buf[:8], v)
	_, err := w.w.Write(w.buf[:8])

	return err
}

// Int64 writes a little-endian 64-bit signed integer.
func (w *Writer) Int64(v int64) error {
	return w.Uint64(uint64(v))
}

// Float32 writes a little-endian IEEE 754 single.
func (w *Writer) Float32(v float32) error {
	return w.Uint32(math.Float32bits(v))
}

// Float64 writes a little-endian IEEE 754 double.
func (w *Writer) Float64(v float64) error {
	return w.Uint64(math.Float64bits(v))
}

// PaddedString writes s into a fixed n-byte field, null-padded on the
// right. Strings longer than n are truncated to n bytes.
func (w *Writer) PaddedString(s string, n int) error {
	b := make([]byte, n)
	copy(b, s)
	_, err := w.w.Write(b)

	return err
}
