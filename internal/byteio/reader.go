// Package byteio provides typed little-endian reads and writes over
// seekable byte streams, fixed-width null-padded strings, and the literal
// tag scanning that delimits every dta section.
package byteio

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/stata/endian"
	"github.com/arloliu/stata/errs"
)

// Reader wraps a seekable byte stream with typed little-endian reads.
//
// Every read advances the stream position. A Reader is not safe for
// concurrent use.
type Reader struct {
	r      io.ReadSeeker
	engine endian.Engine
	buf    [8]byte
}

// NewReader returns a Reader over r.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r, engine: endian.Little()}
}

// Tell returns the current stream position.
func (r *Reader) Tell() (int64, error) {
	return r.r.Seek(0, io.SeekCurrent)
}

// Seek moves the stream to an absolute position.
func (r *Reader) Seek(pos int64) error {
	_, err := r.r.Seek(pos, io.SeekStart)
	return err
}

// Skip advances the stream by n bytes.
func (r *Reader) Skip(n int64) error {
	_, err := r.r.Seek(n, io.SeekCurrent)
	return err
}

// Bytes reads exactly n bytes into a fresh slice.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, fmt.Errorf("%w: truncated read of %d bytes: %v", errs.ErrFormat, n, err)
	}

	return b, nil
}

// Fill reads len(b) bytes into b.
func (r *Reader) Fill(b []byte) error {
	if _, err := io.ReadFull(r.r, b); err != nil {
		return fmt.Errorf("%w: truncated read of %d bytes: %v", errs.ErrFormat, len(b), err)
	}

	return nil
}

func (r *Reader) fixed(n int) ([]byte, error) {
	b := r.buf[:n]
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, fmt.Errorf("%w: truncated read of %d bytes: %v", errs.ErrFormat, n, err)
	}

	return b, nil
}

// Uint8 reads one unsigned byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.fixed(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// Int8 reads one signed byte.
func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

// Uint16 reads a little-endian 16-bit unsigned integer.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.fixed(2)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

// Int16 reads a little-endian 16-bit signed integer.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Uint32 reads a little-endian 32-bit unsigned integer.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.fixed(4)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

// Int32 reads a little-endian 32-bit signed integer.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Uint64 reads a little-endian 64-bit unsigned integer.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.fixed(8)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint64(b), nil
}

// Int64 reads a little-endian 64-bit signed integer.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Float32 reads a little-endian IEEE 754 single.
func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

// Float64 reads a little-endian IEEE 754 double.
func (r *Reader) Float64() (float64, error) {
	v, err := r.Uint64()
	return math.Float64frombits(v), err
}

// FixedString reads an n-byte field and returns its prefix up to the first
// zero byte, or the full field when no zero byte is present.
func (r *Reader) FixedString(n int) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}

	return string(TrimAtNul(b)), nil
}

// Peek returns the next n bytes without advancing the stream.
func (r *Reader) Peek(n int) ([]byte, error) {
	pos, err := r.Tell()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	m, err := io.ReadFull(r.r, b)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if err := r.Seek(pos); err != nil {
		return nil, err
	}

	return b[:m], nil
}

// Expect consumes the literal lit from the stream, failing with ErrFormat
// when the bytes at the current position differ. This is the tag scanner:
// every dta section is delimited by literal ASCII markers such as
// "<header>" or "</value_labels>".
func (r *Reader) Expect(lit string) error {
	b := make([]byte, len(lit))
	if _, err := io.ReadFull(r.r, b); err != nil {
		return fmt.Errorf("%w: expected %q: %v", errs.ErrFormat, lit, err)
	}
	if string(b) != lit {
		return fmt.Errorf("%w: expected %q, found %q", errs.ErrFormat, lit, string(b))
	}

	return nil
}

// TrimAtNul returns the prefix of b before the first zero byte, or b itself
// when no zero byte is present.
func TrimAtNul(b []byte) []byte {
	for i, v := range b {
		if v == 0 {
			return b[:i]
		}
	}

	return b
}
