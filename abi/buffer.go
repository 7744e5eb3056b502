package abi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrBufferUnderflow        = errors.New("buffer underflow")
	ErrTrailingBytes          = errors.New("trailing bytes after value")
	ErrConverterNotRegistered = errors.New("converter not registered")
	ErrInvalidValue           = errors.New("invalid value")
)

// Buffer accumulates values in the big-endian wire format.
type Buffer struct {
	data []byte
}

func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

func (b *Buffer) Bytes() []byte { return b.data }
func (b *Buffer) Len() int      { return len(b.data) }

func (b *Buffer) PutU8(v uint8)   { b.data = append(b.data, v) }
func (b *Buffer) PutU16(v uint16) { b.data = binary.BigEndian.AppendUint16(b.data, v) }
func (b *Buffer) PutU32(v uint32) { b.data = binary.BigEndian.AppendUint32(b.data, v) }
func (b *Buffer) PutU64(v uint64) { b.data = binary.BigEndian.AppendUint64(b.data, v) }

// PutBytes writes p prefixed with its i32 length.
func (b *Buffer) PutBytes(p []byte) {
	b.PutU32(uint32(len(p)))
	b.data = append(b.data, p...)
}

// Cursor reads values from a byte slice. Every read either consumes exactly
// the bytes of one value or fails with ErrBufferUnderflow.
type Cursor struct {
	data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining is the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferUnderflow, n, c.pos, c.Remaining())
	}
	p := c.data[c.pos : c.pos+n]
	c.pos += n
	return p, nil
}

func (c *Cursor) U8() (uint8, error) {
	p, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (c *Cursor) U16() (uint16, error) {
	p, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (c *Cursor) U32() (uint32, error) {
	p, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (c *Cursor) U64() (uint64, error) {
	p, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

// Bytes reads an i32 length followed by that many bytes.
func (c *Cursor) Bytes() ([]byte, error) {
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	return c.take(int(int32(n)))
}

// Finish fails if any bytes are left unread.
func (c *Cursor) Finish() error {
	if n := c.Remaining(); n != 0 {
		return fmt.Errorf("%w: %d bytes left", ErrTrailingBytes, n)
	}
	return nil
}
