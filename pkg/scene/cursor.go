package scene

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads and writes a fixed-length byte span front to back.
//
// Every operation advances the position by the width it touches. Running
// past the end panics with ErrCursorOverrun; Transform recovers it into a
// SectionError for the record being processed.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the span length.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of bytes not yet consumed.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) need(n int) {
	if n < 0 || c.pos+n > len(c.buf) {
		panic(fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrCursorOverrun, n, c.pos, len(c.buf)))
	}
}

// Skip advances past n bytes without modifying them.
func (c *Cursor) Skip(n int) {
	c.need(n)
	c.pos += n
}

// Rewind moves the position back by n bytes. Only used to re-read a field
// group that was just written.
func (c *Cursor) Rewind(n int) {
	if n < 0 || n > c.pos {
		panic(fmt.Errorf("%w: rewind %d from offset %d", ErrCursorOverrun, n, c.pos))
	}
	c.pos -= n
}

// Peek returns the byte at pos+off without advancing.
func (c *Cursor) Peek(off int) byte {
	c.need(off + 1)
	return c.buf[c.pos+off]
}

// PeekUint16 returns the little-endian word at pos+off without advancing.
func (c *Cursor) PeekUint16(off int) uint16 {
	c.need(off + 2)
	return binary.LittleEndian.Uint16(c.buf[c.pos+off:])
}

// At returns the byte at an absolute offset of the span.
func (c *Cursor) At(off int) byte {
	if off < 0 || off >= len(c.buf) {
		panic(fmt.Errorf("%w: offset %d of %d", ErrCursorOverrun, off, len(c.buf)))
	}
	return c.buf[off]
}

// Uint16At returns the little-endian word at an absolute offset of the span.
func (c *Cursor) Uint16At(off int) uint16 {
	if off < 0 || off+2 > len(c.buf) {
		panic(fmt.Errorf("%w: offset %d of %d", ErrCursorOverrun, off, len(c.buf)))
	}
	return binary.LittleEndian.Uint16(c.buf[off:])
}

// SetAt overwrites the byte at an absolute offset without moving the cursor.
func (c *Cursor) SetAt(off int, b byte) {
	if off < 0 || off >= len(c.buf) {
		panic(fmt.Errorf("%w: offset %d of %d", ErrCursorOverrun, off, len(c.buf)))
	}
	c.buf[off] = b
}

// Byte reads one byte.
func (c *Cursor) Byte() byte {
	c.need(1)
	b := c.buf[c.pos]
	c.pos++
	return b
}

// Uint16 reads a little-endian word.
func (c *Cursor) Uint16() uint16 {
	c.need(2)
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v
}

// PutByte writes one byte.
func (c *Cursor) PutByte(b byte) {
	c.need(1)
	c.buf[c.pos] = b
	c.pos++
}

// PutUint16 writes a little-endian word.
func (c *Cursor) PutUint16(v uint16) {
	c.need(2)
	binary.LittleEndian.PutUint16(c.buf[c.pos:], v)
	c.pos += 2
}

// Write copies p verbatim.
func (c *Cursor) Write(p []byte) {
	c.need(len(p))
	copy(c.buf[c.pos:], p)
	c.pos += len(p)
}

// Fill writes n copies of b.
func (c *Cursor) Fill(b byte, n int) {
	c.need(n)
	for i := 0; i < n; i++ {
		c.buf[c.pos+i] = b
	}
	c.pos += n
}

// Block returns a cursor over the next n bytes and advances c past them.
// The parent stays aligned no matter how the block is consumed.
func (c *Cursor) Block(n int) *Cursor {
	c.need(n)
	end := c.pos + n
	b := &Cursor{buf: c.buf[c.pos:end:end]}
	c.pos = end
	return b
}

// Done reports an error unless the span was consumed exactly.
func (c *Cursor) Done() error {
	if c.pos != len(c.buf) {
		return fmt.Errorf("%w: consumed %d of %d bytes", ErrCursorMisaligned, c.pos, len(c.buf))
	}
	return nil
}
