package sink

import (
	"errors"

	"dash0.com/printer-status-backend/internal/jsonenc"
)

// ErrEmptyBuffer is returned when a Buffer is bound to zero bytes of memory.
var ErrEmptyBuffer = errors.New("sink: buffer must hold at least one byte")

// maxNumberLen covers the longest %.6g double ("-1.23457e-308") and any uint32.
const maxNumberLen = 32

// Buffer writes into caller-owned memory of fixed size N.
// At most N-1 bytes are written: the last byte is never touched, so callers
// that keep it zeroed always have a terminated buffer. Writes past the limit
// are dropped silently; Truncated reports whether that happened.
type Buffer struct {
	buf       []byte
	limit     int
	length    int
	truncated bool
}

var _ jsonenc.Sink = (*Buffer)(nil)

// NewBuffer binds a Buffer to buf.
func NewBuffer(buf []byte) (*Buffer, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}

	return &Buffer{buf: buf, limit: len(buf) - 1}, nil
}

// AddChar appends ch if there is room.
func (b *Buffer) AddChar(ch byte) {
	if b.length < b.limit {
		b.buf[b.length] = ch
		b.length++

		return
	}

	b.truncated = true
}

// AddNumber renders n into the remaining space, cutting it short if needed.
func (b *Buffer) AddNumber(n jsonenc.Number) {
	var scratch [maxNumberLen]byte

	text := jsonenc.AppendNumber(scratch[:0], n)
	copied := copy(b.buf[b.length:b.limit], text)
	b.length += copied

	if copied < len(text) {
		b.truncated = true
	}
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return b.length }

// Cap returns the number of usable bytes (N-1).
func (b *Buffer) Cap() int { return b.limit }

// Remaining returns how many more bytes fit.
func (b *Buffer) Remaining() int { return b.limit - b.length }

// Bytes returns the written prefix of the backing memory.
func (b *Buffer) Bytes() []byte { return b.buf[:b.length] }

// Truncated reports whether any output was dropped since the last Reset.
func (b *Buffer) Truncated() bool { return b.truncated }

// Reset discards the written length so the memory can be reused.
func (b *Buffer) Reset() {
	b.length = 0
	b.truncated = false
}
