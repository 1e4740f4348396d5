// Package reply implements the outgoing half of a command connection.
package reply

import (
	"bufio"
	"io"

	"dash0.com/printer-status-backend/internal/jsonenc"
	"dash0.com/printer-status-backend/internal/sink"
)

// Channel writes reply text to an io.Writer. The first write error is kept
// and returned by Finish; later appends are discarded.
type Channel struct {
	w       *bufio.Writer
	err     error
	written int
	scratch [32]byte
}

var _ sink.ReplyChannel = (*Channel)(nil)

// NewChannel wraps w.
func NewChannel(w io.Writer) *Channel {
	return &Channel{w: bufio.NewWriter(w)}
}

func (c *Channel) AppendChar(ch byte) {
	if c.err != nil {
		return
	}

	if c.err = c.w.WriteByte(ch); c.err == nil {
		c.written++
	}
}

func (c *Channel) AppendUint32(v uint32) {
	c.appendBytes(jsonenc.AppendNumber(c.scratch[:0], jsonenc.Number{Kind: jsonenc.NumberUint32, Uint: v}))
}

func (c *Channel) AppendDouble(v float64) {
	c.appendBytes(jsonenc.AppendNumber(c.scratch[:0], jsonenc.Number{Kind: jsonenc.NumberDouble, Float: v}))
}

// AppendString writes s verbatim.
func (c *Channel) AppendString(s string) {
	if c.err != nil {
		return
	}

	n, err := c.w.WriteString(s)
	c.written += n
	c.err = err
}

func (c *Channel) appendBytes(p []byte) {
	if c.err != nil {
		return
	}

	n, err := c.w.Write(p)
	c.written += n
	c.err = err
}

// Finish flushes the reply. The channel can be reused for the next reply
// unless an error was returned.
func (c *Channel) Finish() error {
	if c.err != nil {
		return c.err
	}

	c.err = c.w.Flush()

	return c.err
}

// Written returns the number of bytes accepted so far.
func (c *Channel) Written() int { return c.written }

// Err returns the first error encountered, if any.
func (c *Channel) Err() error { return c.err }
