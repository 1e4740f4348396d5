package sink

import "dash0.com/printer-status-backend/internal/jsonenc"

//go:generate mockgen -source=reply.go -destination=./mocks/mock_reply.go -package=mocks

// ReplyChannel is the outgoing side of one command reply.
type ReplyChannel interface {
	AppendChar(ch byte)
	AppendUint32(v uint32)
	AppendDouble(v float64)
	// Finish ends the reply.
	Finish() error
}

// Reply forwards encoder output straight to a reply channel, without buffering.
type Reply struct {
	ch ReplyChannel
}

var _ jsonenc.Sink = Reply{}

// NewReply wraps ch.
func NewReply(ch ReplyChannel) Reply { return Reply{ch: ch} }

func (r Reply) AddChar(ch byte) { r.ch.AppendChar(ch) }

func (r Reply) AddNumber(n jsonenc.Number) {
	switch n.Kind {
	case jsonenc.NumberUint32:
		r.ch.AppendUint32(n.Uint)
	case jsonenc.NumberDouble:
		r.ch.AppendDouble(n.Float)
	}
}
