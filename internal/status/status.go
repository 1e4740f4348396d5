// Package status renders the M408 status document.
package status

import (
	"context"
	"log/slog"

	"dash0.com/printer-status-backend/internal/jsonenc"
	"dash0.com/printer-status-backend/internal/machine"
	"dash0.com/printer-status-backend/internal/sink"
)

// Write emits the status document for snap:
//
//	{"active":..,"coords":{"axesHomed":[..],"extr":[..],"xyz":[..]}}
//
// Level 1 and above also report heater temperatures under "temps".
func Write[S jsonenc.Sink](b *jsonenc.Builder[S], snap machine.Snapshot, level uint32) {
	b.Start().StartObject().
		AddSafeKeyVal("active", jsonenc.Bool(snap.Active)).
		AddObject(jsonenc.SafeString("coords"), func() {
			writeHoming(b, snap)
			b.AddArray(jsonenc.SafeString("extr"), func() {
				for _, a := range snap.Axes {
					if a.Extruder {
						b.Add(jsonenc.Double(a.Position))
					}
				}
			}).
				AddArray(jsonenc.SafeString("xyz"), func() {
					for _, a := range snap.Axes {
						if !a.Extruder {
							b.Add(jsonenc.Double(a.Position))
						}
					}
				})
		})

	if level >= 1 {
		b.AddObject(jsonenc.SafeString("temps"), func() {
			b.AddObject(jsonenc.SafeString("heads"), func() {
				b.AddArray(jsonenc.SafeString("current"), func() {
					for _, h := range snap.Heaters {
						b.Add(jsonenc.Double(h.Current))
					}
				})
			})
		})
	}

	b.EndObject()
}

// writeHoming reports one 1/0 flag per linear axis.
func writeHoming[S jsonenc.Sink](b *jsonenc.Builder[S], snap machine.Snapshot) {
	b.AddArray(jsonenc.SafeString("axesHomed"), func() {
		for _, a := range snap.Axes {
			if a.Extruder {
				continue
			}

			var homed uint32
			if a.Homed {
				homed = 1
			}

			b.Add(jsonenc.Uint32(homed))
		}
	})
}

// Handler answers status commands on a reply channel.
type Handler struct {
	logger *slog.Logger
}

// NewHandler returns a Handler logging to logger.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Reply streams the status document to ch, terminates it with a newline and finishes the reply.
func (h *Handler) Reply(ctx context.Context, ch sink.ReplyChannel, snap machine.Snapshot, level uint32) error {
	b := jsonenc.New(sink.NewReply(ch))
	Write(b, snap, level)
	ch.AppendChar('\n')

	if err := b.Check(); err != nil {
		h.logger.ErrorContext(ctx, "status document is unbalanced", slog.String("err", err.Error()))
	}

	return ch.Finish()
}

// EncodeBuffer writes the status document into buf and returns the number of
// bytes used. When truncated is true the text in buf[:n] is incomplete.
func EncodeBuffer(buf []byte, snap machine.Snapshot, level uint32) (n int, truncated bool, err error) {
	s, err := sink.NewBuffer(buf)
	if err != nil {
		return 0, false, err
	}

	Write(jsonenc.New(s), snap, level)

	return s.Len(), s.Truncated(), nil
}
