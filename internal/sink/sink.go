package sink

import (
	"context"
	"io"
	"os"
	"sync"
)

//go:generate mockgen -source=sink.go -destination=./mocks/mock_publisher.go -package=mocks

// Report is one encoded status document produced by the reporter.
type Report struct {
	Seq   uint64
	At    int64
	Level uint32
	Body  []byte
}

// Publisher delivers encoded reports.
type Publisher interface {
	Publish(ctx context.Context, r Report) error
}

// LinePublisher writes each report body as one line to an io.Writer.
type LinePublisher struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLinePublisher creates a publisher writing to the provided writer.
func NewLinePublisher(w io.Writer) *LinePublisher { return &LinePublisher{w: w} }

// NewStdoutLines returns a publisher that writes to os.Stdout.
func NewStdoutLines() *LinePublisher { return &LinePublisher{w: os.Stdout} }

// Publish writes the body followed by a newline. The body is already JSON.
func (p *LinePublisher) Publish(_ context.Context, r Report) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.w.Write(r.Body); err != nil {
		return err
	}

	_, err := p.w.Write([]byte{'\n'})

	return err
}
