package sink

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestLinePublisher_WritesOneLinePerReport(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewLinePublisher(buf)

	require.NoError(t, p.Publish(context.Background(), Report{Seq: 1, Body: []byte(`{"active":false}`)}))
	require.NoError(t, p.Publish(context.Background(), Report{Seq: 2, Body: []byte(`{"active":true}`)}))

	require.Equal(t, "{\"active\":false}\n{\"active\":true}\n", buf.String())
}

func TestLinePublisher_PropagatesWriteError(t *testing.T) {
	boom := errors.New("disk full")
	p := NewLinePublisher(failingWriter{err: boom})

	err := p.Publish(context.Background(), Report{Body: []byte("{}")})
	require.ErrorIs(t, err, boom)
}
