package sink

import (
	"bytes"
	"testing"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/stretchr/testify/require"

	"dash0.com/printer-status-backend/internal/jsonenc"
)

const guard = 0xAA

func guardedBuffer(t *testing.T, n int) ([]byte, *Buffer) {
	t.Helper()

	mem := bytes.Repeat([]byte{guard}, n)
	b, err := NewBuffer(mem)
	require.NoError(t, err)

	return mem, b
}

func TestNewBuffer_RejectsEmpty(t *testing.T) {
	_, err := NewBuffer(nil)
	require.ErrorIs(t, err, ErrEmptyBuffer)

	_, err = NewBuffer([]byte{})
	require.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestBuffer_SaturatesAndKeepsLastByte(t *testing.T) {
	const n = 8
	mem, b := guardedBuffer(t, n)

	jsonenc.New(b).Start().Add(jsonenc.String("abcdefghij"))

	require.Equal(t, n-1, b.Len())
	require.Equal(t, n-1, b.Cap())
	require.Zero(t, b.Remaining())
	require.True(t, b.Truncated())
	require.Equal(t, `"abcdef`, string(b.Bytes()))
	require.EqualValues(t, guard, mem[n-1])
}

func TestBuffer_TruncatesNumbers(t *testing.T) {
	mem, b := guardedBuffer(t, 4)

	b.AddNumber(jsonenc.Number{Kind: jsonenc.NumberUint32, Uint: 123456})

	require.Equal(t, "123", string(b.Bytes()))
	require.True(t, b.Truncated())
	require.EqualValues(t, guard, mem[3])

	b.Reset()
	b.AddNumber(jsonenc.Number{Kind: jsonenc.NumberDouble, Float: 2.5})
	require.Equal(t, "2.5", string(b.Bytes()))
	require.False(t, b.Truncated())
	require.EqualValues(t, guard, mem[3])
}

func TestBuffer_ExactFitIsNotTruncated(t *testing.T) {
	mem, b := guardedBuffer(t, 4)

	b.AddChar('a')
	b.AddChar('b')
	b.AddChar('c')

	require.Equal(t, "abc", string(b.Bytes()))
	require.False(t, b.Truncated())
	require.EqualValues(t, guard, mem[3])

	b.AddChar('d')
	require.True(t, b.Truncated())
	require.Equal(t, 3, b.Len())
}

func TestBuffer_SingleByteHoldsNothing(t *testing.T) {
	mem, b := guardedBuffer(t, 1)

	b.AddChar('x')
	b.AddNumber(jsonenc.Number{Kind: jsonenc.NumberUint32, Uint: 1})

	require.Zero(t, b.Len())
	require.Empty(t, b.Bytes())
	require.True(t, b.Truncated())
	require.EqualValues(t, guard, mem[0])
}

func TestBuffer_DocumentThatFitsIsValid(t *testing.T) {
	mem, b := guardedBuffer(t, 64)

	enc := jsonenc.New(b)
	enc.Start().StartObject().
		AddSafeKeyVal("active", jsonenc.Bool(true)).
		AddArray(jsonenc.SafeString("xyz"), func() {
			enc.Add(jsonenc.Double(0)).Add(jsonenc.Double(10)).Add(jsonenc.Double(20.25))
		}).
		EndObject()

	require.False(t, b.Truncated())
	require.Equal(t, `{"active":true,"xyz":[0,10,20.25]}`, string(b.Bytes()))
	require.True(t, jsontext.Value(b.Bytes()).IsValid())
	require.EqualValues(t, guard, mem[63])
}
