// Package jsonenc emits JSON text from a sequence of calls, one character at
// a time, without building a document in memory.
//
// Nesting is expressed through callbacks: AddObject and AddArray write the
// opening delimiter, run the callback synchronously and write the closing
// delimiter. A single comma-inhibited flag is enough to place separators
// correctly at any depth.
package jsonenc

import (
	"errors"
	"fmt"
	"math"
)

//go:generate mockgen -source=builder.go -destination=./mocks/mock_sink.go -package=mocks

// Sink receives the encoded text.
type Sink interface {
	AddChar(ch byte)
	AddNumber(n Number)
}

// ErrUnbalanced is reported by Check when start/end calls were not matched.
var ErrUnbalanced = errors.New("jsonenc: unbalanced document")

const (
	posInfToken = "1e1024"
	negInfToken = "-1e1024"
)

// Builder is the structural encoder bound to one sink for one session.
type Builder[S Sink] struct {
	sink         S
	inhibitComma bool

	depth     int
	underflow bool
}

// New returns a Builder writing to s.
func New[S Sink](s S) *Builder[S] {
	return &Builder[S]{sink: s}
}

// Reset rebinds the builder to s and clears all state.
func (b *Builder[S]) Reset(s S) {
	*b = Builder[S]{sink: s}
}

// Sink returns the bound sink.
func (b *Builder[S]) Sink() S { return b.sink }

// Start begins a new top-level value.
func (b *Builder[S]) Start() *Builder[S] {
	b.inhibitComma = true
	return b
}

// Add emits v as the next sibling element.
func (b *Builder[S]) Add(v Value) *Builder[S] {
	switch v.kind {
	case KindUint32:
		b.addingElement()
		b.sink.AddNumber(Number{Kind: NumberUint32, Uint: v.u})
	case KindDouble:
		b.addingElement()
		b.addDouble(v.f)
	case KindBool:
		b.addingElement()
		if v.b {
			b.addToken("true")
		} else {
			b.addToken("false")
		}
	case KindNull:
		b.addingElement()
		b.addToken("null")
	case KindString:
		b.BeginString()
		if v.raw != nil {
			b.AddStringBytes(v.raw)
		} else {
			b.AddStringText(v.s)
		}
		b.EndString()
	case KindSafeString:
		b.BeginString()
		b.addToken(v.s)
		b.EndString()
	case KindSafeChar:
		b.BeginString()
		b.sink.AddChar(v.ch)
		b.EndString()
	}

	return b
}

func (b *Builder[S]) addDouble(f float64) {
	switch {
	case math.IsInf(f, 1):
		b.addToken(posInfToken)
	case math.IsInf(f, -1) || math.IsNaN(f):
		b.addToken(negInfToken)
	default:
		b.sink.AddNumber(Number{Kind: NumberDouble, Float: f})
	}
}

// BeginString opens a string element whose content is streamed with
// AddStringChar, AddStringBytes or AddStringText and closed with EndString.
func (b *Builder[S]) BeginString() *Builder[S] {
	b.addingElement()
	b.sink.AddChar('"')

	return b
}

// AddStringChar emits one escaped content byte of an open string.
func (b *Builder[S]) AddStringChar(ch byte) *Builder[S] {
	switch ch {
	case '\\', '"':
		b.sink.AddChar('\\')
		b.sink.AddChar(ch)
	case '\t':
		b.sink.AddChar('\\')
		b.sink.AddChar('t')
	case '\n':
		b.sink.AddChar('\\')
		b.sink.AddChar('n')
	case '\r':
		b.sink.AddChar('\\')
		b.sink.AddChar('r')
	default:
		if ch < 0x20 {
			b.sink.AddChar('\\')
			b.sink.AddChar('u')
			b.sink.AddChar('0')
			b.sink.AddChar('0')
			b.sink.AddChar(hexDigit(ch >> 4))
			b.sink.AddChar(hexDigit(ch & 0xF))
		} else {
			b.sink.AddChar(ch)
		}
	}

	return b
}

// AddStringBytes emits escaped content bytes of an open string.
func (b *Builder[S]) AddStringBytes(p []byte) *Builder[S] {
	for _, ch := range p {
		b.AddStringChar(ch)
	}

	return b
}

// AddStringText is AddStringBytes for a string.
func (b *Builder[S]) AddStringText(s string) *Builder[S] {
	for i := 0; i < len(s); i++ {
		b.AddStringChar(s[i])
	}

	return b
}

// EndString closes an open string.
func (b *Builder[S]) EndString() *Builder[S] {
	b.sink.AddChar('"')
	return b
}

func (b *Builder[S]) StartArray() *Builder[S] {
	b.startList('[')
	return b
}

func (b *Builder[S]) EndArray() *Builder[S] {
	b.endList(']')
	return b
}

func (b *Builder[S]) StartObject() *Builder[S] {
	b.startList('{')
	return b
}

func (b *Builder[S]) EndObject() *Builder[S] {
	b.endList('}')
	return b
}

// AddArray emits key, a separator and an array whose elements are written by values.
func (b *Builder[S]) AddArray(key Value, values func()) *Builder[S] {
	b.Add(key).EntryValue().StartArray()
	values()

	return b.EndArray()
}

// AddObject emits key, a separator and an object whose members are written by members.
func (b *Builder[S]) AddObject(key Value, members func()) *Builder[S] {
	b.Add(key).EntryValue().StartObject()
	members()

	return b.EndObject()
}

// EntryValue emits the key/value separator.
func (b *Builder[S]) EntryValue() *Builder[S] {
	b.sink.AddChar(':')
	b.inhibitComma = true

	return b
}

func (b *Builder[S]) AddKeyVal(key, val Value) *Builder[S] {
	return b.Add(key).EntryValue().Add(val)
}

// AddSafeKeyVal is AddKeyVal with a key that needs no escaping.
func (b *Builder[S]) AddSafeKeyVal(name string, val Value) *Builder[S] {
	return b.AddKeyVal(SafeString(name), val)
}

// AddKeyObject emits key and opens an object; the caller closes it with EndObject.
func (b *Builder[S]) AddKeyObject(key Value) *Builder[S] {
	return b.Add(key).EntryValue().StartObject()
}

// AddKeyArray emits key and opens an array; the caller closes it with EndArray.
func (b *Builder[S]) AddKeyArray(key Value) *Builder[S] {
	return b.Add(key).EntryValue().StartArray()
}

// Depth reports the number of currently open containers.
func (b *Builder[S]) Depth() int { return b.depth }

// Check reports whether every opened container was closed exactly once.
// It does not affect the emitted text.
func (b *Builder[S]) Check() error {
	if b.underflow {
		return fmt.Errorf("%w: container closed at depth 0", ErrUnbalanced)
	}

	if b.depth != 0 {
		return fmt.Errorf("%w: %d container(s) left open", ErrUnbalanced, b.depth)
	}

	return nil
}

// Scope closes the container opened by ScopeObject or ScopeArray.
type Scope[S Sink] struct {
	b     *Builder[S]
	close byte
}

// ScopeObject opens an object and returns the scope that closes it:
//
//	defer b.ScopeObject().End()
func (b *Builder[S]) ScopeObject() Scope[S] {
	b.startList('{')
	return Scope[S]{b: b, close: '}'}
}

// ScopeArray opens an array and returns the scope that closes it.
func (b *Builder[S]) ScopeArray() Scope[S] {
	b.startList('[')
	return Scope[S]{b: b, close: ']'}
}

// End writes the closing delimiter.
func (s Scope[S]) End() {
	if s.b == nil {
		return
	}

	s.b.endList(s.close)
}

func (b *Builder[S]) addToken(token string) {
	for i := 0; i < len(token); i++ {
		b.sink.AddChar(token[i])
	}
}

func (b *Builder[S]) startList(paren byte) {
	b.addingElement()
	b.sink.AddChar(paren)
	b.inhibitComma = true
	b.depth++
}

func (b *Builder[S]) endList(paren byte) {
	b.sink.AddChar(paren)
	b.inhibitComma = false

	if b.depth == 0 {
		b.underflow = true
		return
	}

	b.depth--
}

func (b *Builder[S]) addingElement() {
	if b.inhibitComma {
		b.inhibitComma = false
		return
	}

	b.sink.AddChar(',')
}

func hexDigit(v byte) byte {
	if v < 10 {
		return '0' + v
	}

	return 'A' + (v - 10)
}
