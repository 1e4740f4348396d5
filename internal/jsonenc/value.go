package jsonenc

import "strconv"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindUint32 Kind = iota
	KindDouble
	KindBool
	KindNull
	KindString
	KindSafeString
	KindSafeChar
)

// Value is one self-describing element handed to the Builder.
// It is constructed at the call site and consumed once; the Builder never keeps it.
type Value struct {
	kind Kind
	u    uint32
	f    float64
	b    bool
	ch   byte
	s    string
	raw  []byte
}

// Uint32 wraps an unsigned integer, emitted as plain decimal digits.
func Uint32(v uint32) Value { return Value{kind: KindUint32, u: v} }

// Double wraps a floating value, emitted with six significant digits.
// Non-finite values are replaced by the 1e1024 / -1e1024 sentinels.
func Double(v float64) Value { return Value{kind: KindDouble, f: v} }

// Bool wraps a boolean literal.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Null is the JSON null literal.
func Null() Value { return Value{kind: KindNull} }

// String wraps arbitrary text that is escaped byte by byte.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes is the byte-slice form of String.
func Bytes(b []byte) Value { return Value{kind: KindString, raw: b} }

// SafeString wraps text the caller guarantees needs no escaping
// (no quotes, backslashes or control characters). It is emitted verbatim.
func SafeString(s string) Value { return Value{kind: KindSafeString, s: s} }

// SafeChar wraps a single character the caller guarantees needs no escaping.
func SafeChar(ch byte) Value { return Value{kind: KindSafeChar, ch: ch} }

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// NumberKind selects how a Number is rendered.
type NumberKind uint8

const (
	NumberUint32 NumberKind = iota
	NumberDouble
)

// Number is a single numeric token handed to a Sink.
// Float is always finite: the Builder substitutes sentinels before reaching the sink.
type Number struct {
	Kind  NumberKind
	Uint  uint32
	Float float64
}

// AppendNumber appends the text form of n to dst.
// Unsigned values use decimal digits; doubles use the %.6g rule.
func AppendNumber(dst []byte, n Number) []byte {
	if n.Kind == NumberUint32 {
		return strconv.AppendUint(dst, uint64(n.Uint), 10)
	}

	return strconv.AppendFloat(dst, n.Float, 'g', 6, 64)
}
