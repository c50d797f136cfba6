package lineprotocol

import (
	"fmt"
	"math"
	"strconv"
)

// FieldKind identifies which value a Field carries.
type FieldKind uint8

// Field kinds supported by the line protocol.
const (
	KindString FieldKind = iota + 1
	KindFloat
	KindUint
	KindInt
	KindBool
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Field is a typed field value. The zero Field is invalid and is skipped
// by the encoder.
type Field struct {
	kind FieldKind
	s    string
	f    float64
	u    uint64
	i    int64
	b    bool
}

// StringField returns a string field.
func StringField(v string) Field { return Field{kind: KindString, s: v} }

// FloatField returns a float field.
func FloatField(v float64) Field { return Field{kind: KindFloat, f: v} }

// UintField returns an unsigned integer field.
func UintField(v uint64) Field { return Field{kind: KindUint, u: v} }

// IntField returns a signed integer field.
func IntField(v int64) Field { return Field{kind: KindInt, i: v} }

// BoolField returns a boolean field.
func BoolField(v bool) Field { return Field{kind: KindBool, b: v} }

// FieldOf converts a Go value into a Field.
//
// Integer types map to IntField or UintField, floats to FloatField,
// strings and byte slices to StringField, bools to BoolField. Any other
// value is rendered with fmt and stored as a string, so the result is
// always usable.
func FieldOf(v any) Field {
	switch val := v.(type) {
	case Field:
		return val
	case string:
		return StringField(val)
	case []byte:
		return StringField(string(val))
	case bool:
		return BoolField(val)
	case float64:
		return FloatField(val)
	case float32:
		return FloatField(float64(val))
	case int:
		return IntField(int64(val))
	case int8:
		return IntField(int64(val))
	case int16:
		return IntField(int64(val))
	case int32:
		return IntField(int64(val))
	case int64:
		return IntField(val)
	case uint:
		return UintField(uint64(val))
	case uint8:
		return UintField(uint64(val))
	case uint16:
		return UintField(uint64(val))
	case uint32:
		return UintField(uint64(val))
	case uint64:
		return UintField(val)
	case fmt.Stringer:
		return StringField(val.String())
	case nil:
		return StringField("")
	default:
		return StringField(fmt.Sprint(val))
	}
}

// Kind reports which value the field carries.
func (f Field) Kind() FieldKind { return f.kind }

// Value returns the field's value as a Go value, or nil for the zero Field.
func (f Field) Value() any {
	switch f.kind {
	case KindString:
		return f.s
	case KindFloat:
		return f.f
	case KindUint:
		return f.u
	case KindInt:
		return f.i
	case KindBool:
		return f.b
	default:
		return nil
	}
}

// encodable reports whether the field can be written on the wire.
// NaN and infinities have no line-protocol representation.
func (f Field) encodable() bool {
	switch f.kind {
	case KindString, KindUint, KindInt, KindBool:
		return true
	case KindFloat:
		return !math.IsNaN(f.f) && !math.IsInf(f.f, 0)
	default:
		return false
	}
}

// appendValue appends the wire form of the field value.
func (f Field) appendValue(dst []byte) []byte {
	switch f.kind {
	case KindString:
		return appendQuoted(dst, f.s)
	case KindFloat:
		return strconv.AppendFloat(dst, f.f, 'f', -1, 64)
	case KindUint:
		dst = strconv.AppendUint(dst, f.u, 10)
		return append(dst, 'u')
	case KindInt:
		dst = strconv.AppendInt(dst, f.i, 10)
		return append(dst, 'i')
	case KindBool:
		return strconv.AppendBool(dst, f.b)
	default:
		return dst
	}
}

// String returns the wire form of the field value.
func (f Field) String() string {
	return string(f.appendValue(nil))
}
