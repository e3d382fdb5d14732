package nvim

import (
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBinary
	KindArray
	KindMap
	KindExt
)

// MapEntry is one key/value pair of a map Value, kept in wire order
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is a self-describing msgpack value exchanged with Neovim.
// Buffer, window and tabpage handles arrive as ext values.
type Value struct {
	kind     Kind
	boolean  bool
	integer  int64
	unsigned uint64
	float    float64
	bytes    []byte
	array    []Value
	entries  []MapEntry
	extType  int8
}

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

func Nil() Value               { return Value{kind: KindNil} }
func Bool(b bool) Value        { return Value{kind: KindBool, boolean: b} }
func Int(i int64) Value        { return Value{kind: KindInt, integer: i} }
func Uint(u uint64) Value      { return Value{kind: KindUint, unsigned: u} }
func Float(f float64) Value    { return Value{kind: KindFloat, float: f} }
func String(s string) Value    { return Value{kind: KindString, bytes: []byte(s)} }
func Binary(b []byte) Value    { return Value{kind: KindBinary, bytes: b} }
func Array(vs ...Value) Value  { return Value{kind: KindArray, array: vs} }
func Map(es ...MapEntry) Value { return Value{kind: KindMap, entries: es} }

// Ext builds an extension value such as a buffer handle
func Ext(typ int8, data []byte) Value {
	return Value{kind: KindExt, extType: typ, bytes: data}
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the nil value
func (v Value) IsNil() bool { return v.kind == KindNil }

// AsBool returns the boolean held by v
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// AsInt returns v as a signed integer when it holds one that fits
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.integer, true
	case KindUint:
		if v.unsigned <= 1<<63-1 {
			return int64(v.unsigned), true
		}
	}
	return 0, false
}

// AsFloat returns the float held by v
func (v Value) AsFloat() (float64, bool) {
	return v.float, v.kind == KindFloat
}

// AsString returns v as a string; binary payloads are accepted too
func (v Value) AsString() (string, bool) {
	if v.kind == KindString || v.kind == KindBinary {
		return string(v.bytes), true
	}
	return "", false
}

// AsArray returns the elements of an array value
func (v Value) AsArray() ([]Value, bool) {
	return v.array, v.kind == KindArray
}

// AsMap returns the entries of a map value
func (v Value) AsMap() ([]MapEntry, bool) {
	return v.entries, v.kind == KindMap
}

// AsExt returns the extension type and raw payload
func (v Value) AsExt() (int8, []byte, bool) {
	return v.extType, v.bytes, v.kind == KindExt
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprint(v.boolean)
	case KindInt:
		return fmt.Sprint(v.integer)
	case KindUint:
		return fmt.Sprint(v.unsigned)
	case KindFloat:
		return fmt.Sprint(v.float)
	case KindString:
		return fmt.Sprintf("%q", string(v.bytes))
	case KindBinary:
		return fmt.Sprintf("bin(%d)", len(v.bytes))
	case KindArray:
		parts := make([]string, len(v.array))
		for i, e := range v.array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(v.entries))
		for i, e := range v.entries {
			parts[i] = e.Key.String() + ": " + e.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindExt:
		return fmt.Sprintf("ext(%d, %x)", v.extType, v.bytes)
	}
	return "?"
}

// EncodeMsgpack writes v in its natural msgpack form
func (v Value) EncodeMsgpack(e *msgpack.Encoder) error {
	switch v.kind {
	case KindNil:
		return e.EncodeNil()
	case KindBool:
		return e.EncodeBool(v.boolean)
	case KindInt:
		return e.EncodeInt(v.integer)
	case KindUint:
		return e.EncodeUint(v.unsigned)
	case KindFloat:
		return e.EncodeFloat64(v.float)
	case KindString:
		return e.EncodeString(string(v.bytes))
	case KindBinary:
		return e.EncodeBytes(v.bytes)
	case KindArray:
		if err := e.EncodeArrayLen(len(v.array)); err != nil {
			return err
		}
		for _, elem := range v.array {
			if err := elem.EncodeMsgpack(e); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := e.EncodeMapLen(len(v.entries)); err != nil {
			return err
		}
		for _, entry := range v.entries {
			if err := entry.Key.EncodeMsgpack(e); err != nil {
				return err
			}
			if err := entry.Value.EncodeMsgpack(e); err != nil {
				return err
			}
		}
		return nil
	case KindExt:
		if err := e.EncodeExtHeader(v.extType, len(v.bytes)); err != nil {
			return err
		}
		_, err := e.Writer().Write(v.bytes)
		return err
	}
	return fmt.Errorf("unknown value kind %d", v.kind)
}

// DecodeMsgpack reads any msgpack value into v
func (v *Value) DecodeMsgpack(d *msgpack.Decoder) error {
	c, err := d.PeekCode()
	if err != nil {
		return err
	}

	switch {
	case c == msgpcode.Nil:
		*v = Nil()
		return d.DecodeNil()

	case c == msgpcode.False || c == msgpcode.True:
		b, err := d.DecodeBool()
		*v = Bool(b)
		return err

	case c == msgpcode.Uint64:
		u, err := d.DecodeUint64()
		*v = Uint(u)
		return err

	case msgpcode.IsFixedNum(c) || isIntCode(c):
		i, err := d.DecodeInt64()
		*v = Int(i)
		return err

	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := d.DecodeFloat64()
		*v = Float(f)
		return err

	case msgpcode.IsString(c):
		s, err := d.DecodeString()
		*v = String(s)
		return err

	case msgpcode.IsBin(c):
		b, err := d.DecodeBytes()
		*v = Binary(b)
		return err

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := d.DecodeArrayLen()
		if err != nil {
			return err
		}
		elems := make([]Value, max(n, 0))
		for i := range elems {
			if err := elems[i].DecodeMsgpack(d); err != nil {
				return err
			}
		}
		*v = Array(elems...)
		return nil

	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := d.DecodeMapLen()
		if err != nil {
			return err
		}
		entries := make([]MapEntry, max(n, 0))
		for i := range entries {
			if err := entries[i].Key.DecodeMsgpack(d); err != nil {
				return err
			}
			if err := entries[i].Value.DecodeMsgpack(d); err != nil {
				return err
			}
		}
		*v = Map(entries...)
		return nil

	case msgpcode.IsExt(c):
		typ, n, err := d.DecodeExtHeader()
		if err != nil {
			return err
		}
		data := make([]byte, n)
		if err := d.ReadFull(data); err != nil {
			return err
		}
		*v = Ext(typ, data)
		return nil
	}

	return fmt.Errorf("unsupported msgpack code 0x%x", c)
}

func isIntCode(c byte) bool {
	switch c {
	case msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64,
		msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32:
		return true
	}
	return false
}
