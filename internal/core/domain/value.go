package domain

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"time"

	"go.trai.ch/zerr"
)

// Kind identifies the semantic type of a decoded value.
type Kind uint8

const (
	// KindNull is the absence of a value (the dump's null marker).
	KindNull Kind = iota
	// KindString is free text.
	KindString
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindTime is a timestamp, always held in UTC.
	KindTime
	// KindList is a JSON array column.
	KindList
)

var kindNames = [...]string{
	KindNull:   "null",
	KindString: "string",
	KindInt:    "int",
	KindTime:   "time",
	KindList:   "list",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return zerr.With(zerr.New("unknown value kind"), "kind", string(text))
}

// Value is a single typed field of a BuildRecord.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int64
	ts   time.Time
	list []string
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Time returns a timestamp value normalised to UTC.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t.UTC()} }

// List returns a list value. A nil slice is stored as an empty list.
func List(items []string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload. It is empty for non-string values.
func (v Value) Str() string { return v.str }

// Int returns the integer payload.
func (v Value) Int() int64 { return v.num }

// Time returns the timestamp payload.
func (v Value) Time() time.Time { return v.ts }

// List returns a copy of the list payload.
func (v Value) List() []string { return slices.Clone(v.list) }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindTime:
		return v.ts.Equal(o.ts)
	case KindList:
		return slices.Equal(v.list, o.list)
	default:
		return false
	}
}

// Text renders the value the way it would appear in a dump cell.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindTime:
		return v.ts.Format(time.RFC3339Nano)
	case KindList:
		data, _ := json.Marshal(v.list)
		return string(data)
	default:
		return ""
	}
}

type valueJSON struct {
	Kind Kind            `json:"k"`
	Str  string          `json:"s,omitempty"`
	Int  int64           `json:"i,omitempty"`
	Time *time.Time      `json:"t,omitempty"`
	List json.RawMessage `json:"l,omitempty"`
}

// MarshalJSON encodes the value as a small tagged object.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.kind}
	switch v.kind {
	case KindString:
		out.Str = v.str
	case KindInt:
		out.Int = v.num
	case KindTime:
		ts := v.ts
		out.Time = &ts
	case KindList:
		data, err := json.Marshal(v.list)
		if err != nil {
			return nil, err
		}
		out.List = data
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a value produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Kind {
	case KindNull:
		*v = Null()
	case KindString:
		*v = String(in.Str)
	case KindInt:
		*v = Int(in.Int)
	case KindTime:
		if in.Time == nil {
			return zerr.New("time value without payload")
		}
		*v = Time(*in.Time)
	case KindList:
		items := []string{}
		if len(bytes.TrimSpace(in.List)) > 0 {
			if err := json.Unmarshal(in.List, &items); err != nil {
				return err
			}
		}
		*v = List(items)
	default:
		return zerr.With(zerr.New("unknown value kind"), "kind", int(in.Kind))
	}
	return nil
}
