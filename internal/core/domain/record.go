package domain

import (
	"encoding/json"
	"slices"
	"strconv"
)

// RawLine is one line of a dump file with its 1-based position.
type RawLine struct {
	Number int
	Text   string
}

// BuildRecord is a single decoded image-build event.
// Values are stored in column order; a record never changes after it is built.
type BuildRecord struct {
	names  []string
	values []Value
}

// NewBuildRecord builds a record from parallel name and value slices.
// It panics if the slices differ in length.
func NewBuildRecord(names []string, values []Value) BuildRecord {
	if len(names) != len(values) {
		panic("domain: record names and values differ in length")
	}
	return BuildRecord{
		names:  slices.Clone(names),
		values: slices.Clone(values),
	}
}

// Len returns the number of fields in the record.
func (r BuildRecord) Len() int { return len(r.names) }

// Names returns the field names in column order.
func (r BuildRecord) Names() []string { return slices.Clone(r.names) }

// Get returns the value of the named field.
func (r BuildRecord) Get(name string) (Value, bool) {
	if i := slices.Index(r.names, name); i >= 0 {
		return r.values[i], true
	}
	return Value{}, false
}

// At returns the value in column i.
func (r BuildRecord) At(i int) Value { return r.values[i] }

// Equal reports whether both records hold the same fields and values in the same order.
func (r BuildRecord) Equal(o BuildRecord) bool {
	return slices.Equal(r.names, o.names) && slices.EqualFunc(r.values, o.values, Value.Equal)
}

type recordJSON struct {
	Names  []string `json:"names"`
	Values []Value  `json:"values"`
}

// MarshalJSON implements json.Marshaler.
func (r BuildRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{Names: r.names, Values: r.values})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *BuildRecord) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.Names) != len(in.Values) {
		return ErrRecordShape
	}
	r.names = in.Names
	r.values = in.Values
	return nil
}

// DecodeFailure describes a dump line that could not be turned into a record.
// Failures are collected on the table and never abort a read.
type DecodeFailure struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// Error implements error.
func (f DecodeFailure) Error() string {
	return "line " + strconv.Itoa(f.Line) + ": " + f.Reason
}
