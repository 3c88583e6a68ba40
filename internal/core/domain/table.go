package domain

import (
	"slices"
	"time"
)

// TableMeta describes where a table came from and how the read went.
type TableMeta struct {
	// Source is the path the table was read from.
	Source string `json:"source"`
	// SchemaVersion is the dump schema version the rows were decoded with.
	SchemaVersion int `json:"schema_version"`
	// LinesRead counts every line consumed from the file, including header and footer.
	LinesRead int `json:"lines_read"`
	// LinesSkipped counts data lines that failed to decode.
	LinesSkipped int `json:"lines_skipped"`
	// DeclaredRows is the row count stated by the dump footer, or -1 without a footer.
	DeclaredRows int `json:"declared_rows"`
}

// RecordTable is an ordered set of BuildRecords sharing one column layout.
// Tables are read-only once constructed; every query returns a new table.
type RecordTable struct {
	Columns  []Field         `json:"columns"`
	Records  []BuildRecord   `json:"records"`
	Failures []DecodeFailure `json:"failures"`
	Meta     TableMeta       `json:"meta"`
}

// Len returns the number of records.
func (t *RecordTable) Len() int { return len(t.Records) }

// Column returns the column definition with the given name.
func (t *RecordTable) Column(name string) (Field, bool) {
	i := slices.IndexFunc(t.Columns, func(f Field) bool { return f.Name == name })
	if i < 0 {
		return Field{}, false
	}
	return t.Columns[i], true
}

// Values returns the named column as a slice, one entry per record.
func (t *RecordTable) Values(name string) []Value {
	out := make([]Value, 0, len(t.Records))
	for _, r := range t.Records {
		v, _ := r.Get(name)
		out = append(out, v)
	}
	return out
}

// Where returns a table holding the records whose named field satisfies pred.
// Records lacking the field are dropped.
func (t *RecordTable) Where(name string, pred func(Value) bool) *RecordTable {
	out := &RecordTable{
		Columns:  t.Columns,
		Records:  make([]BuildRecord, 0),
		Failures: t.Failures,
		Meta:     t.Meta,
	}
	for _, r := range t.Records {
		if v, ok := r.Get(name); ok && pred(v) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Equals keeps the records whose named field renders as value.
func (t *RecordTable) Equals(name, value string) *RecordTable {
	return t.Where(name, func(v Value) bool {
		return !v.IsNull() && v.Text() == value
	})
}

// Between keeps the records whose timestamp field lies within [start, end].
// A zero start or end leaves that side open. Null timestamps never match.
func (t *RecordTable) Between(name string, start, end time.Time) *RecordTable {
	return t.Where(name, func(v Value) bool {
		if v.Kind() != KindTime {
			return false
		}
		ts := v.Time()
		if !start.IsZero() && ts.Before(start) {
			return false
		}
		if !end.IsZero() && ts.After(end) {
			return false
		}
		return true
	})
}

// Distinct returns the distinct non-null renderings of the named field in first-seen order.
func (t *RecordTable) Distinct(name string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range t.Values(name) {
		if v.IsNull() {
			continue
		}
		s := v.Text()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Equal reports whether two tables have the same columns, rows, failures and metadata.
func (t *RecordTable) Equal(o *RecordTable) bool {
	if t == nil || o == nil {
		return t == o
	}
	return slices.Equal(t.Columns, o.Columns) &&
		slices.EqualFunc(t.Records, o.Records, BuildRecord.Equal) &&
		slices.Equal(t.Failures, o.Failures) &&
		t.Meta == o.Meta
}

// Head keeps the first n records. A negative n keeps all of them.
func (t *RecordTable) Head(n int) *RecordTable {
	out := *t
	if n >= 0 && n < len(t.Records) {
		out.Records = slices.Clone(t.Records[:n])
	}
	return &out
}
