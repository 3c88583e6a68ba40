// Package dump implements the build dump line decoder and file reader.
package dump

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LineDecoder = (*Decoder)(nil)

// nullMarkers are the cell texts the upstream query uses for SQL NULL.
var nullMarkers = map[string]bool{
	"None": true,
	"NULL": true,
	`\N`:   true,
}

// timeLayouts are tried in order. A date without a time of day is rejected
// so that a timestamp cut short at the date still counts as malformed.
var timeLayouts = []string{
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

var columnNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Decoder converts pipe-separated dump lines into records for a fixed column layout.
type Decoder struct {
	columns []domain.Field
	names   []string
}

// NewDecoder creates a Decoder for the given column layout.
func NewDecoder(columns []domain.Field) *Decoder {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return &Decoder{
		columns: columns,
		names:   names,
	}
}

// Columns returns the column layout the decoder applies.
func (d *Decoder) Columns() []domain.Field {
	return d.columns
}

// Decode converts one data line. It never panics on malformed input.
func (d *Decoder) Decode(raw domain.RawLine) (domain.BuildRecord, *domain.DecodeFailure) {
	fail := func(format string, args ...any) (domain.BuildRecord, *domain.DecodeFailure) {
		return domain.BuildRecord{}, &domain.DecodeFailure{
			Line:   raw.Number,
			Raw:    raw.Text,
			Reason: fmt.Sprintf(format, args...),
		}
	}

	cells, err := splitCells(raw.Text)
	if err != nil {
		return fail("%v", err)
	}
	if len(cells) != len(d.columns) {
		return fail("expected %d fields, got %d", len(d.columns), len(cells))
	}

	values := make([]domain.Value, len(cells))
	for i, cell := range cells {
		v, err := convert(d.columns[i], cell)
		if err != nil {
			return fail("field %s: %v", d.columns[i].Name, err)
		}
		values[i] = v
	}

	return domain.NewBuildRecord(d.names, values), nil
}

// DecodeHeader recognises a psql column header line. ok reports whether line
// is a header at all: every cell is an identifier and at least one names a
// schema field. Unknown names become extra columns. A header that repeats a
// column or lacks a required one is still a header, but err is set.
func DecodeHeader(schema domain.Schema, line string) (columns []domain.Field, ok bool, err error) {
	names, err := splitCells(line)
	if err != nil {
		return nil, false, nil
	}

	known := false
	for _, name := range names {
		if !columnNameRe.MatchString(name) {
			return nil, false, nil
		}
		if _, found := schema.Lookup(name); found {
			known = true
		}
	}
	if !known {
		return nil, false, nil
	}

	seen := make(map[string]bool, len(names))
	columns = make([]domain.Field, 0, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, true, zerr.With(zerr.New("duplicate column in header"), "column", name)
		}
		seen[name] = true

		if f, found := schema.Lookup(name); found {
			columns = append(columns, f)
			continue
		}
		columns = append(columns, domain.ExtraField(name))
	}

	for _, f := range schema.Fields {
		if f.Required && !seen[f.Name] {
			return nil, true, zerr.With(zerr.New("header is missing a required column"), "column", f.Name)
		}
	}
	return columns, true, nil
}

func convert(field domain.Field, cell string) (domain.Value, error) {
	null := nullMarkers[cell] || cell == ""

	if field.Extra {
		if nullMarkers[cell] {
			return domain.Null(), nil
		}
		return domain.String(cell), nil
	}

	if null && field.Required {
		return domain.Value{}, errors.New("missing required value")
	}

	switch field.Kind {
	case domain.KindString:
		if null && field.Nullable {
			return domain.Null(), nil
		}
		return domain.String(cell), nil
	case domain.KindInt:
		if null {
			if field.Nullable {
				return domain.Null(), nil
			}
			return domain.Value{}, errors.New("missing integer")
		}
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return domain.Value{}, fmt.Errorf("invalid integer %q", cell)
		}
		return domain.Int(n), nil
	case domain.KindTime:
		if null {
			if field.Nullable {
				return domain.Null(), nil
			}
			return domain.Value{}, errors.New("missing timestamp")
		}
		ts, err := parseTimestamp(cell)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.Time(ts), nil
	case domain.KindList:
		if null {
			return domain.List(nil), nil
		}
		items, err := parseList(cell)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.List(items), nil
	default:
		return domain.Value{}, fmt.Errorf("unsupported column kind %s", field.Kind)
	}
}

func parseTimestamp(cell string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", cell)
}

// parseList decodes a JSON array cell. String elements are kept unquoted,
// any other element is kept as compact JSON text.
func parseList(cell string) ([]string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(cell), &elems); err != nil {
		return nil, fmt.Errorf("invalid list: %w", err)
	}

	items := make([]string, 0, len(elems))
	for _, elem := range elems {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil {
			items = append(items, s)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, elem); err != nil {
			return nil, fmt.Errorf("invalid list element: %w", err)
		}
		items = append(items, buf.String())
	}
	return items, nil
}

// splitCells splits a line on '|' and trims each cell. A cell whose text
// starts with '[' or '{' is scanned as JSON, so separators inside it do not
// split it. Brackets anywhere else are plain text.
func splitCells(line string) ([]string, error) {
	var (
		cells    []string
		start    int
		blank    = true
		depth    int
		inString bool
		escaped  bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if depth > 0 {
			switch c {
			case '"':
				inString = true
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
			continue
		}

		switch {
		case c == '|':
			cells = append(cells, strings.TrimSpace(line[start:i]))
			start = i + 1
			blank = true
		case c == ' ' || c == '\t':
		case blank && (c == '[' || c == '{'):
			blank = false
			depth = 1
		default:
			blank = false
		}
	}

	if depth > 0 || inString {
		return nil, fmt.Errorf("unterminated value in column %d", len(cells)+1)
	}
	return append(cells, strings.TrimSpace(line[start:])), nil
}
