package app

import (
	"errors"
	"strings"
	"time"

	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/zerr"
)

// boundLayouts are accepted by --since and --until, most specific first.
var boundLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// query is a parsed set of show filters.
type query struct {
	where []condition
	since time.Time
	until time.Time
	limit int
}

type condition struct {
	field string
	value string
}

func parseQuery(opts ShowOptions) (query, error) {
	q := query{limit: -1}

	for _, expr := range opts.Where {
		field, value, ok := strings.Cut(expr, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return query{}, invalidFilter("expected field=value", "where", expr)
		}
		q.where = append(q.where, condition{field: field, value: strings.TrimSpace(value)})
	}

	var err error
	if opts.Since != "" {
		if q.since, _, err = parseBound(opts.Since); err != nil {
			return query{}, invalidFilter("unrecognised time", "since", opts.Since)
		}
	}
	if opts.Until != "" {
		var dateOnly bool
		if q.until, dateOnly, err = parseBound(opts.Until); err != nil {
			return query{}, invalidFilter("unrecognised time", "until", opts.Until)
		}
		if dateOnly {
			// A bare date includes the whole day.
			q.until = q.until.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !q.since.IsZero() && !q.until.IsZero() && q.until.Before(q.since) {
		return query{}, invalidFilter("until is before since", "until", opts.Until)
	}

	switch {
	case opts.Limit < 0:
		return query{}, invalidFilter("limit must not be negative", "limit", opts.Limit)
	case opts.Limit > 0:
		q.limit = opts.Limit
	}
	return q, nil
}

func parseBound(s string) (time.Time, bool, error) {
	for _, layout := range boundLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), layout == time.DateOnly, nil
		}
	}
	return time.Time{}, false, zerr.New("no layout matched")
}

// apply narrows t. Conditions on columns the table does not have are rejected.
func (q query) apply(t *domain.RecordTable) (*domain.RecordTable, error) {
	for _, c := range q.where {
		if _, ok := t.Column(c.field); !ok {
			return nil, invalidFilter("unknown column", "where", c.field)
		}
		t = t.Equals(c.field, c.value)
	}
	if !q.since.IsZero() || !q.until.IsZero() {
		t = t.Between(domain.FieldCreatedAt, q.since, q.until)
	}
	return t.Head(q.limit), nil
}

func invalidFilter(reason, key string, value any) error {
	return errors.Join(domain.ErrInvalidFilter, zerr.With(zerr.New(reason), key, value))
}
