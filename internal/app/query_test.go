package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ibmetrics/internal/core/domain"
)

func TestParseQuery_Bounds(t *testing.T) {
	q, err := parseQuery(ShowOptions{Since: "2024-01-03", Until: "2024-01-09"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), q.since)
	assert.Equal(t, time.Date(2024, 1, 9, 23, 59, 59, 999999999, time.UTC), q.until)
	assert.Equal(t, -1, q.limit)
}

func TestParseQuery_BoundWithOffsetIsUTC(t *testing.T) {
	q, err := parseQuery(ShowOptions{Until: "2024-01-09T12:00:00+02:00"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC), q.until)
}

func TestParseQuery_Rejects(t *testing.T) {
	tests := map[string]ShowOptions{
		"empty field":        {Where: []string{"=org-1"}},
		"missing operator":   {Where: []string{"org_id"}},
		"unparsable since":   {Since: "yesterday"},
		"unparsable until":   {Until: "2024-13-01"},
		"until before since": {Since: "2024-02-01", Until: "2024-01-01"},
		"negative limit":     {Limit: -3},
	}

	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseQuery(opts)
			require.ErrorIs(t, err, domain.ErrInvalidFilter)
		})
	}
}

func TestParseQuery_EmptyValueMatchesEmptyCells(t *testing.T) {
	q, err := parseQuery(ShowOptions{Where: []string{"account_number="}})
	require.NoError(t, err)
	assert.Equal(t, []condition{{field: "account_number", value: ""}}, q.where)
}
