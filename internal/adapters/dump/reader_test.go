package dump_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/ibmetrics/internal/adapters/dump"
	"go.trai.ch/ibmetrics/internal/adapters/telemetry"
	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
	"go.trai.ch/ibmetrics/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newReader(t *testing.T) (*dump.Reader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	return dump.NewReader(logger, telemetry.NewNoOpTracer()), logger
}

func TestReader_Read_WeeklyDump(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)
	path := filepath.Join("testdata", "weekly.txt")

	table, err := reader.Read(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	require.Len(t, table.Failures, 1)

	assert.Equal(t, 7, table.Failures[0].Line)
	assert.Contains(t, table.Failures[0].Reason, "created_at")
	assert.Contains(t, table.Failures[0].Raw, "0f1e2d3c-0000-4000-8000-000000000004")

	assert.Equal(t, []string{
		"0f1e2d3c-0000-4000-8000-000000000001",
		"0f1e2d3c-0000-4000-8000-000000000002",
		"0f1e2d3c-0000-4000-8000-000000000003",
	}, table.Distinct(domain.FieldJobID), "records keep file order")

	assert.Equal(t, domain.TableMeta{
		Source:        path,
		SchemaVersion: 1,
		LinesRead:     8,
		LinesSkipped:  1,
		DeclaredRows:  4,
	}, table.Meta)
	assert.Equal(t, domain.SchemaV1.Fields, table.Columns)

	first := table.Records[0]
	created, _ := first.Get(domain.FieldCreatedAt)
	assert.True(t, created.Time().Equal(time.Date(2024, 1, 8, 9, 15, 42, 123456000, time.UTC)))
	fsys, _ := first.Get(domain.FieldFilesystem)
	assert.Equal(t, []string{`{"mountpoint":"/","min_size":10737418240}`}, fsys.List())

	second := table.Records[1]
	created, _ = second.Get(domain.FieldCreatedAt)
	assert.True(t, created.IsNull())
	repos, _ := second.Get(domain.FieldPayloadRepositories)
	assert.Equal(t, []string{`{"baseurl":"https://example.com/repo"}`}, repos.List())

	third := table.Records[2]
	account, _ := third.Get(domain.FieldAccountNumber)
	assert.True(t, account.IsNull())
}

func TestReader_Read_Idempotent(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)
	path := filepath.Join("testdata", "weekly.txt")

	first, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	second, err := reader.Read(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestReader_Read_PlainRowsWarnAboutFooter(t *testing.T) {
	t.Parallel()

	reader, logger := newReader(t)
	path := filepath.Join("testdata", "plain.txt")
	logger.EXPECT().Warn(fmt.Sprintf("failed to parse row count footer in %s", path))

	table, err := reader.Read(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Empty(t, table.Failures)
	assert.Equal(t, -1, table.Meta.DeclaredRows)
	assert.Equal(t, 4, table.Meta.LinesRead)

	pkgs, _ := table.Records[2].Get(domain.FieldPackages)
	assert.Equal(t, []string{"b", "c|d"}, pkgs.List())

	created, _ := table.Records[2].Get(domain.FieldCreatedAt)
	assert.True(t, created.Time().Equal(time.Date(2024, 2, 3, 6, 0, 0, 0, time.UTC)))
}

func TestReader_Read_HeaderWithExtraColumns(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)

	table, err := reader.Read(context.Background(), filepath.Join("testdata", "extra_columns.txt"))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	col, ok := table.Column("build_host")
	require.True(t, ok)
	assert.True(t, col.Extra)

	assert.Equal(t, []string{"org_id", "job_id", "build_host", "image_type", "created_at"}, table.Records[0].Names())

	host, _ := table.Records[0].Get("build_host")
	assert.Equal(t, domain.String("worker-7"), host)
	host, _ = table.Records[1].Get("build_host")
	assert.True(t, host.IsNull())

	_, ok = table.Records[0].Get(domain.FieldPackages)
	assert.False(t, ok, "columns absent from the header are absent from records")
}

func TestReader_Read_FooterMismatchWarns(t *testing.T) {
	t.Parallel()

	reader, logger := newReader(t)
	logger.EXPECT().Warn("read 1 rows from short.txt but the dump footer states 5 rows")

	table, err := reader.Parse(strings.NewReader(
		"job-1|None|org-a|None|aws|None|[]|[]|[]\n(5 rows)\nthis line is after the footer\n",
	), "short.txt")
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 5, table.Meta.DeclaredRows)
	assert.Equal(t, 2, table.Meta.LinesRead, "reading stops at the footer")
}

func TestReader_Read_ResilientToBadLines(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)

	var b strings.Builder
	for i := range 10 {
		fmt.Fprintf(&b, "job-%d|2024-01-01 00:00:00|org|None|aws|None|[]|[]|[]\n", i)
		if i == 4 {
			b.WriteString("job-x|2024-01-0|org|None|aws|None|[]|[]|[]\n")
		}
	}
	b.WriteString("(11 rows)\n")

	table, err := reader.Parse(strings.NewReader(b.String()), "mixed.txt")
	require.NoError(t, err)

	assert.Equal(t, 10, table.Len())
	require.Len(t, table.Failures, 1)
	assert.Equal(t, 6, table.Failures[0].Line)
}

func TestReader_Parse_BracketInTextCell(t *testing.T) {
	t.Parallel()

	row := "job-2|None|org-a|acct[7|aws|None|[]|[]|[]\n"

	t.Run("announced", func(t *testing.T) {
		t.Parallel()

		reader, _ := newReader(t)
		table, err := reader.Parse(strings.NewReader(
			"# dump v1\njob-1|None|org-a|None|aws|None|[]|[]|[]\n"+row+"(2 rows)\n",
		), "weekly.txt")
		require.NoError(t, err)

		assert.Equal(t, 2, table.Len())
		assert.Empty(t, table.Failures)
		account, _ := table.Records[1].Get(domain.FieldAccountNumber)
		assert.Equal(t, domain.String("acct[7"), account)
	})

	t.Run("first row of unannounced file", func(t *testing.T) {
		t.Parallel()

		reader, _ := newReader(t)
		table, err := reader.Parse(strings.NewReader(row+"(1 row)\n"), "weekly.txt")
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})
}

func TestReader_Read_CRLF(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)

	table, err := reader.Parse(strings.NewReader(
		"# dump v1\r\njob-1|None|org-a|None|aws|None|[]|[]|[]\r\n(1 row)\r\n",
	), "crlf.txt")
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len())
	v, _ := table.Records[0].Get(domain.FieldPayloadRepositories)
	assert.Equal(t, domain.KindList, v.Kind())
}

func TestReader_Read_FormatRejection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		line int
	}{
		{name: "prose", path: filepath.Join("testdata", "not_a_dump.txt"), line: 1},
		{name: "header without required column", path: filepath.Join("testdata", "missing_required.txt"), line: 1},
		{name: "unknown schema version", path: filepath.Join("testdata", "future_version.txt"), line: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader, _ := newReader(t)

			_, err := reader.Read(context.Background(), tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDumpFormat)
		})
	}
}

func TestReader_Read_UnknownVersionIsUnsupportedSchema(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)

	_, err := reader.Read(context.Background(), filepath.Join("testdata", "future_version.txt"))
	require.ErrorIs(t, err, domain.ErrUnsupportedSchema)
}

func TestReader_Parse_OverflowingVersionIsReportedVerbatim(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)

	_, err := reader.Parse(strings.NewReader(
		"# dump v99999999999999999999\njob-1|None|org-a|None|aws|None|[]|[]|[]\n",
	), "huge.txt")
	require.ErrorIs(t, err, domain.ErrUnsupportedSchema)
	assert.Contains(t, err.Error(), "dump declares schema v99999999999999999999")
}

func TestReader_Parse_OverflowingFooterIsUnparsed(t *testing.T) {
	t.Parallel()

	reader, logger := newReader(t)
	logger.EXPECT().Warn("failed to parse row count footer in huge.txt")

	table, err := reader.Parse(strings.NewReader(
		"job-1|None|org-a|None|aws|None|[]|[]|[]\n(99999999999999999999 rows)\n",
	), "huge.txt")
	require.NoError(t, err)
	assert.Equal(t, -1, table.Meta.DeclaredRows)
	assert.Equal(t, 1, table.Len())
}

func TestReader_Parse_Rejections(t *testing.T) {
	t.Parallel()

	manyBad := strings.Repeat("job|not-a-date|org|None|aws|None|[]|[]|[]\n", 39)

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "only blank lines", input: "\n\n   \n"},
		{name: "first row has wrong shape", input: "a|b|c\njob-1|None|org-a|None|aws|None|[]|[]|[]\n"},
		{name: "no record decodes", input: "# dump v1\njob|bad|org|None|aws|None|[]|[]|[]\n"},
		{name: "failure ratio above threshold", input: "job-1|None|org-a|None|aws|None|[]|[]|[]\n" + manyBad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader, _ := newReader(t)

			_, err := reader.Parse(strings.NewReader(tt.input), "input.txt")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDumpFormat)
		})
	}
}

func TestReader_Parse_RatioBelowThresholdIsAccepted(t *testing.T) {
	t.Parallel()

	reader, logger := newReader(t)
	logger.EXPECT().Warn(gomock.Any())

	input := "job-1|None|org-a|None|aws|None|[]|[]|[]\n" +
		"job-2|None|org-a|None|aws|None|[]|[]|[]\n" +
		strings.Repeat("job|not-a-date|org|None|aws|None|[]|[]|[]\n", 38)

	table, err := reader.Parse(strings.NewReader(input), "input.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Len(t, table.Failures, 38)
}

func TestReader_Parse_PreambleOnly(t *testing.T) {
	t.Parallel()

	reader, logger := newReader(t)
	logger.EXPECT().Warn(gomock.Any())

	table, err := reader.Parse(strings.NewReader("# dump v1\n"), "empty-week.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestReader_Read_MissingFile(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)

	_, err := reader.Read(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDumpNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_Read_Directory(t *testing.T) {
	t.Parallel()

	reader, _ := newReader(t)

	_, err := reader.Read(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDumpIO)
}

func TestReader_Read_Span(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	ctrl := gomock.NewController(t)
	reader := dump.NewReader(mocks.NewMockLogger(ctrl), telemetry.NewOTelTracer("test"))

	path := filepath.Join("testdata", "weekly.txt")
	_, err := reader.Read(context.Background(), path)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "dump.read", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("path", path))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("records", 3))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("failures", 1))
}

func TestReader_Parse_DrivesLineDecoder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	decoder := mocks.NewMockLineDecoder(ctrl)
	reader, _ := newReader(t)

	var layouts [][]string
	reader.SetDecoderFactory(func(columns []domain.Field) ports.LineDecoder {
		names := make([]string, len(columns))
		for i, c := range columns {
			names[i] = c.Name
		}
		layouts = append(layouts, names)
		return decoder
	})

	header := []domain.Field{
		{Name: domain.FieldJobID, Kind: domain.KindString, Required: true},
		{Name: domain.FieldOrgID, Kind: domain.KindString, Required: true},
		{Name: domain.FieldImageType, Kind: domain.KindString, Required: true},
	}
	record := domain.NewBuildRecord(
		[]string{domain.FieldJobID, domain.FieldOrgID, domain.FieldImageType},
		[]domain.Value{domain.String("job-1"), domain.String("org-a"), domain.String("aws")},
	)
	failure := &domain.DecodeFailure{Line: 4, Raw: "job-2|org-a", Reason: "expected 3 fields, got 2"}

	decoder.EXPECT().Columns().Return(header).AnyTimes()
	gomock.InOrder(
		decoder.EXPECT().Decode(domain.RawLine{Number: 3, Text: "job-1|org-a|aws"}).Return(record, nil),
		decoder.EXPECT().Decode(domain.RawLine{Number: 4, Text: "job-2|org-a"}).Return(domain.BuildRecord{}, failure),
	)

	table, err := reader.Parse(strings.NewReader(
		"job_id|org_id|image_type\n-------+------+------\njob-1|org-a|aws\njob-2|org-a\n(2 rows)\n",
	), "short.txt")
	require.NoError(t, err)

	require.Len(t, layouts, 2)
	assert.Len(t, layouts[0], len(domain.SchemaV1.Fields), "starts with the canonical layout")
	assert.Equal(t, []string{domain.FieldJobID, domain.FieldOrgID, domain.FieldImageType}, layouts[1])

	assert.Equal(t, header, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.True(t, table.Records[0].Equal(record))
	assert.Equal(t, []domain.DecodeFailure{*failure}, table.Failures)
	assert.Equal(t, 1, table.Meta.LinesSkipped)
}
