package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/ibmetrics/internal/adapters/telemetry"
	"go.trai.ch/ibmetrics/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogProcessor_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var lines []string
	logger.EXPECT().Info(gomock.Any()).Do(func(msg string) { lines = append(lines, msg) })

	tp := trace.NewTracerProvider(trace.WithSpanProcessor(telemetry.NewLogProcessor(logger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "cache.load")
	span.End()

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "trace cache.load ")
}

func TestLogProcessor_FailedSpanIsWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var warned string
	logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) { warned = msg })

	tp := trace.NewTracerProvider(trace.WithSpanProcessor(telemetry.NewLogProcessor(logger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "dump.read")
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "boom")
	span.End()

	assert.Contains(t, warned, "trace dump.read ")
	assert.Contains(t, warned, `error="boom"`)
}
