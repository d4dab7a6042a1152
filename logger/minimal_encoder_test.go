package logger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teranos/qntx-eurostat/errors"
)

func encode(t *testing.T, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := newMinimalEncoder().EncodeEntry(ent, fields)
	require.NoError(t, err)
	defer buf.Free()
	return buf.String()
}

func TestMinimalEncoderFormat(t *testing.T) {
	ent := zapcore.Entry{
		Level:      zapcore.WarnLevel,
		Time:       time.Date(2024, 3, 1, 13, 4, 35, 0, time.UTC),
		LoggerName: "fetch",
		Message:    "Upstream request failed",
	}
	out := encode(t, ent,
		zap.String(FieldEndpoint, "data"),
		zap.Int(FieldStatus, 503),
		zap.String(FieldURL, "https://ec.europa.eu/x y"))

	assert.Equal(t,
		"13:04:35  WARN  fetch  Upstream request failed  endpoint=data  status=503  url=\"https://ec.europa.eu/x y\"\n",
		out)
}

func TestMinimalEncoderHidesInfoLevel(t *testing.T) {
	out := encode(t, zapcore.Entry{Level: zapcore.InfoLevel, Message: "Serving MCP over stdio"})
	assert.NotContains(t, out, "INFO")
	assert.Contains(t, out, "Serving MCP over stdio")
}

// Fields must never be dropped silently, whatever their type.
func TestMinimalEncoderKeepsAllFields(t *testing.T) {
	out := encode(t, zapcore.Entry{Level: zapcore.DebugLevel, Message: "Cube decoded"},
		zap.String(FieldDataset, "NAMA_10_GDP"),
		zap.Int(FieldCells, 42),
		zap.Bool("truncated", true),
		zap.Float64("ratio", 0.5),
		zap.Strings("geo", []string{"DE", "FR"}),
		zap.Duration("elapsed", 350*time.Millisecond),
		zap.Error(errors.New("boom")))

	for _, want := range []string{
		"dataset=NAMA_10_GDP", "cells=42", "truncated=true", "ratio=0.5",
		"geo=", "elapsed=", "error=boom",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "errorVerbose")
}

func TestMinimalEncoderContextFields(t *testing.T) {
	var buf bytes.Buffer
	core := zapcore.NewCore(newMinimalEncoder(), zapcore.AddSync(&buf), zapcore.DebugLevel)
	base := zap.New(core).Sugar()

	ctx := WithTool(WithRequestID(context.Background(), "req-1"), "search_datasets")
	FromContext(ctx, base).Infow("Tool call completed", FieldDurationMS, 12)

	assert.Contains(t, buf.String(), "Tool call completed  request_id=req-1  tool=search_datasets  duration_ms=12")
}
