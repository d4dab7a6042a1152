package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldTool      = "tool"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldURL       = "url"
	FieldEndpoint  = "endpoint"
	FieldQuery     = "query"
	FieldLanguage  = "language"

	// Timing
	FieldDurationMS = "duration_ms"
	FieldDelayMS    = "delay_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"
	FieldBytes = "bytes"

	// Status
	FieldStatus = "status"
	FieldCache  = "cache"

	// Eurostat-specific
	FieldDataset = "dataset" // Dataset code, e.g. NAMA_10_GDP
	FieldFilters = "filters" // Dimension filters sent upstream
	FieldCells   = "cells"   // Addressable cells in a cube
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	toolKey      contextKey = "logger_tool"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithTool adds the invoked tool name to the context for logging
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, toolKey, tool)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if tool, ok := ctx.Value(toolKey).(string); ok && tool != "" {
		fields = append(fields, FieldTool, tool)
	}

	return fields
}

// FromContext returns base enriched with the fields carried by ctx.
// A nil base falls back to the global Logger.
func FromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	client, err := eurostat.New(eurostat.Config{
//	    Logger: logger.ComponentLogger("eurostat"),
//	})
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
