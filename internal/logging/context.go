package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies a single split or join invocation.
	FieldRunID = "run_id"
	// FieldStage is the standardized structured logging key for workflow stage names.
	FieldStage = "stage"
	// FieldSource names the source document being processed.
	FieldSource = "source"
	// FieldIdentity names the identity a log line concerns.
	FieldIdentity = "identity"
	// FieldEventType classifies warnings for filtering.
	FieldEventType = "event_type"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldErrorHint suggests how to fix the condition being reported.
	FieldErrorHint = "error_hint"
	// FieldBucket names the bucket directory a log line concerns.
	FieldBucket = "bucket"
)

type ctxKey int

const (
	runIDKey ctxKey = iota
	stageKey
	sourceKey
)

// WithRunID annotates ctx with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return withString(ctx, runIDKey, id)
}

// WithStage annotates ctx with the current workflow stage.
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

// WithSource annotates ctx with the source document name.
func WithSource(ctx context.Context, source string) context.Context {
	return withString(ctx, sourceKey, source)
}

func withString(ctx context.Context, key ctxKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	value, ok := ctx.Value(key).(string)
	return value, ok && value != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := stringFrom(ctx, runIDKey); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if stage, ok := stringFrom(ctx, stageKey); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if source, ok := stringFrom(ctx, sourceKey); ok {
		fields = append(fields, slog.String(FieldSource, source))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return logger.With(args...)
}
