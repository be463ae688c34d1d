package logctx

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	runIDKey    ctxKey = "run_id"
	pipelineKey ctxKey = "pipeline"
)

// WithRunID tags the context with the per-run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithPipeline tags the context with the report pipeline currently running.
func WithPipeline(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, pipelineKey, name)
}

// FromCtx returns base enriched with run_id/pipeline from context values,
// or base unchanged when the context carries neither.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	var fields []interface{}
	if rid, ok := ctx.Value(runIDKey).(string); ok && rid != "" {
		fields = append(fields, "run_id", rid)
	}
	if p, ok := ctx.Value(pipelineKey).(string); ok && p != "" {
		fields = append(fields, "pipeline", p)
	}
	if len(fields) > 0 {
		return base.With(fields...)
	}
	return base
}
