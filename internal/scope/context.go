package scope

import (
	"context"

	"github.com/google/uuid"
)

type executionContextKey struct{}

// WithExecutionContext attaches a fresh execution context identity to ctx.
func WithExecutionContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, executionContextKey{}, uuid.NewString())
}

func ExecutionContextID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(executionContextKey{}).(string)
	return id, ok && id != ""
}

// PartitionKey derives the partition key for s from ctx. The boolean is false
// only when s needs an execution context and ctx carries none.
func (s Scope) PartitionKey(ctx context.Context) (string, bool) {
	if !s.RequiresKey() {
		return "", true
	}
	return ExecutionContextID(ctx)
}
