package simpledi

import (
	"context"

	"github.com/danpasecinic/simpledi/internal/scope"
)

type Scope = scope.Scope

const (
	// Runtime shares one instance per registry for the whole process.
	Runtime = scope.Runtime
	// Thread shares one instance per execution context.
	Thread = scope.Thread
	// Instance gives every injection site its own instance.
	Instance = scope.Instance
	// Request builds a new instance on every access.
	Request = scope.Request
)

// PartitionKey distinguishes independent pools of shared instances within a
// scope. The empty key means no partition.
type PartitionKey = string

// WithExecutionContext returns a context carrying a new execution context
// identity. Thread scoped injections read it to pick their partition.
func WithExecutionContext(ctx context.Context) context.Context {
	return scope.WithExecutionContext(ctx)
}

func ExecutionContextID(ctx context.Context) (PartitionKey, bool) {
	return scope.ExecutionContextID(ctx)
}
