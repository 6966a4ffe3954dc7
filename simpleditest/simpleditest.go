// Package simpleditest provides helpers for tests that build object graphs
// with an isolated simpledi registry.
package simpleditest

import (
	"context"

	"github.com/danpasecinic/simpledi"
	"github.com/danpasecinic/simpledi/internal/reflect"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
}

// TestRegistry is a registry with its own Types descriptor, so constructors
// provided in one test never leak into another.
type TestRegistry struct {
	*simpledi.Registry
	Types *simpledi.Types
	tb    TB
}

// New returns an empty TestRegistry. opts are applied after the registry's
// own descriptor, so WithDescriptor in opts replaces it.
func New(tb TB, opts ...simpledi.Option) *TestRegistry {
	tb.Helper()

	types := simpledi.NewTypes()
	all := append([]simpledi.Option{simpledi.WithDescriptor(types)}, opts...)

	return &TestRegistry{
		Registry: simpledi.NewRegistry(all...),
		Types:    types,
		tb:       tb,
	}
}

// ExecutionContext returns a context carrying a new execution context and
// its partition key.
func (tr *TestRegistry) ExecutionContext() (context.Context, simpledi.PartitionKey) {
	tr.tb.Helper()

	ctx := simpledi.WithExecutionContext(context.Background())
	key, ok := simpledi.ExecutionContextID(ctx)
	if !ok {
		tr.tb.Fatal("execution context carries no identifier")
	}
	return ctx, key
}

func MustProvide(tr *TestRegistry, constructors ...any) {
	tr.tb.Helper()

	for _, fn := range constructors {
		if err := tr.Types.Provide(fn); err != nil {
			tr.tb.Fatalf("failed to provide constructor: %v", err)
		}
	}
}

func MustBind[I, T any](tr *TestRegistry) {
	tr.tb.Helper()

	if err := simpledi.Bind[I, T](tr.Types); err != nil {
		tr.tb.Fatalf("failed to bind %s to %s: %v", reflect.TypeKey[I](), reflect.TypeKey[T](), err)
	}
}

func MustApply(tr *TestRegistry, modules ...*simpledi.Module) {
	tr.tb.Helper()

	if err := tr.Types.Apply(modules...); err != nil {
		tr.tb.Fatalf("failed to apply modules: %v", err)
	}
}

func MustRegister[T any](tr *TestRegistry, instance T, s simpledi.Scope, key simpledi.PartitionKey) {
	tr.tb.Helper()

	if err := simpledi.Register(tr.Registry, instance, s, key); err != nil {
		tr.tb.Fatalf("failed to register %s: %v", reflect.TypeKey[T](), err)
	}
}

func MustResolve[T any](tr *TestRegistry, s simpledi.Scope, key simpledi.PartitionKey) T {
	tr.tb.Helper()

	v, err := simpledi.Resolve[T](tr.Registry, s, key)
	if err != nil {
		tr.tb.Fatalf("failed to resolve %s: %v", reflect.TypeKey[T](), err)
	}
	return v
}

func MustResolveCtx[T any](tr *TestRegistry, ctx context.Context, s simpledi.Scope) T {
	tr.tb.Helper()

	v, err := simpledi.ResolveCtx[T](ctx, tr.Registry, s)
	if err != nil {
		tr.tb.Fatalf("failed to resolve %s: %v", reflect.TypeKey[T](), err)
	}
	return v
}

func AssertHasMatch[T any](tr *TestRegistry, s simpledi.Scope, key simpledi.PartitionKey) {
	tr.tb.Helper()

	ok, err := simpledi.HasMatch[T](tr.Registry, s, key)
	if err != nil {
		tr.tb.Fatalf("failed to look up %s: %v", reflect.TypeKey[T](), err)
	}
	if !ok {
		tr.tb.Fatalf("expected registry to have %s in %s scope", reflect.TypeKey[T](), s)
	}
}

func AssertNoMatch[T any](tr *TestRegistry, s simpledi.Scope, key simpledi.PartitionKey) {
	tr.tb.Helper()

	ok, err := simpledi.HasMatch[T](tr.Registry, s, key)
	if err != nil {
		tr.tb.Fatalf("failed to look up %s: %v", reflect.TypeKey[T](), err)
	}
	if ok {
		tr.tb.Fatalf("expected registry to not have %s in %s scope", reflect.TypeKey[T](), s)
	}
}

func AssertSame[T comparable](tb TB, a, b T) {
	tb.Helper()

	if a != b {
		tb.Fatalf("expected the same %s instance", reflect.TypeKey[T]())
	}
}

func AssertDistinct[T comparable](tb TB, a, b T) {
	tb.Helper()

	if a == b {
		tb.Fatalf("expected distinct %s instances", reflect.TypeKey[T]())
	}
}
