package simpledi

import (
	"context"

	ireflect "github.com/danpasecinic/simpledi/internal/reflect"
)

// Resolve resolves T from r for scope s under key. When *Registry is
// assignable to T, as for any, the result is r itself.
func Resolve[T any](r *Registry, s Scope, key PartitionKey) (T, error) {
	var zero T

	instance, err := r.Resolve(ireflect.TypeOf[T](), nil, s, key)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errTypeMismatch(ireflect.TypeKey[T](), ireflect.TypeKeyFromValue(instance))
	}
	return typed, nil
}

// ResolveCtx resolves T for scope s, taking the partition key from the
// execution context carried by ctx.
func ResolveCtx[T any](ctx context.Context, r *Registry, s Scope) (T, error) {
	key, ok := s.PartitionKey(ctx)
	if !ok {
		var zero T
		return zero, errMissingPartitionKey(ireflect.TypeKey[T](), s)
	}
	return Resolve[T](r, s, key)
}

func MustResolve[T any](r *Registry, s Scope, key PartitionKey) T {
	v, err := Resolve[T](r, s, key)
	if err != nil {
		panic(err)
	}
	return v
}

func MustResolveCtx[T any](ctx context.Context, r *Registry, s Scope) T {
	v, err := ResolveCtx[T](ctx, r, s)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve reports failure as false instead of an error.
func TryResolve[T any](r *Registry, s Scope, key PartitionKey) (T, bool) {
	v, err := Resolve[T](r, s, key)
	return v, err == nil
}

// Register stores instance as the shared T for scope s under key.
func Register[T any](r *Registry, instance T, s Scope, key PartitionKey) error {
	return r.Register(instance, ireflect.TypeOf[T](), s, key)
}

func HasMatch[T any](r *Registry, s Scope, key PartitionKey) (bool, error) {
	return r.HasMatch(ireflect.TypeOf[T](), s, key)
}
