package simpledi

import (
	"reflect"
	"time"

	ireflect "github.com/danpasecinic/simpledi/internal/reflect"
)

// Resolve returns an instance of t for scope s.
//
// For Runtime and Thread scopes a stored instance matching t under key is
// returned when one exists. Otherwise a new instance is built from t's primary
// constructor, resolving every parameter with the same scope and key, and is
// stored for shared scopes. When another caller stores a matching instance
// first, that instance is returned instead of the one just built.
//
// The registry satisfies any request it is a subtype of, in every scope, so
// requests for any, Optional[any] parameters and interfaces implemented by
// *Registry all resolve to r itself before a constructor is considered.
//
// requester is the object that asked for the instance; it is passed down to
// nested resolutions unchanged.
func (r *Registry) Resolve(t reflect.Type, requester any, s Scope, key PartitionKey) (any, error) {
	start := time.Now()
	instance, err := r.resolve(t, requester, s, key)
	r.callResolveHooks(ireflect.TypeKeyOf(t), s, time.Since(start), err)
	return instance, err
}

func (r *Registry) resolve(t reflect.Type, requester any, s Scope, key string) (any, error) {
	if !s.Valid() {
		return nil, errInvalidScope(s)
	}
	name := ireflect.TypeKeyOf(t)

	key = s.Normalize(key)
	if s.RequiresKey() && key == "" {
		return nil, errMissingPartitionKey(name, s)
	}

	if s.IsShared() {
		rec, found, err := r.store.Find(t, key)
		if err != nil {
			return nil, errMatchFailed(name, err)
		}
		if found {
			return rec.Instance, nil
		}
	}

	instance, err := r.self(t)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		instance, err = r.construct(t, requester, s, key)
		if err != nil {
			return nil, err
		}
	}

	if !s.IsShared() {
		return instance, nil
	}

	stored, inserted, err := r.insert(t, instance, s, key)
	if err != nil {
		return nil, err
	}
	if !inserted {
		r.config.logger.Debug("discarded instance built concurrently", "type", name, "scope", s.String())
	}
	return stored, nil
}

// self returns the registry when it satisfies t, nil otherwise.
func (r *Registry) self(t reflect.Type) (any, error) {
	ok, err := r.descriptor.IsSubtype(r.descriptor.RuntimeType(r), t)
	if err != nil {
		return nil, errMatchFailed(ireflect.TypeKeyOf(t), err)
	}
	if !ok {
		return nil, nil
	}
	return r, nil
}

func (r *Registry) construct(t reflect.Type, requester any, s Scope, key string) (any, error) {
	start := time.Now()
	instance, err := r.build(t, requester, s, key)
	r.callConstructHooks(ireflect.TypeKeyOf(t), time.Since(start), err)
	return instance, err
}

// build runs the auto-construction: parameters are resolved depth first in
// declaration order, optional parameters that fail are left unbound, and a
// required parameter that fails aborts the whole construction.
func (r *Registry) build(t reflect.Type, requester any, s Scope, key string) (any, error) {
	name := ireflect.TypeKeyOf(t)

	params, err := r.descriptor.Parameters(t)
	if err != nil {
		if IsNoConstructor(err) {
			return nil, err
		}
		return nil, errNoConstructor(name, err)
	}

	deps := make([]string, len(params))
	for i, p := range params {
		deps[i] = ireflect.TypeKeyOf(p.Type)
	}
	r.graph.AddNode(name, deps)

	args := make([]Argument, len(params))
	for i, p := range params {
		value, err := r.Resolve(p.Type, requester, s, key)
		if err != nil {
			if p.Optional {
				continue
			}
			return nil, errUnresolvedDependency(name, i, deps[i], err)
		}
		args[i] = Argument{Value: value, Bound: true}
	}

	instance, err := r.descriptor.Construct(t, args)
	if err != nil {
		if IsConstructionFailed(err) {
			return nil, err
		}
		return nil, errConstructionFailed(name, err)
	}

	rt := r.descriptor.RuntimeType(instance)
	ok, err := r.descriptor.IsSubtype(rt, t)
	if err != nil {
		return nil, errMatchFailed(name, err)
	}
	if !ok {
		return nil, errConstructionFailed(name, errTypeMismatch(name, ireflect.TypeKeyOf(rt)))
	}

	r.config.logger.Debug("constructed instance", "type", name, "scope", s.String())
	return instance, nil
}
