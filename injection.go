package simpledi

import (
	"context"
	"reflect"
	"sync"

	ireflect "github.com/danpasecinic/simpledi/internal/reflect"
)

type InjectOption func(*injectConfig)

type injectConfig struct {
	registry *Registry
}

// InRegistry binds an injection site to r instead of Default().
func InRegistry(r *Registry) InjectOption {
	return func(cfg *injectConfig) {
		cfg.registry = r
	}
}

// Injection is a lazily resolved, read-only value of type T declared by an
// owning object.
//
//	type Bar struct {
//	    foo *simpledi.Injection[*Foo]
//	}
//
//	func NewBar() *Bar {
//	    b := &Bar{}
//	    b.foo = simpledi.Inject[*Foo](b, simpledi.Runtime)
//	    return b
//	}
//
// Runtime and Thread sites cache per partition and register their owner in
// the registry on every read, so a constructed graph can receive the owner
// back. Instance sites cache one value for the site. Request sites never
// cache.
type Injection[T any] struct {
	site *site
	p    provider
}

type site struct {
	registry *Registry
	owner    any
	scope    Scope
	t        reflect.Type
}

type provider interface {
	get(ctx context.Context) (any, error)
}

// Inject declares an injection site for T owned by owner. owner may be nil;
// a typed nil pointer is treated the same as no owner.
func Inject[T any](owner any, s Scope, opts ...InjectOption) *Injection[T] {
	cfg := &injectConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = Default()
	}
	if ireflect.IsNil(owner) {
		owner = nil
	}

	st := &site{
		registry: cfg.registry,
		owner:    owner,
		scope:    s,
		t:        ireflect.TypeOf[T](),
	}

	var p provider
	if s.IsShared() {
		p = &sharedProvider{site: st}
	} else {
		p = &localProvider{site: st}
	}

	return &Injection[T]{site: st, p: p}
}

// Get returns the value for the current read. ctx only matters for Thread
// scope, where it must carry an execution context (see WithExecutionContext).
func (i *Injection[T]) Get(ctx context.Context) (T, error) {
	var zero T

	v, err := i.p.get(ctx)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errTypeMismatch(ireflect.TypeKeyOf(i.site.t), ireflect.TypeKeyFromValue(v))
	}
	return typed, nil
}

func (i *Injection[T]) MustGet(ctx context.Context) T {
	v, err := i.Get(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

func (i *Injection[T]) Scope() Scope {
	return i.site.scope
}

func (i *Injection[T]) Registry() *Registry {
	return i.site.registry
}

type sharedProvider struct {
	*site

	mu     sync.Mutex
	value  any
	cached bool

	byKey sync.Map
}

func (p *sharedProvider) get(ctx context.Context) (any, error) {
	key, ok := p.scope.PartitionKey(ctx)
	if !ok {
		return nil, errMissingPartitionKey(ireflect.TypeKeyOf(p.t), p.scope)
	}

	if p.owner != nil {
		ownerType := p.registry.descriptor.RuntimeType(p.owner)
		if err := p.registry.Register(p.owner, ownerType, p.scope, key); err != nil {
			return nil, err
		}
	}

	if p.scope.RequiresKey() {
		return p.getKeyed(key)
	}
	return p.getSingle()
}

func (p *sharedProvider) getSingle() (any, error) {
	p.mu.Lock()
	if p.cached {
		v := p.value
		p.mu.Unlock()
		return v, nil
	}
	p.mu.Unlock()

	v, err := p.registry.Resolve(p.t, p.owner, p.scope, "")
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cached {
		p.value = v
		p.cached = true
	}
	return p.value, nil
}

func (p *sharedProvider) getKeyed(key string) (any, error) {
	if v, ok := p.byKey.Load(key); ok {
		return v, nil
	}

	v, err := p.registry.Resolve(p.t, p.owner, p.scope, key)
	if err != nil {
		return nil, err
	}

	actual, _ := p.byKey.LoadOrStore(key, v)
	return actual, nil
}

type localProvider struct {
	*site

	mu     sync.Mutex
	value  any
	cached bool
}

func (p *localProvider) get(_ context.Context) (any, error) {
	if p.scope != Instance {
		return p.registry.Resolve(p.t, p.owner, p.scope, "")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached {
		return p.value, nil
	}

	v, err := p.registry.Resolve(p.t, p.owner, p.scope, "")
	if err != nil {
		return nil, err
	}

	p.value = v
	p.cached = true
	return v, nil
}
