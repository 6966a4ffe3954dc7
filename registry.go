package simpledi

import (
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/danpasecinic/simpledi/internal/graph"
	ireflect "github.com/danpasecinic/simpledi/internal/reflect"
	"github.com/danpasecinic/simpledi/internal/store"
)

// Registry holds the shared instances of Runtime and Thread scoped types and
// builds missing instances from their primary constructors.
//
// Usually one registry per process is enough and Default is used implicitly.
// Separate registries never share instances.
type Registry struct {
	store      *store.Store
	graph      *graph.Graph
	descriptor Descriptor
	config     *registryConfig
}

type registryConfig struct {
	logger      *slog.Logger
	descriptor  Descriptor
	onResolve   []ResolveHook
	onRegister  []RegisterHook
	onConstruct []ConstructHook
}

// RecordInfo describes one stored shared instance.
type RecordInfo struct {
	Type string
	Key  PartitionKey
}

func NewRegistry(opts ...Option) *Registry {
	cfg := &registryConfig{
		logger:     slog.Default(),
		descriptor: DefaultTypes,
	}

	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.descriptor == nil {
		cfg.descriptor = DefaultTypes
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	r := &Registry{
		graph:      graph.New(),
		descriptor: cfg.descriptor,
		config:     cfg,
	}
	r.store = store.New(r.descriptor.IsSubtype)

	// The registry is itself injectable with Runtime scope.
	_, _, _ = r.store.InsertIfAbsent(
		store.Record{
			Type:     reflect.TypeOf(r),
			Instance: r,
		},
	)

	return r
}

var defaultRegistry = sync.OnceValue(
	func() *Registry {
		return NewRegistry()
	},
)

// Default returns the process wide registry used by injection sites that do
// not name one.
func Default() *Registry {
	return defaultRegistry()
}

func (r *Registry) Descriptor() Descriptor {
	return r.descriptor
}

// Size returns the number of stored shared instances, the registry's own
// record included.
func (r *Registry) Size() int {
	return r.store.Len()
}

// Records returns the stored shared instances in insertion order.
func (r *Registry) Records() []RecordInfo {
	records := r.store.Records()
	infos := make([]RecordInfo, len(records))
	for i, rec := range records {
		infos[i] = RecordInfo{
			Type: ireflect.TypeKeyOf(rec.Type),
			Key:  rec.Key,
		}
	}
	return infos
}

// Register stores instance as the shared instance of t for scope s and key,
// unless HasMatch already reports one. It never replaces an existing record
// and has no effect on values already cached by injection sites. Instance and
// Request scopes are never stored, so registering for them does nothing.
func (r *Registry) Register(instance any, t reflect.Type, s Scope, key PartitionKey) error {
	if !s.Valid() {
		return errInvalidScope(s)
	}
	name := ireflect.TypeKeyOf(t)

	if !s.IsShared() {
		return nil
	}

	key = s.Normalize(key)
	if s.RequiresKey() && key == "" {
		return errMissingPartitionKey(name, s)
	}

	if ireflect.IsNil(instance) {
		return errTypeMismatch(name, "<nil>")
	}
	rt := r.descriptor.RuntimeType(instance)
	ok, err := r.descriptor.IsSubtype(rt, t)
	if err != nil {
		return errMatchFailed(name, err)
	}
	if !ok {
		return errTypeMismatch(name, ireflect.TypeKeyOf(rt))
	}

	_, _, err = r.insert(t, instance, s, key)
	return err
}

// HasMatch reports whether a stored instance would satisfy a request for t.
// Instance and Request scopes always report false. Thread scope only looks at
// records stored under key; Runtime scope only at unpartitioned records.
func (r *Registry) HasMatch(t reflect.Type, s Scope, key PartitionKey) (bool, error) {
	if !s.Valid() {
		return false, errInvalidScope(s)
	}
	if !s.IsShared() {
		return false, nil
	}

	key = s.Normalize(key)
	if s.RequiresKey() && key == "" {
		return false, nil
	}

	_, found, err := r.store.Find(t, key)
	if err != nil {
		return false, errMatchFailed(ireflect.TypeKeyOf(t), err)
	}
	return found, nil
}

// insert stores instance under (t, key) unless a matching record exists. It
// returns the instance that is stored afterwards and whether it is instance.
func (r *Registry) insert(t reflect.Type, instance any, s Scope, key string) (any, bool, error) {
	name := ireflect.TypeKeyOf(t)

	rec, inserted, err := r.store.InsertIfAbsent(
		store.Record{
			Type:     t,
			Instance: instance,
			Key:      key,
		},
	)
	if err != nil {
		return nil, false, errMatchFailed(name, err)
	}

	if inserted {
		r.config.logger.Debug("registered instance", "type", name, "scope", s.String(), "key", key)
		r.callRegisterHooks(name, s, key)
	}

	return rec.Instance, inserted, nil
}

func (r *Registry) callResolveHooks(typeName string, s Scope, duration time.Duration, err error) {
	for _, hook := range r.config.onResolve {
		hook(typeName, s, duration, err)
	}
}

func (r *Registry) callRegisterHooks(typeName string, s Scope, key PartitionKey) {
	for _, hook := range r.config.onRegister {
		hook(typeName, s, key)
	}
}

func (r *Registry) callConstructHooks(typeName string, duration time.Duration, err error) {
	for _, hook := range r.config.onConstruct {
		hook(typeName, duration, err)
	}
}
