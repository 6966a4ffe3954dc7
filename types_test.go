package simpledi_test

import (
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/danpasecinic/simpledi"
)

type Config struct {
	Port int
	Host string
}

type Database struct {
	Config *Config
	Name   string
}

type Cache interface {
	Get(key string) string
}

type MemoryCache struct {
	prefix string
}

func (c *MemoryCache) Get(key string) string {
	return c.prefix + key
}

type Handler struct {
	DB     *Database `inject:""`
	Cache  Cache     `inject:",optional"`
	Visits int
}

func TestTypes_ProvideInvalid(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()

	tests := []struct {
		name string
		fn   any
	}{
		{"nil", nil},
		{"not a function", 42},
		{"no results", func() {}},
		{"too many results", func() (*Config, *Database, error) { return nil, nil, nil }},
		{"second result not error", func() (*Config, int) { return nil, 0 }},
		{"variadic", func(...int) *Config { return nil }},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				err := types.Provide(tt.fn)
				if !simpledi.IsInvalidConstructor(err) {
					t.Errorf("expected invalid constructor error, got %v", err)
				}
			},
		)
	}
}

func TestTypes_ProvideDuplicate(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(func() *Config { return &Config{} })

	err := types.Provide(func() (*Config, error) { return &Config{}, nil })
	if !simpledi.IsDuplicateConstructor(err) {
		t.Errorf("expected duplicate constructor error, got %v", err)
	}
}

func TestTypes_Parameters(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(
		func(cfg *Config, cache simpledi.Optional[Cache]) *Database {
			return &Database{Config: cfg}
		},
	)

	params, err := types.Parameters(reflect.TypeOf(&Database{}))
	if err != nil {
		t.Fatalf("Parameters failed: %v", err)
	}
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
	if params[0].Type != reflect.TypeOf(&Config{}) || params[0].Optional {
		t.Errorf("unexpected first parameter %+v", params[0])
	}
	if params[1].Type != reflect.TypeOf((*Cache)(nil)).Elem() || !params[1].Optional {
		t.Errorf("optional parameter should expose the wrapped type, got %+v", params[1])
	}

	_, err = types.Parameters(reflect.TypeOf(0))
	if !simpledi.IsNoConstructor(err) {
		t.Errorf("expected no constructor for int, got %v", err)
	}
}

func TestTypes_ConstructorError(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	errBoom := errors.New("boom")
	types.MustProvide(func() (*Config, error) { return nil, errBoom })

	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))
	_, err := simpledi.Resolve[*Config](r, simpledi.Runtime, "")

	if !simpledi.IsConstructionFailed(err) {
		t.Errorf("expected construction failed, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Error("construction error should wrap the constructor's error")
	}
}

func TestTypes_ConstructorPanic(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(func() *Config { panic("no config") })

	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))
	_, err := simpledi.Resolve[*Config](r, simpledi.Request, "")

	if !simpledi.IsConstructionFailed(err) {
		t.Errorf("expected construction failed, got %v", err)
	}
}

func TestTypes_ConstructorNilResult(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(func() *Config { return nil })

	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))
	_, err := simpledi.Resolve[*Config](r, simpledi.Runtime, "")

	if !simpledi.IsConstructionFailed(err) {
		t.Errorf("expected construction failed, got %v", err)
	}
	if ok, _ := simpledi.HasMatch[*Config](r, simpledi.Runtime, ""); ok {
		t.Error("nil result must not be stored")
	}
}

func TestTypes_FailedConstructionIsRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	types := simpledi.NewTypes()
	types.MustProvide(
		func() (*Config, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("not yet")
			}
			return &Config{Port: 8080}, nil
		},
	)

	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))

	if _, err := simpledi.Resolve[*Config](r, simpledi.Runtime, ""); err == nil {
		t.Fatal("first resolution should fail")
	}

	cfg, err := simpledi.Resolve[*Config](r, simpledi.Runtime, "")
	if err != nil {
		t.Fatalf("second resolution should succeed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 constructor calls, got %d", calls.Load())
	}
}

func TestTypes_Construct(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(func(cfg *Config) *Database { return &Database{Config: cfg} })

	dbType := reflect.TypeOf(&Database{})
	cfg := &Config{Port: 1}

	v, err := types.Construct(dbType, []simpledi.Argument{{Value: cfg, Bound: true}})
	if err != nil {
		t.Fatalf("Construct failed: %v", err)
	}
	if v.(*Database).Config != cfg {
		t.Error("argument should be passed to the constructor")
	}

	_, err = types.Construct(dbType, []simpledi.Argument{{}})
	if !simpledi.IsConstructionFailed(err) {
		t.Errorf("unbound required argument should fail, got %v", err)
	}

	_, err = types.Construct(dbType, []simpledi.Argument{{Value: "config", Bound: true}})
	if !simpledi.IsConstructionFailed(err) {
		t.Errorf("wrongly typed argument should fail, got %v", err)
	}

	_, err = types.Construct(dbType, nil)
	if !simpledi.IsConstructionFailed(err) {
		t.Errorf("missing arguments should fail, got %v", err)
	}
}

func TestTypes_IsSubtype(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	cacheType := reflect.TypeOf((*Cache)(nil)).Elem()

	ok, err := types.IsSubtype(reflect.TypeOf(&MemoryCache{}), cacheType)
	if err != nil || !ok {
		t.Errorf("*MemoryCache should be a subtype of Cache, got %v, %v", ok, err)
	}

	ok, _ = types.IsSubtype(cacheType, reflect.TypeOf(&MemoryCache{}))
	if ok {
		t.Error("Cache should not be a subtype of *MemoryCache")
	}

	if _, err := types.IsSubtype(nil, cacheType); err == nil {
		t.Error("nil type should be an error")
	}
}

func TestTypes_Bind(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(func() *MemoryCache { return &MemoryCache{prefix: "mem:"} })
	simpledi.MustBind[Cache, *MemoryCache](types)

	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))

	cache, err := simpledi.Resolve[Cache](r, simpledi.Runtime, "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cache.Get("a") != "mem:a" {
		t.Errorf("unexpected value %q", cache.Get("a"))
	}

	if again := simpledi.MustResolve[Cache](r, simpledi.Runtime, ""); again != cache {
		t.Error("bound interface should be shared in runtime scope")
	}
}

func TestTypes_BindInvalid(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()

	if err := simpledi.Bind[*MemoryCache, *MemoryCache](types); !simpledi.IsInvalidConstructor(err) {
		t.Errorf("binding a non-interface should fail, got %v", err)
	}
	if err := simpledi.Bind[Cache, *Config](types); !simpledi.IsTypeMismatch(err) {
		t.Errorf("binding a non-implementation should fail, got %v", err)
	}

	simpledi.MustBind[Cache, *MemoryCache](types)
	if err := simpledi.Bind[Cache, *MemoryCache](types); !simpledi.IsDuplicateConstructor(err) {
		t.Errorf("second binding should fail, got %v", err)
	}
}

func TestTypes_StructFallback(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(func() *Config { return &Config{Port: 5432} })
	types.MustProvide(func(cfg *Config) *Database { return &Database{Config: cfg, Name: "main"} })

	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))

	h, err := simpledi.Resolve[*Handler](r, simpledi.Runtime, "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if h.DB == nil || h.DB.Name != "main" {
		t.Error("tagged field should be injected")
	}
	if h.Cache != nil {
		t.Error("unresolvable optional field should keep its zero value")
	}
	if h.Visits != 0 {
		t.Error("untagged field should not be touched")
	}

	value, err := simpledi.Resolve[Handler](r, simpledi.Request, "")
	if err != nil {
		t.Fatalf("Resolve of struct value failed: %v", err)
	}
	if value.DB == nil || value.DB == h.DB {
		t.Error("request scoped struct should get a fresh dependency")
	}
}

func TestTypes_StructFallbackOptionalPresent(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(func() *Database { return &Database{} })
	types.MustProvide(func() *MemoryCache { return &MemoryCache{} })
	simpledi.MustBind[Cache, *MemoryCache](types)

	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))

	h := simpledi.MustResolve[*Handler](r, simpledi.Request, "")
	if h.Cache == nil {
		t.Error("resolvable optional field should be injected")
	}
}

func TestTypes_StructFallbackRequiredMissing(t *testing.T) {
	t.Parallel()

	r := simpledi.NewRegistry(simpledi.WithDescriptor(simpledi.NewTypes()))

	_, err := simpledi.Resolve[*Handler](r, simpledi.Runtime, "")
	if !simpledi.IsUnresolvedDependency(err) {
		t.Errorf("expected unresolved dependency, got %v", err)
	}
}

func TestTypes_StructFallbackInvalidTag(t *testing.T) {
	t.Parallel()

	type named struct {
		DB *Database `inject:"primary"`
	}

	r := simpledi.NewRegistry(simpledi.WithDescriptor(simpledi.NewTypes()))

	_, err := simpledi.Resolve[*named](r, simpledi.Request, "")
	if !simpledi.IsNoConstructor(err) {
		t.Errorf("named injection should not be supported, got %v", err)
	}
}

func TestTypes_EmptyStruct(t *testing.T) {
	t.Parallel()

	type empty struct{}

	r := simpledi.NewRegistry(simpledi.WithDescriptor(simpledi.NewTypes()))

	first := simpledi.MustResolve[*empty](r, simpledi.Runtime, "")
	second := simpledi.MustResolve[*empty](r, simpledi.Runtime, "")
	if first != second {
		t.Error("runtime scope should share the instance")
	}
}

func TestTypes_ZeroValueArgument(t *testing.T) {
	t.Parallel()

	types := simpledi.NewTypes()
	types.MustProvide(func() int { return 0 })
	types.MustProvide(func(n int) *Config { return &Config{Port: n} })

	r := simpledi.NewRegistry(simpledi.WithDescriptor(types))

	cfg, err := simpledi.Resolve[*Config](r, simpledi.Request, "")
	if err != nil {
		t.Fatalf("zero values are valid instances: %v", err)
	}
	if cfg.Port != 0 {
		t.Errorf("expected port 0, got %d", cfg.Port)
	}
}
