package simpledi

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	ireflect "github.com/danpasecinic/simpledi/internal/reflect"
)

// TagKey marks struct fields filled by the struct fallback constructor.
const TagKey = "inject"

// Types is the reflection based Descriptor. It knows the primary constructor
// of a type from, in order:
//
//   - a constructor function registered with Provide,
//   - an interface binding registered with Bind (the bound implementation's
//     constructor builds the interface),
//   - the fields tagged `inject:""` of a struct or pointer to struct, which
//     act as the parameters of an implicit constructor.
//
// Any other type has no constructor.
type Types struct {
	mu           sync.RWMutex
	constructors map[reflect.Type]*constructor
	bindings     map[reflect.Type]reflect.Type
}

// DefaultTypes is the descriptor used by registries created without
// WithDescriptor.
var DefaultTypes = NewTypes()

func NewTypes() *Types {
	return &Types{
		constructors: make(map[reflect.Type]*constructor),
		bindings:     make(map[reflect.Type]reflect.Type),
	}
}

type constructor struct {
	fn       reflect.Value
	hasError bool
	declared []reflect.Type
	params   []Parameter
}

// Provide registers fn as the primary constructor of its first result type.
// fn has the form func(deps...) T or func(deps...) (T, error); a parameter of
// type Optional[X] is an optional dependency on X.
func (ts *Types) Provide(fn any) error {
	sig, err := ireflect.FuncSignature(fn)
	if err != nil {
		return errInvalidConstructor(err)
	}

	params := make([]Parameter, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = parameterFor("", p, false)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.constructors[sig.Out]; exists {
		return errDuplicateConstructor(ireflect.TypeKeyOf(sig.Out))
	}

	ts.constructors[sig.Out] = &constructor{
		fn:       reflect.ValueOf(fn),
		hasError: sig.HasError,
		declared: sig.Params,
		params:   params,
	}
	return nil
}

func (ts *Types) MustProvide(fn any) {
	if err := ts.Provide(fn); err != nil {
		panic(err)
	}
}

// Provide registers fn with DefaultTypes.
func Provide(fn any) error {
	return DefaultTypes.Provide(fn)
}

func MustProvide(fn any) {
	DefaultTypes.MustProvide(fn)
}

// Bind makes requests for the interface I build T instead.
func Bind[I, T any](ts *Types) error {
	iface := ireflect.TypeOf[I]()
	impl := ireflect.TypeOf[T]()

	if iface.Kind() != reflect.Interface {
		return errInvalidConstructor(fmt.Errorf("%s is not an interface", ireflect.TypeKeyOf(iface)))
	}
	if !impl.Implements(iface) {
		return errTypeMismatch(ireflect.TypeKeyOf(iface), ireflect.TypeKeyOf(impl))
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.bindings[iface]; exists {
		return errDuplicateConstructor(ireflect.TypeKeyOf(iface))
	}
	ts.bindings[iface] = impl
	return nil
}

func MustBind[I, T any](ts *Types) {
	if err := Bind[I, T](ts); err != nil {
		panic(err)
	}
}

func (ts *Types) IsSubtype(sub, super reflect.Type) (bool, error) {
	if sub == nil || super == nil {
		return false, errors.New("nil type in subtype test")
	}
	return sub.AssignableTo(super), nil
}

func (ts *Types) RuntimeType(v any) reflect.Type {
	return reflect.TypeOf(v)
}

func (ts *Types) Parameters(t reflect.Type) ([]Parameter, error) {
	target := ts.target(t)

	if c := ts.constructor(target); c != nil {
		params := make([]Parameter, len(c.params))
		copy(params, c.params)
		return params, nil
	}

	if _, ok := ireflect.StructType(target); ok {
		params, _, err := structParams(target)
		if err != nil {
			return nil, errNoConstructor(ireflect.TypeKeyOf(t), err)
		}
		return params, nil
	}

	return nil, errNoConstructor(ireflect.TypeKeyOf(t), nil)
}

func (ts *Types) Construct(t reflect.Type, args []Argument) (any, error) {
	target := ts.target(t)
	name := ireflect.TypeKeyOf(t)

	var (
		instance any
		err      error
	)

	if c := ts.constructor(target); c != nil {
		instance, err = c.call(args)
	} else {
		if _, ok := ireflect.StructType(target); !ok {
			return nil, errNoConstructor(name, nil)
		}
		instance, err = constructStruct(target, args)
	}

	if err != nil {
		return nil, errConstructionFailed(name, err)
	}
	if ireflect.IsNil(instance) {
		return nil, errConstructionFailed(name, errors.New("constructor returned nil"))
	}
	return instance, nil
}

func (ts *Types) target(t reflect.Type) reflect.Type {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	if impl, ok := ts.bindings[t]; ok {
		return impl
	}
	return t
}

func (ts *Types) constructor(t reflect.Type) *constructor {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.constructors[t]
}

func (c *constructor) call(args []Argument) (instance any, err error) {
	if len(args) != len(c.params) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(c.params), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, p := range c.params {
		v, err := argumentValue(i, c.declared[i], p, args[i])
		if err != nil {
			return nil, err
		}
		in[i] = v
	}

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	out := c.fn.Call(in)
	if c.hasError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func parameterFor(name string, declared reflect.Type, optional bool) Parameter {
	if elem, ok := optionalElem(declared); ok {
		return Parameter{Name: name, Type: elem, Optional: true}
	}
	return Parameter{Name: name, Type: declared, Optional: optional}
}

func structParams(t reflect.Type) ([]Parameter, []ireflect.Field, error) {
	fields, err := ireflect.StructFields(t, TagKey)
	if err != nil {
		return nil, nil, err
	}

	params := make([]Parameter, len(fields))
	for i, f := range fields {
		params[i] = parameterFor(f.Name, f.Type, f.Optional)
	}
	return params, fields, nil
}

func constructStruct(t reflect.Type, args []Argument) (any, error) {
	params, fields, err := structParams(t)
	if err != nil {
		return nil, err
	}
	if len(args) != len(params) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(params), len(args))
	}

	base, _ := ireflect.StructType(t)
	ptr := reflect.New(base)

	for i, f := range fields {
		v, err := argumentValue(i, f.Type, params[i], args[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		ptr.Elem().Field(f.Index).Set(v)
	}

	if t.Kind() == reflect.Ptr {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}

// argumentValue converts a bound argument into a value of the declared
// parameter type, wrapping it in Optional when the declaration asks for one.
func argumentValue(index int, declared reflect.Type, p Parameter, a Argument) (reflect.Value, error) {
	if !a.Bound {
		if !p.Optional {
			return reflect.Value{}, fmt.Errorf("required argument %d (%s) is unbound", index, ireflect.TypeKeyOf(p.Type))
		}
		return reflect.Zero(declared), nil
	}

	if a.Value == nil {
		switch p.Type.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			if declared == p.Type {
				return reflect.Zero(declared), nil
			}
		}
		return reflect.Value{}, fmt.Errorf("argument %d: nil is not a valid %s", index, ireflect.TypeKeyOf(p.Type))
	}

	rv := reflect.ValueOf(a.Value)
	if !rv.Type().AssignableTo(p.Type) {
		return reflect.Value{}, fmt.Errorf(
			"argument %d: %s is not assignable to %s",
			index, ireflect.TypeKeyOf(rv.Type()), ireflect.TypeKeyOf(p.Type),
		)
	}

	if declared != p.Type {
		wrapper := reflect.Zero(declared).Interface().(optionalParam)
		return reflect.ValueOf(wrapper.withValue(a.Value)), nil
	}

	return rv, nil
}
