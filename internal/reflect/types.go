package reflect

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var typeKeyCache sync.Map

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TypeKey[T any]() string {
	return TypeKeyOf(TypeOf[T]())
}

func TypeKeyOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeKeyCache.Load(t); ok {
		return cached.(string)
	}

	key := buildTypeKey(t)
	typeKeyCache.Store(t, key)
	return key
}

func buildTypeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildTypeKey(t.Elem())
	case reflect.Slice:
		return "[]" + buildTypeKey(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildTypeKey(t.Elem())
	case reflect.Map:
		return "map[" + buildTypeKey(t.Key()) + "]" + buildTypeKey(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildTypeKey(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildTypeKey(t.Elem())
		default:
			return "chan " + buildTypeKey(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		if t.Name() == "" {
			return t.String()
		}
		return t.Name()
	}
}

func TypeKeyFromValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return TypeKeyOf(reflect.TypeOf(v))
}

func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// StructType unwraps a pointer to a struct. The boolean is false when t is
// neither a struct nor a pointer to one.
func StructType(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

// Signature describes a constructor function.
type Signature struct {
	Params   []reflect.Type
	Out      reflect.Type
	HasError bool
}

// FuncSignature validates fn as func(args...) T or func(args...) (T, error).
func FuncSignature(fn any) (Signature, error) {
	if fn == nil {
		return Signature{}, errors.New("constructor is nil")
	}

	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("constructor must be a function, got %s", t.Kind())
	}
	if t.IsVariadic() {
		return Signature{}, fmt.Errorf("constructor %s must not be variadic", t)
	}

	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return Signature{}, fmt.Errorf("second result of %s must be error", t)
		}
	default:
		return Signature{}, fmt.Errorf("constructor %s must return T or (T, error)", t)
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return Signature{
		Params:   params,
		Out:      t.Out(0),
		HasError: t.NumOut() == 2,
	}, nil
}

type Field struct {
	Name     string
	Index    int
	Type     reflect.Type
	Optional bool
}

// StructFields lists the fields of a struct type carrying tagKey, in
// declaration order. Tags take the form `key:""` or `key:",optional"`.
func StructFields(t reflect.Type, tagKey string) ([]Field, error) {
	st, ok := StructType(t)
	if !ok {
		return nil, fmt.Errorf("%s is not a struct type", TypeKeyOf(t))
	}

	var fields []Field
	for i := range st.NumField() {
		f := st.Field(i)
		tag, tagged := f.Tag.Lookup(tagKey)
		if !tagged {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("field %s.%s is unexported", st.Name(), f.Name)
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name != "" {
			return nil, fmt.Errorf("field %s.%s: named injection %q is not supported", st.Name(), f.Name, name)
		}

		fields = append(
			fields, Field{
				Name:     f.Name,
				Index:    i,
				Type:     f.Type,
				Optional: opts == "optional",
			},
		)
	}

	return fields, nil
}
