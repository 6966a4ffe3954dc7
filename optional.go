package simpledi

import "reflect"

// Optional marks a constructor parameter as an optional dependency. When the
// registry cannot resolve T the constructor receives None and applies its own
// default:
//
//	func NewMailer(t simpledi.Optional[Transport]) *Mailer {
//	    return &Mailer{transport: t.OrElse(stdoutTransport{})}
//	}
type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

type optionalParam interface {
	optionalElem() reflect.Type
	withValue(v any) any
}

func (Optional[T]) optionalElem() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (Optional[T]) withValue(v any) any {
	return Some(v.(T))
}

var optionalParamType = reflect.TypeOf((*optionalParam)(nil)).Elem()

// optionalElem returns X when t is Optional[X].
func optionalElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Struct || !t.Implements(optionalParamType) {
		return nil, false
	}
	return reflect.Zero(t).Interface().(optionalParam).optionalElem(), true
}
