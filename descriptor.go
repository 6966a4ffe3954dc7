package simpledi

import "reflect"

// Parameter is one primary constructor parameter of a type.
type Parameter struct {
	// Name is the struct field name for tag-injected structs and empty for
	// constructor functions.
	Name string
	// Type is the type resolved from the registry for this parameter.
	Type reflect.Type
	// Optional parameters may be left unbound; the constructor then applies
	// its own default.
	Optional bool
}

// Argument is the value bound to a Parameter, in parameter order.
type Argument struct {
	Value any
	Bound bool
}

// Descriptor inspects and builds types on behalf of a Registry.
type Descriptor interface {
	// IsSubtype reports whether a value of type sub satisfies a request for super.
	IsSubtype(sub, super reflect.Type) (bool, error)
	// Parameters lists the primary constructor parameters of t in declaration
	// order. Types without a usable constructor fail with ErrCodeNoConstructor.
	Parameters(t reflect.Type) ([]Parameter, error)
	RuntimeType(v any) reflect.Type
	// Construct invokes the primary constructor of t. args has one entry per
	// Parameter; unbound entries are only valid for optional parameters.
	Construct(t reflect.Type, args []Argument) (any, error)
}
