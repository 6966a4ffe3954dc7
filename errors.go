package simpledi

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNoConstructor
	ErrCodeUnresolvedDependency
	ErrCodeConstructionFailed
	ErrCodeInvalidConstructor
	ErrCodeDuplicateConstructor
	ErrCodeMissingPartitionKey
	ErrCodeMatchFailed
	ErrCodeTypeMismatch
	ErrCodeInvalidScope
	ErrCodeModuleApplyFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:              "UNKNOWN",
	ErrCodeNoConstructor:        "NO_CONSTRUCTOR",
	ErrCodeUnresolvedDependency: "UNRESOLVED_DEPENDENCY",
	ErrCodeConstructionFailed:   "CONSTRUCTION_FAILED",
	ErrCodeInvalidConstructor:   "INVALID_CONSTRUCTOR",
	ErrCodeDuplicateConstructor: "DUPLICATE_CONSTRUCTOR",
	ErrCodeMissingPartitionKey:  "MISSING_PARTITION_KEY",
	ErrCodeMatchFailed:          "MATCH_FAILED",
	ErrCodeTypeMismatch:         "TYPE_MISMATCH",
	ErrCodeInvalidScope:         "INVALID_SCOPE",
	ErrCodeModuleApplyFailed:    "MODULE_APPLY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

type Error struct {
	Code      ErrorCode
	Message   string
	Type      string
	Parameter string
	Cause     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Type != "" {
		b.WriteString(fmt.Sprintf(" type=%q", e.Type))
	}
	if e.Parameter != "" {
		b.WriteString(fmt.Sprintf(" parameter=%q", e.Parameter))
	}
	if e.Type != "" || e.Parameter != "" {
		b.WriteString(":")
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithType(typeName string) *Error {
	e.Type = typeName
	return e
}

func (e *Error) WithParameter(parameter string) *Error {
	e.Parameter = parameter
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrNoExecutionContext is the cause reported when Thread scope is used with
// a context that was never passed through WithExecutionContext.
var ErrNoExecutionContext = errors.New("context carries no execution context; use WithExecutionContext(ctx)")

func errNoConstructor(typeName string, cause error) *Error {
	return newError(
		ErrCodeNoConstructor,
		fmt.Sprintf("no primary constructor for %s", typeName),
		cause,
	).WithType(typeName)
}

func errUnresolvedDependency(typeName string, index int, paramType string, cause error) *Error {
	return newError(
		ErrCodeUnresolvedDependency,
		fmt.Sprintf("cannot resolve required parameter %d (%s) of %s", index, paramType, typeName),
		cause,
	).WithType(typeName).WithParameter(fmt.Sprintf("%d:%s", index, paramType))
}

func errConstructionFailed(typeName string, cause error) *Error {
	return newError(
		ErrCodeConstructionFailed,
		fmt.Sprintf("could not create a new instance of %s", typeName),
		cause,
	).WithType(typeName)
}

func errInvalidConstructor(cause error) *Error {
	return newError(ErrCodeInvalidConstructor, "invalid constructor", cause)
}

func errDuplicateConstructor(typeName string) *Error {
	return newError(
		ErrCodeDuplicateConstructor,
		fmt.Sprintf("constructor already registered for %s", typeName),
		nil,
	).WithType(typeName)
}

func errMissingPartitionKey(typeName string, s Scope) *Error {
	return newError(
		ErrCodeMissingPartitionKey,
		fmt.Sprintf("%s scope requires a partition key", s),
		ErrNoExecutionContext,
	).WithType(typeName)
}

func errMatchFailed(typeName string, cause error) *Error {
	return newError(
		ErrCodeMatchFailed,
		fmt.Sprintf("subtype test failed while looking up %s", typeName),
		cause,
	).WithType(typeName)
}

func errTypeMismatch(typeName string, got string) *Error {
	return newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("%s is not assignable to %s", got, typeName),
		nil,
	).WithType(typeName)
}

func errInvalidScope(s Scope) *Error {
	return newError(ErrCodeInvalidScope, fmt.Sprintf("invalid scope %d", int(s)), nil)
}

func errModuleApplyFailed(moduleName string, cause error) *Error {
	return newError(
		ErrCodeModuleApplyFailed,
		"failed to apply module "+moduleName,
		cause,
	)
}

// hasCode reports whether any *Error in err's chain carries code.
func hasCode(err error, code ErrorCode) bool {
	return err != nil && errors.Is(err, &Error{Code: code})
}

func IsNoConstructor(err error) bool {
	return hasCode(err, ErrCodeNoConstructor)
}

func IsUnresolvedDependency(err error) bool {
	return hasCode(err, ErrCodeUnresolvedDependency)
}

func IsConstructionFailed(err error) bool {
	return hasCode(err, ErrCodeConstructionFailed)
}

func IsInvalidConstructor(err error) bool {
	return hasCode(err, ErrCodeInvalidConstructor)
}

func IsDuplicateConstructor(err error) bool {
	return hasCode(err, ErrCodeDuplicateConstructor)
}

func IsMissingPartitionKey(err error) bool {
	return hasCode(err, ErrCodeMissingPartitionKey)
}

func IsMatchFailed(err error) bool {
	return hasCode(err, ErrCodeMatchFailed)
}

func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

func IsInvalidScope(err error) bool {
	return hasCode(err, ErrCodeInvalidScope)
}

func IsModuleApplyFailed(err error) bool {
	return hasCode(err, ErrCodeModuleApplyFailed)
}
