package scope

type Scope int

const (
	Runtime Scope = iota
	Thread
	Instance
	Request
)

func (s Scope) String() string {
	switch s {
	case Runtime:
		return "runtime"
	case Thread:
		return "thread"
	case Instance:
		return "instance"
	case Request:
		return "request"
	default:
		return "unknown"
	}
}

func (s Scope) Valid() bool {
	return s >= Runtime && s <= Request
}

// IsShared reports whether instances of this scope live in a registry store.
func (s Scope) IsShared() bool {
	return s == Runtime || s == Thread
}

// RequiresKey reports whether records of this scope are partitioned.
func (s Scope) RequiresKey() bool {
	return s == Thread
}

// Normalize drops keys the scope does not partition on.
func (s Scope) Normalize(key string) string {
	if s.RequiresKey() {
		return key
	}
	return ""
}
