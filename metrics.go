package simpledi

import (
	"time"
)

type ResolveHook func(typeName string, s Scope, duration time.Duration, err error)

type RegisterHook func(typeName string, s Scope, key PartitionKey)

type ConstructHook func(typeName string, duration time.Duration, err error)
