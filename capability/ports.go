// Package capability declares the polymorphic contracts of the type
// hierarchy. It is pure contract: no operation here may fail.
package capability

import (
	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// Object is the root capability every instance exposes, regardless of which
// module constructed it.
type Object interface {
	// Identify returns the stable kind name, including the parameter tag
	// for generic kinds (e.g. "typed-worker[integer]").
	Identify() string

	// Describe returns human-readable diagnostic text. Never parsed.
	Describe() string

	// Value returns the instance's numeric value.
	Value() int

	// Act performs the kind's action. Observable side effects only.
	Act()

	// Descriptor returns the capability descriptor of the instance's
	// concrete kind.
	Descriptor() values.Descriptor
}

// Worker refines Object with a readiness predicate and a work operation.
// Concrete kinds implement both layers.
type Worker interface {
	Object

	// IsReady reports whether the worker can accept work. The hierarchy
	// default is true; concrete kinds may override.
	IsReady() bool

	// Work performs the worker's unit of work. Observable side effects only.
	Work()
}

// Operation is one entry in a module's operations table.
type Operation func(obj Object, args ...any) (any, error)

// OpsTable maps operation names to implementations. Each module installs
// its own table per kind at registration time; instances always execute
// through the table of the module that constructed them.
type OpsTable map[string]Operation

// Dispatchable is implemented by instances that carry their origin module's
// operations table. Dispatch routes through it, never through the caller's
// module.
type Dispatchable interface {
	// Ops returns the operations table installed by the origin module.
	Ops() OpsTable

	// Origin returns the origin module's label.
	Origin() string
}
