package registry

import (
	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// KindRegistry is one module's table of concrete kinds.
// Populated once at module initialization, immutable thereafter.
type KindRegistry interface {
	// Register adds a kind entry. Idempotent: re-registering the same
	// descriptor with identical content is a no-op; different content is an
	// error.
	Register(desc values.Descriptor, entry Entry) error

	// Construct builds an instance of the kind from typed arguments.
	Construct(desc values.Descriptor, args map[string]any) (capability.Object, error)

	// ConstructRaw builds an instance from raw JSON arguments, validating
	// them against the kind's argument schema first.
	ConstructRaw(desc values.Descriptor, raw []byte) (capability.Object, error)

	// Lookup returns the entry for a descriptor.
	Lookup(desc values.Descriptor) (Entry, bool)

	// Schema returns the JSON schema for the kind's constructor arguments.
	Schema(desc values.Descriptor) (string, bool)

	// List returns the canonical keys of all registered kinds.
	List() []string
}
