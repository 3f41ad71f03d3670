// Package unify implements the identity unification protocol: deciding
// whether two kind descriptors produced by different modules denote the
// same logical kind, narrowing references, and dispatching through the
// origin module's operations table.
//
// All functions here are pure and safe for concurrent use once module
// initialization has completed.
package unify

import (
	"fmt"

	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/kind/entities"
	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// SameKind reports whether two descriptors denote the same logical kind.
// Identity is value equality of (name, parameter key). It holds regardless
// of which module produced either descriptor and regardless of whether they
// are the same allocation; address equality would wrongly split the two
// per-module copies of one logical kind.
func SameKind(d1, d2 values.Descriptor) bool {
	return d1.Equals(d2)
}

// Narrow attempts to view obj through the more specific target capability.
// It walks the ancestry chain of the instance's descriptor; the narrow
// succeeds iff some ancestor (including the instance's own descriptor)
// is the same kind as the target. A failed narrow returns (nil, false);
// it is an expected outcome, never an error.
func Narrow(obj capability.Object, target values.Descriptor) (capability.Object, bool) {
	if obj == nil {
		return nil, false
	}
	for _, ancestor := range obj.Descriptor().Ancestry() {
		if SameKind(ancestor, target) {
			return obj, true
		}
	}
	return nil, false
}

// NarrowWorker narrows obj to the worker refinement layer.
func NarrowWorker(obj capability.Object) (capability.Worker, bool) {
	w, ok := obj.(capability.Worker)
	if !ok {
		return nil, false
	}
	return w, true
}

// Dispatch invokes a named operation on obj through the operations table of
// the module that constructed it, never the caller's. The instance carries
// its origin table; behavior is therefore independent of where the call
// originates.
func Dispatch(obj capability.Object, operation string, args ...any) (any, error) {
	if obj == nil {
		return nil, &entities.UnknownKindError{}
	}
	d, ok := obj.(capability.Dispatchable)
	if !ok || d.Ops() == nil {
		return nil, &entities.UnknownKindError{Descriptor: obj.Descriptor()}
	}
	op, ok := d.Ops()[operation]
	if !ok {
		return nil, &entities.UnknownOperationError{Descriptor: obj.Descriptor(), Operation: operation}
	}
	return op(obj, args...)
}

// Describe returns structural type information for diagnostics. Identity
// stays structural: no hash codes, no allocation addresses.
func Describe(obj capability.Object) string {
	if obj == nil {
		return "null"
	}
	d := obj.Descriptor()
	origin := "unknown"
	if disp, ok := obj.(capability.Dispatchable); ok {
		origin = disp.Origin()
	}
	return fmt.Sprintf("kind=%s origin=%s ancestry=%d", d.Key(), origin, len(d.Ancestry()))
}
