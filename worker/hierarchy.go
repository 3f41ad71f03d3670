// Package worker implements the concrete kinds of the capability
// hierarchy and installs them into a module's kind registry.
package worker

import (
	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// Kind names. Stable across modules: they are the identity of the
// hierarchy, not of any one compiled copy.
const (
	KindObject       = "object"
	KindWorker       = "worker"
	KindSharedWorker = "shared-worker"
	KindTypedWorker  = "typed-worker"
)

// Behavior slot names shared by every module.
const (
	SlotSharedFunctionResult = "shared-function-result"
	SlotSharedOperation      = "shared-operation"
)

// Hierarchy holds one module's allocations of the capability descriptors.
// Each module builds its own copy; the copies are structurally equal, which
// is exactly what the unification protocol relies on.
type Hierarchy struct {
	Object             values.Descriptor
	Worker             values.Descriptor
	SharedWorker       values.Descriptor
	TypedWorkerInteger values.Descriptor
	TypedWorkerText    values.Descriptor
}

// NewHierarchy allocates a fresh copy of the hierarchy descriptors.
func NewHierarchy() Hierarchy {
	object := values.MustNewDescriptor(KindObject, nil)
	worker := values.MustNewDescriptor(KindWorker, &object)
	return Hierarchy{
		Object:             object,
		Worker:             worker,
		SharedWorker:       values.MustNewDescriptor(KindSharedWorker, &worker),
		TypedWorkerInteger: values.MustNewParameterizedDescriptor(KindTypedWorker, values.ElementInteger, &worker),
		TypedWorkerText:    values.MustNewParameterizedDescriptor(KindTypedWorker, values.ElementText, &worker),
	}
}

// TypedDescriptor allocates the generic kind's descriptor for an arbitrary
// element type.
func (h Hierarchy) TypedDescriptor(paramKey string) (values.Descriptor, error) {
	parent := h.Worker
	return values.NewParameterizedDescriptor(KindTypedWorker, paramKey, &parent)
}
