package worker

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// SharedWorker is the simple concrete kind: an integer value plus the label
// of the module that constructed it. Both modules compile their own copy of
// this type; instances unify through their descriptors.
type SharedWorker struct {
	desc   values.Descriptor
	id     string
	value  int
	source string
	ops    capability.OpsTable
	logger *slog.Logger
}

// NewSharedWorker constructs an instance directly, outside any registry.
// Module factories go through the registry instead; this constructor exists
// for module-local creation, mirroring in-module `new` in the original
// hierarchy.
func NewSharedWorker(desc values.Descriptor, value int, source string, ops capability.OpsTable, logger *slog.Logger) *SharedWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SharedWorker{
		desc:   desc,
		id:     uuid.NewString(),
		value:  value,
		source: source,
		ops:    ops,
		logger: logger,
	}
}

// Identify returns the stable kind name.
func (w *SharedWorker) Identify() string {
	return KindSharedWorker
}

// Describe returns diagnostic text. Never parsed.
func (w *SharedWorker) Describe() string {
	return fmt.Sprintf("shared-worker %s created from %s with value %d", w.id, w.source, w.value)
}

// Value returns the worker's numeric value.
func (w *SharedWorker) Value() int {
	return w.value
}

// SetValue replaces the worker's numeric value.
func (w *SharedWorker) SetValue(v int) {
	w.value = v
}

// Act logs the action with the worker's origin and value.
func (w *SharedWorker) Act() {
	w.logger.Info("shared-worker act", "source", w.source, "value", w.value, "id", w.id)
}

// IsReady reports readiness: ready iff the value is positive.
func (w *SharedWorker) IsReady() bool {
	return w.value > 0
}

// Work logs a unit of work.
func (w *SharedWorker) Work() {
	w.logger.Info("shared-worker work", "source", w.source, "id", w.id)
}

// Descriptor returns the worker's capability descriptor.
func (w *SharedWorker) Descriptor() values.Descriptor {
	return w.desc
}

// Ops returns the operations table installed by the origin module.
func (w *SharedWorker) Ops() capability.OpsTable {
	return w.ops
}

// Origin returns the constructing module's label.
func (w *SharedWorker) Origin() string {
	return w.source
}

// ID returns the instance id.
func (w *SharedWorker) ID() string {
	return w.id
}

var (
	_ capability.Worker       = (*SharedWorker)(nil)
	_ capability.Dispatchable = (*SharedWorker)(nil)
)
