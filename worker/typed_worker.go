package worker

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// TypedWorker is the generic concrete kind, parameterized over its element
// type. Its identity encodes the element key, so distinct parameterizations
// are distinguishable while identical parameterizations built in different
// modules collide to the same descriptor.
type TypedWorker[T any] struct {
	desc   values.Descriptor
	id     string
	data   T
	source string
	ops    capability.OpsTable
	logger *slog.Logger
}

// NewTypedWorker constructs a generic worker instance.
func NewTypedWorker[T any](desc values.Descriptor, data T, source string, ops capability.OpsTable, logger *slog.Logger) *TypedWorker[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypedWorker[T]{
		desc:   desc,
		id:     uuid.NewString(),
		data:   data,
		source: source,
		ops:    ops,
		logger: logger,
	}
}

// Identify returns the kind name with the element tag, e.g.
// "typed-worker[integer]".
func (w *TypedWorker[T]) Identify() string {
	return KindTypedWorker + "[" + values.ElementKey[T]() + "]"
}

// Describe returns diagnostic text. Never parsed.
func (w *TypedWorker[T]) Describe() string {
	return fmt.Sprintf("typed-worker %s from %s with data: %v", w.id, w.source, w.data)
}

// Value returns a numeric projection of the element: integer elements
// return themselves, text elements their length.
func (w *TypedWorker[T]) Value() int {
	switch v := any(w.data).(type) {
	case int:
		return v
	case string:
		return len(v)
	default:
		return 0
	}
}

// Act logs the action with the worker's origin.
func (w *TypedWorker[T]) Act() {
	w.logger.Info("typed-worker act", "source", w.source, "element", values.ElementKey[T](), "id", w.id)
}

// IsReady reports readiness. The generic kind keeps the hierarchy default.
func (w *TypedWorker[T]) IsReady() bool {
	return true
}

// Work logs a unit of work with the element value.
func (w *TypedWorker[T]) Work() {
	w.logger.Info("typed-worker work", "source", w.source, "data", fmt.Sprint(w.data), "id", w.id)
}

// Descriptor returns the worker's capability descriptor.
func (w *TypedWorker[T]) Descriptor() values.Descriptor {
	return w.desc
}

// Ops returns the operations table installed by the origin module.
func (w *TypedWorker[T]) Ops() capability.OpsTable {
	return w.ops
}

// Origin returns the constructing module's label.
func (w *TypedWorker[T]) Origin() string {
	return w.source
}

// Data returns the element value.
func (w *TypedWorker[T]) Data() T {
	return w.data
}
