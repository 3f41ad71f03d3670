// Package interop is the minimal C-linkage-style surface: opaque handles,
// explicit destroy, and flat query functions for hosts that cannot consume
// the richer capability model. Identification and narrowing route through
// the unification protocol, not a parallel implementation.
package interop

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/kind/values"
	"github.com/typelink-dev/typelink-sdk/module"
	"github.com/typelink-dev/typelink-sdk/unify"
)

// ErrInvalidHandle is returned for handles that were never issued or were
// already destroyed.
var ErrInvalidHandle = errors.New("invalid handle")

// Handle is an opaque reference to an instance owned by the interop table.
type Handle uint64

type entry struct {
	obj     capability.Object
	destroy func(capability.Object)
	target  values.Descriptor
	origin  string
}

// Table owns the handle space. The destroy hook for each handle is
// captured from the origin module's registry entry at creation time, so a
// handle can only ever be destroyed by the module that created it.
type Table struct {
	mu      sync.Mutex
	next    Handle
	entries map[Handle]entry
	logger  *slog.Logger
}

// NewTable creates an empty handle table.
func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		next:    1,
		entries: make(map[Handle]entry),
		logger:  logger,
	}
}

// Create constructs a shared-worker in the given module from a primitive
// value and returns an owned handle. Arguments travel as data only: they
// are marshalled to JSON and validated against the kind's argument schema.
func (t *Table) Create(m *module.Module, value int) (Handle, error) {
	raw, err := json.Marshal(map[string]any{"value": value})
	if err != nil {
		return 0, err
	}

	desc := m.Hierarchy().SharedWorker
	obj, err := m.ConstructRaw(desc, raw)
	if err != nil {
		return 0, err
	}

	kindEntry, ok := m.Registry().Lookup(desc)
	if !ok {
		return 0, ErrInvalidHandle
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.entries[h] = entry{
		obj:     obj,
		destroy: kindEntry.Destroy,
		target:  m.Hierarchy().Worker,
		origin:  m.Origin(),
	}
	return h, nil
}

// Destroy releases the instance behind a handle through the destroy hook of
// its origin module. Destroying an unknown or already destroyed handle is
// an error, not a fault.
func (t *Table) Destroy(h Handle) error {
	t.mu.Lock()
	e, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	t.mu.Unlock()

	if !ok {
		return ErrInvalidHandle
	}
	if e.destroy != nil {
		e.destroy(e.obj)
	}
	return nil
}

// Identify returns the kind name of the instance behind a handle.
func (t *Table) Identify(h Handle) (string, error) {
	e, err := t.lookup(h)
	if err != nil {
		return "", err
	}
	return e.obj.Identify(), nil
}

// NarrowTest reports whether the instance narrows to the worker refinement
// of its origin module's hierarchy.
func (t *Table) NarrowTest(h Handle) (bool, error) {
	e, err := t.lookup(h)
	if err != nil {
		return false, err
	}
	_, ok := unify.Narrow(e.obj, e.target)
	return ok, nil
}

// PrintInfo logs the instance's identity, description, value, and
// structural type info, then dispatches its action.
func (t *Table) PrintInfo(h Handle) error {
	e, err := t.lookup(h)
	if err != nil {
		return err
	}

	t.logger.Info("object info",
		"origin", e.origin,
		"kind", e.obj.Identify(),
		"description", e.obj.Describe(),
		"value", e.obj.Value(),
		"type", unify.Describe(e.obj),
	)
	_, err = unify.Dispatch(e.obj, "act")
	return err
}

func (t *Table) lookup(h Handle) (entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[h]
	if !ok {
		return entry{}, ErrInvalidHandle
	}
	return e, nil
}

// Default table used by the package-level functions, mirroring a flat
// C-style API surface.
var defaultTable = NewTable(nil)

// Create constructs in the default table.
func Create(m *module.Module, value int) (Handle, error) {
	return defaultTable.Create(m, value)
}

// Destroy releases a handle from the default table.
func Destroy(h Handle) error {
	return defaultTable.Destroy(h)
}

// Identify queries a handle in the default table.
func Identify(h Handle) (string, error) {
	return defaultTable.Identify(h)
}

// NarrowTest queries a handle in the default table.
func NarrowTest(h Handle) (bool, error) {
	return defaultTable.NarrowTest(h)
}

// PrintInfo logs a handle's info from the default table.
func PrintInfo(h Handle) error {
	return defaultTable.PrintInfo(h)
}
