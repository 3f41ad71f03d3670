// Package behavior implements duplicate behavior slots: named free
// functions that may have one independent definition per module, collapsing
// at initialization time to a single effective implementation.
//
// The resolution rule is deterministic and happens once: the first
// definition registered during module initialization order wins. Later
// definitions stay loaded but are unreachable by name, the way a linker
// keeps unpicked weak symbols in the binary.
package behavior

import (
	"sync"

	"github.com/typelink-dev/typelink-sdk/kind/entities"
)

// Func is one definition of a behavior slot.
type Func func(args ...any) (any, error)

type definition struct {
	origin string
	fn     Func
}

// Table is the process-wide symbol resolver for behavior slots.
type Table struct {
	mu       sync.RWMutex
	winners  map[string]definition
	shadowed map[string][]definition
}

// NewTable creates an empty behavior table.
func NewTable() *Table {
	return &Table{
		winners:  make(map[string]definition),
		shadowed: make(map[string][]definition),
	}
}

// Register installs a definition for a slot. The first registration wins;
// every later one is retained but unreachable by name. One definition per
// (slot, origin) pair: a module re-registering its own definition is a
// no-op. The origin label is observability only.
func (t *Table) Register(slot, origin string, fn Func) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if w, taken := t.winners[slot]; taken {
		if w.origin == origin {
			return
		}
		for _, s := range t.shadowed[slot] {
			if s.origin == origin {
				return
			}
		}
		t.shadowed[slot] = append(t.shadowed[slot], definition{origin: origin, fn: fn})
		return
	}
	t.winners[slot] = definition{origin: origin, fn: fn}
}

// Call invokes the slot's effective implementation. Every call site,
// regardless of which module issued the call, observes the same definition.
func (t *Table) Call(slot string, args ...any) (any, error) {
	t.mu.RLock()
	def, ok := t.winners[slot]
	t.mu.RUnlock()

	if !ok {
		return nil, &entities.UnresolvedBehaviorError{Slot: slot}
	}
	return def.fn(args...)
}

// Origin returns the winning definition's origin label.
func (t *Table) Origin(slot string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	def, ok := t.winners[slot]
	return def.origin, ok
}

// Definitions returns the total number of definitions loaded for a slot,
// winner included.
func (t *Table) Definitions(slot string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := len(t.shadowed[slot])
	if _, ok := t.winners[slot]; ok {
		n++
	}
	return n
}

// Slots returns the names of all resolved slots.
func (t *Table) Slots() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	slots := make([]string, 0, len(t.winners))
	for s := range t.winners {
		slots = append(slots, s)
	}
	return slots
}
