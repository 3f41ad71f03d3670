package values

import (
	"fmt"
	"strings"
)

// Canonical element keys for generic kind parameterization.
// Keys are structural: two modules with different compiled representations
// of the same element type must still derive the same key.
const (
	ElementInteger = "integer"
	ElementText    = "text"
)

// ElementKey returns the canonical parameter key for an element type.
// Integer-like and string-like elements map to the fixed keys above; any
// other element type falls back to its lower-cased Go type name so distinct
// parameterizations stay distinguishable.
func ElementKey[T any]() string {
	var zero T
	switch any(zero).(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ElementInteger
	case string:
		return ElementText
	default:
		return strings.ToLower(fmt.Sprintf("%T", zero))
	}
}
