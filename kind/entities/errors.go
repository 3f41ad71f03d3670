// Package entities contains domain entities for the kind domain model.
package entities

import (
	"errors"
	"fmt"

	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrUnknownKind is returned when a descriptor was never registered in
	// the target module.
	ErrUnknownKind = errors.New("unknown kind")

	// ErrDuplicateKind is returned when a descriptor is re-registered in the
	// same module with different content.
	ErrDuplicateKind = errors.New("duplicate kind registration")

	// ErrUnknownOperation is returned when dispatch names an operation the
	// origin module never put in the kind's operations table.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnresolvedBehavior is returned when a behavior slot is invoked
	// before any module registered a definition.
	ErrUnresolvedBehavior = errors.New("unresolved behavior")

	// ErrExchangeDenied is returned when the receiving module's policy
	// refuses a kind at the module boundary.
	ErrExchangeDenied = errors.New("exchange denied")

	// ErrIncompatibleABI is returned when two modules declare ABI versions
	// that cannot be linked.
	ErrIncompatibleABI = errors.New("incompatible module abi")
)

// UnknownKindError indicates a lookup or construction against a descriptor
// that is not in the module's registry.
type UnknownKindError struct {
	Descriptor values.Descriptor
	Origin     string
}

func (e *UnknownKindError) Error() string {
	if e.Origin == "" {
		return fmt.Sprintf("unknown kind: %s", e.Descriptor.Key())
	}
	return fmt.Sprintf("unknown kind in module %s: %s", e.Origin, e.Descriptor.Key())
}

// Is implements error matching for errors.Is() checks.
func (e *UnknownKindError) Is(target error) bool {
	return target == ErrUnknownKind
}

// DuplicateKindError indicates a conflicting re-registration.
type DuplicateKindError struct {
	Descriptor values.Descriptor
	Origin     string
}

func (e *DuplicateKindError) Error() string {
	return fmt.Sprintf("kind %s already registered in module %s with different content", e.Descriptor.Key(), e.Origin)
}

// Is implements error matching for errors.Is() checks.
func (e *DuplicateKindError) Is(target error) bool {
	return target == ErrDuplicateKind
}

// UnknownOperationError indicates a dispatch to an operation missing from
// the origin module's operations table.
type UnknownOperationError struct {
	Descriptor values.Descriptor
	Operation  string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("kind %s has no operation %q", e.Descriptor.Key(), e.Operation)
}

// Is implements error matching for errors.Is() checks.
func (e *UnknownOperationError) Is(target error) bool {
	return target == ErrUnknownOperation
}

// UnresolvedBehaviorError indicates a behavior slot with no definition.
type UnresolvedBehaviorError struct {
	Slot string
}

func (e *UnresolvedBehaviorError) Error() string {
	return fmt.Sprintf("no module registered a definition for behavior slot %q", e.Slot)
}

// Is implements error matching for errors.Is() checks.
func (e *UnresolvedBehaviorError) Is(target error) bool {
	return target == ErrUnresolvedBehavior
}

// ExchangeDeniedError indicates the receiving module's policy refused a kind.
type ExchangeDeniedError struct {
	Descriptor values.Descriptor
	Receiver   string
	Reason     string
}

func (e *ExchangeDeniedError) Error() string {
	return fmt.Sprintf("module %s refused kind %s: %s", e.Receiver, e.Descriptor.Key(), e.Reason)
}

// Is implements error matching for errors.Is() checks.
func (e *ExchangeDeniedError) Is(target error) bool {
	return target == ErrExchangeDenied
}

// IncompatibleABIError indicates two modules whose declared ABI versions
// cannot be linked into one process.
type IncompatibleABIError struct {
	Module     string
	ABI        string
	Constraint string
}

func (e *IncompatibleABIError) Error() string {
	return fmt.Sprintf("module %s declares abi %s which does not satisfy constraint %q", e.Module, e.ABI, e.Constraint)
}

// Is implements error matching for errors.Is() checks.
func (e *IncompatibleABIError) Is(target error) bool {
	return target == ErrIncompatibleABI
}
