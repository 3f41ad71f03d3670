// Package policy enforces which kinds a module accepts across the module
// boundary.
package policy

import "github.com/typelink-dev/typelink-sdk/kind/values"

// ExchangePolicy decides whether a kind may cross into a module.
type ExchangePolicy interface {
	// Check reports the decision and logs denials through the handler.
	Check(desc values.Descriptor) bool

	// Evaluate returns the decision without side effects.
	Evaluate(desc values.Descriptor) bool
}

// DenialHandler is called when a policy check denies an exchange.
type DenialHandler interface {
	// OnDenial is called when a kind is refused at the module boundary.
	OnDenial(kind string, reason string)
}
