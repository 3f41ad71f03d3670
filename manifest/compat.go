package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/typelink-dev/typelink-sdk/kind/entities"
)

// CheckCompatible verifies that a peer module's ABI satisfies this
// manifest's constraint. A missing constraint accepts any valid ABI.
func (m *Manifest) CheckCompatible(peer *Manifest) error {
	v, err := semver.NewVersion(peer.ABI)
	if err != nil {
		return fmt.Errorf("module %s declares invalid abi %q: %w", peer.Name, peer.ABI, err)
	}

	if m.Compatible == "" {
		return nil
	}

	c, err := semver.NewConstraint(m.Compatible)
	if err != nil {
		return fmt.Errorf("module %s declares invalid compatibility constraint %q: %w", m.Name, m.Compatible, err)
	}

	if !c.Check(v) {
		return &entities.IncompatibleABIError{
			Module:     peer.Name,
			ABI:        peer.ABI,
			Constraint: m.Compatible,
		}
	}
	return nil
}
