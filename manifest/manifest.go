// Package manifest defines the module manifest: the declaration each
// module carries about itself before it links with a peer.
package manifest

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Manifest declares one module's identity and linkage requirements.
type Manifest struct {
	// Name is the module's short name (e.g. "host", "extension").
	Name string `yaml:"name" json:"name"`

	// Origin is the label stamped onto everything the module constructs.
	Origin string `yaml:"origin" json:"origin"`

	// ABI is the semantic version of the type hierarchy the module was
	// built against.
	ABI string `yaml:"abi" json:"abi"`

	// Compatible is the semver constraint a peer's ABI must satisfy to
	// link with this module. Empty means any.
	Compatible string `yaml:"compatible,omitempty" json:"compatible,omitempty"`

	// Kinds lists the kind keys the module registers.
	Kinds []string `yaml:"kinds,omitempty" json:"kinds,omitempty"`

	// Accept lists glob patterns of kind keys the module accepts across
	// the boundary. Empty accepts everything.
	Accept []string `yaml:"accept,omitempty" json:"accept,omitempty"`
}

// Validate checks the manifest's required fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if m.Origin == "" {
		return fmt.Errorf("manifest %q: origin is required", m.Name)
	}
	if m.ABI == "" {
		return fmt.Errorf("manifest %q: abi is required", m.Name)
	}
	return nil
}

// Parser parses raw manifest bytes into a Manifest.
type Parser interface {
	// Parse unmarshals manifest bytes into a Manifest struct.
	Parse(data []byte) (*Manifest, error)
}

// YamlParser implements Parser for YAML.
type YamlParser struct{}

// NewYamlParser creates a new YamlParser.
func NewYamlParser() Parser {
	return &YamlParser{}
}

// Parse unmarshals YAML bytes into a Manifest struct and validates it.
func (p *YamlParser) Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
