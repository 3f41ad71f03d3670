// Package values contains the value objects of the kind domain model.
package values

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Descriptor identifies one logical kind in the capability hierarchy.
// Two descriptors denote the same logical kind iff their (name, parameter
// key) pairs are equal, independent of which module allocated them.
// Reference equality is meaningless for descriptors: the same logical kind
// legitimately has one allocation per module.
type Descriptor struct {
	name     string
	paramKey string
	parent   *Descriptor
}

// NewDescriptor creates a descriptor for an unparameterized kind.
// A valid kind name must:
// - Be non-empty
// - contain only lowercase alphanumeric characters and hyphens
// - NOT contain brackets (reserved for the parameter tag)
func NewDescriptor(name string, parent *Descriptor) (Descriptor, error) {
	return newDescriptor(name, "", parent)
}

// NewParameterizedDescriptor creates a descriptor for a generic kind.
// The parameter key must be a canonical element key (see ElementKey);
// it is part of the descriptor's identity.
func NewParameterizedDescriptor(name, paramKey string, parent *Descriptor) (Descriptor, error) {
	if strings.TrimSpace(paramKey) == "" {
		return Descriptor{}, fmt.Errorf("parameter key cannot be empty for generic kind %q", name)
	}
	return newDescriptor(name, paramKey, parent)
}

func newDescriptor(name, paramKey string, parent *Descriptor) (Descriptor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Descriptor{}, fmt.Errorf("kind name cannot be empty")
	}
	if strings.ContainsAny(name, "[]") {
		return Descriptor{}, fmt.Errorf("invalid kind name %q: brackets are reserved for the parameter tag", name)
	}
	for _, ch := range name {
		if !isValidKindChar(ch) {
			return Descriptor{}, fmt.Errorf("invalid kind name %q: must contain only lowercase alphanumeric characters and hyphens", name)
		}
	}
	return Descriptor{name: name, paramKey: paramKey, parent: parent}, nil
}

func isValidKindChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r == '-'
}

// MustNewDescriptor creates a Descriptor or panics.
func MustNewDescriptor(name string, parent *Descriptor) Descriptor {
	d, err := NewDescriptor(name, parent)
	if err != nil {
		panic(err)
	}
	return d
}

// MustNewParameterizedDescriptor creates a parameterized Descriptor or panics.
func MustNewParameterizedDescriptor(name, paramKey string, parent *Descriptor) Descriptor {
	d, err := NewParameterizedDescriptor(name, paramKey, parent)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the stable kind name without the parameter tag.
func (d Descriptor) Name() string {
	return d.name
}

// ParamKey returns the canonical parameter key, or "" for plain kinds.
func (d Descriptor) ParamKey() string {
	return d.paramKey
}

// IsGeneric reports whether this descriptor carries a parameter key.
func (d Descriptor) IsGeneric() bool {
	return d.paramKey != ""
}

// IsRoot reports whether this descriptor has no supertype.
func (d Descriptor) IsRoot() bool {
	return d.parent == nil
}

// IsEmpty reports whether this is the zero value.
func (d Descriptor) IsEmpty() bool {
	return d.name == ""
}

// Parent returns the direct supertype descriptor.
// The boolean is false for the hierarchy root.
func (d Descriptor) Parent() (Descriptor, bool) {
	if d.parent == nil {
		return Descriptor{}, false
	}
	return *d.parent, true
}

// Ancestry returns the chain from this descriptor up to the hierarchy root,
// starting with the descriptor itself. Chains are short and fixed at
// registration time.
func (d Descriptor) Ancestry() []Descriptor {
	chain := []Descriptor{d}
	for p := d.parent; p != nil; p = p.parent {
		chain = append(chain, *p)
	}
	return chain
}

// Equals reports structural identity: equal (name, parameter key) pairs.
// Ancestry and allocation address are deliberately not part of identity.
func (d Descriptor) Equals(other Descriptor) bool {
	return d.name == other.name && d.paramKey == other.paramKey
}

// Key returns the canonical string form: "name" or "name[param]".
func (d Descriptor) Key() string {
	if d.paramKey == "" {
		return d.name
	}
	return d.name + "[" + d.paramKey + "]"
}

// String returns the canonical key.
func (d Descriptor) String() string {
	return d.Key()
}

// MarshalJSON implements json.Marshaler using the canonical key.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Key())
}

// ParseKey splits a canonical key back into name and parameter key.
func ParseKey(key string) (name, paramKey string, err error) {
	open := strings.Index(key, "[")
	if open == -1 {
		if strings.Contains(key, "]") {
			return "", "", fmt.Errorf("malformed kind key %q", key)
		}
		return key, "", nil
	}
	if !strings.HasSuffix(key, "]") {
		return "", "", fmt.Errorf("malformed kind key %q", key)
	}
	name = key[:open]
	paramKey = key[open+1 : len(key)-1]
	if name == "" || paramKey == "" {
		return "", "", fmt.Errorf("malformed kind key %q", key)
	}
	return name, paramKey, nil
}
