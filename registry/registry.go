// Package registry implements the per-module concrete kind registry.
package registry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/kind/entities"
	"github.com/typelink-dev/typelink-sdk/kind/values"
)

// Constructor builds an instance of a kind from its arguments.
type Constructor func(args map[string]any) (capability.Object, error)

// Destructor tears down an instance. It is captured alongside the
// constructor so destruction always runs in the origin module.
type Destructor func(obj capability.Object)

// Entry maps a descriptor to the logic implementing it in one module.
type Entry struct {
	// Construct builds an instance. Required.
	Construct Constructor

	// Destroy releases an instance. Optional; a nil destroy is a no-op.
	Destroy Destructor

	// Ops is the module's operations table for the kind.
	Ops capability.OpsTable

	// ArgsModel is a struct describing the constructor arguments. When set,
	// a JSON schema is generated for it at registration time and raw
	// construction validates against it.
	ArgsModel any
}

// Registry implements KindRegistry using in-memory storage.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	descs    map[string]values.Descriptor
	schemas  map[string]string
	compiled map[string]*santhosh.Schema

	origin    string
	validate  bool
	reflector *jsonschema.Reflector
}

// Option configures the Registry.
type Option func(*Registry)

// WithValidation toggles raw-argument schema validation.
func WithValidation(validate bool) Option {
	return func(r *Registry) {
		r.validate = validate
	}
}

// NewRegistry creates a kind registry for one module. The origin label is
// used in errors and is the label dispatch reports.
func NewRegistry(origin string, opts ...Option) *Registry {
	r := &Registry{
		entries:   make(map[string]Entry),
		descs:     make(map[string]values.Descriptor),
		schemas:   make(map[string]string),
		compiled:  make(map[string]*santhosh.Schema),
		origin:    origin,
		validate:  true,
		reflector: new(jsonschema.Reflector),
	}
	r.reflector.ExpandedStruct = true

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Origin returns the owning module's label.
func (r *Registry) Origin() string {
	return r.origin
}

// Register adds a kind entry. Re-registering the same descriptor with
// identical content is a no-op; different content returns a
// DuplicateKindError.
func (r *Registry) Register(desc values.Descriptor, entry Entry) error {
	if desc.IsEmpty() {
		return fmt.Errorf("cannot register empty descriptor in module %s", r.origin)
	}
	if entry.Construct == nil {
		return fmt.Errorf("kind %s: entry has no constructor", desc.Key())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := desc.Key()
	if existing, ok := r.entries[key]; ok {
		if fingerprint(existing) == fingerprint(entry) {
			return nil
		}
		return &entities.DuplicateKindError{Descriptor: desc, Origin: r.origin}
	}

	var schemaStr string
	if entry.ArgsModel != nil {
		s := r.reflector.Reflect(entry.ArgsModel)
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("kind %s: failed to marshal generated schema: %w", key, err)
		}
		schemaStr = string(b)

		compiled, err := compileSchema(key, schemaStr)
		if err != nil {
			return fmt.Errorf("kind %s: failed to compile schema: %w", key, err)
		}
		r.compiled[key] = compiled
	}

	r.entries[key] = entry
	r.descs[key] = desc
	if schemaStr != "" {
		r.schemas[key] = schemaStr
	}
	return nil
}

// fingerprint summarizes an entry's observable content: sorted operation
// names plus the argument model shape. Function addresses are deliberately
// not part of it; content identity must stay structural.
func fingerprint(e Entry) string {
	ops := make([]string, 0, len(e.Ops))
	for name := range e.Ops {
		ops = append(ops, name)
	}
	sort.Strings(ops)

	model := "none"
	if e.ArgsModel != nil {
		model = fmt.Sprintf("%T", e.ArgsModel)
	}
	return strings.Join(ops, ",") + "|" + model
}

func compileSchema(key, schemaStr string) (*santhosh.Schema, error) {
	compiler := santhosh.NewCompiler()
	// Kind keys carry brackets, which are not URL-safe; flatten them for
	// the resource name.
	resource := "registry:///" + strings.NewReplacer("[", ".", "]", "").Replace(key) + ".json"
	if err := compiler.AddResource(resource, strings.NewReader(schemaStr)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

// Construct builds an instance of the kind from typed arguments.
// Returns an UnknownKindError if the descriptor was never registered here.
func (r *Registry) Construct(desc values.Descriptor, args map[string]any) (capability.Object, error) {
	entry, ok := r.Lookup(desc)
	if !ok {
		return nil, &entities.UnknownKindError{Descriptor: desc, Origin: r.origin}
	}
	obj, err := entry.Construct(args)
	if err != nil {
		return nil, fmt.Errorf("module %s: constructing %s: %w", r.origin, desc.Key(), err)
	}
	return obj, nil
}

// ConstructRaw builds an instance from raw JSON arguments. When the kind
// registered an argument model and validation is enabled, the raw payload
// must satisfy the generated schema before the constructor runs.
func (r *Registry) ConstructRaw(desc values.Descriptor, raw []byte) (capability.Object, error) {
	r.mu.RLock()
	compiled, hasSchema := r.compiled[desc.Key()]
	r.mu.RUnlock()

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("module %s: invalid raw arguments for %s: %w", r.origin, desc.Key(), err)
	}

	if r.validate && hasSchema {
		if err := compiled.Validate(decoded); err != nil {
			return nil, fmt.Errorf("module %s: arguments for %s rejected by schema: %w", r.origin, desc.Key(), err)
		}
	}

	args, _ := decoded.(map[string]any)
	return r.Construct(desc, args)
}

// Lookup returns the entry for a descriptor. Matching is structural: any
// descriptor with the same (name, parameter key) finds the entry, no matter
// which module allocated it.
func (r *Registry) Lookup(desc values.Descriptor) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[desc.Key()]
	return entry, ok
}

// Descriptor returns this module's own allocation of a registered
// descriptor, found by canonical key.
func (r *Registry) Descriptor(key string) (values.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descs[key]
	return d, ok
}

// Schema returns the JSON schema generated for the kind's constructor
// arguments.
func (r *Registry) Schema(desc values.Descriptor) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[desc.Key()]
	return s, ok
}

// List returns the canonical keys of all registered kinds, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ KindRegistry = (*Registry)(nil)
