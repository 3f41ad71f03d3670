// Package module models one independently built copy of the type
// hierarchy: its manifest, its own kind registry, and the factory surface
// it exposes at the module boundary.
package module

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/typelink-dev/typelink-sdk/behavior"
	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/kind/values"
	"github.com/typelink-dev/typelink-sdk/manifest"
	"github.com/typelink-dev/typelink-sdk/policy"
	"github.com/typelink-dev/typelink-sdk/registry"
	"github.com/typelink-dev/typelink-sdk/worker"
)

// Module is one compiled copy of the type hierarchy. Every instance it
// constructs carries its origin label and dispatches through its table.
type Module struct {
	manifest  *manifest.Manifest
	registry  *registry.Registry
	behaviors *behavior.Table
	policy    policy.ExchangePolicy
	hierarchy worker.Hierarchy
	logger    *slog.Logger

	initOnce sync.Once
	initErr  error
}

// Option defines a functional option for configuring a Module.
type Option func(*Module)

// WithLogger sets the module's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Module) {
		m.logger = logger
	}
}

// WithPolicy overrides the exchange policy derived from the manifest.
func WithPolicy(p policy.ExchangePolicy) Option {
	return func(m *Module) {
		m.policy = p
	}
}

// New builds a module from raw manifest bytes. The behavior table is the
// process-wide slot resolver shared by every module in the process.
func New(manifestData []byte, behaviors *behavior.Table, opts ...Option) (*Module, error) {
	mf, err := manifest.NewYamlParser().Parse(manifestData)
	if err != nil {
		return nil, err
	}
	return NewFromManifest(mf, behaviors, opts...)
}

// NewFromManifest builds a module from an already parsed manifest.
func NewFromManifest(mf *manifest.Manifest, behaviors *behavior.Table, opts ...Option) (*Module, error) {
	if err := mf.Validate(); err != nil {
		return nil, err
	}

	m := &Module{
		manifest:  mf,
		registry:  registry.NewRegistry(mf.Origin),
		behaviors: behaviors,
		hierarchy: worker.NewHierarchy(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.policy == nil {
		p, err := policy.NewGlobPolicy(mf.Accept, &policy.LogDenialHandler{Logger: m.logger})
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", mf.Name, err)
		}
		m.policy = p
	}

	return m, nil
}

// Initialize populates the kind registry and registers this module's
// behavior definitions. It runs exactly once; construction before or
// without initialization fails with an unknown-kind error because the
// registry is still empty. Safe to call from multiple goroutines.
func (m *Module) Initialize() error {
	m.initOnce.Do(func() {
		m.logger.Info("initializing module", "module", m.manifest.Name, "origin", m.manifest.Origin, "abi", m.manifest.ABI)
		m.initErr = worker.RegisterKinds(m.registry, m.behaviors, m.logger)
	})
	return m.initErr
}

// Name returns the module's short name.
func (m *Module) Name() string {
	return m.manifest.Name
}

// Origin returns the label stamped onto everything this module constructs.
func (m *Module) Origin() string {
	return m.manifest.Origin
}

// Manifest returns the module's manifest.
func (m *Module) Manifest() *manifest.Manifest {
	return m.manifest
}

// Registry returns the module's kind registry.
func (m *Module) Registry() *registry.Registry {
	return m.registry
}

// Hierarchy returns this module's allocation of the capability descriptors.
func (m *Module) Hierarchy() worker.Hierarchy {
	return m.hierarchy
}

// Accepts reports whether this module's policy admits a kind across the
// boundary.
func (m *Module) Accepts(desc values.Descriptor) bool {
	return m.policy.Check(desc)
}

// NewSharedWorker constructs a shared-worker through this module's
// registry, typed at the worker refinement.
func (m *Module) NewSharedWorker(value int) (capability.Worker, error) {
	obj, err := m.Construct(m.hierarchy.SharedWorker, map[string]any{"value": value})
	if err != nil {
		return nil, err
	}
	return obj.(capability.Worker), nil
}

// NewSharedObject constructs a shared-worker typed at the root capability,
// for exercising unification immediately after a boundary crossing.
func (m *Module) NewSharedObject(value int) (capability.Object, error) {
	return m.Construct(m.hierarchy.SharedWorker, map[string]any{"value": value})
}

// NewTypedWorkerInt constructs a typed-worker[integer].
func (m *Module) NewTypedWorkerInt(value int) (capability.Worker, error) {
	obj, err := m.Construct(m.hierarchy.TypedWorkerInteger, map[string]any{"value": value})
	if err != nil {
		return nil, err
	}
	return obj.(capability.Worker), nil
}

// NewTypedWorkerText constructs a typed-worker[text].
func (m *Module) NewTypedWorkerText(value string) (capability.Worker, error) {
	obj, err := m.Construct(m.hierarchy.TypedWorkerText, map[string]any{"value": value})
	if err != nil {
		return nil, err
	}
	return obj.(capability.Worker), nil
}

// Construct builds an instance of any registered kind from typed
// arguments. The module initializes itself on first use so no object can
// be constructed before its kind is registered.
func (m *Module) Construct(desc values.Descriptor, args map[string]any) (capability.Object, error) {
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	return m.registry.Construct(desc, args)
}

// ConstructRaw builds an instance from raw JSON arguments. This is the
// data-only construction path the interop surface uses.
func (m *Module) ConstructRaw(desc values.Descriptor, raw []byte) (capability.Object, error) {
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	return m.registry.ConstructRaw(desc, raw)
}

// Descriptor returns this module's allocation of a registered descriptor,
// by canonical key.
func (m *Module) Descriptor(key string) (values.Descriptor, bool) {
	if err := m.Initialize(); err != nil {
		return values.Descriptor{}, false
	}
	return m.registry.Descriptor(key)
}
