// Package typelink links independently built modules into one process and
// gives them a consistent runtime type identity: any module can identify,
// narrow, and dispatch on objects constructed by any other, and duplicate
// free-function definitions collapse to a single effective implementation.
package typelink

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/typelink-dev/typelink-sdk/behavior"
	"github.com/typelink-dev/typelink-sdk/capability"
	"github.com/typelink-dev/typelink-sdk/kind/entities"
	"github.com/typelink-dev/typelink-sdk/kind/values"
	"github.com/typelink-dev/typelink-sdk/module"
)

// Process is the linking context: the set of attached modules plus the
// process-wide behavior table they share. Attachment order is the
// load order that decides behavior slot resolution.
type Process struct {
	behaviors *behavior.Table
	logger    *slog.Logger

	mu      sync.RWMutex
	modules map[string]*module.Module
	order   []string
}

// ProcessOption configures a Process.
type ProcessOption func(*Process)

// WithLogger sets the process logger.
func WithLogger(logger *slog.Logger) ProcessOption {
	return func(p *Process) {
		p.logger = logger
	}
}

// NewProcess creates an empty process.
func NewProcess(opts ...ProcessOption) *Process {
	p := &Process{
		behaviors: behavior.NewTable(),
		modules:   make(map[string]*module.Module),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Behaviors returns the process-wide behavior table.
func (p *Process) Behaviors() *behavior.Table {
	return p.behaviors
}

// Attach links a module into the process. Every already attached module's
// ABI constraint is checked against the newcomer and vice versa; the module
// is then initialized, which registers its kinds and its behavior
// definitions in attachment order.
func (p *Process) Attach(m *module.Module) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := m.Name()
	if _, exists := p.modules[name]; exists {
		return fmt.Errorf("module %q already attached", name)
	}

	for _, existing := range p.modules {
		if err := existing.Manifest().CheckCompatible(m.Manifest()); err != nil {
			return err
		}
		if err := m.Manifest().CheckCompatible(existing.Manifest()); err != nil {
			return err
		}
	}

	if err := m.Initialize(); err != nil {
		return fmt.Errorf("initializing module %q: %w", name, err)
	}

	p.modules[name] = m
	p.order = append(p.order, name)
	p.logger.Info("module attached", "module", name, "origin", m.Origin(), "abi", m.Manifest().ABI)
	return nil
}

// Module returns an attached module by name.
func (p *Process) Module(name string) (*module.Module, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.modules[name]
	return m, ok
}

// Modules returns the attached module names in attachment order.
func (p *Process) Modules() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Exchange constructs an instance in the `from` module and hands the
// reference across the module edge to `to`. The receiving module's policy
// decides whether the kind may cross; the object itself keeps dispatching
// through its origin module's table.
func (p *Process) Exchange(from, to string, kindKey string, args map[string]any) (capability.Object, error) {
	src, ok := p.Module(from)
	if !ok {
		return nil, fmt.Errorf("module %q not attached", from)
	}
	dst, ok := p.Module(to)
	if !ok {
		return nil, fmt.Errorf("module %q not attached", to)
	}

	desc, ok := src.Descriptor(kindKey)
	if !ok {
		d := unknownDescriptor(kindKey)
		return nil, &entities.UnknownKindError{Descriptor: d, Origin: src.Origin()}
	}

	if !dst.Accepts(desc) {
		return nil, &entities.ExchangeDeniedError{
			Descriptor: desc,
			Receiver:   dst.Name(),
			Reason:     "kind matches no allowed pattern",
		}
	}

	obj, err := src.Construct(desc, args)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("object exchanged", "from", from, "to", to, "kind", desc.Key())
	return obj, nil
}

// unknownDescriptor reconstructs a descriptor value for error reporting on
// keys that name no registered kind.
func unknownDescriptor(key string) values.Descriptor {
	name, paramKey, err := values.ParseKey(key)
	if err != nil {
		return values.Descriptor{}
	}
	if paramKey == "" {
		d, err := values.NewDescriptor(name, nil)
		if err != nil {
			return values.Descriptor{}
		}
		return d
	}
	d, err := values.NewParameterizedDescriptor(name, paramKey, nil)
	if err != nil {
		return values.Descriptor{}
	}
	return d
}
