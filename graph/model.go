// Package graph implements the DEVS model graph: atomic models, coupled
// models, ports and connections. Pure data and navigation, no simulation
// behaviour — name-keyed maps guarded by a mutex, with explicit
// Clone/CloneEmpty, and coupled-model topology rules (input/output/
// internal connections, exclusive child ownership) mirroring a classic
// hierarchical model-composition scheme.
package graph

import "sync"

// Node is implemented by *AtomicModel and *CoupledModel. It is the Model
// abstraction
type Node interface {
	Name() string
	Parent() *CoupledModel
	setParent(*CoupledModel)
	InputPorts() []string
	OutputPorts() []string
	HasInputPort(string) bool
	HasOutputPort(string) bool
	addInputPort(string)
	addOutputPort(string)
	delInputPort(string)
	delOutputPort(string)
	IsAtomic() bool
}

// base holds the fields common to atomic and coupled models.
type base struct {
	mu sync.RWMutex
	name string
	parent      *CoupledModel
	inputPorts map[string]struct{}
	outputPorts map[string]struct{}
}

func newBase(name string) base {
	return base{
		name:        name,
		inputPorts:  make(map[string]struct{}),
		outputPorts: make(map[string]struct{}),
	}
}

func (b *base) Name() string          { return b.name }
func (b *base) Parent() *CoupledModel { return b.parent }
func (b *base) setParent(p *CoupledModel) { b.parent = p }

func (b *base) InputPorts() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.inputPorts))
	for p := range b.inputPorts {
		out = append(out, p)
	}
	return out
}

func (b *base) OutputPorts() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.outputPorts))
	for p := range b.outputPorts {
		out = append(out, p)
	}
	return out
}

func (b *base) HasInputPort(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.inputPorts[name]
	return ok
}

func (b *base) HasOutputPort(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.outputPorts[name]
	return ok
}

func (b *base) addInputPort(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inputPorts[name] = struct{}{}
}

func (b *base) addOutputPort(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outputPorts[name] = struct{}{}
}

func (b *base) delInputPort(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inputPorts, name)
}

func (b *base) delOutputPort(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.outputPorts, name)
}

// AtomicModel is a leaf behavioural unit bound to one dynamics reference,
// an optional observable, and a set of condition ids.
type AtomicModel struct {
	base
	DynamicsRef string
	Observable string
	Conditions  []string
}

func (m *AtomicModel) IsAtomic() bool { return true }

// CoupledModel is a container of submodels plus the three connection sets
// (input, output, internal).
type CoupledModel struct {
	base
	children map[string]Node

	inputConns map[portRef][]childPortRef // parent input port -> child ports
	outputConns map[childPortRef][]string  // child output port -> parent output ports
	internalConns map[childPortRef][]childPortRef
}

func (m *CoupledModel) IsAtomic() bool { return false }

type portRef struct{ Port string }
type childPortRef struct {
	Model string
	Port string
}

// NewRoot constructs a top-level coupled model with no parent.
func NewRoot(name string) *CoupledModel {
	return newCoupledModel(name)
}

func newCoupledModel(name string) *CoupledModel {
	return &CoupledModel{
		base:          newBase(name),
		children:      make(map[string]Node),
		inputConns:    make(map[portRef][]childPortRef),
		outputConns:   make(map[childPortRef][]string),
		internalConns: make(map[childPortRef][]childPortRef),
	}
}

// Children returns the names of every direct submodel.
func (m *CoupledModel) Children() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.children))
	for n := range m.children {
		out = append(out, n)
	}
	return out
}

// AddAtomicModel adds a new atomic model named name, failing if the name
// is already taken in this parent.
func (m *CoupledModel) AddAtomicModel(name string) (*AtomicModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.children[name]; exists {
		return nil, wrap(ErrDuplicateName, name)
	}
	child := &AtomicModel{base: newBase(name)}
	child.setParent(m)
	m.children[name] = child
	return child, nil
}

// AddCoupledModel adds a new coupled submodel named name.
func (m *CoupledModel) AddCoupledModel(name string) (*CoupledModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.children[name]; exists {
		return nil, wrap(ErrDuplicateName, name)
	}
	child := newCoupledModel(name)
	child.setParent(m)
	m.children[name] = child
	return child, nil
}

// FindModel looks up a direct child by name.
func (m *CoupledModel) FindModel(name string) (Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.children[name]
	return n, ok
}

func wrap(sentinel error, detail string) error {
	return &graphError{sentinel: sentinel, detail: detail}
}

type graphError struct {
	sentinel error
	detail string
}

func (e *graphError) Error() string { return e.sentinel.Error() + ": " + e.detail }
func (e *graphError) Unwrap() error { return e.sentinel }
