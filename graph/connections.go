package graph

import "fmt"

// AddInputConnection wires a parent input port to a child's input port:
// (parent input port) → (child, child input port)
func (m *CoupledModel) AddInputConnection(srcPort string, childModel Node, childPort string) error {
	if !m.HasInputPort(srcPort) {
		return wrap(ErrNoSuchPort, m.Name()+"."+srcPort)
	}
	if childModel == nil || childModel.Parent() != m {
		return wrap(ErrNotAChild, childName(childModel))
	}
	if !childModel.HasInputPort(childPort) {
		return wrap(ErrNoSuchPort, childModel.Name()+"."+childPort)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := portRef{Port: srcPort}
	target := childPortRef{Model: childModel.Name(), Port: childPort}
	for _, t := range m.inputConns[key] {
		if t == target {
			return wrap(ErrDuplicateEdge, fmt.Sprintf("%s -> %s.%s", srcPort, target.Model, target.Port))
		}
	}
	m.inputConns[key] = append(m.inputConns[key], target)
	return nil
}

// AddOutputConnection wires a child's output port to a parent output port:
// (child, child output port) → (parent output port).
func (m *CoupledModel) AddOutputConnection(childModel Node, childPort, dstPort string) error {
	if childModel == nil || childModel.Parent() != m {
		return wrap(ErrNotAChild, childName(childModel))
	}
	if !childModel.HasOutputPort(childPort) {
		return wrap(ErrNoSuchPort, childModel.Name()+"."+childPort)
	}
	if !m.HasOutputPort(dstPort) {
		return wrap(ErrNoSuchPort, m.Name()+"."+dstPort)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := childPortRef{Model: childModel.Name(), Port: childPort}
	for _, d := range m.outputConns[key] {
		if d == dstPort {
			return wrap(ErrDuplicateEdge, fmt.Sprintf("%s.%s -> %s", key.Model, key.Port, dstPort))
		}
	}
	m.outputConns[key] = append(m.outputConns[key], dstPort)
	return nil
}

// AddInternalConnection wires sibling A's output port to sibling B's input
// port. Neither A nor B may be the coupled model itself (no self-loop).
func (m *CoupledModel) AddInternalConnection(modelA Node, portA string, modelB Node, portB string) error {
	if modelA == nil || modelA.Parent() != m || modelB == nil || modelB.Parent() != m {
		return wrap(ErrNotAChild, "")
	}
	if modelA == modelB {
		return wrap(ErrSelfLoop, modelA.Name())
	}
	if !modelA.HasOutputPort(portA) {
		return wrap(ErrNoSuchPort, modelA.Name()+"."+portA)
	}
	if !modelB.HasInputPort(portB) {
		return wrap(ErrNoSuchPort, modelB.Name()+"."+portB)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	src := childPortRef{Model: modelA.Name(), Port: portA}
	dst := childPortRef{Model: modelB.Name(), Port: portB}
	for _, d := range m.internalConns[src] {
		if d == dst {
			return wrap(ErrDuplicateEdge, fmt.Sprintf("%s.%s -> %s.%s", src.Model, src.Port, dst.Model, dst.Port))
		}
	}
	m.internalConns[src] = append(m.internalConns[src], dst)
	return nil
}

// DelInputConnection removes a previously-added input connection.
func (m *CoupledModel) DelInputConnection(srcPort string, childModel Node, childPort string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := portRef{Port: srcPort}
	target := childPortRef{Model: childName(childModel), Port: childPort}
	before := m.inputConns[key]
	after := removeChildPortRef(append([]childPortRef(nil), before...), target)
	if len(after) == len(before) {
		return wrap(ErrNoSuchEdge, fmt.Sprintf("%s -> %s.%s", srcPort, target.Model, target.Port))
	}
	m.inputConns[key] = after
	return nil
}

// DelOutputConnection removes a previously-added output connection.
func (m *CoupledModel) DelOutputConnection(childModel Node, childPort, dstPort string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := childPortRef{Model: childName(childModel), Port: childPort}
	before := m.outputConns[key]
	after := removeString(append([]string(nil), before...), dstPort)
	if len(after) == len(before) {
		return wrap(ErrNoSuchEdge, fmt.Sprintf("%s.%s -> %s", key.Model, key.Port, dstPort))
	}
	m.outputConns[key] = after
	return nil
}

// DelInternalConnection removes a previously-added internal connection.
func (m *CoupledModel) DelInternalConnection(modelA Node, portA string, modelB Node, portB string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := childPortRef{Model: childName(modelA), Port: portA}
	dst := childPortRef{Model: childName(modelB), Port: portB}
	before := m.internalConns[src]
	after := removeChildPortRef(append([]childPortRef(nil), before...), dst)
	if len(after) == len(before) {
		return wrap(ErrNoSuchEdge, fmt.Sprintf("%s.%s -> %s.%s", src.Model, src.Port, dst.Model, dst.Port))
	}
	m.internalConns[src] = after
	return nil
}

// InputTargets returns the (child, child input port) destinations wired to
// a parent input port.
func (m *CoupledModel) InputTargets(srcPort string) []childPortRef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]childPortRef(nil), m.inputConns[portRef{Port: srcPort}]...)
}

// OutputTargets returns the parent output ports a child's output port
// is wired to.
func (m *CoupledModel) OutputTargets(childModel, childPort string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.outputConns[childPortRef{Model: childModel, Port: childPort}]...)
}

// InternalTargets returns the (sibling, sibling input port) destinations
// wired to a child's output port via an internal connection.
func (m *CoupledModel) InternalTargets(childModel, childPort string) []childPortRef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]childPortRef(nil), m.internalConns[childPortRef{Model: childModel, Port: childPort}]...)
}

func childName(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name()
}
