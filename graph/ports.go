package graph

// AddInputPort adds an input port to an atomic model.
func (m *AtomicModel) AddInputPort(name string) error {
	if m.HasInputPort(name) {
		return wrap(ErrDuplicatePort, name)
	}
	m.addInputPort(name)
	return nil
}

// AddOutputPort adds an output port to an atomic model.
func (m *AtomicModel) AddOutputPort(name string) error {
	if m.HasOutputPort(name) {
		return wrap(ErrDuplicatePort, name)
	}
	m.addOutputPort(name)
	return nil
}

// DelInputPort removes an input port, transitively removing every
// connection that touches it.
func (m *AtomicModel) DelInputPort(name string) error {
	if !m.HasInputPort(name) {
		return wrap(ErrNoSuchPort, name)
	}
	m.delInputPort(name)
	if p := m.Parent(); p != nil {
		p.scrubChildPort(m.Name(), name, true)
	}
	return nil
}

// DelOutputPort removes an output port, transitively removing every
// connection that touches it.
func (m *AtomicModel) DelOutputPort(name string) error {
	if !m.HasOutputPort(name) {
		return wrap(ErrNoSuchPort, name)
	}
	m.delOutputPort(name)
	if p := m.Parent(); p != nil {
		p.scrubChildPort(m.Name(), name, false)
	}
	return nil
}

// AddInputPort adds an input port to a coupled model.
func (m *CoupledModel) AddInputPort(name string) error {
	if m.HasInputPort(name) {
		return wrap(ErrDuplicatePort, name)
	}
	m.addInputPort(name)
	return nil
}

// AddOutputPort adds an output port to a coupled model.
func (m *CoupledModel) AddOutputPort(name string) error {
	if m.HasOutputPort(name) {
		return wrap(ErrDuplicatePort, name)
	}
	m.addOutputPort(name)
	return nil
}

// DelInputPort removes a coupled model's own input port, dropping every
// input connection rooted at it, then cascades to the parent (a coupled
// model's ports may themselves be connection endpoints one level up).
func (m *CoupledModel) DelInputPort(name string) error {
	if !m.HasInputPort(name) {
		return wrap(ErrNoSuchPort, name)
	}
	m.mu.Lock()
	delete(m.inputConns, portRef{Port: name})
	m.mu.Unlock()
	m.delInputPort(name)
	if p := m.Parent(); p != nil {
		p.scrubChildPort(m.Name(), name, true)
	}
	return nil
}

// DelOutputPort removes a coupled model's own output port, dropping every
// output connection that targets it.
func (m *CoupledModel) DelOutputPort(name string) error {
	if !m.HasOutputPort(name) {
		return wrap(ErrNoSuchPort, name)
	}
	m.mu.Lock()
	for key, dsts := range m.outputConns {
		m.outputConns[key] = removeString(dsts, name)
	}
	m.mu.Unlock()
	m.delOutputPort(name)
	if p := m.Parent(); p != nil {
		p.scrubChildPort(m.Name(), name, false)
	}
	return nil
}

// scrubChildPort removes every connection entry in m that references
// (childName, port) as an endpoint, following the deletion of that port
// on the child itself.
func (m *CoupledModel) scrubChildPort(childName, port string, isInput bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := childPortRef{Model: childName, Port: port}

	if isInput {
		for key, dsts := range m.inputConns {
			m.inputConns[key] = removeChildPortRef(dsts, ref)
		}
		delete(m.internalConns, ref) // ref was itself a destination key? no - internalConns keyed by source
		for key, dsts := range m.internalConns {
			m.internalConns[key] = removeChildPortRef(dsts, ref)
		}
	} else {
		delete(m.outputConns, ref)
		delete(m.internalConns, ref)
	}
}

func removeString(xs []string, target string) []string {
	out := xs[:0]
	for _, x := range xs {
		if x != target {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func removeChildPortRef(xs []childPortRef, target childPortRef) []childPortRef {
	out := xs[:0]
	for _, x := range xs {
		if x != target {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
