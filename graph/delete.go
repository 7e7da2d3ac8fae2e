package graph

// DeleteModel removes a direct child (atomic or coupled) from m, dropping
// every connection that touched it. Deleting a coupled child recursively
// drops its own descendants (its owning coupled model deletes them), per
// exclusive-ownership rule and §8 scenario 6.
func (m *CoupledModel) DeleteModel(name string) error {
	m.mu.Lock()
	child, ok := m.children[name]
	if !ok {
		m.mu.Unlock()
		return wrap(ErrNotAChild, name)
	}
	delete(m.children, name)
	m.mu.Unlock()

	for key, targets := range m.inputConns {
		m.inputConns[key] = filterChildRefs(targets, name)
	}
	for key := range m.outputConns {
		if key.Model == name {
			delete(m.outputConns, key)
		}
	}
	for key, targets := range m.internalConns {
		if key.Model == name {
			delete(m.internalConns, key)
			continue
		}
		m.internalConns[key] = filterChildRefs(targets, name)
	}

	child.setParent(nil)
	return nil
}

func filterChildRefs(targets []childPortRef, modelName string) []childPortRef {
	out := targets[:0]
	for _, t := range targets {
		if t.Model != modelName {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
