package graph

// Rename changes a child's name, updating the parent's child map and every
// connection endpoint that references it. rename(m, m.Name()) is a no-op;
// rename followed by the inverse rename is the identity.
func (m *CoupledModel) Rename(child Node, newName string) error {
	if child == nil || child.Parent() != m {
		return wrap(ErrNotAChild, childName(child))
	}
	oldName := child.Name()
	if oldName == newName {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.children[newName]; exists {
		return wrap(ErrDuplicateName, newName)
	}

	delete(m.children, oldName)
	m.children[newName] = child
	renameNode(child, newName)

	for key, targets := range m.inputConns {
		m.inputConns[key] = renameTargets(targets, oldName, newName)
	}
	renamed := make(map[childPortRef][]string, len(m.outputConns))
	for key, dsts := range m.outputConns {
		renamed[renameKey(key, oldName, newName)] = dsts
	}
	m.outputConns = renamed

	renamedInternal := make(map[childPortRef][]childPortRef, len(m.internalConns))
	for key, targets := range m.internalConns {
		renamedInternal[renameKey(key, oldName, newName)] = renameTargets(targets, oldName, newName)
	}
	m.internalConns = renamedInternal

	return nil
}

func renameTargets(targets []childPortRef, oldName, newName string) []childPortRef {
	out := make([]childPortRef, len(targets))
	for i, t := range targets {
		out[i] = renameKey(t, oldName, newName)
	}
	return out
}

func renameKey(k childPortRef, oldName, newName string) childPortRef {
	if k.Model == oldName {
		k.Model = newName
	}
	return k
}

// renameNode sets the name field on whichever concrete Node type child is.
func renameNode(child Node, newName string) {
	switch n := child.(type) {
	case *AtomicModel:
		n.name = newName
	case *CoupledModel:
		n.name = newName
	}
}
