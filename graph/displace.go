package graph

import "fmt"

// Displace moves a subset of sibling children from m to newParent,
// preserving as much topology as possible:
//   - internal connections among the displaced set are preserved verbatim;
//   - internal connections crossing the m/newParent boundary are rebuilt
//     by synthesizing input/output ports on newParent and on m, deduplicated
//     by (source-model, source-port) -> port-name, with numeric suffixes on
//     collision;
//   - m's own boundary connections (input connections forwarding down into
//     a displaced model, output connections draining a displaced model) are
//     rebuilt the same way when newParent is itself a child of m, chaining
//     the connection through a synthesized port on newParent; otherwise
//     newParent is unreachable from m and the entry is dropped rather than
//     left dangling on a child name m no longer has.
func (m *CoupledModel) Displace(names []string, newParent *CoupledModel) error {
	if newParent == nil || newParent == m {
		return wrap(ErrInvalidSourceDst, "newParent")
	}
	moving := make(map[string]Node, len(names))
	for _, name := range names {
		n, ok := m.FindModel(name)
		if !ok {
			return wrap(ErrNoSuchModel, name)
		}
		moving[name] = n
	}

	synth := newPortSynthesizer()

	m.mu.Lock()
	newParent.mu.Lock()

	newParentIsChild := newParent.parent == m

	// Internal connections among the displaced set move verbatim; those
	// crossing the boundary are rebuilt through synthesized ports.
	for src, targets := range m.internalConns {
		srcMoving := isMoving(moving, src.Model)
		var kept []childPortRef
		for _, dst := range targets {
			dstMoving := isMoving(moving, dst.Model)
			switch {
			case srcMoving && dstMoving:
				newParent.internalConns[src] = append(newParent.internalConns[src], dst)
			case srcMoving && !dstMoving:
				// crossing: displaced producer -> sibling left behind.
				portName := synth.outputPort(src)
				newParent.outputPorts[portName] = struct{}{}
				newParent.outputConns[src] = append(newParent.outputConns[src], portName)
				m.inputPorts[portName] = struct{}{}
				m.inputConns[portRef{Port: portName}] = append(m.inputConns[portRef{Port: portName}], dst)
			case !srcMoving && dstMoving:
				// crossing: sibling left behind -> displaced consumer.
				portName := synth.inputPort(dst)
				m.outputPorts[portName] = struct{}{}
				m.outputConns[src] = append(m.outputConns[src], portName)
				newParent.inputPorts[portName] = struct{}{}
				newParent.inputConns[portRef{Port: portName}] = append(newParent.inputConns[portRef{Port: portName}], dst)
			default:
				kept = append(kept, dst)
			}
		}
		if !srcMoving {
			m.internalConns[src] = kept
		} else {
			delete(m.internalConns, src)
		}
	}

	// m's own input connections that forward down into a displaced
	// model's input port. The target no longer resolves once the model
	// moves out of m.children, so either chain it through a synthesized
	// port on newParent (when newParent is a child of m and so itself a
	// valid target) or drop it.
	for key, targets := range m.inputConns {
		var kept []childPortRef
		for _, dst := range targets {
			if !isMoving(moving, dst.Model) {
				kept = append(kept, dst)
				continue
			}
			if newParentIsChild {
				portName := synth.inputPort(dst)
				newParent.inputPorts[portName] = struct{}{}
				newParent.inputConns[portRef{Port: portName}] = append(newParent.inputConns[portRef{Port: portName}], dst)
				kept = append(kept, childPortRef{Model: newParent.Name(), Port: portName})
			}
		}
		if len(kept) > 0 {
			m.inputConns[key] = kept
		} else {
			delete(m.inputConns, key)
		}
	}

	// m's own output connections that drain a displaced model's output
	// port. Mirror image of the above.
	for key, dstPorts := range m.outputConns {
		if !isMoving(moving, key.Model) {
			continue
		}
		delete(m.outputConns, key)
		if !newParentIsChild {
			continue
		}
		portName := synth.outputPort(key)
		newParent.outputPorts[portName] = struct{}{}
		newParent.outputConns[key] = append(newParent.outputConns[key], portName)
		newKey := childPortRef{Model: newParent.Name(), Port: portName}
		m.outputConns[newKey] = append(m.outputConns[newKey], dstPorts...)
	}

	for name, n := range moving {
		delete(m.children, name)
		newParent.children[name] = n
		n.setParent(newParent)
	}

	newParent.mu.Unlock()
	m.mu.Unlock()
	return nil
}

func isMoving(moving map[string]Node, name string) bool {
	_, ok := moving[name]
	return ok
}

// portSynthesizer deduplicates synthesized port names by (model, port),
// appending a numeric suffix on collision.
type portSynthesizer struct {
	seen map[childPortRef]string
	names map[string]int
}

func newPortSynthesizer() *portSynthesizer {
	return &portSynthesizer{seen: make(map[childPortRef]string), names: make(map[string]int)}
}

func (s *portSynthesizer) outputPort(src childPortRef) string { return s.name(src) }
func (s *portSynthesizer) inputPort(dst childPortRef) string  { return s.name(dst) }

func (s *portSynthesizer) name(ref childPortRef) string {
	if existing, ok := s.seen[ref]; ok {
		return existing
	}
	base := fmt.Sprintf("%s_%s", ref.Model, ref.Port)
	name := base
	if n, exists := s.names[base]; exists {
		name = fmt.Sprintf("%s_%d", base, n+1)
		s.names[base] = n + 1
	} else {
		s.names[base] = 0
	}
	s.seen[ref] = name
	return name
}
