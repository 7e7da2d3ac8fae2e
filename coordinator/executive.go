package coordinator

import (
	"strings"

	"github.com/vle-sim/vle/dynamics"
	"github.com/vle-sim/vle/graph"
	"github.com/vle-sim/vle/simulator"
)

// editKind discriminates the deferred edits (Coordinator.pending) an executive may
// submit during one step.
type editKind int

const (
	editAddModel editKind = iota
	editDelModel
	editAddConnection
	editDelConnection
	editAddInputPort
	editAddOutputPort
	editDelInputPort
	editDelOutputPort
)

type graphEdit struct {
	kind editKind

	name, dynamicsRef string
	inputPorts, outputPorts    []string
	connKind simulator.ConnectionKind
	srcModel, srcPort string
	dstModel, dstPort string
	model, port string

	parent     *graph.CoupledModel
	parentPath string
}

// executiveCtx is the simulator.ExecutiveContext bound to one executive's
// parent coupled model. Every call appends a deferred edit rather than
// mutating the graph immediately — edits are applied at the step
// boundary.
type executiveCtx struct {
	c          *Coordinator
	parent     *graph.CoupledModel
	parentPath string
}

func (e *executiveCtx) enqueue(edit graphEdit) {
	edit.parent = e.parent
	edit.parentPath = e.parentPath
	e.c.pending = append(e.c.pending, edit)
}

func (e *executiveCtx) AddModel(name, dynamicsRef string, inputPorts, outputPorts []string) error {
	e.enqueue(graphEdit{kind: editAddModel, name: name, dynamicsRef: dynamicsRef, inputPorts: inputPorts, outputPorts: outputPorts})
	return nil
}

func (e *executiveCtx) DelModel(name string) error {
	e.enqueue(graphEdit{kind: editDelModel, name: name})
	return nil
}

func (e *executiveCtx) AddConnection(kind simulator.ConnectionKind, srcModel, srcPort, dstModel, dstPort string) error {
	e.enqueue(graphEdit{kind: editAddConnection, connKind: kind, srcModel: srcModel, srcPort: srcPort, dstModel: dstModel, dstPort: dstPort})
	return nil
}

func (e *executiveCtx) RemoveConnection(kind simulator.ConnectionKind, srcModel, srcPort, dstModel, dstPort string) error {
	e.enqueue(graphEdit{kind: editDelConnection, connKind: kind, srcModel: srcModel, srcPort: srcPort, dstModel: dstModel, dstPort: dstPort})
	return nil
}

func (e *executiveCtx) AddInputPort(model, port string) error {
	e.enqueue(graphEdit{kind: editAddInputPort, model: model, port: port})
	return nil
}

func (e *executiveCtx) AddOutputPort(model, port string) error {
	e.enqueue(graphEdit{kind: editAddOutputPort, model: model, port: port})
	return nil
}

func (e *executiveCtx) DelInputPort(model, port string) error {
	e.enqueue(graphEdit{kind: editDelInputPort, model: model, port: port})
	return nil
}

func (e *executiveCtx) DelOutputPort(model, port string) error {
	e.enqueue(graphEdit{kind: editDelOutputPort, model: model, port: port})
	return nil
}

var _ simulator.ExecutiveContext = (*executiveCtx)(nil)

// applyPendingEdits drains the deferred edit batch accumulated during step
// now, applying each to the graph and the flattened atomic set, and
// invalidating the routing cache only for the coupled-model levels that
// were actually touched.
func (c *Coordinator) applyPendingEdits(now simulator.Time) error {
	edits := c.pending
	c.pending = nil
	touched := make(map[string]struct{})

	for _, e := range edits {
		touched[e.parentPath] = struct{}{}
		switch e.kind {
		case editAddModel:
			if err := c.applyAddModel(e, now); err != nil {
				return err
			}
		case editDelModel:
			if err := c.applyDelModel(e, now); err != nil {
				return err
			}
		case editAddConnection:
			if err := c.applyAddConnection(e); err != nil {
				return err
			}
		case editDelConnection:
			if err := c.applyDelConnection(e); err != nil {
				return err
			}
		case editAddInputPort:
			if n, ok := e.parent.FindModel(e.model); ok {
				_ = addPort(n, e.port, true)
			}
		case editAddOutputPort:
			if n, ok := e.parent.FindModel(e.model); ok {
				_ = addPort(n, e.port, false)
			}
		case editDelInputPort:
			if n, ok := e.parent.FindModel(e.model); ok {
				_ = delPort(n, e.port, true)
			}
		case editDelOutputPort:
			if n, ok := e.parent.FindModel(e.model); ok {
				_ = delPort(n, e.port, false)
			}
		}
	}

	for level := range touched {
		c.InvalidateLevel(level)
	}
	return nil
}

func addPort(n graph.Node, port string, isInput bool) error {
	switch m := n.(type) {
	case *graph.AtomicModel:
		if isInput {
			return m.AddInputPort(port)
		}
		return m.AddOutputPort(port)
	case *graph.CoupledModel:
		if isInput {
			return m.AddInputPort(port)
		}
		return m.AddOutputPort(port)
	}
	return nil
}

func delPort(n graph.Node, port string, isInput bool) error {
	switch m := n.(type) {
	case *graph.AtomicModel:
		if isInput {
			return m.DelInputPort(port)
		}
		return m.DelOutputPort(port)
	case *graph.CoupledModel:
		if isInput {
			return m.DelInputPort(port)
		}
		return m.DelOutputPort(port)
	}
	return nil
}

func (c *Coordinator) applyAddModel(e graphEdit, now simulator.Time) error {
	child, err := e.parent.AddAtomicModel(e.name)
	if err != nil {
		return err
	}
	for _, p := range e.inputPorts {
		if err := child.AddInputPort(p); err != nil {
			return err
		}
	}
	for _, p := range e.outputPorts {
		if err := child.AddOutputPort(p); err != nil {
			return err
		}
	}

	pkg, lib, found := strings.Cut(e.dynamicsRef, ":")
	if !found {
		pkg, lib = "", pkg
	}
	ref := dynamics.Reference{Package: pkg, Library: lib, Kind: dynamics.KindUnspecified}
	factory, _, err := c.resolver.Resolve(ref)
	if err != nil {
		return err
	}
	d := factory(dynamics.InitArgs{ModelName: e.name, RNG: c.rng})

	path := joinPath(e.parentPath, e.name)
	c.nextID++
	sim := simulator.New(c.nextID, path, d, c.log)
	entry := &atomicEntry{path: path, parentPath: e.parentPath, node: child, parent: e.parent, sim: sim}
	c.byPath[path] = entry
	c.byID[sim.ID] = entry

	if exec, ok := d.(simulator.Executive); ok {
		exec.BindExecutive(&executiveCtx{c: c, parent: e.parent, parentPath: e.parentPath})
	}

	sim.Init(now)
	c.pushIfFinite(sim)
	for _, p := range child.OutputPorts() {
		c.observer.OnNewObservable(path, p)
	}
	return nil
}

func (c *Coordinator) applyDelModel(e graphEdit, now simulator.Time) error {
	path := joinPath(e.parentPath, e.name)
	entry, ok := c.byPath[path]
	if !ok {
		return ErrUnknownModel
	}
	for _, p := range entry.node.OutputPorts() {
		c.observer.OnDelObservable(path, p)
	}
	for _, p := range entry.node.InputPorts() {
		c.observer.OnDelObservable(path, p)
	}
	c.timed.Remove(entry.sim.ID)
	c.external.CancelDestination(entry.sim.ID)
	entry.sim.Finish()
	delete(c.byPath, path)
	delete(c.byID, entry.sim.ID)
	return e.parent.DeleteModel(e.name)
}

func (c *Coordinator) applyAddConnection(e graphEdit) error {
	switch e.connKind {
	case simulator.ConnectionInput:
		child, ok := e.parent.FindModel(e.dstModel)
		if !ok {
			return ErrUnknownModel
		}
		return e.parent.AddInputConnection(e.srcPort, child, e.dstPort)
	case simulator.ConnectionOutput:
		child, ok := e.parent.FindModel(e.srcModel)
		if !ok {
			return ErrUnknownModel
		}
		return e.parent.AddOutputConnection(child, e.srcPort, e.dstPort)
	case simulator.ConnectionInternal:
		a, ok := e.parent.FindModel(e.srcModel)
		if !ok {
			return ErrUnknownModel
		}
		b, ok := e.parent.FindModel(e.dstModel)
		if !ok {
			return ErrUnknownModel
		}
		return e.parent.AddInternalConnection(a, e.srcPort, b, e.dstPort)
	}
	return nil
}

func (c *Coordinator) applyDelConnection(e graphEdit) error {
	switch e.connKind {
	case simulator.ConnectionInput:
		child, ok := e.parent.FindModel(e.dstModel)
		if !ok {
			return ErrUnknownModel
		}
		return e.parent.DelInputConnection(e.srcPort, child, e.dstPort)
	case simulator.ConnectionOutput:
		child, ok := e.parent.FindModel(e.srcModel)
		if !ok {
			return ErrUnknownModel
		}
		return e.parent.DelOutputConnection(child, e.srcPort, e.dstPort)
	case simulator.ConnectionInternal:
		a, ok := e.parent.FindModel(e.srcModel)
		if !ok {
			return ErrUnknownModel
		}
		b, ok := e.parent.FindModel(e.dstModel)
		if !ok {
			return ErrUnknownModel
		}
		return e.parent.DelInternalConnection(a, e.srcPort, b, e.dstPort)
	}
	return nil
}
