package config

import (
	"fmt"

	"github.com/vle-sim/vle/coordinator"
	"github.com/vle-sim/vle/dynamics"
	"github.com/vle-sim/vle/graph"
	"github.com/vle-sim/vle/observation"
)

var triggerBits = map[string]observation.TriggerSet{
	"timed":     observation.Timed,
	"internal":  observation.Internal,
	"external":  observation.External,
	"confluent": observation.Confluent,
	"output":    observation.Output,
	"finish":    observation.Finish,
}

// builder carries the id-indexed lookup tables shared across the whole
// model-tree walk.
type builder struct {
	dynByID map[string]DynamicsEntry
	condByID map[string]ConditionEntry
	obsByID map[string]ObservableEntry
	views map[string]*observation.View
	bindings map[string]coordinator.ModelBinding
}

// Build turns a parsed Project into the graph, bindings and view registry
// the coordinator and observation packages need mapping
// from project description to running kernel.
func Build(p *Project) (*graph.CoupledModel, map[string]coordinator.ModelBinding, *observation.Registry, error) {
	b := &builder{
		dynByID:  make(map[string]DynamicsEntry, len(p.Dynamics)),
		condByID: make(map[string]ConditionEntry, len(p.Conditions)),
		obsByID:  make(map[string]ObservableEntry, len(p.Observables)),
		views:    make(map[string]*observation.View, len(p.Views)),
		bindings: make(map[string]coordinator.ModelBinding),
	}
	for _, d := range p.Dynamics {
		b.dynByID[d.ID] = d
	}
	for _, c := range p.Conditions {
		b.condByID[c.ID] = c
	}
	for _, o := range p.Observables {
		b.obsByID[o.ID] = o
	}

	outByName := make(map[string]OutputEntry, len(p.Outputs))
	for _, o := range p.Outputs {
		outByName[o.Name] = o
	}

	registry := observation.NewRegistry()
	for _, v := range p.Views {
		view, plugin, err := b.buildView(v, outByName)
		if err != nil {
			return nil, nil, nil, err
		}
		registry.AddView(view, plugin)
		b.views[v.Name] = view
		if v.Enabled != nil && !*v.Enabled {
			registry.Disable(v.Name)
		}
	}

	root := graph.NewRoot(p.Model.Name)
	if err := b.buildCoupled(p.Model, root, ""); err != nil {
		return nil, nil, nil, err
	}
	return root, b.bindings, registry, nil
}

func (b *builder) buildView(v ViewEntry, outByName map[string]OutputEntry) (*observation.View, observation.OutputPlugin, error) {
	var triggers observation.TriggerSet
	for _, name := range v.Triggers {
		bit, ok := triggerBits[name]
		if !ok {
			return nil, nil, fmt.Errorf("view %q: %w: %s", v.Name, ErrUnknownTrigger, name)
		}
		triggers |= bit
	}
	if triggers.Has(observation.Timed) && v.Timestep == nil {
		return nil, nil, fmt.Errorf("view %q: %w", v.Name, ErrMissingTimestep)
	}
	outEntry, ok := outByName[v.Output]
	if !ok {
		return nil, nil, fmt.Errorf("view %q: %w: %s", v.Name, ErrUnknownOutput, v.Output)
	}
	plugin, err := buildPlugin(outEntry)
	if err != nil {
		return nil, nil, err
	}
	var timestep int64
	if v.Timestep != nil {
		timestep = *v.Timestep
	}
	return observation.NewView(v.Name, v.Output, triggers, timestep), plugin, nil
}

func buildPlugin(e OutputEntry) (observation.OutputPlugin, error) {
	switch e.Plugin {
	case "matrix", "":
		return observation.NewMatrixPlugin(e.Location), nil
	case "prometheus":
		return observation.NewPrometheusPlugin(e.Location), nil
	default:
		return nil, fmt.Errorf("output %q: unknown built-in plugin %q (shared-library output plugins resolve through dynamics.Resolver.ResolveOov, not here)", e.Name, e.Plugin)
	}
}

// buildCoupled populates level (already constructed by the caller) with
// the ports, children and connections described by n, recursing into
// coupled children and registering atomic children's bindings.
func (b *builder) buildCoupled(n ModelNode, level *graph.CoupledModel, levelPath string) error {
	for _, p := range n.Inputs {
		if err := level.AddInputPort(p); err != nil {
			return err
		}
	}
	for _, p := range n.Outputs {
		if err := level.AddOutputPort(p); err != nil {
			return err
		}
	}

	children := make(map[string]graph.Node, len(n.Children))
	for _, child := range n.Children {
		if child.Atomic {
			am, err := level.AddAtomicModel(child.Name)
			if err != nil {
				return err
			}
			if err := b.populateAtomic(child, am, levelPath); err != nil {
				return err
			}
			children[child.Name] = am
			continue
		}
		cm, err := level.AddCoupledModel(child.Name)
		if err != nil {
			return err
		}
		children[child.Name] = cm
		if err := b.buildCoupled(child, cm, joinPath(levelPath, child.Name)); err != nil {
			return err
		}
	}

	for _, c := range n.InputConns {
		if err := level.AddInputConnection(c.ParentPort, children[c.Child], c.ChildPort); err != nil {
			return err
		}
	}
	for _, c := range n.OutputConns {
		if err := level.AddOutputConnection(children[c.Child], c.ChildPort, c.ParentPort); err != nil {
			return err
		}
	}
	for _, c := range n.InternalConns {
		if err := level.AddInternalConnection(children[c.FromChild], c.FromPort, children[c.ToChild], c.ToPort); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) populateAtomic(n ModelNode, am *graph.AtomicModel, levelPath string) error {
	for _, p := range n.Inputs {
		if err := am.AddInputPort(p); err != nil {
			return err
		}
	}
	for _, p := range n.Outputs {
		if err := am.AddOutputPort(p); err != nil {
			return err
		}
	}
	am.Observable = n.Observable
	am.Conditions = n.Conditions

	path := joinPath(levelPath, n.Name)
	entry, ok := b.dynByID[n.Dynamics]
	if !ok {
		return fmt.Errorf("model %q: %w: %s", path, ErrUnknownDynamics, n.Dynamics)
	}
	am.DynamicsRef = entry.Library

	conditions := make(map[string]interface{})
	for _, condID := range n.Conditions {
		entry, ok := b.condByID[condID]
		if !ok {
			continue
		}
		for port, vals := range entry.Ports {
			conditions[port] = vals
		}
	}
	b.bindings[path] = coordinator.ModelBinding{
		Ref:        dynamics.Reference{Package: entry.Package, Library: entry.Library, Kind: dynamics.KindUnspecified},
		Conditions: conditions,
	}

	if n.Observable != "" {
		obsEntry, ok := b.obsByID[n.Observable]
		if !ok {
			return fmt.Errorf("model %q: %w: %s", path, ErrUnknownObservable, n.Observable)
		}
		for port, viewNames := range obsEntry.Ports {
			for _, viewName := range viewNames {
				view, ok := b.views[viewName]
				if !ok {
					return fmt.Errorf("observable %q: %w: %s", n.Observable, ErrUnknownView, viewName)
				}
				view.Bind(path, port)
			}
		}
	}
	return nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "," + name
}
