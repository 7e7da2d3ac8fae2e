package observation

import (
	"github.com/vle-sim/vle/coordinator"
	"github.com/vle-sim/vle/simulator"
)

// Registry owns every view of a run and forwards the coordinator's
// lifecycle notifications to them, satisfying coordinator.Observer. It
// is attached to its Coordinator after both are constructed (the
// Coordinator needs an Observer at construction time; the Registry needs
// the Coordinator to query observation() and schedule timed views).
type Registry struct {
	views map[string]*View
	plugins map[string]OutputPlugin // keyed by view name
	coord    *coordinator.Coordinator
	matrices map[string][]Row
}

// NewRegistry constructs an empty view registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string]*View), plugins: make(map[string]OutputPlugin)}
}

// Attach binds the Registry to the Coordinator it observes. Must be
// called before Coordinator.Init.
func (r *Registry) Attach(c *coordinator.Coordinator) { r.coord = c }

// AddView registers a view, binding it to the given output plugin.
func (r *Registry) AddView(v *View, plugin OutputPlugin) {
	r.views[v.Name] = v
	r.plugins[v.Name] = plugin
}

// Disable turns off a view: it keeps receiving onNewObservable but its
// onValue/finish calls are skipped.
func (r *Registry) Disable(name string) {
	if v, ok := r.views[name]; ok {
		v.Enabled = false
	}
}

// Enable re-activates a previously disabled view.
func (r *Registry) Enable(name string) {
	if v, ok := r.views[name]; ok {
		v.Enabled = true
	}
}

// ScheduleInitial pushes every timed view's first firing into V,
// at t0.
func (r *Registry) ScheduleInitial(t0 simulator.Time) {
	for _, v := range r.views {
		if v.Triggers.Has(Timed) {
			r.coord.ScheduleView(v.Name, t0)
		}
	}
}

func (r *Registry) OnNewObservable(simPath, port string) {
	for name, v := range r.views {
		for _, b := range v.bindings {
			if b.SimPath == simPath && b.Port == port {
				r.plugins[name].OnNewObservable(simPath, port)
			}
		}
	}
}

func (r *Registry) OnDelObservable(simPath, port string) {
	for name, v := range r.views {
		for _, b := range v.bindings {
			if b.SimPath == simPath && b.Port == port {
				r.plugins[name].OnDelObservable(simPath, port)
			}
		}
	}
}

func (r *Registry) OnTimed(now simulator.Time, names []string) {
	for _, name := range names {
		v, ok := r.views[name]
		if !ok {
			continue
		}
		r.sample(v, now)
		r.coord.ScheduleView(name, now+v.Timestep)
	}
}

func (r *Registry) OnTransition(kind coordinator.TransitionKind, now simulator.Time, simPath string) {
	var bit TriggerSet
	switch kind {
	case coordinator.TransitionInternal:
		bit = Internal
	case coordinator.TransitionExternal:
		bit = External
	case coordinator.TransitionConfluent:
		bit = Confluent
	}
	for _, v := range r.views {
		if !v.Triggers.Has(bit) {
			continue
		}
		r.sampleForSimulator(v, now, simPath)
	}
}

func (r *Registry) OnOutput(now simulator.Time, simPath string) {
	for _, v := range r.views {
		if !v.Triggers.Has(Output) {
			continue
		}
		r.sampleForSimulator(v, now, simPath)
	}
}

// Finish samples every FINISH-triggered view once more, then calls each
// enabled view's output plugin finish(time) exactly once, storing the
// resulting matrices.
func (r *Registry) Finish(now simulator.Time) {
	r.matrices = make(map[string][]Row)
	for name, v := range r.views {
		if v.Triggers.Has(Finish) {
			r.sample(v, now)
		}
		if !v.Enabled {
			continue
		}
		r.matrices[name] = r.plugins[name].Finish(int64(now))
	}
}

// Matrices returns the final per-view matrix map produced by Finish
//  → map").
func (r *Registry) Matrices() map[string][]Row {
	return r.matrices
}

func (r *Registry) sample(v *View, now simulator.Time) {
	if !v.Enabled {
		return
	}
	for _, b := range v.bindings {
		val, ok := r.coord.Observe(b.SimPath, b.Port, now)
		if !ok {
			continue
		}
		r.plugins[v.Name].OnValue(int64(now), b.SimPath, b.Port, val)
	}
}

func (r *Registry) sampleForSimulator(v *View, now simulator.Time, simPath string) {
	if !v.Enabled {
		return
	}
	for _, b := range v.bindings {
		if b.SimPath != simPath {
			continue
		}
		val, ok := r.coord.Observe(b.SimPath, b.Port, now)
		if !ok {
			continue
		}
		r.plugins[v.Name].OnValue(int64(now), b.SimPath, b.Port, val)
	}
}

var _ coordinator.Observer = (*Registry)(nil)
