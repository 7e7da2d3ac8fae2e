// Package observation implements views and output plugins: a view
// selects observable ports by trigger type, queries
// observation(ev) on the owning simulator, and forwards non-null results
// to an output plugin — grounded on sim/trace package
// (SimulationTrace/Summarize accumulation idiom) generalized from a
// fixed admission/routing record shape to an arbitrary observable-value
// accumulator.
package observation

import "github.com/vle-sim/vle/value"

// TriggerSet is the bit-set of view trigger types
type TriggerSet uint8

const (
	Timed TriggerSet = 1 << iota
	Internal
	External
	Confluent
	Output
	Finish
)

func (t TriggerSet) Has(bit TriggerSet) bool { return t&bit != 0 }

// Binding is one (simulator path, observable port) pair bound to a view.
type Binding struct {
	SimPath string
	Port string
}

// View is one named observation stream.
type View struct {
	Name string
	Output string // output name this view writes through
	Triggers TriggerSet
	Timestep int64 // only meaningful when Triggers.Has(Timed)
	Enabled bool

	bindings []Binding
}

// NewView constructs a view with no bindings yet.
func NewView(name, output string, triggers TriggerSet, timestep int64) *View {
	return &View{Name: name, Output: output, Triggers: triggers, Timestep: timestep, Enabled: true}
}

// Bind attaches an observable (simPath, port) to this view.
func (v *View) Bind(simPath, port string) {
	v.bindings = append(v.bindings, Binding{SimPath: simPath, Port: port})
}

// Unbind removes a previously attached observable.
func (v *View) Unbind(simPath, port string) {
	out := v.bindings[:0]
	for _, b := range v.bindings {
		if b.SimPath != simPath || b.Port != port {
			out = append(out, b)
		}
	}
	v.bindings = out
}

// Row is one sampled instant written to an output plugin.
type Row struct {
	Time int64
	Values map[string]value.Value
}

// OutputPlugin is the mode-agnostic sink contract: the
// kernel only trusts finish(time) to return a matrix, possibly empty or
// absent.
type OutputPlugin interface {
	OnParameter(key string, v value.Value)
	OnNewObservable(simPath, port string)
	OnDelObservable(simPath, port string)
	OnValue(t int64, simPath, port string, v value.Value)
	Finish(t int64) []Row
}
