package coordinator

import (
	"github.com/vle-sim/vle/graph"
	"github.com/vle-sim/vle/simulator"
)

// atomicEntry binds one flattened atomic model to its runtime Simulator,
// its graph node, and its comma-separated path.
type atomicEntry struct {
	path       string
	parentPath string
	node       *graph.AtomicModel
	parent     *graph.CoupledModel
	sim        *simulator.Simulator
}

// TransitionKind names which of the three transition callbacks fired,
// for the benefit of an Observer deciding whether to query an
// INTERNAL/EXTERNAL/CONFLUENT-triggered view.
type TransitionKind int

const (
	TransitionInternal TransitionKind = iota
	TransitionExternal
	TransitionConfluent
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionInternal:
		return "internal"
	case TransitionExternal:
		return "external"
	case TransitionConfluent:
		return "confluent"
	default:
		return "unknown"
	}
}

// Observer receives the notifications the observation package needs to
// drive views, without the coordinator importing that package's View/
// OutputPlugin types directly — mirrors the dynamics package's untyped
// OovFactory, keeping the dependency one-directional (observation depends
// on coordinator's exported types, not the reverse).
type Observer interface {
	OnNewObservable(simPath, port string)
	OnDelObservable(simPath, port string)
	OnTimed(now simulator.Time, views []string)
	OnTransition(kind TransitionKind, now simulator.Time, simPath string)
	OnOutput(now simulator.Time, simPath string)
	Finish(now simulator.Time)
}

// nopObserver is used when a Coordinator is built without an Observer
// (e.g. tests focused purely on routing).
type nopObserver struct{}

func (nopObserver) OnNewObservable(string, string)                      {}
func (nopObserver) OnDelObservable(string, string)                      {}
func (nopObserver) OnTimed(simulator.Time, []string)                    {}
func (nopObserver) OnTransition(TransitionKind, simulator.Time, string) {}
func (nopObserver) OnOutput(simulator.Time, string)                     {}
func (nopObserver) Finish(simulator.Time)                               {}
