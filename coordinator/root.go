package coordinator

import (
	"github.com/sirupsen/logrus"

	"github.com/vle-sim/vle/dynamics"
	"github.com/vle-sim/vle/graph"
	"github.com/vle-sim/vle/simulator"
	"github.com/vle-sim/vle/value"
)

// RootCoordinator is the top-level façade: owns the Coordinator, the
// duration of the run, and the seeded RNG, and exposes a
// load/init/run/finish lifecycle.
type RootCoordinator struct {
	c        *Coordinator
	begin simulator.Time
	duration simulator.Time
}

// NewRootCoordinator constructs a façade over a fresh Coordinator.
func NewRootCoordinator(resolver dynamics.Resolver, rng RNG, log logrus.FieldLogger, observer Observer) *RootCoordinator {
	return &RootCoordinator{c: New(resolver, rng, log, observer)}
}

// Load parses the model graph and bindings, instantiating one simulator
// per atomic model.
func (r *RootCoordinator) Load(root *graph.CoupledModel, bindings map[string]ModelBinding, begin, duration simulator.Time) error {
	r.begin = begin
	r.duration = duration
	return r.c.Load(root, bindings)
}

// Init fixes t0 and delegates to the Coordinator.
func (r *RootCoordinator) Init() {
	r.c.Init(r.begin)
}

// InjectExternal schedules an external event on an atomic model's input
// port, delivered at time t.
func (r *RootCoordinator) InjectExternal(simPath, port string, v value.Value, t simulator.Time) error {
	return r.c.InjectExternal(simPath, port, v, t)
}

// Run performs one step, returning false iff the simulation has reached
// begin+duration or every queue is exhausted.
func (r *RootCoordinator) Run() bool {
	if r.c.CurrentTime() >= r.begin+r.duration {
		return false
	}
	now, ok := r.c.Step()
	if !ok {
		return false
	}
	return now < r.begin+r.duration
}

// Finish returns the coordinator to its terminal state; the caller
// obtains the per-view matrix map from the Observer it supplied.
func (r *RootCoordinator) Finish() {
	r.c.Finish()
}

// CurrentTime reports the current simulated time.
func (r *RootCoordinator) CurrentTime() simulator.Time { return r.c.CurrentTime() }

// Coordinator exposes the underlying Coordinator for callers (e.g. an
// executive-aware test harness) that need direct access to ScheduleView
// or Route.
func (r *RootCoordinator) Coordinator() *Coordinator { return r.c }
