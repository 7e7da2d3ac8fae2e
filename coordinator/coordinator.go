// Package coordinator implements the simulation cycle: the per-step
// imminent-bundle processing, message routing across the coupled
// hierarchy, the executive hook, and the root façade — grounded on an
// event-driven Run loop (sim/cluster/simulator.go) generalized from a
// fixed entity-dispatch loop to the DEVS step cycle.
package coordinator

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/vle-sim/vle/dynamics"
	"github.com/vle-sim/vle/graph"
	"github.com/vle-sim/vle/queue"
	"github.com/vle-sim/vle/simulator"
	"github.com/vle-sim/vle/value"
)

// RNG is the subset of a random source a Dynamics factory needs.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// ModelBinding pairs an atomic model's dynamics reference with its bound
// condition values.
type ModelBinding struct {
	Ref dynamics.Reference
	Conditions map[string]interface{}
}

// Coordinator drives one coupled hierarchy's atomic set through the
// simulation loop.
type Coordinator struct {
	root     *graph.CoupledModel
	resolver dynamics.Resolver
	rng RNG
	log logrus.FieldLogger
	observer Observer

	byPath map[string]*atomicEntry
	byID map[simulator.ID]*atomicEntry
	nextID simulator.ID

	timed    *queue.TimedQueue
	external *queue.ExternalQueue
	views    *queue.ViewQueue

	routeCache map[routeKey]routeCacheEntry
	levelIndex map[string]map[routeKey]struct{}

	pending []graphEdit

	now simulator.Time
	finished bool
}

// New constructs a Coordinator with no models loaded yet.
func New(resolver dynamics.Resolver, rng RNG, log logrus.FieldLogger, observer Observer) *Coordinator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Coordinator{
		resolver:   resolver,
		rng:        rng,
		log:        log,
		observer:   observer,
		byPath:     make(map[string]*atomicEntry),
		byID:       make(map[simulator.ID]*atomicEntry),
		timed:      queue.NewTimedQueue(),
		external:   queue.NewExternalQueue(),
		views:      queue.NewViewQueue(),
		routeCache: make(map[routeKey]routeCacheEntry),
		levelIndex: make(map[string]map[routeKey]struct{}),
	}
}

// Load flattens root's coupled hierarchy into the atomic set, resolving
// each atomic model's dynamics via bindings (keyed by the atomic's
// comma-separated path) and constructing one Simulator per atomic model.
func (c *Coordinator) Load(root *graph.CoupledModel, bindings map[string]ModelBinding) error {
	c.root = root
	return c.flatten(root, "", bindings)
}

func (c *Coordinator) flatten(level *graph.CoupledModel, levelPath string, bindings map[string]ModelBinding) error {
	for _, name := range level.Children() {
		child, _ := level.FindModel(name)
		path := joinPath(levelPath, name)
		if !child.IsAtomic() {
			if err := c.flatten(child.(*graph.CoupledModel), path, bindings); err != nil {
				return err
			}
			continue
		}
		if err := c.loadAtomic(child.(*graph.AtomicModel), level, levelPath, path, bindings[path]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) loadAtomic(node *graph.AtomicModel, parent *graph.CoupledModel, parentPath, path string, binding ModelBinding) error {
	ref := binding.Ref
	if ref.Library == "" {
		ref = dynamics.Reference{Library: node.DynamicsRef, Kind: dynamics.KindUnspecified}
	}
	factory, _, err := c.resolver.Resolve(ref)
	if err != nil {
		return err
	}
	d := factory(dynamics.InitArgs{ModelName: node.Name(), Conditions: binding.Conditions, RNG: c.rng})

	c.nextID++
	sim := simulator.New(c.nextID, path, d, c.log)
	entry := &atomicEntry{path: path, parentPath: parentPath, node: node, parent: parent, sim: sim}
	c.byPath[path] = entry
	c.byID[sim.ID] = entry

	if exec, ok := d.(simulator.Executive); ok {
		exec.BindExecutive(&executiveCtx{c: c, parent: parent, parentPath: parentPath})
	}
	return nil
}

// Init invokes Init(t0) on every simulator, schedules it into the timed
// queue, and fires onNewObservable for every bound port.
func (c *Coordinator) Init(t0 simulator.Time) {
	c.now = t0
	for _, entry := range c.byPath {
		entry.sim.Init(t0)
		c.pushIfFinite(entry.sim)
		for _, p := range entry.node.OutputPorts() {
			c.observer.OnNewObservable(entry.path, p)
		}
		for _, p := range entry.node.InputPorts() {
			c.observer.OnNewObservable(entry.path, p)
		}
	}
}

// pushIfFinite inserts sim into T unless its next-event time is
// +∞ — such a simulator can only fire again via an external event
//  and is never reinserted into T.
func (c *Coordinator) pushIfFinite(sim *simulator.Simulator) {
	if sim.NextEventTime() == simulator.Infinity {
		return
	}
	c.timed.Push(sim)
}

// CurrentTime returns the coordinator's current simulated time.
func (c *Coordinator) CurrentTime() simulator.Time { return c.now }

// Observe queries the observation(ev) callback of the atomic model at
// simPath for port, returning false if the model is unknown or the
// callback itself returned a null value.
func (c *Coordinator) Observe(simPath, port string, t simulator.Time) (value.Value, bool) {
	entry, ok := c.byPath[simPath]
	if !ok {
		return value.Null(), false
	}
	return entry.sim.Observation(simulator.ObservationEvent{Port: port, Time: t})
}

// ScheduleView pushes a timed view's next firing time into V. The
// observation registry calls this once at init and again
// after every OnTimed callback, advancing by its own timestep.
func (c *Coordinator) ScheduleView(name string, at simulator.Time) {
	c.views.Push(at, name)
}

// InjectExternal schedules an external event on the named input port of
// the atomic model at simPath, to be delivered at time t via X — the path
// for events that originate outside the model graph's own output/routing
// cycle (a client request arriving, an operator-issued signal, a fault
// injected by a test harness). t must not precede the coordinator's
// current time; ErrUnknownModel is returned if simPath names no loaded
// atomic model.
func (c *Coordinator) InjectExternal(simPath, port string, v value.Value, t simulator.Time) error {
	entry, ok := c.byPath[simPath]
	if !ok {
		return ErrUnknownModel
	}
	if t < c.now {
		return ErrPastDeadline
	}
	c.external.Push(t, entry.sim.ID, simulator.ExternalEvent{Port: port, Value: v})
	return nil
}

// Step performs one imminent-bundle cycle, returning the
// new current time and false if every queue (T, X, V) is exhausted.
func (c *Coordinator) Step() (simulator.Time, bool) {
	tT, okT := c.timed.PeekTime()
	tX, okX := c.external.PeekTime()
	tV, okV := c.views.PeekTime()
	if !okT && !okX && !okV {
		return c.now, false
	}
	now := simulator.Time(math.MaxInt64)
	if okT {
		now = tT
	}
	if okX && tX < now {
		now = tX
	}
	if okV && tV < now {
		now = tV
	}

	imminent := c.timed.PopBundle(now)
	xbundle := c.external.PopBundle(now)

	xdests := make(map[simulator.ID]bool, len(xbundle))
	for id := range xbundle {
		xdests[id] = true
	}

	type localEvent struct {
		targetPath string
		ev simulator.ExternalEvent
	}
	var routed []localEvent

	for _, sim := range imminent {
		out := sim.Output(now)
		c.observer.OnOutput(now, sim.ModelName)
		for _, oev := range out {
			for _, target := range c.Route(sim.ModelName, oev.Port) {
				routed = append(routed, localEvent{targetPath: target.path, ev: simulator.ExternalEvent{Port: target.port, Value: oev.Value.Clone()}})
			}
		}
	}

	localByPath := make(map[string][]simulator.ExternalEvent)
	for _, le := range routed {
		localByPath[le.targetPath] = append(localByPath[le.targetPath], le.ev)
	}

	fired := make(map[simulator.ID]bool, len(imminent))
	for _, sim := range imminent {
		fired[sim.ID] = true
		local := localByPath[sim.ModelName]
		delete(localByPath, sim.ModelName)
		if xdests[sim.ID] {
			all := append(append([]simulator.ExternalEvent(nil), local...), xbundle[sim.ID]...)
			sim.ConfluentTransitions(now, all)
			c.observer.OnTransition(TransitionConfluent, now, sim.ModelName)
		} else if len(local) > 0 {
			sim.ConfluentTransitions(now, local)
			c.observer.OnTransition(TransitionConfluent, now, sim.ModelName)
		} else {
			sim.InternalTransition(now)
			c.observer.OnTransition(TransitionInternal, now, sim.ModelName)
		}
		c.pushIfFinite(sim)
	}

	for id, evs := range xbundle {
		if fired[id] {
			continue
		}
		entry, ok := c.byID[id]
		if !ok {
			continue
		}
		all := append(append([]simulator.ExternalEvent(nil), localByPath[entry.path]...), evs...)
		delete(localByPath, entry.path)
		entry.sim.ExternalTransition(all, now)
		c.observer.OnTransition(TransitionExternal, now, entry.path)
		c.pushIfFinite(entry.sim)
	}

	for path, evs := range localByPath {
		entry, ok := c.byPath[path]
		if !ok {
			continue
		}
		entry.sim.ExternalTransition(evs, now)
		c.observer.OnTransition(TransitionExternal, now, entry.path)
		c.pushIfFinite(entry.sim)
	}

	if dueViews := c.views.PopBundle(now); len(dueViews) > 0 {
		c.observer.OnTimed(now, dueViews)
	}

	if err := c.applyPendingEdits(now); err != nil {
		c.log.WithError(err).Warn("executive edit failed")
	}

	c.now = now
	return now, true
}

// Finish calls Finish() on every simulator exactly once and notifies the
// observer, then releases the atomic set.
func (c *Coordinator) Finish() {
	if c.finished {
		return
	}
	c.finished = true
	for _, entry := range c.byPath {
		entry.sim.Finish()
	}
	c.observer.Finish(c.now)
	c.byPath = make(map[string]*atomicEntry)
	c.byID = make(map[simulator.ID]*atomicEntry)
}
