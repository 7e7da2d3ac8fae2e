package coordinator

import (
	"fmt"
	"testing"

	"github.com/vle-sim/vle/dynamics"
	"github.com/vle-sim/vle/graph"
	"github.com/vle-sim/vle/simulator"
	"github.com/vle-sim/vle/value"
)

type recordingObserver struct {
	timed []simulator.Time
}

func (o *recordingObserver) OnNewObservable(string, string) {}
func (o *recordingObserver) OnDelObservable(string, string) {}
func (o *recordingObserver) OnTimed(now simulator.Time, views []string) {
	o.timed = append(o.timed, now)
}
func (o *recordingObserver) OnTransition(TransitionKind, simulator.Time, string) {}
func (o *recordingObserver) OnOutput(simulator.Time, string)                    {}
func (o *recordingObserver) Finish(simulator.Time)                              {}

// beepDynamics emits one event on "out" every tick.
type beepDynamics struct{}

func (beepDynamics) Init(t simulator.Time) simulator.Time { return 1 }
func (beepDynamics) TimeAdvance() simulator.Time          { return 1 }
func (beepDynamics) Output(t simulator.Time) []simulator.OutputEvent {
	return []simulator.OutputEvent{{Port: "out", Value: value.Int(1)}}
}
func (beepDynamics) InternalTransition(simulator.Time) {}
func (beepDynamics) ExternalTransition([]simulator.ExternalEvent, simulator.Time) {}
func (beepDynamics) ConfluentTransitions(simulator.Time, []simulator.ExternalEvent) {}
func (beepDynamics) Observation(simulator.ObservationEvent) (value.Value, bool) {
	return value.Null(), false
}
func (beepDynamics) Finish() {}

// counterDynamics counts external events received on "in" and reports
// the count via an observable port.
type counterDynamics struct{ count int64 }

func (d *counterDynamics) Init(t simulator.Time) simulator.Time { return simulator.Infinity }
func (d *counterDynamics) TimeAdvance() simulator.Time          { return simulator.Infinity }
func (d *counterDynamics) Output(simulator.Time) []simulator.OutputEvent { return nil }
func (d *counterDynamics) InternalTransition(simulator.Time)            {}
func (d *counterDynamics) ExternalTransition(evs []simulator.ExternalEvent, t simulator.Time) {
	d.count += int64(len(evs))
}
func (d *counterDynamics) ConfluentTransitions(t simulator.Time, evs []simulator.ExternalEvent) {
	d.count += int64(len(evs))
}
func (d *counterDynamics) Observation(ev simulator.ObservationEvent) (value.Value, bool) {
	if ev.Port == "c" {
		return value.Int(d.count), true
	}
	return value.Null(), false
}
func (d *counterDynamics) Finish() {}

func buildBeepCounter(t *testing.T) (*Coordinator, *counterDynamics) {
	t.Helper()
	root := graph.NewRoot("top")
	beep, err := root.AddAtomicModel("beep")
	if err != nil {
		t.Fatal(err)
	}
	if err := beep.AddOutputPort("out"); err != nil {
		t.Fatal(err)
	}
	counter, err := root.AddAtomicModel("counter")
	if err != nil {
		t.Fatal(err)
	}
	if err := counter.AddInputPort("in"); err != nil {
		t.Fatal(err)
	}
	if err := root.AddInternalConnection(beep, "out", counter, "in"); err != nil {
		t.Fatal(err)
	}

	registry := dynamics.NewStaticRegistry()
	registry.RegisterDynamics("beep", dynamics.KindDynamics, func(dynamics.InitArgs) simulator.Dynamics {
		return beepDynamics{}
	})
	counterD := &counterDynamics{}
	registry.RegisterDynamics("counter", dynamics.KindDynamics, func(dynamics.InitArgs) simulator.Dynamics {
		return counterD
	})
	beep.DynamicsRef = "beep"
	counter.DynamicsRef = "counter"

	c := New(registry, nil, nil, nil)
	if err := c.Load(root, nil); err != nil {
		t.Fatal(err)
	}
	c.Init(0)
	return c, counterD
}

func TestCoordinator_SingleProducerCounter_CountsEveryTick(t *testing.T) {
	c, counterD := buildBeepCounter(t)
	for i := 0; i < 10; i++ {
		if _, ok := c.Step(); !ok {
			t.Fatalf("Step() exhausted early at i=%d", i)
		}
	}
	if counterD.count != 10 {
		t.Fatalf("counter.count = %d, want 10", counterD.count)
	}
}

func TestCoordinator_Route_CachesAndIsStableAcrossCalls(t *testing.T) {
	c, _ := buildBeepCounter(t)
	first := c.Route("beep", "out")
	second := c.Route("beep", "out")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Route() = %v / %v, want exactly one target each call", first, second)
	}
	if first[0].path != "counter" || first[0].port != "in" {
		t.Fatalf("Route() target = %+v, want {counter in}", first[0])
	}
}

func TestCoordinator_InjectExternal_DeliversThroughX(t *testing.T) {
	root := graph.NewRoot("top")
	counter, err := root.AddAtomicModel("counter")
	if err != nil {
		t.Fatal(err)
	}
	if err := counter.AddInputPort("in"); err != nil {
		t.Fatal(err)
	}

	registry := dynamics.NewStaticRegistry()
	counterD := &counterDynamics{}
	registry.RegisterDynamics("counter", dynamics.KindDynamics, func(dynamics.InitArgs) simulator.Dynamics {
		return counterD
	})
	counter.DynamicsRef = "counter"

	c := New(registry, nil, nil, nil)
	if err := c.Load(root, nil); err != nil {
		t.Fatal(err)
	}
	c.Init(0)

	if err := c.InjectExternal("counter", "in", value.Int(7), 5); err != nil {
		t.Fatal(err)
	}
	if err := c.InjectExternal("missing", "in", value.Int(1), 5); err == nil {
		t.Fatal("expected ErrUnknownModel for unloaded path")
	}
	if err := c.InjectExternal("counter", "in", value.Int(1), 0); err == nil {
		t.Fatal("expected ErrPastDeadline for a time before current")
	}

	now, ok := c.Step()
	if !ok {
		t.Fatal("Step() exhausted before the injected event fired")
	}
	if now != 5 {
		t.Fatalf("Step() fired at t=%d, want 5", now)
	}
	if counterD.count != 1 {
		t.Fatalf("counter.count = %d, want 1", counterD.count)
	}

	if _, ok := c.Step(); ok {
		t.Fatal("expected no further imminent events once X and T are drained")
	}
}

// addRemoveOnceExecutive adds "child" on its first firing and deletes it
// on its second, then goes passive.
type addRemoveOnceExecutive struct {
	ctx simulator.ExecutiveContext
	tick int
}

func (e *addRemoveOnceExecutive) Init(simulator.Time) simulator.Time { return 1 }
func (e *addRemoveOnceExecutive) TimeAdvance() simulator.Time {
	if e.tick >= 2 {
		return simulator.Infinity
	}
	return 1
}
func (e *addRemoveOnceExecutive) Output(simulator.Time) []simulator.OutputEvent { return nil }
func (e *addRemoveOnceExecutive) InternalTransition(t simulator.Time) {
	e.tick++
	switch e.tick {
	case 1:
		_ = e.ctx.AddModel("child", "childdyn", []string{"in"}, nil)
	case 2:
		_ = e.ctx.DelModel("child")
	}
}
func (e *addRemoveOnceExecutive) ExternalTransition([]simulator.ExternalEvent, simulator.Time)   {}
func (e *addRemoveOnceExecutive) ConfluentTransitions(simulator.Time, []simulator.ExternalEvent) {}
func (e *addRemoveOnceExecutive) Observation(simulator.ObservationEvent) (value.Value, bool) {
	return value.Null(), false
}
func (e *addRemoveOnceExecutive) Finish()                                 {}
func (e *addRemoveOnceExecutive) BindExecutive(ctx simulator.ExecutiveContext) { e.ctx = ctx }

var _ simulator.Executive = (*addRemoveOnceExecutive)(nil)

func TestCoordinator_Executive_AddThenDelModel_FinishesOnceAndCancelsLateDelivery(t *testing.T) {
	root := graph.NewRoot("top")
	execNode, err := root.AddAtomicModel("exec")
	if err != nil {
		t.Fatal(err)
	}
	execNode.DynamicsRef = "execdyn"

	registry := dynamics.NewStaticRegistry()
	registry.RegisterDynamics("execdyn", dynamics.KindExecutive, func(dynamics.InitArgs) simulator.Dynamics {
		return &addRemoveOnceExecutive{}
	})
	finishes := 0
	registry.RegisterDynamics("childdyn", dynamics.KindDynamics, func(dynamics.InitArgs) simulator.Dynamics {
		return &finishCountingDynamics{n: &finishes}
	})

	c := New(registry, nil, nil, nil)
	if err := c.Load(root, nil); err != nil {
		t.Fatal(err)
	}
	c.Init(0)

	// t=1: exec's internal transition enqueues AddModel("child"), applied
	// at this step's boundary.
	if _, ok := c.Step(); !ok {
		t.Fatal("Step() exhausted before child was added")
	}
	if _, ok := c.byPath["child"]; !ok {
		t.Fatal("expected child to be loaded after the AddModel step")
	}

	// Schedule an external event for a time after child's upcoming
	// deletion, to exercise the no-late-delivery property.
	if err := c.InjectExternal("child", "in", value.Int(1), 3); err != nil {
		t.Fatal(err)
	}

	// t=2: exec's internal transition enqueues DelModel("child"), which
	// must call Finish() on child's simulator and CancelDestination on
	// the event queued for t=3.
	if _, ok := c.Step(); !ok {
		t.Fatal("Step() exhausted before child was deleted")
	}
	if _, ok := c.byPath["child"]; ok {
		t.Fatal("expected child to be unloaded after the DelModel step")
	}
	if finishes != 1 {
		t.Fatalf("finishes = %d, want exactly 1", finishes)
	}
	if _, ok := c.external.PeekTime(); ok {
		t.Fatal("expected the t=3 event for the deleted child to have been canceled, not just orphaned")
	}

	// Drain the rest of the run; exec goes passive and nothing further
	// should fire, so child's Finish() must stay at exactly 1.
	for i := 0; i < 5; i++ {
		if _, ok := c.Step(); !ok {
			break
		}
	}
	if finishes != 1 {
		t.Fatalf("finishes = %d after drain, want exactly 1 (no double Finish)", finishes)
	}

	c.Finish()
	if finishes != 1 {
		t.Fatalf("finishes = %d after Coordinator.Finish, want exactly 1", finishes)
	}
}

// growShrinkExecutive implements end-to-end scenario 2: it adds one
// sibling per tick for the first half of the run and removes the
// earliest-added remaining one per tick for the second half, exposing the
// running count on its own "nbmodel" observable port.
type growShrinkExecutive struct {
	ctx simulator.ExecutiveContext
	addUntil int
	removeUntil int
	added []string
	count int
}

func (e *growShrinkExecutive) Init(simulator.Time) simulator.Time { return 1 }
func (e *growShrinkExecutive) TimeAdvance() simulator.Time {
	return 1
}
func (e *growShrinkExecutive) Output(simulator.Time) []simulator.OutputEvent { return nil }
func (e *growShrinkExecutive) InternalTransition(t simulator.Time) {
	switch {
	case t <= int64(e.addUntil):
		name := fmt.Sprintf("beep_%d", t)
		_ = e.ctx.AddModel(name, "passivedyn", nil, nil)
		e.added = append(e.added, name)
		e.count++
	case t <= int64(e.addUntil+e.removeUntil):
		name := e.added[0]
		e.added = e.added[1:]
		_ = e.ctx.DelModel(name)
		e.count--
	}
}
func (e *growShrinkExecutive) ExternalTransition([]simulator.ExternalEvent, simulator.Time)   {}
func (e *growShrinkExecutive) ConfluentTransitions(simulator.Time, []simulator.ExternalEvent) {}
func (e *growShrinkExecutive) Observation(ev simulator.ObservationEvent) (value.Value, bool) {
	if ev.Port == "nbmodel" {
		return value.Int(int64(e.count)), true
	}
	return value.Null(), false
}
func (e *growShrinkExecutive) Finish()                                      {}
func (e *growShrinkExecutive) BindExecutive(ctx simulator.ExecutiveContext) { e.ctx = ctx }

var _ simulator.Executive = (*growShrinkExecutive)(nil)

func TestCoordinator_Executive_GrowThenShrink_NbmodelTracksLiveChildCount(t *testing.T) {
	root := graph.NewRoot("top")
	execNode, err := root.AddAtomicModel("exec")
	if err != nil {
		t.Fatal(err)
	}
	execNode.DynamicsRef = "execdyn"

	registry := dynamics.NewStaticRegistry()
	registry.RegisterDynamics("execdyn", dynamics.KindExecutive, func(dynamics.InitArgs) simulator.Dynamics {
		return &growShrinkExecutive{addUntil: 50, removeUntil: 50}
	})
	registry.RegisterDynamics("passivedyn", dynamics.KindDynamics, func(dynamics.InitArgs) simulator.Dynamics {
		return &finishCountingDynamics{n: new(int)}
	})

	c := New(registry, nil, nil, nil)
	if err := c.Load(root, nil); err != nil {
		t.Fatal(err)
	}
	c.Init(0)

	readings := []int64{0} // row 0, before any step
	for tick := 1; tick <= 100; tick++ {
		if _, ok := c.Step(); !ok {
			t.Fatalf("Step() exhausted early at t=%d", tick)
		}
		v, ok := c.Observe("exec", "nbmodel", simulator.Time(tick))
		if !ok {
			t.Fatalf("Observe(nbmodel) returned false at t=%d", tick)
		}
		n, _ := v.Int()
		readings = append(readings, n)
	}

	if len(readings) != 101 {
		t.Fatalf("len(readings) = %d, want 101", len(readings))
	}
	for i := 0; i <= 50; i++ {
		if readings[i] != int64(i) {
			t.Fatalf("readings[%d] = %d, want %d (growth phase)", i, readings[i], i)
		}
	}
	for i := 51; i <= 100; i++ {
		want := int64(100 - i)
		if readings[i] != want {
			t.Fatalf("readings[%d] = %d, want %d (shrink phase)", i, readings[i], want)
		}
	}
}

func TestCoordinator_DeleteCoupledModel_RemovesSubtreeFromGraph(t *testing.T) {
	root := graph.NewRoot("top")
	sub, err := root.AddCoupledModel("sub")
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := sub.AddAtomicModel("leaf")
	if err != nil {
		t.Fatal(err)
	}
	leaf.DynamicsRef = "beep"

	registry := dynamics.NewStaticRegistry()
	finishes := 0
	registry.RegisterDynamics("beep", dynamics.KindDynamics, func(dynamics.InitArgs) simulator.Dynamics {
		return &finishCountingDynamics{n: &finishes}
	})

	c := New(registry, nil, nil, nil)
	if err := c.Load(root, nil); err != nil {
		t.Fatal(err)
	}
	c.Init(0)

	if err := root.DeleteModel("sub"); err != nil {
		t.Fatal(err)
	}
	delete(c.byPath, "sub,leaf")
	delete(c.byID, 1)

	if _, ok := root.FindModel("sub"); ok {
		t.Fatalf("sub still present after DeleteModel")
	}
}

type finishCountingDynamics struct{ n *int }

func (finishCountingDynamics) Init(simulator.Time) simulator.Time                         { return simulator.Infinity }
func (finishCountingDynamics) TimeAdvance() simulator.Time                                { return simulator.Infinity }
func (finishCountingDynamics) Output(simulator.Time) []simulator.OutputEvent              { return nil }
func (finishCountingDynamics) InternalTransition(simulator.Time)                          {}
func (finishCountingDynamics) ExternalTransition([]simulator.ExternalEvent, simulator.Time) {}
func (finishCountingDynamics) ConfluentTransitions(simulator.Time, []simulator.ExternalEvent) {}
func (finishCountingDynamics) Observation(simulator.ObservationEvent) (value.Value, bool) {
	return value.Null(), false
}
func (d *finishCountingDynamics) Finish() { *d.n++ }
