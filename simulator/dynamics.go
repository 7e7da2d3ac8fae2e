// Package simulator implements the per-atomic-model runtime wrapper:
// it owns the current state, next-event time and pending external events
// of one atomic model, and invokes the user-supplied Dynamics callbacks —
// grounded on InstanceSimulator (sim/cluster/instance.go),
// generalized from wrapping one vLLM instance to wrapping one arbitrary
// DEVS atomic-model behaviour.
package simulator

import (
	"math"

	"github.com/vle-sim/vle/value"
)

// Time is simulated time, in the same unit throughout a run.
type Time = int64

// Infinity is the time-advance value meaning "never reinsert into the
// timed queue".
const Infinity = Time(math.MaxInt64)

// ExternalEvent is a (destination input port, attached value) pair
// delivered to a simulator's external or confluent transition.
type ExternalEvent struct {
	Port string
	Value value.Value
}

// OutputEvent is a (source output port, value) pair produced during the
// output phase, before routing.
type OutputEvent struct {
	Port string
	Value value.Value
}

// ObservationEvent names which observable port is being queried.
type ObservationEvent struct {
	Port string
	Time Time
}

// Dynamics is the capability set every user atomic-model behaviour must
// satisfy — a plain interface rather than a base class.
type Dynamics interface {
	Init(t Time) (ta Time)
	TimeAdvance() (ta Time)
	Output(t Time) []OutputEvent
	InternalTransition(t Time)
	ExternalTransition(events []ExternalEvent, t Time)
	ConfluentTransitions(t Time, events []ExternalEvent)
	Observation(ev ObservationEvent) (value.Value, bool)
	Finish()
}
