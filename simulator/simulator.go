package simulator

import (
	"github.com/sirupsen/logrus"
	"github.com/vle-sim/vle/value"
)

// ID identifies a simulator within the flattened atomic set. Distinct
// type (not a string alias) to prevent accidental mixing with model
// names, mirroring InstanceID.
type ID int64

// Simulator is the one-to-one runtime wrapper around one atomic model's
// Dynamics.
type Simulator struct {
	ID ID
	ModelName string
	Dynamics Dynamics
	IsExecutive bool
	Debug bool

	tL Time // last transition time
	tN Time // next-event time

	pending []ExternalEvent

	log logrus.FieldLogger
}

// New wraps a Dynamics instance for model modelName.
func New(id ID, modelName string, d Dynamics, log logrus.FieldLogger) *Simulator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	_, isExec := d.(Executive)
	s := &Simulator{
		ID:          id,
		ModelName:   modelName,
		Dynamics:    d,
		IsExecutive: isExec,
		log:         log,
	}
	return s
}

// Init invokes the mandatory user Init(time) and sets tL/tN accordingly.
func (s *Simulator) Init(t Time) {
	ta := s.Dynamics.Init(t)
	s.tL = t
	s.tN = advance(t, ta)
	if s.Debug {
		s.log.Debugf("[%s] init at t=%d -> tN=%d", s.ModelName, t, s.tN)
	}
}

// NextEventTime returns tN, the scheduler key's primary field.
func (s *Simulator) NextEventTime() Time { return s.tN }

// LastTransitionTime returns tL.
func (s *Simulator) LastTransitionTime() Time { return s.tL }

// QueueExternalEvent buffers an external event for delivery at the next
// firing of this simulator.
func (s *Simulator) QueueExternalEvent(ev ExternalEvent) {
	s.pending = append(s.pending, ev)
}

// TakePendingEvents drains and returns the buffered external events.
func (s *Simulator) TakePendingEvents() []ExternalEvent {
	evs := s.pending
	s.pending = nil
	return evs
}

// Output invokes the user output(t, ...) callback, logging entry/exit when
// Debug is set (the decorating wrapper, inlined rather
// than a separate type since every call site already funnels through this
// one method).
func (s *Simulator) Output(t Time) []OutputEvent {
	if s.Debug {
		s.log.Debugf("[%s] output at t=%d", s.ModelName, t)
	}
	out := s.Dynamics.Output(t)
	if s.Debug {
		s.log.Debugf("[%s] output produced %d event(s)", s.ModelName, len(out))
	}
	return out
}

// InternalTransition invokes the user callback for a pure internal firing.
func (s *Simulator) InternalTransition(t Time) {
	if s.Debug {
		s.log.Debugf("[%s] internalTransition at t=%d", s.ModelName, t)
	}
	s.Dynamics.InternalTransition(t)
	s.reschedule(t)
}

// ExternalTransition invokes the user callback for a pure external firing.
func (s *Simulator) ExternalTransition(evs []ExternalEvent, t Time) {
	if s.Debug {
		s.log.Debugf("[%s] externalTransition at t=%d with %d event(s)", s.ModelName, t, len(evs))
	}
	s.Dynamics.ExternalTransition(evs, t)
	s.reschedule(t)
}

// ConfluentTransitions invokes the user callback for a confluent firing.
func (s *Simulator) ConfluentTransitions(t Time, evs []ExternalEvent) {
	if s.Debug {
		s.log.Debugf("[%s] confluentTransitions at t=%d with %d event(s)", s.ModelName, t, len(evs))
	}
	s.Dynamics.ConfluentTransitions(t, evs)
	s.reschedule(t)
}

func (s *Simulator) reschedule(t Time) {
	s.tL = t
	s.tN = advance(t, s.Dynamics.TimeAdvance())
}

// advance computes t+ta saturating at Infinity, so a passive model (one
// whose TimeAdvance never returns anything but Infinity) stays exactly at
// Infinity however many times it reschedules, instead of wrapping around
// through int64 overflow into a bogus finite — and often negative — time.
func advance(t, ta Time) Time {
	if ta >= Infinity-t {
		return Infinity
	}
	return t + ta
}

// Observation delegates to the user's observation(event) callback.
func (s *Simulator) Observation(ev ObservationEvent) (value.Value, bool) {
	return s.Dynamics.Observation(ev)
}

// Finish invokes the user finish() callback exactly once.
func (s *Simulator) Finish() {
	s.Dynamics.Finish()
}
