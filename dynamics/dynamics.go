// Package dynamics resolves a (package, library) reference to a factory
// producing an atomic-model behaviour or an output plugin, in one of two
// modes: a process-wide static registry (embedded/test use) or a
// shared-library loader using Go's standard plugin package — grounded on
// a name -> factory registry idiom (sim.NewScheduler,
// sim/policy.NewAdmissionPolicy) generalized to dynamic-library
// resolution.
package dynamics

import "github.com/vle-sim/vle/simulator"

// Kind is the factory kind a (package, library) reference resolves to.
type Kind int

const (
	KindDynamics Kind = iota
	KindExecutive
	KindDynamicsWrapper
	KindOov
)

// KindUnspecified marks a Reference whose kind the caller does not know
// in advance — the resolver classifies it from whichever factory symbol
// it finds first.
const KindUnspecified Kind = -1

func (k Kind) String() string {
	switch k {
	case KindDynamics:
		return "dynamics"
	case KindExecutive:
		return "executive"
	case KindDynamicsWrapper:
		return "dynamics_wrapper"
	case KindOov:
		return "oov"
	default:
		return "unknown"
	}
}

// InitArgs is passed to a Dynamics factory at construction time: the
// model's bound conditions (initialization values) and an RNG shared from
// the root coordinator.
type InitArgs struct {
	ModelName string
	Conditions map[string]interface{}
	RNG interface {
		Float64() float64
		Intn(n int) int
	}
}

// Factory constructs a Dynamics, an Executive, or a DynamicsWrapper —
// the three kinds that produce simulator.Dynamics values.
type Factory func(InitArgs) simulator.Dynamics

// OovFactory constructs an output plugin for a given output location
// string. The return type is intentionally untyped: the observation
// package owns the OutputPlugin interface and type-asserts the result,
// so this package never needs to import it.
type OovFactory func(location string) interface{}

// Reference identifies one dynamics or output-plugin binding: a
// (package, library) pair plus the requested kind.
type Reference struct {
	Package string
	Library string
	Kind Kind
}

// ABI is the kernel's compile-time ABI version. A shared library's
// vle_api_level must match Major.Minor exactly; a Patch mismatch only
// warns.
var ABI = struct{ Major, Minor, Patch int }{Major: 2, Minor: 0, Patch: 0}
