package config

import "errors"

// Sentinel errors identifying the ConfigError kind: a
// malformed project description.
var (
	ErrUnknownTrigger    = errors.New("config: unknown view trigger")
	ErrMissingTimestep   = errors.New("config: timed view has no timestep")
	ErrUnknownModelKind  = errors.New("config: model entry is neither atomic nor coupled")
	ErrUnknownDynamics   = errors.New("config: connection or model references an unknown dynamics id")
	ErrUnknownObservable = errors.New("config: model references an unknown observable id")
	ErrUnknownOutput     = errors.New("config: view references an unknown output name")
	ErrUnknownView       = errors.New("config: observable binds a view name with no matching view entry")
)
