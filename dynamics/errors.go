package dynamics

import "errors"

// Sentinel errors identifying the DynamicsError kind, one
// per distinct failure mode named in
var (
	ErrFileMissing       = errors.New("dynamics: plugin file not found")
	ErrVersionMissing    = errors.New("dynamics: plugin exports no version symbol")
	ErrABIMismatch       = errors.New("dynamics: plugin ABI major/minor does not match kernel")
	ErrFactoryMissing    = errors.New("dynamics: plugin exports no recognized factory symbol")
	ErrUnknownReference  = errors.New("dynamics: no registration for reference")
	ErrWrongFactoryShape = errors.New("dynamics: factory symbol has unexpected type")
)
