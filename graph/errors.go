package graph

import "errors"

// Sentinel errors identifying the GraphError kind Wrapped
// with fmt.Errorf("graph: ...: %w", ErrXxx) at the offending call site so
// callers can still errors.Is/errors.As against the sentinel.
var (
	ErrDuplicateName    = errors.New("graph: name already exists in parent")
	ErrNoSuchModel      = errors.New("graph: no such model")
	ErrNoSuchPort       = errors.New("graph: no such port")
	ErrDuplicatePort    = errors.New("graph: port already exists")
	ErrDuplicateEdge    = errors.New("graph: connection already exists")
	ErrNoSuchEdge       = errors.New("graph: no such connection")
	ErrSelfLoop         = errors.New("graph: connection may not target the coupled model itself as a child")
	ErrNotAChild        = errors.New("graph: model is not a child of this coupled model")
	ErrInvalidSourceDst = errors.New("graph: invalid source/destination for this connection kind")
)
