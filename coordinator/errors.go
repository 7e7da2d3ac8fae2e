package coordinator

import "errors"

// Sentinel errors identifying the RuntimeError kind
var (
	ErrUnknownModel     = errors.New("coordinator: no such atomic model")
	ErrNotExecutive     = errors.New("coordinator: model is not an executive")
	ErrNotAtomic        = errors.New("coordinator: model is not atomic")
	ErrAlreadyFinished  = errors.New("coordinator: finish already called")
	ErrDuplicateModel   = errors.New("coordinator: model name already in use at this level")
	ErrPastDeadline     = errors.New("coordinator: external event scheduled before current time")
)
