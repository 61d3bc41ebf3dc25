package relay

import "errors"

const Namespace = "relay"

var (
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
	ErrEmptySequence = errors.New(Namespace + ": sequence must not be empty")
	ErrRosterFull    = errors.New(Namespace + ": all worker slots are already registered")
	ErrNotYourTurn   = errors.New(Namespace + ": worker does not hold the current turn")
	ErrStopped       = errors.New(Namespace + ": turn taking stopped")
)
