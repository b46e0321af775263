package object

import (
	"errors"
	"fmt"
)

var (
	ErrSharingViolation = errors.New("object: external shared or weak reference held")
	ErrThreadAffinity   = errors.New("object: thread affinity violation")
	ErrTypeIncompatible = errors.New("object: incompatible meta types")
	ErrDestroyed        = errors.New("object: destroyed")
	ErrForeignObject    = errors.New("object: belongs to another graph")
	ErrInvalidSignal    = errors.New("object: invalid signal index")
	ErrParentCycle      = errors.New("object: parent cycle")
	ErrNoDispatcher     = errors.New("object: thread has no dispatcher")
	ErrInvalidInterval  = errors.New("object: invalid timer interval")
	ErrUnknownTimer     = errors.New("object: unknown timer")
)

// SwapError reports a swap refused during validation. Nothing was mutated.
type SwapError struct {
	A, B   uint64
	Object uint64 // side that failed the check, 0 when it concerns the pair
	Err    error
}

func (e *SwapError) Error() string {
	if e.Object != 0 {
		return fmt.Sprintf("swap %d<->%d rejected on %d: %v", e.A, e.B, e.Object, e.Err)
	}
	return fmt.Sprintf("swap %d<->%d rejected: %v", e.A, e.B, e.Err)
}

func (e *SwapError) Unwrap() error {
	return e.Err
}
