package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrInvalidScheduleWindow = stderrors.New("invalid schedule window")
	ErrNoSchedulableItems    = stderrors.New("no schedulable items")
	ErrScheduleInfeasible    = stderrors.New("schedule infeasible")
	ErrSlotNotFound          = stderrors.New("slot not found")
)

// InfeasibleError carries the capacity arithmetic so callers can report the
// exact shortfall instead of a bare failure.
type InfeasibleError struct {
	Requested int
	Capacity  int
	Shortfall int
}

func NewInfeasibleError(requested, capacity int) *InfeasibleError {
	return &InfeasibleError{
		Requested: requested,
		Capacity:  capacity,
		Shortfall: requested - capacity,
	}
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("schedule infeasible: %d items requested, window capacity %d, shortfall %d",
		e.Requested, e.Capacity, e.Shortfall)
}

func (e *InfeasibleError) Unwrap() error {
	return ErrScheduleInfeasible
}
