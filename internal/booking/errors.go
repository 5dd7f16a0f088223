package booking

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySelection  = errors.New("please select at least one seat")
	ErrUnknownSeat     = errors.New("unknown seat")
	ErrSeatUnavailable = errors.New("seat unavailable")
)

// UnknownSeatError reports a requested label that is not on the seat map.
type UnknownSeatError struct {
	Label string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("seat %s does not exist", e.Label)
}

func (e *UnknownSeatError) Is(target error) bool {
	return target == ErrUnknownSeat
}

// SeatUnavailableError reports a requested seat that is already sold.
type SeatUnavailableError struct {
	Label string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is already sold", e.Label)
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

// IsSelectionError reports whether err was caused by the seats a customer
// picked rather than by the system.
func IsSelectionError(err error) bool {
	return errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrUnknownSeat) ||
		errors.Is(err, ErrSeatUnavailable)
}
