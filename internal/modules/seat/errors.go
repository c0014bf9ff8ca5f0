package seat

import "errors"

var (
	ErrSeatNotFound        = errors.New("seat not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrSameSeat            = errors.New("cannot swap a seat with itself")
	ErrCrossSession        = errors.New("seats belong to different sessions")
	ErrSeatReserved        = errors.New("seat is reserved")
	ErrSeatOccupied        = errors.New("seat is occupied by another participant")
	ErrBothSeatsEmpty      = errors.New("both seats are empty")
	ErrGenderMismatch      = errors.New("participant gender does not match the seat")
)
