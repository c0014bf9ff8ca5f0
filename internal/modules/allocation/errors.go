package allocation

import "errors"

var (
	ErrNoParticipants      = errors.New("session has no participants")
	ErrNoRooms             = errors.New("no allocatable rooms")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrAllocationNotFound  = errors.New("allocation not found")
	ErrAlreadyAllocated    = errors.New("participant already has a bed")
	ErrGenderMismatch      = errors.New("participant gender does not match the room")
	ErrRoomDisabled        = errors.New("room is disabled")
	ErrBedOutOfRange       = errors.New("bed number is outside the room capacity")
	ErrBedTaken            = errors.New("bed is already taken")
	ErrRoomFull            = errors.New("room has no free bed")
	ErrSameAllocation      = errors.New("cannot swap an allocation with itself")
	ErrCrossSession        = errors.New("allocations belong to different sessions")
)
