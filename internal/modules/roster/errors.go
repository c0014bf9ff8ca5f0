package roster

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidDates    = errors.New("session ends before it starts")
	ErrRoomExists      = errors.New("room number already exists")
)
