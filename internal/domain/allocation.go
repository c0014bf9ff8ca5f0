package domain

import "time"

type AllocationKind string

const (
	AllocationAutomatic AllocationKind = "automatic"
	AllocationManual    AllocationKind = "manual"
)

type ConflictType string

const (
	ConflictSeparated ConflictType = "SEPARATED"
	ConflictColocated ConflictType = "COLOCATED"
)

// Allocation links one participant to one bed for a session.
type Allocation struct {
	ID             int64          `json:"id"`
	SessionID      int64          `json:"session_id" gorm:"not null;uniqueIndex:idx_allocations_session_participant;uniqueIndex:idx_allocations_session_bed"`
	ParticipantID  int64          `json:"participant_id" gorm:"not null;uniqueIndex:idx_allocations_session_participant"`
	RoomID         int64          `json:"room_id" gorm:"not null;uniqueIndex:idx_allocations_session_bed"`
	BedNumber      int            `json:"bed_number" gorm:"not null;uniqueIndex:idx_allocations_session_bed"`
	Kind           AllocationKind `json:"kind" gorm:"type:varchar(16);not null"`
	IsTemporary    bool           `json:"is_temporary"`
	ConflictFlag   bool           `json:"conflict_flag"`
	ConflictReason string         `json:"conflict_reason,omitempty" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Allocation) TableName() string {
	return "allocations"
}

type Conflict struct {
	AllocationID  int64        `json:"allocation_id"`
	ParticipantID int64        `json:"participant_id"`
	Name          string       `json:"name"`
	CompanionID   int64        `json:"companion_id"`
	Type          ConflictType `json:"type"`
	Reason        string       `json:"reason"`
}
