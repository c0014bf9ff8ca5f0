package allocation

import (
	bedalloc "retreatdesk/internal/allocation"
	"retreatdesk/internal/domain"
	"retreatdesk/internal/seating"
)

type ManualRequest struct {
	ParticipantID int64 `json:"participant_id" binding:"required,gt=0"`
	RoomID        int64 `json:"room_id" binding:"required,gt=0"`
	// BedNumber is optional; the lowest free bed is used when it is absent.
	BedNumber *int `json:"bed_number" binding:"omitempty,gt=0"`
}

type SwapRequest struct {
	AllocationID1 int64 `json:"allocation_id_1" binding:"required,gt=0"`
	AllocationID2 int64 `json:"allocation_id_2" binding:"required,gt=0"`
}

type UnplacedParticipant struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Gender   domain.Gender   `json:"gender"`
	Category domain.Category `json:"category"`
}

// SeatSummary reports the seat generation that follows a bed run.
type SeatSummary struct {
	Generated  bool                `json:"generated"`
	Unassigned int                 `json:"unassigned"`
	Statistics *seating.Statistics `json:"statistics,omitempty"`
}

type AutoAllocateResult struct {
	Success           bool                  `json:"success"`
	RunID             string                `json:"run_id"`
	Seed              uint64                `json:"seed"`
	TotalParticipants int                   `json:"total_participants"`
	AllocatedCount    int                   `json:"allocated_count"`
	ConflictCount     int                   `json:"conflict_count"`
	Message           string                `json:"message"`
	Unplaced          []UnplacedParticipant `json:"unplaced"`
	Warnings          []string              `json:"warnings"`
	Statistics        bedalloc.Statistics   `json:"statistics"`
	Seats             SeatSummary           `json:"seats"`
}

// View is an allocation with the names an operator reads.
type View struct {
	domain.Allocation
	ParticipantName string `json:"participant_name"`
	RoomNumber      string `json:"room_number"`
	BedCode         string `json:"bed_code"`
}

type SwapResult struct {
	First  domain.Allocation `json:"first"`
	Second domain.Allocation `json:"second"`
}

type ClearResult struct {
	Allocations int64 `json:"allocations"`
	Seats       int64 `json:"seats"`
}
