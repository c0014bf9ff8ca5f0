package seat

import (
	"retreatdesk/internal/domain"
	"retreatdesk/internal/seating"
)

type SwapRequest struct {
	SeatID1 int64 `json:"seat_id_1" binding:"required,gt=0"`
	SeatID2 int64 `json:"seat_id_2" binding:"required,gt=0"`
}

// AssignRequest seats a participant. A ParticipantID of zero empties the seat.
type AssignRequest struct {
	SeatID        int64 `json:"seat_id" binding:"required,gt=0"`
	ParticipantID int64 `json:"participant_id"`
}

type UnseatedParticipant struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Gender domain.Gender   `json:"gender"`
	Tier   domain.Category `json:"category"`
}

type GenerateResult struct {
	HallConfigID int64                 `json:"hall_config_id"`
	Seats        []domain.Seat         `json:"seats"`
	Unassigned   []UnseatedParticipant `json:"unassigned"`
	Warnings     []string              `json:"warnings"`
	Statistics   seating.Statistics    `json:"statistics"`
}

type ChangeResult struct {
	Changed []domain.Seat `json:"changed"`
}
