package allocation

import (
	"context"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/modules/seat"
)

type ParticipantRepository interface {
	ListBySession(ctx context.Context, sessionID int64) ([]domain.Participant, error)
	GetByID(ctx context.Context, id int64) (*domain.Participant, error)
	UpdateClassification(ctx context.Context, ps []domain.Participant) error
}

type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type AllocationRepository interface {
	ListBySession(ctx context.Context, sessionID int64) ([]domain.Allocation, error)
	GetByID(ctx context.Context, id int64) (*domain.Allocation, error)
	GetByParticipant(ctx context.Context, sessionID, participantID int64) (*domain.Allocation, error)
	ReplaceForSession(ctx context.Context, sessionID int64, allocs []domain.Allocation) ([]domain.Allocation, error)
	UpdateConflicts(ctx context.Context, allocs []domain.Allocation) error
	Confirm(ctx context.Context, sessionID int64) (int64, error)
	DeleteBySession(ctx context.Context, sessionID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	Create(ctx context.Context, a *domain.Allocation) error
	SwapBeds(ctx context.Context, firstID, secondID int64, check func(a, b domain.Allocation) error) (*domain.Allocation, *domain.Allocation, error)
}

// SeatGenerator rebuilds the seat map once beds are settled. Regenerate
// expects the caller to hold the session run lock.
type SeatGenerator interface {
	Regenerate(ctx context.Context, sessionID int64) (*seat.GenerateResult, error)
	ClearSeats(ctx context.Context, sessionID int64) (int64, error)
}
