package seat

import (
	"context"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

type SeatRepository interface {
	ReplaceForSession(ctx context.Context, sessionID int64, seats []domain.Seat, finalize func([]domain.Seat) []domain.Seat) ([]domain.Seat, error)
	ListBySession(ctx context.Context, sessionID int64, region string) ([]domain.Seat, error)
	GetByID(ctx context.Context, id int64) (*domain.Seat, error)
	DeleteBySession(ctx context.Context, sessionID int64) (int64, error)
	Mutate(ctx context.Context, sessionID int64, fn func(seats []domain.Seat) ([]domain.Seat, error)) ([]domain.Seat, error)
}

type ParticipantReader interface {
	ListBySession(ctx context.Context, sessionID int64) ([]domain.Participant, error)
	GetByID(ctx context.Context, id int64) (*domain.Participant, error)
}

type AllocationReader interface {
	ListBySession(ctx context.Context, sessionID int64) ([]domain.Allocation, error)
}

type RoomReader interface {
	List(ctx context.Context) ([]domain.Room, error)
}

// LayoutSource resolves the hall layout of a session.
type LayoutSource interface {
	ActiveLayout(ctx context.Context, sessionID int64) (*domain.HallConfig, layout.HallLayout, error)
}
