package roster

import (
	"context"

	"retreatdesk/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
}

type ParticipantRepository interface {
	CreateBatch(ctx context.Context, ps []domain.Participant) error
	ListBySession(ctx context.Context, sessionID int64) ([]domain.Participant, error)
	UpdateClassification(ctx context.Context, ps []domain.Participant) error
}

type RoomRepository interface {
	CreateBatch(ctx context.Context, rooms []domain.Room) error
	List(ctx context.Context) ([]domain.Room, error)
}
