package hallconfig

import (
	"context"

	"retreatdesk/internal/domain"
)

type Repository interface {
	ListBySession(ctx context.Context, sessionID int64) ([]domain.HallConfig, error)
	Upsert(ctx context.Context, cfg *domain.HallConfig) error
}
