package auth

import (
	"context"

	"retreatdesk/internal/domain"
)

// OperatorRepository is what the auth service needs from storage.
type OperatorRepository interface {
	Create(ctx context.Context, o *domain.Operator) error
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
	GetByID(ctx context.Context, id int64) (*domain.Operator, error)
}

type tokenIssuer interface {
	GenerateToken(operatorID int64, role string) (string, error)
}
