package auth

import "retreatdesk/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateOperatorRequest struct {
	Email    string              `json:"email" binding:"required,email"`
	Password string              `json:"password" binding:"required,min=8"`
	Name     string              `json:"name" binding:"required"`
	Role     domain.OperatorRole `json:"role" binding:"required,oneof=admin operator"`
}

type OperatorPublic struct {
	ID    int64               `json:"id"`
	Email string              `json:"email"`
	Name  string              `json:"name"`
	Role  domain.OperatorRole `json:"role"`
}

func toPublic(o *domain.Operator) OperatorPublic {
	return OperatorPublic{ID: o.ID, Email: o.Email, Name: o.Name, Role: o.Role}
}
