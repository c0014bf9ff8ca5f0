package domain

import "time"

type OperatorRole string

const (
	RoleAdmin    OperatorRole = "admin"
	RoleOperator OperatorRole = "operator"
)

type Operator struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string       `json:"-" gorm:"not null"`
	Name         string       `json:"name"`
	Role         OperatorRole `json:"role" gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Operator) TableName() string {
	return "operators"
}
