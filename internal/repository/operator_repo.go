package repository

import (
	"context"
	"strings"
	"time"

	"retreatdesk/internal/domain"

	"gorm.io/gorm"
)

type OperatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

type operatorModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Name         string    `gorm:"column:name"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (operatorModel) TableName() string { return "operators" }

func toDomainOperator(m operatorModel) *domain.Operator {
	return &domain.Operator{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         domain.OperatorRole(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toOperatorModel(o *domain.Operator) operatorModel {
	return operatorModel{
		ID:           o.ID,
		Email:        strings.TrimSpace(strings.ToLower(o.Email)),
		PasswordHash: o.PasswordHash,
		Name:         o.Name,
		Role:         string(o.Role),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (r *OperatorRepository) Create(ctx context.Context, o *domain.Operator) error {
	m := toOperatorModel(o)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return wrapWrite(err)
	}
	*o = *toDomainOperator(m)
	return nil
}

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	var m operatorModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainOperator(m), nil
}

func (r *OperatorRepository) GetByID(ctx context.Context, id int64) (*domain.Operator, error) {
	var m operatorModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainOperator(m), nil
}
