package repository

import (
	"context"
	"errors"

	"retreatdesk/internal/domain"

	"gorm.io/gorm"
)

type HallConfigRepository struct {
	db *gorm.DB
}

func NewHallConfigRepository(db *gorm.DB) *HallConfigRepository {
	return &HallConfigRepository{db: db}
}

func (r *HallConfigRepository) ListBySession(ctx context.Context, sessionID int64) ([]domain.HallConfig, error) {
	var out []domain.HallConfig
	tx := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&out)
	return out, tx.Error
}

// Upsert keeps exactly one hall configuration per session: it updates the
// oldest existing row and removes any others.
func (r *HallConfigRepository) Upsert(ctx context.Context, cfg *domain.HallConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.HallConfig
		err := tx.Where("session_id = ?", cfg.SessionID).Order("id ASC").First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cfg.ID = 0
			return tx.Create(cfg).Error
		case err != nil:
			return err
		}

		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
		if err := tx.Save(cfg).Error; err != nil {
			return err
		}
		return tx.Where("session_id = ? AND id <> ?", cfg.SessionID, cfg.ID).
			Delete(&domain.HallConfig{}).Error
	})
}
