package repository

import (
	"context"

	"retreatdesk/internal/domain"

	"gorm.io/gorm"
)

const batchSize = 200

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// CreateBatch inserts participants and fills in their IDs.
func (r *ParticipantRepository) CreateBatch(ctx context.Context, ps []domain.Participant) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&ps, batchSize).Error
}

func (r *ParticipantRepository) ListBySession(ctx context.Context, sessionID int64) ([]domain.Participant, error) {
	var out []domain.Participant
	tx := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&out)
	return out, tx.Error
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	var p domain.Participant
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateClassification stores the derived category and companion group of each participant.
func (r *ParticipantRepository) UpdateClassification(ctx context.Context, ps []domain.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range ps {
			err := tx.Model(&domain.Participant{}).
				Where("id = ?", p.ID).
				Updates(map[string]any{
					"category":           p.Category,
					"companion_group_id": p.CompanionGroupID,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ParticipantRepository) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&domain.Participant{})
	return tx.RowsAffected, tx.Error
}
