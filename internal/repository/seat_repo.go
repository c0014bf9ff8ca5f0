package repository

import (
	"context"

	"retreatdesk/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeatRepository struct {
	db *gorm.DB
}

func NewSeatRepository(db *gorm.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// ReplaceForSession swaps the whole seat map of a session. finalize, when
// set, runs on the inserted seats (IDs assigned) and its result is saved in
// the same transaction.
func (r *SeatRepository) ReplaceForSession(ctx context.Context, sessionID int64, seats []domain.Seat, finalize func([]domain.Seat) []domain.Seat) ([]domain.Seat, error) {
	out := append([]domain.Seat(nil), seats...)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&domain.Seat{}).Error; err != nil {
			return err
		}
		if len(out) == 0 {
			return nil
		}
		for i := range out {
			out[i].ID = 0
			out[i].SessionID = sessionID
		}
		if err := tx.CreateInBatches(&out, batchSize).Error; err != nil {
			return err
		}
		if finalize == nil {
			return nil
		}
		out = finalize(out)
		for i := range out {
			if err := tx.Save(&out[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySession returns seats in row-major order. An empty region lists all regions.
func (r *SeatRepository) ListBySession(ctx context.Context, sessionID int64, region string) ([]domain.Seat, error) {
	q := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if region != "" {
		q = q.Where("region_code = ?", region)
	}
	var out []domain.Seat
	tx := q.Order("row_index ASC, col_index ASC, region_code ASC").Find(&out)
	return out, tx.Error
}

func (r *SeatRepository) GetByID(ctx context.Context, id int64) (*domain.Seat, error) {
	var s domain.Seat
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SeatRepository) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&domain.Seat{})
	return tx.RowsAffected, tx.Error
}

// Mutate locks the seats of a session, hands them to fn and saves the seats fn
// returns. Nothing is written when fn fails.
func (r *SeatRepository) Mutate(ctx context.Context, sessionID int64, fn func(seats []domain.Seat) ([]domain.Seat, error)) ([]domain.Seat, error) {
	var changed []domain.Seat
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seats []domain.Seat
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_id = ?", sessionID).
			Order("row_index ASC, col_index ASC, region_code ASC").
			Find(&seats).Error
		if err != nil {
			return err
		}
		changed, err = fn(seats)
		if err != nil {
			return err
		}
		for i := range changed {
			if err := tx.Save(&changed[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}
