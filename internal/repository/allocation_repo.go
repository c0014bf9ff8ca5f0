package repository

import (
	"context"

	"retreatdesk/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AllocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

func (r *AllocationRepository) ListBySession(ctx context.Context, sessionID int64) ([]domain.Allocation, error) {
	var out []domain.Allocation
	tx := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("room_id ASC, bed_number ASC").
		Find(&out)
	return out, tx.Error
}

func (r *AllocationRepository) GetByID(ctx context.Context, id int64) (*domain.Allocation, error) {
	var a domain.Allocation
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AllocationRepository) GetByParticipant(ctx context.Context, sessionID, participantID int64) (*domain.Allocation, error) {
	var a domain.Allocation
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND participant_id = ?", sessionID, participantID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ReplaceForSession drops every allocation of the session and inserts allocs
// in one transaction.
func (r *AllocationRepository) ReplaceForSession(ctx context.Context, sessionID int64, allocs []domain.Allocation) ([]domain.Allocation, error) {
	out := append([]domain.Allocation(nil), allocs...)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&domain.Allocation{}).Error; err != nil {
			return err
		}
		if len(out) == 0 {
			return nil
		}
		for i := range out {
			out[i].ID = 0
			out[i].SessionID = sessionID
		}
		return wrapWrite(tx.CreateInBatches(&out, batchSize).Error)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AllocationRepository) UpdateConflicts(ctx context.Context, allocs []domain.Allocation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range allocs {
			err := tx.Model(&domain.Allocation{}).
				Where("id = ?", a.ID).
				Updates(map[string]any{
					"conflict_flag":   a.ConflictFlag,
					"conflict_reason": a.ConflictReason,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Confirm clears the temporary flag on every allocation of the session.
func (r *AllocationRepository) Confirm(ctx context.Context, sessionID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Allocation{}).
		Where("session_id = ? AND is_temporary = ?", sessionID, true).
		Update("is_temporary", false)
	return tx.RowsAffected, tx.Error
}

func (r *AllocationRepository) DeleteBySession(ctx context.Context, sessionID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&domain.Allocation{})
	return tx.RowsAffected, tx.Error
}

func (r *AllocationRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Allocation{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AllocationRepository) Create(ctx context.Context, a *domain.Allocation) error {
	return wrapWrite(r.db.WithContext(ctx).Create(a).Error)
}

// SwapBeds exchanges the room and bed of two allocations. check runs on the
// locked rows before anything is written.
func (r *AllocationRepository) SwapBeds(ctx context.Context, firstID, secondID int64, check func(a, b domain.Allocation) error) (*domain.Allocation, *domain.Allocation, error) {
	var a, b domain.Allocation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, firstID).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, secondID).Error; err != nil {
			return err
		}
		if check != nil {
			if err := check(a, b); err != nil {
				return err
			}
		}

		// park a on a bed number no real bed uses so the unique index holds mid-swap
		if err := tx.Model(&domain.Allocation{}).Where("id = ?", a.ID).
			Update("bed_number", -a.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Allocation{}).Where("id = ?", b.ID).
			Updates(map[string]any{"room_id": a.RoomID, "bed_number": a.BedNumber}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Allocation{}).Where("id = ?", a.ID).
			Updates(map[string]any{"room_id": b.RoomID, "bed_number": b.BedNumber}).Error; err != nil {
			return err
		}

		a.RoomID, b.RoomID = b.RoomID, a.RoomID
		a.BedNumber, b.BedNumber = b.BedNumber, a.BedNumber
		return nil
	})
	if err != nil {
		return nil, nil, wrapWrite(err)
	}
	return &a, &b, nil
}
