package repository

import (
	"context"

	"retreatdesk/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) CreateBatch(ctx context.Context, rooms []domain.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	return wrapWrite(r.db.WithContext(ctx).CreateInBatches(&rooms, batchSize).Error)
}

func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	tx := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, tx.Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}
