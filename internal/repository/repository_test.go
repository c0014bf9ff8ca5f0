package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"retreatdesk/internal/database"
	"retreatdesk/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

func seedRooms(t *testing.T, db *gorm.DB) []domain.Room {
	t.Helper()
	rooms := []domain.Room{
		{RoomNumber: "101", Capacity: 2, Type: domain.RoomTypeNew, Status: domain.RoomStatusEnabled, GenderArea: domain.GenderMale},
		{RoomNumber: "102", Capacity: 2, Type: domain.RoomTypeNew, Status: domain.RoomStatusEnabled, GenderArea: domain.GenderMale},
	}
	require.NoError(t, NewRoomRepository(db).CreateBatch(context.Background(), rooms))
	return rooms
}

func TestParticipantRepository_CreateListClassify(t *testing.T) {
	db := setupTestDB(t)
	repo := NewParticipantRepository(db)
	ctx := context.Background()

	ps := []domain.Participant{
		{SessionID: 1, Name: "Ann", Gender: domain.GenderFemale},
		{SessionID: 1, Name: "Ben", Gender: domain.GenderMale},
		{SessionID: 2, Name: "Cy", Gender: domain.GenderMale},
	}
	require.NoError(t, repo.CreateBatch(ctx, ps))
	require.NotZero(t, ps[0].ID)

	list, err := repo.ListBySession(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	group := list[0].ID
	list[0].Category = domain.CategoryNew
	list[0].CompanionGroupID = &group
	list[1].Category = domain.CategoryExperienced
	require.NoError(t, repo.UpdateClassification(ctx, list))

	got, err := repo.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryNew, got.Category)
	require.NotNil(t, got.CompanionGroupID)
	assert.Equal(t, group, *got.CompanionGroupID)

	got, err = repo.GetByID(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Nil(t, got.CompanionGroupID)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomRepository_DuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	seedRooms(t, db)

	err := NewRoomRepository(db).CreateBatch(context.Background(), []domain.Room{
		{RoomNumber: "101", Capacity: 1, Type: domain.RoomTypeOther, Status: domain.RoomStatusEnabled, GenderArea: domain.GenderFemale},
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAllocationRepository_ReplaceConfirmDelete(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db)
	repo := NewAllocationRepository(db)
	ctx := context.Background()

	first := []domain.Allocation{
		{ParticipantID: 1, RoomID: rooms[0].ID, BedNumber: 1, Kind: domain.AllocationAutomatic, IsTemporary: true},
		{ParticipantID: 2, RoomID: rooms[0].ID, BedNumber: 2, Kind: domain.AllocationAutomatic, IsTemporary: true},
	}
	saved, err := repo.ReplaceForSession(ctx, 5, first)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Zero(t, first[0].ID, "input is not modified")

	second := []domain.Allocation{
		{ParticipantID: 3, RoomID: rooms[1].ID, BedNumber: 1, Kind: domain.AllocationAutomatic, IsTemporary: true},
	}
	_, err = repo.ReplaceForSession(ctx, 5, second)
	require.NoError(t, err)

	list, err := repo.ListBySession(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(3), list[0].ParticipantID)

	n, err := repo.Confirm(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	got, err := repo.GetByParticipant(ctx, 5, 3)
	require.NoError(t, err)
	assert.False(t, got.IsTemporary)

	got.ConflictFlag = true
	got.ConflictReason = "companion x assigned to a different room"
	require.NoError(t, repo.UpdateConflicts(ctx, []domain.Allocation{*got}))
	got, err = repo.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.True(t, got.ConflictFlag)

	require.NoError(t, repo.Delete(ctx, got.ID))
	assert.ErrorIs(t, repo.Delete(ctx, got.ID), gorm.ErrRecordNotFound)
}

func TestAllocationRepository_UniqueBed(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db)
	repo := NewAllocationRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Allocation{SessionID: 1, ParticipantID: 1, RoomID: rooms[0].ID, BedNumber: 1, Kind: domain.AllocationManual}))
	err := repo.Create(ctx, &domain.Allocation{SessionID: 1, ParticipantID: 2, RoomID: rooms[0].ID, BedNumber: 1, Kind: domain.AllocationManual})
	assert.ErrorIs(t, err, ErrDuplicate)
	err = repo.Create(ctx, &domain.Allocation{SessionID: 1, ParticipantID: 1, RoomID: rooms[1].ID, BedNumber: 1, Kind: domain.AllocationManual})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAllocationRepository_SwapBeds(t *testing.T) {
	db := setupTestDB(t)
	rooms := seedRooms(t, db)
	repo := NewAllocationRepository(db)
	ctx := context.Background()

	saved, err := repo.ReplaceForSession(ctx, 1, []domain.Allocation{
		{ParticipantID: 1, RoomID: rooms[0].ID, BedNumber: 1, Kind: domain.AllocationAutomatic},
		{ParticipantID: 2, RoomID: rooms[1].ID, BedNumber: 2, Kind: domain.AllocationAutomatic},
	})
	require.NoError(t, err)

	a, b, err := repo.SwapBeds(ctx, saved[0].ID, saved[1].ID, nil)
	require.NoError(t, err)
	assert.Equal(t, rooms[1].ID, a.RoomID)
	assert.Equal(t, 2, a.BedNumber)
	assert.Equal(t, rooms[0].ID, b.RoomID)

	stored, err := repo.GetByParticipant(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, rooms[1].ID, stored.RoomID)
	assert.Equal(t, 2, stored.BedNumber)

	refused := errors.New("refused")
	_, _, err = repo.SwapBeds(ctx, saved[0].ID, saved[1].ID, func(a, b domain.Allocation) error { return refused })
	assert.ErrorIs(t, err, refused)
	stored, err = repo.GetByParticipant(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, rooms[1].ID, stored.RoomID, "refused swap leaves rows untouched")
}

func TestSeatRepository_ReplaceAndMutate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSeatRepository(db)
	ctx := context.Background()

	pid := int64(7)
	seats := []domain.Seat{
		{Row: 0, Col: 0, SeatType: domain.SeatTypeStudent, Status: domain.SeatStatusAllocated, RegionCode: "A", ParticipantID: &pid},
		{Row: 0, Col: 1, SeatType: domain.SeatTypeStudent, Status: domain.SeatStatusAvailable, RegionCode: "A"},
		{Row: 0, Col: 2, SeatType: domain.SeatTypeStudent, Status: domain.SeatStatusAvailable, RegionCode: "B"},
	}
	saved, err := repo.ReplaceForSession(ctx, 3, seats, func(in []domain.Seat) []domain.Seat {
		out := append([]domain.Seat(nil), in...)
		id := out[1].ID
		out[0].CompanionSeatID = &id
		return out
	})
	require.NoError(t, err)
	require.Len(t, saved, 3)

	got, err := repo.GetByID(ctx, saved[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompanionSeatID)
	assert.Equal(t, saved[1].ID, *got.CompanionSeatID)

	regionA, err := repo.ListBySession(ctx, 3, "A")
	require.NoError(t, err)
	assert.Len(t, regionA, 2)

	changed, err := repo.Mutate(ctx, 3, func(all []domain.Seat) ([]domain.Seat, error) {
		require.Len(t, all, 3)
		s := all[2]
		s.SeatNumber = "B1"
		return []domain.Seat{s}, nil
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	got, err = repo.GetByID(ctx, saved[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "B1", got.SeatNumber)

	_, err = repo.Mutate(ctx, 3, func(all []domain.Seat) ([]domain.Seat, error) {
		return nil, errors.New("stop")
	})
	assert.Error(t, err)

	n, err := repo.DeleteBySession(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestHallConfigRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHallConfigRepository(db)
	ctx := context.Background()

	cfg := &domain.HallConfig{SessionID: 4, HallName: "Main", Layout: `{"sections":[]}`}
	require.NoError(t, repo.Upsert(ctx, cfg))
	firstID := cfg.ID
	require.NotZero(t, firstID)

	// a stray second row is removed by the next upsert
	require.NoError(t, db.Create(&domain.HallConfig{SessionID: 4, HallName: "Stray", Layout: "{}"}).Error)

	next := &domain.HallConfig{SessionID: 4, HallName: "Renamed", Layout: `{"sections":[]}`}
	require.NoError(t, repo.Upsert(ctx, next))
	assert.Equal(t, firstID, next.ID)

	list, err := repo.ListBySession(ctx, 4)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].HallName)
}

func TestOperatorRepository_EmailIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOperatorRepository(db)
	ctx := context.Background()

	op := &domain.Operator{Email: " Admin@Example.com ", PasswordHash: "x", Role: domain.RoleAdmin}
	require.NoError(t, repo.Create(ctx, op))
	assert.Equal(t, "admin@example.com", op.Email)

	got, err := repo.GetByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	err = repo.Create(ctx, &domain.Operator{Email: "admin@example.com", PasswordHash: "y", Role: domain.RoleOperator})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: rooms.room_number")))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}
