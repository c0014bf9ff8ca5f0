package seat

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"retreatdesk/internal/allocation"
	"retreatdesk/internal/database"
	"retreatdesk/internal/domain"
	"retreatdesk/internal/events"
	"retreatdesk/internal/layout"
	"retreatdesk/internal/lock"
	"retreatdesk/internal/modules/hallconfig"
	"retreatdesk/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	svc       *Service
	db        *gorm.DB
	halls     *hallconfig.Service
	publisher *recordingPublisher
	locker    *lock.LocalLocker
	people    map[string]domain.Participant
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:seat_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	participants := repository.NewParticipantRepository(db)
	halls := hallconfig.NewService(repository.NewHallConfigRepository(db))
	publisher := &recordingPublisher{}
	locker := lock.NewLocalLocker()

	svc := NewService(
		repository.NewSeatRepository(db),
		participants,
		repository.NewAllocationRepository(db),
		repository.NewRoomRepository(db),
		halls,
		allocation.NewClassifier(nil),
		locker,
		publisher,
	)
	return &fixture{svc: svc, db: db, halls: halls, publisher: publisher, locker: locker, people: map[string]domain.Participant{}}
}

// seedSession stores four men, one woman and a single men's section of 2x3.
func (f *fixture) seedSession(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	ps := []domain.Participant{
		{SessionID: 1, Name: "Arjun", Gender: domain.GenderMale, Age: 50, CourseCount: 3},
		{SessionID: 1, Name: "Bao", Gender: domain.GenderMale, Age: 40, CourseCount: 1},
		{SessionID: 1, Name: "Chen Wei", Gender: domain.GenderMale, Age: 30, CompanionList: "Li Ming"},
		{SessionID: 1, Name: "Li Ming", Gender: domain.GenderMale, Age: 28},
		{SessionID: 1, Name: "Mira", Gender: domain.GenderFemale, Age: 35},
	}
	require.NoError(t, repository.NewParticipantRepository(f.db).CreateBatch(ctx, ps))
	stored, err := repository.NewParticipantRepository(f.db).ListBySession(ctx, 1)
	require.NoError(t, err)
	for _, p := range stored {
		f.people[p.Name] = p
	}

	_, err = f.halls.Upsert(ctx, 1, hallconfig.UpsertRequest{
		HallName: "Main hall",
		Layout: layout.HallLayout{
			Sections: []layout.Section{{Name: "A", RowStart: 0, RowEnd: 1, ColStart: 0, ColEnd: 2}},
		},
	})
	require.NoError(t, err)
}

func seatOf(seats []domain.Seat, pid int64) (domain.Seat, bool) {
	for _, s := range seats {
		if s.ParticipantID != nil && *s.ParticipantID == pid {
			return s, true
		}
	}
	return domain.Seat{}, false
}

func firstEmpty(seats []domain.Seat) domain.Seat {
	for _, s := range seats {
		if !s.Occupied() && !s.IsReserved() {
			return s
		}
	}
	return domain.Seat{}
}

func TestGenerateSeats(t *testing.T) {
	f := setupFixture(t)
	f.seedSession(t)
	ctx := context.Background()

	res, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)

	assert.Len(t, res.Seats, 6)
	assert.Equal(t, 4, res.Statistics.Occupied)
	assert.Equal(t, 2, res.Statistics.Available)
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, f.people["Mira"].ID, res.Unassigned[0].ID)
	assert.Contains(t, res.Warnings, "hall capacity shortfall: 1 participants without a seat")

	for _, s := range res.Seats {
		assert.NotZero(t, s.ID)
		assert.Equal(t, domain.GenderMale, s.Gender)
		assert.NotEmpty(t, s.SeatNumber)
	}

	chen, ok := seatOf(res.Seats, f.people["Chen Wei"].ID)
	require.True(t, ok)
	assert.True(t, chen.WithCompanion)
	assert.Equal(t, "Li Ming", chen.CompanionName)
	require.NotNil(t, chen.CompanionSeatID)

	stored, err := f.svc.ListSeats(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, stored, 6)
	assert.Equal(t, []string{events.TypeSeatsGenerated}, f.publisher.types())
}

func TestGenerateSeats_Errors(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.GenerateSeats(ctx, 1)
	assert.ErrorIs(t, err, hallconfig.ErrHallConfigMissing)

	release, err := f.locker.Acquire(ctx, 1)
	require.NoError(t, err)
	defer release()
	_, err = f.svc.GenerateSeats(ctx, 1)
	assert.ErrorIs(t, err, lock.ErrSessionBusy)
}

func TestGenerateSeats_Regenerates(t *testing.T) {
	f := setupFixture(t)
	f.seedSession(t)
	ctx := context.Background()

	first, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)
	second, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)

	stored, err := f.svc.ListSeats(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, stored, 6)
	for i := range first.Seats {
		assert.Equal(t, first.Seats[i].ParticipantID, second.Seats[i].ParticipantID)
		assert.Equal(t, first.Seats[i].SeatNumber, second.Seats[i].SeatNumber)
	}
}

func TestSwapSeats(t *testing.T) {
	f := setupFixture(t)
	f.seedSession(t)
	ctx := context.Background()

	res, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)
	arjun, ok := seatOf(res.Seats, f.people["Arjun"].ID)
	require.True(t, ok)
	empty := firstEmpty(res.Seats)
	require.NotZero(t, empty.ID)

	out, err := f.svc.SwapSeats(ctx, SwapRequest{SeatID1: arjun.ID, SeatID2: empty.ID})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(out.Changed), 2)

	stored, err := f.svc.ListSeats(ctx, 1, "")
	require.NoError(t, err)
	moved, ok := seatOf(stored, f.people["Arjun"].ID)
	require.True(t, ok)
	assert.Equal(t, empty.ID, moved.ID)
	assert.Equal(t, domain.SeatStatusAllocated, moved.Status)
	assert.True(t, moved.IsExperienced)

	old, err := f.svc.GetSeat(ctx, arjun.ID)
	require.NoError(t, err)
	assert.False(t, old.Occupied())
	assert.Equal(t, domain.SeatStatusAvailable, old.Status)
	assert.Contains(t, f.publisher.types(), events.TypeSeatSwapped)
}

func TestSwapSeats_Rejects(t *testing.T) {
	f := setupFixture(t)
	f.seedSession(t)
	ctx := context.Background()

	res, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)
	var empties []domain.Seat
	for _, s := range res.Seats {
		if !s.Occupied() {
			empties = append(empties, s)
		}
	}
	require.Len(t, empties, 2)

	_, err = f.svc.SwapSeats(ctx, SwapRequest{SeatID1: empties[0].ID, SeatID2: empties[0].ID})
	assert.ErrorIs(t, err, ErrSameSeat)

	_, err = f.svc.SwapSeats(ctx, SwapRequest{SeatID1: empties[0].ID, SeatID2: empties[1].ID})
	assert.ErrorIs(t, err, ErrBothSeatsEmpty)

	_, err = f.svc.SwapSeats(ctx, SwapRequest{SeatID1: empties[0].ID, SeatID2: 9999})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestAssignSeat(t *testing.T) {
	f := setupFixture(t)
	f.seedSession(t)
	ctx := context.Background()

	res, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)
	bao := f.people["Bao"]
	before, ok := seatOf(res.Seats, bao.ID)
	require.True(t, ok)
	empty := firstEmpty(res.Seats)

	_, err = f.svc.AssignSeat(ctx, AssignRequest{SeatID: empty.ID, ParticipantID: bao.ID})
	require.NoError(t, err)

	stored, err := f.svc.ListSeats(ctx, 1, "")
	require.NoError(t, err)
	now, ok := seatOf(stored, bao.ID)
	require.True(t, ok)
	assert.Equal(t, empty.ID, now.ID)
	old, err := f.svc.GetSeat(ctx, before.ID)
	require.NoError(t, err)
	assert.False(t, old.Occupied())

	_, err = f.svc.AssignSeat(ctx, AssignRequest{SeatID: empty.ID, ParticipantID: 0})
	require.NoError(t, err)
	cleared, err := f.svc.GetSeat(ctx, empty.ID)
	require.NoError(t, err)
	assert.False(t, cleared.Occupied())
}

func TestAssignSeat_Rejects(t *testing.T) {
	f := setupFixture(t)
	f.seedSession(t)
	ctx := context.Background()

	res, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)
	empty := firstEmpty(res.Seats)
	arjun, _ := seatOf(res.Seats, f.people["Arjun"].ID)

	_, err = f.svc.AssignSeat(ctx, AssignRequest{SeatID: empty.ID, ParticipantID: f.people["Mira"].ID})
	assert.ErrorIs(t, err, ErrGenderMismatch)

	_, err = f.svc.AssignSeat(ctx, AssignRequest{SeatID: arjun.ID, ParticipantID: f.people["Bao"].ID})
	assert.ErrorIs(t, err, ErrSeatOccupied)

	_, err = f.svc.AssignSeat(ctx, AssignRequest{SeatID: empty.ID, ParticipantID: 9999})
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	_, err = f.svc.AssignSeat(ctx, AssignRequest{SeatID: 9999, ParticipantID: f.people["Bao"].ID})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestAssignSeat_ReservedStaysBlocked(t *testing.T) {
	f := setupFixture(t)
	f.seedSession(t)
	ctx := context.Background()

	res, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)
	empty := firstEmpty(res.Seats)
	require.NoError(t, f.db.Model(&domain.Seat{}).Where("id = ?", empty.ID).
		Update("status", domain.SeatStatusReserved).Error)

	_, err = f.svc.AssignSeat(ctx, AssignRequest{SeatID: empty.ID, ParticipantID: 0})
	assert.ErrorIs(t, err, ErrSeatReserved)
	_, err = f.svc.AssignSeat(ctx, AssignRequest{SeatID: empty.ID, ParticipantID: f.people["Bao"].ID})
	assert.ErrorIs(t, err, ErrSeatReserved)

	got, err := f.svc.GetSeat(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SeatStatusReserved, got.Status)
}

func TestStatisticsAndClear(t *testing.T) {
	f := setupFixture(t)
	f.seedSession(t)
	ctx := context.Background()

	_, err := f.svc.GenerateSeats(ctx, 1)
	require.NoError(t, err)

	st, err := f.svc.Statistics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 4, st.Occupied)
	assert.Equal(t, 2, st.Experienced)

	n, err := f.svc.ClearSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	st, err = f.svc.Statistics(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, st.Total)
}
