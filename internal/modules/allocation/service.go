package allocation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	bedalloc "retreatdesk/internal/allocation"
	"retreatdesk/internal/companion"
	"retreatdesk/internal/domain"
	"retreatdesk/internal/events"
	"retreatdesk/internal/lock"
	"retreatdesk/internal/modules/hallconfig"
	"retreatdesk/internal/repository"
	"retreatdesk/internal/seating"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	participants ParticipantRepository
	rooms        RoomRepository
	allocations  AllocationRepository
	seats        SeatGenerator
	classifier   *bedalloc.Classifier
	locker       lock.SessionLocker
	publisher    events.Publisher

	// seed fixes the room shuffle; nil draws one per run.
	seed *uint64
}

type Option func(*Service)

func WithSeed(seed *uint64) Option {
	return func(s *Service) { s.seed = seed }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func NewService(
	participants ParticipantRepository,
	rooms RoomRepository,
	allocations AllocationRepository,
	seats SeatGenerator,
	classifier *bedalloc.Classifier,
	locker lock.SessionLocker,
	opts ...Option,
) *Service {
	if classifier == nil {
		classifier = bedalloc.NewClassifier(nil)
	}
	s := &Service{
		participants: participants,
		rooms:        rooms,
		allocations:  allocations,
		seats:        seats,
		classifier:   classifier,
		locker:       locker,
		publisher:    events.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) nextSeed() uint64 {
	if s.seed != nil {
		return *s.seed
	}
	return rand.Uint64()
}

// AutoAllocate assigns beds to every participant of a session, separates
// co-located companions, flags companion conflicts and regenerates the seat
// map. Shortfalls are reported in the result, never as errors.
func (s *Service) AutoAllocate(ctx context.Context, sessionID int64) (*AutoAllocateResult, error) {
	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	ps, err := s.participants.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, ErrNoParticipants
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	if !anyAllocatable(rooms) {
		return nil, ErrNoRooms
	}

	classified, links, groups := companion.Assign(s.classifier.Classify(ps))
	if err := s.participants.UpdateClassification(ctx, classified); err != nil {
		return nil, fmt.Errorf("store classification: %w", err)
	}

	runID := uuid.NewString()
	seed := s.nextSeed()
	plan := bedalloc.AllocateBeds(sessionID, bedalloc.SortByPriority(classified), rooms, bedalloc.NewRand(seed))

	roomGender := make(map[int64]domain.Gender, len(rooms))
	for _, r := range rooms {
		roomGender[r.ID] = r.GenderArea
	}
	split, splitWarnings := bedalloc.SplitCompanions(plan.Allocations, groups, roomGender)

	saved, err := s.allocations.ReplaceForSession(ctx, sessionID, split)
	if err != nil {
		return nil, fmt.Errorf("store allocations: %w", err)
	}
	conflicts := bedalloc.DetectConflicts(saved, classified, links, groups)
	flagged := bedalloc.ApplyConflicts(saved, conflicts)
	if err := s.allocations.UpdateConflicts(ctx, flagged); err != nil {
		return nil, fmt.Errorf("store conflicts: %w", err)
	}

	res := &AutoAllocateResult{
		Success:           true,
		RunID:             runID,
		Seed:              seed,
		TotalParticipants: len(ps),
		AllocatedCount:    len(flagged),
		ConflictCount:     bedalloc.ConflictedAllocations(conflicts),
		Unplaced:          make([]UnplacedParticipant, 0, len(plan.Unplaced)),
		Warnings:          append(append([]string{}, plan.Warnings...), splitWarnings...),
		Statistics:        bedalloc.Summarize(classified, flagged, groups),
	}
	for _, p := range plan.Unplaced {
		res.Unplaced = append(res.Unplaced, UnplacedParticipant{ID: p.ID, Name: p.Name, Gender: p.Gender, Category: p.Category})
	}

	seatRes, err := s.seats.Regenerate(ctx, sessionID)
	switch {
	case err == nil:
		res.Seats = SeatSummary{Generated: true, Unassigned: len(seatRes.Unassigned), Statistics: &seatRes.Statistics}
		res.Warnings = append(res.Warnings, seatRes.Warnings...)
	case errors.Is(err, hallconfig.ErrHallConfigMissing):
		if _, err := s.seats.ClearSeats(ctx, sessionID); err != nil {
			return nil, err
		}
		res.Warnings = append(res.Warnings, "no hall configuration for the session, seats were not generated")
	case errors.Is(err, hallconfig.ErrHallConfigAmbiguous), errors.Is(err, hallconfig.ErrInvalidLayout):
		res.Warnings = append(res.Warnings, fmt.Sprintf("seats were not generated: %v", err))
	default:
		return nil, fmt.Errorf("generate seats: %w", err)
	}

	res.Message = fmt.Sprintf("allocated %d of %d participants", res.AllocatedCount, res.TotalParticipants)
	log.Printf("allocation_run session_id=%d run_id=%s seed=%d allocated=%d unplaced=%d conflicts=%d warnings=%d",
		sessionID, runID, seed, res.AllocatedCount, len(res.Unplaced), res.ConflictCount, len(res.Warnings))

	_ = s.publisher.Publish(ctx, events.New(events.TypeAllocationCompleted, sessionID, map[string]any{
		"run_id":    runID,
		"allocated": res.AllocatedCount,
		"unplaced":  len(res.Unplaced),
		"conflicts": res.ConflictCount,
	}))
	return res, nil
}

func anyAllocatable(rooms []domain.Room) bool {
	for _, r := range rooms {
		if r.Allocatable() {
			return true
		}
	}
	return false
}

// companionState resolves companion links from the stored roster.
func (s *Service) companionState(ctx context.Context, sessionID int64) ([]domain.Participant, companion.Links, map[int64]int64, error) {
	ps, err := s.participants.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, companion.Links{}, nil, err
	}
	ps = s.classifier.Classify(ps)
	links := companion.Resolve(ps)
	return ps, links, companion.Groups(ps, links), nil
}

// DetectConflicts re-evaluates companion conflicts from stored allocations and
// writes the flags back.
func (s *Service) DetectConflicts(ctx context.Context, sessionID int64) ([]domain.Conflict, error) {
	ps, links, groups, err := s.companionState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	conflicts := bedalloc.DetectConflicts(allocs, ps, links, groups)
	if err := s.allocations.UpdateConflicts(ctx, bedalloc.ApplyConflicts(allocs, conflicts)); err != nil {
		return nil, err
	}
	if conflicts == nil {
		conflicts = []domain.Conflict{}
	}
	return conflicts, nil
}

func (s *Service) ListAllocations(ctx context.Context, sessionID int64) ([]View, error) {
	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ps, err := s.participants.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(ps))
	for _, p := range ps {
		names[p.ID] = p.Name
	}
	numbers := make(map[int64]string, len(rooms))
	for _, r := range rooms {
		numbers[r.ID] = r.RoomNumber
	}

	out := make([]View, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, View{
			Allocation:      a,
			ParticipantName: names[a.ParticipantID],
			RoomNumber:      numbers[a.RoomID],
			BedCode:         seating.BedCode(numbers[a.RoomID], a.BedNumber),
		})
	}
	return out, nil
}

func (s *Service) Confirm(ctx context.Context, sessionID int64) (int64, error) {
	n, err := s.allocations.Confirm(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	log.Printf("allocation: confirmed session_id=%d allocations=%d", sessionID, n)
	return n, nil
}

// Clear drops every allocation and seat of a session. It is also the rollback
// of an automatic run.
func (s *Service) Clear(ctx context.Context, sessionID int64) (*ClearResult, error) {
	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	allocs, err := s.allocations.DeleteBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	seats, err := s.seats.ClearSeats(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	log.Printf("allocation: cleared session_id=%d allocations=%d seats=%d", sessionID, allocs, seats)
	return &ClearResult{Allocations: allocs, Seats: seats}, nil
}

// CreateManual gives a participant a specific bed, or the lowest free bed of
// the room when no bed number is requested.
func (s *Service) CreateManual(ctx context.Context, sessionID int64, req ManualRequest) (*domain.Allocation, error) {
	p, err := s.participants.GetByID(ctx, req.ParticipantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if p.SessionID != sessionID {
		return nil, ErrParticipantNotFound
	}

	_, err = s.allocations.GetByParticipant(ctx, sessionID, p.ID)
	if err == nil {
		return nil, ErrAlreadyAllocated
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.Status != domain.RoomStatusEnabled {
		return nil, ErrRoomDisabled
	}
	if p.Gender.Known() && room.GenderArea != p.Gender {
		return nil, ErrGenderMismatch
	}

	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	taken := make(map[int]bool)
	for _, a := range allocs {
		if a.RoomID == room.ID {
			taken[a.BedNumber] = true
		}
	}

	bed := 0
	if req.BedNumber != nil {
		bed = *req.BedNumber
		if bed < 1 || bed > room.Capacity {
			return nil, ErrBedOutOfRange
		}
		if taken[bed] {
			return nil, ErrBedTaken
		}
	} else {
		for n := 1; n <= room.Capacity; n++ {
			if !taken[n] {
				bed = n
				break
			}
		}
		if bed == 0 {
			return nil, ErrRoomFull
		}
	}

	a := &domain.Allocation{
		SessionID:     sessionID,
		ParticipantID: p.ID,
		RoomID:        room.ID,
		BedNumber:     bed,
		Kind:          domain.AllocationManual,
	}
	if err := s.allocations.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBedTaken
		}
		return nil, err
	}
	log.Printf("allocation: manual session_id=%d participant_id=%d room=%s bed=%d", sessionID, p.ID, room.RoomNumber, bed)
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.allocations.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationNotFound
		}
		return err
	}
	log.Printf("allocation: deleted allocation_id=%d", id)
	return nil
}

// SwapAllocations exchanges the beds of two participants of one session. Each
// participant must fit the gender area of the room they move into.
func (s *Service) SwapAllocations(ctx context.Context, req SwapRequest) (*SwapResult, error) {
	if req.AllocationID1 == req.AllocationID2 {
		return nil, ErrSameAllocation
	}
	genders := make(map[int64]domain.Gender, 2)
	for _, id := range []int64{req.AllocationID1, req.AllocationID2} {
		a, err := s.allocations.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAllocationNotFound
			}
			return nil, err
		}
		p, err := s.participants.GetByID(ctx, a.ParticipantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if p != nil {
			genders[p.ID] = p.Gender
		}
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	areas := make(map[int64]domain.Gender, len(rooms))
	for _, r := range rooms {
		areas[r.ID] = r.GenderArea
	}

	fits := func(participantID, roomID int64) bool {
		g := genders[participantID]
		return !g.Known() || areas[roomID] == g
	}

	first, second, err := s.allocations.SwapBeds(ctx, req.AllocationID1, req.AllocationID2, func(a, b domain.Allocation) error {
		if a.SessionID != b.SessionID {
			return ErrCrossSession
		}
		if !fits(a.ParticipantID, b.RoomID) || !fits(b.ParticipantID, a.RoomID) {
			return ErrGenderMismatch
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, err
	}
	log.Printf("allocation: swapped session_id=%d first=%d second=%d", first.SessionID, first.ID, second.ID)
	return &SwapResult{First: *first, Second: *second}, nil
}

func (s *Service) Statistics(ctx context.Context, sessionID int64) (bedalloc.Statistics, error) {
	ps, _, groups, err := s.companionState(ctx, sessionID)
	if err != nil {
		return bedalloc.Statistics{}, err
	}
	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return bedalloc.Statistics{}, err
	}
	return bedalloc.Summarize(ps, allocs, groups), nil
}
