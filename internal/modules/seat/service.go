package seat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"

	"retreatdesk/internal/allocation"
	"retreatdesk/internal/domain"
	"retreatdesk/internal/events"
	"retreatdesk/internal/layout"
	"retreatdesk/internal/lock"
	"retreatdesk/internal/modules/hallconfig"
	"retreatdesk/internal/seating"

	"gorm.io/gorm"
)

type Service struct {
	seats        SeatRepository
	participants ParticipantReader
	allocations  AllocationReader
	rooms        RoomReader
	layouts      LayoutSource
	classifier   *allocation.Classifier
	locker       lock.SessionLocker
	publisher    events.Publisher
}

func NewService(
	seats SeatRepository,
	participants ParticipantReader,
	allocations AllocationReader,
	rooms RoomReader,
	layouts LayoutSource,
	classifier *allocation.Classifier,
	locker lock.SessionLocker,
	publisher events.Publisher,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if classifier == nil {
		classifier = allocation.NewClassifier(nil)
	}
	return &Service{
		seats:        seats,
		participants: participants,
		allocations:  allocations,
		rooms:        rooms,
		layouts:      layouts,
		classifier:   classifier,
		locker:       locker,
		publisher:    publisher,
	}
}

// sessionData is what seat annotation needs to know about a session.
type sessionData struct {
	participants []domain.Participant
	byID         map[int64]domain.Participant
	bedCodes     map[int64]string
}

func (s *Service) loadSession(ctx context.Context, sessionID int64) (*sessionData, error) {
	ps, err := s.participants.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ps = s.classifier.Classify(ps)
	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Participant, len(ps))
	for _, p := range ps {
		byID[p.ID] = p
	}
	return &sessionData{
		participants: ps,
		byID:         byID,
		bedCodes:     seating.BedCodes(allocs, rooms),
	}, nil
}

// highlightRules tolerates a session without hall configuration.
func (s *Service) highlightRules(ctx context.Context, sessionID int64) ([]layout.HighlightRule, error) {
	_, l, err := s.layouts.ActiveLayout(ctx, sessionID)
	if errors.Is(err, hallconfig.ErrHallConfigMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l.HighlightRules, nil
}

// GenerateSeats rebuilds the seat map of a session under the run lock.
func (s *Service) GenerateSeats(ctx context.Context, sessionID int64) (*GenerateResult, error) {
	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.Regenerate(ctx, sessionID)
}

// Regenerate rebuilds the seat map. The caller must hold the session run lock.
func (s *Service) Regenerate(ctx context.Context, sessionID int64) (*GenerateResult, error) {
	cfg, l, err := s.layouts.ActiveLayout(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	compiled := layout.Compile(l)
	res := seating.Allocate(compiled, allocation.SortByPriority(data.participants), seating.Options{
		SessionID:    sessionID,
		HallConfigID: cfg.ID,
		GenderType:   l.GenderType,
		RegionCode:   cfg.RegionCode,
	})

	seats := seating.Number(res.Seats, compiled)
	seats = seating.BindBedCodes(seats, data.bedCodes)
	seats = seating.Highlight(seats, compiled.HighlightRules, data.byID)

	saved, err := s.seats.ReplaceForSession(ctx, sessionID, seats, func(in []domain.Seat) []domain.Seat {
		return seating.AnnotateCompanions(in, data.participants)
	})
	if err != nil {
		return nil, fmt.Errorf("store seats: %w", err)
	}

	out := &GenerateResult{
		HallConfigID: cfg.ID,
		Seats:        saved,
		Unassigned:   make([]UnseatedParticipant, 0, len(res.Unassigned)),
		Warnings:     append(res.Warnings, seating.Validate(saved, data.byID)...),
		Statistics:   seating.Summarize(saved),
	}
	for _, p := range res.Unassigned {
		out.Unassigned = append(out.Unassigned, UnseatedParticipant{ID: p.ID, Name: p.Name, Gender: p.Gender, Tier: p.Category})
	}

	log.Printf("seat: generated session_id=%d seats=%d occupied=%d unassigned=%d warnings=%d",
		sessionID, len(saved), out.Statistics.Occupied, len(out.Unassigned), len(out.Warnings))
	_ = s.publisher.Publish(ctx, events.New(events.TypeSeatsGenerated, sessionID, out.Statistics))

	return out, nil
}

func indexOf(seats []domain.Seat, id int64) int {
	for i := range seats {
		if seats[i].ID == id {
			return i
		}
	}
	return -1
}

func changedSeats(before, after []domain.Seat) []domain.Seat {
	var out []domain.Seat
	for i := range after {
		if !reflect.DeepEqual(before[i], after[i]) {
			out = append(out, after[i])
		}
	}
	return out
}

func genderFits(p domain.Participant, seat domain.Seat) bool {
	return !p.Gender.Known() || !seat.Gender.Known() || p.Gender == seat.Gender
}

func (s *Service) getSeat(ctx context.Context, id int64) (*domain.Seat, error) {
	seat, err := s.seats.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return seat, nil
}

func (s *Service) place(seat domain.Seat, pid *int64, data *sessionData, rules []layout.HighlightRule) domain.Seat {
	if pid == nil {
		return seating.Vacate(seat)
	}
	p, ok := data.byID[*pid]
	if !ok {
		p = domain.Participant{ID: *pid}
	}
	return seating.Occupy(seat, p, data.bedCodes[*pid], rules)
}

// SwapSeats exchanges the occupants of two seats of one session and refreshes
// the derived fields of every affected seat.
func (s *Service) SwapSeats(ctx context.Context, req SwapRequest) (*ChangeResult, error) {
	if req.SeatID1 == req.SeatID2 {
		return nil, ErrSameSeat
	}
	first, err := s.getSeat(ctx, req.SeatID1)
	if err != nil {
		return nil, err
	}
	second, err := s.getSeat(ctx, req.SeatID2)
	if err != nil {
		return nil, err
	}
	if first.SessionID != second.SessionID {
		return nil, ErrCrossSession
	}
	sessionID := first.SessionID

	data, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rules, err := s.highlightRules(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed, err := s.seats.Mutate(ctx, sessionID, func(all []domain.Seat) ([]domain.Seat, error) {
		ia, ib := indexOf(all, req.SeatID1), indexOf(all, req.SeatID2)
		if ia < 0 || ib < 0 {
			return nil, ErrSeatNotFound
		}
		a, b := all[ia], all[ib]
		if a.IsReserved() || b.IsReserved() {
			return nil, ErrSeatReserved
		}
		if !a.Occupied() && !b.Occupied() {
			return nil, ErrBothSeatsEmpty
		}
		if a.Occupied() && !genderFits(data.byID[*a.ParticipantID], b) {
			return nil, ErrGenderMismatch
		}
		if b.Occupied() && !genderFits(data.byID[*b.ParticipantID], a) {
			return nil, ErrGenderMismatch
		}

		after := append([]domain.Seat(nil), all...)
		after[ia] = s.place(a, b.ParticipantID, data, rules)
		after[ib] = s.place(b, a.ParticipantID, data, rules)
		after = seating.AnnotateCompanions(after, data.participants)
		return changedSeats(all, after), nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("seat: swapped session_id=%d seat_a=%d seat_b=%d changed=%d", sessionID, req.SeatID1, req.SeatID2, len(changed))
	_ = s.publisher.Publish(ctx, events.New(events.TypeSeatSwapped, sessionID, changed))
	return &ChangeResult{Changed: changed}, nil
}

// AssignSeat moves a participant into a seat, leaving their previous seat
// empty. A participant id of zero or less empties the seat.
func (s *Service) AssignSeat(ctx context.Context, req AssignRequest) (*ChangeResult, error) {
	target, err := s.getSeat(ctx, req.SeatID)
	if err != nil {
		return nil, err
	}
	sessionID := target.SessionID

	var participant *domain.Participant
	if req.ParticipantID > 0 {
		participant, err = s.participants.GetByID(ctx, req.ParticipantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParticipantNotFound
			}
			return nil, err
		}
		if participant.SessionID != sessionID {
			return nil, ErrCrossSession
		}
	}

	data, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rules, err := s.highlightRules(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed, err := s.seats.Mutate(ctx, sessionID, func(all []domain.Seat) ([]domain.Seat, error) {
		it := indexOf(all, req.SeatID)
		if it < 0 {
			return nil, ErrSeatNotFound
		}
		seat := all[it]
		if seat.IsReserved() {
			return nil, ErrSeatReserved
		}
		after := append([]domain.Seat(nil), all...)

		if participant == nil {
			after[it] = seating.Vacate(seat)
		} else {
			if seat.Occupied() && *seat.ParticipantID != participant.ID {
				return nil, ErrSeatOccupied
			}
			if !genderFits(*participant, seat) {
				return nil, ErrGenderMismatch
			}
			for i := range after {
				if i != it && after[i].Occupied() && *after[i].ParticipantID == participant.ID {
					after[i] = seating.Vacate(after[i])
				}
			}
			pid := participant.ID
			after[it] = s.place(seat, &pid, data, rules)
		}

		after = seating.AnnotateCompanions(after, data.participants)
		return changedSeats(all, after), nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("seat: assigned session_id=%d seat_id=%d participant_id=%d changed=%d", sessionID, req.SeatID, req.ParticipantID, len(changed))
	_ = s.publisher.Publish(ctx, events.New(events.TypeSeatAssigned, sessionID, changed))
	return &ChangeResult{Changed: changed}, nil
}

func (s *Service) ListSeats(ctx context.Context, sessionID int64, region string) ([]domain.Seat, error) {
	return s.seats.ListBySession(ctx, sessionID, region)
}

func (s *Service) GetSeat(ctx context.Context, id int64) (*domain.Seat, error) {
	return s.getSeat(ctx, id)
}

func (s *Service) Statistics(ctx context.Context, sessionID int64) (seating.Statistics, error) {
	seats, err := s.seats.ListBySession(ctx, sessionID, "")
	if err != nil {
		return seating.Statistics{}, err
	}
	return seating.Summarize(seats), nil
}

func (s *Service) ClearSeats(ctx context.Context, sessionID int64) (int64, error) {
	n, err := s.seats.DeleteBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	log.Printf("seat: cleared session_id=%d seats=%d", sessionID, n)
	return n, nil
}
