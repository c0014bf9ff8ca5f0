package roster

import (
	"context"
	"errors"
	"fmt"
	"log"

	"retreatdesk/internal/allocation"
	"retreatdesk/internal/companion"
	"retreatdesk/internal/domain"
	"retreatdesk/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	sessions     SessionRepository
	participants ParticipantRepository
	rooms        RoomRepository
	classifier   *allocation.Classifier
}

func NewService(sessions SessionRepository, participants ParticipantRepository, rooms RoomRepository, classifier *allocation.Classifier) *Service {
	if classifier == nil {
		classifier = allocation.NewClassifier(nil)
	}
	return &Service{sessions: sessions, participants: participants, rooms: rooms, classifier: classifier}
}

func (s *Service) CreateSession(ctx context.Context, req CreateSessionRequest) (*domain.Session, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, ErrInvalidDates
	}
	session := &domain.Session{
		Name:      req.Name,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	log.Printf("roster: session created session_id=%d name=%q", session.ID, session.Name)
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *Service) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.List(ctx)
}

// ImportParticipants appends a registration batch to a session, then
// re-derives categories and companion groups over the whole roster.
func (s *Service) ImportParticipants(ctx context.Context, sessionID int64, req ImportParticipantsRequest) (*ImportResult, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	res := &ImportResult{Warnings: []string{}}
	batch := make([]domain.Participant, 0, len(req.Participants))
	for _, in := range req.Participants {
		p := in.toDomain(sessionID)
		if !p.Gender.Known() {
			res.Warnings = append(res.Warnings, fmt.Sprintf("participant %q has no recognised gender and will not be placed", p.Name))
		}
		batch = append(batch, p)
	}
	if err := s.participants.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("store participants: %w", err)
	}
	res.Imported = len(batch)

	groups, err := s.relink(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	res.CompanionGroups = groups

	log.Printf("roster: participants imported session_id=%d count=%d companion_groups=%d", sessionID, res.Imported, groups)
	return res, nil
}

func (s *Service) relink(ctx context.Context, sessionID int64) (int, error) {
	all, err := s.participants.ListBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	classified, links, groups := companion.Assign(s.classifier.Classify(all))
	if err := s.participants.UpdateClassification(ctx, classified); err != nil {
		return 0, fmt.Errorf("store classification: %w", err)
	}
	for pid, names := range links.Unmatched {
		log.Printf("roster: unmatched companions session_id=%d participant_id=%d names=%v", sessionID, pid, names)
	}
	n, _ := companion.GroupCount(groups)
	return n, nil
}

func (s *Service) ListParticipants(ctx context.Context, sessionID int64) ([]domain.Participant, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.participants.ListBySession(ctx, sessionID)
}

func (s *Service) ImportRooms(ctx context.Context, req ImportRoomsRequest) (*ImportResult, error) {
	res := &ImportResult{Warnings: []string{}}
	seen := make(map[string]bool, len(req.Rooms))
	rooms := make([]domain.Room, 0, len(req.Rooms))
	for _, in := range req.Rooms {
		r := in.toDomain()
		if seen[r.RoomNumber] {
			return nil, fmt.Errorf("%w: %s", ErrRoomExists, r.RoomNumber)
		}
		seen[r.RoomNumber] = true

		if !r.GenderArea.Known() {
			res.Warnings = append(res.Warnings, fmt.Sprintf("room %s has no recognised gender area and will not be allocated", r.RoomNumber))
		}
		if r.Status == domain.RoomStatusUnknown {
			res.Warnings = append(res.Warnings, fmt.Sprintf("room %s has unknown status %q and will not be allocated", r.RoomNumber, in.Status))
		}
		if r.Type == domain.RoomTypeOther && in.RoomType != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("room %s has unknown type %q and is only available for manual allocation", r.RoomNumber, in.RoomType))
		}
		rooms = append(rooms, r)
	}

	if err := s.rooms.CreateBatch(ctx, rooms); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRoomExists
		}
		return nil, fmt.Errorf("store rooms: %w", err)
	}
	res.Imported = len(rooms)
	log.Printf("roster: rooms imported count=%d warnings=%d", res.Imported, len(res.Warnings))
	return res, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}
