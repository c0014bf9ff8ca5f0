package roster

import (
	"strings"
	"time"

	"retreatdesk/internal/domain"
)

type CreateSessionRequest struct {
	Name      string     `json:"name" validate:"required,max=200"`
	Location  string     `json:"location" validate:"max=200"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Notes     string     `json:"notes"`
}

// ParticipantInput is one registration row. Gender accepts codes, English
// words and CJK characters.
type ParticipantInput struct {
	Name          string `json:"name" validate:"required,max=200"`
	Gender        string `json:"gender" validate:"required"`
	Age           int    `json:"age" validate:"gte=0,lte=120"`
	CourseCount   int    `json:"course_count" validate:"gte=0"`
	ServiceCount  int    `json:"service_count" validate:"gte=0"`
	Phone         string `json:"phone" validate:"max=32"`
	SpecialNotes  string `json:"special_notes"`
	CompanionList string `json:"companion_list"`
}

type ImportParticipantsRequest struct {
	Participants []ParticipantInput `json:"participants" validate:"required,min=1,dive"`
}

type RoomInput struct {
	RoomNumber  string `json:"room_number" validate:"required,max=32"`
	Building    string `json:"building"`
	Floor       int    `json:"floor"`
	Capacity    int    `json:"capacity" validate:"gte=1"`
	RoomType    string `json:"room_type"`
	Status      string `json:"status"`
	GenderArea  string `json:"gender_area" validate:"required"`
	IsReserved  bool   `json:"is_reserved"`
	ReservedFor string `json:"reserved_for"`
	Notes       string `json:"notes"`
}

type ImportRoomsRequest struct {
	Rooms []RoomInput `json:"rooms" validate:"required,min=1,dive"`
}

type ImportResult struct {
	Imported        int      `json:"imported"`
	CompanionGroups int      `json:"companion_groups"`
	Warnings        []string `json:"warnings"`
}

func (in ParticipantInput) toDomain(sessionID int64) domain.Participant {
	return domain.Participant{
		SessionID:     sessionID,
		Name:          strings.TrimSpace(in.Name),
		Gender:        domain.ParseGender(in.Gender),
		Age:           in.Age,
		CourseCount:   in.CourseCount,
		ServiceCount:  in.ServiceCount,
		Phone:         strings.TrimSpace(in.Phone),
		SpecialNotes:  strings.TrimSpace(in.SpecialNotes),
		CompanionList: strings.TrimSpace(in.CompanionList),
	}
}

func (in RoomInput) toDomain() domain.Room {
	return domain.Room{
		RoomNumber:  strings.TrimSpace(in.RoomNumber),
		Building:    strings.TrimSpace(in.Building),
		Floor:       in.Floor,
		Capacity:    in.Capacity,
		Type:        domain.ParseRoomType(in.RoomType),
		Status:      domain.ParseRoomStatus(in.Status),
		GenderArea:  domain.ParseGender(in.GenderArea),
		IsReserved:  in.IsReserved,
		ReservedFor: strings.TrimSpace(in.ReservedFor),
		Notes:       in.Notes,
	}
}
