package domain

import (
	"strings"
	"time"
)

type SeatType string

const (
	SeatTypeMonastic SeatType = "monastic"
	SeatTypeStudent  SeatType = "student"
	SeatTypeWorker   SeatType = "worker"
	SeatTypeOther    SeatType = "other"
)

func ParseSeatType(s string) SeatType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monastic", "monk":
		return SeatTypeMonastic
	case "student":
		return SeatTypeStudent
	case "worker":
		return SeatTypeWorker
	default:
		return SeatTypeOther
	}
}

// SeatStatus is available, allocated, reserved, or a highlight tag such as "elderly".
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusAllocated SeatStatus = "allocated"
	SeatStatusReserved  SeatStatus = "reserved"
)

// Seat is one meditation hall cell, possibly empty.
type Seat struct {
	ID              int64      `json:"id"`
	SessionID       int64      `json:"session_id" gorm:"not null;index"`
	HallConfigID    int64      `json:"hall_config_id" gorm:"index"`
	ParticipantID   *int64     `json:"participant_id,omitempty" gorm:"index"`
	SeatNumber      string     `json:"seat_number"`
	BedCode         string     `json:"bed_code,omitempty"`
	SeatType        SeatType   `json:"seat_type" gorm:"type:varchar(16);not null"`
	Status          SeatStatus `json:"status" gorm:"type:varchar(32);not null"`
	IsExperienced   bool       `json:"is_experienced"`
	AgeGroup        AgeGroup   `json:"age_group,omitempty" gorm:"type:varchar(8)"`
	Gender          Gender     `json:"gender" gorm:"type:varchar(8)"`
	RegionCode      string     `json:"region_code" gorm:"type:varchar(16)"`
	SectionName     string     `json:"section_name"`
	Row             int        `json:"row" gorm:"column:row_index"`
	Col             int        `json:"col" gorm:"column:col_index"`
	WithCompanion   bool       `json:"with_companion"`
	CompanionSeatID *int64     `json:"companion_seat_id,omitempty"`
	CompanionName   string     `json:"companion_name,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Seat) TableName() string {
	return "meditation_seats"
}

func (s Seat) Occupied() bool {
	return s.ParticipantID != nil
}

func (s Seat) IsReserved() bool {
	return s.Status == SeatStatusReserved
}
