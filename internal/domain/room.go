package domain

import (
	"strings"
	"time"
)

type RoomType string

const (
	RoomTypeMonastic    RoomType = "monastic"
	RoomTypeExperienced RoomType = "experienced"
	RoomTypeNew         RoomType = "new"
	RoomTypeElderly1    RoomType = "elderly_1"
	RoomTypeElderly2    RoomType = "elderly_2"
	RoomTypeTeacher     RoomType = "teacher"
	RoomTypeVolunteer   RoomType = "volunteer"
	RoomTypeOther       RoomType = "other"
)

// ParseRoomType also understands the upper-case codes used by older room sheets.
func ParseRoomType(s string) RoomType {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "-", "_")
	switch v {
	case "monastic", "monk":
		return RoomTypeMonastic
	case "experienced", "old", "old_student":
		return RoomTypeExperienced
	case "new", "new_student":
		return RoomTypeNew
	case "elderly_1", "elderly1":
		return RoomTypeElderly1
	case "elderly_2", "elderly2":
		return RoomTypeElderly2
	case "teacher":
		return RoomTypeTeacher
	case "volunteer", "worker":
		return RoomTypeVolunteer
	default:
		return RoomTypeOther
	}
}

type RoomStatus string

const (
	RoomStatusEnabled  RoomStatus = "ENABLED"
	RoomStatusDisabled RoomStatus = "DISABLED"
	RoomStatusUnknown  RoomStatus = "UNKNOWN"
)

func ParseRoomStatus(s string) RoomStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ENABLED", "ACTIVE":
		return RoomStatusEnabled
	case "DISABLED", "INACTIVE":
		return RoomStatusDisabled
	default:
		return RoomStatusUnknown
	}
}

type Room struct {
	ID          int64      `json:"id"`
	RoomNumber  string     `json:"room_number" gorm:"not null;uniqueIndex"`
	Building    string     `json:"building,omitempty"`
	Floor       int        `json:"floor"`
	Capacity    int        `json:"capacity" gorm:"not null"`
	Type        RoomType   `json:"room_type" gorm:"column:room_type;type:varchar(16);not null"`
	Status      RoomStatus `json:"status" gorm:"type:varchar(16);not null"`
	GenderArea  Gender     `json:"gender_area" gorm:"type:varchar(8);not null;index"`
	IsReserved  bool       `json:"is_reserved"`
	ReservedFor string     `json:"reserved_for,omitempty"`
	Notes       string     `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

// Allocatable reports whether the room may be offered to the bed allocator.
func (r Room) Allocatable() bool {
	return r.Status == RoomStatusEnabled && !r.IsReserved && r.Capacity >= 1
}
