package domain

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderUnknown Gender = "U"
)

// ParseGender accepts the codes, English words and CJK characters found in roster imports.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male", "man", "men", "男", "男众":
		return GenderMale
	case "f", "female", "woman", "women", "女", "女众":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

func (g Gender) Known() bool {
	return g == GenderMale || g == GenderFemale
}

type Category string

const (
	CategoryMonastic    Category = "monastic"
	CategoryExperienced Category = "experienced"
	CategoryNew         Category = "new"
	CategoryUnknown     Category = "unknown"
)

func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryMonastic:
		return CategoryMonastic
	case CategoryExperienced:
		return CategoryExperienced
	case CategoryNew:
		return CategoryNew
	default:
		return CategoryUnknown
	}
}

// Priority is 1 for the highest tier.
func (c Category) Priority() int {
	switch c {
	case CategoryMonastic:
		return 1
	case CategoryExperienced:
		return 2
	case CategoryNew:
		return 3
	default:
		return 4
	}
}

type AgeGroup string

const (
	AgeGroupUnder18 AgeGroup = "<18"
	AgeGroup18To30  AgeGroup = "18-30"
	AgeGroup30To40  AgeGroup = "30-40"
	AgeGroup40To55  AgeGroup = "40-55"
	AgeGroup55Plus  AgeGroup = "55+"
)

func AgeGroupFor(age int) AgeGroup {
	switch {
	case age < 18:
		return AgeGroupUnder18
	case age < 30:
		return AgeGroup18To30
	case age < 40:
		return AgeGroup30To40
	case age < 55:
		return AgeGroup40To55
	default:
		return AgeGroup55Plus
	}
}

type Participant struct {
	ID               int64     `json:"id"`
	SessionID        int64     `json:"session_id" gorm:"not null;index"`
	Name             string    `json:"name" gorm:"not null"`
	Gender           Gender    `json:"gender" gorm:"type:varchar(8);not null"`
	Age              int       `json:"age"`
	CourseCount      int       `json:"course_count"`
	ServiceCount     int       `json:"service_count"`
	Phone            string    `json:"phone,omitempty"`
	SpecialNotes     string    `json:"special_notes,omitempty" gorm:"type:text"`
	CompanionList    string    `json:"companion_list,omitempty" gorm:"type:text"`
	Category         Category  `json:"category" gorm:"type:varchar(16);index"`
	CompanionGroupID *int64    `json:"companion_group_id,omitempty" gorm:"index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Participant) TableName() string {
	return "participants"
}

func (p Participant) IsExperienced() bool {
	return p.CourseCount > 0
}
