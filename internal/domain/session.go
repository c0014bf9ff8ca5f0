package domain

import "time"

type Session struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name" gorm:"not null"`
	Location  string     `json:"location,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     string     `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}
