package domain

import "time"

// HallConfig carries the serialized hall layout for one session.
type HallConfig struct {
	ID         int64     `json:"id"`
	SessionID  int64     `json:"session_id" gorm:"not null;index"`
	HallName   string    `json:"hall_name"`
	RegionCode string    `json:"region_code,omitempty" gorm:"type:varchar(16)"`
	GenderType Gender    `json:"gender_type,omitempty" gorm:"type:varchar(8)"`
	Layout     string    `json:"-" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (HallConfig) TableName() string {
	return "meditation_hall_configs"
}
