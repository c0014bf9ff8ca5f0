package hallconfig

import (
	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

type UpsertRequest struct {
	HallName   string            `json:"hall_name" binding:"required"`
	RegionCode string            `json:"region_code"`
	GenderType string            `json:"gender_type"`
	Layout     layout.HallLayout `json:"layout"`
}

// View is a stored configuration with its layout decoded.
type View struct {
	domain.HallConfig
	Layout layout.HallLayout `json:"layout"`
}

type PreviewResult struct {
	Compiled    layout.CompiledLayout `json:"compiled"`
	Issues      []layout.Issue        `json:"issues"`
	UsableSeats int                   `json:"usable_seats"`
}
