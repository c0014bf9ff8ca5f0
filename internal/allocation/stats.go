package allocation

import (
	"retreatdesk/internal/companion"
	"retreatdesk/internal/domain"
)

type Statistics struct {
	TotalParticipants     int `json:"total_participants"`
	Allocated             int `json:"allocated"`
	Unallocated           int `json:"unallocated"`
	Monastic              int `json:"monastic"`
	Experienced           int `json:"experienced"`
	New                   int `json:"new"`
	Male                  int `json:"male"`
	Female                int `json:"female"`
	CompanionGroups       int `json:"companion_groups"`
	CompanionParticipants int `json:"companion_participants"`
	RoomsUsed             int `json:"rooms_used"`
	Conflicts             int `json:"conflicts"`
	Temporary             int `json:"temporary"`
}

func Summarize(participants []domain.Participant, allocs []domain.Allocation, groupOf map[int64]int64) Statistics {
	st := Statistics{TotalParticipants: len(participants)}

	for _, p := range participants {
		switch p.Category {
		case domain.CategoryMonastic:
			st.Monastic++
		case domain.CategoryExperienced:
			st.Experienced++
		default:
			st.New++
		}
		switch p.Gender {
		case domain.GenderMale:
			st.Male++
		case domain.GenderFemale:
			st.Female++
		}
	}

	rooms := make(map[int64]struct{})
	allocated := make(map[int64]struct{})
	for _, a := range allocs {
		rooms[a.RoomID] = struct{}{}
		allocated[a.ParticipantID] = struct{}{}
		if a.ConflictFlag {
			st.Conflicts++
		}
		if a.IsTemporary {
			st.Temporary++
		}
	}
	st.Allocated = len(allocated)
	st.Unallocated = st.TotalParticipants - st.Allocated
	if st.Unallocated < 0 {
		st.Unallocated = 0
	}
	st.RoomsUsed = len(rooms)
	st.CompanionGroups, st.CompanionParticipants = companion.GroupCount(groupOf)
	return st
}
