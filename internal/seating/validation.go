package seating

import (
	"fmt"
	"sort"

	"retreatdesk/internal/domain"
)

// Validate reports seats that break the hall invariants: a participant seated
// twice, two seats on one grid position, or an occupant whose gender differs
// from the seat's.
func Validate(seats []domain.Seat, participants map[int64]domain.Participant) []string {
	var warnings []string

	perParticipant := make(map[int64]int)
	type pos struct{ row, col int }
	perPosition := make(map[pos]int)
	for _, s := range seats {
		perPosition[pos{s.Row, s.Col}]++
		if !s.Occupied() {
			continue
		}
		pid := *s.ParticipantID
		perParticipant[pid]++
		p, ok := participants[pid]
		if ok && p.Gender.Known() && s.Gender.Known() && p.Gender != s.Gender {
			warnings = append(warnings, fmt.Sprintf("seat %s (%d,%d): participant %d is %s but the seat is %s",
				s.SeatNumber, s.Row, s.Col, pid, p.Gender, s.Gender))
		}
	}

	var dupParticipants []int64
	for pid, n := range perParticipant {
		if n > 1 {
			dupParticipants = append(dupParticipants, pid)
		}
	}
	sort.Slice(dupParticipants, func(i, j int) bool { return dupParticipants[i] < dupParticipants[j] })
	for _, pid := range dupParticipants {
		warnings = append(warnings, fmt.Sprintf("participant %d holds %d seats", pid, perParticipant[pid]))
	}

	var dupPositions []pos
	for p, n := range perPosition {
		if n > 1 {
			dupPositions = append(dupPositions, p)
		}
	}
	sort.Slice(dupPositions, func(i, j int) bool {
		if dupPositions[i].row != dupPositions[j].row {
			return dupPositions[i].row < dupPositions[j].row
		}
		return dupPositions[i].col < dupPositions[j].col
	})
	for _, p := range dupPositions {
		warnings = append(warnings, fmt.Sprintf("position (%d,%d) is used by %d seats", p.row, p.col, perPosition[p]))
	}
	return warnings
}

type Statistics struct {
	Total         int     `json:"total"`
	Occupied      int     `json:"occupied"`
	Available     int     `json:"available"`
	Reserved      int     `json:"reserved"`
	Male          int     `json:"male"`
	Female        int     `json:"female"`
	Monastic      int     `json:"monastic"`
	Experienced   int     `json:"experienced"`
	WithCompanion int     `json:"with_companion"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// Summarize counts seats. OccupancyRate is a percentage of non-reserved seats.
func Summarize(seats []domain.Seat) Statistics {
	var st Statistics
	for _, s := range seats {
		st.Total++
		switch {
		case s.IsReserved():
			st.Reserved++
			continue
		case s.Occupied():
			st.Occupied++
		default:
			st.Available++
			continue
		}
		switch s.Gender {
		case domain.GenderMale:
			st.Male++
		case domain.GenderFemale:
			st.Female++
		}
		if s.SeatType == domain.SeatTypeMonastic {
			st.Monastic++
		}
		if s.IsExperienced {
			st.Experienced++
		}
		if s.WithCompanion {
			st.WithCompanion++
		}
	}
	if usable := st.Total - st.Reserved; usable > 0 {
		st.OccupancyRate = float64(st.Occupied*10000/usable) / 100
	}
	return st
}
