package seating

import (
	"log"
	"strconv"

	"retreatdesk/internal/companion"
	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

type rule struct {
	tag  domain.SeatStatus
	pred layout.Predicate
}

func compileRules(rules []layout.HighlightRule) []rule {
	var out []rule
	for _, r := range rules {
		pred, err := layout.ParsePredicate(r.Expression)
		if err != nil {
			log.Printf("seating: skip highlight rule code=%s err=%v", r.Code, err)
			continue
		}
		tag := r.Tag
		if tag == "" {
			tag = r.Code
		}
		out = append(out, rule{tag: domain.SeatStatus(tag), pred: pred})
	}
	return out
}

func statusFor(p domain.Participant, rules []rule) domain.SeatStatus {
	for _, r := range rules {
		if r.pred.Match(p.Age, p.SpecialNotes) {
			return r.tag
		}
	}
	return domain.SeatStatusAllocated
}

// Highlight sets the status of every occupied seat to the tag of the first
// matching rule, or to allocated.
func Highlight(seats []domain.Seat, rules []layout.HighlightRule, participants map[int64]domain.Participant) []domain.Seat {
	compiled := compileRules(rules)
	out := append([]domain.Seat(nil), seats...)
	for i := range out {
		s := &out[i]
		if !s.Occupied() || s.IsReserved() {
			continue
		}
		s.Status = statusFor(participants[*s.ParticipantID], compiled)
	}
	return out
}

// Occupy seats p and refreshes the fields derived from the occupant.
func Occupy(seat domain.Seat, p domain.Participant, bedCode string, rules []layout.HighlightRule) domain.Seat {
	seat = occupy(seat, p)
	seat.BedCode = bedCode
	seat.Status = statusFor(p, compileRules(rules))
	return seat
}

// Vacate empties a seat and clears the occupant-derived fields.
func Vacate(seat domain.Seat) domain.Seat {
	seat.ParticipantID = nil
	seat.Status = domain.SeatStatusAvailable
	seat.IsExperienced = false
	seat.AgeGroup = ""
	seat.BedCode = ""
	seat.WithCompanion = false
	seat.CompanionSeatID = nil
	seat.CompanionName = ""
	return seat
}

func Adjacent(a, b domain.Seat) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

// AnnotateCompanions marks seats whose occupants have companions. A companion
// seated next to the occupant is preferred over one seated elsewhere. Seat IDs
// must already be assigned.
func AnnotateCompanions(seats []domain.Seat, participants []domain.Participant) []domain.Seat {
	links := companion.Resolve(participants)
	names := make(map[int64]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	out := append([]domain.Seat(nil), seats...)
	seatOf := make(map[int64]int)
	for i := range out {
		out[i].WithCompanion = false
		out[i].CompanionSeatID = nil
		out[i].CompanionName = ""
		if out[i].Occupied() {
			if _, ok := seatOf[*out[i].ParticipantID]; !ok {
				seatOf[*out[i].ParticipantID] = i
			}
		}
	}

	for i := range out {
		s := &out[i]
		if !s.Occupied() {
			continue
		}
		pid := *s.ParticipantID
		companions, unmatched := links.Companions[pid], links.Unmatched[pid]
		if len(companions) == 0 && len(unmatched) == 0 {
			continue
		}
		s.WithCompanion = true

		target := -1
		for _, cid := range companions {
			j, ok := seatOf[cid]
			if !ok {
				continue
			}
			if Adjacent(*s, out[j]) {
				target = j
				break
			}
			if target < 0 {
				target = j
			}
		}
		switch {
		case target >= 0:
			id := out[target].ID
			s.CompanionSeatID = &id
			s.CompanionName = names[*out[target].ParticipantID]
		case len(companions) > 0:
			s.CompanionName = names[companions[0]]
		default:
			s.CompanionName = unmatched[0]
		}
	}
	return out
}

// BedCodes maps participant id to "roomNumber-bed" for each allocation.
func BedCodes(allocs []domain.Allocation, rooms []domain.Room) map[int64]string {
	numbers := make(map[int64]string, len(rooms))
	for _, r := range rooms {
		numbers[r.ID] = r.RoomNumber
	}
	codes := make(map[int64]string, len(allocs))
	for _, a := range allocs {
		if n, ok := numbers[a.RoomID]; ok {
			codes[a.ParticipantID] = BedCode(n, a.BedNumber)
		}
	}
	return codes
}

func BedCode(roomNumber string, bed int) string {
	return roomNumber + "-" + strconv.Itoa(bed)
}

func BindBedCodes(seats []domain.Seat, codes map[int64]string) []domain.Seat {
	out := append([]domain.Seat(nil), seats...)
	for i := range out {
		out[i].BedCode = ""
		if out[i].Occupied() {
			out[i].BedCode = codes[*out[i].ParticipantID]
		}
	}
	return out
}
