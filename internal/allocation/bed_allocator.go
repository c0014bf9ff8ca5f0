package allocation

import (
	"fmt"
	"math/rand/v2"

	"retreatdesk/internal/domain"
)

// genderOrder fixes the processing order so runs are reproducible.
var genderOrder = []domain.Gender{domain.GenderMale, domain.GenderFemale}

type BedPlan struct {
	Allocations []domain.Allocation
	Unplaced    []domain.Participant
	Warnings    []string
}

// AllocateBeds assigns one bed to each participant. participants must already
// be in priority order. Running out of beds is reported in the plan, never as
// an error.
func AllocateBeds(sessionID int64, participants []domain.Participant, rooms []domain.Room, rng *rand.Rand) BedPlan {
	var plan BedPlan
	byGender := Partition(participants)
	occupancy := make(map[int64]int)

	for _, g := range genderOrder {
		group := byGender[g]
		if len(group) == 0 {
			continue
		}
		cursor := NewRoomCursor(BuildRoomQueue(rooms, g, rng))
		if capacity := cursor.Remaining(); capacity < len(group) {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"insufficient beds for gender %s: %d participants, %d beds", g, len(group), capacity))
		}

		for i, p := range group {
			room, ok := cursor.Next()
			if !ok {
				plan.Unplaced = append(plan.Unplaced, group[i:]...)
				plan.Warnings = append(plan.Warnings, fmt.Sprintf(
					"%d participants of gender %s left without a bed", len(group)-i, g))
				break
			}
			occupancy[room.ID]++
			plan.Allocations = append(plan.Allocations, domain.Allocation{
				SessionID:     sessionID,
				ParticipantID: p.ID,
				RoomID:        room.ID,
				BedNumber:     occupancy[room.ID],
				Kind:          domain.AllocationAutomatic,
				IsTemporary:   true,
			})
		}
	}

	var unknown []domain.Participant
	for _, p := range participants {
		if !p.Gender.Known() {
			unknown = append(unknown, p)
		}
	}
	if len(unknown) > 0 {
		plan.Unplaced = append(plan.Unplaced, unknown...)
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"%d participants have no recognised gender and were not placed", len(unknown)))
	}
	return plan
}
