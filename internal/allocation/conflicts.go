package allocation

import (
	"fmt"
	"sort"
	"strings"

	"retreatdesk/internal/companion"
	"retreatdesk/internal/domain"
)

// DetectConflicts reports linked companions placed in different rooms
// (SEPARATED) and group members still sharing a room (COLOCATED). It only
// reads its inputs.
func DetectConflicts(allocs []domain.Allocation, participants []domain.Participant, links companion.Links, groupOf map[int64]int64) []domain.Conflict {
	byParticipant := make(map[int64]domain.Allocation, len(allocs))
	for _, a := range allocs {
		byParticipant[a.ParticipantID] = a
	}
	names := make(map[int64]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	ordered := make([]domain.Participant, len(participants))
	copy(ordered, participants)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var conflicts []domain.Conflict
	for _, p := range ordered {
		if _, grouped := groupOf[p.ID]; !grouped {
			continue
		}
		mine, ok := byParticipant[p.ID]
		if !ok {
			continue
		}
		for _, cid := range links.Companions[p.ID] {
			theirs, ok := byParticipant[cid]
			if !ok || theirs.RoomID == mine.RoomID {
				continue
			}
			conflicts = append(conflicts, domain.Conflict{
				AllocationID:  mine.ID,
				ParticipantID: p.ID,
				Name:          p.Name,
				CompanionID:   cid,
				Type:          domain.ConflictSeparated,
				Reason:        fmt.Sprintf("companion %s assigned to a different room", names[cid]),
			})
		}
		for _, other := range ordered {
			if other.ID == p.ID || groupOf[other.ID] != groupOf[p.ID] {
				continue
			}
			if _, grouped := groupOf[other.ID]; !grouped {
				continue
			}
			theirs, ok := byParticipant[other.ID]
			if !ok || theirs.RoomID != mine.RoomID {
				continue
			}
			conflicts = append(conflicts, domain.Conflict{
				AllocationID:  mine.ID,
				ParticipantID: p.ID,
				Name:          p.Name,
				CompanionID:   other.ID,
				Type:          domain.ConflictColocated,
				Reason:        fmt.Sprintf("companion %s shares the same room", other.Name),
			})
		}
	}
	return conflicts
}

// ApplyConflicts returns copies of allocs whose conflict flag and reason
// reflect conflicts. Allocations without conflicts are cleared.
func ApplyConflicts(allocs []domain.Allocation, conflicts []domain.Conflict) []domain.Allocation {
	reasons := make(map[int64][]string)
	for _, c := range conflicts {
		reasons[c.ParticipantID] = append(reasons[c.ParticipantID], c.Reason)
	}

	out := make([]domain.Allocation, len(allocs))
	for i, a := range allocs {
		r := reasons[a.ParticipantID]
		a.ConflictFlag = len(r) > 0
		a.ConflictReason = strings.Join(r, "; ")
		out[i] = a
	}
	return out
}

// ConflictedAllocations counts allocations carrying at least one conflict.
func ConflictedAllocations(conflicts []domain.Conflict) int {
	seen := make(map[int64]struct{})
	for _, c := range conflicts {
		seen[c.ParticipantID] = struct{}{}
	}
	return len(seen)
}
