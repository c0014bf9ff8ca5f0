package allocation

import (
	"fmt"

	"retreatdesk/internal/domain"
)

// SplitCompanions moves companion group members that share a room into other
// rooms by swapping beds with the first compatible occupant found. The input
// is not modified. groupOf maps participant id to companion group id and
// roomGender maps room id to its gender area.
func SplitCompanions(allocs []domain.Allocation, groupOf map[int64]int64, roomGender map[int64]domain.Gender) ([]domain.Allocation, []string) {
	out := make([]domain.Allocation, len(allocs))
	copy(out, allocs)
	var warnings []string

	var roomOrder []int64
	members := make(map[int64][]int)
	for i, a := range out {
		if _, seen := members[a.RoomID]; !seen {
			roomOrder = append(roomOrder, a.RoomID)
		}
		members[a.RoomID] = append(members[a.RoomID], i)
	}

	groupIn := func(i int) (int64, bool) {
		g, ok := groupOf[out[i].ParticipantID]
		return g, ok
	}

	for _, roomID := range roomOrder {
		var groupOrder []int64
		byGroup := make(map[int64][]int)
		for _, i := range members[roomID] {
			g, ok := groupIn(i)
			if !ok {
				continue
			}
			if _, seen := byGroup[g]; !seen {
				groupOrder = append(groupOrder, g)
			}
			byGroup[g] = append(byGroup[g], i)
		}

		for _, g := range groupOrder {
			group := byGroup[g]
			if len(group) < 2 {
				continue
			}
			for _, i := range group[1:] {
				j, found := findSwapTarget(out, members, roomOrder, roomID, g, groupOf, roomGender)
				if !found {
					warnings = append(warnings, fmt.Sprintf(
						"companion group %d: no swap target for participant %d in room %d", g, out[i].ParticipantID, roomID))
					continue
				}
				otherRoom := out[j].RoomID
				out[i].RoomID, out[j].RoomID = out[j].RoomID, out[i].RoomID
				out[i].BedNumber, out[j].BedNumber = out[j].BedNumber, out[i].BedNumber
				members[roomID] = replaceIndex(members[roomID], i, j)
				members[otherRoom] = replaceIndex(members[otherRoom], j, i)
			}
		}
	}
	return out, warnings
}

func findSwapTarget(out []domain.Allocation, members map[int64][]int, roomOrder []int64, from int64, group int64, groupOf map[int64]int64, roomGender map[int64]domain.Gender) (int, bool) {
	for _, roomID := range roomOrder {
		if roomID == from || roomGender[roomID] != roomGender[from] {
			continue
		}
		for _, j := range members[roomID] {
			if g, ok := groupOf[out[j].ParticipantID]; ok && g == group {
				continue
			}
			return j, true
		}
	}
	return 0, false
}

func replaceIndex(list []int, old, repl int) []int {
	for k, v := range list {
		if v == old {
			list[k] = repl
			break
		}
	}
	return list
}
