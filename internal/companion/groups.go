package companion

import (
	"sort"

	"retreatdesk/internal/domain"
)

type unionFind struct {
	parent map[int64]int64
}

func (u *unionFind) find(x int64) int64 {
	p, ok := u.parent[x]
	if !ok {
		u.parent[x] = x
		return x
	}
	if p == x {
		return x
	}
	root := u.find(p)
	u.parent[x] = root
	return root
}

func (u *unionFind) union(a, b int64) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// the smaller id becomes the root so group ids are stable
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

// Groups merges resolved links and any imported group ids into connected
// companion groups. The group id is the smallest participant id in the group.
// Participants without companions are absent from the result.
func Groups(participants []domain.Participant, links Links) map[int64]int64 {
	u := &unionFind{parent: make(map[int64]int64)}

	for id, others := range links.Companions {
		for _, other := range others {
			u.union(id, other)
		}
	}

	byImported := make(map[int64]int64)
	for _, p := range participants {
		if p.CompanionGroupID == nil {
			continue
		}
		if first, ok := byImported[*p.CompanionGroupID]; ok {
			u.union(first, p.ID)
		} else {
			byImported[*p.CompanionGroupID] = p.ID
		}
	}

	size := make(map[int64]int)
	for _, p := range participants {
		size[u.find(p.ID)]++
	}

	out := make(map[int64]int64)
	for _, p := range participants {
		root := u.find(p.ID)
		if size[root] > 1 {
			out[p.ID] = root
		}
	}
	return out
}

// Assign returns copies of participants with CompanionGroupID set from the
// resolved groups, together with the links used.
func Assign(participants []domain.Participant) ([]domain.Participant, Links, map[int64]int64) {
	links := Resolve(participants)
	groups := Groups(participants, links)

	out := make([]domain.Participant, len(participants))
	copy(out, participants)
	for i := range out {
		if g, ok := groups[out[i].ID]; ok {
			gid := g
			out[i].CompanionGroupID = &gid
		} else {
			out[i].CompanionGroupID = nil
		}
	}
	return out, links, groups
}

// GroupCount returns the number of distinct groups and the number of grouped participants.
func GroupCount(groups map[int64]int64) (int, int) {
	distinct := make(map[int64]struct{})
	for _, g := range groups {
		distinct[g] = struct{}{}
	}
	return len(distinct), len(groups)
}

// Members lists the participant ids of every group, ordered by id.
func Members(groups map[int64]int64) map[int64][]int64 {
	out := make(map[int64][]int64)
	for pid, g := range groups {
		out[g] = append(out[g], pid)
	}
	for g := range out {
		sort.Slice(out[g], func(i, j int) bool { return out[g][i] < out[g][j] })
	}
	return out
}
