// Package companion resolves the free-text companion lists entered at
// registration into participant links and companion groups.
package companion

import (
	"sort"
	"strings"
	"unicode/utf8"

	"retreatdesk/internal/domain"
)

// minSubstringRunes keeps single-character names from matching everything.
const minSubstringRunes = 2

var separators = strings.NewReplacer(
	"，", ",", "；", ",", "、", ",", "｜", ",", "／", ",",
	";", ",", "|", ",", "/", ",", "\r", ",", "\n", ",",
)

var normaliser = strings.NewReplacer("（", "(", "）", ")", "：", ":", "　", " ")

// SplitNames breaks a companion list into trimmed, de-duplicated names.
func SplitNames(list string) []string {
	raw := strings.Split(separators.Replace(list), ",")
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		name := strings.TrimSpace(normaliser.Replace(token))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Links holds the resolved companion relation. Companions is symmetric.
type Links struct {
	Companions map[int64][]int64
	Unmatched  map[int64][]string
}

func (l Links) Has(participantID int64) bool {
	return len(l.Companions[participantID]) > 0 || len(l.Unmatched[participantID]) > 0
}

type nameIndex struct {
	byName map[string]int64
	sorted []string
}

func newNameIndex(participants []domain.Participant) nameIndex {
	ix := nameIndex{byName: make(map[string]int64, len(participants))}
	for _, p := range participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		// duplicate names resolve to the lowest id
		if id, ok := ix.byName[name]; !ok || p.ID < id {
			ix.byName[name] = p.ID
		}
	}
	for name := range ix.byName {
		ix.sorted = append(ix.sorted, name)
	}
	sort.Slice(ix.sorted, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(ix.sorted[i]), utf8.RuneCountInString(ix.sorted[j])
		if li != lj {
			return li > lj
		}
		return ix.sorted[i] < ix.sorted[j]
	})
	return ix
}

// match tries an exact name first, then every known name contained in the
// token, longest first. A matched name is blanked so shorter names inside it
// do not match again.
func (ix nameIndex) match(token string, self int64) []int64 {
	if id, ok := ix.byName[token]; ok {
		if id == self {
			return nil
		}
		return []int64{id}
	}

	var ids []int64
	work := token
	for _, known := range ix.sorted {
		if utf8.RuneCountInString(known) < minSubstringRunes {
			break
		}
		if !strings.Contains(work, known) {
			continue
		}
		work = strings.ReplaceAll(work, known, "\x00")
		if id := ix.byName[known]; id != self {
			ids = append(ids, id)
		}
	}
	return ids
}

// Resolve matches every participant's companion list against the roster.
// Links are made bidirectional; names that match nobody are kept.
func Resolve(participants []domain.Participant) Links {
	ix := newNameIndex(participants)
	sets := make(map[int64]map[int64]struct{})
	links := Links{
		Companions: make(map[int64][]int64),
		Unmatched:  make(map[int64][]string),
	}

	link := func(a, b int64) {
		if sets[a] == nil {
			sets[a] = make(map[int64]struct{})
		}
		sets[a][b] = struct{}{}
	}

	for _, p := range participants {
		for _, token := range SplitNames(p.CompanionList) {
			ids := ix.match(token, p.ID)
			if len(ids) == 0 {
				if ix.byName[token] != p.ID {
					links.Unmatched[p.ID] = append(links.Unmatched[p.ID], token)
				}
				continue
			}
			for _, id := range ids {
				link(p.ID, id)
				link(id, p.ID)
			}
		}
	}

	for id, set := range sets {
		ids := make([]int64, 0, len(set))
		for other := range set {
			ids = append(ids, other)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		links.Companions[id] = ids
	}
	return links
}
