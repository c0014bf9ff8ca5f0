// Package allocation holds the bed allocation engine: participant ordering,
// room queues, the bed allocator and companion conflict handling.
package allocation

import (
	"sort"
	"strings"

	"retreatdesk/internal/domain"
)

// DefaultMonasticMarkers are name prefixes that identify monastics.
var DefaultMonasticMarkers = []string{"法", "Ven.", "Venerable", "Bhante", "Bhikkhu", "Bhikkhuni", "Sayadaw", "Ajahn"}

type Classifier struct {
	markers []string
}

func NewClassifier(markers []string) *Classifier {
	cleaned := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			cleaned = append(cleaned, strings.ToLower(m))
		}
	}
	if len(cleaned) == 0 {
		for _, m := range DefaultMonasticMarkers {
			cleaned = append(cleaned, strings.ToLower(m))
		}
	}
	return &Classifier{markers: cleaned}
}

func (c *Classifier) Category(p domain.Participant) domain.Category {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	for _, m := range c.markers {
		if strings.HasPrefix(name, m) {
			return domain.CategoryMonastic
		}
	}
	if p.CourseCount > 0 {
		return domain.CategoryExperienced
	}
	return domain.CategoryNew
}

// Classify returns copies of participants with Category set.
func (c *Classifier) Classify(participants []domain.Participant) []domain.Participant {
	out := make([]domain.Participant, len(participants))
	for i, p := range participants {
		p.Category = c.Category(p)
		out[i] = p
	}
	return out
}

// SortByPriority returns a copy ordered monastic, experienced, new. Experienced
// participants are ordered by course count then age, new ones by age, both
// descending. Ties fall back to id so the order is total.
func SortByPriority(participants []domain.Participant) []domain.Participant {
	out := make([]domain.Participant, len(participants))
	copy(out, participants)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if pa, pb := a.Category.Priority(), b.Category.Priority(); pa != pb {
			return pa < pb
		}
		switch a.Category {
		case domain.CategoryMonastic:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case domain.CategoryExperienced:
			if a.CourseCount != b.CourseCount {
				return a.CourseCount > b.CourseCount
			}
			if a.Age != b.Age {
				return a.Age > b.Age
			}
		default:
			if a.Age != b.Age {
				return a.Age > b.Age
			}
		}
		return a.ID < b.ID
	})
	return out
}

// Partition splits an ordered list by gender, keeping the order.
func Partition(participants []domain.Participant) map[domain.Gender][]domain.Participant {
	out := make(map[domain.Gender][]domain.Participant)
	for _, p := range participants {
		out[p.Gender] = append(out[p.Gender], p)
	}
	return out
}
