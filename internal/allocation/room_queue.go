package allocation

import (
	"math/rand/v2"
	"sort"

	"retreatdesk/internal/domain"
)

// TypePrecedence is the order in which room types are offered. Types not
// listed are never auto-allocated.
var TypePrecedence = []domain.RoomType{
	domain.RoomTypeMonastic,
	domain.RoomTypeExperienced,
	domain.RoomTypeNew,
	domain.RoomTypeElderly1,
	domain.RoomTypeElderly2,
}

// NewRand returns a deterministic generator for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// BuildRoomQueue filters rooms for one gender area and orders them by type
// precedence, shuffling inside each type. A nil rng keeps id order.
func BuildRoomQueue(rooms []domain.Room, gender domain.Gender, rng *rand.Rand) []domain.Room {
	buckets := make(map[domain.RoomType][]domain.Room, len(TypePrecedence))
	for _, r := range rooms {
		if !r.Allocatable() || r.GenderArea != gender {
			continue
		}
		buckets[r.Type] = append(buckets[r.Type], r)
	}

	queue := make([]domain.Room, 0, len(rooms))
	for _, t := range TypePrecedence {
		bucket := buckets[t]
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].ID < bucket[j].ID })
		if rng != nil {
			rng.Shuffle(len(bucket), func(i, j int) { bucket[i], bucket[j] = bucket[j], bucket[i] })
		}
		queue = append(queue, bucket...)
	}
	return queue
}
