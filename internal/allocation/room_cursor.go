package allocation

import "retreatdesk/internal/domain"

// RoomCursor hands out bed capacity from a room queue, one unit at a time.
type RoomCursor struct {
	queue   []domain.Room
	next    int
	current *domain.Room
	used    int
}

func NewRoomCursor(queue []domain.Room) *RoomCursor {
	return &RoomCursor{queue: queue}
}

// Next returns the room that receives the next bed. It stays on the current
// room until its capacity is used up, then advances. ok is false when the
// queue is exhausted.
func (c *RoomCursor) Next() (domain.Room, bool) {
	if c.current != nil && c.used < c.current.Capacity {
		c.used++
		return *c.current, true
	}
	for c.next < len(c.queue) {
		room := c.queue[c.next]
		c.next++
		if room.Capacity < 1 {
			continue
		}
		c.current = &room
		c.used = 1
		return room, true
	}
	c.current = nil
	return domain.Room{}, false
}

func (c *RoomCursor) HasNext() bool {
	return c.Remaining() > 0
}

// Remaining is the number of beds still available behind the cursor.
func (c *RoomCursor) Remaining() int {
	n := 0
	if c.current != nil {
		n += c.current.Capacity - c.used
	}
	for _, r := range c.queue[c.next:] {
		if r.Capacity > 0 {
			n += r.Capacity
		}
	}
	return n
}

// Skip abandons the rest of the current room.
func (c *RoomCursor) Skip() {
	c.current = nil
	c.used = 0
}
