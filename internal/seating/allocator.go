// Package seating fills a compiled hall layout with participants and derives
// seat labels and annotations.
package seating

import (
	"fmt"
	"sort"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

const (
	// MonasticSection and MonasticRegion mark seats placed in the monastic column.
	MonasticSection = "monastic-column"
	MonasticRegion  = "M"
)

type Options struct {
	SessionID    int64
	HallConfigID int64
	GenderType   domain.Gender
	RegionCode   string
}

type Result struct {
	Seats      []domain.Seat
	Unassigned []domain.Participant
	Warnings   []string
}

type queue struct {
	items []domain.Participant
}

func (q *queue) pop() (domain.Participant, bool) {
	if len(q.items) == 0 {
		return domain.Participant{}, false
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p, true
}

type tierQueues struct {
	monastic    queue
	experienced queue
	fresh       queue
}

func tierOf(p domain.Participant) domain.Category {
	switch p.Category {
	case domain.CategoryMonastic, domain.CategoryExperienced, domain.CategoryNew:
		return p.Category
	}
	if p.IsExperienced() {
		return domain.CategoryExperienced
	}
	return domain.CategoryNew
}

// grid is the non-reserved part of one section, grouped by row.
type grid struct {
	rows   [][]layout.SeatCell
	filled map[layout.Slot]domain.Participant
}

func newGrid(cells []layout.SeatCell) *grid {
	g := &grid{filled: make(map[layout.Slot]domain.Participant)}
	rowIndex := make(map[int]int)
	for _, c := range cells {
		if c.Reserved {
			continue
		}
		i, ok := rowIndex[c.Row]
		if !ok {
			i = len(g.rows)
			rowIndex[c.Row] = i
			g.rows = append(g.rows, nil)
		}
		g.rows[i] = append(g.rows[i], c)
	}
	return g
}

func (g *grid) empty(c layout.SeatCell) bool {
	_, ok := g.filled[layout.Slot{Row: c.Row, Col: c.Col}]
	return !ok
}

func (g *grid) put(c layout.SeatCell, q *queue) bool {
	p, ok := q.pop()
	if !ok {
		return false
	}
	g.filled[layout.Slot{Row: c.Row, Col: c.Col}] = p
	return true
}

func (g *grid) fillRowMajor(q *queue) {
	for _, row := range g.rows {
		for _, c := range row {
			if g.empty(c) && !g.put(c, q) {
				return
			}
		}
	}
}

// fillTwoTier seats experienced participants at the front and new ones behind
// them. Head rows never keep an internal gap, and only the final row may stay
// partially empty.
func (g *grid) fillTwoTier(exp, fresh *queue) {
	n := len(g.rows)
	if n == 0 {
		return
	}
	last := n - 1
	head := min(2, last)

	for r := 0; r < head; r++ {
		row := g.rows[r]
		for i, c := range row {
			if g.put(c, exp) {
				continue
			}
			for k := len(row) - 1; k >= i; k-- {
				g.put(row[k], fresh)
			}
			break
		}
	}

middle:
	for r := head; r < last; r++ {
		for _, c := range g.rows[r] {
			if !g.put(c, exp) {
				break middle
			}
		}
	}

	g.fillColumns(last, fresh)

	for _, c := range g.rows[last] {
		if !g.empty(c) {
			continue
		}
		if !g.put(c, exp) {
			g.put(c, fresh)
		}
	}
}

// fillColumns fills empty cells above row index stop, rightmost column first,
// top to bottom within a column.
func (g *grid) fillColumns(stop int, q *queue) {
	first := -1
	for r := 0; r < stop && first < 0; r++ {
		for _, c := range g.rows[r] {
			if g.empty(c) {
				first = r
				break
			}
		}
	}
	if first < 0 {
		return
	}

	byCol := make(map[int][]layout.SeatCell)
	var cols []int
	for r := first; r < stop; r++ {
		for _, c := range g.rows[r] {
			if _, ok := byCol[c.Col]; !ok {
				cols = append(cols, c.Col)
			}
			byCol[c.Col] = append(byCol[c.Col], c)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(cols)))

	for _, col := range cols {
		for _, c := range byCol[col] {
			if !g.empty(c) {
				continue
			}
			if !g.put(c, q) {
				return
			}
		}
	}
}

// Allocate seats participants, who must be in priority order, into the
// compiled layout. Every compiled cell yields one seat; participants that do
// not fit are returned in Unassigned.
func Allocate(compiled layout.CompiledLayout, participants []domain.Participant, opts Options) Result {
	var res Result

	queues := map[domain.Gender]*tierQueues{
		domain.GenderMale:   {},
		domain.GenderFemale: {},
	}
	for _, p := range participants {
		q, ok := queues[p.Gender]
		if !ok {
			continue
		}
		switch tierOf(p) {
		case domain.CategoryMonastic:
			q.monastic.items = append(q.monastic.items, p)
		case domain.CategoryExperienced:
			q.experienced.items = append(q.experienced.items, p)
		default:
			q.fresh.items = append(q.fresh.items, p)
		}
	}

	type filling struct {
		sec    layout.Section
		gender domain.Gender
		region string
		cells  []layout.SeatCell
		grid   *grid
	}
	fills := make([]filling, 0, len(compiled.Sections))
	for _, sec := range compiled.Sections {
		gender, warning := ResolveSectionGender(sec, opts)
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
		cells := compiled.CellsOf(sec.Name)
		fills = append(fills, filling{
			sec:    sec,
			gender: gender,
			region: regionCode(sec, gender, opts),
			cells:  cells,
			grid:   newGrid(cells),
		})
	}

	// dedicated monastic and experienced sections drain their queues before
	// any mixed section, whatever the declaration order
	for _, f := range fills {
		q := queues[f.gender]
		switch f.sec.Purpose {
		case layout.PurposeMonastic:
			f.grid.fillRowMajor(&q.monastic)
		case layout.PurposeExperienced:
			f.grid.fillRowMajor(&q.experienced)
		}
	}
	for _, f := range fills {
		q := queues[f.gender]
		switch f.sec.Purpose {
		case layout.PurposeMonastic, layout.PurposeExperienced, layout.PurposeWorker:
		case layout.PurposeNew:
			f.grid.fillTwoTier(&queue{}, &q.fresh)
		default:
			f.grid.fillTwoTier(&q.experienced, &q.fresh)
		}
	}

	placed := make(map[int64]bool)
	for _, f := range fills {
		for _, c := range f.cells {
			seat := domain.Seat{
				SessionID:    opts.SessionID,
				HallConfigID: opts.HallConfigID,
				SeatType:     seatTypeFor(f.sec.Purpose),
				Status:       domain.SeatStatusAvailable,
				Gender:       f.gender,
				RegionCode:   f.region,
				SectionName:  f.sec.Name,
				Row:          c.Row,
				Col:          c.Col,
			}
			if c.Reserved {
				seat.Status = domain.SeatStatusReserved
			} else if p, ok := f.grid.filled[layout.Slot{Row: c.Row, Col: c.Col}]; ok {
				seat = occupy(seat, p)
				placed[p.ID] = true
			}
			res.Seats = append(res.Seats, seat)
		}
	}

	res.Seats = append(res.Seats, placeMonastics(compiled.MonasticSeats, participants, placed, opts)...)

	for _, p := range participants {
		if !placed[p.ID] {
			res.Unassigned = append(res.Unassigned, p)
		}
	}
	if n := len(res.Unassigned); n > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("hall capacity shortfall: %d participants without a seat", n))
	}

	sort.SliceStable(res.Seats, func(i, j int) bool {
		a, b := res.Seats[i], res.Seats[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return res
}

func placeMonastics(cfg *layout.MonasticSeatConfig, participants []domain.Participant, placed map[int64]bool, opts Options) []domain.Seat {
	if cfg == nil {
		return nil
	}
	spacing := max(cfg.Spacing, 1)

	var seats []domain.Seat
	for _, p := range participants {
		if placed[p.ID] || !p.Gender.Known() || tierOf(p) != domain.CategoryMonastic {
			continue
		}
		i := len(seats)
		if cfg.MaxCount > 0 && i >= cfg.MaxCount {
			break
		}
		row, col := cfg.StartRow+i*spacing, cfg.StartCol
		if cfg.Direction == layout.DirectionRow {
			row, col = cfg.StartRow, cfg.StartCol+i*spacing
		}
		seat := domain.Seat{
			SessionID:    opts.SessionID,
			HallConfigID: opts.HallConfigID,
			SeatType:     domain.SeatTypeMonastic,
			Gender:       p.Gender,
			RegionCode:   MonasticRegion,
			SectionName:  MonasticSection,
			Row:          row,
			Col:          col,
		}
		seats = append(seats, occupy(seat, p))
		placed[p.ID] = true
	}
	return seats
}

func occupy(seat domain.Seat, p domain.Participant) domain.Seat {
	id := p.ID
	seat.ParticipantID = &id
	seat.Status = domain.SeatStatusAllocated
	seat.IsExperienced = p.IsExperienced()
	seat.AgeGroup = domain.AgeGroupFor(p.Age)
	return seat
}

func seatTypeFor(p layout.Purpose) domain.SeatType {
	switch p {
	case layout.PurposeMonastic:
		return domain.SeatTypeMonastic
	case layout.PurposeWorker:
		return domain.SeatTypeWorker
	default:
		return domain.SeatTypeStudent
	}
}
