package seating

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

func person(id int64, g domain.Gender, cat domain.Category, age int) domain.Participant {
	courses := 0
	if cat == domain.CategoryExperienced {
		courses = 2
	}
	return domain.Participant{ID: id, Name: fmt.Sprintf("p%d", id), Gender: g, Category: cat, CourseCount: courses, Age: age}
}

func people(g domain.Gender, cat domain.Category, from, to int64) []domain.Participant {
	var out []domain.Participant
	for id := from; id <= to; id++ {
		out = append(out, person(id, g, cat, 30))
	}
	return out
}

func singleSection(name string, purpose layout.Purpose, g domain.Gender, rows, cols int) layout.HallLayout {
	return layout.HallLayout{Sections: []layout.Section{{
		Name: name, Purpose: purpose, Gender: g,
		RowStart: 0, RowEnd: rows - 1, ColStart: 0, ColEnd: cols - 1,
	}}}
}

func occupants(seats []domain.Seat) map[layout.Slot]int64 {
	out := map[layout.Slot]int64{}
	for _, s := range seats {
		if s.Occupied() {
			out[layout.Slot{Row: s.Row, Col: s.Col}] = *s.ParticipantID
		}
	}
	return out
}

func TestAllocate_TwoTierBackfill(t *testing.T) {
	compiled := layout.Compile(singleSection("men", layout.PurposeMixed, domain.GenderMale, 3, 4))
	ps := append(people(domain.GenderMale, domain.CategoryExperienced, 1, 5),
		people(domain.GenderMale, domain.CategoryNew, 6, 15)...)

	res := Allocate(compiled, ps, Options{SessionID: 1})

	require.Len(t, res.Seats, 12)
	got := occupants(res.Seats)
	want := map[layout.Slot]int64{
		{Row: 0, Col: 0}: 1, {Row: 0, Col: 1}: 2, {Row: 0, Col: 2}: 3, {Row: 0, Col: 3}: 4,
		{Row: 1, Col: 0}: 5, {Row: 1, Col: 3}: 6, {Row: 1, Col: 2}: 7, {Row: 1, Col: 1}: 8,
		{Row: 2, Col: 0}: 9, {Row: 2, Col: 1}: 10, {Row: 2, Col: 2}: 11, {Row: 2, Col: 3}: 12,
	}
	assert.Equal(t, want, got)

	require.Len(t, res.Unassigned, 3)
	assert.Equal(t, int64(13), res.Unassigned[0].ID)
	assert.Contains(t, res.Warnings, "hall capacity shortfall: 3 participants without a seat")
}

func TestAllocate_ColumnFillBehindHeadRows(t *testing.T) {
	compiled := layout.Compile(singleSection("men", layout.PurposeMixed, domain.GenderMale, 4, 3))
	ps := append(people(domain.GenderMale, domain.CategoryExperienced, 1, 2),
		people(domain.GenderMale, domain.CategoryNew, 3, 12)...)

	res := Allocate(compiled, ps, Options{})

	got := occupants(res.Seats)
	assert.Len(t, got, 12)
	assert.Empty(t, res.Unassigned)
	assert.Equal(t, int64(3), got[layout.Slot{Row: 0, Col: 2}])
	assert.Equal(t, int64(4), got[layout.Slot{Row: 1, Col: 2}])
	assert.Equal(t, int64(6), got[layout.Slot{Row: 1, Col: 0}])
	assert.Equal(t, int64(7), got[layout.Slot{Row: 2, Col: 2}])
	assert.Equal(t, int64(9), got[layout.Slot{Row: 2, Col: 0}])
	assert.Equal(t, int64(10), got[layout.Slot{Row: 3, Col: 0}])
}

func TestAllocate_OnlyFinalRowMayHaveGaps(t *testing.T) {
	compiled := layout.Compile(singleSection("men", layout.PurposeMixed, domain.GenderMale, 4, 5))
	ps := append(people(domain.GenderMale, domain.CategoryExperienced, 1, 3),
		people(domain.GenderMale, domain.CategoryNew, 4, 11)...)

	res := Allocate(compiled, ps, Options{})
	got := occupants(res.Seats)
	assert.Len(t, got, 11)

	// empty cells may exist only in rows that come after every full row
	lastFull := -1
	for r := 0; r < 4; r++ {
		full := true
		for c := 0; c < 5; c++ {
			if _, ok := got[layout.Slot{Row: r, Col: c}]; !ok {
				full = false
			}
		}
		if full {
			assert.Equal(t, lastFull+1, r, "row %d is full after a row with gaps", r)
			lastFull = r
		}
	}
}

func TestAllocate_ExperiencedSectionFilledBeforeMixed(t *testing.T) {
	l := layout.HallLayout{Sections: []layout.Section{
		{Name: "back", Purpose: layout.PurposeMixed, Gender: domain.GenderFemale, RowStart: 1, RowEnd: 2, ColStart: 0, ColEnd: 3},
		{Name: "front", Purpose: layout.PurposeExperienced, Gender: domain.GenderFemale, RowStart: 0, RowEnd: 0, ColStart: 0, ColEnd: 3},
	}}
	ps := append(people(domain.GenderFemale, domain.CategoryExperienced, 1, 4),
		people(domain.GenderFemale, domain.CategoryNew, 5, 8)...)

	res := Allocate(layout.Compile(l), ps, Options{})

	got := occupants(res.Seats)
	for c := 0; c < 4; c++ {
		assert.Equal(t, int64(c+1), got[layout.Slot{Row: 0, Col: c}], "front col %d", c)
		assert.GreaterOrEqual(t, got[layout.Slot{Row: 1, Col: c}], int64(5), "back col %d", c)
	}
	assert.Len(t, got, 8)
	assert.Empty(t, res.Unassigned)
}

func TestAllocate_GenderSeparation(t *testing.T) {
	l := layout.HallLayout{Sections: []layout.Section{
		{Name: "A", Purpose: layout.PurposeMixed, RowStart: 0, RowEnd: 0, ColStart: 0, ColEnd: 2},
		{Name: "B", Purpose: layout.PurposeMixed, RowStart: 2, RowEnd: 2, ColStart: 0, ColEnd: 2},
	}}
	ps := []domain.Participant{
		person(1, domain.GenderFemale, domain.CategoryNew, 30),
		person(2, domain.GenderMale, domain.CategoryNew, 30),
		person(3, domain.GenderUnknown, domain.CategoryNew, 30),
	}

	res := Allocate(layout.Compile(l), ps, Options{})

	for _, s := range res.Seats {
		if !s.Occupied() {
			continue
		}
		switch *s.ParticipantID {
		case 1:
			assert.Equal(t, "B", s.RegionCode)
			assert.Equal(t, domain.GenderFemale, s.Gender)
		case 2:
			assert.Equal(t, "A", s.RegionCode)
			assert.Equal(t, domain.GenderMale, s.Gender)
		}
	}
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, int64(3), res.Unassigned[0].ID)
	assert.Empty(t, Validate(res.Seats, map[int64]domain.Participant{1: ps[0], 2: ps[1]}))
}

func TestAllocate_ReservedAndMonasticColumn(t *testing.T) {
	l := singleSection("男众", layout.PurposeMixed, "", 2, 3)
	l.ReservedSlots = []layout.Slot{{Row: 0, Col: 1}}
	l.MonasticSeats = &layout.MonasticSeatConfig{StartRow: 0, StartCol: 9, Direction: layout.DirectionColumn, Spacing: 2, MaxCount: 1, Prefix: "V"}
	ps := append(people(domain.GenderMale, domain.CategoryMonastic, 1, 2),
		people(domain.GenderMale, domain.CategoryExperienced, 3, 4)...)

	res := Allocate(layout.Compile(l), ps, Options{})

	var reserved, monastic int
	for _, s := range res.Seats {
		if s.IsReserved() {
			reserved++
			assert.False(t, s.Occupied())
		}
		if s.SectionName == MonasticSection {
			monastic++
			assert.Equal(t, 9, s.Col)
			assert.Equal(t, int64(1), *s.ParticipantID)
			assert.Equal(t, domain.SeatTypeMonastic, s.SeatType)
		}
	}
	assert.Equal(t, 1, reserved)
	assert.Equal(t, 1, monastic)
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, int64(2), res.Unassigned[0].ID)
}

func TestAllocate_WorkerSectionStaysEmpty(t *testing.T) {
	res := Allocate(layout.Compile(singleSection("crew", layout.PurposeWorker, domain.GenderFemale, 1, 2)),
		people(domain.GenderFemale, domain.CategoryNew, 1, 1), Options{})

	require.Len(t, res.Seats, 2)
	for _, s := range res.Seats {
		assert.Equal(t, domain.SeatTypeWorker, s.SeatType)
		assert.False(t, s.Occupied())
	}
	assert.Len(t, res.Unassigned, 1)
}

func TestResolveSectionGender(t *testing.T) {
	tests := []struct {
		name    string
		section layout.Section
		opts    Options
		want    domain.Gender
		warn    bool
	}{
		{"declared", layout.Section{Name: "x", Gender: domain.GenderMale}, Options{}, domain.GenderMale, false},
		{"women word", layout.Section{Name: "Women front"}, Options{}, domain.GenderFemale, false},
		{"men word", layout.Section{Name: "men-back"}, Options{}, domain.GenderMale, false},
		{"cjk", layout.Section{Name: "女众区"}, Options{}, domain.GenderFemale, false},
		{"region A", layout.Section{Name: "front", RegionCode: "A"}, Options{}, domain.GenderMale, false},
		{"name B", layout.Section{Name: "B-2"}, Options{}, domain.GenderFemale, false},
		{"word starting with a", layout.Section{Name: "Annex"}, Options{GenderType: domain.GenderMale}, domain.GenderMale, false},
		{"fallback", layout.Section{Name: "hall"}, Options{}, domain.GenderFemale, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warning := ResolveSectionGender(tt.section, tt.opts)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.warn, warning != "")
		})
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	compiled := layout.Compile(singleSection("A", layout.PurposeMixed, "", 3, 3))
	ps := append(people(domain.GenderMale, domain.CategoryExperienced, 1, 3),
		people(domain.GenderMale, domain.CategoryNew, 4, 8)...)

	assert.Equal(t, Allocate(compiled, ps, Options{}), Allocate(compiled, ps, Options{}))
}
