package layout

import (
	"fmt"
	"sort"
	"strings"
)

const (
	defaultLegacyWidth    = 8
	defaultLegacyRows     = 10
	defaultMonasticPrefix = "M"
	defaultMonasticGap    = 3
)

// Compile expands every section rectangle into cells. It has no side effects
// and returns equal output for equal input.
func Compile(l HallLayout) CompiledLayout {
	reserved := make(map[Slot]struct{}, len(l.ReservedSlots))
	for _, s := range l.ReservedSlots {
		reserved[s] = struct{}{}
	}

	taken := make(map[Slot]struct{})
	cells := make([]SeatCell, 0)
	maxRow, maxCol := -1, -1

	for _, sec := range l.Sections {
		r0, r1 := ordered(sec.RowStart, sec.RowEnd)
		c0, c1 := ordered(sec.ColStart, sec.ColEnd)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				pos := Slot{Row: r, Col: c}
				// overlapping sections: first declaration owns the cell
				if _, dup := taken[pos]; dup {
					continue
				}
				taken[pos] = struct{}{}
				_, isReserved := reserved[pos]
				cells = append(cells, SeatCell{
					Row:      r,
					Col:      c,
					Section:  sec.Name,
					Purpose:  sec.Purpose,
					Reserved: isReserved,
				})
				if r > maxRow {
					maxRow = r
				}
				if c > maxCol {
					maxCol = c
				}
			}
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})

	out := CompiledLayout{
		Cells:     cells,
		TotalRows: l.TotalRows,
		TotalCols: l.TotalCols,
		Numbering: l.Numbering,
	}
	if out.TotalRows <= 0 {
		out.TotalRows = maxRow + 1
	}
	if out.TotalCols <= 0 {
		out.TotalCols = maxCol + 1
	}
	if len(l.Sections) > 0 {
		out.Sections = append([]Section(nil), l.Sections...)
	}
	if l.MonasticSeats != nil {
		m := *l.MonasticSeats
		out.MonasticSeats = &m
	}
	if len(l.HighlightRules) > 0 {
		out.HighlightRules = append([]HighlightRule(nil), l.HighlightRules...)
	}
	return out
}

// WithDefaults returns a copy of l with unset options filled in.
func WithDefaults(l HallLayout) HallLayout {
	out := l
	out.Sections = make([]Section, len(l.Sections))
	for i, sec := range l.Sections {
		if strings.TrimSpace(sec.Name) == "" {
			sec.Name = fmt.Sprintf("section-%d", i+1)
		}
		if sec.Purpose == "" {
			sec.Purpose = PurposeMixed
		}
		out.Sections[i] = sec
	}

	if out.Numbering.Mode == "" {
		out.Numbering.Mode = NumberingSequential
	}
	if out.Numbering.Start <= 0 {
		out.Numbering.Start = 1
	}

	if l.MonasticSeats != nil {
		m := *l.MonasticSeats
		if m.Spacing < 1 {
			m.Spacing = defaultMonasticGap
		}
		if m.Direction == "" {
			m.Direction = DirectionColumn
		}
		if m.Prefix == "" {
			m.Prefix = defaultMonasticPrefix
		}
		out.MonasticSeats = &m
	}

	out.HighlightRules = append([]HighlightRule(nil), l.HighlightRules...)
	for i, rule := range out.HighlightRules {
		if rule.Tag == "" {
			out.HighlightRules[i].Tag = rule.Code
		}
	}
	return out
}

// LegacyLayout builds a single mixed section for configs that only carry dimensions.
func LegacyLayout(width, rows int) HallLayout {
	if width <= 0 {
		width = defaultLegacyWidth
	}
	if rows <= 0 {
		rows = defaultLegacyRows
	}
	return WithDefaults(HallLayout{
		TotalRows: rows,
		TotalCols: width,
		Sections: []Section{{
			Name:     "main",
			Purpose:  PurposeMixed,
			RowStart: 0,
			RowEnd:   rows - 1,
			ColStart: 0,
			ColEnd:   width - 1,
		}},
	})
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
