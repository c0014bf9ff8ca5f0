package layout

import "fmt"

type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate reports structural problems. An empty result means the layout can
// be compiled and seated.
func Validate(l HallLayout) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(l.Sections) == 0 {
		add("sections", "layout has no sections")
	}
	if l.TotalRows < 0 || l.TotalCols < 0 {
		add("totals", "total rows and columns must not be negative")
	}

	names := make(map[string]int)
	for i, sec := range l.Sections {
		field := fmt.Sprintf("sections[%d]", i)
		if prev, dup := names[sec.Name]; dup {
			add(field+".name", "duplicate section name %q (also sections[%d])", sec.Name, prev)
		} else {
			names[sec.Name] = i
		}
		if sec.RowStart > sec.RowEnd {
			add(field+".row_start", "row_start %d is after row_end %d", sec.RowStart, sec.RowEnd)
		}
		if sec.ColStart > sec.ColEnd {
			add(field+".col_start", "col_start %d is after col_end %d", sec.ColStart, sec.ColEnd)
		}
		if sec.RowStart < l.OriginRow || sec.ColStart < l.OriginCol {
			add(field, "section %q starts before the grid origin", sec.Name)
		}
		if l.TotalRows > 0 && sec.RowEnd >= l.TotalRows {
			add(field+".row_end", "row_end %d outside %d rows", sec.RowEnd, l.TotalRows)
		}
		if l.TotalCols > 0 && sec.ColEnd >= l.TotalCols {
			add(field+".col_end", "col_end %d outside %d columns", sec.ColEnd, l.TotalCols)
		}
		if sec.Capacity < 0 {
			add(field+".capacity", "capacity must be positive")
		}
		if sec.Purpose == PurposeOther {
			add(field+".purpose", "unknown purpose")
		}
		if sec.NumberingOverride != nil && ParseNumberingMode(string(sec.NumberingOverride.Mode)) == NumberingUnknown {
			add(field+".numbering_override.mode", "unknown numbering mode %q", sec.NumberingOverride.Mode)
		}
		for j := 0; j < i; j++ {
			if overlaps(sec, l.Sections[j]) {
				add(field, "section %q overlaps section %q", sec.Name, l.Sections[j].Name)
			}
		}
	}

	for i, slot := range l.ReservedSlots {
		if slot.Row < 0 || slot.Col < 0 ||
			(l.TotalRows > 0 && slot.Row >= l.TotalRows) ||
			(l.TotalCols > 0 && slot.Col >= l.TotalCols) {
			add(fmt.Sprintf("reserved_slots[%d]", i), "reserved slot (%d,%d) is outside the grid", slot.Row, slot.Col)
		}
	}

	if ParseNumberingMode(string(l.Numbering.Mode)) == NumberingUnknown {
		add("numbering.mode", "unknown numbering mode %q", l.Numbering.Mode)
	}

	if m := l.MonasticSeats; m != nil {
		if m.StartRow < 0 || m.StartCol < 0 {
			add("monastic_seats", "monastic seats must start inside the grid")
		}
		if m.MaxCount < 0 {
			add("monastic_seats.max_count", "max_count must not be negative")
		}
		if m.Direction != "" && m.Direction != DirectionColumn && m.Direction != DirectionRow {
			add("monastic_seats.direction", "direction must be column or row")
		}
	}

	for i, rule := range l.HighlightRules {
		if _, err := ParsePredicate(rule.Expression); err != nil {
			add(fmt.Sprintf("highlight_rules[%d].expression", i), "%v", err)
		}
	}

	return issues
}

func overlaps(a, b Section) bool {
	ar0, ar1 := ordered(a.RowStart, a.RowEnd)
	ac0, ac1 := ordered(a.ColStart, a.ColEnd)
	br0, br1 := ordered(b.RowStart, b.RowEnd)
	bc0, bc1 := ordered(b.ColStart, b.ColEnd)
	return ar0 <= br1 && br0 <= ar1 && ac0 <= bc1 && bc0 <= ac1
}
