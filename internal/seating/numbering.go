package seating

import (
	"sort"
	"strconv"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

// Number assigns seat labels in row-major order. Reserved seats stay
// unnumbered and monastic column seats use their own counter and prefix.
func Number(seats []domain.Seat, compiled layout.CompiledLayout) []domain.Seat {
	out := append([]domain.Seat(nil), seats...)

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := out[order[i]], out[order[j]]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.RegionCode < b.RegionCode
	})

	base := compiled.Numbering
	base.Mode = layout.ParseNumberingMode(string(base.Mode))
	if base.Start <= 0 {
		base.Start = 1
	}
	monPrefix := "M"
	if compiled.MonasticSeats != nil && compiled.MonasticSeats.Prefix != "" {
		monPrefix = compiled.MonasticSeats.Prefix
	}

	counter := 0
	monastic := 0
	perRegion := make(map[string]int)
	perSection := make(map[string]int)
	for _, i := range order {
		s := &out[i]
		if s.IsReserved() {
			s.SeatNumber = ""
			continue
		}
		if s.SectionName == MonasticSection && s.RegionCode == MonasticRegion {
			monastic++
			s.SeatNumber = monPrefix + strconv.Itoa(monastic)
			continue
		}

		cfg := base
		if base.Mode == layout.NumberingABSplit {
			cfg = layout.NumberingConfig{Mode: layout.NumberingSequential, Prefix: s.RegionCode}
		}
		var o *layout.NumberingConfig
		if sec, ok := compiled.Section(s.SectionName); ok {
			o = sec.NumberingOverride
		}
		if o != nil {
			cfg = override(cfg, *o)
		}

		var n int
		switch {
		case o != nil && o.Start > 0:
			// an override with its own start numbers the section on its own
			perSection[s.SectionName]++
			n = o.Start - 1 + perSection[s.SectionName]
		case base.Mode == layout.NumberingABSplit:
			perRegion[s.RegionCode]++
			n = base.Start - 1 + perRegion[s.RegionCode]
		default:
			counter++
			n = base.Start - 1 + counter
		}
		s.SeatNumber = formatNumber(cfg, n)
	}
	return out
}

func override(base, o layout.NumberingConfig) layout.NumberingConfig {
	cfg := base
	if m := layout.ParseNumberingMode(string(o.Mode)); m != layout.NumberingUnknown && m != layout.NumberingABSplit {
		cfg.Mode = m
	}
	if o.Prefix != "" {
		cfg.Prefix = o.Prefix
	}
	return cfg
}

func formatNumber(cfg layout.NumberingConfig, n int) string {
	switch cfg.Mode {
	case layout.NumberingOdd:
		n = 2*n - 1
	case layout.NumberingEven:
		n = 2 * n
	}
	return cfg.Prefix + strconv.Itoa(n)
}
