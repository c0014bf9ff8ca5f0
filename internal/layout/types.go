// Package layout turns a declarative meditation hall description into a
// concrete grid of seat cells.
package layout

import (
	"encoding/json"
	"strings"

	"retreatdesk/internal/domain"
)

type Purpose string

const (
	PurposeMonastic    Purpose = "monastic"
	PurposeExperienced Purpose = "experienced"
	PurposeNew         Purpose = "new"
	PurposeMixed       Purpose = "mixed"
	PurposeWorker      Purpose = "worker"
	PurposeOther       Purpose = "other"
)

func ParsePurpose(s string) Purpose {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monastic", "monk":
		return PurposeMonastic
	case "experienced", "old", "old_student":
		return PurposeExperienced
	case "new", "new_student":
		return PurposeNew
	case "", "mixed":
		return PurposeMixed
	case "worker", "dhamma_worker":
		return PurposeWorker
	default:
		return PurposeOther
	}
}

type NumberingMode string

const (
	NumberingSequential NumberingMode = "sequential"
	NumberingOdd        NumberingMode = "odd"
	NumberingEven       NumberingMode = "even"
	NumberingABSplit    NumberingMode = "ab_split"
	NumberingUnknown    NumberingMode = "unknown"
)

func ParseNumberingMode(s string) NumberingMode {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "-", "_")
	switch v {
	case "", "sequential":
		return NumberingSequential
	case "odd":
		return NumberingOdd
	case "even":
		return NumberingEven
	case "ab_split", "absplit":
		return NumberingABSplit
	default:
		return NumberingUnknown
	}
}

type Direction string

const (
	DirectionColumn Direction = "column"
	DirectionRow    Direction = "row"
)

type NumberingConfig struct {
	Mode   NumberingMode `json:"mode"`
	Start  int           `json:"start"`
	Prefix string        `json:"prefix,omitempty"`
}

// Section is a named inclusive rectangle of the hall grid.
type Section struct {
	Name              string           `json:"name"`
	Purpose           Purpose          `json:"purpose"`
	Gender            domain.Gender    `json:"gender,omitempty"`
	RegionCode        string           `json:"region_code,omitempty"`
	RowStart          int              `json:"row_start"`
	RowEnd            int              `json:"row_end"`
	ColStart          int              `json:"col_start"`
	ColEnd            int              `json:"col_end"`
	NumberingOverride *NumberingConfig `json:"numbering_override,omitempty"`
	Capacity          int              `json:"capacity,omitempty"`
}

type Slot struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MonasticSeatConfig places monastics in a dedicated column or row.
type MonasticSeatConfig struct {
	StartRow  int       `json:"start_row"`
	StartCol  int       `json:"start_col"`
	Direction Direction `json:"direction"`
	Spacing   int       `json:"spacing"`
	MaxCount  int       `json:"max_count"`
	Prefix    string    `json:"prefix"`
}

type HighlightRule struct {
	Code       string `json:"code"`
	Expression string `json:"expression"`
	Tag        string `json:"tag"`
	Color      string `json:"color,omitempty"`
}

type HallLayout struct {
	OriginRow      int                 `json:"origin_row"`
	OriginCol      int                 `json:"origin_col"`
	TotalRows      int                 `json:"total_rows"`
	TotalCols      int                 `json:"total_cols"`
	GenderType     domain.Gender       `json:"gender_type,omitempty"`
	Sections       []Section           `json:"sections"`
	ReservedSlots  []Slot              `json:"reserved_slots,omitempty"`
	MonasticSeats  *MonasticSeatConfig `json:"monastic_seats,omitempty"`
	Numbering      NumberingConfig     `json:"numbering"`
	HighlightRules []HighlightRule     `json:"highlight_rules,omitempty"`
}

type SeatCell struct {
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Section  string  `json:"section"`
	Purpose  Purpose `json:"purpose"`
	Reserved bool    `json:"reserved"`
}

// CompiledLayout is derived from a HallLayout and never stored.
type CompiledLayout struct {
	Cells          []SeatCell          `json:"cells"`
	TotalRows      int                 `json:"total_rows"`
	TotalCols      int                 `json:"total_cols"`
	Sections       []Section           `json:"sections"`
	Numbering      NumberingConfig     `json:"numbering"`
	MonasticSeats  *MonasticSeatConfig `json:"monastic_seats,omitempty"`
	HighlightRules []HighlightRule     `json:"highlight_rules,omitempty"`
}

// Section returns the declared section with the given name.
func (c CompiledLayout) Section(name string) (Section, bool) {
	for _, s := range c.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// CellsOf returns the cells of one section in row-major order.
func (c CompiledLayout) CellsOf(section string) []SeatCell {
	var out []SeatCell
	for _, cell := range c.Cells {
		if cell.Section == section {
			out = append(out, cell)
		}
	}
	return out
}

func (c CompiledLayout) UsableCount() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.Reserved {
			n++
		}
	}
	return n
}

func Decode(doc string) (HallLayout, error) {
	var l HallLayout
	if err := json.Unmarshal([]byte(doc), &l); err != nil {
		return HallLayout{}, err
	}
	return l, nil
}

func Encode(l HallLayout) (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
