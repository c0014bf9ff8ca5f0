package layout

import (
	"fmt"
	"strconv"
	"strings"
)

type predicateKind int

const (
	predicateAge predicateKind = iota
	predicateNotes
)

// Predicate is a parsed highlight rule expression.
type Predicate struct {
	kind  predicateKind
	op    string
	value int
	terms []string
}

var pregnancyTerms = []string{"pregnan", "孕"}

// ParsePredicate understands "age>=N", "age>N", "age<=N", "age<N",
// "notes:<text>" and the keyword "pregnant".
func ParsePredicate(expr string) (Predicate, error) {
	e := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	switch {
	case e == "":
		return Predicate{}, fmt.Errorf("empty expression")
	case e == "pregnant" || e == "pregnancy":
		return Predicate{kind: predicateNotes, terms: pregnancyTerms}, nil
	case strings.HasPrefix(e, "notes:"):
		text := strings.ToLower(strings.TrimSpace(expr[strings.Index(expr, ":")+1:]))
		if text == "" {
			return Predicate{}, fmt.Errorf("notes predicate needs text")
		}
		return Predicate{kind: predicateNotes, terms: []string{text}}, nil
	case strings.HasPrefix(e, "age"):
		rest := strings.TrimPrefix(e, "age")
		for _, op := range []string{">=", "<=", ">", "<"} {
			if !strings.HasPrefix(rest, op) {
				continue
			}
			n, err := strconv.Atoi(strings.TrimPrefix(rest, op))
			if err != nil {
				return Predicate{}, fmt.Errorf("invalid age threshold in %q", expr)
			}
			return Predicate{kind: predicateAge, op: op, value: n}, nil
		}
		return Predicate{}, fmt.Errorf("unsupported age comparison in %q", expr)
	default:
		return Predicate{}, fmt.Errorf("unsupported expression %q", expr)
	}
}

func (p Predicate) Match(age int, notes string) bool {
	switch p.kind {
	case predicateAge:
		switch p.op {
		case ">=":
			return age >= p.value
		case ">":
			return age > p.value
		case "<=":
			return age <= p.value
		case "<":
			return age < p.value
		}
		return false
	case predicateNotes:
		lower := strings.ToLower(notes)
		for _, t := range p.terms {
			if strings.Contains(lower, t) {
				return true
			}
		}
	}
	return false
}
