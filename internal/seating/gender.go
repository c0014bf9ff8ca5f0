package seating

import (
	"fmt"
	"strings"
	"unicode"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

var (
	femaleWords = map[string]bool{"female": true, "women": true, "woman": true, "nuns": true}
	maleWords   = map[string]bool{"male": true, "men": true, "man": true, "monks": true}
)

// ResolveSectionGender picks the gender seated in a section: the declared
// gender, then a marker in the name, then the A/B region convention
// (A is male, B is female), then the layout gender. It falls back to female
// and returns a warning.
func ResolveSectionGender(sec layout.Section, opts Options) (domain.Gender, string) {
	if sec.Gender.Known() {
		return sec.Gender, ""
	}
	if g, ok := genderFromName(sec.Name); ok {
		return g, ""
	}
	if g, ok := genderFromRegion(sec.RegionCode); ok {
		return g, ""
	}
	if g, ok := genderFromRegion(sec.Name); ok {
		return g, ""
	}
	if opts.GenderType.Known() {
		return opts.GenderType, ""
	}
	return domain.GenderFemale, fmt.Sprintf("section %q has no gender marker, seating female participants", sec.Name)
}

func genderFromName(name string) (domain.Gender, bool) {
	if strings.Contains(name, "女") {
		return domain.GenderFemale, true
	}
	if strings.Contains(name, "男") {
		return domain.GenderMale, true
	}
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if femaleWords[w] {
			return domain.GenderFemale, true
		}
	}
	for _, w := range words {
		if maleWords[w] {
			return domain.GenderMale, true
		}
	}
	return "", false
}

// regionLetter returns 'A' or 'B' when s starts with a standalone region letter
// such as "A", "B-front" or "A区".
func regionLetter(s string) (rune, bool) {
	r := []rune(strings.TrimSpace(s))
	if len(r) == 0 {
		return 0, false
	}
	first := unicode.ToUpper(r[0])
	if first != 'A' && first != 'B' {
		return 0, false
	}
	if len(r) > 1 && r[1] < unicode.MaxASCII && unicode.IsLetter(r[1]) {
		return 0, false
	}
	return first, true
}

func genderFromRegion(s string) (domain.Gender, bool) {
	letter, ok := regionLetter(s)
	if !ok {
		return "", false
	}
	if letter == 'A' {
		return domain.GenderMale, true
	}
	return domain.GenderFemale, true
}

func regionCode(sec layout.Section, gender domain.Gender, opts Options) string {
	if sec.RegionCode != "" {
		return sec.RegionCode
	}
	if letter, ok := regionLetter(sec.Name); ok {
		return string(letter)
	}
	if opts.RegionCode != "" {
		return opts.RegionCode
	}
	if gender == domain.GenderMale {
		return "A"
	}
	return "B"
}
