// internal/scoring/normalize/tables.go
package normalize

import (
	"sort"
	"strings"
)

// KeywordScore is one entry of the ordered specialization keyword fallback.
type KeywordScore struct {
	Keyword string
	Score   float64
}

// Tables holds the immutable category-to-score lookup data. Engines receive
// a Tables value at construction instead of reaching for package state.
type Tables struct {
	Qualification          map[QualificationLevel]float64
	Experience             map[ExperienceCategory]float64
	Rating                 map[RatingCategory]float64
	RatingCount            map[RatingCountCategory]float64
	Specialization         map[string]float64
	SpecializationKeywords []KeywordScore
}

// DefaultTables returns the standard scoring tables.
func DefaultTables() Tables {
	return Tables{
		Qualification: map[QualificationLevel]float64{
			QualDM:          10,
			QualMCh:         10,
			QualDNBSuper:    9.5,
			QualFellowship:  9,
			QualPhD:         9,
			QualMD:          8.5,
			QualMS:          8.5,
			QualMDS:         8,
			QualDNBBroad:    8,
			QualPGDiploma:   6.5,
			QualMBBS:        6,
			QualMBBSForeign: 5.5,
			QualBDS:         5,
			QualBAMS:        5,
			QualBHMS:        5,
			QualBUMS:        4.5,
			QualOther:       2,
		},
		Experience: map[ExperienceCategory]float64{
			ExperienceUnder5: 3,
			Experience5To10:  4,
			Experience10Plus: 5,
		},
		Rating: map[RatingCategory]float64{
			Rating49Plus:  1,
			Rating44To48:  5,
			Rating41To43:  3,
			RatingBelow41: 1,
		},
		RatingCount: map[RatingCountCategory]float64{
			Count1000Plus: 5,
			Count500To999: 4,
			Count200To499: 3,
			Count50To199:  2,
			CountUnder50:  1,
		},
		Specialization: map[string]float64{
			"Aesthetics":                1,
			"Ayush":                     2,
			"Cardiology":                2,
			"Cosmetology":               2,
			"Dentistry":                 3,
			"Dermatology":               2,
			"ENT":                       4,
			"General Surgery":           3,
			"Gynecology and obstetrics": 4,
			"Hair":                      1,
			"Home Care Facility":        3,
			"IVF":                       5,
			"Multispeciality Hospital":  3,
			"Neurology":                 4,
			"Ophthalmology":             5,
			"Orthopedics":               5,
			"Pain Management":           3,
			"Physiotherapy":             2,
			"Plastic surgery":           4,
			"Prosthetics":               5,
			"Speech and Hearing":        4,
			"Super Speciality Hospital": 5,
			"Urology":                   4,
			"Medical Device":            4,
		},
		SpecializationKeywords: []KeywordScore{
			{"ortho", 5},
			{"ophthal", 5},
			{"ivf", 5},
			{"gyn", 4},
			{"neuro", 4},
			{"uro", 4},
			{"ent ", 4},
			{"dent", 3},
			{"cardio", 2},
			{"derma", 2},
			{"physio", 2},
			{"ayur", 2},
		},
	}
}

// QualificationScore resolves qualification text to its table score.
func (t Tables) QualificationScore(text string) float64 {
	return t.Qualification[ExtractQualificationLevel(text)]
}

// ExperienceScore resolves experience text to its table score.
func (t Tables) ExperienceScore(text string) float64 {
	return t.Experience[CategorizeExperience(ExtractExperienceYears(text))]
}

// RatingScore resolves an already-normalized 0-5 rating to its band score.
func (t Tables) RatingScore(rating float64) float64 {
	return t.Rating[CategorizeRating(rating)]
}

// specializationNames returns the table names in sorted order. Substring
// matching can hit several entries at once and the winner must not depend
// on map iteration order.
func (t Tables) specializationNames() []string {
	names := make([]string, 0, len(t.Specialization))
	for name := range t.Specialization {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpecializationScore matches specialty text against the specialization
// table: exact match first, then substring in either direction, then the
// keyword fallback. 0 when nothing matches.
func (t Tables) SpecializationScore(text string) float64 {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return 0
	}

	names := t.specializationNames()

	for _, name := range names {
		if strings.ToLower(name) == needle {
			return t.Specialization[name]
		}
	}

	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(needle, lower) || strings.Contains(lower, needle) {
			return t.Specialization[name]
		}
	}

	for _, ks := range t.SpecializationKeywords {
		if strings.Contains(needle, ks.Keyword) {
			return ks.Score
		}
	}

	return 0
}
