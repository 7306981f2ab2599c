// internal/scoring/normalize/normalize.go

// Package normalize maps the free-text fields found in scraped provider
// records onto canonical categories and numeric values. Every function is
// total: malformed or absent input resolves to a default, never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// QualificationLevel is the canonical medical qualification category.
type QualificationLevel string

const (
	QualDM          QualificationLevel = "DM"
	QualMCh         QualificationLevel = "MCh"
	QualDNBSuper    QualificationLevel = "DNB (Super Specialties)"
	QualFellowship  QualificationLevel = "Post-Doctoral Fellowships"
	QualPhD         QualificationLevel = "PhD in Medical Sciences"
	QualMD          QualificationLevel = "MD"
	QualMS          QualificationLevel = "MS"
	QualMDS         QualificationLevel = "MDS"
	QualDNBBroad    QualificationLevel = "DNB (Broad Specialties)"
	QualPGDiploma   QualificationLevel = "Medical PG Diplomas"
	QualMBBS        QualificationLevel = "MBBS"
	QualMBBSForeign QualificationLevel = "MBBS (Foreign)"
	QualBDS         QualificationLevel = "BDS"
	QualBAMS        QualificationLevel = "BAMS"
	QualBHMS        QualificationLevel = "BHMS"
	QualBUMS        QualificationLevel = "BUMS"
	QualOther       QualificationLevel = "Other"
)

var dnbSuperSpecs = []string{"CARDIO", "NEURO", "GASTRO", "ONCO", "ENDOCRIN"}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ExtractQualificationLevel resolves a qualification string to the highest
// qualification it mentions. Super-specialty degrees are tested before the
// broader categories, so "MD, DM Cardiology" resolves to DM, not MD.
func ExtractQualificationLevel(text string) QualificationLevel {
	up := strings.ToUpper(strings.TrimSpace(text))
	if up == "" {
		return QualOther
	}

	switch {
	case strings.Contains(up, "DM") && !strings.Contains(up, "DMRE"):
		return QualDM
	case strings.Contains(up, "MCH"):
		return QualMCh
	case strings.Contains(up, "DNB") && containsAny(up, dnbSuperSpecs):
		return QualDNBSuper
	case containsAny(up, []string{"FELLOWSHIP", "POST-DOCTORAL"}):
		return QualFellowship
	case strings.Contains(up, "PHD"):
		return QualPhD
	case strings.Contains(up, "MD") && !strings.Contains(up, "MBBS"):
		return QualMD
	case strings.Contains(up, "MS") && !strings.Contains(up, "MBBS") && !strings.Contains(up, "MDS"):
		return QualMS
	case strings.Contains(up, "MDS"):
		return QualMDS
	case strings.Contains(up, "DNB"):
		return QualDNBBroad
	case containsAny(up, []string{"DGO", "DCH", "DMRE", "DIPLOMA"}):
		return QualPGDiploma
	case strings.Contains(up, "MBBS") && containsAny(up, []string{"FOREIGN", "ABROAD", "INTERNATIONAL"}):
		return QualMBBSForeign
	case strings.Contains(up, "MBBS"):
		return QualMBBS
	case strings.Contains(up, "BDS"):
		return QualBDS
	case strings.Contains(up, "BAMS"):
		return QualBAMS
	case strings.Contains(up, "BHMS"):
		return QualBHMS
	case strings.Contains(up, "BUMS"):
		return QualBUMS
	default:
		return QualOther
	}
}

var (
	yearsPattern   = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years|yrs)`)
	numericPattern = regexp.MustCompile(`\d+`)
	nonDigits      = regexp.MustCompile(`\D`)
)

// ExtractExperienceYears pulls the years of experience out of strings like
// "12 Years Experience" or "10+ yrs". Falls back to the first integer found
// anywhere; 0 when nothing matches.
func ExtractExperienceYears(text string) int {
	if text == "" {
		return 0
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	if m := numericPattern.FindString(text); m != "" {
		n, _ := strconv.Atoi(m)
		return n
	}
	return 0
}

// ExperienceCategory buckets years of practice.
type ExperienceCategory string

const (
	ExperienceUnder5 ExperienceCategory = "under 5 years"
	Experience5To10  ExperienceCategory = "5-10 years"
	Experience10Plus ExperienceCategory = "10+ years"
)

func CategorizeExperience(years int) ExperienceCategory {
	switch {
	case years >= 10:
		return Experience10Plus
	case years >= 5:
		return Experience5To10
	default:
		return ExperienceUnder5
	}
}

// RatingCategory buckets a normalized 0-5 rating. The top band scores lower
// than 4.4-4.8: a suspiciously perfect rating is treated as a red flag, not
// a better one.
type RatingCategory string

const (
	Rating49Plus  RatingCategory = "4.9 or more"
	Rating44To48  RatingCategory = "4.4-4.8"
	Rating41To43  RatingCategory = "4.1-4.3"
	RatingBelow41 RatingCategory = "less than 4.1"
)

func CategorizeRating(rating float64) RatingCategory {
	switch {
	case rating >= 4.9:
		return Rating49Plus
	case rating >= 4.4:
		return Rating44To48
	case rating >= 4.1:
		return Rating41To43
	default:
		return RatingBelow41
	}
}

// RatingCountCategory buckets the review volume behind a rating.
type RatingCountCategory string

const (
	Count1000Plus RatingCountCategory = "1000+"
	Count500To999 RatingCountCategory = "500-999"
	Count200To499 RatingCountCategory = "200-499"
	Count50To199  RatingCountCategory = "50-199"
	CountUnder50  RatingCountCategory = "Less than 50"
)

func CategorizeRatingCount(count int) RatingCountCategory {
	switch {
	case count >= 1000:
		return Count1000Plus
	case count >= 500:
		return Count500To999
	case count >= 200:
		return Count200To499
	case count >= 50:
		return Count50To199
	default:
		return CountUnder50
	}
}

// CleanRatingCount parses rating-count strings like "1,108 Ratings" by
// stripping every non-digit character. Returns 0 on empty or unparsable
// input.
func CleanRatingCount(raw string) int {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// NormalizeRating maps a source rating string onto the 0-5 scale. Percent
// recommendations ("92%") divide by 20; anything else parses as an already
// 0-5 value. Returns 0 on any parse failure.
func NormalizeRating(raw, source string) float64 {
	_ = source // every supported source is either percent- or 0-5-scaled

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	val := raw
	percent := strings.Contains(raw, "%")
	if percent {
		val = strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	if percent {
		f /= 20
	}
	if f < 0 {
		return 0
	}
	if f > 5 {
		return 5
	}
	return f
}
