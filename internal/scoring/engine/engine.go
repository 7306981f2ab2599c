// internal/scoring/engine/engine.go

// Package engine combines per-factor sub-scores into a single weighted
// 0-100 trust score and risk tier for doctor and clinic entities. Factor
// scores are computed fresh on every call; nothing here is cached.
package engine

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"kyb-workers/internal/common/metrics"
	"kyb-workers/internal/models"
	"kyb-workers/internal/scoring/geo"
	"kyb-workers/internal/scoring/normalize"
	"kyb-workers/internal/scoring/source"
)

// RiskCategory is the banded risk tier derived from the total score.
type RiskCategory string

const (
	RiskLow      RiskCategory = "Low Risk"
	RiskMedium   RiskCategory = "Medium Risk"
	RiskHigh     RiskCategory = "High Risk"
	RiskVeryHigh RiskCategory = "Very High Risk"
)

// FactorScore is one named sub-score: the raw value on the factor's own
// scale and the normalized value on 0-100.
type FactorScore struct {
	Raw        float64 `json:"raw"`
	Max        float64 `json:"max"`
	Normalized float64 `json:"normalized"`
}

// EntityScore is the full scoring result for one entity.
type EntityScore struct {
	Entity          string                 `json:"entity"`
	Source          string                 `json:"source"`
	Name            string                 `json:"name,omitempty"`
	Factors         map[string]FactorScore `json:"factors"`
	TotalScore      float64                `json:"totalScore"`
	RiskCategory    RiskCategory           `json:"riskCategory"`
	LicenseVerified bool                   `json:"licenseVerified"`
	RatingCount     int                    `json:"ratingCount"`
	Location        geo.Assessment         `json:"location"`
}

// LocationGrader grades a practice address. Implementations never fail;
// they degrade to the Poor band.
type LocationGrader interface {
	Grade(ctx context.Context, address string) geo.Assessment
}

// LicenseVerifier resolves registration numbers to a verified flag.
type LicenseVerifier interface {
	Verify(ctx context.Context, registrationID, recordRegistration string) bool
}

// DoctorDirectory resolves an associated-doctor name to a source record by
// substring match across the doctor directories.
type DoctorDirectory interface {
	FindByNameSubstring(ctx context.Context, name string) (models.SourceRecord, bool, error)
}

var locationPoints = map[geo.Category]float64{
	geo.CategoryPrime:  10,
	geo.CategoryMedium: 5,
	geo.CategoryPoor:   0,
}

var doctorWeights = map[string]float64{
	"qualification":   0.15,
	"experience":      0.15,
	"rating":          0.05,
	"weighted_rating": 0.05,
	"location":        0.10,
	"specialization":  0.10,
	"license":         0.40,
}

var clinicWeights = map[string]float64{
	"rating":                 0.10,
	"weighted_rating":        0.10,
	"location":               0.20,
	"doctors":                0.40,
	"verified_doctors_bonus": 0.20,
}

// Engine scores entities. Collaborators may be nil in tests; a nil
// collaborator behaves like a failing one and degrades.
type Engine struct {
	tables    normalize.Tables
	locations LocationGrader
	licenses  LicenseVerifier
	directory DoctorDirectory
	logger    *zap.Logger
}

func New(tables normalize.Tables, locations LocationGrader, licenses LicenseVerifier, directory DoctorDirectory, logger *zap.Logger) *Engine {
	return &Engine{
		tables:    tables,
		locations: locations,
		licenses:  licenses,
		directory: directory,
		logger:    logger,
	}
}

func factor(raw, max float64) FactorScore {
	normalized := 0.0
	if max > 0 {
		normalized = raw / max * 100
	}
	return FactorScore{Raw: raw, Max: max, Normalized: normalized}
}

// weightedRating blends the rating-band score with a review-volume band
// score so a good rating backed by thousands of reviews outranks the same
// rating backed by a handful. Zero volume falls back to the plain band score.
func (e *Engine) weightedRating(rating float64, count int) float64 {
	base := e.tables.RatingScore(rating)
	if count <= 0 {
		return base
	}
	countScore := e.tables.RatingCount[normalize.CategorizeRatingCount(count)]
	score := base*0.6 + countScore*0.4
	if count > 500 && rating >= 4.0 {
		score += math.Min(float64(count-500)/1000, 1.0)
	}
	return math.Min(score, 5)
}

func (e *Engine) gradeLocation(ctx context.Context, address string) geo.Assessment {
	if e.locations == nil {
		return geo.Assessment{Category: geo.CategoryPoor, Degraded: true}
	}
	return e.locations.Grade(ctx, address)
}

// ScoreDoctor scores a single doctor record. The only error is an
// unsupported source; every data problem degrades factor by factor.
func (e *Engine) ScoreDoctor(ctx context.Context, rec models.SourceRecord) (EntityScore, error) {
	adapter, err := source.AdapterFor(rec.Source)
	if err != nil {
		return EntityScore{}, err
	}
	fields := adapter.Extract(rec)

	rating := normalize.NormalizeRating(fields.Rating, rec.Source)
	count := normalize.CleanRatingCount(fields.RatingCount)
	location := e.gradeLocation(ctx, fields.Address)

	verified := false
	if e.licenses != nil {
		verified = e.licenses.Verify(ctx, fields.RegistrationID, fields.RegistrationID)
	}
	licenseScore := 0.0
	if verified {
		licenseScore = 10
	}

	factors := map[string]FactorScore{
		"qualification":   factor(e.tables.QualificationScore(fields.Qualification), 10),
		"experience":      factor(e.tables.ExperienceScore(fields.Experience), 5),
		"rating":          factor(e.tables.RatingScore(rating), 5),
		"weighted_rating": factor(e.weightedRating(rating, count), 5),
		"location":        factor(locationPoints[location.Category], 10),
		"specialization":  factor(e.tables.SpecializationScore(fields.Specialization), 5),
		"license":         factor(licenseScore, 10),
	}

	total := combine(factors, doctorWeights)
	result := EntityScore{
		Entity:          "doctor",
		Source:          rec.Source,
		Name:            fields.Name,
		Factors:         factors,
		TotalScore:      total,
		RiskCategory:    Categorize(total),
		LicenseVerified: verified,
		RatingCount:     count,
		Location:        location,
	}
	metrics.EntitiesScored.WithLabelValues("doctor", string(result.RiskCategory)).Inc()
	return result, nil
}

// ScoreClinic scores a clinic record. Associated doctors are resolved by
// name across the doctor directories; unresolvable names are skipped rather
// than failing the clinic.
func (e *Engine) ScoreClinic(ctx context.Context, rec models.SourceRecord) (EntityScore, error) {
	adapter, err := source.ClinicAdapterFor(rec.Source)
	if err != nil {
		return EntityScore{}, err
	}
	fields := adapter.Extract(rec)

	rating := normalize.NormalizeRating(fields.Rating, rec.Source)
	count := normalize.CleanRatingCount(fields.RatingCount)
	location := e.gradeLocation(ctx, fields.Address)

	doctorsScore, anyVerified := e.scoreAssociatedDoctors(ctx, fields.AssociatedDoctors)
	bonus := 0.0
	if anyVerified {
		bonus = 10
	}

	factors := map[string]FactorScore{
		"rating":          factor(e.tables.RatingScore(rating), 5),
		"weighted_rating": factor(e.weightedRating(rating, count), 5),
		"location":        factor(locationPoints[location.Category], 10),
		// Already on the 0-100 scale: average doctor total at half weight.
		"doctors":                {Raw: doctorsScore, Max: 100, Normalized: doctorsScore},
		"verified_doctors_bonus": factor(bonus, 10),
	}

	total := combine(factors, clinicWeights)
	result := EntityScore{
		Entity:          "clinic",
		Source:          rec.Source,
		Name:            fields.Name,
		Factors:         factors,
		TotalScore:      total,
		RiskCategory:    Categorize(total),
		LicenseVerified: anyVerified,
		RatingCount:     count,
		Location:        location,
	}
	metrics.EntitiesScored.WithLabelValues("clinic", string(result.RiskCategory)).Inc()
	return result, nil
}

// scoreAssociatedDoctors resolves each name and averages the resolved
// doctors' total scores, halved. Returns 0 when nothing resolves.
func (e *Engine) scoreAssociatedDoctors(ctx context.Context, names []string) (float64, bool) {
	if e.directory == nil || len(names) == 0 {
		return 0, false
	}

	sum := 0.0
	resolved := 0
	anyVerified := false
	for _, name := range names {
		rec, found, err := e.directory.FindByNameSubstring(ctx, name)
		if err != nil {
			e.logger.Warn("associated doctor lookup failed",
				zap.String("doctor", name), zap.Error(err))
			metrics.CollaboratorFailures.WithLabelValues("directory").Inc()
			continue
		}
		if !found {
			continue
		}
		score, err := e.ScoreDoctor(ctx, rec)
		if err != nil {
			e.logger.Warn("associated doctor scoring failed",
				zap.String("doctor", name), zap.String("source", rec.Source), zap.Error(err))
			continue
		}
		sum += score.TotalScore
		resolved++
		if score.LicenseVerified {
			anyVerified = true
		}
	}

	if resolved == 0 {
		return 0, anyVerified
	}
	return sum / float64(resolved) * 0.5, anyVerified
}

// combine sums in sorted factor order so float accumulation is stable
// across calls.
func combine(factors map[string]FactorScore, weights map[string]float64) float64 {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0.0
	for _, name := range names {
		total += factors[name].Normalized * weights[name]
	}
	return math.Round(total*100) / 100
}

// Categorize maps a 0-100 total onto the risk tiers.
func Categorize(total float64) RiskCategory {
	switch {
	case total >= 80:
		return RiskLow
	case total >= 60:
		return RiskMedium
	case total >= 40:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}
