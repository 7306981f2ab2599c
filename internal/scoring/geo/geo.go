// internal/scoring/geo/geo.go

// Package geo grades practice locations into Prime, Medium and Poor bands
// from neighborhood market variables. Grading never fails: when the variable
// source is unreachable the grader returns the Poor fail-safe so a vendor
// outage cannot inflate an entity's trust score.
package geo

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kyb-workers/internal/common/metrics"
)

// Category is the location quality band.
type Category string

const (
	CategoryPrime  Category = "Prime"
	CategoryMedium Category = "Medium"
	CategoryPoor   Category = "Poor"
)

// MaxPoints is the ceiling of the location points system.
const MaxPoints = 30

// Breakdown itemizes where the points came from.
type Breakdown struct {
	IncomePoints     int `json:"incomePoints"`     // 0-10
	CommercialPoints int `json:"commercialPoints"` // 0-7
	PremiumPoints    int `json:"premiumPoints"`    // 0-8
	HealthcarePoints int `json:"healthcarePoints"` // 0-5
}

// Assessment is a graded location.
type Assessment struct {
	Category  Category  `json:"category"`
	Points    int       `json:"points"`
	Breakdown Breakdown `json:"breakdown"`
	Degraded  bool      `json:"degraded,omitempty"`
}

// LookupResult is what the enrichment collaborator returns for an address.
// Some deployments precompute the grade server-side; when present the
// precomputed band wins over local scoring.
type LookupResult struct {
	Variables           map[string]float64
	PrecomputedCategory Category
	PrecomputedPoints   int
}

// VariableSource fetches neighborhood variables for an address.
type VariableSource interface {
	LookupAddress(ctx context.Context, address string) (LookupResult, error)
}

// Grader grades addresses, caching results because the variable source bills
// per lookup and addresses repeat heavily across records.
type Grader struct {
	source VariableSource
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewGrader wires a grader. cache may be nil to disable caching.
func NewGrader(source VariableSource, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Grader {
	return &Grader{source: source, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(address string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(address))))
	return "geo:assessment:" + hex.EncodeToString(sum[:])
}

// Grade assesses the given address. An empty address or any source failure
// yields the Poor fail-safe with Degraded set.
func (g *Grader) Grade(ctx context.Context, address string) Assessment {
	if strings.TrimSpace(address) == "" {
		return Assessment{Category: CategoryPoor, Degraded: true}
	}

	if cached, ok := g.fromCache(ctx, address); ok {
		return cached
	}

	result, err := g.source.LookupAddress(ctx, address)
	if err != nil {
		g.logger.Warn("geo lookup failed, degrading to Poor",
			zap.String("address", address), zap.Error(err))
		metrics.CollaboratorFailures.WithLabelValues("geoiq").Inc()
		return Assessment{Category: CategoryPoor, Degraded: true}
	}

	var assessment Assessment
	if result.PrecomputedCategory != "" {
		assessment = Assessment{
			Category: result.PrecomputedCategory,
			Points:   result.PrecomputedPoints,
		}
	} else {
		assessment = Score(result.Variables)
	}
	g.store(ctx, address, assessment)
	return assessment
}

func (g *Grader) fromCache(ctx context.Context, address string) (Assessment, bool) {
	if g.cache == nil {
		return Assessment{}, false
	}
	raw, err := g.cache.Get(ctx, cacheKey(address)).Result()
	if err != nil {
		return Assessment{}, false
	}
	var a Assessment
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Assessment{}, false
	}
	return a, true
}

func (g *Grader) store(ctx context.Context, address string, a Assessment) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, cacheKey(address), raw, g.ttl).Err(); err != nil {
		g.logger.Debug("geo cache write failed", zap.Error(err))
	}
}

// Score computes the points and band for a variable set. Missing variables
// read as zero, which can only lower the grade.
func Score(vars map[string]float64) Assessment {
	v := func(name string) float64 { return vars[name] }

	income5l := v("w_hh_income_5l_above_perc")
	income10l := v("w_hh_income_10l_above_perc")
	income20l := v("w_hh_income_20l_above_perc")
	taxPayers := v("secc_p_hh_pay_it_pt_r")

	retailDensity := v("p_retail_gc_np")
	restaurantDensity := v("p_restaurant_rt_np")
	retailRent := v("p_retail_rppsfa")

	highEndRestaurants := v("br_restaurant_ch_nt")
	fitnessCenters := v("br_anytimefitness_ct") + v("br_cult_ct") + v("br_goldsgym_ct")
	premiumRetail := v("br_lifestyle_ct") + v("br_shoppersstop_ct") + v("br_zara_ct") +
		v("br_miniso_ct") + v("br_tanishq_ct") + v("br_calvinklein_ct") + v("br_tommyhilfiger_ct")
	healthcare := v("br_apollohospitals_ct") + v("br_maxhealthcare_ct") +
		v("br_fortishealthcare_ct") + v("br_medantathemedicity_ct")

	var b Breakdown

	switch {
	case income10l > 25 || income20l > 10:
		b.IncomePoints = 10
	case income10l > 15 || income5l > 30:
		b.IncomePoints = 7
	case income5l > 20 || taxPayers > 15:
		b.IncomePoints = 4
	}

	switch {
	case retailDensity > 20 || retailRent > 150:
		b.CommercialPoints = 7
	case retailDensity > 10 || retailRent > 100:
		b.CommercialPoints = 4
	case retailDensity > 5 || restaurantDensity > 10:
		b.CommercialPoints = 2
	}

	switch {
	case premiumRetail >= 5 || highEndRestaurants > 0.5:
		b.PremiumPoints = 8
	case premiumRetail >= 3 || fitnessCenters >= 3:
		b.PremiumPoints = 5
	case premiumRetail >= 1 || fitnessCenters >= 1:
		b.PremiumPoints = 2
	}

	switch {
	case healthcare >= 3:
		b.HealthcarePoints = 5
	case healthcare >= 1:
		b.HealthcarePoints = 3
	}

	points := b.IncomePoints + b.CommercialPoints + b.PremiumPoints + b.HealthcarePoints
	return Assessment{Category: Categorize(points), Points: points, Breakdown: b}
}

// Categorize bands a points total.
func Categorize(points int) Category {
	switch {
	case points >= 20:
		return CategoryPrime
	case points >= 12:
		return CategoryMedium
	default:
		return CategoryPoor
	}
}
