// internal/scoring/geo/geo_test.go
package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redismock "github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	result LookupResult
	err    error
	calls  int
}

func (f *fakeSource) LookupAddress(_ context.Context, _ string) (LookupResult, error) {
	f.calls++
	if f.err != nil {
		return LookupResult{}, f.err
	}
	return f.result, nil
}

func TestScoreBands(t *testing.T) {
	tests := []struct {
		name       string
		vars       map[string]float64
		wantPoints int
		wantBand   Category
	}{
		{
			name: "affluent commercial area grades Prime",
			vars: map[string]float64{
				"w_hh_income_10l_above_perc": 30, // 10
				"p_retail_gc_np":             25, // 7
				"br_lifestyle_ct":            3,  // premium 5 total with below
				"br_zara_ct":                 2,  // => 8
				"br_apollohospitals_ct":      2,  // healthcare 3 with below
				"br_maxhealthcare_ct":        1,  // => 5
			},
			wantPoints: 30,
			wantBand:   CategoryPrime,
		},
		{
			name: "mid market grades Medium",
			vars: map[string]float64{
				"w_hh_income_10l_above_perc": 18, // 7
				"p_retail_gc_np":             12, // 4
				"br_cult_ct":                 1,  // 2
			},
			wantPoints: 13,
			wantBand:   CategoryMedium,
		},
		{
			name:       "no signals grades Poor",
			vars:       map[string]float64{},
			wantPoints: 0,
			wantBand:   CategoryPoor,
		},
		{
			name: "tax payers alone reach the low income tier",
			vars: map[string]float64{
				"secc_p_hh_pay_it_pt_r": 16, // 4
			},
			wantPoints: 4,
			wantBand:   CategoryPoor,
		},
		{
			name: "high end restaurants proportion tops premium tier",
			vars: map[string]float64{
				"br_restaurant_ch_nt": 0.6, // 8
				"br_goldsgym_ct":      1,
			},
			wantPoints: 8,
			wantBand:   CategoryPoor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.vars)
			assert.Equal(t, tt.wantPoints, got.Points)
			assert.Equal(t, tt.wantBand, got.Category)
			assert.False(t, got.Degraded)
		})
	}
}

func TestCategorizeBoundaries(t *testing.T) {
	assert.Equal(t, CategoryPrime, Categorize(20))
	assert.Equal(t, CategoryMedium, Categorize(19))
	assert.Equal(t, CategoryMedium, Categorize(12))
	assert.Equal(t, CategoryPoor, Categorize(11))
	assert.Equal(t, CategoryPoor, Categorize(0))
}

func TestGradeFailSafe(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	g := NewGrader(src, nil, time.Minute, zaptest.NewLogger(t))

	got := g.Grade(context.Background(), "MG Road, Bengaluru")
	assert.Equal(t, CategoryPoor, got.Category)
	assert.True(t, got.Degraded)
	assert.Zero(t, got.Points)
}

func TestGradeEmptyAddress(t *testing.T) {
	src := &fakeSource{}
	g := NewGrader(src, nil, time.Minute, zaptest.NewLogger(t))

	got := g.Grade(context.Background(), "   ")
	assert.Equal(t, CategoryPoor, got.Category)
	assert.True(t, got.Degraded)
	assert.Zero(t, src.calls)
}

func TestGradeUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	src := &fakeSource{result: LookupResult{Variables: map[string]float64{
		"w_hh_income_10l_above_perc": 30,
		"p_retail_gc_np":             25,
		"br_lifestyle_ct":            5,
		"br_apollohospitals_ct":      3,
	}}}
	g := NewGrader(src, cache, time.Minute, zaptest.NewLogger(t))

	first := g.Grade(context.Background(), "MG Road, Bengaluru")
	second := g.Grade(context.Background(), "mg road, bengaluru")

	require.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, CategoryPrime, second.Category)
}

func TestGradePrecomputedCategoryWins(t *testing.T) {
	src := &fakeSource{result: LookupResult{
		Variables:           map[string]float64{"w_hh_income_10l_above_perc": 30},
		PrecomputedCategory: CategoryMedium,
		PrecomputedPoints:   14,
	}}
	g := NewGrader(src, nil, time.Minute, zaptest.NewLogger(t))

	got := g.Grade(context.Background(), "Salt Lake, Kolkata")
	assert.Equal(t, CategoryMedium, got.Category)
	assert.Equal(t, 14, got.Points)
}

func TestGradeToleratesCacheWriteFailure(t *testing.T) {
	cache, mock := redismock.NewClientMock()
	address := "Park Street, Kolkata"

	mock.ExpectGet(cacheKey(address)).RedisNil()
	mock.Regexp().ExpectSet(cacheKey(address), `.*`, time.Minute).
		SetErr(errors.New("READONLY You can't write against a read only replica"))

	src := &fakeSource{result: LookupResult{Variables: map[string]float64{
		"w_hh_income_10l_above_perc": 30,
	}}}
	g := NewGrader(src, cache, time.Minute, zaptest.NewLogger(t))

	got := g.Grade(context.Background(), address)
	assert.Equal(t, 10, got.Points)
	assert.False(t, got.Degraded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeFailureNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	src := &fakeSource{err: errors.New("timeout")}
	g := NewGrader(src, cache, time.Minute, zaptest.NewLogger(t))

	g.Grade(context.Background(), "Anna Salai, Chennai")
	src.err = nil
	src.result = LookupResult{Variables: map[string]float64{"w_hh_income_10l_above_perc": 30}}

	got := g.Grade(context.Background(), "Anna Salai, Chennai")
	assert.Equal(t, 2, src.calls)
	assert.False(t, got.Degraded)
	assert.Equal(t, 10, got.Points)
}
