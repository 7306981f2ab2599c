// internal/scoring/reviews/reviews.go

// Package reviews scores harvested patient reviews for authenticity.
// Genuine reviews land in [1,10]; fake or negative reviews land in [-10,0].
// The two bands never overlap and zero belongs to the fake band.
package reviews

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"kyb-workers/internal/common/metrics"
)

// Review is one harvested review. The JSON tags match the harvester's
// export format.
type Review struct {
	Author      string  `json:"author_title,omitempty"`
	Text        string  `json:"review_text"`
	Rating      float64 `json:"review_rating,omitempty"`
	Timestamp   int64   `json:"review_timestamp,omitempty"`
	DatetimeUTC string  `json:"review_datetime_utc,omitempty"`
}

// Factors records the per-review signals behind a score.
type Factors struct {
	IsDuplicate    bool    `json:"is_duplicate"`
	GenericScore   float64 `json:"generic_score"`
	NegativeScore  float64 `json:"negative_score"`
	IsRecent       bool    `json:"is_recent"`
	ContentQuality float64 `json:"content_quality"`
	GlobalRecency  bool    `json:"global_recency"`
}

// ScoredReview is a review with its authenticity score attached.
type ScoredReview struct {
	Review
	Score   float64 `json:"review_score"`
	Factors Factors `json:"scoring_factors"`
}

// recencyWindow is six months of thirty days, matching the harvester's
// export cadence.
const recencyWindow = 6 * 30 * 24 * time.Hour

var negativeKeywords = []string{
	"fraud", "scam", "cheat", "cheater", "bad doctor", "terrible", "worst",
	"awful", "rude", "unprofessional", "incompetent", "money grabbing",
	"corrupt", "avoid", "stay away", "horrible", "waste", "regret", "mistake",
	"useless", "unqualified", "illegal", "dangerous", "malpractice",
}

var genericPhrases = []string{
	"best doctor", "great service", "highly recommend", "excellent service",
	"very good", "good experience", "nice staff", "friendly staff",
	"amazing experience", "wonderful experience", "highly recommended",
	"professional staff", "highly professional", "satisfied with the service",
	"great experience", "good doctor", "best service", "very professional",
	"excellent doctor", "excellent treatment", "very helpful",
}

var (
	punctuation = regexp.MustCompile(`[^\w\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
	alphaWord   = regexp.MustCompile(`^[a-z]+$`)
	sentenceEnd = regexp.MustCompile(`[.!?]+`)

	specificityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:on|in|at|during)\s+(?:january|february|march|april|may|june|july|august|september|october|november|december|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`\b(?:morning|afternoon|evening|night|today|yesterday|last\s+week|last\s+month|last\s+year)\b`),
		regexp.MustCompile(`\b(?:room|office|building|floor|desk|chair|waiting\s+area|lobby|bathroom)\b`),
		regexp.MustCompile(`\b(?:doctor|nurse|staff|receptionist|assistant|technician)\s+(?:\w+)\b`),
		regexp.MustCompile(`\b(?:procedure|treatment|surgery|appointment|consultation|check-up|test|diagnosis|prescription|medication)\b`),
		regexp.MustCompile(`\b(?:\d+(?::\d+)?)\s*(?:am|pm|hour|minute|second)\b`),
		regexp.MustCompile(`\$\d+(?:\.\d+)?|\d+\s+dollars`),
	}

	emotionalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:i|we|my|our)\b`),
		regexp.MustCompile(`\b(?:feel|felt|feeling|experienced|noticed|saw|heard|thought)\b`),
		regexp.MustCompile(`\b(?:happy|satisfied|pleased|impressed|disappointed|frustrated|angry|upset|worried|concerned)\b`),
		regexp.MustCompile(`\b(?:thanks|thank\s+you|grateful|appreciate|appreciated|helped|recommend|recommended)\b`),
		regexp.MustCompile(`[!?]`),
	}
)

// Scorer scores review batches. One scorer is safe for concurrent use; all
// batch state lives in a per-call batchContext.
type Scorer struct {
	now    func() time.Time
	logger *zap.Logger
}

func NewScorer(logger *zap.Logger) *Scorer {
	return &Scorer{now: time.Now, logger: logger}
}

// batchContext is the mutable per-batch state: the duplicate multiset and
// the negative-keyword prevalence across the batch.
type batchContext struct {
	seen       map[string]int
	prevalence map[string]int
	total      int
}

func newBatchContext(batch []Review) *batchContext {
	bc := &batchContext{
		seen:       make(map[string]int),
		prevalence: make(map[string]int),
		total:      len(batch),
	}
	for _, r := range batch {
		lower := strings.ToLower(r.Text)
		for _, kw := range negativeKeywords {
			if strings.Contains(lower, kw) {
				bc.prevalence[kw]++
			}
		}
	}
	return bc
}

func normalizeText(text string) string {
	normalized := punctuation.ReplaceAllString(strings.ToLower(text), "")
	return strings.TrimSpace(whitespace.ReplaceAllString(normalized, " "))
}

// detectDuplicate counts the normalized text in the batch multiset and
// reports whether it has now been seen more than once.
func (bc *batchContext) detectDuplicate(text string) bool {
	normalized := normalizeText(text)
	bc.seen[normalized]++
	return bc.seen[normalized] > 1
}

// genericScore measures how templated a review reads. Empty reviews count
// as fully generic.
func genericScore(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 1.0
	}
	lower := strings.ToLower(text)
	count := 0
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Min(float64(count)/5, 1.0)
}

// negativeScore measures fraud-indicator keyword density. A keyword present
// in a quarter of the batch is itself evidence of templated injection and
// maxes the score out.
func (bc *batchContext) negativeScore(text string) float64 {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	count := 0
	commonFound := false
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			count++
			if bc.total > 0 && float64(bc.prevalence[kw])/float64(bc.total) >= 0.25 {
				commonFound = true
			}
		}
	}
	if commonFound {
		return 1.0
	}
	if count == 0 {
		return 0
	}
	return math.Min(float64(count)/3, 1.0)
}

// isRecent reports whether the review falls within the recency window.
// Unparsable or absent timestamps are never recent.
func (s *Scorer) isRecent(r Review) bool {
	cutoff := s.now().Add(-recencyWindow)
	if r.Timestamp > 0 {
		return !time.Unix(r.Timestamp, 0).Before(cutoff)
	}
	if r.DatetimeUTC != "" {
		parsed, err := time.Parse("01/02/2006 15:04:05", r.DatetimeUTC)
		if err != nil {
			s.logger.Debug("unparsable review timestamp", zap.String("timestamp", r.DatetimeUTC))
			return false
		}
		return !parsed.Before(cutoff)
	}
	return false
}

func tokenize(text string) []string {
	var words []string
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,!?;:\"'()[]{}")
		if alphaWord.MatchString(word) && !stopwords[word] {
			words = append(words, word)
		}
	}
	return words
}

// letterWord reports whether every rune is a letter or a combining mark,
// so words in non-Latin scripts count.
func letterWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}

// simplifiedQuality is the degraded path for text the primary tokenizer
// cannot handle (non-Latin scripts): whitespace split, scored on
// uniqueness and length only.
func simplifiedQuality(text string) float64 {
	var words []string
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,!?;:\"'()[]{}")
		if len([]rune(word)) > 2 && letterWord(word) && !stopwords[word] {
			words = append(words, word)
		}
	}
	if len(words) < 3 {
		return 0
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	uniqueRatio := float64(len(unique)) / float64(len(words))
	lengthScore := math.Min(float64(len(words))/20, 1.0)

	return uniqueRatio*0.5 + lengthScore*0.5
}

// contentQuality scores the substance of a review on [0,1]. Reviews with
// fewer than three meaningful words score zero.
func contentQuality(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	meaningful := tokenize(text)
	if len(meaningful) == 0 {
		return simplifiedQuality(text)
	}
	if len(meaningful) < 3 {
		return 0
	}

	unique := make(map[string]struct{}, len(meaningful))
	for _, w := range meaningful {
		unique[w] = struct{}{}
	}
	uniqueRatio := float64(len(unique)) / float64(len(meaningful))
	lengthScore := math.Min(float64(len(meaningful))/20, 1.0)

	lower := strings.ToLower(text)
	specificity := 0.0
	for _, p := range specificityPatterns {
		if p.MatchString(lower) {
			specificity += 0.15
		}
	}
	specificity = math.Min(specificity, 1.0)

	emotional := 0.0
	for _, p := range emotionalPatterns {
		if p.MatchString(lower) {
			emotional += 0.15
		}
	}
	emotional = math.Min(emotional, 1.0)

	sentences := 0
	for _, s := range sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	coherence := 0.0
	if sentences >= 2 {
		coherence = math.Min(float64(sentences)/5, 1.0)
	}

	return uniqueRatio*0.2 + lengthScore*0.2 + specificity*0.3 + emotional*0.2 + coherence*0.1
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// score computes one review's score within its batch context.
func (s *Scorer) score(r Review, bc *batchContext) ScoredReview {
	isDuplicate := bc.detectDuplicate(r.Text)
	generic := genericScore(r.Text)
	negative := bc.negativeScore(r.Text)
	recent := s.isRecent(r)
	quality := contentQuality(r.Text)

	final := 5.0
	if isDuplicate {
		// Terminal: duplicated text is the strongest fake signal.
		final = -10
	} else {
		final -= generic * 5
		if !recent {
			final -= 3
		}
		if negative > 0 {
			// Negative content dominates, quality signals are discarded.
			final = -negative * 10
		} else {
			boost := quality * 5
			if quality > 0.7 {
				boost += 2
			}
			final += boost
		}
	}

	if final > 0 {
		final = math.Max(1, math.Min(10, final))
	} else {
		final = math.Max(-10, math.Min(0, final))
	}

	return ScoredReview{
		Review: r,
		Score:  round1(final),
		Factors: Factors{
			IsDuplicate:    isDuplicate,
			GenericScore:   round2(generic),
			NegativeScore:  round2(negative),
			IsRecent:       recent,
			ContentQuality: round2(quality),
		},
	}
}

// ScoreBatch scores a review batch. Batch state is created fresh per call.
// When no review in the batch is recent, every score is forced to -10: a
// set with no recent activity at all is a red flag in its own right.
func (s *Scorer) ScoreBatch(batch []Review) []ScoredReview {
	bc := newBatchContext(batch)

	anyRecent := false
	for _, r := range batch {
		if s.isRecent(r) {
			anyRecent = true
			break
		}
	}

	scored := make([]ScoredReview, 0, len(batch))
	for _, r := range batch {
		sr := s.score(r, bc)
		sr.Factors.GlobalRecency = anyRecent
		if !anyRecent {
			sr.Score = -10
		}
		band := "genuine"
		if sr.Score <= 0 {
			band = "fake"
		}
		metrics.ReviewsScored.WithLabelValues(band).Inc()
		scored = append(scored, sr)
	}
	return scored
}
