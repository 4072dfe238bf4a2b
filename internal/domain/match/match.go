package match

import (
	"math"
	"sort"

	"github.com/rehound/rehound/internal/domain/model"
)

// Default scoring configuration constants. Weights sum to 1.0.
const (
	defaultBreedWeight    = 0.30
	defaultColorWeight    = 0.30
	defaultLocationWeight = 0.25
	defaultTimeWeight     = 0.15

	defaultGeoRadiusKM    = 10.0
	defaultTimeWindowDays = 14.0

	// DefaultDisplayThreshold cuts off what the UI shows as a potential match.
	DefaultDisplayThreshold = 0.6

	// DefaultNotifyThreshold cuts off what triggers owner notifications.
	DefaultNotifyThreshold = 0.6

	percentScale = 100
)

// Breakdown carries the four sub-scores behind a composite score. Every
// field lies in [0,1].
type Breakdown struct {
	Breed    float64
	Color    float64
	Location float64
	Time     float64
}

// Candidate pairs a scored report with its breakdown. Candidates are
// transient outputs recomputed on every invocation; they have no identity of
// their own.
type Candidate struct {
	Report    model.Report
	Score     float64
	Breakdown Breakdown
}

// Matcher is the pure, stateless scoring engine. It holds only configured
// constants, so a single value may be shared across goroutines freely.
type Matcher struct {
	breedWeight    float64
	colorWeight    float64
	locationWeight float64
	timeWeight     float64
	geoRadiusKM    float64
	timeWindowDays float64
}

// New creates a Matcher with the default weights and decay windows.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		breedWeight:    defaultBreedWeight,
		colorWeight:    defaultColorWeight,
		locationWeight: defaultLocationWeight,
		timeWeight:     defaultTimeWeight,
		geoRadiusKM:    defaultGeoRadiusKM,
		timeWindowDays: defaultTimeWindowDays,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Score computes the composite score and breakdown for a query/candidate
// pair. Breed, color, and location compare symmetrically; time always
// compares the lost report's anchor against the found report's anchor,
// whichever side is the query. Malformed inputs degrade sub-scores to 0; the
// result is always in [0,1].
func (m *Matcher) Score(query, candidate *model.Report) (float64, Breakdown) {
	lost, found := query, candidate
	if lost.Kind != model.KindLost {
		lost, found = candidate, query
	}

	b := Breakdown{
		Breed:    clamp01(BreedSimilarity(query.Breed, candidate.Breed)),
		Color:    clamp01(ColorSimilarity(query.Color, candidate.Color)),
		Location: clamp01(geoScore(query.Location, candidate.Location, m.geoRadiusKM)),
		Time:     clamp01(timeScore(lost.AnchorDate, found.AnchorDate, m.timeWindowDays)),
	}

	score := m.breedWeight*b.Breed +
		m.colorWeight*b.Color +
		m.locationWeight*b.Location +
		m.timeWeight*b.Time
	return clamp01(score), b
}

// FindMatches filters pool to eligible counterparts of query, scores each,
// keeps those at or above threshold, and returns them ordered by score
// descending with ties broken by earliest creation. It never fails: an empty
// or entirely ineligible pool yields an empty slice.
func (m *Matcher) FindMatches(query *model.Report, pool []model.Report, threshold float64) []Candidate {
	matches := make([]Candidate, 0, len(pool))
	for i := range pool {
		c := &pool[i]
		if !eligible(query, c) {
			continue
		}
		score, breakdown := m.Score(query, c)
		if score < threshold {
			continue
		}
		matches = append(matches, Candidate{Report: *c, Score: score, Breakdown: breakdown})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Report.CreatedAt.Before(matches[j].Report.CreatedAt)
	})
	return matches
}

// eligible applies the pairing invariants: opposite kind only, active
// candidates only, never self, never two reports from the same owner.
func eligible(query, candidate *model.Report) bool {
	if candidate.Kind != query.Kind.Opposite() {
		return false
	}
	if candidate.Status != model.StatusActive {
		return false
	}
	if candidate.ID != "" && candidate.ID == query.ID {
		return false
	}
	if query.HasOwner() && candidate.HasOwner() && query.OwnerUserID == candidate.OwnerUserID {
		return false
	}
	return true
}

// ScorePercent converts a [0,1] composite score to the integer percentage
// carried in notifications.
func ScorePercent(score float64) int {
	return int(math.Round(clamp01(score) * percentScale))
}
