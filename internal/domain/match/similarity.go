// Package match implements the candidate-matching and scoring engine that
// pairs lost reports with found reports.
package match

import (
	"math"
	"strings"
	"time"

	"github.com/rehound/rehound/internal/domain/model"
)

// Similarity short-circuit constants.
const (
	exactScore     = 1.0
	substringScore = 0.8
)

// earthRadiusKM is the mean Earth radius used by the haversine formula.
const earthRadiusKM = 6371.0

// BreedSimilarity returns a similarity in [0,1] for two free-text breed
// strings. Comparison is case-insensitive: equal strings score 1.0, a
// substring relation scores 0.8, anything else falls back to the Jaccard
// similarity of the whitespace-separated word sets.
//
// Two empty strings score 0.0: an absent description carries no evidence of
// a match, so it must not short-circuit as an exact one.
func BreedSimilarity(a, b string) float64 {
	return textSimilarity(a, b, strings.Fields)
}

// ColorSimilarity is BreedSimilarity with hyphen tokenization, reflecting the
// convention that multi-color coats are hyphen-joined ("brown-white").
func ColorSimilarity(a, b string) float64 {
	return textSimilarity(a, b, splitHyphens)
}

func splitHyphens(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, "-") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func textSimilarity(a, b string, tokenize func(string) []string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return exactScore
	}
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return substringScore
	}
	return jaccard(tokenize(a), tokenize(b))
}

// jaccard computes |intersection| / |union| over two token lists. An empty
// union yields 0.
func jaccard(a, b []string) float64 {
	set := make(map[string]bool, len(a))
	for _, tok := range a {
		set[tok] = true
	}
	union := len(set)
	intersection := 0
	seen := make(map[string]bool, len(b))
	for _, tok := range b {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if set[tok] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// HaversineKM returns the great-circle distance between two points in
// kilometers.
func HaversineKM(p, q model.Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := q.Lat * math.Pi / 180
	dLat := (q.Lat - p.Lat) * math.Pi / 180
	dLng := (q.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// geoScore maps distance to [0,1] with linear falloff: co-located points
// score 1.0, points radiusKM or more apart score 0. Malformed coordinates
// degrade to 0 rather than erroring.
func geoScore(p, q model.Point, radiusKM float64) float64 {
	if !p.Valid() || !q.Valid() {
		return 0
	}
	d := HaversineKM(p, q)
	if math.IsNaN(d) {
		return 0
	}
	return math.Max(0, 1-d/radiusKM)
}

// timeScore maps the whole-day gap between the lost report's last-seen date
// and the found report's found-on date to [0,1]. Same day scores 1.0; gaps of
// windowDays or more score 0. A missing anchor degrades to 0.
func timeScore(lostAnchor, foundAnchor time.Time, windowDays float64) float64 {
	if lostAnchor.IsZero() || foundAnchor.IsZero() {
		return 0
	}
	gap := lostAnchor.Sub(foundAnchor)
	if gap < 0 {
		gap = -gap
	}
	days := math.Ceil(gap.Hours() / 24)
	return math.Max(0, 1-days/windowDays)
}

// clamp01 bounds a sub-score to the closed interval [0,1].
func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
