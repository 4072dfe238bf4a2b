package seedreports

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/rehound/rehound/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	anchorWindowDays   = 14
	kmPerDegreeLat     = 111.0
	guestRatio         = 0.2
)

var breeds = []string{
	"golden retriever",
	"labrador retriever",
	"thai ridgeback",
	"siberian husky",
	"shih tzu",
	"beagle",
	"poodle mix",
	"german shepherd",
}

var colors = []string{
	"golden",
	"black",
	"white",
	"brown-white",
	"black-tan",
	"cream",
	"grey",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick(list []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	return list[n.Int64()]
}

// generateReports creates the configured number of report payloads. A
// PairRatio share of them come out as crossing lost/found pairs with the
// same breed and color close to each other, so the service has real
// matches to find.
func generateReports(ctx context.Context, config *Config, stats *Stats) []Report {
	logger.Get().Info(ctx, "generating reports", logger.Int("numReports", config.NumReports))

	reports := make([]Report, 0, config.NumReports)
	for len(reports) < config.NumReports {
		if config.PairRatio > 0 && getRandomFloat() < config.PairRatio && config.NumReports-len(reports) >= 2 {
			lost, found := generatePair(config)
			reports = append(reports, lost, found)
			continue
		}
		reports = append(reports, generateSingleReport(config))
	}

	stats.ReportsGenerated = len(reports)
	logger.Get().Info(ctx, "generated reports successfully", logger.Int("count", len(reports)))
	return reports
}

// generateSingleReport creates one report scattered around the center.
func generateSingleReport(config *Config) Report {
	kind := "lost"
	if getRandomFloat() < 0.5 {
		kind = "found"
	}

	lat, lng := scatter(config)
	r := Report{
		Kind:         kind,
		Breed:        pick(breeds),
		Color:        pick(colors),
		Lat:          lat,
		Lng:          lng,
		AnchorDate:   randomAnchorDate(),
		SubmissionID: uuid.New().String(),
	}
	if getRandomFloat() >= guestRatio {
		r.OwnerUserID = "user-" + uuid.New().String()
	}
	return r
}

// generatePair creates a lost/found pair that should score well: same
// breed and color, close locations, anchors a few days apart.
func generatePair(config *Config) (Report, Report) {
	breed := pick(breeds)
	color := pick(colors)
	lat, lng := scatter(config)

	lost := Report{
		Kind:         "lost",
		Breed:        breed,
		Color:        color,
		Lat:          lat,
		Lng:          lng,
		OwnerUserID:  "user-" + uuid.New().String(),
		AnchorDate:   daysAgo(int(getRandomFloat() * 7)),
		Description:  "seeded crossing pair",
		SubmissionID: uuid.New().String(),
	}

	// Nudge the found side by up to ~2 km.
	found := lost
	found.Kind = "found"
	found.OwnerUserID = "user-" + uuid.New().String()
	found.Lat += (getRandomFloat() - 0.5) * (2.0 / kmPerDegreeLat)
	found.Lng += (getRandomFloat() - 0.5) * (2.0 / kmPerDegreeLat)
	found.AnchorDate = daysAgo(int(getRandomFloat() * 3))
	found.SubmissionID = uuid.New().String()

	return lost, found
}

// scatter returns a point roughly within SpreadKM of the center.
func scatter(config *Config) (lat, lng float64) {
	spreadDeg := config.SpreadKM / kmPerDegreeLat
	lat = config.CenterLat + (getRandomFloat()-0.5)*2*spreadDeg
	lng = config.CenterLng + (getRandomFloat()-0.5)*2*spreadDeg
	return lat, lng
}

func randomAnchorDate() string {
	return daysAgo(int(getRandomFloat() * anchorWindowDays))
}

func daysAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format("2006-01-02")
}
