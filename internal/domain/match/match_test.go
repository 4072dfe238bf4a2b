package match_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/rehound/rehound/internal/domain/match"
	"github.com/rehound/rehound/internal/domain/model"
)

var day0 = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

func lostReport() model.Report {
	return model.Report{
		ID:          "lost-1",
		Kind:        model.KindLost,
		Breed:       "Golden Retriever",
		Color:       "brown-white",
		Location:    model.Point{Lat: 18.7883, Lng: 98.9853},
		OwnerUserID: "owner-lost",
		AnchorDate:  day0,
		Status:      model.StatusActive,
		CreatedAt:   day0,
	}
}

func foundReport() model.Report {
	return model.Report{
		ID:          "found-1",
		Kind:        model.KindFound,
		Breed:       "golden retriever",
		Color:       "brown-white",
		Location:    model.Point{Lat: 18.7883, Lng: 98.9853},
		OwnerUserID: "owner-found",
		AnchorDate:  day0,
		Status:      model.StatusActive,
		CreatedAt:   day0.Add(time.Hour),
	}
}

func TestMatcherScore(t *testing.T) {
	Convey("Given the default matcher", t, func() {
		m := match.New()

		Convey("When scoring an identical lost/found pair", func() {
			query := lostReport()
			candidate := foundReport()
			score, b := m.Score(&query, &candidate)

			Convey("Then every sub-score and the composite are 1.0", func() {
				So(b.Breed, ShouldEqual, 1.0)
				So(b.Color, ShouldEqual, 1.0)
				So(b.Location, ShouldEqual, 1.0)
				So(b.Time, ShouldEqual, 1.0)
				So(score, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When the candidate is 15 km away", func() {
			query := lostReport()
			candidate := foundReport()
			candidate.Location.Lat += 0.135 // ~15 km north

			score, b := m.Score(&query, &candidate)

			Convey("Then the location score is 0 and the composite is 0.75", func() {
				So(b.Location, ShouldEqual, 0.0)
				So(score, ShouldAlmostEqual, 0.75, 1e-9)
			})
		})

		Convey("When the anchors are a week apart", func() {
			query := lostReport()
			candidate := foundReport()
			candidate.AnchorDate = day0.AddDate(0, 0, 7)

			_, b := m.Score(&query, &candidate)

			Convey("Then the time score decays linearly", func() {
				So(b.Time, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When the anchors are two weeks apart", func() {
			query := lostReport()
			candidate := foundReport()
			candidate.AnchorDate = day0.AddDate(0, 0, 14)

			_, b := m.Score(&query, &candidate)
			So(b.Time, ShouldEqual, 0.0)
		})

		Convey("When the candidate's anchor date is missing", func() {
			query := lostReport()
			candidate := foundReport()
			candidate.AnchorDate = time.Time{}

			score, b := m.Score(&query, &candidate)

			Convey("Then the time sub-score degrades to 0 without erroring", func() {
				So(b.Time, ShouldEqual, 0.0)
				So(score, ShouldAlmostEqual, 0.85, 1e-9)
			})
		})

		Convey("When every field is malformed or empty", func() {
			query := model.Report{Kind: model.KindLost, Location: model.Point{Lat: 200, Lng: 200}}
			candidate := model.Report{Kind: model.KindFound, Location: model.Point{Lat: -200, Lng: 0}}

			score, b := m.Score(&query, &candidate)

			Convey("Then all sub-scores stay within [0,1]", func() {
				for _, sub := range []float64{b.Breed, b.Color, b.Location, b.Time, score} {
					So(sub, ShouldBeGreaterThanOrEqualTo, 0.0)
					So(sub, ShouldBeLessThanOrEqualTo, 1.0)
				}
				So(score, ShouldEqual, 0.0)
			})
		})

		Convey("When the found report is the query side", func() {
			query := foundReport()
			candidate := lostReport()
			candidate.AnchorDate = day0.AddDate(0, 0, 3)

			_, forward := m.Score(&query, &candidate)

			reverseQuery := candidate
			reverseCandidate := query
			_, reverse := m.Score(&reverseQuery, &reverseCandidate)

			Convey("Then time still compares lost anchor against found anchor", func() {
				So(forward.Time, ShouldAlmostEqual, reverse.Time, 1e-9)
				So(forward.Time, ShouldAlmostEqual, 1-3.0/14.0, 1e-9)
			})
		})
	})
}

func TestMatcherOptions(t *testing.T) {
	Convey("Given a matcher with custom options", t, func() {
		Convey("When widening the geo radius", func() {
			m := match.New(match.WithGeoRadiusKM(20))
			query := lostReport()
			candidate := foundReport()
			candidate.Location.Lat += 0.135 // ~15 km

			_, b := m.Score(&query, &candidate)

			Convey("Then a 15 km candidate still scores on location", func() {
				So(b.Location, ShouldBeGreaterThan, 0.2)
				So(b.Location, ShouldBeLessThan, 0.3)
			})
		})

		Convey("When widening the time window", func() {
			m := match.New(match.WithTimeWindowDays(28))
			query := lostReport()
			candidate := foundReport()
			candidate.AnchorDate = day0.AddDate(0, 0, 14)

			_, b := m.Score(&query, &candidate)
			So(b.Time, ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("When supplying weights that do not sum to 1", func() {
			m := match.New(match.WithWeights(0.5, 0.5, 0.5, 0.5))
			query := lostReport()
			candidate := foundReport()

			score, _ := m.Score(&query, &candidate)

			Convey("Then the invalid weights are ignored", func() {
				So(score, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When supplying valid custom weights", func() {
			m := match.New(match.WithWeights(0.4, 0.4, 0.1, 0.1))
			query := lostReport()
			candidate := foundReport()
			candidate.Location.Lat += 0.135 // location sub-score 0

			score, _ := m.Score(&query, &candidate)
			So(score, ShouldAlmostEqual, 0.9, 1e-9)
		})
	})
}

func TestFindMatches(t *testing.T) {
	Convey("Given the default matcher and a lost query", t, func() {
		m := match.New()
		query := lostReport()

		Convey("When the pool is empty", func() {
			out := m.FindMatches(&query, nil, match.DefaultDisplayThreshold)

			Convey("Then the result is empty, not an error", func() {
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When the pool mixes kinds, statuses, and owners", func() {
			perfect := foundReport()

			sameKind := lostReport()
			sameKind.ID = "lost-2"

			resolved := foundReport()
			resolved.ID = "found-resolved"
			resolved.Status = model.StatusResolved

			sameOwner := foundReport()
			sameOwner.ID = "found-same-owner"
			sameOwner.OwnerUserID = query.OwnerUserID

			weak := foundReport()
			weak.ID = "found-weak"
			weak.Breed = "chihuahua"
			weak.Color = "black"
			weak.Location.Lat += 0.2
			weak.AnchorDate = day0.AddDate(0, 0, 20)

			pool := []model.Report{sameKind, resolved, weak, sameOwner, perfect}
			out := m.FindMatches(&query, pool, match.DefaultDisplayThreshold)

			Convey("Then only the strong opposite-kind active candidate survives", func() {
				So(len(out), ShouldEqual, 1)
				So(out[0].Report.ID, ShouldEqual, perfect.ID)
				So(out[0].Score, ShouldAlmostEqual, 1.0, 1e-9)
			})

			Convey("Then no returned candidate shares the query's kind or owner", func() {
				for _, c := range out {
					So(c.Report.Kind, ShouldNotEqual, query.Kind)
					So(c.Report.OwnerUserID, ShouldNotEqual, query.OwnerUserID)
				}
			})
		})

		Convey("When the query is in the pool", func() {
			self := query
			pool := []model.Report{self}
			out := m.FindMatches(&query, pool, 0)

			Convey("Then it never matches itself", func() {
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When several candidates qualify", func() {
			best := foundReport()

			good := foundReport()
			good.ID = "found-good"
			good.Breed = "golden"
			good.CreatedAt = day0.Add(2 * time.Hour)

			alsoGood := foundReport()
			alsoGood.ID = "found-also-good"
			alsoGood.Breed = "golden"
			alsoGood.CreatedAt = day0.Add(30 * time.Minute)

			pool := []model.Report{good, best, alsoGood}
			out := m.FindMatches(&query, pool, match.DefaultDisplayThreshold)

			Convey("Then results are ordered by descending score", func() {
				So(len(out), ShouldEqual, 3)
				for i := 1; i < len(out); i++ {
					So(out[i-1].Score, ShouldBeGreaterThanOrEqualTo, out[i].Score)
				}
				So(out[0].Report.ID, ShouldEqual, best.ID)
			})

			Convey("Then ties break by earliest creation", func() {
				So(out[1].Report.ID, ShouldEqual, alsoGood.ID)
				So(out[2].Report.ID, ShouldEqual, good.ID)
			})
		})

		Convey("When the threshold is raised", func() {
			partial := foundReport()
			partial.Breed = "husky"
			partial.Color = "black-white"

			pool := []model.Report{partial}

			Convey("Then a borderline candidate drops out", func() {
				low := m.FindMatches(&query, pool, 0.1)
				high := m.FindMatches(&query, pool, 0.9)
				So(len(low), ShouldEqual, 1)
				So(high, ShouldBeEmpty)
			})
		})

		Convey("When candidates lack owners", func() {
			guest := foundReport()
			guest.ID = "found-guest"
			guest.OwnerUserID = ""

			out := m.FindMatches(&query, []model.Report{guest}, match.DefaultDisplayThreshold)

			Convey("Then they still rank for display purposes", func() {
				So(len(out), ShouldEqual, 1)
			})
		})
	})
}

func TestScorePercent(t *testing.T) {
	Convey("Given the percentage conversion", t, func() {
		So(match.ScorePercent(1.0), ShouldEqual, 100)
		So(match.ScorePercent(0.754), ShouldEqual, 75)
		So(match.ScorePercent(0.755), ShouldEqual, 76)
		So(match.ScorePercent(0), ShouldEqual, 0)
		So(match.ScorePercent(-0.5), ShouldEqual, 0)
		So(match.ScorePercent(1.5), ShouldEqual, 100)
	})
}
