package match_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/rehound/rehound/internal/domain/match"
	"github.com/rehound/rehound/internal/domain/model"
)

func TestBreedSimilarity(t *testing.T) {
	Convey("Given the breed similarity function", t, func() {
		Convey("Then identical strings score 1.0 regardless of case", func() {
			So(match.BreedSimilarity("Golden Retriever", "golden retriever"), ShouldEqual, 1.0)
			So(match.BreedSimilarity("poodle", "poodle"), ShouldEqual, 1.0)
		})

		Convey("Then a substring relation scores 0.8", func() {
			So(match.BreedSimilarity("retriever", "golden retriever"), ShouldEqual, 0.8)
			So(match.BreedSimilarity("golden retriever", "retriever"), ShouldEqual, 0.8)
		})

		Convey("Then partial word overlap scores the Jaccard of the word sets", func() {
			// {thai, ridgeback} vs {ridgeback, mix}: 1 shared of 3 total
			So(match.BreedSimilarity("Thai Ridgeback", "Ridgeback mix"), ShouldAlmostEqual, 1.0/3.0, 1e-9)
		})

		Convey("Then disjoint breeds score 0", func() {
			So(match.BreedSimilarity("poodle", "husky"), ShouldEqual, 0.0)
		})

		Convey("Then the function is symmetric", func() {
			pairs := [][2]string{
				{"Thai Ridgeback", "Ridgeback mix"},
				{"golden", "golden retriever"},
				{"poodle", "husky"},
				{"", "husky"},
			}
			for _, p := range pairs {
				So(match.BreedSimilarity(p[0], p[1]), ShouldEqual, match.BreedSimilarity(p[1], p[0]))
			}
		})

		Convey("Then empty inputs degrade to 0 instead of erroring", func() {
			So(match.BreedSimilarity("", ""), ShouldEqual, 0.0)
			So(match.BreedSimilarity("", "husky"), ShouldEqual, 0.0)
			So(match.BreedSimilarity("husky", "   "), ShouldEqual, 0.0)
		})

		Convey("Then repeated words do not inflate the Jaccard", func() {
			// {thai, ridgeback} vs {ridgeback, mix}, duplicates collapsed
			So(match.BreedSimilarity("thai ridgeback ridgeback", "ridgeback mix"), ShouldAlmostEqual, 1.0/3.0, 1e-9)
		})
	})
}

func TestColorSimilarity(t *testing.T) {
	Convey("Given the color similarity function", t, func() {
		Convey("Then identical hyphenated colors score 1.0", func() {
			So(match.ColorSimilarity("brown-white", "Brown-White"), ShouldEqual, 1.0)
		})

		Convey("Then a substring relation scores 0.8", func() {
			So(match.ColorSimilarity("brown", "brown-white"), ShouldEqual, 0.8)
		})

		Convey("Then hyphen tokens drive the Jaccard", func() {
			// {brown, white} vs {white, black}: 1 shared of 3 total
			So(match.ColorSimilarity("brown-white", "white-black"), ShouldAlmostEqual, 1.0/3.0, 1e-9)
		})

		Convey("Then disjoint colors score 0", func() {
			So(match.ColorSimilarity("black", "golden"), ShouldEqual, 0.0)
		})

		Convey("Then empty colors degrade to 0", func() {
			So(match.ColorSimilarity("", ""), ShouldEqual, 0.0)
		})
	})
}

func TestHaversineKM(t *testing.T) {
	Convey("Given the haversine distance", t, func() {
		chiangMai := model.Point{Lat: 18.7883, Lng: 98.9853}

		Convey("Then a point is at zero distance from itself", func() {
			So(match.HaversineKM(chiangMai, chiangMai), ShouldEqual, 0.0)
		})

		Convey("Then one degree of latitude is roughly 111 km", func() {
			north := model.Point{Lat: chiangMai.Lat + 1, Lng: chiangMai.Lng}
			So(match.HaversineKM(chiangMai, north), ShouldAlmostEqual, 111.19, 0.5)
		})

		Convey("Then distance is symmetric", func() {
			bangkok := model.Point{Lat: 13.7563, Lng: 100.5018}
			So(match.HaversineKM(chiangMai, bangkok), ShouldAlmostEqual, match.HaversineKM(bangkok, chiangMai), 1e-9)
		})
	})
}
