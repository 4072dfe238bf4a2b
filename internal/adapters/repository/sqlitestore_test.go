package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/rehound/rehound/internal/adapters/repository"
	"github.com/rehound/rehound/internal/domain/model"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	Convey("Given a SQLite store on a temp file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "reports.db")

		s, err := repository.OpenSQLite(path)
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("When creating and fetching a report", func() {
			in := newReport(model.KindLost, "user-1")
			stored, err := s.Create(ctx, &in)
			So(err, ShouldBeNil)
			So(stored.ID, ShouldNotBeEmpty)

			got, err := s.Get(ctx, stored.ID)
			So(err, ShouldBeNil)

			Convey("Then the fields survive the round trip", func() {
				So(got.Kind, ShouldEqual, model.KindLost)
				So(got.Breed, ShouldEqual, "golden retriever")
				So(got.Color, ShouldEqual, "brown-white")
				So(got.Location.Lat, ShouldAlmostEqual, 18.7883, 1e-9)
				So(got.OwnerUserID, ShouldEqual, "user-1")
				So(got.Status, ShouldEqual, model.StatusActive)
				So(got.AnchorDate.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When fetching an unknown id", func() {
			_, err := s.Get(ctx, "nope")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When creating an invalid report", func() {
			in := newReport(model.KindLost, "user-1")
			in.Kind = "stolen"
			_, err := s.Create(ctx, &in)
			So(err, ShouldEqual, model.ErrUnknownKind)
		})
	})
}

func TestSQLiteStorePools(t *testing.T) {
	Convey("Given a SQLite store with mixed reports", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "reports.db")

		s, err := repository.OpenSQLite(path)
		So(err, ShouldBeNil)
		defer s.Close()

		lost1 := newReport(model.KindLost, "a")
		found1 := newReport(model.KindFound, "b")
		found2 := newReport(model.KindFound, "c")

		_, _ = s.Create(ctx, &lost1)
		f1, _ := s.Create(ctx, &found1)
		f2, _ := s.Create(ctx, &found2)
		_, err = s.UpdateStatus(ctx, f2.ID, model.StatusExpired)
		So(err, ShouldBeNil)

		Convey("When fetching the found pool", func() {
			pool, err := s.ActiveByKind(ctx, model.KindFound)
			So(err, ShouldBeNil)

			Convey("Then only active found reports are returned", func() {
				So(len(pool), ShouldEqual, 1)
				So(pool[0].ID, ShouldEqual, f1.ID)
			})
		})

		Convey("When listing with a limit", func() {
			two, err := s.List(ctx, repository.Filter{Limit: 2})
			So(err, ShouldBeNil)
			So(len(two), ShouldEqual, 2)
		})

		Convey("Then Count reflects all rows", func() {
			So(s.Count(ctx), ShouldEqual, 3)
		})

		Convey("When updating an unknown id", func() {
			_, err := s.UpdateStatus(ctx, "nope", model.StatusResolved)
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestSQLiteStorePersistence(t *testing.T) {
	Convey("Given a store that has been closed and reopened", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "reports.db")

		s, err := repository.OpenSQLite(path)
		So(err, ShouldBeNil)

		in := newReport(model.KindLost, "user-1")
		stored, err := s.Create(ctx, &in)
		So(err, ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		reopened, err := repository.OpenSQLite(path)
		So(err, ShouldBeNil)
		defer reopened.Close()

		Convey("Then previously created reports are still there", func() {
			got, err := reopened.Get(ctx, stored.ID)
			So(err, ShouldBeNil)
			So(got.Breed, ShouldEqual, "golden retriever")
		})
	})
}
