package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/rehound/rehound/internal/adapters/repository"
	"github.com/rehound/rehound/internal/domain/model"
)

func newReport(kind model.Kind, owner string) model.Report {
	return model.Report{
		Kind:        kind,
		Breed:       "golden retriever",
		Color:       "brown-white",
		Location:    model.Point{Lat: 18.7883, Lng: 98.9853},
		OwnerUserID: owner,
		AnchorDate:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemStoreCreate(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()

		Convey("When creating a valid report", func() {
			in := newReport(model.KindLost, "user-1")
			stored, err := s.Create(ctx, &in)

			Convey("Then it gets an id, timestamps, and active status", func() {
				So(err, ShouldBeNil)
				So(stored.ID, ShouldNotBeEmpty)
				So(stored.Status, ShouldEqual, model.StatusActive)
				So(stored.CreatedAt.IsZero(), ShouldBeFalse)
				So(s.Count(ctx), ShouldEqual, 1)
			})

			Convey("Then it can be fetched back", func() {
				got, err := s.Get(ctx, stored.ID)
				So(err, ShouldBeNil)
				So(got.Breed, ShouldEqual, "golden retriever")
			})
		})

		Convey("When creating an invalid report", func() {
			in := newReport(model.KindLost, "user-1")
			in.Location = model.Point{Lat: 300, Lng: 0}
			_, err := s.Create(ctx, &in)

			Convey("Then creation fails and nothing is stored", func() {
				So(err, ShouldEqual, model.ErrInvalidLocation)
				So(s.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When fetching an unknown id", func() {
			_, err := s.Get(ctx, "nope")
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestMemStoreList(t *testing.T) {
	Convey("Given a store with mixed reports", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()

		lost1 := newReport(model.KindLost, "a")
		lost2 := newReport(model.KindLost, "b")
		found1 := newReport(model.KindFound, "c")

		l1, _ := s.Create(ctx, &lost1)
		f1, _ := s.Create(ctx, &found1)
		l2, _ := s.Create(ctx, &lost2)
		_, err := s.UpdateStatus(ctx, l2.ID, model.StatusResolved)
		So(err, ShouldBeNil)

		Convey("When listing everything", func() {
			all, err := s.List(ctx, repository.Filter{})
			So(err, ShouldBeNil)

			Convey("Then reports come back in creation order", func() {
				So(len(all), ShouldEqual, 3)
				So(all[0].ID, ShouldEqual, l1.ID)
				So(all[1].ID, ShouldEqual, f1.ID)
				So(all[2].ID, ShouldEqual, l2.ID)
			})
		})

		Convey("When filtering by kind", func() {
			lost, err := s.List(ctx, repository.Filter{Kind: model.KindLost})
			So(err, ShouldBeNil)
			So(len(lost), ShouldEqual, 2)
		})

		Convey("When filtering by kind and status", func() {
			pool, err := s.ActiveByKind(ctx, model.KindLost)
			So(err, ShouldBeNil)

			Convey("Then resolved reports are excluded from the pool", func() {
				So(len(pool), ShouldEqual, 1)
				So(pool[0].ID, ShouldEqual, l1.ID)
			})
		})

		Convey("When limiting results", func() {
			two, err := s.List(ctx, repository.Filter{Limit: 2})
			So(err, ShouldBeNil)
			So(len(two), ShouldEqual, 2)
		})
	})
}

func TestMemStoreUpdateStatus(t *testing.T) {
	Convey("Given a stored report", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()
		in := newReport(model.KindFound, "user-1")
		stored, _ := s.Create(ctx, &in)

		Convey("When resolving it", func() {
			updated, err := s.UpdateStatus(ctx, stored.ID, model.StatusResolved)

			Convey("Then the status and updated-at change", func() {
				So(err, ShouldBeNil)
				So(updated.Status, ShouldEqual, model.StatusResolved)
			})
		})

		Convey("When using an invalid status", func() {
			_, err := s.UpdateStatus(ctx, stored.ID, "gone")
			So(err, ShouldEqual, repository.ErrInvalidStatus)
		})

		Convey("When the id is unknown", func() {
			_, err := s.UpdateStatus(ctx, "nope", model.StatusExpired)
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestMemStoreOptions(t *testing.T) {
	Convey("Given a store with a deterministic id generator and clock", t, func() {
		ctx := context.Background()
		n := 0
		fixed := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
		s := repository.NewMemStore(
			repository.WithIDGenerator(func() string {
				n++
				return fmt.Sprintf("report-%d", n)
			}),
			repository.WithClock(func() time.Time { return fixed }),
		)

		in := newReport(model.KindLost, "user-1")
		stored, err := s.Create(ctx, &in)

		So(err, ShouldBeNil)
		So(stored.ID, ShouldEqual, "report-1")
		So(stored.CreatedAt, ShouldEqual, fixed)
	})
}

func TestMemStoreConcurrentCreates(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()

		const writers = 8
		const perWriter = 50

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					in := newReport(model.KindLost, fmt.Sprintf("user-%d", w))
					_, _ = s.Create(ctx, &in)
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every create landed", func() {
			So(s.Count(ctx), ShouldEqual, writers*perWriter)
		})
	})
}
