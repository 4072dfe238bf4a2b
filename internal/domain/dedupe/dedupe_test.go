package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/rehound/rehound/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		ctx := context.Background()

		Convey("When recording a new submission id", func() {
			d := dedupe.NewInMemoryDeduper()
			seen := d.SeenAndRecord(ctx, "sub-1")

			Convey("Then it is reported as unseen and recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same submission id twice", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "sub-1")
			seen := d.SeenAndRecord(ctx, "sub-1")

			Convey("Then the second attempt is flagged as a duplicate", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording a submission id", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "sub-1")
			d.Unrecord(ctx, "sub-1")

			Convey("Then the id can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown id", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "sub-1")
			d.Unrecord(ctx, "sub-unknown")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to 3 entries", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When recording past the bound", func() {
			for i := 1; i <= 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i))
			}

			Convey("Then the oldest entry was evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse) // evicted, re-recordable
				So(d.SeenAndRecord(ctx, "sub-4"), ShouldBeTrue)  // still held
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("When recording many ids", func() {
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
			})
		})
	})
}

func TestDeduperConcurrency(t *testing.T) {
	Convey("Given concurrent submitters", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(10000))

		const goroutines = 16
		const perGoroutine = 100

		var wg sync.WaitGroup
		var mu sync.Mutex
		firstSeen := 0

		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perGoroutine; i++ {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i)) {
						mu.Lock()
						firstSeen++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each id is recorded exactly once", func() {
			So(firstSeen, ShouldEqual, perGoroutine)
			So(d.Size(), ShouldEqual, perGoroutine)
		})
	})
}
