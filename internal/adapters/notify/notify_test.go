package notify_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/rehound/rehound/internal/adapters/notify"
)

func TestInboxNotify(t *testing.T) {
	Convey("Given an empty inbox", t, func() {
		in := notify.NewInbox()
		ctx := context.Background()

		Convey("When a notification is delivered", func() {
			err := in.Notify(ctx, notify.Notification{
				RecipientUserID: "user-1",
				ReportID:        "report-a",
				MatchedReportID: "report-b",
				ScorePercent:    82,
			})

			Convey("Then it lands in the recipient's inbox with an ID and timestamp", func() {
				So(err, ShouldBeNil)

				got := in.NotificationsFor("user-1")
				So(got, ShouldHaveLength, 1)
				So(got[0].ID, ShouldNotBeEmpty)
				So(got[0].CreatedAt.IsZero(), ShouldBeFalse)
				So(got[0].ScorePercent, ShouldEqual, 82)
			})

			Convey("Then other users see nothing", func() {
				So(in.NotificationsFor("user-2"), ShouldBeEmpty)
			})
		})

		Convey("When the same report pair is delivered twice", func() {
			n := notify.Notification{
				RecipientUserID: "user-1",
				ReportID:        "report-a",
				MatchedReportID: "report-b",
			}
			So(in.Notify(ctx, n), ShouldBeNil)
			So(in.Notify(ctx, n), ShouldBeNil)

			Convey("Then only one notification is stored", func() {
				So(in.NotificationsFor("user-1"), ShouldHaveLength, 1)
			})
		})

		Convey("When the reversed pair is delivered to the other owner", func() {
			So(in.Notify(ctx, notify.Notification{
				RecipientUserID: "user-1",
				ReportID:        "report-a",
				MatchedReportID: "report-b",
			}), ShouldBeNil)
			So(in.Notify(ctx, notify.Notification{
				RecipientUserID: "user-2",
				ReportID:        "report-b",
				MatchedReportID: "report-a",
			}), ShouldBeNil)

			Convey("Then both owners are notified", func() {
				So(in.NotificationsFor("user-1"), ShouldHaveLength, 1)
				So(in.NotificationsFor("user-2"), ShouldHaveLength, 1)
			})
		})

		Convey("When a notification has no recipient", func() {
			err := in.Notify(ctx, notify.Notification{
				ReportID:        "report-a",
				MatchedReportID: "report-b",
			})

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, notify.ErrNoRecipient)
				So(in.Size(), ShouldEqual, 0)
			})
		})

		Convey("When a notification is missing a report side", func() {
			err := in.Notify(ctx, notify.Notification{
				RecipientUserID: "user-1",
				ReportID:        "report-a",
			})

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, notify.ErrNoReport)
			})
		})
	})
}

func TestInboxOrderingAndBounds(t *testing.T) {
	Convey("Given an inbox capped at three per user with a fixed clock", t, func() {
		seq := 0
		now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
		in := notify.NewInbox(
			notify.WithMaxPerUser(3),
			notify.WithIDGenerator(func() string {
				seq++
				return fmt.Sprintf("n-%d", seq)
			}),
			notify.WithClock(func() time.Time { return now }),
		)
		ctx := context.Background()

		Convey("When five distinct matches arrive", func() {
			for i := 0; i < 5; i++ {
				So(in.Notify(ctx, notify.Notification{
					RecipientUserID: "user-1",
					ReportID:        "report-a",
					MatchedReportID: fmt.Sprintf("report-%d", i),
				}), ShouldBeNil)
			}

			Convey("Then only the newest three remain, newest first", func() {
				got := in.NotificationsFor("user-1")
				So(got, ShouldHaveLength, 3)
				So(got[0].ID, ShouldEqual, "n-5")
				So(got[1].ID, ShouldEqual, "n-4")
				So(got[2].ID, ShouldEqual, "n-3")
			})
		})
	})
}

func TestInboxConcurrency(t *testing.T) {
	Convey("Given an unbounded inbox under concurrent delivery", t, func() {
		in := notify.NewInbox(notify.WithMaxPerUser(0))
		ctx := context.Background()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					_ = in.Notify(ctx, notify.Notification{
						RecipientUserID: fmt.Sprintf("user-%d", g%2),
						ReportID:        fmt.Sprintf("report-%d-%d", g, i),
						MatchedReportID: "report-x",
					})
				}
			}(g)
		}
		wg.Wait()

		Convey("Then every distinct pair is stored exactly once", func() {
			So(in.Size(), ShouldEqual, 400)
		})
	})
}
