package analytics_test

import (
	"testing"
	"time"

	"github.com/okian/classwatch/internal/domain/analytics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMonthKey(t *testing.T) {
	Convey("Given instants in different locations", t, func() {
		at := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)

		Convey("When bucketing in UTC", func() {
			So(analytics.MonthKey(at, time.UTC), ShouldEqual, "2024-03")
		})

		Convey("When bucketing two hours east of UTC", func() {
			So(analytics.MonthKey(at, time.FixedZone("UTC+2", 2*60*60)), ShouldEqual, "2024-04")
		})
	})
}

func TestWeekKey(t *testing.T) {
	Convey("Given March 2024, which starts on a Friday", t, func() {
		Convey("Then the first Friday and Saturday are week 1", func() {
			So(analytics.WeekKey(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), time.UTC), ShouldEqual, "2024-W01")
			So(analytics.WeekKey(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), time.UTC), ShouldEqual, "2024-W01")
		})

		Convey("And the first Sunday opens week 2", func() {
			So(analytics.WeekKey(time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC), time.UTC), ShouldEqual, "2024-W02")
		})

		Convey("And the last day of the month is week 6", func() {
			So(analytics.WeekKey(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), time.UTC), ShouldEqual, "2024-W06")
		})
	})

	Convey("Given the week counter restarts every month", t, func() {
		march := analytics.WeekKey(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), time.UTC)
		april := analytics.WeekKey(time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC), time.UTC)

		Convey("Then the first week of different months shares one key", func() {
			So(march, ShouldEqual, april)
		})

		Convey("And the key is not the ISO week", func() {
			_, isoWeek := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC).ISOWeek()
			So(isoWeek, ShouldEqual, 14)
			So(april, ShouldNotEqual, "2024-W14")
		})
	})

	Convey("Given a location that moves the instant into the next month", t, func() {
		at := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)
		So(analytics.WeekKey(at, time.FixedZone("UTC+2", 2*60*60)), ShouldEqual, "2024-W01")
	})

	Convey("Given a nil location", t, func() {
		at := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
		So(analytics.WeekKey(at, nil), ShouldEqual, analytics.WeekKey(at, time.Local))
		So(analytics.MonthKey(at, nil), ShouldEqual, "2024-06")
	})
}
