package analytics

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPeriodTime(t *testing.T) {
	Convey("Given bucket keys", t, func() {
		Convey("When the key is a month", func() {
			So(periodTime("2024-03").Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("When the key is a week only its year is read", func() {
			So(periodTime("2024-W03").Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("When the key is malformed", func() {
			So(periodTime("w3").IsZero(), ShouldBeTrue)
		})
	})
}
