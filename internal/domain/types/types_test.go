package types_test

import (
	"testing"

	types "github.com/okian/classwatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeverityRank(t *testing.T) {
	Convey("Given the three severities", t, func() {
		Convey("Then high outranks medium which outranks low", func() {
			So(types.SeverityHigh.Rank(), ShouldBeGreaterThan, types.SeverityMedium.Rank())
			So(types.SeverityMedium.Rank(), ShouldBeGreaterThan, types.SeverityLow.Rank())
		})

		Convey("And an unknown severity ranks below all of them", func() {
			So(types.Severity("urgent").Rank(), ShouldEqual, 0)
		})
	})
}

func TestParseSeverity(t *testing.T) {
	Convey("Given severity strings", t, func() {
		Convey("When the value is known", func() {
			s, ok := types.ParseSeverity("medium")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, types.SeverityMedium)
		})

		Convey("When the value is unknown", func() {
			s, ok := types.ParseSeverity("HIGH")
			So(ok, ShouldBeFalse)
			So(s, ShouldEqual, types.Severity(""))
		})
	})
}
