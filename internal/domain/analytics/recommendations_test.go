package analytics_test

import (
	"testing"

	"github.com/okian/classwatch/internal/domain/analytics"
	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func alertFor(category string, score float64, severity types.Severity) types.InterventionAlert {
	return types.InterventionAlert{
		StudentID:   "s1",
		StudentName: "Dana",
		AlertType:   types.AlertThreshold,
		Category:    category,
		Severity:    severity,
		Score:       score,
		Threshold:   2.5,
	}
}

func TestRecommend(t *testing.T) {
	catalog := analytics.Catalog{
		"Music": {
			{MinScore: 1, MaxScore: 2, Recommendation: "low", Activity: "a1", Resources: []string{"r1"}},
			{MinScore: 2, MaxScore: 3, Recommendation: "mid", Activity: "a2", Resources: []string{"r2", "r3"}},
			{MinScore: 4, MaxScore: 5, Recommendation: "high", Activity: "a3"},
		},
	}
	cfg := utcConfig(analytics.WithCatalog(catalog))

	Convey("Given an alert whose score sits on a shared band edge", t, func() {
		recs := analytics.Recommend([]types.InterventionAlert{alertFor("Music", 2.0, types.SeverityMedium)}, cfg)

		Convey("Then both inclusive bands match in catalog order", func() {
			So(recs, ShouldHaveLength, 2)
			So(recs[0].Recommendation, ShouldEqual, "low")
			So(recs[1].Recommendation, ShouldEqual, "mid")
		})

		Convey("And every recommendation takes the alert's severity and student", func() {
			for _, r := range recs {
				So(r.Priority, ShouldEqual, types.SeverityMedium)
				So(r.StudentID, ShouldEqual, "s1")
				So(r.StudentName, ShouldEqual, "Dana")
				So(r.Category, ShouldEqual, "Music")
			}
		})
	})

	Convey("Given a score in a gap between bands", t, func() {
		recs := analytics.Recommend([]types.InterventionAlert{alertFor("Music", 3.5, types.SeverityLow)}, cfg)
		So(recs, ShouldBeEmpty)
	})

	Convey("Given an alert for a category without rules", t, func() {
		recs := analytics.Recommend([]types.InterventionAlert{alertFor("Painting", 1.5, types.SeverityHigh)}, cfg)
		So(recs, ShouldNotBeNil)
		So(recs, ShouldBeEmpty)
	})

	Convey("Given two alerts for the same category", t, func() {
		alerts := []types.InterventionAlert{
			alertFor("Music", 1.5, types.SeverityHigh),
			alertFor("Music", 1.8, types.SeverityLow),
		}
		recs := analytics.Recommend(alerts, cfg)

		Convey("Then recommendations are not deduplicated", func() {
			So(recs, ShouldHaveLength, 2)
			So(recs[0].Priority, ShouldEqual, types.SeverityHigh)
			So(recs[1].Priority, ShouldEqual, types.SeverityLow)
			So(recs[0].Recommendation, ShouldEqual, recs[1].Recommendation)
		})
	})

	Convey("Given a produced recommendation", t, func() {
		recs := analytics.Recommend([]types.InterventionAlert{alertFor("Music", 2.5, types.SeverityLow)}, cfg)
		So(recs, ShouldHaveLength, 1)

		Convey("Then its resources do not alias the catalog", func() {
			recs[0].Resources[0] = "changed"
			again := analytics.Recommend([]types.InterventionAlert{alertFor("Music", 2.5, types.SeverityLow)}, cfg)
			So(again[0].Resources, ShouldResemble, []string{"r2", "r3"})
			So(catalog["Music"][1].Resources, ShouldResemble, []string{"r2", "r3"})
		})
	})

	Convey("Given no alerts", t, func() {
		recs := analytics.Recommend(nil, cfg)
		So(recs, ShouldNotBeNil)
		So(recs, ShouldBeEmpty)
	})
}

func TestRecommendDefaultCatalog(t *testing.T) {
	cfg := utcConfig()

	Convey("Given the built-in catalog", t, func() {
		Convey("Then every default category has rules", func() {
			for _, category := range model.DefaultCategories() {
				So(cfg.Catalog[category], ShouldNotBeEmpty)
			}
		})

		Convey("Then a very low social score matches a single band", func() {
			recs := analytics.Recommend([]types.InterventionAlert{alertFor(model.CategorySocial, 1.2, types.SeverityHigh)}, cfg)
			So(recs, ShouldHaveLength, 1)
			So(recs[0].Resources, ShouldNotBeEmpty)
		})

		Convey("Then scores on overlapping edges match two bands", func() {
			for _, score := range []float64{1.5, 2.0, 2.5, 3.0} {
				recs := analytics.Recommend([]types.InterventionAlert{alertFor(model.CategoryCreativity, score, types.SeverityLow)}, cfg)
				So(recs, ShouldHaveLength, 2)
			}
		})
	})
}
