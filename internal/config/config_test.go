package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/classwatch/internal/config"
	"github.com/okian/classwatch/internal/domain/analytics"
	"github.com/okian/classwatch/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.Categories, convey.ShouldResemble, model.DefaultCategories())
			convey.So(cfg.ScorePolicy, convey.ShouldEqual, config.ScorePolicyKeep)
			convey.So(cfg.SeedDemo, convey.ShouldBeFalse)
		})

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the decline cut-offs are out of order", func() {
			cfg.DeclineHigh = 0.6

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the low-score cut-offs are out of order", func() {
			cfg.LowScoreHigh = 2.2

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the score policy is unknown", func() {
			cfg.ScorePolicy = "round"

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the time zone does not exist", func() {
			cfg.Timezone = "Mars/Olympus_Mons"

			convey.Convey("Then validation fails naming the zone", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Mars/Olympus_Mons")
			})
		})

		convey.Convey("When a catalog band is inverted", func() {
			cfg.RecommendationCatalog = map[string][]analytics.Rule{
				"Music": {{MinScore: 3, MaxScore: 2, Recommendation: "sing"}},
			}

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the vocabulary is empty", func() {
			cfg.Categories = nil

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfig_Analytics(t *testing.T) {
	convey.Convey("Given a config with custom analytics settings", t, func() {
		cfg := config.New(context.Background())
		cfg.Timezone = "UTC"
		cfg.Categories = []string{"Music", "Art"}
		cfg.Window = 4
		cfg.LowScoreThreshold = 3
		cfg.RecommendationCatalog = map[string][]analytics.Rule{
			"Music": {{MinScore: 1, MaxScore: 5, Recommendation: "sing"}},
		}

		ac := cfg.Analytics()

		convey.Convey("Then the engine config carries them", func() {
			convey.So(ac.Location, convey.ShouldEqual, time.UTC)
			convey.So(ac.Categories, convey.ShouldResemble, []string{"Music", "Art"})
			convey.So(ac.Window, convey.ShouldEqual, 4)
			convey.So(ac.MinObservations, convey.ShouldEqual, 3)
			convey.So(ac.LowScoreThreshold, convey.ShouldEqual, 3.0)
			convey.So(ac.Catalog, convey.ShouldHaveLength, 1)
			convey.So(ac.Catalog["Music"][0].Recommendation, convey.ShouldEqual, "sing")
		})
	})

	convey.Convey("Given a config without a catalog override", t, func() {
		ac := config.New(context.Background()).Analytics()

		convey.Convey("Then the built-in catalog is used", func() {
			convey.So(ac.Catalog, convey.ShouldResemble, analytics.DefaultCatalog())
			convey.So(ac.Location, convey.ShouldEqual, time.Local)
		})
	})
}
