package demo_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/classwatch/internal/adapters/http/api"
	service "github.com/okian/classwatch/internal/app"
	"github.com/okian/classwatch/internal/demo"
	"github.com/okian/classwatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestServer(svc *service.Service) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(2))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		srv := newTestServer(svc)
		defer srv.Close()

		records := demo.Generate(demo.DefaultGeneratorConfig())
		cfg := demo.RunnerConfig{
			BaseURL:      srv.URL,
			Workers:      4,
			WaitTimeout:  5 * time.Second,
			PollInterval: 10 * time.Millisecond,
			OutputFile:   filepath.Join(t.TempDir(), "out", "cohort.json"),
		}

		Convey("When the demo cohort is run", func() {
			stats, err := demo.Run(ctx, cfg, records)
			So(err, ShouldBeNil)

			Convey("Then every observation is accepted and stored", func() {
				So(stats.Submitted, ShouldEqual, 48)
				So(stats.Accepted, ShouldEqual, 48)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Stored, ShouldEqual, 48)
			})

			Convey("And the declining student raises high alerts", func() {
				So(stats.Alerts, ShouldBeGreaterThanOrEqualTo, 8)
				So(stats.HighAlerts, ShouldBeGreaterThanOrEqualTo, 4)
			})

			Convey("And the cohort is saved in the request shape", func() {
				data, err := os.ReadFile(cfg.OutputFile)
				So(err, ShouldBeNil)
				var saved []map[string]any
				So(json.Unmarshal(data, &saved), ShouldBeNil)
				So(saved, ShouldHaveLength, 48)
				So(saved[0]["id"], ShouldEqual, records[0].ID)
				So(saved[0]["timestamp"], ShouldEqual, "2024-09-02T09:00:00Z")
			})

			Convey("And a second run only reports duplicates", func() {
				cfg.OutputFile = ""
				again, err := demo.Run(ctx, cfg, records)
				So(err, ShouldBeNil)
				So(again.Accepted, ShouldEqual, 0)
				So(again.Duplicate, ShouldEqual, 48)
				So(again.Stored, ShouldEqual, 48)
			})
		})
	})

	Convey("Given no service listening", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := demo.Run(context.Background(), demo.RunnerConfig{BaseURL: srv.URL, Timeout: time.Second}, nil)
		So(err, ShouldNotBeNil)
	})
}
