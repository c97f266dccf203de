package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default options", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then a global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
		})
	})

	Convey("Given an unknown format", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
	})

	Convey("Given an unknown level", t, func() {
		So(Init(WithLevel("chatty")), ShouldNotBeNil)
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat(FormatJSON), WithLevel("info")), ShouldBeNil)
		ctx := context.Background()

		Convey("When a record is logged with typed fields", func() {
			Get().Info(ctx, "observation stored",
				String("student_id", "s1"),
				Int("count", 3),
				Float64("score", 2.5),
				Bool("duplicate", false),
				Duration("took", time.Millisecond),
				Error(errors.New("boom")),
			)

			Convey("Then the line carries every field and the caller", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "observation stored")
				So(line["level"], ShouldEqual, "INFO")
				So(line["student_id"], ShouldEqual, "s1")
				So(line["count"], ShouldEqual, 3.0)
				So(line["score"], ShouldEqual, 2.5)
				So(line["duplicate"], ShouldEqual, false)
				So(line["error"], ShouldEqual, "boom")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When a debug record is logged at info level", func() {
			Get().Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered at runtime", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(ctx, "visible")

			Convey("Then debug records are written", func() {
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})

		Convey("When a named logger is used", func() {
			Named("worker").Warn(ctx, "slow", String("id", "w1"))

			Convey("Then its fields are grouped under the name", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				group, ok := line["worker"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["id"], ShouldEqual, "w1")
			})
		})
	})
}

func TestLoggerText(t *testing.T) {
	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)

		Get().Error(context.Background(), "failed", String("k", "v"))

		Convey("Then records are key=value lines", func() {
			out := buf.String()
			So(out, ShouldContainSubstring, "level=ERROR")
			So(out, ShouldContainSubstring, "k=v")
			So(strings.Count(out, "\n"), ShouldEqual, 1)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("SetLevelString accepts the known names", t, func() {
		for _, level := range []string{"debug", "info", "INFO", "warn", "warning", "error", ""} {
			So(SetLevelString(level), ShouldBeNil)
		}
		So(SetLevelString("loud"), ShouldNotBeNil)
	})
}
