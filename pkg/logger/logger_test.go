package logger

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			l := Get()
			So(l, ShouldNotBeNil)
			So(func() {
				l.Info(context.Background(), "hello",
					String("k", "v"), Int("n", 1), Float64("f", 1.5),
					Bool("b", true), Duration("d", time.Second))
			}, ShouldNotPanic)
		})

		Convey("Then Named returns a scoped logger", func() {
			So(Named("cache"), ShouldNotBeNil)
		})

		Convey("Then Sync never fails", func() {
			So(Sync(), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the level parser", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Known levels parse case-insensitively", func() {
			for _, lvl := range []string{"debug", "info", "WARN", "warning", "Error", ""} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
