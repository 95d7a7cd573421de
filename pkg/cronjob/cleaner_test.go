package cronjob

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vision-lab/trainforge/dao/model"
)

func TestStaleBuildCutoff(t *testing.T) {
	Convey("staleBuildCutoff", t, func() {
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

		Convey("moves back by whole days", func() {
			cutoff := staleBuildCutoff(now, 7)
			So(cutoff, ShouldEqual, time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC))
		})

		Convey("zero ttl keeps the current instant", func() {
			So(staleBuildCutoff(now, 0), ShouldEqual, now)
		})

		Convey("crosses month boundaries", func() {
			cutoff := staleBuildCutoff(now, 30)
			So(cutoff, ShouldEqual, time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))
		})
	})
}

func TestCleanupRemovesImage(t *testing.T) {
	Convey("cleanupRemovesImage", t, func() {
		Convey("finished builds take their artifact along", func() {
			So(cleanupRemovesImage(model.BuildJobFinished), ShouldBeTrue)
		})

		Convey("failed and canceled builds never pushed one", func() {
			So(cleanupRemovesImage(model.BuildJobFailed), ShouldBeFalse)
			So(cleanupRemovesImage(model.BuildJobCanceled), ShouldBeFalse)
		})
	})
}
