package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/jelajah/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When a visit id is new", func() {
			seen := d.SeenAndRecord(ctx, "visit-1")

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a retry is reported as seen", func() {
				So(d.SeenAndRecord(ctx, "visit-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "visit-1")
			d.Unrecord(ctx, "visit-1")
			d.Unrecord(ctx, "never-seen")

			Convey("Then it can be accepted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "visit-1"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"v1", "v2", "v3"} {
			So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
		}

		Convey("When a fourth id arrives", func() {
			So(d.SeenAndRecord(ctx, "v4"), ShouldBeFalse)

			Convey("Then the oldest is evicted and the rest are kept", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "v4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "v3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "v2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "v1"), ShouldBeFalse)
			})
		})

		Convey("When an id in the middle is unrecorded", func() {
			d.Unrecord(ctx, "v2")
			So(d.SeenAndRecord(ctx, "v5"), ShouldBeFalse)

			Convey("Then nothing else is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "v1"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("v-%d", i))
		}
		So(d.Size(), ShouldEqual, 1000)
		So(d.SeenAndRecord(ctx, "v-0"), ShouldBeTrue)
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given concurrent submissions of the same ids", t, func() {
		d := dedupe.NewInMemoryDeduper()
		const goroutines = 8
		const ids = 200

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < ids; i++ {
					if !d.SeenAndRecord(context.Background(), fmt.Sprintf("visit-%d", i)) {
						mu.Lock()
						accepted++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each id is accepted exactly once", func() {
			So(accepted, ShouldEqual, ids)
			So(d.Size(), ShouldEqual, ids)
		})
	})
}
