package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/wildcat/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		So(d.Size(), ShouldEqual, 0)

		Convey("When a submission is claimed for the first time", func() {
			id, dup := d.Claim(ctx, "sub-1", "heat-a")

			Convey("Then it is new and keeps the given heat", func() {
				So(dup, ShouldBeFalse)
				So(id, ShouldEqual, "heat-a")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And it is claimed again", func() {
				id, dup := d.Claim(ctx, "sub-1", "heat-b")

				Convey("Then the first heat is returned as a duplicate", func() {
					So(dup, ShouldBeTrue)
					So(id, ShouldEqual, "heat-a")
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And it is released", func() {
				d.Release(ctx, "sub-1")
				id, dup := d.Claim(ctx, "sub-1", "heat-c")

				Convey("Then it can be claimed afresh", func() {
					So(dup, ShouldBeFalse)
					So(id, ShouldEqual, "heat-c")
				})
			})
		})

		Convey("When releasing an unknown submission", func() {
			So(func() { d.Release(ctx, "nope") }, ShouldNotPanic)
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := range 5 {
			d.Claim(ctx, fmt.Sprintf("sub-%d", i), fmt.Sprintf("heat-%d", i))
		}

		Convey("Then the oldest submissions are forgotten", func() {
			So(d.Size(), ShouldEqual, 3)
			_, dup := d.Claim(ctx, "sub-0", "again")
			So(dup, ShouldBeFalse)
			_, dup = d.Claim(ctx, "sub-4", "again")
			So(dup, ShouldBeTrue)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := range 100 {
			d.Claim(ctx, fmt.Sprintf("sub-%d", i), "h")
		}
		So(d.Size(), ShouldEqual, 100)
	})

	Convey("Given concurrent claims of one submission", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh int
		)
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, dup := d.Claim(ctx, "shared", fmt.Sprintf("heat-%d", i)); !dup {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		Convey("Then exactly one claim wins", func() {
			So(fresh, ShouldEqual, 1)
		})
	})
}
