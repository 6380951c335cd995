package roster_test

import (
	"errors"
	"testing"

	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIndex(t *testing.T) {
	Convey("Given a roster with two teams", t, func() {
		b := roster.NewBuilder()
		So(b.Add(101, 0), ShouldBeNil)
		So(b.Add(102, 0), ShouldBeNil)
		So(b.Add(201, 1), ShouldBeNil)
		b.AddTeam(2)
		idx := b.Build()

		Convey("Then lookups resolve both directions", func() {
			team, err := idx.TeamOf(102)
			So(err, ShouldBeNil)
			So(team, ShouldEqual, model.TeamID(0))
			So(idx.Runners(0), ShouldResemble, []model.RunnerID{101, 102})
			So(idx.Runners(2), ShouldBeEmpty)
			So(idx.Teams(), ShouldResemble, []model.TeamID{0, 1, 2})
			So(idx.Len(), ShouldEqual, 3)
		})

		Convey("When looking up an unrostered runner", func() {
			_, err := idx.TeamOf(999)

			Convey("Then an unknown runner error is returned", func() {
				So(errors.Is(err, roster.ErrUnknownRunner), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "999")
			})
		})

		Convey("When a caller mutates a returned slice", func() {
			runners := idx.Runners(0)
			runners[0] = 7

			Convey("Then the index is unchanged", func() {
				So(idx.Runners(0)[0], ShouldEqual, model.RunnerID(101))
			})
		})
	})

	Convey("Given a runner added twice", t, func() {
		b := roster.NewBuilder()
		So(b.Add(5, 0), ShouldBeNil)
		err := b.Add(5, 1)
		So(errors.Is(err, roster.ErrDuplicateRunner), ShouldBeTrue)
	})
}
