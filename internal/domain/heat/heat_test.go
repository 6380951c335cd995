package heat_test

import (
	"errors"
	"testing"

	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/racetime"
	"github.com/okian/wildcat/internal/domain/roster"
	"github.com/okian/wildcat/internal/testrace"
	. "github.com/smartystreets/goconvey/convey"
)

func finishesOf(ids ...model.RunnerID) []model.Finish {
	out := make([]model.Finish, len(ids))
	for i, id := range ids {
		out[i] = model.Finish{RunnerID: id, Time: racetime.FromSeconds(float64(1000 + i))}
	}
	return out
}

func TestSplit(t *testing.T) {
	Convey("Given a combined heat where team F has nine finishers", t, func() {
		b := roster.NewBuilder()
		for i := 1; i <= 9; i++ {
			So(b.Add(model.RunnerID(100+i), 0), ShouldBeNil)
		}
		So(b.Add(201, 1), ShouldBeNil)
		So(b.Add(202, 1), ShouldBeNil)
		idx := b.Build()

		// F runners interleaved with team G; F's 8th and 9th come after G.
		all := finishesOf(101, 102, 201, 103, 104, 105, 106, 107, 202, 108, 109)

		varsity, jv, err := heat.Split(all, idx)
		So(err, ShouldBeNil)

		Convey("Then F's first seven run varsity and the rest run JV", func() {
			So(varsity, ShouldHaveLength, 9)
			So(jv, ShouldHaveLength, 2)
			So(jv[0].RunnerID, ShouldEqual, model.RunnerID(108))
			So(jv[1].RunnerID, ShouldEqual, model.RunnerID(109))
		})

		Convey("Then order within each stream is preserved", func() {
			ids := make([]model.RunnerID, len(varsity))
			for i, f := range varsity {
				ids[i] = f.RunnerID
			}
			So(ids, ShouldResemble, []model.RunnerID{101, 102, 201, 103, 104, 105, 106, 107, 202})
		})
	})

	Convey("Given a finisher who is not rostered", t, func() {
		b := roster.NewBuilder()
		So(b.Add(1, 0), ShouldBeNil)
		varsity, jv, err := heat.Split(finishesOf(1, 99), b.Build())

		Convey("Then the split fails without partial output", func() {
			So(errors.Is(err, roster.ErrUnknownRunner), ShouldBeTrue)
			So(varsity, ShouldBeNil)
			So(jv, ShouldBeNil)
		})
	})

	Convey("Given generated races", t, func() {
		for seed := int64(1); seed <= 20; seed++ {
			race, err := testrace.Generate(testrace.NewConfig(testrace.WithSeed(seed), testrace.WithRunnersPerTeam(0, 12)))
			So(err, ShouldBeNil)
			all := race.Finishes()

			varsity, jv, err := heat.Split(all, race.Meet.Roster)
			So(err, ShouldBeNil)
			So(len(varsity)+len(jv), ShouldEqual, len(all))

			perTeam := map[model.TeamID]int{}
			for _, f := range varsity {
				perTeam[race.TeamOf(f.RunnerID)]++
			}
			for team, n := range perTeam {
				So(n, ShouldBeLessThanOrEqualTo, heat.VarsitySize)
				if n < heat.VarsitySize {
					for _, f := range jv {
						So(race.TeamOf(f.RunnerID), ShouldNotEqual, team)
					}
				}
			}
		}
	})
}

func TestParseMode(t *testing.T) {
	Convey("Given mode names", t, func() {
		m, err := heat.ParseMode(" Combined ")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, heat.ModeCombined)

		m, err = heat.ParseMode("single")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, heat.ModeSingle)

		_, err = heat.ParseMode("relay")
		So(errors.Is(err, heat.ErrUnknownMode), ShouldBeTrue)
	})
}

func TestMatch(t *testing.T) {
	Convey("Given both heat shapes", t, func() {
		name := func(h heat.Heat) string {
			return heat.Match(h,
				func(heat.Single) string { return "single" },
				func(heat.Combined) string { return "combined" },
			)
		}
		So(name(heat.Single{}), ShouldEqual, "single")
		So(name(&heat.Combined{}), ShouldEqual, "combined")
		So(heat.Single{}.Mode(), ShouldEqual, heat.ModeSingle)

		Convey("Then Divisions labels combined divisions", func() {
			divs := heat.Divisions(heat.Combined{})
			So(divs, ShouldHaveLength, 2)
			So(divs[0].Label, ShouldEqual, "Varsity")
			So(divs[1].Label, ShouldEqual, "JV")
			So(heat.Divisions(heat.Single{}), ShouldHaveLength, 1)
		})
	})
}
