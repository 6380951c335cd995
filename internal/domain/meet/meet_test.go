package meet_test

import (
	"testing"

	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMeet(t *testing.T) {
	Convey("Given a meet with two teams", t, func() {
		b := roster.NewBuilder()
		So(b.Add(1, 0), ShouldBeNil)
		So(b.Add(2, 1), ShouldBeNil)
		m := &meet.Meet{
			Runners: map[model.RunnerID]model.Runner{1: {Name: "Ada"}, 2: {Name: "Bo"}},
			Teams:   map[model.TeamID]model.Team{0: {Initials: "NHS"}, 1: {Initials: "SHS"}},
			Roster:  b.Build(),
		}

		So(m.TeamIDs(), ShouldResemble, []model.TeamID{0, 1})
		So(m.TeamInitials(2), ShouldEqual, "SHS")
		So(m.TeamInitials(9), ShouldEqual, "")

		r, ok := m.Runner(1)
		So(ok, ShouldBeTrue)
		So(r.Name, ShouldEqual, "Ada")
	})
}
