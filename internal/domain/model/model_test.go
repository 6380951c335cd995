package model_test

import (
	"testing"

	"github.com/okian/wildcat/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassFromGrade(t *testing.T) {
	Convey("Given grade levels", t, func() {
		Convey("When the grade is 9 through 12", func() {
			want := map[int]string{9: "Fr", 10: "So", 11: "Jr", 12: "Sr"}
			for grade, name := range want {
				c, ok := model.ClassFromGrade(grade)
				So(ok, ShouldBeTrue)
				So(c.String(), ShouldEqual, name)
				So(c.Abbrev(), ShouldEqual, name+".")
			}
		})

		Convey("When the grade is out of range", func() {
			_, ok := model.ClassFromGrade(8)
			So(ok, ShouldBeFalse)
			_, ok = model.ClassFromGrade(13)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSquadScoring(t *testing.T) {
	Convey("Given squads", t, func() {
		So(model.Squad{}.Scoring(), ShouldBeFalse)
		So(model.Squad{Score: 15}.Scoring(), ShouldBeTrue)
		So(model.Female.String(), ShouldEqual, "F")
		So(model.Male.String(), ShouldEqual, "M")
	})
}
