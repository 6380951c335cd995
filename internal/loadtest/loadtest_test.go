package loadtest

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/wildcat/internal/adapters/http/api"
	service "github.com/okian/wildcat/internal/app"
	"github.com/okian/wildcat/internal/domain/types"
	"github.com/okian/wildcat/internal/testrace"
	"github.com/okian/wildcat/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRun(t *testing.T) {
	Convey("Given a service started on a simulated roster", t, func() {
		race, err := testrace.Generate(testrace.NewConfig(testrace.WithSeed(11), testrace.WithTeams(6)))
		So(err, ShouldBeNil)
		files, err := race.WriteFiles(t.TempDir())
		So(err, ShouldBeNil)

		svc := service.New(service.WithMeet(race.Meet), service.WithWorkerCount(2))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		srv := httptest.NewServer(api.NewServer(svc).Handler())
		defer srv.Close()

		Convey("When a load test submits single heats with resubmissions", func() {
			stats, err := Run(context.Background(), Config{
				BaseURL:      srv.URL,
				RosterFile:   files.Roster,
				Heats:        12,
				Duplicates:   4,
				Workers:      3,
				PollInterval: 5 * time.Millisecond,
				Wait:         10 * time.Second,
				Seed:         1,
				OutputFile:   filepath.Join(t.TempDir(), "heats.json"),
			})

			Convey("Then every heat is scored and verified", func() {
				So(err, ShouldBeNil)
				So(stats.HeatsGenerated, ShouldEqual, 12)
				So(stats.Submitted, ShouldEqual, 16)
				So(stats.Accepted, ShouldEqual, 12)
				So(stats.Duplicate, ShouldEqual, 4)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Verified, ShouldEqual, 12)
			})
		})

		Convey("When a load test submits combined heats", func() {
			stats, err := Run(context.Background(), Config{
				BaseURL:      srv.URL,
				RosterFile:   files.Roster,
				Heats:        3,
				Workers:      1,
				PollInterval: 5 * time.Millisecond,
				Wait:         10 * time.Second,
				Combined:     true,
			})
			So(err, ShouldBeNil)
			So(stats.Verified, ShouldEqual, 3)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	Convey("Given load test configs", t, func() {
		Convey("Then a missing roster is rejected", func() {
			_, err := Run(context.Background(), Config{})
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Then more duplicates than heats are rejected", func() {
			_, err := Run(context.Background(), Config{RosterFile: "r.txt", Heats: 2, Duplicates: 3})
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestVerifyDivision(t *testing.T) {
	Convey("Given a well-formed division", t, func() {
		div := types.DivisionDoc{
			Individuals: []types.FinishRow{
				{Place: 1, Score: 1}, {Place: 2, Score: 2}, {Place: 3, Score: 0},
				{Place: 4, Score: 3}, {Place: 5, Score: 4}, {Place: 6, Score: 5},
			},
			Teams: []types.TeamRow{
				{Place: 1, Team: "A", Score: 15, Scorers: []uint{1, 2, 4, 5, 6}},
				{Place: 2, Team: "B", Scorers: []uint{3}},
			},
		}
		So(verifyDivision(div), ShouldBeNil)

		Convey("When score numbers skip", func() {
			div.Individuals[3].Score = 4
			So(verifyDivision(div), ShouldNotBeNil)
		})

		Convey("When a non-scoring team is ranked first", func() {
			div.Teams[0], div.Teams[1] = div.Teams[1], div.Teams[0]
			div.Teams[0].Place, div.Teams[1].Place = 1, 2
			So(verifyDivision(div), ShouldNotBeNil)
		})

		Convey("When the score does not match its scorers", func() {
			div.Teams[0].Score = 16
			So(verifyDivision(div), ShouldNotBeNil)
		})

		Convey("When a heat failed to score", func() {
			err := verifyHeat(types.HeatDoc{ID: "h", Status: "failed", Error: "boom"})
			So(errors.Is(err, ErrVerification), ShouldBeTrue)
		})
	})
}
