package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/wildcat/internal/adapters/http/api"
	"github.com/okian/wildcat/internal/adapters/repository"
	service "github.com/okian/wildcat/internal/app"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/meet"
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

// mockDeps records what the handlers pass through.
type mockDeps struct {
	submitted []heat.Submission
	submitErr error
	duplicate bool
	records   map[string]repository.Record
	scoreErr  error
	meet      *meet.Meet
}

func (m *mockDeps) Submit(ctx context.Context, sub heat.Submission) (string, bool, error) {
	if m.submitErr != nil {
		return "", false, m.submitErr
	}
	m.submitted = append(m.submitted, sub)
	return "heat-1", m.duplicate, nil
}

func (m *mockDeps) ScoreNow(ctx context.Context, sub heat.Submission) (repository.Record, error) {
	return repository.Record{ID: "heat-2", Mode: heat.ModeSingle, Status: repository.StatusFailed}, m.scoreErr
}

func (m *mockDeps) Heat(ctx context.Context, id string) (repository.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return repository.Record{}, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	return rec, nil
}

func (m *mockDeps) Heats(ctx context.Context, limit int) ([]repository.Record, error) {
	out := make([]repository.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockDeps) Meet() *meet.Meet { return m.meet }

func (m *mockDeps) Teams(ctx context.Context) []types.TeamInfo {
	return []types.TeamInfo{{ID: 0, Initials: "NOHS", Runners: 7}}
}

func (m *mockDeps) GetStats() map[string]any { return map[string]any{"started": true} }

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlersWithMocks(t *testing.T) {
	Convey("Given a server over mock dependencies", t, func() {
		deps := &mockDeps{records: map[string]repository.Record{
			"pending": {ID: "pending", Mode: heat.ModeSingle, Status: repository.StatusPending},
		}}
		h := api.NewServer(deps, api.WithMaxListLimit(10)).Handler()

		Convey("When a valid heat is posted", func() {
			rec := do(h, http.MethodPost, "/heats", `{"submission_id":"s1","mode":"combined","finishes":[{"runner_id":1001,"time":"16:00.00"},{"runner_id":1002,"seconds":961.5}]}`)

			Convey("Then it is accepted and converted", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				var resp types.SubmitResponse
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ID, ShouldEqual, "heat-1")
				So(resp.Status, ShouldEqual, "pending")

				So(deps.submitted, ShouldHaveLength, 1)
				sub := deps.submitted[0]
				So(sub.ID, ShouldEqual, "s1")
				So(sub.Mode, ShouldEqual, heat.ModeCombined)
				So(sub.Finishes[1].Time.String(), ShouldEqual, "16:01.50")
			})
		})

		Convey("When a duplicate heat is posted", func() {
			deps.duplicate = true
			rec := do(h, http.MethodPost, "/heats", `{"submission_id":"s1","finishes":[]}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"duplicate":true`)
		})

		Convey("When malformed heats are posted", func() {
			bodies := map[string]string{
				"bad json":         `{`,
				"missing finishes": `{"submission_id":"s"}`,
				"unknown mode":     `{"mode":"relay","finishes":[]}`,
				"missing runner":   `{"finishes":[{"time":"16:00"}]}`,
				"missing time":     `{"finishes":[{"runner_id":1}]}`,
				"bad time":         `{"finishes":[{"runner_id":1,"time":"fast"}]}`,
				"unknown field":    `{"finishes":[],"extra":1}`,
			}
			for name, body := range bodies {
				Convey("Then "+name+" is a bad request", func() {
					rec := do(h, http.MethodPost, "/heats", body)
					So(rec.Code, ShouldEqual, http.StatusBadRequest)
					So(rec.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
				})
			}
		})

		Convey("When the queue is full", func() {
			deps.submitErr = service.ErrQueueFull
			rec := do(h, http.MethodPost, "/heats", `{"finishes":[]}`)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("When the service is not running", func() {
			deps.submitErr = service.ErrNotStarted
			rec := do(h, http.MethodPost, "/heats", `{"finishes":[]}`)
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When a synchronous heat cannot be scored", func() {
			deps.scoreErr = fmt.Errorf("score heat: %w", heat.ErrUnknownMode)
			rec := do(h, http.MethodPost, "/heats/score", `{"finishes":[]}`)
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("When reading heats", func() {
			So(do(h, http.MethodGet, "/heats/missing", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodGet, "/heats/pending", "").Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodGet, "/heats/pending/report", "").Code, ShouldEqual, http.StatusConflict)
			So(do(h, http.MethodGet, "/heats/pending/report?format=csv", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodGet, "/heats?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodGet, "/heats?limit=11", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodGet, "/heats?limit=5", "").Code, ShouldEqual, http.StatusOK)
		})

		Convey("When calling the ambient endpoints", func() {
			health := do(h, http.MethodGet, "/healthz", "")
			So(health.Code, ShouldEqual, http.StatusOK)
			So(health.Body.String(), ShouldContainSubstring, `"status":"ok"`)

			stats := do(h, http.MethodGet, "/stats", "").Body.String()
			So(stats, ShouldContainSubstring, `"started":true`)
			So(stats, ShouldContainSubstring, `"uptimeSeconds":`)
			So(do(h, http.MethodGet, "/teams", "").Body.String(), ShouldContainSubstring, `"NOHS"`)

			metrics := do(h, http.MethodGet, "/metrics", "")
			So(metrics.Code, ShouldEqual, http.StatusOK)
			So(metrics.Body.String(), ShouldContainSubstring, "wildcat_scoring_http_requests_total")
		})

		Convey("When a route is called with the wrong method", func() {
			So(do(h, http.MethodDelete, "/heats", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestHandlersWithService(t *testing.T) {
	Convey("Given a server over a running service", t, func() {
		race, err := testrace.Generate(testrace.NewConfig(testrace.WithSeed(3)))
		So(err, ShouldBeNil)
		svc := service.New(service.WithMeet(race.Meet), service.WithWorkerCount(1))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := api.NewServer(svc).Handler()

		var entries []types.FinishEntry
		for _, f := range race.Finishes() {
			entries = append(entries, types.FinishEntry{RunnerID: int(f.RunnerID), Time: f.Time.String()})
		}
		body, err := json.Marshal(types.HeatRequest{SubmissionID: "race-1", Finishes: entries})
		So(err, ShouldBeNil)

		Convey("When the heat is scored synchronously", func() {
			rec := do(h, http.MethodPost, "/heats/score", string(body))
			So(rec.Code, ShouldEqual, http.StatusOK)
			var doc types.HeatDoc
			So(json.Unmarshal(rec.Body.Bytes(), &doc), ShouldBeNil)

			Convey("Then the response carries the standings", func() {
				So(doc.Status, ShouldEqual, "scored")
				So(doc.Divisions, ShouldHaveLength, 1)
				So(doc.Divisions[0].Teams, ShouldHaveLength, len(race.Meet.Teams))
				So(doc.Divisions[0].Individuals, ShouldHaveLength, len(entries))
			})

			Convey("Then the printed report is served", func() {
				report := do(h, http.MethodGet, "/heats/"+doc.ID+"/report", "")
				So(report.Code, ShouldEqual, http.StatusOK)
				So(report.Body.String(), ShouldContainSubstring, "TEAM SCORES")

				yaml := do(h, http.MethodGet, "/heats/"+doc.ID+"/report?format=yaml", "")
				So(yaml.Body.String(), ShouldContainSubstring, "scorers: [")

				sum := do(h, http.MethodGet, "/heats/"+doc.ID+"/report?format=summary", "")
				So(sum.Code, ShouldEqual, http.StatusOK)
				So(sum.Header().Get("Content-Type"), ShouldStartWith, "text/plain")
				So(sum.Body.String(), ShouldStartWith, "1 ")
				So(strings.Count(sum.Body.String(), "\n"), ShouldEqual, len(race.Meet.Teams))
			})

			Convey("Then the heat is listed", func() {
				list := do(h, http.MethodGet, "/heats", "")
				var docs []types.HeatDoc
				So(json.Unmarshal(list.Body.Bytes(), &docs), ShouldBeNil)
				So(docs, ShouldHaveLength, 1)
				So(docs[0].ID, ShouldEqual, doc.ID)
			})
		})

		Convey("When an unrostered runner is scored", func() {
			rec := do(h, http.MethodPost, "/heats/score", `{"finishes":[{"runner_id":1,"time":"15:00"}]}`)

			Convey("Then the heat is unprocessable", func() {
				So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(rec.Body.String(), ShouldContainSubstring, "runner not on any roster")
			})
		})
	})
}
