package service

import (
	"context"
	"errors"
	"testing"

	jobqueue "github.com/okian/wildcat/internal/adapters/mq/queue"
	"github.com/okian/wildcat/internal/adapters/repository"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/testrace"
	"github.com/okian/wildcat/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSubmit_FullQueueKeepsStoredHeats(t *testing.T) {
	Convey("Given a service holding one heat with a full queue", t, func() {
		So(logger.Init(), ShouldBeNil)
		race, err := testrace.Generate(testrace.NewConfig(testrace.WithSeed(11)))
		So(err, ShouldBeNil)

		ctx := context.Background()
		svc := New(WithMeet(race.Meet), WithWorkerCount(1), WithQueueSize(1), WithMaxHeats(1))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		stored, err := svc.ScoreNow(ctx, heat.Submission{ID: "first", Finishes: race.Finishes()})
		So(err, ShouldBeNil)

		// Swap in a queue no worker reads from and fill it.
		full := jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(1))
		So(full.Enqueue(ctx, jobqueue.Job{HeatID: "parked"}), ShouldBeTrue)
		svc.mu.Lock()
		svc.queue = full
		svc.mu.Unlock()

		Convey("When a heat is submitted", func() {
			_, _, err := svc.Submit(ctx, heat.Submission{ID: "second", Finishes: race.Finishes()})

			Convey("Then it is rejected and the stored heat survives", func() {
				So(errors.Is(err, ErrQueueFull), ShouldBeTrue)

				rec, err := svc.Heat(ctx, stored.ID)
				So(err, ShouldBeNil)
				So(rec.Status, ShouldEqual, repository.StatusScored)

				list, err := svc.Heats(ctx, 0)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)
			})

			Convey("Then the submission ID can be retried", func() {
				svc.mu.Lock()
				svc.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(1))
				svc.mu.Unlock()

				id, dup, err := svc.Submit(ctx, heat.Submission{ID: "second", Finishes: race.Finishes()})
				So(err, ShouldBeNil)
				So(dup, ShouldBeFalse)
				So(id, ShouldNotBeEmpty)
			})
		})
	})
}

func TestStop_ClosesStore(t *testing.T) {
	Convey("Given a started service with a stored heat", t, func() {
		So(logger.Init(), ShouldBeNil)
		race, err := testrace.Generate(testrace.NewConfig(testrace.WithSeed(11)))
		So(err, ShouldBeNil)

		ctx := context.Background()
		svc := New(WithMeet(race.Meet), WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)
		_, err = svc.ScoreNow(ctx, heat.Submission{Finishes: race.Finishes()})
		So(err, ShouldBeNil)
		store := svc.store
		So(store.Count(ctx), ShouldEqual, 1)

		Convey("When it stops", func() {
			svc.Stop()

			Convey("Then the store is emptied", func() {
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}
