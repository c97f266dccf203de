package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/classwatch/internal/adapters/mq/queue"
	worker "github.com/okian/classwatch/internal/adapters/mq/worker"
	model "github.com/okian/classwatch/internal/domain/model"
	logging "github.com/okian/classwatch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockWriter struct {
	mu     sync.Mutex
	stored []model.Observation
	errors map[string]error
}

func newMockWriter() *mockWriter {
	return &mockWriter{errors: make(map[string]error)}
}

func (mw *mockWriter) Add(_ context.Context, obs model.Observation) error { //nolint:gocritic // hugeParam: matches Writer
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if err, ok := mw.errors[obs.ID]; ok {
		return err
	}
	mw.stored = append(mw.stored, obs)
	return nil
}

func (mw *mockWriter) setError(id string, err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.errors[id] = err
}

func (mw *mockWriter) all() []model.Observation {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	out := make([]model.Observation, len(mw.stored))
	copy(out, mw.stored)
	return out
}

func obs(id string, scores ...float64) model.Observation {
	o := model.Observation{
		ID:          id,
		StudentID:   "s1",
		StudentName: "Ada",
		Timestamp:   time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
	}
	for i, s := range scores {
		o.Categories = append(o.Categories, model.CategoryScore{
			Category: model.DefaultCategories()[i%5],
			Score:    s,
		})
	}
	return o
}

func waitDone(w *worker.InMemoryWorker) bool {
	select {
	case <-w.Done():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestScorePolicy(t *testing.T) {
	convey.Convey("Given the score policies", t, func() {
		convey.Convey("ParseScorePolicy accepts known names and defaults to keep", func() {
			for _, name := range []string{"keep", "clamp", "skip"} {
				p, err := worker.ParseScorePolicy(name)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(p), convey.ShouldEqual, name)
			}
			p, err := worker.ParseScorePolicy("")
			convey.So(err, convey.ShouldBeNil)
			convey.So(p, convey.ShouldEqual, worker.PolicyKeep)

			_, err = worker.ParseScorePolicy("round")
			convey.So(errors.Is(err, worker.ErrUnknownPolicy), convey.ShouldBeTrue)
		})

		convey.Convey("keep leaves out-of-range scores alone", func() {
			out, ok := worker.PolicyKeep.Apply(obs("o1", 0.5, 3, 7))
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(out.Categories, convey.ShouldHaveLength, 3)
			convey.So(out.Categories[0].Score, convey.ShouldEqual, 0.5)
			convey.So(out.Categories[2].Score, convey.ShouldEqual, 7)
		})

		convey.Convey("clamp pulls scores onto the scale", func() {
			out, ok := worker.PolicyClamp.Apply(obs("o1", 0.5, 3, 7))
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(out.Categories[0].Score, convey.ShouldEqual, model.MinScore)
			convey.So(out.Categories[1].Score, convey.ShouldEqual, 3)
			convey.So(out.Categories[2].Score, convey.ShouldEqual, model.MaxScore)
		})

		convey.Convey("skip drops out-of-range entries", func() {
			out, ok := worker.PolicySkip.Apply(obs("o1", 0.5, 3, 7))
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(out.Categories, convey.ShouldHaveLength, 1)
			convey.So(out.Categories[0].Score, convey.ShouldEqual, 3)
		})

		convey.Convey("skip rejects an observation left empty", func() {
			_, ok := worker.PolicySkip.Apply(obs("o1", 0, 6))
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("an observation without categories is kept", func() {
			out, ok := worker.PolicySkip.Apply(obs("o1"))
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(out.Categories, convey.ShouldBeEmpty)
		})

		convey.Convey("Apply does not modify its input", func() {
			in := obs("o1", 0.5, 3, 7)
			_, _ = worker.PolicySkip.Apply(in)
			_, _ = worker.PolicyClamp.Apply(in)
			convey.So(in.Categories[0].Score, convey.ShouldEqual, 0.5)
			convey.So(in.Categories[1].Score, convey.ShouldEqual, 3)
			convey.So(in.Categories[2].Score, convey.ShouldEqual, 7)
		})
	})
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		w := newMockWriter()
		counters := &worker.Counters{}

		convey.Convey("It stores every observation and stops when the queue closes", func() {
			wk := worker.NewInMemoryWorker(q, w, counters, worker.WithName("test"))
			go wk.Run(ctx)

			for i := 0; i < 3; i++ {
				convey.So(q.Enqueue(ctx, obs(fmt.Sprintf("o%d", i), 3)), convey.ShouldBeNil)
			}
			convey.So(q.Close(), convey.ShouldBeNil)
			convey.So(waitDone(wk), convey.ShouldBeTrue)

			stored := w.all()
			convey.So(stored, convey.ShouldHaveLength, 3)
			convey.So(stored[0].ID, convey.ShouldEqual, "o0")
			convey.So(counters.Stored(), convey.ShouldEqual, 3)
			convey.So(counters.Failed(), convey.ShouldEqual, 0)
		})

		convey.Convey("Store failures are counted and do not stop the worker", func() {
			w.setError("bad", errors.New("boom"))
			wk := worker.NewInMemoryWorker(q, w, counters)
			go wk.Run(ctx)

			convey.So(q.Enqueue(ctx, obs("bad", 3)), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, obs("good", 3)), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)
			convey.So(waitDone(wk), convey.ShouldBeTrue)

			convey.So(w.all(), convey.ShouldHaveLength, 1)
			convey.So(counters.Failed(), convey.ShouldEqual, 1)
			convey.So(counters.Stored(), convey.ShouldEqual, 1)
		})

		convey.Convey("The skip policy rejects observations with nothing in range", func() {
			wk := worker.NewInMemoryWorker(q, w, counters, worker.WithScorePolicy(worker.PolicySkip))
			go wk.Run(ctx)

			convey.So(q.Enqueue(ctx, obs("out", 9)), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, obs("mixed", 9, 2)), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)
			convey.So(waitDone(wk), convey.ShouldBeTrue)

			stored := w.all()
			convey.So(stored, convey.ShouldHaveLength, 1)
			convey.So(stored[0].ID, convey.ShouldEqual, "mixed")
			convey.So(stored[0].Categories, convey.ShouldHaveLength, 1)
			convey.So(counters.Rejected(), convey.ShouldEqual, 1)
		})

		convey.Convey("It stops when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			wk := worker.NewInMemoryWorker(q, w, nil)
			go wk.Run(cctx)
			cancel()
			convey.So(waitDone(wk), convey.ShouldBeTrue)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(200))
		w := newMockWriter()

		convey.Convey("A non-positive size falls back to a CPU based default", func() {
			p := worker.NewPool(0, q, w)
			convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("Shutdown drains the backlog before returning", func() {
			p := worker.NewPool(4, q, w, worker.WithScorePolicy(worker.PolicyClamp))
			convey.So(p.Size(), convey.ShouldEqual, 4)

			for i := 0; i < 100; i++ {
				convey.So(q.Enqueue(ctx, obs(fmt.Sprintf("o%d", i), 6)), convey.ShouldBeNil)
			}
			p.Start(ctx)
			p.Start(ctx)

			convey.So(p.Shutdown(ctx), convey.ShouldBeNil)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)

			stored := w.all()
			convey.So(stored, convey.ShouldHaveLength, 100)
			for _, o := range stored {
				convey.So(o.Categories[0].Score, convey.ShouldEqual, model.MaxScore)
			}
			convey.So(p.Counters().Stored(), convey.ShouldEqual, 100)
		})
	})
}
