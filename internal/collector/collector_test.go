package collector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

type fakeSummarizer struct {
	calls atomic.Int32
	block chan struct{} // when non-nil, Summarize waits until closed
}

func (f *fakeSummarizer) Summarize(ctx context.Context) model.MarketSummary {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
		}
	}
	s := model.NewMarketSummary()
	s.CryptoPrices["BTC"] = decimal.NewFromInt(67000)
	s.SourcesUsed = []string{"binance"}
	return s
}

type recordingSink struct {
	name string
	err  error

	mu  sync.Mutex
	got []model.MarketSummary
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Consume(ctx context.Context, s model.MarketSummary) error {
	r.mu.Lock()
	r.got = append(r.got, s)
	r.mu.Unlock()
	return r.err
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce(t *testing.T) {
	sum := &fakeSummarizer{}
	sink := &recordingSink{name: "cache"}

	c := New("", sum, []Sink{sink}, quietLogger())
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.runOnce()

	if got := sum.calls.Load(); got != 1 {
		t.Errorf("summarize calls = %d, want 1", got)
	}
	if sink.count() != 1 {
		t.Fatalf("sink received %d summaries, want 1", sink.count())
	}

	latest, ok := c.Latest()
	if !ok {
		t.Fatal("Latest() should be set after a run")
	}
	if latest.ID != sink.got[0].ID {
		t.Errorf("Latest().ID = %s, want %s", latest.ID, sink.got[0].ID)
	}

	st := c.Stats()
	if st.Runs != 1 || st.SinkErrors != 0 || st.Skipped != 0 {
		t.Errorf("stats = %+v, want 1 run and no errors", st)
	}
	if st.LastID != latest.ID.String() {
		t.Errorf("stats.LastID = %s, want %s", st.LastID, latest.ID)
	}
	if st.LastRun.IsZero() {
		t.Error("stats.LastRun should be set after a run")
	}
}

func TestSinkErrorDoesNotAbortRun(t *testing.T) {
	sum := &fakeSummarizer{}
	failing := &recordingSink{name: "store", err: errors.New("connection refused")}
	healthy := &recordingSink{name: "cache"}

	c := New("", sum, []Sink{failing, healthy}, quietLogger())
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.runOnce()

	if healthy.count() != 1 {
		t.Errorf("healthy sink received %d summaries, want 1", healthy.count())
	}
	if _, ok := c.Latest(); !ok {
		t.Error("Latest() should be set despite a sink failure")
	}

	st := c.Stats()
	if st.Runs != 1 || st.SinkErrors != 1 {
		t.Errorf("stats = %+v, want 1 run with 1 sink error", st)
	}
}

func TestOverlappingTickSkipped(t *testing.T) {
	sum := &fakeSummarizer{block: make(chan struct{})}
	c := New("", sum, nil, quietLogger())
	c.ctx, c.cancel = context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.runOnce()
	}()

	// Wait until the first run holds the gate.
	deadline := time.Now().Add(time.Second)
	for sum.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first run never started")
		}
		time.Sleep(time.Millisecond)
	}

	c.runOnce()

	if got := c.Stats().Skipped; got != 1 {
		t.Errorf("skipped = %d, want 1", got)
	}

	close(sum.block)
	wg.Wait()

	if got := sum.calls.Load(); got != 1 {
		t.Errorf("summarize calls = %d, want 1 (second tick dropped)", got)
	}
	if got := c.Stats().Runs; got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}

func TestStartStop(t *testing.T) {
	sum := &fakeSummarizer{}
	sink := &recordingSink{name: "cache"}

	// A long schedule so only the immediate first run fires.
	c := New("@every 1h", sum, []Sink{sink}, quietLogger())

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for sink.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first snapshot never arrived")
		}
		time.Sleep(time.Millisecond)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := c.Stats().Runs; got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	c := New("every five minutes or so", &fakeSummarizer{}, nil, quietLogger())

	if err := c.Start(context.Background()); err == nil {
		t.Error("expected an error for an unparseable schedule")
	}
}

func TestLatestBeforeFirstRun(t *testing.T) {
	c := New("", &fakeSummarizer{}, nil, quietLogger())

	if _, ok := c.Latest(); ok {
		t.Error("Latest() should report nothing before the first run")
	}

	st := c.Stats()
	if st.Runs != 0 || st.LastID != "" || !st.LastRun.IsZero() {
		t.Errorf("stats = %+v, want zero values", st)
	}
}

func TestNewSinkAdapter(t *testing.T) {
	var got atomic.Int32
	s := NewSink("probe", func(ctx context.Context, sum model.MarketSummary) error {
		got.Add(1)
		return nil
	})

	if s.Name() != "probe" {
		t.Errorf("Name() = %q, want probe", s.Name())
	}
	if err := s.Consume(context.Background(), model.NewMarketSummary()); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got.Load() != 1 {
		t.Errorf("fn called %d times, want 1", got.Load())
	}
}
