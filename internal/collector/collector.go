package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// DefaultSchedule collects a snapshot every five minutes.
const DefaultSchedule = "@every 5m"

// Summarizer assembles one market summary per run.
type Summarizer interface {
	Summarize(ctx context.Context) model.MarketSummary
}

// Sink receives each assembled summary. A failing sink is logged and
// skipped; it never fails the run or the other sinks.
type Sink interface {
	Name() string
	Consume(ctx context.Context, s model.MarketSummary) error
}

type sinkFunc struct {
	name string
	fn   func(context.Context, model.MarketSummary) error
}

func (s sinkFunc) Name() string { return s.name }

func (s sinkFunc) Consume(ctx context.Context, sum model.MarketSummary) error {
	return s.fn(ctx, sum)
}

// NewSink adapts a function to the Sink interface.
func NewSink(name string, fn func(context.Context, model.MarketSummary) error) Sink {
	return sinkFunc{name: name, fn: fn}
}

// Stats is a point-in-time view of collector activity.
type Stats struct {
	Runs       int64     `json:"runs"`
	SinkErrors int64     `json:"sink_errors"`
	Skipped    int64     `json:"skipped_ticks"`
	LastRun    time.Time `json:"last_run"`
	LastID     string    `json:"last_snapshot_id,omitempty"`
}

// Collector runs the snapshot schedule.
type Collector struct {
	schedule   string
	summarizer Summarizer
	sinks      []Sink
	logger     *slog.Logger

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running    atomic.Bool
	runs       atomic.Int64
	sinkErrors atomic.Int64
	skipped    atomic.Int64
	lastRun    atomic.Int64
	latest     atomic.Pointer[model.MarketSummary]
}

// New creates a Collector. An empty schedule falls back to DefaultSchedule;
// the cron expression is validated at Start.
func New(schedule string, summarizer Summarizer, sinks []Sink, logger *slog.Logger) *Collector {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		schedule:   schedule,
		summarizer: summarizer,
		sinks:      sinks,
		logger:     logger.With("component", "collector"),
	}
}

// Start validates the schedule, collects an immediate first snapshot,
// and begins ticking.
func (c *Collector) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.cron = cron.New()
	if _, err := c.cron.AddFunc(c.schedule, c.runOnce); err != nil {
		return fmt.Errorf("parse schedule %q: %w", c.schedule, err)
	}

	// First snapshot right away; the schedule covers the rest.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runOnce()
	}()

	c.cron.Start()
	c.logger.Info("collector started",
		"schedule", c.schedule,
		"sinks", len(c.sinks),
	)
	return nil
}

// Stop halts the schedule and waits for any in-flight run.
func (c *Collector) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		if c.cron != nil {
			<-c.cron.Stop().Done()
		}
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("collector stopped")
		return nil
	case <-ctx.Done():
		c.logger.Warn("collector stop timed out")
		return ctx.Err()
	}
}

// Latest returns the most recent snapshot, if one has been collected.
func (c *Collector) Latest() (model.MarketSummary, bool) {
	p := c.latest.Load()
	if p == nil {
		return model.MarketSummary{}, false
	}
	return *p, true
}

// Stats returns current counters.
func (c *Collector) Stats() Stats {
	st := Stats{
		Runs:       c.runs.Load(),
		SinkErrors: c.sinkErrors.Load(),
		Skipped:    c.skipped.Load(),
	}
	if ns := c.lastRun.Load(); ns > 0 {
		st.LastRun = time.Unix(0, ns).UTC()
	}
	if p := c.latest.Load(); p != nil {
		st.LastID = p.ID.String()
	}
	return st
}

// runOnce collects one snapshot. Overlapping ticks are dropped.
func (c *Collector) runOnce() {
	if !c.running.CompareAndSwap(false, true) {
		c.skipped.Add(1)
		c.logger.Warn("previous run still in progress, skipping tick")
		return
	}
	defer c.running.Store(false)

	if c.ctx.Err() != nil {
		return
	}

	start := time.Now()
	s := c.summarizer.Summarize(c.ctx)

	for _, sink := range c.sinks {
		if err := sink.Consume(c.ctx, s); err != nil {
			c.sinkErrors.Add(1)
			c.logger.Warn("sink failed",
				"sink", sink.Name(),
				"id", s.ID,
				"error", err,
			)
		}
	}

	c.latest.Store(&s)
	c.runs.Add(1)
	c.lastRun.Store(start.UnixNano())

	c.logger.Info("snapshot collected",
		"id", s.ID,
		"quotes", s.QuoteCount(),
		"duration", time.Since(start),
	)
}
