package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vaheed/airlog/internal/metrics"
	"github.com/vaheed/airlog/internal/models"
)

// Reader is the range-scan side of the sample store.
type Reader interface {
	Since(ctx context.Context, cutoff time.Time) ([]models.Sample, error)
}

// Result is one 24h aggregation. NoData reports that nothing was recorded in
// range; it is not an error.
type Result struct {
	Cutoff  time.Time
	NoData  bool
	Windows []Average
}

func (r *Result) Series() Series { return NewSeries(r.Windows) }

type Aggregator struct {
	Log   *slog.Logger
	Store Reader
	// Loc is the wall clock window boundaries align to.
	Loc *time.Location
	Now func() time.Time
}

func NewAggregator(l *slog.Logger, store Reader, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{Log: l, Store: store, Loc: loc, Now: time.Now}
}

// Last24h recomputes the windows for every sample recorded since now-24h.
// A read failure returns no windows at all.
func (a *Aggregator) Last24h(ctx context.Context) (*Result, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	cutoff := now().UTC().Add(-Lookback)

	start := time.Now()
	samples, err := a.Store.Since(ctx, cutoff)
	metrics.ObserveDB("select_samples", time.Since(start))
	if err != nil {
		if !errors.Is(err, models.ErrPersistence) {
			err = fmt.Errorf("%w: %w", models.ErrPersistence, err)
		}
		return nil, err
	}
	if len(samples) == 0 {
		metrics.SetWindows(0)
		if a.Log != nil {
			a.Log.Debug("no samples in range", slog.Time("cutoff", cutoff))
		}
		return &Result{Cutoff: cutoff, NoData: true}, nil
	}

	windows := Aggregate(samples, a.Loc)
	metrics.SetWindows(len(windows))
	if a.Log != nil {
		a.Log.Debug("aggregated",
			slog.Time("cutoff", cutoff),
			slog.Int("samples", len(samples)),
			slog.Int("windows", len(windows)))
	}
	return &Result{Cutoff: cutoff, Windows: windows}, nil
}
