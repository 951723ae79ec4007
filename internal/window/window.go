// Package window buckets stored samples into clock-aligned five minute windows
// and averages each tracked metric per window.
package window

import (
	"slices"
	"time"

	"github.com/vaheed/airlog/internal/models"
)

const (
	// Size is the width of one aggregation window.
	Size = 5 * time.Minute
	// Lookback is how far back Last24h reads.
	Lookback = 24 * time.Hour
	// LabelLayout renders a window start as day-of-week and hour:minute.
	LabelLayout = "Mon 15:04"
)

// Average is the per-window mean of each charted metric. wifi is not
// aggregated.
type Average struct {
	Start   time.Time `json:"start"`
	Label   string    `json:"label"`
	Samples int       `json:"samples"`
	PM02    float64   `json:"pm02"`
	RCO2    float64   `json:"rco2"`
	ATMP    float64   `json:"atmp"`
	RHUM    float64   `json:"rhum"`
}

// Key returns the start of the window t falls into: t truncated to the minute
// with the minute floored to a multiple of five, read on the wall clock of loc.
// The offset is subtracted from the instant so keys stay distinct across
// repeated wall-clock hours.
func Key(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	off := time.Duration(lt.Minute()%5)*time.Minute +
		time.Duration(lt.Second())*time.Second +
		time.Duration(lt.Nanosecond())
	return lt.Add(-off)
}

type bucket struct {
	start                  time.Time
	n                      int
	pm02, rco2, atmp, rhum float64
}

// Aggregate groups samples by window key and returns one average per non-empty
// window, ascending by start. Samples may arrive in any order relative to
// their keys.
func Aggregate(samples []models.Sample, loc *time.Location) []Average {
	if len(samples) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	buckets := make(map[int64]*bucket)
	for _, s := range samples {
		k := Key(s.Timestamp, loc)
		b, ok := buckets[k.Unix()]
		if !ok {
			b = &bucket{start: k}
			buckets[k.Unix()] = b
		}
		b.n++
		b.pm02 += float64(s.PM02)
		b.rco2 += float64(s.RCO2)
		b.atmp += s.ATMP
		b.rhum += float64(s.RHUM)
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Average, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		n := float64(b.n)
		out = append(out, Average{
			Start:   b.start,
			Label:   b.start.Format(LabelLayout),
			Samples: b.n,
			PM02:    b.pm02 / n,
			RCO2:    b.rco2 / n,
			ATMP:    b.atmp / n,
			RHUM:    b.rhum / n,
		})
	}
	return out
}

// Series is the chart-facing shape: index i of every slice describes the same
// window.
type Series struct {
	Timestamps []string  `json:"timestamps"`
	PM02       []float64 `json:"pm02"`
	RCO2       []float64 `json:"rco2"`
	ATMP       []float64 `json:"atmp"`
	RHUM       []float64 `json:"rhum"`
}

func NewSeries(windows []Average) Series {
	s := Series{
		Timestamps: make([]string, len(windows)),
		PM02:       make([]float64, len(windows)),
		RCO2:       make([]float64, len(windows)),
		ATMP:       make([]float64, len(windows)),
		RHUM:       make([]float64, len(windows)),
	}
	for i, w := range windows {
		s.Timestamps[i] = w.Label
		s.PM02[i] = w.PM02
		s.RCO2[i] = w.RCO2
		s.ATMP[i] = w.ATMP
		s.RHUM[i] = w.RHUM
	}
	return s
}
