// Package ingest validates sensor payloads and appends them to the sample store.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/vaheed/airlog/internal/metrics"
	"github.com/vaheed/airlog/internal/models"
)

const ackMessage = "Values logged successfully!"

// Appender is the write side of the sample store.
type Appender interface {
	Append(ctx context.Context, in models.Sample) (*models.Sample, error)
}

type Recorder struct {
	Log   *slog.Logger
	Store Appender
	// Now is the authoritative clock for sample timestamps; defaults to time.Now.
	Now func() time.Time
}

func NewRecorder(l *slog.Logger, store Appender) *Recorder {
	return &Recorder{Log: l, Store: store, Now: time.Now}
}

// payload mirrors the sensor body after schema validation. Integer fields
// arrive as JSON numbers and may be encoded with a fraction part of zero.
type payload struct {
	PM02 float64 `json:"pm02"`
	RCO2 float64 `json:"rco2"`
	ATMP float64 `json:"atmp"`
	RHUM float64 `json:"rhum"`
	WiFi float64 `json:"wifi"`
}

// checkRange keeps the integer fields inside the storage column range
// before they are converted.
func (p payload) checkRange() error {
	fields := []struct {
		name     string
		v        float64
		min, max float64
	}{
		{"pm02", p.PM02, 0, math.MaxInt32},
		{"rco2", p.RCO2, 0, math.MaxInt32},
		{"rhum", p.RHUM, 0, 100},
		{"wifi", p.WiFi, math.MinInt32, math.MaxInt32},
	}
	for _, f := range fields {
		if f.v < f.min || f.v > f.max {
			return fmt.Errorf("%w: %s: %v out of range [%v, %v]", models.ErrValidation, f.name, f.v, f.min, f.max)
		}
	}
	return nil
}

// Parse validates body and returns the sample it describes, without a
// timestamp. Every error wraps models.ErrValidation.
func Parse(body []byte) (models.Sample, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return models.Sample{}, fmt.Errorf("%w: malformed json: %v", models.ErrValidation, err)
	}
	if err := sampleSchema.Validate(doc); err != nil {
		return models.Sample{}, fmt.Errorf("%w: %s", models.ErrValidation, describe(err))
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return models.Sample{}, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if err := p.checkRange(); err != nil {
		return models.Sample{}, err
	}
	return models.Sample{
		PM02: int(p.PM02),
		RCO2: int(p.RCO2),
		ATMP: p.ATMP,
		RHUM: int(p.RHUM),
		WiFi: int(p.WiFi),
	}, nil
}

// Record validates body, stamps it with the server clock at second precision
// and appends it. Nothing is written when validation fails.
func (r *Recorder) Record(ctx context.Context, body []byte) (*models.Ack, error) {
	in, err := Parse(body)
	if err != nil {
		metrics.IncRejected("validation")
		return nil, err
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	in.Timestamp = now().UTC().Truncate(time.Second)

	start := time.Now()
	out, err := r.Store.Append(ctx, in)
	metrics.ObserveDB("append_sample", time.Since(start))
	if err != nil {
		metrics.IncRejected("persistence")
		if !errors.Is(err, models.ErrPersistence) {
			err = fmt.Errorf("%w: %w", models.ErrPersistence, err)
		}
		return nil, err
	}
	metrics.IncRecorded()
	if r.Log != nil {
		r.Log.Debug("sample recorded", slog.Int64("id", out.ID), slog.Time("recorded_at", out.Timestamp))
	}
	return &models.Ack{Message: ackMessage}, nil
}
