package ingest

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/vaheed/airlog/internal/models"
)

type fakeAppender struct {
	got []models.Sample
	err error
}

func (f *fakeAppender) Append(_ context.Context, in models.Sample) (*models.Sample, error) {
	if f.err != nil {
		return nil, f.err
	}
	in.ID = int64(len(f.got) + 1)
	f.got = append(f.got, in)
	return &in, nil
}

func newTestRecorder(store Appender, now time.Time) *Recorder {
	r := NewRecorder(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), store)
	r.Now = func() time.Time { return now }
	return r
}

func TestRecordStampsServerTime(t *testing.T) {
	store := &fakeAppender{}
	now := time.Date(2024, 5, 6, 14, 7, 32, 987654321, time.FixedZone("CEST", 2*3600))
	r := newTestRecorder(store, now)

	body := []byte(`{"wifi":-61,"pm02":12,"rco2":410,"atmp":21.5,"rhum":48,"timestamp":"1999-01-01T00:00:00Z"}`)
	ack, err := r.Record(context.Background(), body)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if ack.Message != "Values logged successfully!" {
		t.Fatalf("unexpected ack %q", ack.Message)
	}
	if len(store.got) != 1 {
		t.Fatalf("expected one append, got %d", len(store.got))
	}
	s := store.got[0]
	want := time.Date(2024, 5, 6, 12, 7, 32, 0, time.UTC)
	if !s.Timestamp.Equal(want) || s.Timestamp.Location() != time.UTC {
		t.Fatalf("expected server timestamp %s, got %s", want, s.Timestamp)
	}
	if s.PM02 != 12 || s.RCO2 != 410 || s.ATMP != 21.5 || s.RHUM != 48 || s.WiFi != -61 {
		t.Fatalf("unexpected sample %+v", s)
	}
}

func TestRecordAcceptsFloatEncodedIntegers(t *testing.T) {
	store := &fakeAppender{}
	r := newTestRecorder(store, time.Now())
	if _, err := r.Record(context.Background(), []byte(`{"wifi":-50.0,"pm02":3.0,"rco2":1e3,"atmp":19.75,"rhum":100}`)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if store.got[0].RCO2 != 1000 || store.got[0].PM02 != 3 || store.got[0].RHUM != 100 {
		t.Fatalf("unexpected sample %+v", store.got[0])
	}
}

func TestRecordRejectsInvalidPayloads(t *testing.T) {
	cases := map[string]string{
		"missing rhum":    `{"wifi":-61,"pm02":12,"rco2":410,"atmp":21.5}`,
		"missing all":     `{}`,
		"not json":        `pm02=12`,
		"array":           `[1,2,3]`,
		"string field":    `{"wifi":-61,"pm02":"12","rco2":410,"atmp":21.5,"rhum":48}`,
		"null field":      `{"wifi":-61,"pm02":12,"rco2":null,"atmp":21.5,"rhum":48}`,
		"negative pm02":   `{"wifi":-61,"pm02":-1,"rco2":410,"atmp":21.5,"rhum":48}`,
		"humidity > 100":  `{"wifi":-61,"pm02":12,"rco2":410,"atmp":21.5,"rhum":101}`,
		"fractional rco2": `{"wifi":-61,"pm02":12,"rco2":410.5,"atmp":21.5,"rhum":48}`,
		"huge pm02":       `{"wifi":-61,"pm02":1e20,"rco2":410,"atmp":21.5,"rhum":48}`,
		"pm02 over int32": `{"wifi":-61,"pm02":3000000000,"rco2":410,"atmp":21.5,"rhum":48}`,
		"huge wifi":       `{"wifi":1e300,"pm02":12,"rco2":410,"atmp":21.5,"rhum":48}`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			store := &fakeAppender{}
			r := newTestRecorder(store, time.Now())
			_, err := r.Record(context.Background(), []byte(body))
			if !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(store.got) != 0 {
				t.Fatalf("store must not be touched on validation failure")
			}
		})
	}
}

func TestParseAcceptsInt32Bounds(t *testing.T) {
	got, err := Parse([]byte(`{"wifi":-2147483648,"pm02":2147483647,"rco2":2147483647,"atmp":21.5,"rhum":48}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.PM02 != math.MaxInt32 || got.RCO2 != math.MaxInt32 || got.WiFi != math.MinInt32 {
		t.Fatalf("unexpected sample %+v", got)
	}
}

func TestCheckRangeRejectsOverflow(t *testing.T) {
	cases := map[string]payload{
		"pm02":     {PM02: 1e20},
		"rco2":     {RCO2: 3000000000},
		"rhum":     {RHUM: 101},
		"wifi low": {WiFi: -1e300},
	}
	for name, p := range cases {
		p := p
		t.Run(name, func(t *testing.T) {
			if err := p.checkRange(); !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
	if err := (payload{WiFi: -61, PM02: 12, RCO2: 410, RHUM: 48}).checkRange(); err != nil {
		t.Fatalf("in-range payload rejected: %v", err)
	}
}

func TestRecordNamesMissingField(t *testing.T) {
	_, err := Parse([]byte(`{"wifi":-61,"pm02":12,"rco2":410,"atmp":21.5}`))
	if err == nil || !bytes.Contains([]byte(err.Error()), []byte("rhum")) {
		t.Fatalf("expected error to mention rhum, got %v", err)
	}
}

func TestRecordSurfacesPersistenceError(t *testing.T) {
	boom := errors.New("disk full")
	r := newTestRecorder(&fakeAppender{err: boom}, time.Now())
	_, err := r.Record(context.Background(), []byte(`{"wifi":-61,"pm02":12,"rco2":410,"atmp":21.5,"rhum":48}`))
	if !errors.Is(err, models.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
}

func TestRecordKeepsWrappedPersistenceError(t *testing.T) {
	inner := errors.Join(models.ErrPersistence, errors.New("timeout"))
	r := newTestRecorder(&fakeAppender{err: inner}, time.Now())
	_, err := r.Record(context.Background(), []byte(`{"wifi":0,"pm02":0,"rco2":0,"atmp":0,"rhum":0}`))
	if err != inner {
		t.Fatalf("expected store error unchanged, got %v", err)
	}
}
