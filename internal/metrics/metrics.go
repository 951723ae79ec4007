package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	samplesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "airlog", Subsystem: "ingest", Name: "samples_recorded_total", Help: "Sensor samples stored"},
	)
	samplesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "airlog", Subsystem: "ingest", Name: "samples_rejected_total", Help: "Sensor samples refused by reason"},
		[]string{"reason"},
	)
	windowsServed = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "airlog", Subsystem: "aggregate", Name: "windows_served", Help: "Windows in the most recent 24h aggregation"},
	)
	dbLatency = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{Namespace: "airlog", Subsystem: "db", Name: "latency_seconds", Help: "DB operation latency"},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(samplesRecorded, samplesRejected, windowsServed, dbLatency)
}

func IncRecorded()                         { samplesRecorded.Inc() }
func IncRejected(reason string)            { samplesRejected.WithLabelValues(reason).Inc() }
func SetWindows(n int)                     { windowsServed.Set(float64(n)) }
func ObserveDB(op string, d time.Duration) { dbLatency.WithLabelValues(op).Observe(d.Seconds()) }
