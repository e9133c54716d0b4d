package universe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	instrumentsScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dragonback_instruments_scanned_total",
		Help: "Instruments dispatched to the scanner, per rule.",
	}, []string{"rule"})

	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dragonback_scan_hits_total",
		Help: "Instruments that produced a live pattern hit, per rule.",
	}, []string{"rule"})

	faultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dragonback_scan_faults_total",
		Help: "Per-instrument load errors and contained panics, per rule.",
	}, []string{"rule"})

	scanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dragonback_universe_scan_seconds",
		Help:    "Wall time of a full universe scan, per rule.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"rule"})
)
