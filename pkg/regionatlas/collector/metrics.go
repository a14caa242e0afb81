package collector

import (
	"github.com/prometheus/client_golang/prometheus"
)

const collectorSubsystem = "region_atlas_collector"

var (
	// ProviderRegions is the number of available regions from the last fetch
	ProviderRegions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Subsystem: collectorSubsystem,
			Name:      "regions",
			Help:      "Available regions returned by the last fetch of each provider",
		},
		[]string{"provider"},
	)

	// FetchErrors counts failed provider fetches
	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: collectorSubsystem,
			Name:      "fetch_errors_total",
			Help:      "Number of provider fetches that failed or panicked",
		},
		[]string{"provider"},
	)

	// FetchDuration measures provider fetch latency
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: collectorSubsystem,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of provider region fetches",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(ProviderRegions)
	prometheus.MustRegister(FetchErrors)
	prometheus.MustRegister(FetchDuration)
}
