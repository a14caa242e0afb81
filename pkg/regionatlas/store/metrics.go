package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	upsertInserted = "inserted"
	upsertUpdated  = "updated"
	upsertError    = "error"
)

// ZoneUpserts counts zone upserts by outcome
var ZoneUpserts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: "region_atlas_store",
		Name:      "upserts_total",
		Help:      "Number of availability zone upserts by result",
	},
	[]string{"result"}, // "inserted", "updated", "error"
)

func init() {
	prometheus.MustRegister(ZoneUpserts)
}
