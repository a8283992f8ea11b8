package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	dayReplacedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mytime",
		Subsystem: "store",
		Name:      "last_day_replaced_timestamp_seconds",
		Help:      "Unix timestamp of the most recent whole-day replace committed to the store.",
	})
	categoriesCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mytime",
		Subsystem: "store",
		Name:      "categories_created_total",
		Help:      "Number of activity categories created via get-or-create.",
	})
)

func init() {
	prometheus.MustRegister(dayReplacedGauge, categoriesCreatedCounter)
}

// RecordDayReplaced updates the replace watermark gauge.
func RecordDayReplaced(ts time.Time) {
	if ts.IsZero() {
		return
	}
	dayReplacedGauge.Set(float64(ts.Unix()))
}

// RecordCategoryCreated counts a newly created category.
func RecordCategoryCreated() {
	categoriesCreatedCounter.Inc()
}
