package metrics

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	// QuotesTotal counts quote lifecycle outcomes.
	QuotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pricing",
		Name:      "quotes_total",
		Help:      "Count of quote operations by action and result.",
	}, []string{"action", "result"})

	// ValidationFailuresTotal counts rejected creator pricing fields.
	ValidationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pricing",
		Name:      "config_validation_failures_total",
		Help:      "Count of pricing configuration validation failures by field.",
	}, []string{"field"})

	// QuoteTotalCents observes quoted totals in cents.
	QuoteTotalCents = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pricing",
		Name:      "quote_total_cents",
		Help:      "Distribution of quoted booking totals in cents.",
		Buckets:   []float64{2000, 5000, 10000, 25000, 50000, 100000, 250000, 500000},
	})
)

// MustRegister registers the collectors once. A nil registerer means the default one.
func MustRegister(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(QuotesTotal, ValidationFailuresTotal, QuoteTotalCents)
	})
}

// Handler exposes the default gatherer for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// FieldLabel drops list indexes so "bundles[3].quantity" counts as "bundles.quantity".
func FieldLabel(field string) string {
	for {
		open := strings.IndexByte(field, '[')
		if open < 0 {
			return field
		}
		end := strings.IndexByte(field[open:], ']')
		if end < 0 {
			return field
		}
		field = field[:open] + field[open+end+1:]
	}
}
