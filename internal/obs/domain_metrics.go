package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// DeliveryQuoteTotal counts delivery quote computations by outcome.
	DeliveryQuoteTotal *prometheus.CounterVec
	// DeliveryQuoteKm records the total route distance of successful quotes.
	DeliveryQuoteKm prometheus.Histogram
	// GeocodeLookupTotal counts geocoder lookups by provider, direction and result.
	GeocodeLookupTotal *prometheus.CounterVec
	// CheckoutTotal counts checkout attempts by result.
	CheckoutTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		DeliveryQuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_quote_total",
			Help:      "Count of delivery quote computations by outcome.",
		}, []string{"result", "stores"})
		DeliveryQuoteKm = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_quote_km",
			Help:      "Total route distance in kilometers for successful quotes.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		})
		GeocodeLookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_lookup_total",
			Help:      "Count of geocoder lookups by provider, direction and result.",
		}, []string{"provider", "direction", "result"})
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout attempts by result.",
		}, []string{"result"})

		DeliveryQuoteTotal = registerCounterVec(reg, DeliveryQuoteTotal)
		GeocodeLookupTotal = registerCounterVec(reg, GeocodeLookupTotal)
		CheckoutTotal = registerCounterVec(reg, CheckoutTotal)
		if err := reg.Register(DeliveryQuoteKm); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
					DeliveryQuoteKm = existing
				}
			}
		}
	})
}
