package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const namespace = "storefront"

// Metrics records cart and catalog activity on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	cartMutations *prometheus.CounterVec
	cartItems     prometheus.Gauge
	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cartMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_mutations_total",
				Help:      "Accepted cart mutations by action.",
			},
			[]string{"action"},
		),
		cartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_items",
			Help:      "Total quantity currently in the cart.",
		}),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_fetch_total",
				Help:      "Catalog fetches by outcome.",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_fetch_duration_seconds",
			Help:      "Duration of catalog fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.cartMutations, m.cartItems, m.fetchTotal, m.fetchDuration)
	return m
}

// CartChanged implements session.Listener.
func (m *Metrics) CartChanged(_ context.Context, c session.Change) {
	m.cartMutations.WithLabelValues(string(c.Action)).Inc()
	m.cartItems.Set(float64(cart.TotalItems(c.After)))
}

// ObserveFetch matches catalog.FetchObserver.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.fetchTotal.WithLabelValues(outcome).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
