package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ReservationsTotal counts reservation attempts by fulfilment outcome.
	ReservationsTotal *prometheus.CounterVec
	// ReleasesTotal counts released reservation units per ticket type.
	ReleasesTotal *prometheus.CounterVec
	// TicketsSoldTotal counts confirmed ticket sales per ticket type.
	TicketsSoldTotal *prometheus.CounterVec
	// PromoRedemptionsTotal counts promo redemptions by code.
	PromoRedemptionsTotal *prometheus.CounterVec
	// StockAddedTotal counts restocked units per ticket type.
	StockAddedTotal *prometheus.CounterVec
	// CheckoutTotal counts checkout attempts by result.
	CheckoutTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ReservationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_reservations_total",
			Help:      "Count of reservation attempts by fulfilment outcome.",
		}, []string{"ticket", "result"})
		ReleasesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_releases_total",
			Help:      "Count of reservation release operations per ticket type.",
		}, []string{"ticket"})
		TicketsSoldTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_sold_total",
			Help:      "Units of confirmed ticket sales per ticket type.",
		}, []string{"ticket"})
		PromoRedemptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_redemptions_total",
			Help:      "Count of promo code redemptions by code.",
		}, []string{"code"})
		StockAddedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_stock_added_total",
			Help:      "Units of restocked inventory per ticket type.",
		}, []string{"ticket"})
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout attempts by result.",
		}, []string{"result"})

		for _, c := range []**prometheus.CounterVec{
			&ReservationsTotal, &ReleasesTotal, &TicketsSoldTotal,
			&PromoRedemptionsTotal, &StockAddedTotal, &CheckoutTotal,
		} {
			collector := *c
			if err := reg.Register(collector); err != nil {
				if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
					if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
						*c = existing
						continue
					}
				}
				panic(err)
			}
		}
	})
}
