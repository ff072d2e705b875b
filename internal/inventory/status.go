package inventory

import "math"

// Urgency bands derived from the available/total ratio.
const (
	LevelSoldOut     = "sold_out"
	LevelCriticalLow = "critical_low"
	LevelLow         = "low"
	LevelMedium      = "medium"
	LevelAvailable   = "available"

	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// Status is the coarse classification shown next to a ticket type.
type Status struct {
	Record
	Level            string `json:"status"`
	Urgency          string `json:"urgency"`
	PercentAvailable int    `json:"percentAvailable"`
}

// Status classifies a ticket type by its remaining availability:
// 0% sold_out/critical, <=5% critical_low/critical, <=15% low/high,
// <=30% medium/medium, otherwise available/low.
func (l *Ledger) Status(id string) (Status, error) {
	e, err := l.entry(id)
	if err != nil || e == nil {
		return Status{}, err
	}
	e.mu.Lock()
	rec := e.rec
	e.mu.Unlock()

	pct := 0.0
	if rec.Total > 0 {
		pct = float64(rec.Available) / float64(rec.Total) * 100
	}
	s := Status{Record: rec, PercentAvailable: int(math.Round(pct))}
	switch {
	case rec.Available == 0:
		s.Level, s.Urgency = LevelSoldOut, UrgencyCritical
	case pct <= 5:
		s.Level, s.Urgency = LevelCriticalLow, UrgencyCritical
	case pct <= 15:
		s.Level, s.Urgency = LevelLow, UrgencyHigh
	case pct <= 30:
		s.Level, s.Urgency = LevelMedium, UrgencyMedium
	default:
		s.Level, s.Urgency = LevelAvailable, UrgencyLow
	}
	return s, nil
}

// TypeStats augments a record with its sell-through rate.
type TypeStats struct {
	Record
	SalesRate float64 `json:"salesRate"`
}

// OverallStats aggregates the ledger across all ticket types.
type OverallStats struct {
	TotalTickets     int                  `json:"totalTickets"`
	TotalAvailable   int                  `json:"totalAvailable"`
	TotalReserved    int                  `json:"totalReserved"`
	TotalSold        int                  `json:"totalSold"`
	ByType           map[string]TypeStats `json:"byType"`
	OverallSalesRate float64              `json:"overallSalesRate"`
}

// OverallStats summarises the whole ledger.
func (l *Ledger) OverallStats() OverallStats {
	stats := OverallStats{ByType: make(map[string]TypeStats, len(l.records))}
	for id, rec := range l.Snapshot() {
		stats.TotalTickets += rec.Total
		stats.TotalAvailable += rec.Available
		stats.TotalReserved += rec.Reserved
		stats.TotalSold += rec.Sold
		rate := 0.0
		if rec.Total > 0 {
			rate = float64(rec.Sold) / float64(rec.Total) * 100
		}
		stats.ByType[id] = TypeStats{Record: rec, SalesRate: rate}
	}
	if stats.TotalTickets > 0 {
		stats.OverallSalesRate = float64(stats.TotalSold) / float64(stats.TotalTickets) * 100
	}
	return stats
}
