package inventory

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Demand is one unit of external sales pressure: somebody other than the
// local cart bought tickets.
type Demand struct {
	TicketID string
	Quantity int
}

// Source produces batches of external demand. Implementations decide the
// cadence and shape; the feed only applies what it is handed, which keeps
// concurrent-decrement behaviour testable with a scripted source.
type Source interface {
	Next() []Demand
}

// ApplyDemand moves min(qty, available) units straight from available to
// sold, bypassing the reservation stage. Returns how many units were
// actually applied.
func (l *Ledger) ApplyDemand(d Demand) (int, error) {
	if d.Quantity < 0 {
		d.Quantity = 0
	}
	e, err := l.entry(d.TicketID)
	if err != nil || e == nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	applied := min(d.Quantity, e.rec.Available)
	e.rec.Available -= applied
	e.rec.Sold += applied
	return applied, nil
}

// RunFeed drains the source on a fixed interval until the context ends.
func RunFeed(ctx context.Context, l *Ledger, src Source, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, d := range src.Next() {
				applied, err := l.ApplyDemand(d)
				if err != nil {
					logger.Warn().Err(err).Str("ticket_id", d.TicketID).Msg("demand feed")
					continue
				}
				if applied > 0 {
					logger.Debug().
						Str("ticket_id", d.TicketID).
						Int("quantity", applied).
						Msg("external sale applied")
				}
			}
		}
	}
}

// RandomSource simulates other shoppers buying tickets: each tick, every
// ticket id has a 10% chance of a 1-3 unit sale. A fixed seed makes a run
// reproducible.
type RandomSource struct {
	rng *rand.Rand
	ids []string
}

// NewRandomSource creates a seeded random demand source over the given ids.
func NewRandomSource(seed int64, ids []string) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed)), ids: ids}
}

// Next implements Source.
func (s *RandomSource) Next() []Demand {
	var out []Demand
	for _, id := range s.ids {
		if s.rng.Float64() < 0.1 {
			out = append(out, Demand{TicketID: id, Quantity: s.rng.Intn(3) + 1})
		}
	}
	return out
}
