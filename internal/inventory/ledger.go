// Package inventory tracks available, reserved and sold units per ticket
// type. Every transition preserves the invariant
// total = available + reserved + sold and clamps so no counter goes
// negative. Mutations are serialized per ticket type, so two reservations
// racing on the same type can never jointly grant more than available.
package inventory

import (
	"errors"
	"sort"
	"sync"
)

// ErrUnknownTicket is returned for unregistered ticket ids when the ledger
// runs in strict mode. In permissive mode unknown ids are a silent no-op,
// which matches the historical contract of this ledger.
var ErrUnknownTicket = errors.New("inventory: unknown ticket id")

// Record is the counter set for one ticket type.
type Record struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Sold      int `json:"sold"`
}

// Consistent reports whether the record satisfies the ledger invariant.
func (r Record) Consistent() bool {
	return r.Total == r.Available+r.Reserved+r.Sold &&
		r.Available >= 0 && r.Reserved >= 0 && r.Sold >= 0
}

// Reservation reports the outcome of a reserve call. Granted may be lower
// than Requested when availability ran short; callers must check Fulfilled
// instead of assuming the full quantity was held.
type Reservation struct {
	TicketID  string `json:"ticketId"`
	Requested int    `json:"requested"`
	Granted   int    `json:"granted"`
	Record    Record `json:"record"`
}

// Fulfilled reports whether the full requested quantity was granted.
func (r Reservation) Fulfilled() bool { return r.Granted == r.Requested }

// Config controls ledger behaviour.
type Config struct {
	// Strict makes operations on unknown ticket ids fail with
	// ErrUnknownTicket instead of silently no-opping.
	Strict bool
}

type entry struct {
	mu  sync.Mutex
	rec Record
}

// Ledger is the inventory state machine. The set of ticket ids is fixed at
// construction; only the counters move.
type Ledger struct {
	records map[string]*entry
	strict  bool
}

// New builds a ledger from initial availability per ticket id. Each record
// starts with available = total = initial count, nothing reserved or sold.
func New(initial map[string]int, cfg Config) *Ledger {
	l := &Ledger{records: make(map[string]*entry, len(initial)), strict: cfg.Strict}
	for id, count := range initial {
		if count < 0 {
			count = 0
		}
		l.records[id] = &entry{rec: Record{Total: count, Available: count}}
	}
	return l
}

func (l *Ledger) entry(id string) (*entry, error) {
	e, ok := l.records[id]
	if !ok {
		if l.strict {
			return nil, ErrUnknownTicket
		}
		return nil, nil
	}
	return e, nil
}

// Reserve moves min(qty, available) units from available to reserved. The
// returned Reservation always carries both requested and granted counts so
// partial fulfilment is explicit.
func (l *Ledger) Reserve(id string, qty int) (Reservation, error) {
	if qty < 0 {
		qty = 0
	}
	res := Reservation{TicketID: id, Requested: qty}
	e, err := l.entry(id)
	if err != nil || e == nil {
		return res, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	granted := min(qty, e.rec.Available)
	e.rec.Available -= granted
	e.rec.Reserved += granted
	res.Granted = granted
	res.Record = e.rec
	return res, nil
}

// Release moves min(qty, reserved) units back from reserved to available.
func (l *Ledger) Release(id string, qty int) (Record, error) {
	if qty < 0 {
		qty = 0
	}
	e, err := l.entry(id)
	if err != nil || e == nil {
		return Record{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	released := min(qty, e.rec.Reserved)
	e.rec.Reserved -= released
	e.rec.Available += released
	return e.rec, nil
}

// ConfirmSale moves min(qty, reserved) units from reserved to sold.
func (l *Ledger) ConfirmSale(id string, qty int) (Record, error) {
	if qty < 0 {
		qty = 0
	}
	e, err := l.entry(id)
	if err != nil || e == nil {
		return Record{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	confirmed := min(qty, e.rec.Reserved)
	e.rec.Reserved -= confirmed
	e.rec.Sold += confirmed
	return e.rec, nil
}

// AddStock grows both available and total by qty (restock).
func (l *Ledger) AddStock(id string, qty int) (Record, error) {
	if qty < 0 {
		qty = 0
	}
	e, err := l.entry(id)
	if err != nil || e == nil {
		return Record{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rec.Available += qty
	e.rec.Total += qty
	return e.rec, nil
}

// Reset returns a record to its pristine state: everything available,
// nothing reserved or sold.
func (l *Ledger) Reset(id string) (Record, error) {
	e, err := l.entry(id)
	if err != nil || e == nil {
		return Record{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rec = Record{Total: e.rec.Total, Available: e.rec.Total}
	return e.rec, nil
}

// Get returns the current record for a ticket id.
func (l *Ledger) Get(id string) (Record, bool) {
	e, ok := l.records[id]
	if !ok {
		return Record{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, true
}

// Available reports the currently free units for a ticket id. It satisfies
// the availability interface the cart validation pass consumes.
func (l *Ledger) Available(id string) (int, bool) {
	rec, ok := l.Get(id)
	return rec.Available, ok
}

// Snapshot returns a copy of every record keyed by ticket id.
func (l *Ledger) Snapshot() map[string]Record {
	out := make(map[string]Record, len(l.records))
	for id, e := range l.records {
		e.mu.Lock()
		out[id] = e.rec
		e.mu.Unlock()
	}
	return out
}

// IDs returns the registered ticket ids in sorted order.
func (l *Ledger) IDs() []string {
	ids := make([]string, 0, len(l.records))
	for id := range l.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Audit verifies the invariant across all records, returning the ids of
// any inconsistent ones. An empty slice means the ledger is healthy.
func (l *Ledger) Audit() []string {
	var bad []string
	for id, rec := range l.Snapshot() {
		if !rec.Consistent() {
			bad = append(bad, id)
		}
	}
	sort.Strings(bad)
	return bad
}
