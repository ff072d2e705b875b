package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Catalog holds the loaded, validated ticket catalog. It is immutable after
// Load and safe to share across goroutines without locking.
type Catalog struct {
	tickets []TicketType
	byID    map[string]TicketType
	rules   RuleSet
	promos  []PromoConfig
}

// Load reads and validates a catalog document from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw JSON.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc)
}

// New validates a document and builds the catalog from it.
func New(doc Document) (*Catalog, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}
	c := &Catalog{
		tickets: make([]TicketType, len(doc.Tickets)),
		byID:    make(map[string]TicketType, len(doc.Tickets)),
		rules:   doc.Rules,
		promos:  make([]PromoConfig, len(doc.Promos)),
	}
	copy(c.tickets, doc.Tickets)
	copy(c.promos, doc.Promos)
	for i := range c.promos {
		c.promos[i].Code = strings.ToUpper(strings.TrimSpace(c.promos[i].Code))
	}
	for _, t := range c.tickets {
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate ticket id %q", t.ID)
		}
		c.byID[t.ID] = t
	}
	return c, nil
}

// validate checks structural shape via validator tags and the decimal
// fields by hand, since validator cannot introspect decimal.Decimal.
func validate(doc Document) error {
	v := validator.New()
	if err := v.Struct(doc); err != nil {
		return fmt.Errorf("catalog shape: %w", err)
	}
	for _, t := range doc.Tickets {
		if t.BasePrice.IsNegative() {
			return fmt.Errorf("catalog: ticket %q has negative base price", t.ID)
		}
		if err := percentInRange(t.DiscountPercent); err != nil {
			return fmt.Errorf("catalog: ticket %q discount: %w", t.ID, err)
		}
	}
	for _, p := range []decimal.Decimal{
		doc.Rules.EarlyBird.Percent,
		doc.Rules.WeekendSurcharge.Percent,
		doc.Rules.LastMinute.Percent,
	} {
		if err := percentInRange(p); err != nil {
			return fmt.Errorf("catalog: rule percent: %w", err)
		}
	}
	for _, p := range doc.Promos {
		if p.Value.IsNegative() {
			return fmt.Errorf("catalog: promo %q has negative value", p.Code)
		}
		if p.Kind == PromoPercentage {
			if err := percentInRange(p.Value); err != nil {
				return fmt.Errorf("catalog: promo %q: %w", p.Code, err)
			}
		}
		if p.MinAmount.IsNegative() || p.MaxDiscount.IsNegative() {
			return fmt.Errorf("catalog: promo %q has negative threshold", p.Code)
		}
	}
	return nil
}

func percentInRange(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("percent %s outside [0,100]", p)
	}
	return nil
}

// Tickets returns the ticket types in catalog order.
func (c *Catalog) Tickets() []TicketType {
	out := make([]TicketType, len(c.tickets))
	copy(out, c.tickets)
	return out
}

// Ticket looks up a ticket type by id.
func (c *Catalog) Ticket(id string) (TicketType, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Rules returns the active pricing rule set.
func (c *Catalog) Rules() RuleSet { return c.rules }

// Promos returns the registered promo code configurations.
func (c *Catalog) Promos() []PromoConfig {
	out := make([]PromoConfig, len(c.promos))
	copy(out, c.promos)
	return out
}

// Len reports how many ticket types the catalog carries.
func (c *Catalog) Len() int { return len(c.tickets) }
