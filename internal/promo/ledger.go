// Package promo validates and redeems promotional codes. Validation
// failures are structured results rather than errors so callers can render
// per-field messages; only registry misuse surfaces as an error.
package promo

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Kalzeracode/ingressosc/internal/catalog"
)

var hundred = decimal.NewFromInt(100)

// ErrUnknownCode is returned by Redeem for a code the registry never held.
var ErrUnknownCode = errors.New("promo: unknown code")

// ErrExhausted is returned by Redeem when the usage limit is already spent.
var ErrExhausted = errors.New("promo: usage limit reached")

// Reason identifies why a code failed validation.
type Reason string

// Validation failure taxonomy, checked in this order.
const (
	ReasonInvalidCode        Reason = "INVALID_CODE"
	ReasonInactiveCode       Reason = "INACTIVE_CODE"
	ReasonUsageLimitExceeded Reason = "USAGE_LIMIT_EXCEEDED"
	ReasonMinQuantityNotMet  Reason = "MIN_QUANTITY_NOT_MET"
	ReasonMinAmountNotMet    Reason = "MIN_AMOUNT_NOT_MET"
)

// Result is the outcome of applying a code to a purchase.
type Result struct {
	Valid       bool              `json:"valid"`
	Reason      Reason            `json:"reason,omitempty"`
	Message     string            `json:"message,omitempty"`
	Code        string            `json:"code,omitempty"`
	Kind        catalog.PromoKind `json:"kind,omitempty"`
	Value       decimal.Decimal   `json:"value"`
	Discount    decimal.Decimal   `json:"discount"`
	Description string            `json:"description,omitempty"`
}

func failure(reason Reason, message string) Result {
	return Result{Reason: reason, Message: message}
}

// Registry holds the registered codes. Only usage counts mutate, guarded by
// the registry mutex; everything else is fixed at construction.
type Registry struct {
	mu    sync.Mutex
	codes map[string]*catalog.PromoConfig
	order []string
}

// NewRegistry builds a registry from catalog promo configurations. Codes
// are matched case-insensitively.
func NewRegistry(configs []catalog.PromoConfig) *Registry {
	r := &Registry{codes: make(map[string]*catalog.PromoConfig, len(configs))}
	for _, cfg := range configs {
		c := cfg
		c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
		if c.Code == "" {
			continue
		}
		if _, dup := r.codes[c.Code]; dup {
			continue
		}
		r.codes[c.Code] = &c
		r.order = append(r.order, c.Code)
	}
	return r
}

// Apply validates a submitted code against the purchase and computes its
// discount. The subtotal argument must already have the quantity discount
// subtracted; promo and quantity discounts are sequential, never both
// against the raw subtotal. The first failing check wins.
func (r *Registry) Apply(code string, subtotal decimal.Decimal, totalQuantity int) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	upper := strings.ToUpper(strings.TrimSpace(code))
	promo, ok := r.codes[upper]
	if !ok {
		return failure(ReasonInvalidCode, "promo code not found")
	}
	if !promo.Active {
		return failure(ReasonInactiveCode, "promo code is inactive")
	}
	if promo.UsageCount >= promo.UsageLimit {
		return failure(ReasonUsageLimitExceeded, "promo code has been exhausted")
	}
	if promo.MinQuantity > 0 && totalQuantity < promo.MinQuantity {
		return failure(ReasonMinQuantityNotMet,
			fmt.Sprintf("this code requires at least %d tickets", promo.MinQuantity))
	}
	if promo.MinAmount.IsPositive() && subtotal.LessThan(promo.MinAmount) {
		return failure(ReasonMinAmountNotMet,
			fmt.Sprintf("this code requires a minimum purchase of %s", promo.MinAmount.StringFixed(2)))
	}

	discount := decimal.Zero
	switch promo.Kind {
	case catalog.PromoPercentage:
		discount = subtotal.Mul(promo.Value).Div(hundred)
	case catalog.PromoFixed:
		discount = decimal.Min(promo.Value, subtotal)
	}
	if promo.MaxDiscount.IsPositive() {
		discount = decimal.Min(discount, promo.MaxDiscount)
	}

	return Result{
		Valid:       true,
		Code:        promo.Code,
		Kind:        promo.Kind,
		Value:       promo.Value,
		Discount:    discount,
		Description: promo.Description,
	}
}

// Redeem burns one use of the code. It is called once per confirmed sale,
// never from the validation path, so quoting a cart cannot exhaust a code.
// Returns the updated usage count.
func (r *Registry) Redeem(code string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	promo, ok := r.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, ErrUnknownCode
	}
	if promo.UsageCount >= promo.UsageLimit {
		return promo.UsageCount, ErrExhausted
	}
	promo.UsageCount++
	return promo.UsageCount, nil
}

// Snapshot returns a copy of the registered codes with current usage counts.
func (r *Registry) Snapshot() []catalog.PromoConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.PromoConfig, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, *r.codes[code])
	}
	return out
}
