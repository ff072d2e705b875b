package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketType describes one purchasable ticket category. Instances are
// immutable once the catalog is loaded; callers share them by value.
type TicketType struct {
	ID              string          `json:"id" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Description     string          `json:"description"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Features        []string        `json:"features,omitempty"`
	Available       int             `json:"available" validate:"min=0"`
	MaxPerPurchase  int             `json:"maxPerPurchase" validate:"min=1"`
	Category        string          `json:"category" validate:"required"`
}

// HasTypeDiscount reports whether the type declares its own flat discount.
func (t TicketType) HasTypeDiscount() bool {
	return t.DiscountPercent.IsPositive()
}

// EarlyBirdRule is a time-boxed discount active while the evaluation
// instant is before EndsAt.
type EarlyBirdRule struct {
	Active      bool            `json:"active"`
	Percent     decimal.Decimal `json:"percent"`
	EndsAt      time.Time       `json:"endsAt"`
	Description string          `json:"description"`
}

// AppliesAt reports whether the discount is in effect at the given instant.
func (r EarlyBirdRule) AppliesAt(now time.Time) bool {
	return r.Active && now.Before(r.EndsAt)
}

// WeekendSurchargeRule is gated by its active flag plus the caller-supplied
// weekend flag. Unlike the other two rules it carries no time window; the
// catalog data format this loader accepts has never had one.
type WeekendSurchargeRule struct {
	Active      bool            `json:"active"`
	Percent     decimal.Decimal `json:"percent"`
	Description string          `json:"description"`
}

// LastMinuteRule is a time-boxed surcharge active once the evaluation
// instant has passed StartsAt.
type LastMinuteRule struct {
	Active      bool            `json:"active"`
	Percent     decimal.Decimal `json:"percent"`
	StartsAt    time.Time       `json:"startsAt"`
	Description string          `json:"description"`
}

// AppliesAt reports whether the surcharge is in effect at the given instant.
func (r LastMinuteRule) AppliesAt(now time.Time) bool {
	return r.Active && now.After(r.StartsAt)
}

// RuleSet groups the toggleable pricing rules. It is read-only shared data;
// pricing code receives it by value together with an explicit evaluation
// instant so calculations stay deterministic.
type RuleSet struct {
	EarlyBird        EarlyBirdRule        `json:"earlyBird"`
	WeekendSurcharge WeekendSurchargeRule `json:"weekendSurcharge"`
	LastMinute       LastMinuteRule       `json:"lastMinute"`
}

// PromoKind distinguishes percentage codes from fixed-amount codes.
type PromoKind string

// Supported promo code kinds.
const (
	PromoPercentage PromoKind = "percentage"
	PromoFixed      PromoKind = "fixed"
)

// PromoConfig is the catalog-side description of a redeemable promo code.
// MinQuantity, MinAmount and MaxDiscount are optional; zero means unset.
type PromoConfig struct {
	Code        string          `json:"code" validate:"required"`
	Kind        PromoKind       `json:"kind" validate:"required,oneof=percentage fixed"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	MinQuantity int             `json:"minQuantity,omitempty" validate:"min=0"`
	MinAmount   decimal.Decimal `json:"minAmount,omitempty"`
	MaxDiscount decimal.Decimal `json:"maxDiscount,omitempty"`
	UsageLimit  int             `json:"usageLimit" validate:"min=0"`
	UsageCount  int             `json:"usageCount" validate:"min=0"`
	Active      bool            `json:"active"`
}

// Document is the on-disk catalog shape: ticket types, pricing rules and
// registered promo codes in one validated unit.
type Document struct {
	Tickets []TicketType  `json:"tickets" validate:"required,min=1,dive"`
	Rules   RuleSet       `json:"rules"`
	Promos  []PromoConfig `json:"promos" validate:"dive"`
}
