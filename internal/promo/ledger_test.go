package promo_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Kalzeracode/ingressosc/internal/catalog"
	"github.com/Kalzeracode/ingressosc/internal/promo"
)

func testConfigs() []catalog.PromoConfig {
	return []catalog.PromoConfig{
		{
			Code:       "PROMO10",
			Kind:       catalog.PromoPercentage,
			Value:      decimal.NewFromInt(10),
			UsageLimit: 100,
			Active:     true,
		},
		{
			Code:       "SAVE50",
			Kind:       catalog.PromoFixed,
			Value:      decimal.NewFromInt(50),
			UsageLimit: 50,
			Active:     true,
		},
		{
			Code:        "GRUPO20",
			Kind:        catalog.PromoPercentage,
			Value:       decimal.NewFromInt(20),
			MinQuantity: 5,
			UsageLimit:  20,
			Active:      true,
		},
		{
			Code:       "OLD",
			Kind:       catalog.PromoPercentage,
			Value:      decimal.NewFromInt(5),
			UsageLimit: 10,
			Active:     false,
		},
		{
			Code:       "SPENT",
			Kind:       catalog.PromoPercentage,
			Value:      decimal.NewFromInt(5),
			UsageLimit: 3,
			UsageCount: 3,
			Active:     true,
		},
		{
			Code:       "BIG",
			Kind:       catalog.PromoPercentage,
			Value:      decimal.NewFromInt(10),
			MinAmount:  decimal.NewFromInt(500),
			UsageLimit: 10,
			Active:     true,
		},
		{
			Code:        "CAPPED",
			Kind:        catalog.PromoPercentage,
			Value:       decimal.NewFromInt(50),
			MaxDiscount: decimal.NewFromInt(30),
			UsageLimit:  10,
			Active:      true,
		},
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "want %s got %s", want, got)
}

func TestApplyPercentage(t *testing.T) {
	r := promo.NewRegistry(testConfigs())

	res := r.Apply("PROMO10", decimal.RequireFromString("1083.75"), 10)

	require.True(t, res.Valid)
	require.Equal(t, "PROMO10", res.Code)
	requireDecimal(t, "108.375", res.Discount)
}

func TestApplyCaseInsensitive(t *testing.T) {
	r := promo.NewRegistry(testConfigs())

	res := r.Apply("  promo10 ", decimal.NewFromInt(100), 1)

	require.True(t, res.Valid)
	require.Equal(t, "PROMO10", res.Code)
}

func TestApplyFixedClampsToSubtotal(t *testing.T) {
	r := promo.NewRegistry(testConfigs())

	res := r.Apply("SAVE50", decimal.NewFromInt(30), 1)

	require.True(t, res.Valid)
	requireDecimal(t, "30", res.Discount)
}

func TestApplyMaxDiscountCap(t *testing.T) {
	r := promo.NewRegistry(testConfigs())

	res := r.Apply("CAPPED", decimal.NewFromInt(200), 1)

	require.True(t, res.Valid)
	requireDecimal(t, "30", res.Discount)
}

func TestApplyFailureOrder(t *testing.T) {
	r := promo.NewRegistry(testConfigs())
	subtotal := decimal.NewFromInt(100)

	cases := []struct {
		name     string
		code     string
		subtotal decimal.Decimal
		quantity int
		reason   promo.Reason
	}{
		{"unknown code", "NOPE", subtotal, 1, promo.ReasonInvalidCode},
		{"inactive code", "OLD", subtotal, 1, promo.ReasonInactiveCode},
		{"exhausted code", "SPENT", subtotal, 1, promo.ReasonUsageLimitExceeded},
		{"below min quantity", "GRUPO20", subtotal, 4, promo.ReasonMinQuantityNotMet},
		{"below min amount", "BIG", decimal.NewFromInt(499), 1, promo.ReasonMinAmountNotMet},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := r.Apply(tc.code, tc.subtotal, tc.quantity)
			require.False(t, res.Valid)
			require.Equal(t, tc.reason, res.Reason)
			require.NotEmpty(t, res.Message)
			require.True(t, res.Discount.IsZero())
		})
	}
}

func TestApplyMinQuantityBoundary(t *testing.T) {
	r := promo.NewRegistry(testConfigs())

	res := r.Apply("GRUPO20", decimal.NewFromInt(500), 5)

	require.True(t, res.Valid)
	requireDecimal(t, "100", res.Discount)
}

func TestRedeemBurnsOneUse(t *testing.T) {
	r := promo.NewRegistry(testConfigs())

	count, err := r.Redeem("promo10")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = r.Redeem("PROMO10")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestRedeemUnknownCode(t *testing.T) {
	r := promo.NewRegistry(testConfigs())

	_, err := r.Redeem("NOPE")
	require.ErrorIs(t, err, promo.ErrUnknownCode)
}

func TestRedeemExhausted(t *testing.T) {
	r := promo.NewRegistry(testConfigs())

	_, err := r.Redeem("SPENT")
	require.ErrorIs(t, err, promo.ErrExhausted)
}

func TestRedeemExhaustionBlocksApply(t *testing.T) {
	configs := []catalog.PromoConfig{{
		Code:       "LAST2",
		Kind:       catalog.PromoPercentage,
		Value:      decimal.NewFromInt(10),
		UsageLimit: 2,
		Active:     true,
	}}
	r := promo.NewRegistry(configs)

	for i := 0; i < 2; i++ {
		require.True(t, r.Apply("LAST2", decimal.NewFromInt(100), 1).Valid)
		_, err := r.Redeem("LAST2")
		require.NoError(t, err)
	}

	res := r.Apply("LAST2", decimal.NewFromInt(100), 1)
	require.False(t, res.Valid)
	require.Equal(t, promo.ReasonUsageLimitExceeded, res.Reason)
}

func TestSnapshotCopiesState(t *testing.T) {
	r := promo.NewRegistry(testConfigs())
	_, err := r.Redeem("SAVE50")
	require.NoError(t, err)

	snap := r.Snapshot()
	byCode := make(map[string]catalog.PromoConfig, len(snap))
	for _, cfg := range snap {
		byCode[cfg.Code] = cfg
	}
	require.Equal(t, 1, byCode["SAVE50"].UsageCount)

	// Mutating the snapshot must not leak back into the registry.
	cfg := byCode["SAVE50"]
	cfg.UsageCount = 99
	res := r.Apply("SAVE50", decimal.NewFromInt(100), 1)
	require.True(t, res.Valid)
}
