package option

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

var (
	asOf     = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	oneYear  = asOf.Add(365 * 24 * time.Hour)
	twoYears = asOf.Add(2 * 365 * 24 * time.Hour)
)

// quote 构造测试报价，标的 100、利率 5%、剩余期限一年。
func quote(strike float64, typ OptionType, side Side, v Value) Quote {
	return MustQuote(QuoteConfig{
		Strike:       strike,
		Maturity:     oneYear,
		AssetPrice:   100,
		RiskFreeRate: 0.05,
		OptionType:   typ,
		Value:        v,
		Side:         side,
		AsOf:         asOf,
	})
}

func TestNewQuoteDefaults(t *testing.T) {
	before := time.Now()
	q, err := NewQuote(QuoteConfig{
		Strike:     100,
		Maturity:   before.Add(24 * time.Hour),
		AssetPrice: 100,
		OptionType: Call,
		Value:      PriceValue(1.5),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, q.RiskFreeRate())
	assert.Equal(t, 0.0, q.DividendYield())
	assert.Equal(t, SideNone, q.Side())
	assert.Nil(t, q.Additional())
	assert.Nil(t, q.OpenInterest())
	assert.False(t, q.AsOf().Before(before))
}

func TestNewQuoteValidation(t *testing.T) {
	valid := QuoteConfig{Strike: 100, Maturity: oneYear, AssetPrice: 100, OptionType: Call, Value: PriceValue(10)}
	tests := []struct {
		name   string
		mutate func(*QuoteConfig)
		want   *xerrors.Error
	}{
		{"zero strike", func(c *QuoteConfig) { c.Strike = 0 }, xerrors.ErrInvalidInput},
		{"negative asset price", func(c *QuoteConfig) { c.AssetPrice = -5 }, xerrors.ErrInvalidInput},
		{"missing type", func(c *QuoteConfig) { c.OptionType = "" }, xerrors.ErrInvalidOptionType},
		{"missing value", func(c *QuoteConfig) { c.Value = Value{} }, xerrors.ErrInvalidInput},
		{"negative premium", func(c *QuoteConfig) { c.Value = PriceValue(-1) }, xerrors.ErrInvalidInput},
		{"negative volume", func(c *QuoteConfig) { c.Additional = &AdditionalData{Volume: Float(-1)} }, xerrors.ErrInvalidInput},
		{"bad side", func(c *QuoteConfig) { c.Side = Side(7) }, xerrors.ErrInvalidInput},
		{"missing maturity", func(c *QuoteConfig) { c.Maturity = time.Time{} }, xerrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := NewQuote(cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestQuoteTimeToExpiry(t *testing.T) {
	q := quote(100, Call, Bid, PriceValue(10))
	assert.InDelta(t, 1.0, q.TimeToExpiry(), 1e-12)
	assert.InDelta(t, 0.5, q.WithAsOf(asOf.Add(365*12*time.Hour)).TimeToExpiry(), 1e-12)
	// 原报价不受影响
	assert.Equal(t, asOf, q.AsOf())
}

func TestQuoteSolveIV(t *testing.T) {
	q := quote(100, Call, Bid, PriceValue(10.450583572185565))

	solved, err := q.SolveIV()
	require.NoError(t, err)
	assert.Equal(t, KindVolatility, solved.Value().Kind())
	assert.InDelta(t, 0.2, solved.Value().Amount(), 1e-6)
	assert.Equal(t, KindPrice, q.Value().Kind(), "original quote must keep its price")

	premium, err := solved.Premium()
	require.NoError(t, err)
	assert.InDelta(t, 10.450583572185565, premium, 1e-5)

	theo, err := solved.Theoretical()
	require.NoError(t, err)
	assert.Equal(t, KindPrice, theo.Value().Kind())
}

func TestQuoteGreeksResolveVolatility(t *testing.T) {
	byPrice := quote(100, Call, SideNone, PriceValue(10.450583572185565))
	byVol := quote(100, Call, SideNone, VolatilityValue(0.2))

	for _, k := range pricing.AllGreeks {
		a, err := byPrice.Greek(k)
		require.NoError(t, err)
		b, err := byVol.Greek(k)
		require.NoError(t, err)
		assert.InDelta(t, b, a, 1e-3*max(1, abs(b)), k.String())
	}

	delta, err := byVol.Delta()
	require.NoError(t, err)
	assert.InDelta(t, 0.6368306511756191, delta, 1e-9)
}

func TestExpiredQuote(t *testing.T) {
	q := quote(100, Call, Bid, PriceValue(5)).WithAsOf(oneYear.Add(time.Hour))
	assert.Less(t, q.TimeToExpiry(), 0.0)

	_, err := q.Delta()
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	_, err = q.SolveIV()
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestQuoteExposure(t *testing.T) {
	q := MustQuote(QuoteConfig{
		Strike: 100, Maturity: oneYear, AssetPrice: 100, RiskFreeRate: 0.05,
		OptionType: Call, Value: VolatilityValue(0.2), AsOf: asOf,
		Additional: &AdditionalData{OpenInterest: Float(1000)},
	})
	gamma, err := q.Gamma()
	require.NoError(t, err)
	gex, err := q.GammaExposure(100)
	require.NoError(t, err)
	assert.InDelta(t, gamma*1000*100, gex, 1e-9)

	_, err = quote(100, Call, Bid, VolatilityValue(0.2)).DeltaExposure(100)
	assert.ErrorIs(t, err, xerrors.ErrMissingOpenInterest)
}

func TestQuoteAdditionalIsCopied(t *testing.T) {
	data := &AdditionalData{OpenInterest: Float(10)}
	q := MustQuote(QuoteConfig{
		Strike: 100, Maturity: oneYear, AssetPrice: 100, OptionType: Put,
		Value: PriceValue(1), AsOf: asOf, Additional: data,
	})
	*data.OpenInterest = 99
	assert.Equal(t, 10.0, *q.OpenInterest())
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"bid": Bid, "ASK": Ask, "": SideNone, "mid": SideNone} {
		got, err := ParseSide(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSide("cross")
	assert.Error(t, err)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
