package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

func withOI(q Quote, oi float64) Quote {
	cfg := q.Config()
	cfg.Additional = &AdditionalData{OpenInterest: Float(oi)}
	return MustQuote(cfg)
}

func TestChainExposure(t *testing.T) {
	call := withOI(quote(110, Call, SideNone, VolatilityValue(0.2)), 1200)
	put := withOI(quote(90, Put, SideNone, VolatilityValue(0.25)), 800)
	c := NewChain(oneYear, call, put)

	gc, err := call.Gamma()
	require.NoError(t, err)
	gp, err := put.Gamma()
	require.NoError(t, err)
	want := (gc*1200 - gp*800) * 100 * 100

	got, err := ChainExposure(c, pricing.Gamma, 100)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-6)
}

func TestChainExposureErrors(t *testing.T) {
	_, err := ChainExposure(NewChain[Quote](oneYear), pricing.Delta, 100)
	assert.ErrorIs(t, err, xerrors.ErrEmptyChain)

	c := NewChain(oneYear,
		withOI(quote(110, Call, SideNone, VolatilityValue(0.2)), 10),
		quote(120, Call, SideNone, VolatilityValue(0.2)),
	)
	_, err = ChainExposure(c, pricing.Delta, 100)
	assert.ErrorIs(t, err, xerrors.ErrMissingOpenInterest)
}

func TestBoardExposure(t *testing.T) {
	b := NewQuoteBoard()
	b.Upsert(withOI(quote(100, Call, Bid, VolatilityValue(0.2)), 100))
	cfg := withOI(quote(100, Call, Bid, VolatilityValue(0.2)), 100).Config()
	cfg.Maturity = twoYears
	b.Upsert(MustQuote(cfg))

	total, err := BoardExposure(b, pricing.Vega, 1)
	require.NoError(t, err)

	var want float64
	for _, c := range b.Chains() {
		v, err := ChainExposure(c, pricing.Vega, 1)
		require.NoError(t, err)
		want += v
	}
	assert.InDelta(t, want, total, 1e-9)
	assert.Greater(t, total, 0.0)
}
