package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/optionboard/xerrors"
)

func withVolume(q Quote, oi, vol *float64) Quote {
	cfg := q.Config()
	cfg.Additional = &AdditionalData{OpenInterest: oi, Volume: vol}
	return MustQuote(cfg)
}

func premiumOf(t *testing.T, q Quote) float64 {
	t.Helper()
	p, err := q.Premium()
	require.NoError(t, err)
	return p
}

// 买价 200/230，卖价 250/270。
func TestStrikeBoardBestAndMid(t *testing.T) {
	b := NewStrikeBoard(100, oneYear)
	b.Push(quote(100, Call, Bid, PriceValue(200)))
	b.Push(quote(100, Call, Ask, PriceValue(270)))
	b.Push(quote(100, Call, Bid, PriceValue(230)))
	b.Push(quote(100, Call, Ask, PriceValue(250)))

	bid, err := b.BestBid()
	require.NoError(t, err)
	assert.Equal(t, 230.0, premiumOf(t, bid))
	assert.Equal(t, Bid, bid.Side())

	ask, err := b.BestAsk()
	require.NoError(t, err)
	assert.Equal(t, 250.0, premiumOf(t, ask))

	mid, err := b.Mid()
	require.NoError(t, err)
	assert.Equal(t, 240.0, premiumOf(t, mid))
	assert.Equal(t, SideNone, mid.Side())
	assert.Equal(t, 100.0, mid.Strike())
	assert.Equal(t, 4, b.Len())
}

func TestStrikeBoardEmptySide(t *testing.T) {
	b := NewStrikeBoard(100, oneYear)
	_, err := b.BestBid()
	assert.ErrorIs(t, err, xerrors.ErrEmptySide)

	b.Push(quote(100, Call, Bid, PriceValue(5)))
	_, err = b.BestAsk()
	assert.ErrorIs(t, err, xerrors.ErrEmptySide)
	_, err = b.Mid()
	assert.ErrorIs(t, err, xerrors.ErrEmptySide)
}

func TestStrikeBoardMidWeighted(t *testing.T) {
	b := NewStrikeBoard(100, oneYear)
	b.Push(withVolume(quote(100, Call, Bid, PriceValue(10)), Float(500), Float(30)))
	b.Push(withVolume(quote(100, Call, Ask, PriceValue(12)), nil, Float(10)))

	mid, err := b.MidWeighted()
	require.NoError(t, err)
	assert.InDelta(t, (10*30+12*10)/40.0, premiumOf(t, mid), 1e-12)
	require.NotNil(t, mid.Volume())
	assert.Equal(t, 40.0, *mid.Volume())
	require.NotNil(t, mid.OpenInterest())
	assert.Equal(t, 500.0, *mid.OpenInterest())

	plain := NewStrikeBoard(100, oneYear)
	plain.Push(withVolume(quote(100, Call, Bid, PriceValue(10)), nil, Float(30)))
	plain.Push(quote(100, Call, Ask, PriceValue(12)))
	_, err = plain.MidWeighted()
	assert.ErrorIs(t, err, xerrors.ErrMissingVolume)

	// 普通中间价不需要成交量
	m, err := plain.Mid()
	require.NoError(t, err)
	assert.Equal(t, 11.0, premiumOf(t, m))
}

func TestStrikeBoardUpsertAndDelete(t *testing.T) {
	b := NewStrikeBoard(100, oneYear)
	assert.False(t, b.Upsert(quote(100, Call, Bid, PriceValue(5))))
	assert.True(t, b.Upsert(quote(100, Call, Bid, PriceValue(6))))
	assert.False(t, b.Upsert(quote(100, Call, Ask, PriceValue(7))))
	require.Equal(t, 2, b.Len())

	bid, err := b.BestBid()
	require.NoError(t, err)
	assert.Equal(t, 6.0, premiumOf(t, bid))

	assert.Equal(t, 1, b.Delete(Bid, Call))
	assert.Equal(t, 0, b.Delete(Bid, Call))
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, Ask, b.Quotes()[0].Side())
}

func TestStrikeBoardDelta(t *testing.T) {
	b := NewStrikeBoard(100, oneYear)
	b.Push(quote(100, Call, Bid, VolatilityValue(0.19)))
	b.Push(quote(100, Call, Ask, VolatilityValue(0.21)))

	d, err := b.Delta()
	require.NoError(t, err)
	assert.Greater(t, d, 0.5)
	assert.Less(t, d, 0.75)
	assert.Equal(t, Call, b.OptionType())
	assert.Equal(t, 100.0, b.AssetPrice())
}
