package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/optionboard/xerrors"
)

func strikesOf[T Element](c *Chain[T]) []float64 {
	out := make([]float64, 0, c.Len())
	for _, e := range c.Elements() {
		out = append(out, e.Strike())
	}
	return out
}

func volChain(typ OptionType, strikes ...float64) *Chain[Quote] {
	qs := make([]Quote, 0, len(strikes))
	for _, k := range strikes {
		qs = append(qs, quote(k, typ, SideNone, VolatilityValue(0.2)))
	}
	return NewChain(oneYear, qs...)
}

func TestEmptyChain(t *testing.T) {
	c := NewChain[Quote](oneYear)

	_, err := ATM(c)
	assert.ErrorIs(t, err, xerrors.ErrEmptyChain)

	otm := OTM(c)
	require.NotNil(t, otm)
	assert.Equal(t, 0, otm.Len())

	_, err = Call25Delta(c)
	assert.ErrorIs(t, err, xerrors.ErrEmptyChain)

	_, err = MapChain(c, func(q Quote) Quote { return q })
	assert.ErrorIs(t, err, xerrors.ErrEmptyChain)
}

func TestOTM(t *testing.T) {
	calls := volChain(Call, 120, 80, 100, 110)
	assert.Equal(t, []float64{120, 110}, strikesOf(OTM(calls)))

	puts := volChain(Put, 120, 80, 100, 90)
	assert.Equal(t, []float64{80, 90}, strikesOf(OTM(puts)))

	// 只有实值元素时返回空链
	assert.Equal(t, 0, OTM(volChain(Call, 50, 60)).Len())
}

func TestATM(t *testing.T) {
	c := volChain(Call, 120, 95, 105, 100.5)
	got, err := ATM(c)
	require.NoError(t, err)
	assert.Equal(t, 100.5, got.Strike())

	// 距离相同取先插入的元素
	tie := volChain(Call, 110, 95, 105)
	got, err = ATM(tie)
	require.NoError(t, err)
	assert.Equal(t, 95.0, got.Strike())
}

func TestNearestDelta(t *testing.T) {
	strikes := []float64{130, 80, 120, 100, 90, 110}
	calls := volChain(Call, strikes...)
	puts := volChain(Put, strikes...)
	mixed := NewChain(oneYear, append(calls.Elements(), puts.Elements()...)...)

	tests := []struct {
		name string
		pick func(*Chain[Quote]) (Quote, error)
		want float64
		typ  OptionType
	}{
		{"call 25", Call25Delta[Quote], 120, Call},
		{"call 50", Call50Delta[Quote], 110, Call},
		{"put 25", Put25Delta[Quote], 90, Put},
		{"put 50", Put50Delta[Quote], 110, Put},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.pick(mixed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Strike())
			assert.Equal(t, tt.typ, got.OptionType())
		})
	}

	_, err := Put25Delta(calls)
	assert.ErrorIs(t, err, xerrors.ErrEmptyChain)
}

func TestNearestDeltaSkipsFailures(t *testing.T) {
	expired := quote(110, Call, SideNone, VolatilityValue(0.2)).WithAsOf(twoYears)
	c := NewChain(oneYear, expired, quote(130, Call, SideNone, VolatilityValue(0.2)))

	got, err := Call50Delta(c)
	require.NoError(t, err)
	assert.Equal(t, 130.0, got.Strike())

	_, err = Call50Delta(NewChain(oneYear, expired))
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestMapChainLaws(t *testing.T) {
	c := volChain(Call, 90, 100, 110)
	same := func(a, b Quote) bool { return a == b }

	id, err := MapChain(c, func(q Quote) Quote { return q })
	require.NoError(t, err)
	assert.True(t, id.Equal(c, same))

	f := func(q Quote) Quote { return q.WithSide(Bid) }
	g := func(q Quote) Quote { return q.WithValue(VolatilityValue(q.Value().Amount() * 2)) }

	fc, err := MapChain(c, f)
	require.NoError(t, err)
	fg, err := MapChain(fc, g)
	require.NoError(t, err)
	composed, err := MapChain(c, func(q Quote) Quote { return g(f(q)) })
	require.NoError(t, err)
	assert.True(t, fg.Equal(composed, same))
	assert.Equal(t, c.Maturity(), composed.Maturity())
}

func TestMapChainChangesKind(t *testing.T) {
	book := NewStrikeBoard(100, oneYear)
	book.Push(quote(100, Call, Bid, PriceValue(10)))
	book.Push(quote(100, Call, Ask, PriceValue(11)))
	c := NewChain(oneYear, book)

	mids, err := MapChainErr(c, (*StrikeBoard).Mid)
	require.NoError(t, err)
	solved, err := MapChainErr(mids, Quote.SolveIV)
	require.NoError(t, err)
	vegas, err := MapChainErr(solved, Quote.Vega)
	require.NoError(t, err)

	require.Equal(t, 1, vegas.Len())
	assert.Greater(t, vegas.At(0), 0.0)

	_, err = MapChainErr(NewChain(oneYear, NewStrikeBoard(100, oneYear)), (*StrikeBoard).Mid)
	assert.ErrorIs(t, err, xerrors.ErrEmptySide)
}

func TestSortedByStrikeAndStrikes(t *testing.T) {
	c := NewChain(oneYear,
		quote(110, Call, Bid, PriceValue(1)),
		quote(90, Call, Bid, PriceValue(12)),
		quote(110, Call, Ask, PriceValue(1.2)),
		quote(100, Call, Bid, PriceValue(5)),
	)
	sorted := SortedByStrike(c)
	assert.Equal(t, []float64{90, 100, 110, 110}, strikesOf(sorted))
	assert.Equal(t, Bid, sorted.At(2).Side(), "stable within a strike")
	assert.Equal(t, []float64{90, 100, 110}, Strikes(c))
	assert.Equal(t, []float64{110, 90, 110, 100}, strikesOf(c), "source chain untouched")

	assert.Equal(t, 4, Calls(c).Len())
	assert.Equal(t, 0, Puts(c).Len())
}
