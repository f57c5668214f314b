package option

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/optionboard/xerrors"
)

type countingObserver map[UpsertResult]int

func (c countingObserver) ObserveUpsert(r UpsertResult) { c[r]++ }

func quoteAt(maturity time.Time, strike float64, side Side, premium float64) Quote {
	cfg := quote(strike, Call, side, PriceValue(premium)).Config()
	cfg.Maturity = maturity
	return MustQuote(cfg)
}

func scenarioQuotes() []Quote {
	return []Quote{
		quoteAt(oneYear, 100, Bid, 10),
		quoteAt(oneYear, 200, Bid, 1),
		quoteAt(oneYear, 200, Ask, 2),
		quoteAt(twoYears, 200, Ask, 3),
	}
}

func TestQuoteBoardScenario(t *testing.T) {
	b := NewQuoteBoard()
	for _, q := range scenarioQuotes() {
		b.Upsert(q)
	}

	require.Equal(t, 2, b.Len())
	chains := b.Chains()
	assert.Equal(t, oneYear, chains[0].Maturity())
	assert.Equal(t, []float64{100, 200}, Strikes(chains[0]))
	assert.Equal(t, []float64{200}, Strikes(chains[1]))
}

func TestStrikeBoardBoardScenario(t *testing.T) {
	b := NewStrikeBoardBoard()
	for _, q := range scenarioQuotes() {
		b.Upsert(q)
	}

	require.Equal(t, 2, b.Len())
	front, err := b.Front()
	require.NoError(t, err)
	require.Equal(t, 2, front.Len())
	assert.Equal(t, []float64{100, 200}, Strikes(front))

	// 行权价 200 的簿同时持有买卖两侧
	book := SortedByStrike(front).At(1)
	mid, err := book.Mid()
	require.NoError(t, err)
	assert.Equal(t, 1.5, premiumOf(t, mid))

	back, ok := b.Chain(twoYears)
	require.True(t, ok)
	assert.Equal(t, 1, back.Len())
}

func TestUpsertIsIdempotent(t *testing.T) {
	obs := countingObserver{}
	b := NewQuoteBoard(WithObserver(obs))

	assert.Equal(t, Inserted, b.Upsert(quoteAt(oneYear, 100, Bid, 10)))
	assert.Equal(t, Replaced, b.Upsert(quoteAt(oneYear, 100, Bid, 11)))
	assert.Equal(t, Replaced, b.Upsert(quoteAt(oneYear, 100, Bid, 11)))

	c, ok := b.Chain(oneYear)
	require.True(t, ok)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 11.0, premiumOf(t, c.At(0)))
	assert.Equal(t, 1, obs[Inserted])
	assert.Equal(t, 2, obs[Replaced])

	// 不同类型是不同的键
	put := quote(100, Put, Bid, PriceValue(4))
	assert.Equal(t, Inserted, b.Upsert(put))
	assert.Equal(t, 2, b.Size())
}

func TestBoardDelete(t *testing.T) {
	b := NewStrikeBoardBoard()
	for _, q := range scenarioQuotes() {
		b.Upsert(q)
	}

	assert.True(t, b.Delete(quoteAt(twoYears, 200, Ask, 0)))
	assert.Equal(t, 1, b.Len(), "emptied chain is removed")
	assert.False(t, b.Delete(quoteAt(twoYears, 200, Ask, 0)))

	// 零价值的写入等价于删除
	assert.Equal(t, Deleted, b.Upsert(quoteAt(oneYear, 100, Bid, 0)))
	front, err := b.Front()
	require.NoError(t, err)
	assert.Equal(t, []float64{200}, Strikes(front))
	assert.Equal(t, Ignored, b.Upsert(quoteAt(oneYear, 150, Bid, 0)))

	b.Delete(quoteAt(oneYear, 200, Bid, 0))
	b.Delete(quoteAt(oneYear, 200, Ask, 0))
	assert.Equal(t, 0, b.Len())
	_, err = b.Front()
	assert.ErrorIs(t, err, xerrors.ErrEmptyChain)
}

func TestMaturityMatching(t *testing.T) {
	jitter := oneYear.Add(3 * time.Microsecond)

	exact := NewQuoteBoard()
	exact.Upsert(quoteAt(oneYear, 100, Bid, 10))
	exact.Upsert(quoteAt(jitter, 100, Bid, 10))
	assert.Equal(t, 2, exact.Len(), "exact matching splits chains")

	tolerant := NewQuoteBoard(WithMaturityTolerance(time.Millisecond))
	tolerant.Upsert(quoteAt(oneYear, 100, Bid, 10))
	assert.Equal(t, Replaced, tolerant.Upsert(quoteAt(jitter, 100, Bid, 12)))
	assert.Equal(t, 1, tolerant.Len())

	_, ok := tolerant.Chain(oneYear.Add(-500 * time.Microsecond))
	assert.True(t, ok)
	_, ok = tolerant.Chain(oneYear.Add(time.Second))
	assert.False(t, ok)
}

func TestBoardKeepsMaturityOrder(t *testing.T) {
	b := NewQuoteBoard()
	for _, days := range []int{90, 30, 180, 60} {
		b.Upsert(quoteAt(asOf.AddDate(0, 0, days), 100, Bid, 5))
	}
	chains := b.Chains()
	require.Len(t, chains, 4)
	for i := 1; i < len(chains); i++ {
		assert.True(t, chains[i-1].Maturity().Before(chains[i].Maturity()))
	}
}

func TestBoardManyStrikes(t *testing.T) {
	b := NewQuoteBoard()
	for round := 0; round < 2; round++ {
		for k := 1; k <= 500; k++ {
			b.Upsert(quoteAt(oneYear, float64(k), Bid, float64(round+1)))
		}
	}
	front, err := b.Front()
	require.NoError(t, err)
	require.Equal(t, 500, front.Len())
	for _, k := range []int{1, 250, 500} {
		i := k - 1
		assert.Equal(t, float64(k), front.At(i).Strike(), fmt.Sprint(k))
		assert.Equal(t, 2.0, premiumOf(t, front.At(i)))
	}
}

func upsertAll[T BoardElement](b *Board[T], quotes []Quote) *Board[T] {
	for _, q := range quotes {
		b.Upsert(q)
	}
	return b
}

func TestNewBoardElementKinds(t *testing.T) {
	quotes := upsertAll(NewBoard[Quote](), scenarioQuotes())
	books := upsertAll(NewBoard[*StrikeBoard](), scenarioQuotes())

	assert.Equal(t, 2, quotes.Len())
	assert.Equal(t, 2, books.Len())
	assert.Equal(t, 4, quotes.Size())
	assert.Equal(t, 3, books.Size())
}
