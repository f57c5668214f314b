package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/optionboard/xerrors"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCalculatorPrice(t *testing.T) {
	c := NewCalculator(DefaultSolver())

	price, err := c.Price(Call, d(100), d(100), d(1), d(0.05), d(0.2), decimal.Zero)
	require.NoError(t, err)
	assert.InDelta(t, 10.450583572185565, price.InexactFloat64(), 1e-9)

	_, err = c.Price(Call, decimal.Zero, d(100), d(1), d(0.05), d(0.2), decimal.Zero)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCalculatorCalculate(t *testing.T) {
	c := NewCalculator(DefaultSolver())
	res, err := c.Calculate(Put, d(100), d(100), d(1), d(0.05), d(0.2), decimal.Zero)
	require.NoError(t, err)

	assert.InDelta(t, 5.573526022256971, res.Price.InexactFloat64(), 1e-9)
	assert.Len(t, res.Greeks, len(AllGreeks))

	theta := mustGreek(t, Theta, atm(Put))
	assert.InDelta(t, theta, res.Greek(Theta).InexactFloat64(), 1e-9)
	assert.InDelta(t, theta/365, res.ThetaPerDay().InexactFloat64(), 1e-9)
	assert.InDelta(t, mustGreek(t, Vega, atm(Put))/100, res.VegaPerPoint().InexactFloat64(), 1e-9)
	assert.InDelta(t, mustGreek(t, Rho, atm(Put))/100, res.RhoPerPoint().InexactFloat64(), 1e-9)
}

func TestCalculatorImpliedVolatility(t *testing.T) {
	c := NewCalculator(DefaultSolver())
	iv, err := c.ImpliedVolatility(Call, d(100), d(100), d(1), d(0.05), decimal.Zero, d(10.450583572185565))
	require.NoError(t, err)
	assert.InDelta(t, 0.2, iv.InexactFloat64(), 1e-6)
}

func TestExposure(t *testing.T) {
	oi := 1500.0
	got, err := Exposure(ExposureOf(Gamma), 0.02, &oi, 100)
	require.NoError(t, err)
	assert.InDelta(t, 3000.0, got, 1e-9)

	_, err = Exposure(ExposureOf(Delta), 0.5, nil, 100)
	assert.ErrorIs(t, err, xerrors.ErrMissingOpenInterest)

	neg := -1.0
	_, err = Exposure(ExposureOf(Delta), 0.5, &neg, 100)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	assert.Equal(t, "gamma_exposure", ExposureOf(Gamma).String())
	assert.Equal(t, Vanna, ExposureOf(Vanna).Greek())
}
