package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	daysPerYear = decimal.NewFromInt(365)
	hundred     = decimal.NewFromInt(100)
)

// Calculator 面向 decimal 的 Black-Scholes 计算器。
// 输入输出均为 decimal，内部以 float64 计算。
type Calculator struct {
	solver Solver
}

// NewCalculator 创建计算器，solver 用于隐含波动率反解。
func NewCalculator(solver Solver) *Calculator {
	return &Calculator{solver: solver}
}

// Result 期权价格及全部希腊字母。
type Result struct {
	Price  decimal.Decimal
	Greeks map[GreekKind]decimal.Decimal
}

// Greek 返回指定希腊字母，未计算时返回零。
func (r *Result) Greek(k GreekKind) decimal.Decimal {
	return r.Greeks[k]
}

// ThetaPerDay 每日 theta。
func (r *Result) ThetaPerDay() decimal.Decimal {
	return r.Greeks[Theta].Div(daysPerYear)
}

// VegaPerPoint 波动率变动 1% 对应的价格变化。
func (r *Result) VegaPerPoint() decimal.Decimal {
	return r.Greeks[Vega].Div(hundred)
}

// RhoPerPoint 利率变动 1% 对应的价格变化。
func (r *Result) RhoPerPoint() decimal.Decimal {
	return r.Greeks[Rho].Div(hundred)
}

func toParams(optionType OptionType, spot, strike, expiry, rate, vol, div decimal.Decimal) Params {
	return Params{
		Spot:     spot.InexactFloat64(),
		Strike:   strike.InexactFloat64(),
		Expiry:   expiry.InexactFloat64(),
		Rate:     rate.InexactFloat64(),
		Dividend: div.InexactFloat64(),
		Sigma:    vol.InexactFloat64(),
		Type:     optionType,
	}
}

// Price 计算期权价格。
func (c *Calculator) Price(optionType OptionType, spot, strike, expiry, rate, vol, div decimal.Decimal) (decimal.Decimal, error) {
	v, err := Price(toParams(optionType, spot, strike, expiry, rate, vol, div))
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(v), nil
}

// ImpliedVolatility 由市场价格反解隐含波动率。
func (c *Calculator) ImpliedVolatility(optionType OptionType, spot, strike, expiry, rate, div, marketPrice decimal.Decimal) (decimal.Decimal, error) {
	p := toParams(optionType, spot, strike, expiry, rate, decimal.Zero, div)
	sigma, err := c.solver.ImpliedVolatility(p, marketPrice.InexactFloat64())
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(sigma), nil
}

// Calculate 一次性计算期权价格及所有希腊字母。
func (c *Calculator) Calculate(optionType OptionType, spot, strike, expiry, rate, vol, div decimal.Decimal) (*Result, error) {
	p := toParams(optionType, spot, strike, expiry, rate, vol, div)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	t := newTerms(p)
	greeks, err := Greeks(p)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Price:  decimal.NewFromFloat(t.price()),
		Greeks: make(map[GreekKind]decimal.Decimal, len(greeks)),
	}
	for k, v := range greeks {
		res.Greeks[k] = decimal.NewFromFloat(v)
	}
	return res, nil
}
