// Package pricing 实现带连续股息率的 Black-Scholes 定价、隐含波动率反解、
// 16 个解析希腊字母以及持仓敞口计算。包内函数均为纯函数，可以被调用方自由并行。
package pricing

import (
	"math"
	"strings"

	"github.com/wyfcoding/optionboard/xerrors"
)

// OptionType 定义期权类型。
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// ParseOptionType 解析 "call"/"c"/"put"/"p"（不区分大小写）。
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CALL", "C":
		return Call, nil
	case "PUT", "P":
		return Put, nil
	default:
		return "", xerrors.ErrInvalidOptionType.Derive("got %q", s)
	}
}

// Valid 报告类型是否为 Call 或 Put。
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// Params Black-Scholes 模型输入。
type Params struct {
	Spot     float64 // 标的资产价格 S
	Strike   float64 // 行权价 K
	Expiry   float64 // 剩余期限 T (年)
	Rate     float64 // 无风险利率 r
	Dividend float64 // 连续股息率 q
	Sigma    float64 // 波动率 σ
	Type     OptionType
}

// WithSigma 返回替换了波动率的参数副本。
func (p Params) WithSigma(sigma float64) Params {
	p.Sigma = sigma
	return p
}

// validateMarket 校验与波动率无关的输入。
func (p Params) validateMarket() error {
	switch {
	case !p.Type.Valid():
		return xerrors.ErrInvalidOptionType.Derive("got %q", p.Type)
	case !(p.Spot > 0) || math.IsInf(p.Spot, 0):
		return xerrors.ErrInvalidInput.Derive("spot must be positive, got %v", p.Spot)
	case !(p.Strike > 0) || math.IsInf(p.Strike, 0):
		return xerrors.ErrInvalidInput.Derive("strike must be positive, got %v", p.Strike)
	case !(p.Expiry > 0) || math.IsInf(p.Expiry, 0):
		return xerrors.ErrInvalidInput.Derive("time to expiry must be positive, got %v", p.Expiry)
	case math.IsNaN(p.Rate) || math.IsNaN(p.Dividend):
		return xerrors.ErrInvalidInput.Derive("rate and dividend yield must be numbers")
	}
	return nil
}

// Validate 校验全部输入，波动率须落在 (0, DefaultSigmaMax]。
func (p Params) Validate() error {
	if err := p.validateMarket(); err != nil {
		return err
	}
	if !(p.Sigma > 0) || !(p.Sigma <= DefaultSigmaMax) {
		return xerrors.ErrInvalidInput.Derive("sigma must be in (0, %v], got %v", DefaultSigmaMax, p.Sigma)
	}
	return nil
}

// terms 缓存一次定价中反复使用的中间量。
type terms struct {
	p     Params
	sqrtT float64
	d1    float64
	d2    float64
	eq    float64 // e^{-qT}
	er    float64 // e^{-rT}
	pdf1  float64 // φ(d1)
}

func newTerms(p Params) terms {
	sqrtT := math.Sqrt(p.Expiry)
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate-p.Dividend+0.5*p.Sigma*p.Sigma)*p.Expiry) / (p.Sigma * sqrtT)
	d2 := d1 - p.Sigma*sqrtT
	return terms{
		p:     p,
		sqrtT: sqrtT,
		d1:    d1,
		d2:    d2,
		eq:    math.Exp(-p.Dividend * p.Expiry),
		er:    math.Exp(-p.Rate * p.Expiry),
		pdf1:  normPDF(d1),
	}
}

func (t terms) price() float64 {
	var v float64
	if t.p.Type == Call {
		v = t.p.Spot*t.eq*normCDF(t.d1) - t.p.Strike*t.er*normCDF(t.d2)
	} else {
		v = t.p.Strike*t.er*normCDF(-t.d2) - t.p.Spot*t.eq*normCDF(-t.d1)
	}
	return math.Max(v, 0)
}

func (t terms) vega() float64 {
	return t.p.Spot * t.eq * t.pdf1 * t.sqrtT
}

// Price 计算期权理论价格。
//
//	C = S e^{-qT} N(d1) - K e^{-rT} N(d2)
//	P = K e^{-rT} N(-d2) - S e^{-qT} N(-d1)
func Price(p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return newTerms(p).price(), nil
}

// Bounds 返回无套利价格区间 [lower, upper]。
// 看涨: max(Se^{-qT}-Ke^{-rT}, 0) ≤ C ≤ Se^{-qT}；看跌: max(Ke^{-rT}-Se^{-qT}, 0) ≤ P ≤ Ke^{-rT}。
func Bounds(p Params) (lower, upper float64, err error) {
	if err := p.validateMarket(); err != nil {
		return 0, 0, err
	}
	fwdSpot := p.Spot * math.Exp(-p.Dividend*p.Expiry)
	pvStrike := p.Strike * math.Exp(-p.Rate*p.Expiry)
	if p.Type == Call {
		return math.Max(fwdSpot-pvStrike, 0), fwdSpot, nil
	}
	return math.Max(pvStrike-fwdSpot, 0), pvStrike, nil
}
