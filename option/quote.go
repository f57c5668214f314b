package option

import (
	"math"
	"time"

	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

// secondsPerYear 剩余期限按 365 天折算为年。
const secondsPerYear = 365 * 24 * 60 * 60

// QuoteConfig 构造报价所需的字段。可选字段的零值即默认值：
// 利率与股息率为 0，方向为 SideNone，AsOf 为构造时刻，Solver 为默认求解器。
type QuoteConfig struct {
	Strike        float64
	Maturity      time.Time
	AssetPrice    float64
	RiskFreeRate  float64
	DividendYield float64
	OptionType    OptionType
	Value         Value
	Side          Side
	Additional    *AdditionalData
	AsOf          time.Time
	Solver        *pricing.Solver
}

// Quote 单条期权报价，不可变。所有 "修改" 操作都返回新值。
type Quote struct {
	strike     float64
	maturity   time.Time
	assetPrice float64
	rate       float64
	dividend   float64
	optionType OptionType
	value      Value
	side       Side
	additional *AdditionalData
	asOf       time.Time
	solver     pricing.Solver
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v *float64) bool {
	return v == nil || (*v >= 0 && !math.IsInf(*v, 0))
}

// NewQuote 校验配置并创建报价。剩余期限非正的报价可以创建，但定价与希腊字母计算会失败。
func NewQuote(cfg QuoteConfig) (Quote, error) {
	switch {
	case !positive(cfg.Strike):
		return Quote{}, xerrors.ErrInvalidInput.Derive("strike must be positive, got %v", cfg.Strike)
	case !positive(cfg.AssetPrice):
		return Quote{}, xerrors.ErrInvalidInput.Derive("asset price must be positive, got %v", cfg.AssetPrice)
	case !cfg.OptionType.Valid():
		return Quote{}, xerrors.ErrInvalidOptionType.Derive("got %q", cfg.OptionType)
	case !cfg.Value.IsSet():
		return Quote{}, xerrors.ErrInvalidInput.Derive("option value is required")
	case !(cfg.Value.Amount() >= 0) || math.IsInf(cfg.Value.Amount(), 0):
		return Quote{}, xerrors.ErrInvalidInput.Derive("%s must be non-negative, got %v", cfg.Value.Kind(), cfg.Value.Amount())
	case cfg.Side < SideNone || cfg.Side > Ask:
		return Quote{}, xerrors.ErrInvalidInput.Derive("unknown side %d", int(cfg.Side))
	case math.IsNaN(cfg.RiskFreeRate) || math.IsNaN(cfg.DividendYield):
		return Quote{}, xerrors.ErrInvalidInput.Derive("rate and dividend yield must be numbers")
	case cfg.Maturity.IsZero():
		return Quote{}, xerrors.ErrInvalidInput.Derive("maturity is required")
	}
	if cfg.Additional != nil && !(nonNegative(cfg.Additional.OpenInterest) && nonNegative(cfg.Additional.Volume)) {
		return Quote{}, xerrors.ErrInvalidInput.Derive("open interest and volume must be non-negative")
	}

	asOf := cfg.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	solver := pricing.DefaultSolver()
	if cfg.Solver != nil {
		solver = *cfg.Solver
	}
	return Quote{
		strike:     cfg.Strike,
		maturity:   cfg.Maturity,
		assetPrice: cfg.AssetPrice,
		rate:       cfg.RiskFreeRate,
		dividend:   cfg.DividendYield,
		optionType: cfg.OptionType,
		value:      cfg.Value,
		side:       cfg.Side,
		additional: cfg.Additional.clone(),
		asOf:       asOf,
		solver:     solver,
	}, nil
}

// MustQuote 与 NewQuote 相同，出错时 panic。仅用于测试与示例。
func MustQuote(cfg QuoteConfig) Quote {
	q, err := NewQuote(cfg)
	if err != nil {
		panic(err)
	}
	return q
}

// Config 返回可用于重建该报价的配置。
func (q Quote) Config() QuoteConfig {
	solver := q.solver
	return QuoteConfig{
		Strike:        q.strike,
		Maturity:      q.maturity,
		AssetPrice:    q.assetPrice,
		RiskFreeRate:  q.rate,
		DividendYield: q.dividend,
		OptionType:    q.optionType,
		Value:         q.value,
		Side:          q.side,
		Additional:    q.additional.clone(),
		AsOf:          q.asOf,
		Solver:        &solver,
	}
}

func (q Quote) Strike() float64 { return q.strike }
func (q Quote) Maturity() time.Time { return q.maturity }
func (q Quote) AssetPrice() float64 { return q.assetPrice }
func (q Quote) RiskFreeRate() float64 { return q.rate }
func (q Quote) DividendYield() float64 { return q.dividend }
func (q Quote) OptionType() OptionType { return q.optionType }
func (q Quote) Value() Value { return q.value }
func (q Quote) Side() Side { return q.side }
func (q Quote) AsOf() time.Time { return q.asOf }

// Additional 返回附加数据的副本，可能为 nil。
func (q Quote) Additional() *AdditionalData { return q.additional.clone() }

// OpenInterest 持仓量，缺失时为 nil。
func (q Quote) OpenInterest() *float64 {
	if q.additional == nil || q.additional.OpenInterest == nil {
		return nil
	}
	return Float(*q.additional.OpenInterest)
}

// Volume 成交量，缺失时为 nil。
func (q Quote) Volume() *float64 {
	if q.additional == nil || q.additional.Volume == nil {
		return nil
	}
	return Float(*q.additional.Volume)
}

// TimeToExpiry 以年为单位的剩余期限，可能为非正数。
func (q Quote) TimeToExpiry() float64 {
	return q.maturity.Sub(q.asOf).Seconds() / secondsPerYear
}

// WithAsOf 返回以 t 为估值时刻的副本。
func (q Quote) WithAsOf(t time.Time) Quote {
	q.asOf = t
	return q
}

// WithValue 返回替换价值后的副本。
func (q Quote) WithValue(v Value) Quote {
	q.value = v
	return q
}

// WithSide 返回替换方向后的副本。
func (q Quote) WithSide(s Side) Quote {
	q.side = s
	return q
}

func (q Quote) marketParams() pricing.Params {
	return pricing.Params{
		Spot:     q.assetPrice,
		Strike:   q.strike,
		Expiry:   q.TimeToExpiry(),
		Rate:     q.rate,
		Dividend: q.dividend,
		Type:     q.optionType,
	}
}

// IV 返回隐含波动率；报价持有权利金时即时反解。
func (q Quote) IV() (float64, error) {
	if q.value.Kind() == KindVolatility {
		return q.value.Amount(), nil
	}
	return q.solver.ImpliedVolatility(q.marketParams(), q.value.Amount())
}

// Premium 返回权利金；报价持有波动率时按模型定价。
func (q Quote) Premium() (float64, error) {
	if q.value.Kind() == KindPrice {
		return q.value.Amount(), nil
	}
	return pricing.Price(q.marketParams().WithSigma(q.value.Amount()))
}

// SolveIV 返回以隐含波动率表示价值的新报价，原报价不变。
func (q Quote) SolveIV() (Quote, error) {
	sigma, err := q.IV()
	if err != nil {
		return Quote{}, err
	}
	return q.WithValue(VolatilityValue(sigma)), nil
}

// Theoretical 返回以模型权利金表示价值的新报价。
func (q Quote) Theoretical() (Quote, error) {
	premium, err := q.Premium()
	if err != nil {
		return Quote{}, err
	}
	return q.WithValue(PriceValue(premium)), nil
}

// Params 返回已解析波动率的定价参数。
func (q Quote) Params() (pricing.Params, error) {
	sigma, err := q.IV()
	if err != nil {
		return pricing.Params{}, err
	}
	return q.marketParams().WithSigma(sigma), nil
}
