package option

import (
	"github.com/sourcegraph/conc/iter"

	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

// ChainExposure 链上的聚合敞口: Σ sign × OI × greek × spot × multiplier，看跌期权 sign 为 -1。
// 各元素的希腊字母并行计算，任一元素失败则返回该错误。
func ChainExposure[T Element](c *Chain[T], kind pricing.GreekKind, multiplier float64) (float64, error) {
	if c.Len() == 0 {
		return 0, xerrors.ErrEmptyChain.Derive("exposure on empty chain").WithContext("maturity", c.maturity)
	}
	contributions, err := iter.MapErr(c.elements, func(e *T) (float64, error) {
		return elementExposure(*e, kind, multiplier)
	})
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, v := range contributions {
		total += v
	}
	return total, nil
}

func elementExposure[T Element](e T, kind pricing.GreekKind, multiplier float64) (float64, error) {
	oi := e.OpenInterest()
	if oi == nil {
		return 0, xerrors.ErrMissingOpenInterest.Derive("strike %v has no open interest", e.Strike())
	}
	g, err := e.Greek(kind)
	if err != nil {
		return 0, err
	}
	v, err := pricing.Exposure(pricing.ExposureOf(kind), g, oi, multiplier)
	if err != nil {
		return 0, err
	}
	if e.OptionType() == Put {
		v = -v
	}
	return v * e.AssetPrice(), nil
}

// BoardExposure 面板上全部链的敞口之和。
func BoardExposure[T BoardElement](b *Board[T], kind pricing.GreekKind, multiplier float64) (float64, error) {
	total := 0.0
	for _, c := range b.chains {
		v, err := ChainExposure(c, kind, multiplier)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
