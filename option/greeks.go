package option

import "github.com/wyfcoding/optionboard/pricing"

// Greek 按报价自身字段计算希腊字母，报价持有权利金时先反解波动率。
func (q Quote) Greek(kind pricing.GreekKind) (float64, error) {
	p, err := q.Params()
	if err != nil {
		return 0, err
	}
	return pricing.Greek(kind, p)
}

// Exposure 计算希腊字母敞口: greek × 持仓量 × 合约乘数。
func (q Quote) Exposure(kind pricing.ExposureKind, multiplier float64) (float64, error) {
	oi := q.OpenInterest()
	if oi == nil {
		return pricing.Exposure(kind, 0, nil, multiplier)
	}
	g, err := q.Greek(kind.Greek())
	if err != nil {
		return 0, err
	}
	return pricing.Exposure(kind, g, oi, multiplier)
}

func (q Quote) Delta() (float64, error) { return q.Greek(pricing.Delta) }
func (q Quote) DualDelta() (float64, error) { return q.Greek(pricing.DualDelta) }
func (q Quote) Vega() (float64, error) { return q.Greek(pricing.Vega) }
func (q Quote) Theta() (float64, error) { return q.Greek(pricing.Theta) }
func (q Quote) Rho() (float64, error) { return q.Greek(pricing.Rho) }
func (q Quote) Epsilon() (float64, error) { return q.Greek(pricing.Epsilon) }
func (q Quote) Gamma() (float64, error) { return q.Greek(pricing.Gamma) }
func (q Quote) DualGamma() (float64, error) { return q.Greek(pricing.DualGamma) }
func (q Quote) Vanna() (float64, error) { return q.Greek(pricing.Vanna) }
func (q Quote) Charm() (float64, error) { return q.Greek(pricing.Charm) }
func (q Quote) Vomma() (float64, error) { return q.Greek(pricing.Vomma) }
func (q Quote) Veta() (float64, error) { return q.Greek(pricing.Veta) }
func (q Quote) Speed() (float64, error) { return q.Greek(pricing.Speed) }
func (q Quote) Zomma() (float64, error) { return q.Greek(pricing.Zomma) }
func (q Quote) Color() (float64, error) { return q.Greek(pricing.Color) }
func (q Quote) Ultima() (float64, error) { return q.Greek(pricing.Ultima) }

func (q Quote) DeltaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Delta), multiplier)
}

func (q Quote) DualDeltaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.DualDelta), multiplier)
}

func (q Quote) VegaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Vega), multiplier)
}

func (q Quote) ThetaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Theta), multiplier)
}

func (q Quote) RhoExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Rho), multiplier)
}

func (q Quote) EpsilonExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Epsilon), multiplier)
}

func (q Quote) GammaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Gamma), multiplier)
}

func (q Quote) DualGammaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.DualGamma), multiplier)
}

func (q Quote) VannaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Vanna), multiplier)
}

func (q Quote) CharmExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Charm), multiplier)
}

func (q Quote) VommaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Vomma), multiplier)
}

func (q Quote) VetaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Veta), multiplier)
}

func (q Quote) SpeedExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Speed), multiplier)
}

func (q Quote) ZommaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Zomma), multiplier)
}

func (q Quote) ColorExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Color), multiplier)
}

func (q Quote) UltimaExposure(multiplier float64) (float64, error) {
	return q.Exposure(pricing.ExposureOf(pricing.Ultima), multiplier)
}
