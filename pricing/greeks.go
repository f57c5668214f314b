package pricing

import (
	"strings"

	"github.com/wyfcoding/optionboard/xerrors"
)

// GreekKind 标识一个希腊字母。
type GreekKind int

const (
	// 一阶
	Delta GreekKind = iota
	DualDelta
	Vega
	Theta
	Rho
	Epsilon
	// 二阶
	Gamma
	DualGamma
	Vanna
	Charm
	Vomma
	Veta
	// 三阶
	Speed
	Zomma
	Color
	Ultima
)

var greekNames = [...]string{
	"delta", "dual_delta", "vega", "theta", "rho", "epsilon",
	"gamma", "dual_gamma", "vanna", "charm", "vomma", "veta",
	"speed", "zomma", "color", "ultima",
}

// AllGreeks 按阶数排列的全部希腊字母。
var AllGreeks = []GreekKind{
	Delta, DualDelta, Vega, Theta, Rho, Epsilon,
	Gamma, DualGamma, Vanna, Charm, Vomma, Veta,
	Speed, Zomma, Color, Ultima,
}

func (k GreekKind) String() string {
	if k < 0 || int(k) >= len(greekNames) {
		return "unknown"
	}
	return greekNames[k]
}

// Order 返回希腊字母的阶数 (1-3)，未知类型返回 0。
func (k GreekKind) Order() int {
	switch {
	case k >= Delta && k <= Epsilon:
		return 1
	case k >= Gamma && k <= Veta:
		return 2
	case k >= Speed && k <= Ultima:
		return 3
	}
	return 0
}

// ParseGreek 按名称查找希腊字母，名称不区分大小写。
func ParseGreek(name string) (GreekKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, g := range greekNames {
		if g == n {
			return GreekKind(i), nil
		}
	}
	return 0, xerrors.ErrInvalidInput.Derive("unknown greek %q", name)
}

// Greek 解析计算指定的希腊字母。
// 时间类希腊字母 (theta, charm, veta, color) 表示日历时间流逝的敏感度，即 -∂/∂T，单位为每年。
func Greek(kind GreekKind, p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	t := newTerms(p)
	switch kind {
	case Delta:
		return t.delta(), nil
	case DualDelta:
		return t.dualDelta(), nil
	case Vega:
		return t.vega(), nil
	case Theta:
		return t.theta(), nil
	case Rho:
		return t.rho(), nil
	case Epsilon:
		return t.epsilon(), nil
	case Gamma:
		return t.gamma(), nil
	case DualGamma:
		return t.dualGamma(), nil
	case Vanna:
		return t.vanna(), nil
	case Charm:
		return t.charm(), nil
	case Vomma:
		return t.vomma(), nil
	case Veta:
		return t.veta(), nil
	case Speed:
		return t.speed(), nil
	case Zomma:
		return t.zomma(), nil
	case Color:
		return t.color(), nil
	case Ultima:
		return t.ultima(), nil
	}
	return 0, xerrors.ErrInvalidInput.Derive("unknown greek kind %d", int(kind))
}

// Greeks 一次性计算全部希腊字母。
func Greeks(p Params) (map[GreekKind]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make(map[GreekKind]float64, len(AllGreeks))
	for _, k := range AllGreeks {
		v, err := Greek(k, p)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (t terms) isCall() bool { return t.p.Type == Call }

func (t terms) delta() float64 {
	if t.isCall() {
		return t.eq * normCDF(t.d1)
	}
	return -t.eq * normCDF(-t.d1)
}

// dualDelta ∂V/∂K
func (t terms) dualDelta() float64 {
	if t.isCall() {
		return -t.er * normCDF(t.d2)
	}
	return t.er * normCDF(-t.d2)
}

func (t terms) theta() float64 {
	p := t.p
	decay := -t.eq * p.Spot * t.pdf1 * p.Sigma / (2 * t.sqrtT)
	if t.isCall() {
		return decay - p.Rate*p.Strike*t.er*normCDF(t.d2) + p.Dividend*p.Spot*t.eq*normCDF(t.d1)
	}
	return decay + p.Rate*p.Strike*t.er*normCDF(-t.d2) - p.Dividend*p.Spot*t.eq*normCDF(-t.d1)
}

func (t terms) rho() float64 {
	p := t.p
	if t.isCall() {
		return p.Strike * p.Expiry * t.er * normCDF(t.d2)
	}
	return -p.Strike * p.Expiry * t.er * normCDF(-t.d2)
}

// epsilon ∂V/∂q
func (t terms) epsilon() float64 {
	p := t.p
	if t.isCall() {
		return -p.Spot * p.Expiry * t.eq * normCDF(t.d1)
	}
	return p.Spot * p.Expiry * t.eq * normCDF(-t.d1)
}

func (t terms) gamma() float64 {
	return t.eq * t.pdf1 / (t.p.Spot * t.p.Sigma * t.sqrtT)
}

// dualGamma ∂²V/∂K²
func (t terms) dualGamma() float64 {
	return t.er * normPDF(t.d2) / (t.p.Strike * t.p.Sigma * t.sqrtT)
}

func (t terms) vanna() float64 {
	return -t.eq * t.pdf1 * t.d2 / t.p.Sigma
}

func (t terms) charm() float64 {
	p := t.p
	a := 2*(p.Rate-p.Dividend)*p.Expiry - t.d2*p.Sigma*t.sqrtT
	common := t.eq * t.pdf1 * a / (2 * p.Expiry * p.Sigma * t.sqrtT)
	if t.isCall() {
		return p.Dividend*t.eq*normCDF(t.d1) - common
	}
	return -p.Dividend*t.eq*normCDF(-t.d1) - common
}

func (t terms) vomma() float64 {
	return t.vega() * t.d1 * t.d2 / t.p.Sigma
}

func (t terms) veta() float64 {
	p := t.p
	inner := p.Dividend + (p.Rate-p.Dividend)*t.d1/(p.Sigma*t.sqrtT) - (1+t.d1*t.d2)/(2*p.Expiry)
	return p.Spot * t.eq * t.pdf1 * t.sqrtT * inner
}

func (t terms) speed() float64 {
	p := t.p
	return -t.gamma() / p.Spot * (t.d1/(p.Sigma*t.sqrtT) + 1)
}

func (t terms) zomma() float64 {
	return t.gamma() * (t.d1*t.d2 - 1) / t.p.Sigma
}

func (t terms) color() float64 {
	p := t.p
	a := 2*(p.Rate-p.Dividend)*p.Expiry - t.d2*p.Sigma*t.sqrtT
	inner := 2*p.Dividend*p.Expiry + 1 + t.d1*a/(p.Sigma*t.sqrtT)
	return t.eq * t.pdf1 / (2 * p.Spot * p.Expiry * p.Sigma * t.sqrtT) * inner
}

func (t terms) ultima() float64 {
	d1d2 := t.d1 * t.d2
	s2 := t.p.Sigma * t.p.Sigma
	return -t.vega() / s2 * (d1d2*(1-d1d2) + t.d1*t.d1 + t.d2*t.d2)
}
