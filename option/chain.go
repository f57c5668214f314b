package option

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

// Element 期权链元素需要具备的能力，Quote 与 *StrikeBoard 均满足。
type Element interface {
	Strike() float64
	Maturity() time.Time
	AssetPrice() float64
	OptionType() OptionType
	Greek(kind pricing.GreekKind) (float64, error)
	OpenInterest() *float64
}

var (
	_ Element = Quote{}
	_ Element = (*StrikeBoard)(nil)
)

// Chain 同一到期日的元素序列，保持插入顺序。
// T 不受约束，以便 MapChain 产出标量链；依赖行权价的操作以包级函数提供。
type Chain[T any] struct {
	maturity time.Time
	elements []T
	index    *strikeIndex // 仅由 Board 维护
}

// NewChain 以给定元素创建期权链，元素被复制。
func NewChain[T any](maturity time.Time, elems ...T) *Chain[T] {
	return &Chain[T]{maturity: maturity, elements: slices.Clone(elems)}
}

func (c *Chain[T]) Maturity() time.Time { return c.maturity }

func (c *Chain[T]) Len() int { return len(c.elements) }

// At 返回第 i 个元素。
func (c *Chain[T]) At(i int) T { return c.elements[i] }

// Elements 返回元素副本。
func (c *Chain[T]) Elements() []T { return slices.Clone(c.elements) }

// Filter 返回满足条件的元素组成的新链，保持顺序。
func (c *Chain[T]) Filter(keep func(T) bool) *Chain[T] {
	out := &Chain[T]{maturity: c.maturity}
	for _, e := range c.elements {
		if keep(e) {
			out.elements = append(out.elements, e)
		}
	}
	return out
}

// Equal 按元素逐一比较两条链。
func (c *Chain[T]) Equal(other *Chain[T], eq func(a, b T) bool) bool {
	return c.maturity.Equal(other.maturity) && slices.EqualFunc(c.elements, other.elements, eq)
}

// --- 选择 ---

// OTM 虚值元素：看涨行权价高于标的价格，看跌行权价低于标的价格。
// 每个元素以自身记录的标的价格判断，无匹配时返回空链。
func OTM[T Element](c *Chain[T]) *Chain[T] {
	return c.Filter(func(e T) bool {
		switch e.OptionType() {
		case Call:
			return e.Strike() > e.AssetPrice()
		case Put:
			return e.Strike() < e.AssetPrice()
		}
		return false
	})
}

// Calls 看涨元素。
func Calls[T Element](c *Chain[T]) *Chain[T] {
	return c.Filter(func(e T) bool { return e.OptionType() == Call })
}

// Puts 看跌元素。
func Puts[T Element](c *Chain[T]) *Chain[T] {
	return c.Filter(func(e T) bool { return e.OptionType() == Put })
}

// ATM 行权价与标的价格距离最小的元素，距离相同时取先插入者。
func ATM[T Element](c *Chain[T]) (T, error) {
	var zero T
	if len(c.elements) == 0 {
		return zero, xerrors.ErrEmptyChain.Derive("atm on empty chain").WithContext("maturity", c.maturity)
	}
	best, dist := 0, math.Inf(1)
	for i, e := range c.elements {
		if d := math.Abs(e.Strike() - e.AssetPrice()); d < dist {
			best, dist = i, d
		}
	}
	return c.elements[best], nil
}

// NearestDelta 在指定类型的元素中选取 |delta| 最接近 target 的元素 (target 取 0.25 表示 25 delta)。
// 无法计算 delta 的元素被跳过；若所有元素都失败，返回最后一个错误。
func NearestDelta[T Element](c *Chain[T], typ OptionType, target float64) (T, error) {
	var (
		zero    T
		best    = -1
		dist    = math.Inf(1)
		seen    bool
		lastErr error
	)
	for i, e := range c.elements {
		if e.OptionType() != typ {
			continue
		}
		seen = true
		delta, err := e.Greek(pricing.Delta)
		if err != nil {
			slog.Debug("skip element without delta", "strike", e.Strike(), "error", err)
			lastErr = err
			continue
		}
		if d := math.Abs(math.Abs(delta) - target); d < dist {
			best, dist = i, d
		}
	}
	switch {
	case !seen:
		return zero, xerrors.ErrEmptyChain.Derive("no %s element in chain", typ).WithContext("maturity", c.maturity)
	case best < 0:
		return zero, lastErr
	}
	return c.elements[best], nil
}

func Call25Delta[T Element](c *Chain[T]) (T, error) { return NearestDelta(c, Call, 0.25) }

func Call50Delta[T Element](c *Chain[T]) (T, error) { return NearestDelta(c, Call, 0.50) }

func Put25Delta[T Element](c *Chain[T]) (T, error) { return NearestDelta(c, Put, 0.25) }

func Put50Delta[T Element](c *Chain[T]) (T, error) { return NearestDelta(c, Put, 0.50) }

// SortedByStrike 按行权价升序排列的新链，行权价相同时保持插入顺序。
func SortedByStrike[T Element](c *Chain[T]) *Chain[T] {
	if c.index != nil {
		out := &Chain[T]{maturity: c.maturity, elements: make([]T, 0, len(c.elements))}
		for _, i := range c.index.ordered() {
			out.elements = append(out.elements, c.elements[i])
		}
		return out
	}
	out := NewChain(c.maturity, c.elements...)
	slices.SortStableFunc(out.elements, func(a, b T) int {
		switch {
		case a.Strike() < b.Strike():
			return -1
		case a.Strike() > b.Strike():
			return 1
		}
		return 0
	})
	return out
}

// Strikes 去重后的行权价，升序。
func Strikes[T Element](c *Chain[T]) []float64 {
	if c.index != nil {
		return c.index.strikes()
	}
	out := make([]float64, 0, len(c.elements))
	for _, e := range c.elements {
		out = append(out, e.Strike())
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// --- 变换 ---

// MapChain 逐元素变换，保持顺序与到期日。空链返回 EmptyChain。
func MapChain[T, U any](c *Chain[T], f func(T) U) (*Chain[U], error) {
	return MapChainErr(c, func(e T) (U, error) { return f(e), nil })
}

// MapChainErr 与 MapChain 相同，f 失败时立即返回该错误。
func MapChainErr[T, U any](c *Chain[T], f func(T) (U, error)) (*Chain[U], error) {
	if len(c.elements) == 0 {
		return nil, xerrors.ErrEmptyChain.Derive("map over empty chain").WithContext("maturity", c.maturity)
	}
	out := &Chain[U]{maturity: c.maturity, elements: make([]U, 0, len(c.elements))}
	for _, e := range c.elements {
		u, err := f(e)
		if err != nil {
			return nil, err
		}
		out.elements = append(out.elements, u)
	}
	return out, nil
}

// --- Board 使用的索引维护 ---

func (c *Chain[T]) slots(strike float64) []int {
	if c.index == nil {
		return nil
	}
	return c.index.lookup(strike)
}

func appendIndexed[T Element](c *Chain[T], e T) {
	if c.index == nil {
		reindex(c)
	}
	c.elements = append(c.elements, e)
	c.index.add(e.Strike(), len(c.elements)-1)
}

func removeAt[T Element](c *Chain[T], i int) {
	c.elements = slices.Delete(c.elements, i, i+1)
	reindex(c)
}

func reindex[T Element](c *Chain[T]) {
	c.index = newStrikeIndex()
	for i, e := range c.elements {
		c.index.add(e.Strike(), i)
	}
}
