package option

import (
	"time"

	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

// StrikeBoard 同一行权价、同一到期日的报价集合，内部无序。
type StrikeBoard struct {
	strike   float64
	maturity time.Time
	quotes   []Quote
}

// NewStrikeBoard 创建空的行权价簿。
func NewStrikeBoard(strike float64, maturity time.Time) *StrikeBoard {
	return &StrikeBoard{strike: strike, maturity: maturity}
}

// Push 追加报价，不去重。调用方保证行权价与到期日一致。
func (b *StrikeBoard) Push(q Quote) {
	b.quotes = append(b.quotes, q)
}

// Upsert 按 (方向, 类型) 替换已有报价，不存在时追加。返回是否发生替换。
func (b *StrikeBoard) Upsert(q Quote) (replaced bool) {
	for i := range b.quotes {
		if b.quotes[i].side == q.side && b.quotes[i].optionType == q.optionType {
			b.quotes[i] = q
			return true
		}
	}
	b.quotes = append(b.quotes, q)
	return false
}

// Delete 删除匹配 (方向, 类型) 的全部报价，返回删除条数。
func (b *StrikeBoard) Delete(side Side, typ OptionType) int {
	kept := b.quotes[:0]
	for _, q := range b.quotes {
		if q.side != side || q.optionType != typ {
			kept = append(kept, q)
		}
	}
	n := len(b.quotes) - len(kept)
	clear(b.quotes[len(kept):])
	b.quotes = kept
	return n
}

func (b *StrikeBoard) Strike() float64 { return b.strike }

func (b *StrikeBoard) Maturity() time.Time { return b.maturity }

func (b *StrikeBoard) Len() int { return len(b.quotes) }

// Quotes 返回报价副本。
func (b *StrikeBoard) Quotes() []Quote {
	return append([]Quote(nil), b.quotes...)
}

// AssetPrice 最近一条报价记录的标的价格，空簿返回 0。
func (b *StrikeBoard) AssetPrice() float64 {
	if len(b.quotes) == 0 {
		return 0
	}
	return b.quotes[len(b.quotes)-1].assetPrice
}

// OptionType 首条报价的期权类型。
func (b *StrikeBoard) OptionType() OptionType {
	if len(b.quotes) == 0 {
		return ""
	}
	return b.quotes[0].optionType
}

// best 在指定方向中选取权利金最优的报价，better(a, b) 为真表示 a 优于 b。
func (b *StrikeBoard) best(side Side, better func(a, b float64) bool) (Quote, error) {
	var (
		found   bool
		best    Quote
		premium float64
	)
	for _, q := range b.quotes {
		if q.side != side {
			continue
		}
		p, err := q.Premium()
		if err != nil {
			return Quote{}, err
		}
		if !found || better(p, premium) {
			found, best, premium = true, q, p
		}
	}
	if !found {
		return Quote{}, xerrors.ErrEmptySide.Derive("no %s quote at strike %v", side, b.strike).
			WithContext("maturity", b.maturity)
	}
	return best, nil
}

// BestBid 买方中权利金最高的报价。
func (b *StrikeBoard) BestBid() (Quote, error) {
	return b.best(Bid, func(a, c float64) bool { return a > c })
}

// BestAsk 卖方中权利金最低的报价。
func (b *StrikeBoard) BestAsk() (Quote, error) {
	return b.best(Ask, func(a, c float64) bool { return a < c })
}

func (b *StrikeBoard) touch() (bid, ask Quote, pb, pa float64, err error) {
	if bid, err = b.BestBid(); err != nil {
		return
	}
	if ask, err = b.BestAsk(); err != nil {
		return
	}
	if pb, err = bid.Premium(); err != nil {
		return
	}
	pa, err = ask.Premium()
	return
}

// synthetic 以买方最优报价为模板构造合成报价 (SideNone)。
// 持仓量优先取买方，成交量取双方之和。
func synthetic(bid, ask Quote, premium float64) Quote {
	mid := bid.WithSide(SideNone).WithValue(PriceValue(premium))
	oi := bid.OpenInterest()
	if oi == nil {
		oi = ask.OpenInterest()
	}
	var vol *float64
	for _, v := range []*float64{bid.Volume(), ask.Volume()} {
		if v == nil {
			continue
		}
		if vol == nil {
			vol = Float(0)
		}
		*vol += *v
	}
	if oi == nil && vol == nil {
		mid.additional = nil
	} else {
		mid.additional = &AdditionalData{OpenInterest: oi, Volume: vol}
	}
	return mid
}

// Mid 最优买卖价的算术平均，任一方向为空时失败。
func (b *StrikeBoard) Mid() (Quote, error) {
	bid, ask, pb, pa, err := b.touch()
	if err != nil {
		return Quote{}, err
	}
	return synthetic(bid, ask, (pb+pa)/2), nil
}

// MidWeighted 以各自成交量加权的中间价。
func (b *StrikeBoard) MidWeighted() (Quote, error) {
	bid, ask, pb, pa, err := b.touch()
	if err != nil {
		return Quote{}, err
	}
	vb, va := bid.Volume(), ask.Volume()
	if vb == nil || va == nil {
		return Quote{}, xerrors.ErrMissingVolume.Derive("weighted mid at strike %v needs volume on both sides", b.strike)
	}
	total := *vb + *va
	if total == 0 {
		return Quote{}, xerrors.ErrMissingVolume.Derive("weighted mid at strike %v has zero total volume", b.strike)
	}
	return synthetic(bid, ask, (pb*(*vb)+pa*(*va))/total), nil
}

// Greek 中间价报价的希腊字母。
func (b *StrikeBoard) Greek(kind pricing.GreekKind) (float64, error) {
	mid, err := b.Mid()
	if err != nil {
		return 0, err
	}
	return mid.Greek(kind)
}

// Delta 中间价报价的 delta。
func (b *StrikeBoard) Delta() (float64, error) {
	return b.Greek(pricing.Delta)
}

// OpenInterest 中间价报价的持仓量。
func (b *StrikeBoard) OpenInterest() *float64 {
	mid, err := b.Mid()
	if err != nil {
		return nil
	}
	return mid.OpenInterest()
}
