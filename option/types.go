// Package option 定义期权报价、行权价簿、期权链与期权面板等分层数据模型。
//
// 报价 (Quote) 是不可变值对象；集合类型 (StrikeBoard, Chain, Board) 不做内部同步，
// 同一实例的写操作需要由调用方保证互斥。
package option

import (
	"strings"

	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

// OptionType 期权类型，与定价引擎共用。
type OptionType = pricing.OptionType

const (
	Call = pricing.Call
	Put  = pricing.Put
)

// Side 报价方向。SideNone 表示合成报价 (如中间价)。
type Side int

const (
	SideNone Side = iota
	Bid
	Ask
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "bid"
	case Ask:
		return "ask"
	default:
		return "none"
	}
}

// ParseSide 解析报价方向，空串视为 SideNone。
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "mid":
		return SideNone, nil
	case "bid", "b":
		return Bid, nil
	case "ask", "a", "offer":
		return Ask, nil
	}
	return SideNone, xerrors.ErrInvalidInput.Derive("unknown side %q", s)
}

// ValueKind 标识 Value 当前持有的表示。
type ValueKind int

const (
	valueUnset ValueKind = iota
	KindPrice
	KindVolatility
)

func (k ValueKind) String() string {
	switch k {
	case KindPrice:
		return "price"
	case KindVolatility:
		return "volatility"
	default:
		return "unset"
	}
}

// Value 期权价值：权利金或波动率，二者只能持有其一。
type Value struct {
	kind   ValueKind
	amount float64
}

// PriceValue 以权利金表示的价值。
func PriceValue(amount float64) Value {
	return Value{kind: KindPrice, amount: amount}
}

// VolatilityValue 以年化波动率表示的价值。
func VolatilityValue(sigma float64) Value {
	return Value{kind: KindVolatility, amount: sigma}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Amount() float64 { return v.amount }

func (v Value) IsSet() bool { return v.kind != valueUnset }

// AdditionalData 报价附带的持仓量与成交量，nil 表示缺失。
type AdditionalData struct {
	OpenInterest *float64
	Volume       *float64
}

// Float 返回 v 的指针，便于填充可选字段。
func Float(v float64) *float64 {
	return &v
}

func (a *AdditionalData) clone() *AdditionalData {
	if a == nil {
		return nil
	}
	out := &AdditionalData{}
	if a.OpenInterest != nil {
		out.OpenInterest = Float(*a.OpenInterest)
	}
	if a.Volume != nil {
		out.Volume = Float(*a.Volume)
	}
	return out
}
